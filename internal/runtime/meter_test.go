package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/samlaycock/nookjs/internal/ast"
)

func TestMeterIterateEnforcesLimit(t *testing.T) {
	m := NewMeter(context.Background(), Limits{MaxLoopIterations: 3})
	node := &ast.BlockStatement{}
	for i := 0; i < 3; i++ {
		if err := m.Iterate(node); err != nil {
			t.Fatalf("Iterate() unexpected error on iteration %d: %v", i, err)
		}
	}
	if err := m.Iterate(node); err == nil {
		t.Fatal("Iterate() should fail once the loop limit is exceeded")
	}
}

func TestMeterIterateKeyedByNodeIdentity(t *testing.T) {
	m := NewMeter(context.Background(), Limits{MaxLoopIterations: 1})
	a := &ast.BlockStatement{}
	b := &ast.BlockStatement{}
	if err := m.Iterate(a); err != nil {
		t.Fatalf("Iterate(a) unexpected error: %v", err)
	}
	if err := m.Iterate(b); err != nil {
		t.Fatalf("Iterate(b) should have its own counter, got error: %v", err)
	}
}

func TestMeterIterateDisabledWhenZero(t *testing.T) {
	m := NewMeter(context.Background(), Limits{})
	node := &ast.BlockStatement{}
	for i := 0; i < 10_000; i++ {
		if err := m.Iterate(node); err != nil {
			t.Fatalf("Iterate() should never fail with MaxLoopIterations=0, got %v", err)
		}
	}
}

func TestMeterChargeEnforcesLimit(t *testing.T) {
	m := NewMeter(context.Background(), Limits{MaxMemoryBytes: 100})
	node := &ast.BlockStatement{}
	if err := m.Charge(node, 60); err != nil {
		t.Fatalf("Charge(60) unexpected error: %v", err)
	}
	if err := m.Charge(node, 60); err == nil {
		t.Fatal("Charge() should fail once cumulative charge exceeds the limit")
	}
}

func TestMeterEnterCallRespectsCallStackDepth(t *testing.T) {
	m := NewMeter(context.Background(), Limits{MaxCallStackDepth: 2})
	if err := m.EnterCall(nil, "f1"); err != nil {
		t.Fatalf("EnterCall(1) unexpected error: %v", err)
	}
	if err := m.EnterCall(nil, "f2"); err != nil {
		t.Fatalf("EnterCall(2) unexpected error: %v", err)
	}
	if err := m.EnterCall(nil, "f3"); err == nil {
		t.Fatal("EnterCall should fail once MaxCallStackDepth is exceeded")
	}
	m.ExitCall()
	m.ExitCall()
}

func TestMeterCheckCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := NewMeter(ctx, Limits{})
	if err := m.CheckCancellation(); err != nil {
		t.Fatalf("CheckCancellation() should be nil before cancel, got %v", err)
	}
	cancel()
	if err := m.CheckCancellation(); err == nil {
		t.Fatal("CheckCancellation() should report an error once the context is canceled")
	}
}

func TestMeterCheckCancellationOnDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	m := NewMeter(ctx, Limits{})
	<-ctx.Done()
	if err := m.CheckCancellation(); err == nil {
		t.Fatal("CheckCancellation() should report an error once the deadline elapses")
	}
}
