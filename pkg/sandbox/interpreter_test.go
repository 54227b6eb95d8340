package sandbox

import (
	"context"
	"testing"
	"time"

	"github.com/samlaycock/nookjs/internal/values"
)

func TestEvaluateArithmetic(t *testing.T) {
	in := New(Config{})
	src := program(exprStmt(binExpr("+", numLit(1), binExpr("*", numLit(2), numLit(3)))))
	result, err := in.Evaluate(src, nil)
	if err != nil {
		t.Fatalf("Evaluate() unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatal("Evaluate() should succeed")
	}
	if result.Value != values.Number(7) {
		t.Errorf("result = %v, want 7", result.Value)
	}
}

func TestEvaluateVariableAndFunctionDeclaration(t *testing.T) {
	in := New(Config{})
	src := program(
		funcDecl("add", []any{ident("a"), ident("b")}, []any{
			returnStmt(binExpr("+", ident("a"), ident("b"))),
		}),
		varDecl("var", "sum", callExpr(ident("add"), numLit(2), numLit(3))),
		exprStmt(ident("sum")),
	)
	result, err := in.Evaluate(src, nil)
	if err != nil {
		t.Fatalf("Evaluate() unexpected error: %v", err)
	}
	if result.Value != values.Number(5) {
		t.Errorf("result = %v, want 5", result.Value)
	}
}

func TestEvaluateIfElse(t *testing.T) {
	in := New(Config{})
	src := program(
		varDecl("var", "x", numLit(0)),
		ifStmt(
			binExpr(">", numLit(1), numLit(2)),
			blockStmt(exprStmt(assignExpr("=", ident("x"), numLit(1)))),
			blockStmt(exprStmt(assignExpr("=", ident("x"), numLit(2)))),
		),
		exprStmt(ident("x")),
	)
	result, err := in.Evaluate(src, nil)
	if err != nil {
		t.Fatalf("Evaluate() unexpected error: %v", err)
	}
	if result.Value != values.Number(2) {
		t.Errorf("result = %v, want 2 (else branch)", result.Value)
	}
}

func TestEvaluateWhileLoopWithBreak(t *testing.T) {
	in := New(Config{})
	src := program(
		varDecl("var", "i", numLit(0)),
		whileStmt(
			boolLit(true),
			blockStmt(
				ifStmt(binExpr(">=", ident("i"), numLit(3)), breakStmt(), nil),
				exprStmt(updateExpr("++", ident("i"), false)),
			),
		),
		exprStmt(ident("i")),
	)
	result, err := in.Evaluate(src, nil)
	if err != nil {
		t.Fatalf("Evaluate() unexpected error: %v", err)
	}
	if result.Value != values.Number(3) {
		t.Errorf("result = %v, want 3", result.Value)
	}
}

func TestEvaluateTryCatch(t *testing.T) {
	in := New(Config{})
	src := program(
		varDecl("var", "caught", boolLit(false)),
		tryStmt(
			blockStmt(throwStmt(strLit("boom"))),
			ident("e"),
			blockStmt(exprStmt(assignExpr("=", ident("caught"), boolLit(true)))),
			nil,
		),
		exprStmt(ident("caught")),
	)
	result, err := in.Evaluate(src, nil)
	if err != nil {
		t.Fatalf("Evaluate() unexpected error: %v", err)
	}
	if result.Value != values.Boolean(true) {
		t.Errorf("result = %v, want true", result.Value)
	}
}

func TestEvaluateUncaughtThrowReturnsError(t *testing.T) {
	in := New(Config{})
	src := program(throwStmt(strLit("kaboom")))
	if _, err := in.Evaluate(src, nil); err == nil {
		t.Fatal("Evaluate() should return an error for an uncaught throw")
	}
}

func TestEvaluateRegisteredHostFunction(t *testing.T) {
	globals := NewGlobals()
	globals.RegisterFunction("double", func(_ context.Context, _ values.Value, args []values.Value) (values.Value, error) {
		n, _ := args[0].(values.Number)
		return values.Number(float64(n) * 2), nil
	})
	in := New(Config{Globals: globals})
	src := program(exprStmt(callExpr(ident("double"), numLit(21))))
	result, err := in.Evaluate(src, nil)
	if err != nil {
		t.Fatalf("Evaluate() unexpected error: %v", err)
	}
	if result.Value != values.Number(42) {
		t.Errorf("result = %v, want 42", result.Value)
	}
}

func TestEvaluateLoopLimitExceeded(t *testing.T) {
	in := New(Config{Limits: Limits{MaxLoopIterations: 5, MaxCallStackDepth: 1024, MaxMemoryBytes: 64 << 20}})
	src := program(
		varDecl("var", "i", numLit(0)),
		whileStmt(boolLit(true), blockStmt(exprStmt(updateExpr("++", ident("i"), false)))),
	)
	if _, err := in.Evaluate(src, nil); err == nil {
		t.Fatal("Evaluate() should fail once MaxLoopIterations is exceeded")
	}
}

func TestEvaluateCallOptionsOverrideLimits(t *testing.T) {
	in := New(Config{Limits: DefaultLimits()})
	src := program(
		varDecl("var", "i", numLit(0)),
		whileStmt(boolLit(true), blockStmt(exprStmt(updateExpr("++", ident("i"), false)))),
	)
	opts := &CallOptions{Limits: Limits{MaxLoopIterations: 10}}
	if _, err := in.Evaluate(src, opts); err == nil {
		t.Fatal("Evaluate() should fail under the tighter per-call limit override")
	}
}

func TestAwaitRejectedInSyncMode(t *testing.T) {
	in := New(Config{})
	src := program(exprStmt(awaitExpr(numLit(1))))
	if _, err := in.Evaluate(src, nil); err == nil {
		t.Fatal("awaiting under Evaluate (sync mode) should be a security error")
	}
}

func TestEvaluateAsyncAllowsAwait(t *testing.T) {
	in := New(Config{})
	src := program(exprStmt(awaitExpr(numLit(5))))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	result, err := in.EvaluateAsync(ctx, src, nil)
	if err != nil {
		t.Fatalf("EvaluateAsync() unexpected error: %v", err)
	}
	if result.Value != values.Number(5) {
		t.Errorf("await of a non-Promise value should resolve to itself, got %v", result.Value)
	}
}

func TestInterpreterAllowsConcurrentEvaluateByDefault(t *testing.T) {
	in := New(Config{})
	release, err := in.guard.Enter()
	if err != nil {
		t.Fatalf("Enter() unexpected error: %v", err)
	}
	defer release()

	src := program(exprStmt(numLit(1)))
	if _, err := in.Evaluate(src, nil); err != nil {
		t.Fatalf("Evaluate() should succeed concurrently without StrictEvaluationIsolation, got %v", err)
	}
}

func TestInterpreterRejectsConcurrentEvaluateWhenStrict(t *testing.T) {
	in := New(Config{StrictEvaluationIsolation: true})
	release, err := in.guard.Enter()
	if err != nil {
		t.Fatalf("Enter() unexpected error: %v", err)
	}
	defer release()

	src := program(exprStmt(numLit(1)))
	if _, err := in.Evaluate(src, nil); err == nil {
		t.Fatal("Evaluate() should fail while another evaluation is already in flight under StrictEvaluationIsolation")
	}
}

func TestEvaluateInvalidDocumentReturnsError(t *testing.T) {
	in := New(Config{})
	if _, err := in.Evaluate("not json", nil); err == nil {
		t.Fatal("Evaluate() should reject a non-JSON document")
	}
	if _, err := in.Evaluate(`{"type":"NotAProgram"}`, nil); err == nil {
		t.Fatal("Evaluate() should reject a document whose root isn't a Program")
	}
}

func TestPerCallVarDoesNotLeakAcrossEvaluateCalls(t *testing.T) {
	in := New(Config{})
	first := program(varDecl("var", "leaked", numLit(1)))
	if _, err := in.Evaluate(first, nil); err != nil {
		t.Fatalf("first Evaluate() unexpected error: %v", err)
	}

	second := program(exprStmt(ident("leaked")))
	if _, err := in.Evaluate(second, nil); err == nil {
		t.Fatal("a var declared in one Evaluate call should not be visible in the next")
	}
}
