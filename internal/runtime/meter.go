package runtime

import (
	"context"

	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/errors"
)

// Limits bounds how much of the host's resources a single evaluation may
// consume. A zero MaxLoopIterations or MaxMemoryBytes disables that
// check; a zero MaxCallStackDepth falls back to NewCallStack's default of
// 1024.
type Limits struct {
	MaxCallStackDepth int
	MaxLoopIterations int
	MaxMemoryBytes    int
}

// DefaultLimits returns the limits a new Config starts from absent
// explicit overrides.
func DefaultLimits() Limits {
	return Limits{
		MaxCallStackDepth: 1024,
		MaxLoopIterations: 1_000_000,
		MaxMemoryBytes:    64 << 20,
	}
}

// Meter tracks a single evaluation's resource consumption against Limits:
// call-stack depth (delegated to CallStack), per-loop iteration counts
// keyed by the loop node's own identity, and an additive memory-charge
// approximation. It also exposes the cancellation signal the async
// executor and long-running loops poll.
type Meter struct {
	limits     Limits
	calls      *CallStack
	iterations map[ast.Node]int
	charged    int
	ctx        context.Context
}

// NewMeter creates a meter bound to ctx (cancellation/deadline source)
// enforcing limits.
func NewMeter(ctx context.Context, limits Limits) *Meter {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Meter{
		limits:     limits,
		calls:      NewCallStack(limits.MaxCallStackDepth),
		iterations: make(map[ast.Node]int),
		ctx:        ctx,
	}
}

// CallStack returns the meter's call stack.
func (m *Meter) CallStack() *CallStack {
	return m.calls
}

// EnterCall pushes a call frame, returning a resource error if doing so
// would exceed MaxCallStackDepth.
func (m *Meter) EnterCall(node ast.Node, functionName string) error {
	if m.calls.WillOverflow() {
		return errors.ErrMaxCallStackDepth(node, m.calls.MaxDepth())
	}
	var pos ast.Position
	if node != nil {
		pos = node.Pos()
	}
	m.calls.Push(functionName, pos)
	return nil
}

// ExitCall pops the most recent call frame.
func (m *Meter) ExitCall() {
	m.calls.Pop()
}

// Iterate charges one iteration of the loop identified by node, returning
// a resource error once MaxLoopIterations is exceeded. node's identity
// (not its contents) is the key, so the same source loop re-entered via
// recursion gets an independent counter per activation only if the
// evaluator passes a fresh sub-node per activation; ordinary (non-
// recursive) loop execution shares one counter per AST loop node for the
// whole evaluation, matching spec's "per-loop iteration counters keyed by
// loop node identity".
func (m *Meter) Iterate(node ast.Node) error {
	if m.limits.MaxLoopIterations <= 0 {
		return nil
	}
	m.iterations[node]++
	if m.iterations[node] > m.limits.MaxLoopIterations {
		return errors.ErrMaxLoopIterations(node, m.limits.MaxLoopIterations)
	}
	return nil
}

// Charge adds n bytes to the memory-charge approximation, returning a
// resource error once MaxMemoryBytes is exceeded. The charge is additive
// and never decremented within one evaluation: it approximates live heap
// growth well enough to bound runaway allocation without tracking frees.
func (m *Meter) Charge(node ast.Node, n int) error {
	if m.limits.MaxMemoryBytes <= 0 {
		return nil
	}
	m.charged += n
	if m.charged > m.limits.MaxMemoryBytes {
		return errors.MaxMemoryChargeError(errors.PositionFromNode(node), errors.ExpressionFromNode(node), m.limits.MaxMemoryBytes)
	}
	return nil
}

// CheckCancellation returns a resource error if the meter's context has
// been canceled or its deadline exceeded. Called at async suspension
// points (await, yield) and on every loop iteration so cooperative
// cancellation is timely without preempting mid-expression.
func (m *Meter) CheckCancellation() error {
	select {
	case <-m.ctx.Done():
		return errors.EvaluationCanceledError()
	default:
		return nil
	}
}

// Context returns the meter's bound context, e.g. for passing to a host
// function that itself accepts one.
func (m *Meter) Context() context.Context {
	return m.ctx
}
