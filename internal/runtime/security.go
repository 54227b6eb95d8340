package runtime

import (
	"sync/atomic"

	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/errors"
)

// forbiddenProperties blocks the handful of property names that would
// otherwise let sandboxed code reach outside the object/array model this
// interpreter exposes (there is no real prototype chain to escape, but
// these names are rejected unconditionally since host embedders may set
// up bridges where walking them would be meaningful).
var forbiddenProperties = map[string]bool{
	"__proto__":   true,
	"constructor": true,
	"prototype":   true,
}

// CheckPropertyAccess returns a security error if name is forbidden on
// read, write, or computed-member access of any object/array value.
func CheckPropertyAccess(node ast.Node, name string) error {
	if forbiddenProperties[name] {
		return errors.ErrForbiddenProperty(node, name)
	}
	return nil
}

// Mode selects whether an Interpreter instance evaluates synchronously
// or cooperatively asynchronously; some operations are only legal in one
// mode.
type Mode int

const (
	ModeSync Mode = iota
	ModeAsync
)

// Guard enforces the sandbox's capability and isolation rules for one
// Interpreter: synchronous mode blocks async sandbox/host calls and
// async generators, host-function values refuse property introspection,
// and — when Strict is set — at most one evaluation (sync or async) may
// be in flight at a time. Absent Strict, concurrent async calls on the
// same Interpreter share its root environment and are free to interleave,
// same as two goroutines racing on any other shared mutable state; Strict
// trades that concurrency for exclusive access.
type Guard struct {
	mode   Mode
	Strict bool
	inUse  int32
}

// NewGuard creates a guard for an interpreter running in mode, with
// strict evaluation isolation disabled by default.
func NewGuard(mode Mode) *Guard {
	return &Guard{mode: mode}
}

// Mode reports the guard's evaluation mode.
func (g *Guard) Mode() Mode {
	return g.mode
}

// Enter acquires the strict-isolation latch for the duration of one
// evaluate/evaluateAsync call, returning a security error if Strict is
// set and another evaluation (on the same Interpreter) is already in
// flight. When Strict is false, Enter always succeeds and every call
// shares the same environment concurrently. Callers must invoke the
// returned release function (via defer) on every exit path.
func (g *Guard) Enter() (release func(), err error) {
	if !g.Strict {
		return func() {}, nil
	}
	if !atomic.CompareAndSwapInt32(&g.inUse, 0, 1) {
		return nil, errors.ReentrantEvaluationError()
	}
	return func() { atomic.StoreInt32(&g.inUse, 0) }, nil
}

// EnterMode is Enter plus setting the evaluation mode for the call about
// to run. A single Guard backs both evaluate (ModeSync) and evaluateAsync
// (ModeAsync) on one Interpreter. Under Strict, the mode only ever
// changes while the latch is held, so CheckAsyncCall/CheckAsyncGenerator
// (only called from inside the latched window) always see the mode the
// current call entered with; without Strict, concurrent calls of
// different modes can race on g.mode, so embedders mixing Evaluate and
// EvaluateAsync concurrently on one Interpreter should set Strict.
func (g *Guard) EnterMode(mode Mode) (release func(), err error) {
	if !g.Strict {
		g.mode = mode
		return func() {}, nil
	}
	if !atomic.CompareAndSwapInt32(&g.inUse, 0, 1) {
		return nil, errors.ReentrantEvaluationError()
	}
	g.mode = mode
	return func() { atomic.StoreInt32(&g.inUse, 0) }, nil
}

// CheckAsyncCall returns a security error if calling an async function,
// awaiting, or constructing an async generator is attempted while the
// guard's mode is synchronous.
func (g *Guard) CheckAsyncCall(node ast.Node) error {
	if g.mode == ModeSync {
		return errors.AsyncInSyncModeError(errors.PositionFromNode(node), errors.ExpressionFromNode(node))
	}
	return nil
}

// CheckAsyncGenerator returns a security error if constructing an async
// generator is attempted while the guard's mode is synchronous.
func (g *Guard) CheckAsyncGenerator(node ast.Node) error {
	if g.mode == ModeSync {
		return errors.NewSecurityError(errors.PositionFromNode(node), errors.ErrMsgAsyncGeneratorBlocked, errors.ExpressionFromNode(node))
	}
	return nil
}

// CheckHostFunctionIntrospection returns a security error: host functions
// never expose properties to sandboxed code, whatever name is requested.
func CheckHostFunctionIntrospection(node ast.Node) error {
	return errors.HostFunctionLockdownError(errors.PositionFromNode(node), errors.ExpressionFromNode(node))
}
