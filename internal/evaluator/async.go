package evaluator

import (
	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/errors"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// awaitValue is the suspension point `await` uses: a non-Promise value
// resolves to itself immediately (matching the host language's "await on
// a non-thenable" rule), a fulfilled Promise's value is returned, and a
// rejected Promise throws its reason as an ordinary, catchable sandbox
// Completion rather than a host-level error. Each await is also a
// cancellation fence: a canceled evaluation context aborts the whole
// evaluation instead of resolving. Awaiting a host function value directly
// (rather than the result of calling it) is a type error — it is never a
// thenable, and silently resolving to itself would hide what's almost
// always a missing `()`.
func (in *Interpreter) awaitValue(n *ast.AwaitExpression, v values.Value) (values.Value, Completion, error) {
	if _, ok := v.(*runtime.HostFunction); ok {
		return values.Undefined{}, Normal(), errors.ErrCannotAwaitHostFunction(n)
	}
	p, ok := v.(*runtime.Promise)
	if !ok {
		return v, Normal(), nil
	}
	if err := in.Meter.CheckCancellation(); err != nil {
		return values.Undefined{}, Normal(), err
	}
	settled, rejected, err := p.Await(in.Meter.Context())
	if err != nil {
		return values.Undefined{}, Normal(), errors.EvaluationCanceledError()
	}
	if rejected {
		return values.Undefined{}, Throw(settled), nil
	}
	return settled, Normal(), nil
}
