package evaluator

import (
	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/errors"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// iterNext pulls the next value from an iteration source. ok is false
// once the source is exhausted; err aborts iteration (propagated as a
// Completion/error by the caller).
type iterNext func() (value values.Value, ok bool, completion Completion, err error)

// iterate resolves v's iterator protocol for `for-of`/`yield*`/spread:
// arrays iterate their own elements, strings iterate their code points
// (runes) as single-character strings, a GeneratorHandle is driven
// through its generator's Next, and any object exposing a callable `next`
// method is driven as a user-defined iterator by calling that
// method repeatedly and reading its result object's `value`/`done`
// properties, per spec's recommendation to support both array/host
// iterables and sandbox-defined iterators.
func (in *Interpreter) iterate(node ast.Node, v values.Value) (iterNext, error) {
	switch src := v.(type) {
	case *values.Array:
		i := 0
		elems := src.Values()
		return func() (values.Value, bool, Completion, error) {
			if i >= len(elems) {
				return values.Undefined{}, false, Normal(), nil
			}
			val := elems[i]
			i++
			return val, true, Normal(), nil
		}, nil

	case values.String:
		runes := []rune(string(src))
		i := 0
		return func() (values.Value, bool, Completion, error) {
			if i >= len(runes) {
				return values.Undefined{}, false, Normal(), nil
			}
			val := values.String(string(runes[i]))
			i++
			return val, true, Normal(), nil
		}, nil

	case *runtime.GeneratorHandle:
		return func() (values.Value, bool, Completion, error) {
			val, done, err := src.Gen.Next(in.callContext(), values.Undefined{})
			if err != nil {
				return values.Undefined{}, false, Normal(), err
			}
			if done {
				return values.Undefined{}, false, Normal(), nil
			}
			return val, true, Normal(), nil
		}, nil

	case *values.Object:
		nextFn, ok := src.Get("next")
		if !ok {
			return nil, errors.NotIterableError(errors.PositionFromNode(node), errors.ExpressionFromNode(node), "object")
		}
		return func() (values.Value, bool, Completion, error) {
			result, c, err := in.call(nextFn, src, nil, node)
			if err != nil || c.Kind != CompletionNormal {
				return values.Undefined{}, false, c, err
			}
			resultObj, ok := result.(*values.Object)
			if !ok {
				return values.Undefined{}, false, Normal(), errors.NotIterableError(errors.PositionFromNode(node), errors.ExpressionFromNode(node), "object")
			}
			doneVal, _ := resultObj.Get("done")
			if doneVal.Truthy() {
				return values.Undefined{}, false, Normal(), nil
			}
			val, _ := resultObj.Get("value")
			return val, true, Normal(), nil
		}, nil

	default:
		return nil, errors.NotIterableError(errors.PositionFromNode(node), errors.ExpressionFromNode(node), values.TypeOf(v))
	}
}
