package evaluator

import (
	"strings"

	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/errors"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// evalIdentifier looks up a bound name; an undeclared identifier fails,
// reporting an "undefined variable: <name>" error.
func (in *Interpreter) evalIdentifier(n *ast.Identifier, env *runtime.Environment) (values.Value, Completion, error) {
	v, ok := env.Get(n.Name)
	if !ok {
		return values.Undefined{}, Normal(), errors.ErrUndefinedVariable(n, n.Name)
	}
	return v, Normal(), nil
}

// evalThisExpression resolves `this` from the nearest enclosing non-arrow
// call frame's binding, falling back to Undefined at top level or inside
// an arrow chain with no enclosing call.
func (in *Interpreter) evalThisExpression(n *ast.ThisExpression, env *runtime.Environment) (values.Value, Completion, error) {
	if v, ok := env.Get("this"); ok {
		return v, Normal(), nil
	}
	return values.Undefined{}, Normal(), nil
}

// evalTemplateLiteral interleaves the quasis with the evaluated
// expressions in source order.
func (in *Interpreter) evalTemplateLiteral(n *ast.TemplateLiteral, env *runtime.Environment) (values.Value, Completion, error) {
	var b strings.Builder
	for i, q := range n.Quasis {
		b.WriteString(q.Cooked)
		if i < len(n.Expressions) {
			v, c, err := in.Eval(n.Expressions[i], env)
			if err != nil || !c.IsNormal() {
				return values.Undefined{}, c, err
			}
			b.WriteString(v.String())
		}
	}
	if err := in.Meter.Charge(n, b.Len()); err != nil {
		return values.Undefined{}, Normal(), err
	}
	return values.String(b.String()), Normal(), nil
}

// evalTaggedTemplateExpression calls Tag with a frozen array of cooked
// strings carrying a frozen `raw` field, followed by the evaluated
// expressions.
func (in *Interpreter) evalTaggedTemplateExpression(n *ast.TaggedTemplateExpression, env *runtime.Environment) (values.Value, Completion, error) {
	tagFn, c, err := in.Eval(n.Tag, env)
	if err != nil || !c.IsNormal() {
		return values.Undefined{}, c, err
	}

	cooked := make([]values.Value, len(n.Quasi.Quasis))
	raw := make([]values.Value, len(n.Quasi.Quasis))
	for i, q := range n.Quasi.Quasis {
		cooked[i] = values.String(q.Cooked)
		raw[i] = values.String(q.Raw)
	}
	rawArr := values.NewArray(raw...)
	rawArr.Freeze()

	cookedArr := values.NewArray(cooked...)
	cookedArr.SetRaw(rawArr)
	cookedArr.Freeze()

	args := []values.Value{cookedArr}
	for _, e := range n.Quasi.Expressions {
		v, c, err := in.Eval(e, env)
		if err != nil || !c.IsNormal() {
			return values.Undefined{}, c, err
		}
		args = append(args, v)
	}

	v, c, err := in.call(tagFn, values.Undefined{}, args, n)
	return v, c, err
}

// evalArrayExpression builds an array literal in source order, expanding
// SpreadElement entries and leaving nil elements as holes.
func (in *Interpreter) evalArrayExpression(n *ast.ArrayExpression, env *runtime.Environment) (values.Value, Completion, error) {
	arr := values.NewArrayOfLength(0)
	for _, el := range n.Elements {
		if el == nil {
			arr.Push(values.Undefined{})
			continue
		}
		if spread, ok := el.(*ast.SpreadElement); ok {
			v, c, err := in.Eval(spread.Argument, env)
			if err != nil || !c.IsNormal() {
				return values.Undefined{}, c, err
			}
			next, err := in.iterate(spread, v)
			if err != nil {
				return values.Undefined{}, Normal(), err
			}
			for {
				val, ok, c, err := next()
				if err != nil || !c.IsNormal() {
					return values.Undefined{}, c, err
				}
				if !ok {
					break
				}
				arr.Push(val)
			}
			continue
		}
		v, c, err := in.Eval(el, env)
		if err != nil || !c.IsNormal() {
			return values.Undefined{}, c, err
		}
		arr.Push(v)
	}
	if err := in.Meter.Charge(n, 8+arr.Len()); err != nil {
		return values.Undefined{}, Normal(), err
	}
	return arr, Normal(), nil
}

// evalObjectExpression builds an object literal in source order, honoring
// shorthand, computed keys, and object-spread properties.
func (in *Interpreter) evalObjectExpression(n *ast.ObjectExpression, env *runtime.Environment) (values.Value, Completion, error) {
	obj := values.NewObject()
	for _, prop := range n.Properties {
		if prop.IsSpread {
			v, c, err := in.Eval(prop.Value, env)
			if err != nil || !c.IsNormal() {
				return values.Undefined{}, c, err
			}
			src, ok := v.(*values.Object)
			if !ok {
				return values.Undefined{}, Normal(), errors.NewRuntimeErrorf(errors.PositionFromNode(prop), errors.ExpressionFromNode(prop), errors.ErrMsgDestructureMismatch, values.TypeOf(v), "object")
			}
			for _, k := range src.Keys() {
				val, _ := src.Get(k)
				obj.Set(k, val)
			}
			continue
		}
		key, err := in.propertyKey(prop, env)
		if err != nil {
			return values.Undefined{}, Normal(), err
		}
		if err := runtime.CheckPropertyAccess(prop, key); err != nil {
			return values.Undefined{}, Normal(), err
		}
		v, c, err := in.Eval(prop.Value, env)
		if err != nil || !c.IsNormal() {
			return values.Undefined{}, c, err
		}
		obj.Set(key, v)
	}
	if err := in.Meter.Charge(n, 8+obj.Len()); err != nil {
		return values.Undefined{}, Normal(), err
	}
	return obj, Normal(), nil
}
