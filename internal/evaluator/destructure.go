package evaluator

import (
	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/errors"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// declareBinding introduces the bindings named by target (an Identifier
// or an Object/Array destructuring pattern, possibly wrapped in
// AssignmentPattern for a default) in env, sourcing their values from v.
// It backs variable declarators, function parameters, and catch clause
// parameters — every binding-introducing position in the grammar.
func (in *Interpreter) declareBinding(target ast.Node, v values.Value, env *runtime.Environment, kind runtime.BindingKind) (Completion, error) {
	switch t := target.(type) {
	case *ast.Identifier:
		env.Declare(t.Name, v, kind)
		return Normal(), nil

	case *ast.AssignmentPattern:
		if isUndefined(v) {
			dv, c, err := in.Eval(t.Right, env)
			if err != nil || !c.IsNormal() {
				return c, err
			}
			v = dv
		}
		return in.declareBinding(t.Left, v, env, kind)

	case *ast.ArrayPattern:
		next, err := in.iterate(t, v)
		if err != nil {
			return Normal(), err
		}
		for _, el := range t.Elements {
			if el == nil {
				if _, _, _, err := next(); err != nil {
					return Normal(), err
				}
				continue
			}
			if rest, ok := el.(*ast.RestElement); ok {
				var remaining []values.Value
				for {
					val, ok, c, err := next()
					if err != nil || !c.IsNormal() {
						return c, err
					}
					if !ok {
						break
					}
					remaining = append(remaining, val)
				}
				if c, err := in.declareBinding(rest.Argument, values.NewArray(remaining...), env, kind); err != nil || !c.IsNormal() {
					return c, err
				}
				continue
			}
			val, ok, c, err := next()
			if err != nil || !c.IsNormal() {
				return c, err
			}
			if !ok {
				val = values.Undefined{}
			}
			if c, err := in.declareBinding(el, val, env, kind); err != nil || !c.IsNormal() {
				return c, err
			}
		}
		return Normal(), nil

	case *ast.ObjectPattern:
		obj, ok := v.(*values.Object)
		if !ok {
			return Normal(), errors.NewRuntimeErrorf(errors.PositionFromNode(t), errors.ExpressionFromNode(t), errors.ErrMsgDestructureMismatch, values.TypeOf(v), "object")
		}
		consumed := make(map[string]bool)
		for _, prop := range t.Properties {
			switch p := prop.(type) {
			case *ast.RestElement:
				rest := values.NewObject()
				for _, k := range obj.Keys() {
					if consumed[k] {
						continue
					}
					val, _ := obj.Get(k)
					rest.Set(k, val)
				}
				if c, err := in.declareBinding(p.Argument, rest, env, kind); err != nil || !c.IsNormal() {
					return c, err
				}
			case *ast.Property:
				key, err := in.propertyKey(p, env)
				if err != nil {
					return Normal(), err
				}
				if err := runtime.CheckPropertyAccess(t, key); err != nil {
					return Normal(), err
				}
				consumed[key] = true
				val, _ := obj.Get(key)
				if c, err := in.declareBinding(p.Value, val, env, kind); err != nil || !c.IsNormal() {
					return c, err
				}
			}
		}
		return Normal(), nil

	default:
		return Normal(), errors.ErrNotImplemented(target, "destructuring target")
	}
}

// propertyKey resolves an object/array-pattern or literal property's key
// name, evaluating it in env when Computed.
func (in *Interpreter) propertyKey(p *ast.Property, env *runtime.Environment) (string, error) {
	if !p.Computed {
		switch k := p.Key.(type) {
		case *ast.Identifier:
			return k.Name, nil
		case *ast.StringLiteral:
			return k.Value, nil
		case *ast.NumericLiteral:
			return values.Number(k.Value).String(), nil
		}
	}
	v, c, err := in.Eval(p.Key, env)
	if err != nil {
		return "", err
	}
	if !c.IsNormal() {
		return "", errors.ErrNotImplemented(p.Key, "non-normal completion in computed key")
	}
	return v.String(), nil
}

func isUndefined(v values.Value) bool {
	_, ok := v.(values.Undefined)
	return ok
}
