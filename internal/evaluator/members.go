package evaluator

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/errors"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// evalMemberExpression reads obj[key] / obj.key, short-circuiting optional
// chains and rejecting the forbidden property names before ever touching
// the receiver.
func (in *Interpreter) evalMemberExpression(n *ast.MemberExpression, env *runtime.Environment) (values.Value, Completion, error) {
	obj, c, err := in.Eval(n.Object, env)
	if err != nil || !c.IsNormal() {
		return values.Undefined{}, c, err
	}
	if n.Optional && isNullish(obj) {
		return values.Undefined{}, Normal(), nil
	}
	v, err := in.getMember(n, obj, env)
	if err != nil {
		return values.Undefined{}, Normal(), err
	}
	return v, Normal(), nil
}

// memberKey resolves a (possibly computed) MemberExpression's property
// name, evaluating the key expression under env when Computed.
func (in *Interpreter) memberKey(n *ast.MemberExpression, env *runtime.Environment) (string, error) {
	if !n.Computed {
		ident, ok := n.Property.(*ast.Identifier)
		if !ok {
			return "", errors.ErrNotImplemented(n.Property, "non-identifier member key")
		}
		return ident.Name, nil
	}
	v, c, err := in.Eval(n.Property, env)
	if err != nil {
		return "", err
	}
	if !c.IsNormal() {
		return "", errors.ErrNotImplemented(n.Property, "non-normal completion in computed member key")
	}
	return v.String(), nil
}

// getMember reads a resolved key off obj, enforcing forbidden-property and
// host-function lockdown checks first. It is shared by evalMemberExpression
// and evalCallee (method-call receiver resolution).
func (in *Interpreter) getMember(n *ast.MemberExpression, obj values.Value, env *runtime.Environment) (values.Value, error) {
	if isNullish(obj) {
		return values.Undefined{}, errors.NewTypeErrorf(errors.PositionFromNode(n), errors.ExpressionFromNode(n), errors.ErrMsgInvalidOperation, "member access", values.TypeOf(obj))
	}
	key, err := in.memberKey(n, env)
	if err != nil {
		return values.Undefined{}, err
	}
	if err := runtime.CheckPropertyAccess(n, key); err != nil {
		return values.Undefined{}, err
	}

	switch src := obj.(type) {
	case *runtime.HostFunction:
		if key == "length" {
			return values.Number(functionArity(src)), nil
		}
		if key == "name" {
			return values.String(functionName(src)), nil
		}
		if src.Props != nil {
			if v, ok := src.Props.Get(key); ok {
				return v, nil
			}
		}
		return values.Undefined{}, runtime.CheckHostFunctionIntrospection(n)

	case *runtime.SandboxFunction:
		if key == "length" {
			return values.Number(functionArity(src)), nil
		}
		if key == "name" {
			return values.String(functionName(src)), nil
		}
		return values.Undefined{}, runtime.CheckHostFunctionIntrospection(n)

	case *values.Array:
		if key == "length" {
			return values.Number(src.Len()), nil
		}
		if key == "raw" {
			if raw := src.Raw(); raw != nil {
				return raw, nil
			}
			return values.Undefined{}, nil
		}
		if idx, ok := parseIndex(key); ok {
			v, _ := src.Get(idx)
			return v, nil
		}
		if fn, ok := arrayMethod(in, src, key); ok {
			return fn, nil
		}
		return values.Undefined{}, nil

	case values.String:
		if key == "length" {
			return values.Number(len([]rune(string(src)))), nil
		}
		if idx, ok := parseIndex(key); ok {
			runes := []rune(string(src))
			if idx < 0 || idx >= len(runes) {
				return values.Undefined{}, nil
			}
			return values.String(string(runes[idx])), nil
		}
		if fn, ok := stringMethod(src, key); ok {
			return fn, nil
		}
		return values.Undefined{}, nil

	case *values.Object:
		v, ok := src.Get(key)
		if !ok {
			return values.Undefined{}, nil
		}
		return v, nil

	case *runtime.GeneratorHandle:
		if fn, ok := generatorMethod(in, src, key); ok {
			return fn, nil
		}
		return values.Undefined{}, nil

	default:
		return values.Undefined{}, nil
	}
}

// setMember writes val to obj[key]/obj.key, applying the same security
// checks as getMember plus the array-growth and host-function-lockdown
// write-side rules.
func (in *Interpreter) setMember(n *ast.MemberExpression, obj values.Value, env *runtime.Environment, val values.Value) error {
	if isNullish(obj) {
		return errors.NewTypeErrorf(errors.PositionFromNode(n), errors.ExpressionFromNode(n), errors.ErrMsgInvalidOperation, "member assignment", values.TypeOf(obj))
	}
	key, err := in.memberKey(n, env)
	if err != nil {
		return err
	}
	if err := runtime.CheckPropertyAccess(n, key); err != nil {
		return err
	}

	switch src := obj.(type) {
	case *runtime.HostFunction, *runtime.SandboxFunction:
		return runtime.CheckHostFunctionIntrospection(n)

	case *values.Array:
		if key == "length" {
			if num, ok := val.(values.Number); ok {
				src.SetLength(int(num))
				return nil
			}
			return errors.NewTypeErrorf(errors.PositionFromNode(n), errors.ExpressionFromNode(n), errors.ErrMsgExpectedType, "number", values.TypeOf(val))
		}
		if idx, ok := parseIndex(key); ok {
			if err := in.Meter.Charge(n, 1); err != nil {
				return err
			}
			src.Set(idx, val)
			return nil
		}
		return nil

	case *values.Object:
		if err := in.Meter.Charge(n, 1); err != nil {
			return err
		}
		src.Set(key, val)
		return nil

	default:
		return nil
	}
}

func parseIndex(key string) (int, bool) {
	n, err := strconv.Atoi(key)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func functionArity(fn values.Value) int {
	switch f := fn.(type) {
	case *runtime.SandboxFunction:
		n := 0
		for _, p := range f.Params {
			if _, ok := p.(*ast.RestElement); ok {
				break
			}
			if _, ok := p.(*ast.AssignmentPattern); ok {
				break
			}
			n++
		}
		return n
	default:
		return 0
	}
}

func functionName(fn values.Value) string {
	switch f := fn.(type) {
	case *runtime.SandboxFunction:
		return f.Name
	case *runtime.HostFunction:
		return f.Name
	default:
		return ""
	}
}

// host wraps a Go closure as a sandbox-visible HostFunction, used to
// expose Array.prototype-shaped built-in methods.
func host(name string, fn runtime.HostFunc) *runtime.HostFunction {
	return &runtime.HostFunction{Name: name, Fn: fn}
}

func argOrUndefined(args []values.Value, i int) values.Value {
	if i < len(args) {
		return args[i]
	}
	return values.Undefined{}
}

// arrayMethod returns the bound built-in implementing name on receiver,
// matching a fixed method catalog: push, pop,
// shift, unshift, slice, concat, indexOf, includes, join, reverse, map,
// filter, reduce, find, findIndex, every, some, at, forEach, sort.
func arrayMethod(in *Interpreter, receiver *values.Array, name string) (values.Value, bool) {
	switch name {
	case "push":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			for _, a := range args {
				receiver.Push(a)
			}
			return values.Number(receiver.Len()), nil
		}), true

	case "pop":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			v, ok := receiver.Pop()
			if !ok {
				return values.Undefined{}, nil
			}
			return v, nil
		}), true

	case "shift":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			elems := receiver.Values()
			if len(elems) == 0 {
				return values.Undefined{}, nil
			}
			first := elems[0]
			rest := values.NewArray(elems[1:]...)
			*receiver = *rest
			return first, nil
		}), true

	case "unshift":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			elems := append(append([]values.Value{}, args...), receiver.Values()...)
			*receiver = *values.NewArray(elems...)
			return values.Number(receiver.Len()), nil
		}), true

	case "slice":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			elems := receiver.Values()
			start, end := sliceBounds(len(elems), args)
			if start >= end {
				return values.NewArray(), nil
			}
			return values.NewArray(elems[start:end]...), nil
		}), true

	case "concat":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			out := append([]values.Value{}, receiver.Values()...)
			for _, a := range args {
				if other, ok := a.(*values.Array); ok {
					out = append(out, other.Values()...)
				} else {
					out = append(out, a)
				}
			}
			return values.NewArray(out...), nil
		}), true

	case "indexOf":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			target := argOrUndefined(args, 0)
			for i, v := range receiver.Values() {
				if strictEquals(v, target) {
					return values.Number(i), nil
				}
			}
			return values.Number(-1), nil
		}), true

	case "includes":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			target := argOrUndefined(args, 0)
			for _, v := range receiver.Values() {
				if strictEquals(v, target) {
					return values.Boolean(true), nil
				}
			}
			return values.Boolean(false), nil
		}), true

	case "join":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			sep := ","
			if len(args) > 0 {
				sep = args[0].String()
			}
			elems := receiver.Values()
			parts := make([]string, len(elems))
			for i, v := range elems {
				if isNullish(v) {
					parts[i] = ""
					continue
				}
				parts[i] = v.String()
			}
			return values.String(joinStrings(parts, sep)), nil
		}), true

	case "reverse":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			elems := receiver.Values()
			for i, j := 0, len(elems)-1; i < j; i, j = i+1, j-1 {
				elems[i], elems[j] = elems[j], elems[i]
			}
			*receiver = *values.NewArray(elems...)
			return receiver, nil
		}), true

	case "at":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			idx := int(numberArg(args, 0))
			n := receiver.Len()
			if idx < 0 {
				idx += n
			}
			v, ok := receiver.Get(idx)
			if !ok {
				return values.Undefined{}, nil
			}
			return v, nil
		}), true

	case "map":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			fn := argOrUndefined(args, 0)
			elems := receiver.Values()
			out := make([]values.Value, len(elems))
			for i, v := range elems {
				r, _, err := in.call(fn, values.Undefined{}, []values.Value{v, values.Number(i), receiver}, nil)
				if err != nil {
					return nil, err
				}
				out[i] = r
			}
			return values.NewArray(out...), nil
		}), true

	case "filter":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			fn := argOrUndefined(args, 0)
			var out []values.Value
			for i, v := range receiver.Values() {
				r, _, err := in.call(fn, values.Undefined{}, []values.Value{v, values.Number(i), receiver}, nil)
				if err != nil {
					return nil, err
				}
				if r.Truthy() {
					out = append(out, v)
				}
			}
			return values.NewArray(out...), nil
		}), true

	case "reduce":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			fn := argOrUndefined(args, 0)
			elems := receiver.Values()
			i := 0
			var acc values.Value
			if len(args) > 1 {
				acc = args[1]
			} else {
				if len(elems) == 0 {
					return nil, errors.NewRuntimeErrorf(nil, "", "reduce of empty array with no initial value")
				}
				acc = elems[0]
				i = 1
			}
			for ; i < len(elems); i++ {
				r, _, err := in.call(fn, values.Undefined{}, []values.Value{acc, elems[i], values.Number(i), receiver}, nil)
				if err != nil {
					return nil, err
				}
				acc = r
			}
			return acc, nil
		}), true

	case "find":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			fn := argOrUndefined(args, 0)
			for i, v := range receiver.Values() {
				r, _, err := in.call(fn, values.Undefined{}, []values.Value{v, values.Number(i), receiver}, nil)
				if err != nil {
					return nil, err
				}
				if r.Truthy() {
					return v, nil
				}
			}
			return values.Undefined{}, nil
		}), true

	case "findIndex":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			fn := argOrUndefined(args, 0)
			for i, v := range receiver.Values() {
				r, _, err := in.call(fn, values.Undefined{}, []values.Value{v, values.Number(i), receiver}, nil)
				if err != nil {
					return nil, err
				}
				if r.Truthy() {
					return values.Number(i), nil
				}
			}
			return values.Number(-1), nil
		}), true

	case "every":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			fn := argOrUndefined(args, 0)
			for i, v := range receiver.Values() {
				r, _, err := in.call(fn, values.Undefined{}, []values.Value{v, values.Number(i), receiver}, nil)
				if err != nil {
					return nil, err
				}
				if !r.Truthy() {
					return values.Boolean(false), nil
				}
			}
			return values.Boolean(true), nil
		}), true

	case "some":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			fn := argOrUndefined(args, 0)
			for i, v := range receiver.Values() {
				r, _, err := in.call(fn, values.Undefined{}, []values.Value{v, values.Number(i), receiver}, nil)
				if err != nil {
					return nil, err
				}
				if r.Truthy() {
					return values.Boolean(true), nil
				}
			}
			return values.Boolean(false), nil
		}), true

	case "forEach":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			fn := argOrUndefined(args, 0)
			for i, v := range receiver.Values() {
				if _, _, err := in.call(fn, values.Undefined{}, []values.Value{v, values.Number(i), receiver}, nil); err != nil {
					return nil, err
				}
			}
			return values.Undefined{}, nil
		}), true

	case "sort":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			fn := argOrUndefined(args, 0)
			elems := receiver.Values()
			var sortErr error
			sort.SliceStable(elems, func(i, j int) bool {
				if sortErr != nil {
					return false
				}
				if !isNullish(fn) {
					r, _, err := in.call(fn, values.Undefined{}, []values.Value{elems[i], elems[j]}, nil)
					if err != nil {
						sortErr = err
						return false
					}
					if num, ok := r.(values.Number); ok {
						return float64(num) < 0
					}
					return false
				}
				return elems[i].String() < elems[j].String()
			})
			if sortErr != nil {
				return nil, sortErr
			}
			*receiver = *values.NewArray(elems...)
			return receiver, nil
		}), true

	default:
		return nil, false
	}
}

// stringMethod returns a small, commonly needed subset of String.prototype
// built-ins; realistic programs need at least these.
func stringMethod(receiver values.String, name string) (values.Value, bool) {
	s := string(receiver)
	switch name {
	case "charAt":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			runes := []rune(s)
			idx := int(numberArg(args, 0))
			if idx < 0 || idx >= len(runes) {
				return values.String(""), nil
			}
			return values.String(string(runes[idx])), nil
		}), true

	case "slice":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			runes := []rune(s)
			start, end := sliceBounds(len(runes), args)
			if start >= end {
				return values.String(""), nil
			}
			return values.String(string(runes[start:end])), nil
		}), true

	case "indexOf":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			target := ""
			if len(args) > 0 {
				target = args[0].String()
			}
			return values.Number(runeIndexOf(s, target)), nil
		}), true

	case "includes":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			target := ""
			if len(args) > 0 {
				target = args[0].String()
			}
			return values.Boolean(runeIndexOf(s, target) >= 0), nil
		}), true

	case "split":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			if len(args) == 0 {
				return values.NewArray(values.String(s)), nil
			}
			sep := args[0].String()
			var parts []string
			if sep == "" {
				for _, r := range s {
					parts = append(parts, string(r))
				}
			} else {
				parts = splitString(s, sep)
			}
			out := make([]values.Value, len(parts))
			for i, p := range parts {
				out[i] = values.String(p)
			}
			return values.NewArray(out...), nil
		}), true

	case "toUpperCase":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			return values.String(toUpper(s)), nil
		}), true

	case "toLowerCase":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			return values.String(toLower(s)), nil
		}), true

	case "trim":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			return values.String(trimSpace(s)), nil
		}), true

	case "repeat":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			n := int(numberArg(args, 0))
			if n < 0 {
				return nil, errors.NewRuntimeErrorf(nil, "", "invalid count value: %d", n)
			}
			return values.String(repeatString(s, n)), nil
		}), true

	default:
		return nil, false
	}
}

// generatorMethod exposes a GeneratorHandle's next/return/throw as sandbox
// callables, matching the host-function wrapping required so the same
// dispatch path (in.call) drives generators reached via member access.
func generatorMethod(in *Interpreter, handle *runtime.GeneratorHandle, name string) (values.Value, bool) {
	switch name {
	case "next":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			v, done, err := handle.Gen.Next(ctx, argOrUndefined(args, 0))
			if err != nil {
				return nil, err
			}
			return iterResult(v, done), nil
		}), true
	case "return":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			v, done, err := handle.Gen.Return(ctx, argOrUndefined(args, 0))
			if err != nil {
				return nil, err
			}
			return iterResult(v, done), nil
		}), true
	case "throw":
		return host(name, func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
			v, done, err := handle.Gen.Throw(ctx, argOrUndefined(args, 0))
			if err != nil {
				return nil, err
			}
			return iterResult(v, done), nil
		}), true
	default:
		return nil, false
	}
}

func iterResult(v values.Value, done bool) *values.Object {
	obj := values.NewObject()
	obj.Set("value", v)
	obj.Set("done", values.Boolean(done))
	return obj
}

func numberArg(args []values.Value, i int) float64 {
	if i >= len(args) {
		return 0
	}
	if num, ok := args[i].(values.Number); ok {
		return float64(num)
	}
	return 0
}

// sliceBounds normalizes JS-style slice(start?, end?) arguments (negative
// indices counting from the end, clamped to [0, length]) against a source
// of the given length.
func sliceBounds(length int, args []values.Value) (int, int) {
	start, end := 0, length
	if len(args) > 0 {
		start = normalizeIndex(int(numberArg(args, 0)), length)
	}
	if len(args) > 1 && !isUndefined(args[1]) {
		end = normalizeIndex(int(numberArg(args, 1)), length)
	}
	return start, end
}

func normalizeIndex(idx, length int) int {
	if idx < 0 {
		idx += length
	}
	if idx < 0 {
		return 0
	}
	if idx > length {
		return length
	}
	return idx
}

// strictEquals implements `===` for the value kinds array methods compare
// against: identity for reference kinds, value equality for primitives.
func strictEquals(a, b values.Value) bool {
	switch av := a.(type) {
	case values.Undefined:
		_, ok := b.(values.Undefined)
		return ok
	case values.Null:
		_, ok := b.(values.Null)
		return ok
	case values.Boolean:
		bv, ok := b.(values.Boolean)
		return ok && av == bv
	case values.Number:
		bv, ok := b.(values.Number)
		return ok && av == bv
	case values.String:
		bv, ok := b.(values.String)
		return ok && av == bv
	default:
		return a == b
	}
}

func joinStrings(parts []string, sep string) string { return strings.Join(parts, sep) }
func runeIndexOf(s, sub string) int                  { return strings.Index(s, sub) }
func splitString(s, sep string) []string             { return strings.Split(s, sep) }
func toUpper(s string) string                        { return strings.ToUpper(s) }
func toLower(s string) string                        { return strings.ToLower(s) }
func trimSpace(s string) string                      { return strings.TrimSpace(s) }
func repeatString(s string, n int) string            { return strings.Repeat(s, n) }
