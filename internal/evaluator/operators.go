package evaluator

import (
	"math"
	"strconv"

	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/errors"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// evalBinaryExpression implements the arithmetic, comparison, bitwise,
// `in`, and `instanceof` operators.
func (in *Interpreter) evalBinaryExpression(n *ast.BinaryExpression, env *runtime.Environment) (values.Value, Completion, error) {
	left, c, err := in.Eval(n.Left, env)
	if err != nil || !c.IsNormal() {
		return values.Undefined{}, c, err
	}
	right, c, err := in.Eval(n.Right, env)
	if err != nil || !c.IsNormal() {
		return values.Undefined{}, c, err
	}
	v, err := in.applyBinary(n, n.Operator, left, right)
	if err != nil {
		return values.Undefined{}, Normal(), err
	}
	return v, Normal(), nil
}

func (in *Interpreter) applyBinary(n ast.Node, op string, left, right values.Value) (values.Value, error) {
	switch op {
	case "+":
		if ls, ok := left.(values.String); ok {
			return values.String(string(ls) + right.String()), nil
		}
		if rs, ok := right.(values.String); ok {
			return values.String(left.String() + string(rs)), nil
		}
		return values.Number(numeric(left) + numeric(right)), nil

	case "-":
		return values.Number(numeric(left) - numeric(right)), nil
	case "*":
		return values.Number(numeric(left) * numeric(right)), nil
	case "/":
		if numeric(right) == 0 {
			return nil, errors.ErrDivisionByZero(n)
		}
		return values.Number(numeric(left) / numeric(right)), nil
	case "%":
		if numeric(right) == 0 {
			return nil, errors.NewRuntimeErrorf(errors.PositionFromNode(n), errors.ExpressionFromNode(n), "modulo by zero")
		}
		return values.Number(math.Mod(numeric(left), numeric(right))), nil
	case "**":
		return values.Number(math.Pow(numeric(left), numeric(right))), nil

	case "<":
		return compare(left, right, func(c int) bool { return c < 0 }), nil
	case "<=":
		return compare(left, right, func(c int) bool { return c <= 0 }), nil
	case ">":
		return compare(left, right, func(c int) bool { return c > 0 }), nil
	case ">=":
		return compare(left, right, func(c int) bool { return c >= 0 }), nil

	case "==":
		return values.Boolean(strictEquals(left, right)), nil
	case "!=":
		return values.Boolean(!strictEquals(left, right)), nil
	case "===":
		return values.Boolean(strictEquals(left, right)), nil
	case "!==":
		return values.Boolean(!strictEquals(left, right)), nil

	case "&":
		return values.Number(float64(int64(numeric(left)) & int64(numeric(right)))), nil
	case "|":
		return values.Number(float64(int64(numeric(left)) | int64(numeric(right)))), nil
	case "^":
		return values.Number(float64(int64(numeric(left)) ^ int64(numeric(right)))), nil
	case "<<":
		return values.Number(float64(int64(numeric(left)) << uint(int64(numeric(right))&31))), nil
	case ">>":
		return values.Number(float64(int64(numeric(left)) >> uint(int64(numeric(right))&31))), nil
	case ">>>":
		return values.Number(float64(uint32(int64(numeric(left))) >> uint(int64(numeric(right))&31))), nil

	case "in":
		switch r := right.(type) {
		case *values.Object:
			return values.Boolean(r.Has(left.String())), nil
		case *values.Array:
			if idx, ok := parseIndex(left.String()); ok {
				return values.Boolean(r.Has(idx)), nil
			}
			return values.Boolean(false), nil
		default:
			return values.Boolean(false), nil
		}

	case "instanceof":
		class, ok := right.(*SandboxClass)
		if !ok {
			return values.Boolean(false), nil
		}
		obj, ok := left.(*values.Object)
		if !ok {
			return values.Boolean(false), nil
		}
		return values.Boolean(obj.Has("__class__") && sameClass(obj, class)), nil

	default:
		return nil, errors.NewTypeErrorf(errors.PositionFromNode(n), errors.ExpressionFromNode(n), errors.ErrMsgUnknownOperator, values.TypeOf(left), op, values.TypeOf(right))
	}
}

func sameClass(obj *values.Object, class *SandboxClass) bool {
	v, ok := obj.Get("__class__")
	if !ok {
		return false
	}
	if tag, ok := v.(values.String); ok {
		return string(tag) == class.Name
	}
	return false
}

func numeric(v values.Value) float64 {
	switch n := v.(type) {
	case values.Number:
		return float64(n)
	case values.Boolean:
		if n {
			return 1
		}
		return 0
	case values.String:
		trimmed := trimSpace(string(n))
		if trimmed == "" {
			return 0
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	case values.Undefined:
		return math.NaN()
	case values.Null:
		return 0
	default:
		return math.NaN()
	}
}

// compare implements <, <=, >, >= : lexicographic for strings, numeric
// otherwise.
func compare(left, right values.Value, ok func(int) bool) values.Value {
	ls, lok := left.(values.String)
	rs, rok := right.(values.String)
	if lok && rok {
		return values.Boolean(ok(stringCompare(string(ls), string(rs))))
	}
	l, r := numeric(left), numeric(right)
	switch {
	case l < r:
		return values.Boolean(ok(-1))
	case l > r:
		return values.Boolean(ok(1))
	default:
		return values.Boolean(ok(0))
	}
}

func stringCompare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// evalLogicalExpression implements &&, ||, ??, short-circuiting and
// returning the operand value unmodified (no coercion to boolean).
func (in *Interpreter) evalLogicalExpression(n *ast.LogicalExpression, env *runtime.Environment) (values.Value, Completion, error) {
	left, c, err := in.Eval(n.Left, env)
	if err != nil || !c.IsNormal() {
		return values.Undefined{}, c, err
	}
	switch n.Operator {
	case "&&":
		if !left.Truthy() {
			return left, Normal(), nil
		}
	case "||":
		if left.Truthy() {
			return left, Normal(), nil
		}
	case "??":
		if !isNullish(left) {
			return left, Normal(), nil
		}
	default:
		return values.Undefined{}, Normal(), errors.ErrNotImplemented(n, "logical operator "+n.Operator)
	}
	return in.Eval(n.Right, env)
}

// evalUnaryExpression implements +, -, !, ~, typeof, void, delete.
func (in *Interpreter) evalUnaryExpression(n *ast.UnaryExpression, env *runtime.Environment) (values.Value, Completion, error) {
	if n.Operator == "typeof" {
		if ident, ok := n.Argument.(*ast.Identifier); ok {
			if !env.Has(ident.Name) {
				return values.String("undefined"), Normal(), nil
			}
		}
		v, c, err := in.Eval(n.Argument, env)
		if err != nil || !c.IsNormal() {
			return values.Undefined{}, c, err
		}
		return values.String(sandboxTypeOf(v)), Normal(), nil
	}

	if n.Operator == "delete" {
		member, ok := n.Argument.(*ast.MemberExpression)
		if !ok {
			return values.Boolean(true), Normal(), nil
		}
		obj, c, err := in.Eval(member.Object, env)
		if err != nil || !c.IsNormal() {
			return values.Undefined{}, c, err
		}
		key, err := in.memberKey(member, env)
		if err != nil {
			return values.Undefined{}, Normal(), err
		}
		if err := runtime.CheckPropertyAccess(member, key); err != nil {
			return values.Undefined{}, Normal(), err
		}
		switch src := obj.(type) {
		case *values.Object:
			src.Delete(key)
		case *values.Array:
			if idx, ok := parseIndex(key); ok {
				src.Delete(idx)
			}
		}
		return values.Boolean(true), Normal(), nil
	}

	v, c, err := in.Eval(n.Argument, env)
	if err != nil || !c.IsNormal() {
		return values.Undefined{}, c, err
	}
	switch n.Operator {
	case "void":
		return values.Undefined{}, Normal(), nil
	case "!":
		return values.Boolean(!v.Truthy()), Normal(), nil
	case "-":
		return values.Number(-numeric(v)), Normal(), nil
	case "+":
		return values.Number(numeric(v)), Normal(), nil
	case "~":
		return values.Number(float64(^int64(numeric(v)))), Normal(), nil
	default:
		return values.Undefined{}, Normal(), errors.ErrNotImplemented(n, "unary operator "+n.Operator)
	}
}

func sandboxTypeOf(v values.Value) string {
	switch v.(type) {
	case *runtime.SandboxFunction, *runtime.HostFunction:
		return "function"
	default:
		return values.TypeOf(v)
	}
}

// evalUpdateExpression implements prefix/postfix ++/--; the target must
// resolve to a number.
func (in *Interpreter) evalUpdateExpression(n *ast.UpdateExpression, env *runtime.Environment) (values.Value, Completion, error) {
	old, c, err := in.Eval(n.Argument, env)
	if err != nil || !c.IsNormal() {
		return values.Undefined{}, c, err
	}
	num, ok := old.(values.Number)
	if !ok {
		return values.Undefined{}, Normal(), errors.NewTypeErrorf(errors.PositionFromNode(n), errors.ExpressionFromNode(n), "%s can only be used with numbers", n.Operator)
	}
	var next values.Number
	if n.Operator == "++" {
		next = num + 1
	} else {
		next = num - 1
	}
	if err := in.assignTo(n.Argument, next, env); err != nil {
		return values.Undefined{}, Normal(), err
	}
	if n.Prefix {
		return next, Normal(), nil
	}
	return num, Normal(), nil
}

// evalConditionalExpression is the ternary operator.
func (in *Interpreter) evalConditionalExpression(n *ast.ConditionalExpression, env *runtime.Environment) (values.Value, Completion, error) {
	test, c, err := in.Eval(n.Test, env)
	if err != nil || !c.IsNormal() {
		return values.Undefined{}, c, err
	}
	if test.Truthy() {
		return in.Eval(n.Consequent, env)
	}
	return in.Eval(n.Alternate, env)
}

// evalSequenceExpression evaluates every expression left-to-right,
// yielding the last one's value.
func (in *Interpreter) evalSequenceExpression(n *ast.SequenceExpression, env *runtime.Environment) (values.Value, Completion, error) {
	var v values.Value = values.Undefined{}
	for _, e := range n.Expressions {
		var c Completion
		var err error
		v, c, err = in.Eval(e, env)
		if err != nil || !c.IsNormal() {
			return values.Undefined{}, c, err
		}
	}
	return v, Normal(), nil
}

// evalAssignmentExpression implements =, compound arithmetic operators,
// and the short-circuiting logical-assignment forms (??=, ||=, &&=), whose
// right-hand side must evaluate the left-hand target exactly once.
func (in *Interpreter) evalAssignmentExpression(n *ast.AssignmentExpression, env *runtime.Environment) (values.Value, Completion, error) {
	if n.Operator == "=" {
		if isPattern(n.Left) {
			v, c, err := in.Eval(n.Right, env)
			if err != nil || !c.IsNormal() {
				return values.Undefined{}, c, err
			}
			if err := in.assignPattern(n.Left, v, env); err != nil {
				return values.Undefined{}, Normal(), err
			}
			return v, Normal(), nil
		}
		v, c, err := in.Eval(n.Right, env)
		if err != nil || !c.IsNormal() {
			return values.Undefined{}, c, err
		}
		if err := in.assignTo(n.Left, v, env); err != nil {
			return values.Undefined{}, Normal(), err
		}
		return v, Normal(), nil
	}

	current, c, err := in.Eval(n.Left, env)
	if err != nil || !c.IsNormal() {
		return values.Undefined{}, c, err
	}

	switch n.Operator {
	case "??=":
		if !isNullish(current) {
			return current, Normal(), nil
		}
	case "||=":
		if current.Truthy() {
			return current, Normal(), nil
		}
	case "&&=":
		if !current.Truthy() {
			return current, Normal(), nil
		}
	}

	rhs, c, err := in.Eval(n.Right, env)
	if err != nil || !c.IsNormal() {
		return values.Undefined{}, c, err
	}

	var result values.Value
	switch n.Operator {
	case "??=", "||=", "&&=":
		result = rhs
	default:
		op := n.Operator[:len(n.Operator)-1] // "+=" -> "+"
		result, err = in.applyBinary(n, op, current, rhs)
		if err != nil {
			return values.Undefined{}, Normal(), err
		}
	}

	if err := in.assignTo(n.Left, result, env); err != nil {
		return values.Undefined{}, Normal(), err
	}
	return result, Normal(), nil
}

// assignTo writes v to an existing Identifier or MemberExpression target,
// the two reference forms assignment (as distinct from declaration) is
// permitted to target.
func (in *Interpreter) assignTo(target ast.Node, v values.Value, env *runtime.Environment) error {
	switch t := target.(type) {
	case *ast.Identifier:
		return env.Set(t.Name, v)
	case *ast.MemberExpression:
		obj, c, err := in.Eval(t.Object, env)
		if err != nil {
			return err
		}
		if !c.IsNormal() {
			return errors.ErrNotImplemented(t, "non-normal completion in assignment target")
		}
		return in.setMember(t, obj, env, v)
	default:
		return errors.ErrNotImplemented(target, "assignment target")
	}
}

func isPattern(n ast.Node) bool {
	switch n.(type) {
	case *ast.ObjectPattern, *ast.ArrayPattern:
		return true
	default:
		return false
	}
}

// assignPattern destructures v against an object/array pattern appearing
// on the left of `=`, writing into existing bindings/members rather than
// declaring new ones.
func (in *Interpreter) assignPattern(target ast.Node, v values.Value, env *runtime.Environment) error {
	switch t := target.(type) {
	case *ast.ArrayPattern:
		next, err := in.iterate(t, v)
		if err != nil {
			return err
		}
		for _, el := range t.Elements {
			if el == nil {
				next()
				continue
			}
			if rest, ok := el.(*ast.RestElement); ok {
				var remaining []values.Value
				for {
					val, ok, _, err := next()
					if err != nil {
						return err
					}
					if !ok {
						break
					}
					remaining = append(remaining, val)
				}
				return in.assignPatternOrTarget(rest.Argument, values.NewArray(remaining...), env)
			}
			val, ok, _, err := next()
			if err != nil {
				return err
			}
			if !ok {
				val = values.Undefined{}
			}
			if err := in.assignPatternOrTarget(el, val, env); err != nil {
				return err
			}
		}
		return nil

	case *ast.ObjectPattern:
		obj, ok := v.(*values.Object)
		if !ok {
			return errors.NewRuntimeErrorf(errors.PositionFromNode(t), errors.ExpressionFromNode(t), errors.ErrMsgDestructureMismatch, values.TypeOf(v), "object")
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
				if err := in.assignPatternOrTarget(p.Argument, rest, env); err != nil {
					return err
				}
			case *ast.Property:
				key, err := in.propertyKey(p, env)
				if err != nil {
					return err
				}
				if err := runtime.CheckPropertyAccess(t, key); err != nil {
					return err
				}
				consumed[key] = true
				val, _ := obj.Get(key)
				if err := in.assignPatternOrTarget(p.Value, val, env); err != nil {
					return err
				}
			}
		}
		return nil

	default:
		return errors.ErrNotImplemented(target, "destructuring assignment target")
	}
}

func (in *Interpreter) assignPatternOrTarget(target ast.Node, v values.Value, env *runtime.Environment) error {
	if assign, ok := target.(*ast.AssignmentPattern); ok {
		if isUndefined(v) {
			dv, c, err := in.Eval(assign.Right, env)
			if err != nil {
				return err
			}
			if !c.IsNormal() {
				return errors.ErrNotImplemented(assign, "non-normal completion in destructuring default")
			}
			v = dv
		}
		target = assign.Left
	}
	if isPattern(target) {
		return in.assignPattern(target, v, env)
	}
	return in.assignTo(target, v, env)
}
