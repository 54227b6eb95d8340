package evaluator

import (
	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/errors"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// bindCallEnvironment binds `this` and `arguments` in a fresh call scope.
// Arrow functions bind neither: they inherit both from their closure, so
// this is simply not called for them.
func bindCallEnvironment(callEnv *runtime.Environment, fn *runtime.SandboxFunction, this values.Value, args []values.Value) {
	if fn.IsArrow {
		return
	}
	if this == nil {
		this = values.Undefined{}
	}
	callEnv.Declare("this", this, runtime.BindingConst)
	callEnv.Declare("arguments", values.NewArray(args...), runtime.BindingConst)
}

// bindParams destructures fn's parameter list against args into callEnv.
func bindParams(in *Interpreter, params []ast.Node, args []values.Value, callEnv *runtime.Environment, fn *runtime.SandboxFunction) error {
	for i, param := range params {
		if rest, ok := param.(*ast.RestElement); ok {
			var tail []values.Value
			if i < len(args) {
				tail = args[i:]
			}
			if c, err := in.declareBinding(rest.Argument, values.NewArray(tail...), callEnv, runtime.BindingLet); err != nil {
				return err
			} else if !c.IsNormal() {
				return errors.ErrNotImplemented(rest, "non-normal completion while binding parameters")
			}
			return nil
		}
		var v values.Value = values.Undefined{}
		if i < len(args) {
			v = args[i]
		}
		if c, err := in.declareBinding(param, v, callEnv, runtime.BindingLet); err != nil {
			return err
		} else if !c.IsNormal() {
			return errors.ErrNotImplemented(param, "non-normal completion while binding parameters")
		}
	}
	return nil
}

// evalCallExpression resolves the callee (tracking a bound `this` for
// method calls), evaluates arguments (expanding SpreadElement entries),
// and dispatches the call.
func (in *Interpreter) evalCallExpression(n *ast.CallExpression, env *runtime.Environment) (values.Value, Completion, error) {
	fn, this, c, err := in.evalCallee(n.Callee, env)
	if err != nil || !c.IsNormal() {
		return values.Undefined{}, c, err
	}
	if n.Optional && isNullish(fn) {
		return values.Undefined{}, Normal(), nil
	}
	args, c, err := in.evalArguments(n.Arguments, env)
	if err != nil || !c.IsNormal() {
		return values.Undefined{}, c, err
	}
	return in.call(fn, this, args, n)
}

// evalCallee evaluates the callee expression, returning the bound `this`
// for member-expression method calls (MemberExpression's Object) or
// Undefined for a bare call.
func (in *Interpreter) evalCallee(callee ast.Node, env *runtime.Environment) (values.Value, values.Value, Completion, error) {
	if member, ok := callee.(*ast.MemberExpression); ok {
		obj, c, err := in.Eval(member.Object, env)
		if err != nil || !c.IsNormal() {
			return values.Undefined{}, values.Undefined{}, c, err
		}
		if member.Optional && isNullish(obj) {
			return values.Undefined{}, values.Undefined{}, Normal(), nil
		}
		fn, err := in.getMember(member, obj, env)
		if err != nil {
			return values.Undefined{}, values.Undefined{}, Normal(), err
		}
		return fn, obj, Normal(), nil
	}
	fn, c, err := in.Eval(callee, env)
	return fn, values.Undefined{}, c, err
}

func (in *Interpreter) evalArguments(nodes []ast.Node, env *runtime.Environment) ([]values.Value, Completion, error) {
	var args []values.Value
	for _, a := range nodes {
		if spread, ok := a.(*ast.SpreadElement); ok {
			v, c, err := in.Eval(spread.Argument, env)
			if err != nil || !c.IsNormal() {
				return nil, c, err
			}
			next, err := in.iterate(spread, v)
			if err != nil {
				return nil, Normal(), err
			}
			for {
				val, ok, c, err := next()
				if err != nil || !c.IsNormal() {
					return nil, c, err
				}
				if !ok {
					break
				}
				args = append(args, val)
			}
			continue
		}
		v, c, err := in.Eval(a, env)
		if err != nil || !c.IsNormal() {
			return nil, c, err
		}
		args = append(args, v)
	}
	return args, Normal(), nil
}

// call dispatches fn (a HostFunction or SandboxFunction) with the given
// bound this and arguments, enforcing the call-stack resource limit and
// the sync/async security rules before entering the callee's body.
func (in *Interpreter) call(fn values.Value, this values.Value, args []values.Value, node ast.Node) (values.Value, Completion, error) {
	switch f := fn.(type) {
	case *runtime.HostFunction:
		if f.Async {
			if err := in.Guard.CheckAsyncCall(node); err != nil {
				return values.Undefined{}, Normal(), err
			}
		}
		v, err := f.Call(in.callContext(), this, args)
		if err != nil {
			if ie, ok := err.(*errors.InterpreterError); ok {
				return values.Undefined{}, Normal(), ie
			}
			name := f.Name
			if name == "" {
				name = "<anonymous>"
			}
			return values.Undefined{}, Normal(), errors.HostFunctionThrewError(
				errors.PositionFromNode(node), errors.ExpressionFromNode(node), name, err.Error(), in.HideHostErrorMessages)
		}
		if v == nil {
			v = values.Undefined{}
		}
		return v, Normal(), nil

	case *runtime.SandboxFunction:
		return in.callSandboxFunction(f, this, args, node)

	default:
		return values.Undefined{}, Normal(), errors.ErrNotCallable(node, values.TypeOf(fn))
	}
}

func (in *Interpreter) callSandboxFunction(fn *runtime.SandboxFunction, this values.Value, args []values.Value, node ast.Node) (values.Value, Completion, error) {
	if fn.Generator {
		if fn.Async {
			if err := in.Guard.CheckAsyncGenerator(node); err != nil {
				return values.Undefined{}, Normal(), err
			}
		}
		return newGeneratorHandle(in, fn, this, args), Normal(), nil
	}
	if fn.Async {
		if err := in.Guard.CheckAsyncCall(node); err != nil {
			return values.Undefined{}, Normal(), err
		}
	}

	name := fn.Name
	if name == "" {
		name = "<anonymous>"
	}
	if err := in.Meter.EnterCall(node, name); err != nil {
		return values.Undefined{}, Normal(), err
	}
	defer in.Meter.ExitCall()

	callEnv := runtime.NewFunctionScope(fn.Closure)
	bindCallEnvironment(callEnv, fn, this, args)
	if err := bindParams(in, fn.Params, args, callEnv, fn); err != nil {
		return values.Undefined{}, Normal(), err
	}

	if fn.ExprBody {
		v, c, err := in.Eval(fn.Body, callEnv)
		if err != nil || c.Kind == CompletionThrow {
			return v, c, err
		}
		return v, Normal(), nil
	}

	hoist(bodyStatements(fn.Body), callEnv)
	_, c, err := in.Eval(fn.Body, callEnv)
	if err != nil {
		return values.Undefined{}, Normal(), err
	}
	switch c.Kind {
	case CompletionReturn:
		return c.Value, Normal(), nil
	case CompletionThrow:
		return values.Undefined{}, c, nil
	case CompletionBreak:
		return values.Undefined{}, Normal(), errors.ErrIllegalBreak(node)
	case CompletionContinue:
		return values.Undefined{}, Normal(), errors.ErrIllegalContinue(node)
	default:
		return values.Undefined{}, Normal(), nil
	}
}

func bodyStatements(body ast.Node) []ast.Node {
	if block, ok := body.(*ast.BlockStatement); ok {
		return block.Body
	}
	return nil
}

// evalNewExpression constructs a new object from a class, or simply
// calls a function with a fresh object bound as `this` for classless
// sandbox functions used as constructors — no prototype chain is set up
// either way, per the language's Non-goals.
func (in *Interpreter) evalNewExpression(n *ast.NewExpression, env *runtime.Environment) (values.Value, Completion, error) {
	calleeVal, c, err := in.Eval(n.Callee, env)
	if err != nil || !c.IsNormal() {
		return values.Undefined{}, c, err
	}
	args, c, err := in.evalArguments(n.Arguments, env)
	if err != nil || !c.IsNormal() {
		return values.Undefined{}, c, err
	}
	if class, ok := calleeVal.(*SandboxClass); ok {
		return in.instantiate(class, args, n)
	}
	// A host function used as a classless constructor (preset globals
	// like Map/Set/Date/URL) follows the same shape a sandbox function
	// constructor does: called with a fresh object bound as `this`,
	// except a host constructor may also return its own value (its
	// private Go-backed state doesn't fit the plain-object model `this`
	// offers) to use in place of that fresh object, same as a real
	// constructor returning an object overriding the implicit `this`.
	if host, ok := calleeVal.(*runtime.HostFunction); ok {
		instance := values.NewObject()
		ret, err := host.Call(in.callContext(), instance, args)
		if err != nil {
			if ie, ok := err.(*errors.InterpreterError); ok {
				return values.Undefined{}, Normal(), ie
			}
			name := host.Name
			if name == "" {
				name = "<anonymous>"
			}
			return values.Undefined{}, Normal(), errors.HostFunctionThrewError(
				errors.PositionFromNode(n), errors.ExpressionFromNode(n), name, err.Error(), in.HideHostErrorMessages)
		}
		if ret != nil && ret.Type() != "undefined" {
			return ret, Normal(), nil
		}
		return instance, Normal(), nil
	}
	fn, ok := calleeVal.(*runtime.SandboxFunction)
	if !ok {
		return values.Undefined{}, Normal(), errors.ErrNotConstructible(n, values.TypeOf(calleeVal))
	}
	instance := values.NewObject()
	_, _, err = in.call(fn, instance, args, n)
	if err != nil {
		return values.Undefined{}, Normal(), err
	}
	return instance, Normal(), nil
}

func isNullish(v values.Value) bool {
	switch v.(type) {
	case values.Undefined, values.Null:
		return true
	default:
		return false
	}
}
