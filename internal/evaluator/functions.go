package evaluator

import (
	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/errors"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// makeSandboxFunction builds the callable Value for a function
// declaration/expression, closing over closure.
func makeSandboxFunction(fb *ast.FunctionBase, closure *runtime.Environment) *runtime.SandboxFunction {
	name := ""
	if fb.ID != nil {
		name = fb.ID.Name
	}
	return &runtime.SandboxFunction{
		Name:      name,
		Params:    fb.Params,
		Body:      fb.Body,
		ExprBody:  fb.ExprBody,
		Closure:   closure,
		Async:     fb.Async,
		Generator: fb.Generator,
	}
}

// evalFunctionDeclaration declares (or, for a nested block re-entered
// after hoisting already ran once, re-declares) the function's binding
// in the current environment and produces no value of its own.
func (in *Interpreter) evalFunctionDeclaration(n *ast.FunctionDeclaration, env *runtime.Environment) (values.Value, Completion, error) {
	if n.ID != nil {
		env.Declare(n.ID.Name, makeSandboxFunction(&n.FunctionBase, env), runtime.BindingVar)
	}
	return values.Undefined{}, Normal(), nil
}

func (in *Interpreter) evalFunctionExpression(n *ast.FunctionExpression, env *runtime.Environment) (values.Value, Completion, error) {
	fn := makeSandboxFunction(&n.FunctionBase, env)
	if n.ID != nil {
		// A named function expression can refer to itself recursively
		// via its own name without that name leaking into the
		// surrounding scope: give it its own one-binding scope.
		self := runtime.NewEnclosedEnvironment(env)
		self.Declare(n.ID.Name, fn, runtime.BindingConst)
		fn.Closure = self
	}
	return fn, Normal(), nil
}

func (in *Interpreter) evalArrowFunctionExpression(n *ast.ArrowFunctionExpression, env *runtime.Environment) (values.Value, Completion, error) {
	fn := makeSandboxFunction(&n.FunctionBase, env)
	fn.IsArrow = true
	return fn, Normal(), nil
}

func (in *Interpreter) evalYieldExpression(n *ast.YieldExpression, env *runtime.Environment) (values.Value, Completion, error) {
	if in.gen == nil {
		return values.Undefined{}, Normal(), errors.ErrNotImplemented(n, "yield outside a generator")
	}
	var arg values.Value = values.Undefined{}
	if n.Argument != nil {
		v, c, err := in.Eval(n.Argument, env)
		if err != nil || c.Kind == CompletionThrow {
			return v, c, err
		}
		arg = v
	}
	if n.Delegate {
		return in.yieldDelegate(arg, env)
	}
	return in.gen.yield(arg)
}

func (in *Interpreter) evalAwaitExpression(n *ast.AwaitExpression, env *runtime.Environment) (values.Value, Completion, error) {
	if err := in.Guard.CheckAsyncCall(n); err != nil {
		return values.Undefined{}, Normal(), err
	}
	v, c, err := in.Eval(n.Argument, env)
	if err != nil || c.Kind == CompletionThrow {
		return v, c, err
	}
	return in.awaitValue(n, v)
}
