package evaluator

import (
	"context"

	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/errors"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// Interpreter walks one program's AST under a shared Environment/Meter/
// Guard. It is not safe for concurrent Eval calls. sandbox.Interpreter
// builds a fresh one per call; its Guard makes calls exclusive only when
// Guard.Strict is set.
type Interpreter struct {
	Global  *runtime.Environment
	Meter   *runtime.Meter
	Guard   *runtime.Guard
	Globals *Globals

	// HideHostErrorMessages elides a host function's original error text
	// from the wrapped InterpreterError, surfacing only that it threw.
	HideHostErrorMessages bool

	// gen is non-nil only while evaluating a generator's own body
	// (directly, not inside a nested ordinary function call it makes),
	// and is how evalYieldExpression finds the channel pair to suspend
	// on. See generator.go.
	gen *genChannels
}

// New creates an Interpreter sharing the given global environment, meter,
// guard, and host-function registry.
func New(global *runtime.Environment, meter *runtime.Meter, guard *runtime.Guard, globals *Globals) *Interpreter {
	return &Interpreter{Global: global, Meter: meter, Guard: guard, Globals: globals}
}

// Eval dispatches a single node to its evaluator, following the usual
// type-switch-over-ast.Node idiom. Statement nodes return a Completion
// describing any non-local control flow; expression nodes always return
// CompletionNormal unless a nested call propagates an uncaught sandbox
// throw.
func (in *Interpreter) Eval(node ast.Node, env *runtime.Environment) (values.Value, Completion, error) {
	if err := in.Meter.CheckCancellation(); err != nil {
		return values.Undefined{}, Normal(), err
	}

	switch n := node.(type) {
	// --- literals & identifiers ---
	case *ast.Program:
		return in.evalProgram(n, env)
	case *ast.Identifier:
		return in.evalIdentifier(n, env)
	case *ast.ThisExpression:
		return in.evalThisExpression(n, env)
	case *ast.NumericLiteral:
		return values.Number(n.Value), Normal(), nil
	case *ast.StringLiteral:
		return values.String(n.Value), Normal(), nil
	case *ast.BooleanLiteral:
		return values.Boolean(n.Value), Normal(), nil
	case *ast.NullLiteral:
		return values.Null{}, Normal(), nil
	case *ast.TemplateLiteral:
		return in.evalTemplateLiteral(n, env)
	case *ast.TaggedTemplateExpression:
		return in.evalTaggedTemplateExpression(n, env)

	// --- operators ---
	case *ast.BinaryExpression:
		return in.evalBinaryExpression(n, env)
	case *ast.LogicalExpression:
		return in.evalLogicalExpression(n, env)
	case *ast.UnaryExpression:
		return in.evalUnaryExpression(n, env)
	case *ast.UpdateExpression:
		return in.evalUpdateExpression(n, env)
	case *ast.AssignmentExpression:
		return in.evalAssignmentExpression(n, env)
	case *ast.ConditionalExpression:
		return in.evalConditionalExpression(n, env)
	case *ast.SequenceExpression:
		return in.evalSequenceExpression(n, env)

	// --- composite literals & member/call ---
	case *ast.ArrayExpression:
		return in.evalArrayExpression(n, env)
	case *ast.ObjectExpression:
		return in.evalObjectExpression(n, env)
	case *ast.MemberExpression:
		return in.evalMemberExpression(n, env)
	case *ast.CallExpression:
		return in.evalCallExpression(n, env)
	case *ast.NewExpression:
		return in.evalNewExpression(n, env)

	// --- functions ---
	case *ast.FunctionDeclaration:
		return in.evalFunctionDeclaration(n, env)
	case *ast.FunctionExpression:
		return in.evalFunctionExpression(n, env)
	case *ast.ArrowFunctionExpression:
		return in.evalArrowFunctionExpression(n, env)
	case *ast.YieldExpression:
		return in.evalYieldExpression(n, env)
	case *ast.AwaitExpression:
		return in.evalAwaitExpression(n, env)

	// --- classes ---
	case *ast.ClassDeclaration:
		return in.evalClassDeclaration(n, env)
	case *ast.ClassExpression:
		return in.evalClassExpression(n, env)

	// --- statements ---
	case *ast.ExpressionStatement:
		v, c, err := in.Eval(n.Expression, env)
		return v, c, err
	case *ast.BlockStatement:
		return in.evalBlockStatement(n, env)
	case *ast.VariableDeclaration:
		return in.evalVariableDeclaration(n, env)
	case *ast.IfStatement:
		return in.evalIfStatement(n, env)
	case *ast.ForStatement:
		return in.evalForStatement(n, env)
	case *ast.ForOfStatement:
		return in.evalForOfStatement(n, env)
	case *ast.ForInStatement:
		return in.evalForInStatement(n, env)
	case *ast.WhileStatement:
		return in.evalWhileStatement(n, env)
	case *ast.DoWhileStatement:
		return in.evalDoWhileStatement(n, env)
	case *ast.SwitchStatement:
		return in.evalSwitchStatement(n, env)
	case *ast.LabeledStatement:
		return in.evalLabeledStatement(n, env)
	case *ast.BreakStatement:
		label := ""
		if n.Label != nil {
			label = n.Label.Name
		}
		return values.Undefined{}, Break(label), nil
	case *ast.ContinueStatement:
		label := ""
		if n.Label != nil {
			label = n.Label.Name
		}
		return values.Undefined{}, Continue(label), nil
	case *ast.ReturnStatement:
		var v values.Value = values.Undefined{}
		if n.Argument != nil {
			var c Completion
			var err error
			v, c, err = in.Eval(n.Argument, env)
			if err != nil || c.Kind == CompletionThrow {
				return v, c, err
			}
		}
		return values.Undefined{}, Return(v), nil
	case *ast.ThrowStatement:
		v, c, err := in.Eval(n.Argument, env)
		if err != nil || c.Kind == CompletionThrow {
			return v, c, err
		}
		return values.Undefined{}, Throw(v), nil
	case *ast.TryStatement:
		return in.evalTryStatement(n, env)
	case *ast.EmptyStatement:
		return values.Undefined{}, Normal(), nil

	default:
		return values.Undefined{}, Normal(), errors.ErrUnknownNodeType(node)
	}
}

// evalProgram runs each top-level statement in sequence (run statements,
// surface the first error), hoisting `var` and function declarations
// first since this language's block scoping requires it.
func (in *Interpreter) evalProgram(n *ast.Program, env *runtime.Environment) (values.Value, Completion, error) {
	hoist(n.Body, env)
	var result values.Value = values.Undefined{}
	for _, stmt := range n.Body {
		v, c, err := in.Eval(stmt, env)
		if err != nil {
			return values.Undefined{}, Normal(), err
		}
		if !c.IsNormal() {
			switch c.Kind {
			case CompletionThrow:
				return values.Undefined{}, Normal(), errors.UncaughtThrowError(errors.PositionFromNode(stmt), errors.ExpressionFromNode(stmt), values.Inspect(c.Value))
			case CompletionBreak:
				return values.Undefined{}, Normal(), errors.ErrIllegalBreak(stmt)
			case CompletionContinue:
				return values.Undefined{}, Normal(), errors.ErrIllegalContinue(stmt)
			default:
				return values.Undefined{}, c, nil
			}
		}
		result = v
	}
	return result, Normal(), nil
}

// Globals holds the host-registered functions and values available as
// free identifiers (not properties of any object — there is no global
// object in this model, only a flat namespace injected into the root
// environment).
type Globals struct {
	values map[string]values.Value
}

// NewGlobals creates an empty global registry.
func NewGlobals() *Globals {
	return &Globals{values: make(map[string]values.Value)}
}

// RegisterFunction exposes a Go function to sandboxed code under name.
func (g *Globals) RegisterFunction(name string, fn runtime.HostFunc) {
	g.values[name] = &runtime.HostFunction{Name: name, Fn: fn}
}

// RegisterValue exposes an arbitrary sandbox value (e.g. a frozen preset
// object) under name.
func (g *Globals) RegisterValue(name string, v values.Value) {
	g.values[name] = v
}

// Apply declares every registered global in env as a var binding.
func (g *Globals) Apply(env *runtime.Environment) {
	for name, v := range g.values {
		env.Declare(name, v, runtime.BindingVar)
	}
}

// callContext returns the meter's bound context for passing to host
// functions, carrying an Invoker so a host function holding a sandbox
// callback (forEach, a sort comparator) can call it back through the
// same dispatch a CallExpression uses.
func (in *Interpreter) callContext() context.Context {
	ctx := in.Meter.Context()
	return runtime.WithInvoker(ctx, func(ctx context.Context, fn runtime.Value, this runtime.Value, args []runtime.Value) (runtime.Value, error) {
		v, _, err := in.call(fn, this, args, nil)
		return v, err
	})
}
