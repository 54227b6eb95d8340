package evaluator

import (
	"strconv"

	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/errors"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// evalStatements runs stmts in sequence in env, stopping at the first
// error or non-normal completion.
func (in *Interpreter) evalStatements(stmts []ast.Node, env *runtime.Environment) (values.Value, Completion, error) {
	var result values.Value = values.Undefined{}
	for _, stmt := range stmts {
		v, c, err := in.Eval(stmt, env)
		if err != nil || !c.IsNormal() {
			return v, c, err
		}
		result = v
	}
	return result, Normal(), nil
}

// evalBlockStatement opens a fresh lexical scope for Body, pre-binding
// any function declarations it contains directly (not recursing into
// nested blocks) so they're callable from anywhere in the block,
// matching the rest of the language's hoisting behavior at block
// granularity.
func (in *Interpreter) evalBlockStatement(n *ast.BlockStatement, env *runtime.Environment) (values.Value, Completion, error) {
	blockEnv := runtime.NewEnclosedEnvironment(env)
	for _, stmt := range n.Body {
		if fd, ok := stmt.(*ast.FunctionDeclaration); ok && fd.ID != nil {
			blockEnv.Declare(fd.ID.Name, makeSandboxFunction(&fd.FunctionBase, blockEnv), runtime.BindingVar)
		}
	}
	return in.evalStatements(n.Body, blockEnv)
}

// evalVariableDeclaration declares each of n's declarators. `var` targets
// the enclosing function scope (already pre-declared as Undefined by
// hoist); `let`/`const` declare directly in env and reject a name
// already present in this exact scope.
func (in *Interpreter) evalVariableDeclaration(n *ast.VariableDeclaration, env *runtime.Environment) (values.Value, Completion, error) {
	kind := runtime.BindingVar
	switch n.Kind {
	case "let":
		kind = runtime.BindingLet
	case "const":
		kind = runtime.BindingConst
	}

	for _, decl := range n.Declarations {
		if n.Kind != "var" {
			for _, name := range bindingNames(decl.ID) {
				if env.HasLocal(name) {
					return values.Undefined{}, Normal(), errors.ErrAlreadyDeclared(decl, name)
				}
			}
		}

		var v values.Value = values.Undefined{}
		if decl.Init != nil {
			dv, c, err := in.Eval(decl.Init, env)
			if err != nil || !c.IsNormal() {
				return values.Undefined{}, c, err
			}
			v = dv
		}

		declEnv := env
		if n.Kind == "var" {
			declEnv = env.FunctionScope()
		}
		if c, err := in.declareBinding(decl.ID, v, declEnv, kind); err != nil || !c.IsNormal() {
			return values.Undefined{}, c, err
		}
	}
	return values.Undefined{}, Normal(), nil
}

func (in *Interpreter) evalIfStatement(n *ast.IfStatement, env *runtime.Environment) (values.Value, Completion, error) {
	test, c, err := in.Eval(n.Test, env)
	if err != nil || !c.IsNormal() {
		return values.Undefined{}, c, err
	}
	if test.Truthy() {
		return in.Eval(n.Consequent, env)
	}
	if n.Alternate != nil {
		return in.Eval(n.Alternate, env)
	}
	return values.Undefined{}, Normal(), nil
}

// loopSignal interprets a loop body's completion against the loop's own
// label (set only when reached via a matching LabeledStatement). brk
// means stop iterating and complete normally; cont means proceed to the
// next iteration; otherwise the completion (a differently-labeled break/
// continue, a return, or a throw) must propagate to the caller as-is.
func loopSignal(c Completion, label string) (brk, cont bool) {
	switch c.Kind {
	case CompletionBreak:
		return c.Label == "" || c.Label == label, false
	case CompletionContinue:
		return false, c.Label == "" || c.Label == label
	default:
		return false, false
	}
}

// copyBindings copies every binding declared directly in src into dst,
// preserving each one's kind, giving a loop a fresh per-iteration copy of
// its let-declared control variables so closures captured in the body see
// the iteration they were created in rather than the loop's final state.
func copyBindings(src, dst *runtime.Environment) {
	src.Range(func(name string, value runtime.Value) bool {
		kind, _ := src.KindOf(name)
		dst.Declare(name, value, kind)
		return true
	})
}

func (in *Interpreter) evalForStatement(n *ast.ForStatement, env *runtime.Environment) (values.Value, Completion, error) {
	return in.evalForStatementLabeled(n, env, "")
}

func (in *Interpreter) evalForStatementLabeled(n *ast.ForStatement, env *runtime.Environment, label string) (values.Value, Completion, error) {
	loopEnv := runtime.NewEnclosedEnvironment(env)
	if n.Init != nil {
		if _, c, err := in.Eval(n.Init, loopEnv); err != nil || !c.IsNormal() {
			return values.Undefined{}, c, err
		}
	}

	for {
		if n.Test != nil {
			test, c, err := in.Eval(n.Test, loopEnv)
			if err != nil || !c.IsNormal() {
				return values.Undefined{}, c, err
			}
			if !test.Truthy() {
				break
			}
		}
		if err := in.Meter.Iterate(n); err != nil {
			return values.Undefined{}, Normal(), err
		}

		iterEnv := runtime.NewEnclosedEnvironment(env)
		copyBindings(loopEnv, iterEnv)
		v, c, err := in.Eval(n.Body, iterEnv)
		copyBindings(iterEnv, loopEnv)
		if err != nil {
			return values.Undefined{}, Normal(), err
		}
		if !c.IsNormal() {
			brk, cont := loopSignal(c, label)
			if brk {
				break
			}
			if !cont {
				return v, c, err
			}
		}

		if n.Update != nil {
			if _, c, err := in.Eval(n.Update, loopEnv); err != nil || !c.IsNormal() {
				return values.Undefined{}, c, err
			}
		}
	}
	return values.Undefined{}, Normal(), nil
}

func (in *Interpreter) evalWhileStatement(n *ast.WhileStatement, env *runtime.Environment) (values.Value, Completion, error) {
	return in.evalWhileStatementLabeled(n, env, "")
}

func (in *Interpreter) evalWhileStatementLabeled(n *ast.WhileStatement, env *runtime.Environment, label string) (values.Value, Completion, error) {
	for {
		test, c, err := in.Eval(n.Test, env)
		if err != nil || !c.IsNormal() {
			return values.Undefined{}, c, err
		}
		if !test.Truthy() {
			break
		}
		if err := in.Meter.Iterate(n); err != nil {
			return values.Undefined{}, Normal(), err
		}
		v, c, err := in.Eval(n.Body, env)
		if err != nil {
			return values.Undefined{}, Normal(), err
		}
		if !c.IsNormal() {
			brk, cont := loopSignal(c, label)
			if brk {
				break
			}
			if !cont {
				return v, c, err
			}
		}
	}
	return values.Undefined{}, Normal(), nil
}

func (in *Interpreter) evalDoWhileStatement(n *ast.DoWhileStatement, env *runtime.Environment) (values.Value, Completion, error) {
	return in.evalDoWhileStatementLabeled(n, env, "")
}

func (in *Interpreter) evalDoWhileStatementLabeled(n *ast.DoWhileStatement, env *runtime.Environment, label string) (values.Value, Completion, error) {
	for {
		if err := in.Meter.Iterate(n); err != nil {
			return values.Undefined{}, Normal(), err
		}
		v, c, err := in.Eval(n.Body, env)
		if err != nil {
			return values.Undefined{}, Normal(), err
		}
		if !c.IsNormal() {
			brk, cont := loopSignal(c, label)
			if brk {
				break
			}
			if !cont {
				return v, c, err
			}
		}
		test, c, err := in.Eval(n.Test, env)
		if err != nil || !c.IsNormal() {
			return values.Undefined{}, c, err
		}
		if !test.Truthy() {
			break
		}
	}
	return values.Undefined{}, Normal(), nil
}

// bindForTarget binds one for-of/for-in iteration's value to Left, which
// is either a fresh VariableDeclaration (a new per-iteration binding) or
// an existing identifier/pattern (an assignment to it).
func (in *Interpreter) bindForTarget(left ast.Node, val values.Value, iterEnv, outerEnv *runtime.Environment) error {
	if decl, ok := left.(*ast.VariableDeclaration); ok {
		target := decl.Declarations[0].ID
		kind := runtime.BindingVar
		switch decl.Kind {
		case "let":
			kind = runtime.BindingLet
		case "const":
			kind = runtime.BindingConst
		}
		declEnv := iterEnv
		if decl.Kind == "var" {
			declEnv = outerEnv.FunctionScope()
		}
		c, err := in.declareBinding(target, val, declEnv, kind)
		if err != nil {
			return err
		}
		if !c.IsNormal() {
			return errors.ErrNotImplemented(left, "non-normal completion binding a for-loop target")
		}
		return nil
	}
	if isPattern(left) {
		return in.assignPattern(left, val, iterEnv)
	}
	return in.assignTo(left, val, iterEnv)
}

func (in *Interpreter) evalForOfStatement(n *ast.ForOfStatement, env *runtime.Environment) (values.Value, Completion, error) {
	return in.evalForOfStatementLabeled(n, env, "")
}

func (in *Interpreter) evalForOfStatementLabeled(n *ast.ForOfStatement, env *runtime.Environment, label string) (values.Value, Completion, error) {
	rightVal, c, err := in.Eval(n.Right, env)
	if err != nil || !c.IsNormal() {
		return values.Undefined{}, c, err
	}
	next, err := in.iterate(n, rightVal)
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
		if err := in.Meter.Iterate(n); err != nil {
			return values.Undefined{}, Normal(), err
		}

		iterEnv := runtime.NewEnclosedEnvironment(env)
		if err := in.bindForTarget(n.Left, val, iterEnv, env); err != nil {
			return values.Undefined{}, Normal(), err
		}
		v, c, err := in.Eval(n.Body, iterEnv)
		if err != nil {
			return values.Undefined{}, Normal(), err
		}
		if !c.IsNormal() {
			brk, cont := loopSignal(c, label)
			if brk {
				break
			}
			if !cont {
				return v, c, err
			}
		}
	}
	return values.Undefined{}, Normal(), nil
}

// forInKeys returns v's own enumerable keys in insertion order (objects)
// or its present numeric indices, stringified, in ascending order
// (arrays) — spec's for-in scope, with no inherited/prototype keys to
// walk since neither value kind has a prototype chain.
func forInKeys(node ast.Node, v values.Value) ([]string, error) {
	switch src := v.(type) {
	case *values.Object:
		keys := make([]string, len(src.Keys()))
		copy(keys, src.Keys())
		return keys, nil
	case *values.Array:
		var keys []string
		for i := 0; i < src.Len(); i++ {
			if src.Has(i) {
				keys = append(keys, strconv.Itoa(i))
			}
		}
		return keys, nil
	default:
		return nil, errors.NewTypeErrorf(errors.PositionFromNode(node), errors.ExpressionFromNode(node), errors.ErrMsgExpectedType, "object or array", values.TypeOf(v))
	}
}

func (in *Interpreter) evalForInStatement(n *ast.ForInStatement, env *runtime.Environment) (values.Value, Completion, error) {
	return in.evalForInStatementLabeled(n, env, "")
}

func (in *Interpreter) evalForInStatementLabeled(n *ast.ForInStatement, env *runtime.Environment, label string) (values.Value, Completion, error) {
	rightVal, c, err := in.Eval(n.Right, env)
	if err != nil || !c.IsNormal() {
		return values.Undefined{}, c, err
	}
	keys, err := forInKeys(n, rightVal)
	if err != nil {
		return values.Undefined{}, Normal(), err
	}

	for _, key := range keys {
		if err := in.Meter.Iterate(n); err != nil {
			return values.Undefined{}, Normal(), err
		}
		iterEnv := runtime.NewEnclosedEnvironment(env)
		if err := in.bindForTarget(n.Left, values.String(key), iterEnv, env); err != nil {
			return values.Undefined{}, Normal(), err
		}
		v, c, err := in.Eval(n.Body, iterEnv)
		if err != nil {
			return values.Undefined{}, Normal(), err
		}
		if !c.IsNormal() {
			brk, cont := loopSignal(c, label)
			if brk {
				break
			}
			if !cont {
				return v, c, err
			}
		}
	}
	return values.Undefined{}, Normal(), nil
}

func (in *Interpreter) evalSwitchStatement(n *ast.SwitchStatement, env *runtime.Environment) (values.Value, Completion, error) {
	return in.evalSwitchStatementLabeled(n, env, "")
}

// evalSwitchStatementLabeled matches the discriminant against each case
// by `===`, falling through (including from `default`, wherever it's
// positioned) until a `break` or the case list ends. A `continue`
// completion is not intercepted here: a switch is not a loop, so it
// propagates to whatever loop (if any) encloses it.
func (in *Interpreter) evalSwitchStatementLabeled(n *ast.SwitchStatement, env *runtime.Environment, label string) (values.Value, Completion, error) {
	disc, c, err := in.Eval(n.Discriminant, env)
	if err != nil || !c.IsNormal() {
		return values.Undefined{}, c, err
	}

	switchEnv := runtime.NewEnclosedEnvironment(env)
	matchIdx, defaultIdx := -1, -1
	for i, cs := range n.Cases {
		if cs.Test == nil {
			defaultIdx = i
			continue
		}
		testVal, c, err := in.Eval(cs.Test, switchEnv)
		if err != nil || !c.IsNormal() {
			return values.Undefined{}, c, err
		}
		if strictEquals(disc, testVal) {
			matchIdx = i
			break
		}
	}
	if matchIdx == -1 {
		matchIdx = defaultIdx
	}
	if matchIdx == -1 {
		return values.Undefined{}, Normal(), nil
	}

	for i := matchIdx; i < len(n.Cases); i++ {
		for _, stmt := range n.Cases[i].Consequent {
			v, c, err := in.Eval(stmt, switchEnv)
			if err != nil {
				return values.Undefined{}, Normal(), err
			}
			if !c.IsNormal() {
				if c.Kind == CompletionBreak && (c.Label == "" || c.Label == label) {
					return values.Undefined{}, Normal(), nil
				}
				return v, c, err
			}
		}
	}
	return values.Undefined{}, Normal(), nil
}

// evalLabeledStatement dispatches to the label-aware evaluator for loop/
// switch bodies so a matching labeled break/continue is intercepted at
// the right level; any other statement kind just gets a plain break
// target.
func (in *Interpreter) evalLabeledStatement(n *ast.LabeledStatement, env *runtime.Environment) (values.Value, Completion, error) {
	label := n.Label.Name
	switch body := n.Body.(type) {
	case *ast.ForStatement:
		return in.evalForStatementLabeled(body, env, label)
	case *ast.ForOfStatement:
		return in.evalForOfStatementLabeled(body, env, label)
	case *ast.ForInStatement:
		return in.evalForInStatementLabeled(body, env, label)
	case *ast.WhileStatement:
		return in.evalWhileStatementLabeled(body, env, label)
	case *ast.DoWhileStatement:
		return in.evalDoWhileStatementLabeled(body, env, label)
	case *ast.SwitchStatement:
		return in.evalSwitchStatementLabeled(body, env, label)
	default:
		v, c, err := in.Eval(n.Body, env)
		if err != nil {
			return values.Undefined{}, Normal(), err
		}
		if c.Kind == CompletionBreak && c.Label == label {
			return values.Undefined{}, Normal(), nil
		}
		return v, c, err
	}
}

// evalTryStatement runs Block, routes an uncaught sandbox Throw to
// Handler when present, and always runs Finalizer — including when
// Block or Handler completed with a Return/Break/Continue — with
// Finalizer's own non-normal completion (or error) taking precedence
// over whatever Block/Handler produced, per the language's try/finally
// semantics.
func (in *Interpreter) evalTryStatement(n *ast.TryStatement, env *runtime.Environment) (values.Value, Completion, error) {
	v, c, err := in.Eval(n.Block, env)

	if err == nil && c.Kind == CompletionThrow && n.Handler != nil {
		catchEnv := runtime.NewEnclosedEnvironment(env)
		thrown := c.Value
		if n.Handler.Param != nil {
			bc, berr := in.declareBinding(n.Handler.Param, thrown, catchEnv, runtime.BindingLet)
			if berr != nil {
				v, c, err = values.Undefined{}, Normal(), berr
			} else if !bc.IsNormal() {
				v, c, err = values.Undefined{}, bc, nil
			} else {
				v, c, err = in.Eval(n.Handler.Body, catchEnv)
			}
		} else {
			v, c, err = in.Eval(n.Handler.Body, catchEnv)
		}
	}

	if n.Finalizer != nil {
		_, fc, ferr := in.Eval(n.Finalizer, env)
		if ferr != nil {
			return values.Undefined{}, Normal(), ferr
		}
		if !fc.IsNormal() {
			return values.Undefined{}, fc, nil
		}
	}

	return v, c, err
}
