package sandbox

import (
	"context"
	"encoding/json"
	"io"

	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/errors"
	"github.com/samlaycock/nookjs/internal/evaluator"
	"github.com/samlaycock/nookjs/internal/runtime"
)

// Interpreter is one sandbox instance: a persistent root scope carrying
// Config.Globals, shared across every Evaluate/EvaluateAsync call it
// runs. When Config.StrictEvaluationIsolation is set, at most one of
// those calls is in flight at a time; otherwise calls may overlap.
// Construct one with New and reuse it across many calls — each call
// still gets its own fresh
// top-level function scope (so one call's `var`/function hoisting never
// leaks into the next), while host globals registered on the root scope
// remain visible to every call via the scope chain.
type Interpreter struct {
	globals    *Globals
	limits     Limits
	hideErrors bool
	output     *redirectWriter
	guard      *runtime.Guard
	root       *runtime.Environment
}

// New constructs an Interpreter from cfg. cfg.Globals may be nil (no
// host globals at all); every other zero value falls back to a sensible
// default (DefaultLimits(), discarded output).
func New(cfg Config) *Interpreter {
	limits := cfg.Limits
	if limits == (Limits{}) {
		limits = DefaultLimits()
	}
	in := &Interpreter{
		globals:    cfg.Globals,
		limits:     limits,
		hideErrors: cfg.HideHostErrorMessages,
		output:     newRedirectWriter(cfg.Output),
		guard:      runtime.NewGuard(runtime.ModeSync),
		root:       runtime.NewEnvironment(),
	}
	in.guard.Strict = cfg.StrictEvaluationIsolation
	in.applyGlobals(in.globals, in.root)
	return in
}

// SetOutput retargets where a console-shaped preset's output goes.
// Safe to call between calls to Evaluate/EvaluateAsync; calling it
// while one is in flight is undefined.
func (in *Interpreter) SetOutput(w io.Writer) {
	in.output.set(w)
}

// Output returns the Interpreter's retargetable output writer. A
// console-shaped preset writes to it only when built with it, e.g.
// NewGlobalsFromPreset(name, in.Output()).
func (in *Interpreter) Output() io.Writer {
	return in.output
}

func (in *Interpreter) applyGlobals(g *Globals, env *runtime.Environment) {
	g.apply(env)
}

// Evaluate synchronously runs source (a JSON-encoded document matching
// the external parser's ESTree-shaped AST contract) and
// returns the value of its last top-level statement. opts is optional;
// pass nil to use the Interpreter's configured defaults for everything.
func (in *Interpreter) Evaluate(source string, opts *CallOptions) (Result, error) {
	return in.run(context.Background(), runtime.ModeSync, source, opts)
}

// EvaluateAsync is Evaluate's cooperative counterpart: `await` and async
// functions/generators are permitted, and ctx's cancellation is observed
// at every suspension point and loop iteration. The whole call still runs
// on the caller's goroutine — "cooperative" means the sandbox yields
// control at well-defined points (await, yield), not that it spawns a
// separate scheduler the caller doesn't control.
func (in *Interpreter) EvaluateAsync(ctx context.Context, source string, opts *CallOptions) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return in.run(ctx, runtime.ModeAsync, source, opts)
}

func (in *Interpreter) run(ctx context.Context, mode runtime.Mode, source string, opts *CallOptions) (Result, error) {
	release, err := in.guard.EnterMode(mode)
	if err != nil {
		return Result{}, err
	}
	defer release()

	program, err := decodeProgram(source)
	if err != nil {
		return Result{}, err
	}

	limits := in.limits
	var overlay *Globals
	if opts != nil {
		limits = opts.effectiveLimits(in.limits)
		overlay = opts.Globals
	}

	env := runtime.NewFunctionScope(in.root)
	in.applyGlobals(overlay, env)

	meter := runtime.NewMeter(ctx, limits)
	interp := evaluator.New(env, meter, in.guard, nil)
	interp.HideHostErrorMessages = in.hideErrors

	v, _, err := interp.Eval(program, env)
	if err != nil {
		return Result{}, err
	}
	return newResult(v), nil
}

// decodeProgram turns a JSON-encoded ESTree document into the typed AST
// the evaluator walks.
func decodeProgram(source string) (*ast.Program, error) {
	var raw any
	if err := json.Unmarshal([]byte(source), &raw); err != nil {
		return nil, errors.NewInternalErrorf(nil, "", "invalid AST document: %v", err)
	}
	node, err := ast.Decode(raw)
	if err != nil {
		return nil, errors.NewInternalErrorf(nil, "", "invalid AST document: %v", err)
	}
	program, ok := node.(*ast.Program)
	if !ok {
		return nil, errors.NewInternalErrorf(nil, "", "invalid AST document: expected a Program node, got %T", node)
	}
	return program, nil
}
