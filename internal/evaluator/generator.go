package evaluator

import (
	"context"

	"github.com/samlaycock/nookjs/internal/errors"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// Generators need genuine suspend/resume: a `yield` must pause execution
// mid-function and hand a value back to whichever `.next()` call is
// driving it, then pick up exactly where it left off on the next call.
// Go has no first-class continuations, so this is built the same way the
// language's own runtimes that target Go do it: one goroutine per live
// generator, blocked on a channel at each suspension point. Async
// functions reuse nothing here — see async.go — because `await` only
// ever needs to block on a settling value, not hand control back to a
// caller that resumes it with a new input.

type resumeKind int

const (
	resumeNext resumeKind = iota
	resumeThrow
	resumeReturnGen
)

type resumeMsg struct {
	kind  resumeKind
	value values.Value
}

type yieldMsg struct {
	value values.Value
	done  bool
	err   error
}

// genChannels is the suspension point a generator's own body evaluates
// against; evalYieldExpression looks it up via Interpreter.gen.
type genChannels struct {
	resumeCh chan resumeMsg
	yieldCh  chan yieldMsg
}

func (g *genChannels) yield(v values.Value) (values.Value, Completion, error) {
	g.yieldCh <- yieldMsg{value: v}
	msg := <-g.resumeCh
	switch msg.kind {
	case resumeThrow:
		return values.Undefined{}, Throw(msg.value), nil
	case resumeReturnGen:
		return values.Undefined{}, Return(msg.value), nil
	default:
		return msg.value, Normal(), nil
	}
}

// yieldDelegate implements `yield* iterable`: pull every value from
// iterable and re-yield it. Values sent into this generator while it
// delegates are not passed on to the delegate: iterate()'s
// GeneratorHandle branch always sends Undefined as the input to a
// nested generator's Next. The yield* expression evaluates to the last
// value sent in.
func (in *Interpreter) yieldDelegate(src values.Value, env *runtime.Environment) (values.Value, Completion, error) {
	next, err := in.iterate(nil, src)
	if err != nil {
		return values.Undefined{}, Normal(), err
	}
	var last values.Value = values.Undefined{}
	for {
		v, ok, c, err := next()
		if err != nil || !c.IsNormal() {
			return values.Undefined{}, c, err
		}
		if !ok {
			return last, Normal(), nil
		}
		result, c, err := in.gen.yield(v)
		if err != nil || !c.IsNormal() {
			return result, c, err
		}
		last = result
	}
}

// sandboxGenerator implements runtime.Generator by driving a lazily
// started goroutine running the generator function's body.
type sandboxGenerator struct {
	interp *Interpreter
	fn     *runtime.SandboxFunction
	this   values.Value
	args   []values.Value

	ch      genChannels
	started bool
	state   runtime.GeneratorState
}

func newGeneratorHandle(interp *Interpreter, fn *runtime.SandboxFunction, this values.Value, args []values.Value) *runtime.GeneratorHandle {
	g := &sandboxGenerator{
		interp: interp,
		fn:     fn,
		this:   this,
		args:   args,
		ch: genChannels{
			resumeCh: make(chan resumeMsg),
			yieldCh:  make(chan yieldMsg),
		},
		state: runtime.GeneratorSuspendedStart,
	}
	return &runtime.GeneratorHandle{Gen: g, Async: fn.Async}
}

func (g *sandboxGenerator) State() runtime.GeneratorState { return g.state }

func (g *sandboxGenerator) Next(ctx context.Context, sent values.Value) (values.Value, bool, error) {
	return g.resume(ctx, resumeMsg{kind: resumeNext, value: sent})
}

func (g *sandboxGenerator) Return(ctx context.Context, v values.Value) (values.Value, bool, error) {
	if !g.started || g.state == runtime.GeneratorCompleted {
		g.state = runtime.GeneratorCompleted
		return v, true, nil
	}
	return g.resume(ctx, resumeMsg{kind: resumeReturnGen, value: v})
}

func (g *sandboxGenerator) Throw(ctx context.Context, v values.Value) (values.Value, bool, error) {
	if !g.started || g.state == runtime.GeneratorCompleted {
		g.state = runtime.GeneratorCompleted
		return values.Undefined{}, true, errors.UncaughtThrowError(nil, "", values.Inspect(v))
	}
	return g.resume(ctx, resumeMsg{kind: resumeThrow, value: v})
}

func (g *sandboxGenerator) resume(ctx context.Context, msg resumeMsg) (values.Value, bool, error) {
	if g.state == runtime.GeneratorCompleted {
		return values.Undefined{}, true, nil
	}
	g.state = runtime.GeneratorRunning
	if !g.started {
		g.started = true
		go g.run()
	} else {
		select {
		case g.ch.resumeCh <- msg:
		case <-ctx.Done():
			g.state = runtime.GeneratorCompleted
			return values.Undefined{}, true, errors.EvaluationCanceledError()
		}
	}
	select {
	case out := <-g.ch.yieldCh:
		if out.err != nil {
			g.state = runtime.GeneratorCompleted
			return values.Undefined{}, true, out.err
		}
		if out.done {
			g.state = runtime.GeneratorCompleted
		} else {
			g.state = runtime.GeneratorSuspendedYield
		}
		return out.value, out.done, nil
	case <-ctx.Done():
		g.state = runtime.GeneratorCompleted
		return values.Undefined{}, true, errors.EvaluationCanceledError()
	}
}

// run executes the generator body on its own goroutine, reporting its
// outcome on yieldCh exactly once.
func (g *sandboxGenerator) run() {
	callEnv := runtime.NewFunctionScope(g.fn.Closure)
	bindCallEnvironment(callEnv, g.fn, g.this, g.args)
	if err := bindParams(g.interp, g.fn.Params, g.args, callEnv, g.fn); err != nil {
		g.ch.yieldCh <- yieldMsg{done: true, err: err}
		return
	}

	bodyInterp := *g.interp
	bodyInterp.gen = &g.ch

	v, c, err := bodyInterp.Eval(g.fn.Body, callEnv)
	switch {
	case err != nil:
		g.ch.yieldCh <- yieldMsg{done: true, err: err}
	case c.Kind == CompletionThrow:
		g.ch.yieldCh <- yieldMsg{done: true, err: errors.UncaughtThrowError(
			errors.PositionFromNode(g.fn.Body), "", values.Inspect(c.Value))}
	case c.Kind == CompletionReturn:
		g.ch.yieldCh <- yieldMsg{value: c.Value, done: true}
	default:
		g.ch.yieldCh <- yieldMsg{value: v, done: true}
	}
}
