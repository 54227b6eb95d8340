package runtime

import "context"

// GeneratorState is the lifecycle state of a generator's coroutine.
type GeneratorState int

const (
	GeneratorSuspendedStart GeneratorState = iota
	GeneratorSuspendedYield
	GeneratorRunning
	GeneratorCompleted
)

// Generator is implemented by the evaluator's coroutine-backed generator
// machinery. Keeping the interface here (rather than the concrete type)
// lets GeneratorHandle live alongside the other callable/reference value
// kinds without internal/runtime depending on internal/evaluator, which
// would be a cycle: the evaluator needs Environment/Meter/Guard from this
// package to run a generator body.
type Generator interface {
	// Next resumes the generator, delivering sent as the result of the
	// `yield` expression that suspended it (ignored on the first call).
	// done is true once the generator body has returned or completed.
	Next(ctx context.Context, sent Value) (value Value, done bool, err error)
	// Return forces the generator to act as if a `return value` had
	// been reached at its current suspension point, running any
	// pending finally blocks.
	Return(ctx context.Context, value Value) (result Value, done bool, err error)
	// Throw resumes the generator by raising value as a sandbox Throw
	// at its current suspension point.
	Throw(ctx context.Context, value Value) (result Value, done bool, err error)
	// State reports the generator's current lifecycle state.
	State() GeneratorState
}

// GeneratorHandle is the Value kind sandboxed code observes for a
// generator or async generator object returned by calling a `function*`/
// `async function*`.
type GeneratorHandle struct {
	Gen   Generator
	Async bool
}

func (g *GeneratorHandle) Type() string   { return "object" }
func (g *GeneratorHandle) String() string { return "[object Generator]" }
func (g *GeneratorHandle) Truthy() bool   { return true }
