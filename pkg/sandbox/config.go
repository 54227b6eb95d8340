// Package sandbox is the public embedding surface: construct an
// Interpreter with persistent host globals and resource limits, then run
// source through it with Evaluate (synchronous) or EvaluateAsync
// (cooperative). Everything under internal/ is plumbing this package
// assembles; nothing outside this package and cmd/nookjs should import
// internal/ directly.
package sandbox

import (
	"io"

	"github.com/samlaycock/nookjs/internal/runtime"
)

// Limits re-exports runtime.Limits so callers never need to import
// internal/runtime themselves.
type Limits = runtime.Limits

// DefaultLimits returns the limits a new Config starts from absent
// explicit overrides.
func DefaultLimits() Limits {
	return runtime.DefaultLimits()
}

// Config configures a persistent Interpreter: the host globals available
// to every evaluation it runs, the resource limits enforced absent a
// per-call override, and whether a host function's own error text is
// elided from the wrapped error surfaced to the caller.
type Config struct {
	// Globals holds the host functions/values available as free
	// identifiers in every evaluation this Interpreter runs. Nil means
	// no host globals at all (not even a preset) — use NewGlobalsFromPreset
	// to seed one of the standard bundles first.
	Globals *Globals

	// Limits bounds call-stack depth, loop iterations, and memory charge
	// absent a per-call override. New replaces an all-zero Limits with
	// DefaultLimits(); in a partly set Limits, a zero MaxLoopIterations or
	// MaxMemoryBytes disables that check and a zero MaxCallStackDepth
	// falls back to 1024.
	Limits Limits

	// HideHostErrorMessages elides a host function's original error text
	// from the InterpreterError wrapping it, surfacing only that the
	// call threw. Useful when host functions might echo details the
	// sandboxed script shouldn't see.
	HideHostErrorMessages bool

	// Output is the initial target of the writer Interpreter.Output
	// returns. Nil discards it. Call SetOutput to change it after
	// construction. A console-shaped preset (see internal/presets) writes
	// through that writer, and so observes SetOutput, only when it was
	// built with Interpreter.Output(); a preset built with another writer
	// keeps writing to that writer.
	Output io.Writer

	// StrictEvaluationIsolation forces every Evaluate/EvaluateAsync call
	// on this Interpreter to run exclusively, rejecting a call made while
	// another is still in flight. Off by default: concurrent async calls
	// on the same Interpreter instead share its root environment and are
	// free to interleave. Set this when embedding code that mixes
	// Evaluate and EvaluateAsync concurrently on one Interpreter, or that
	// otherwise needs a guarantee that no two evaluations ever overlap.
	StrictEvaluationIsolation bool
}

// CallOptions are per-call overrides layered on top of Config for one
// Evaluate/EvaluateAsync invocation.
type CallOptions struct {
	// Globals overlays additional host globals for this call only; a
	// name also present in the Interpreter's Config.Globals is shadowed
	// for the duration of this call.
	Globals *Globals

	// Limits, when non-zero in a field, overrides the Interpreter's
	// configured limit for that field for this call only.
	Limits Limits
}

func (o CallOptions) effectiveLimits(base Limits) Limits {
	limits := base
	if o.Limits.MaxCallStackDepth != 0 {
		limits.MaxCallStackDepth = o.Limits.MaxCallStackDepth
	}
	if o.Limits.MaxLoopIterations != 0 {
		limits.MaxLoopIterations = o.Limits.MaxLoopIterations
	}
	if o.Limits.MaxMemoryBytes != 0 {
		limits.MaxMemoryBytes = o.Limits.MaxMemoryBytes
	}
	return limits
}
