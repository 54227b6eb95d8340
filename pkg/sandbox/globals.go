package sandbox

import (
	"github.com/samlaycock/nookjs/internal/evaluator"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// HostFunc is the Go-side signature a registered host function must
// satisfy: ctx carries the evaluation's cancellation/deadline, this is
// the receiver for a method-style call (Undefined for a bare function
// call), and args are the sandbox values passed at the call site.
type HostFunc = runtime.HostFunc

// Value is a sandbox-side value, the type RegisterValue and a HostFunc's
// return both traffic in. Presets and FFI glue construct these directly
// (values.String, values.Number, values.NewObject, ...) rather than
// through any reflection-based conversion — this sandbox has no implicit
// Go-type-to-sandbox-type marshaling layer; there is no reflect-driven
// RegisterFunction here.
type Value = values.Value

// Globals is a mutable registry of host-provided free identifiers
// (functions and plain values) injected into an Interpreter's root scope,
// or layered on top of it for one call via CallOptions.Globals. There is
// no global object in this language model: every registered name is a
// flat `var` binding, not a property of some `globalThis`.
type Globals struct {
	inner *evaluator.Globals
}

// NewGlobals creates an empty registry. Presets build on this (see
// internal/presets) to hand back a ready-made bundle; most embedders
// start from a preset and layer their own RegisterFunction/RegisterValue
// calls on top rather than building one from scratch.
func NewGlobals() *Globals {
	return &Globals{inner: evaluator.NewGlobals()}
}

// RegisterFunction exposes fn to sandboxed code as a callable named name.
func (g *Globals) RegisterFunction(name string, fn HostFunc) {
	g.inner.RegisterFunction(name, fn)
}

// RegisterAsyncFunction exposes fn as a callable only awaitable/callable
// while the Interpreter is running in async mode (evaluateAsync); calling
// it under Evaluate is a security error, per this sandbox's sync/async
// call rule.
func (g *Globals) RegisterAsyncFunction(name string, fn HostFunc) {
	g.inner.RegisterValue(name, &runtime.HostFunction{Name: name, Fn: fn, Async: true})
}

// RegisterValue exposes an arbitrary sandbox value (a frozen object, a
// number, a nested namespace-shaped Object) under name.
func (g *Globals) RegisterValue(name string, v Value) {
	g.inner.RegisterValue(name, v)
}

func (g *Globals) apply(env *runtime.Environment) {
	if g == nil {
		return
	}
	g.inner.Apply(env)
}
