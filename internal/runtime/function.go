package runtime

import (
	"context"

	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/values"
)

// SandboxFunction is a callable produced by evaluating a function
// declaration, function expression, or arrow function inside the
// sandbox. It closes over the Environment active at its definition site,
// giving it proper lexical scoping for free variables.
type SandboxFunction struct {
	Name      string
	Params    []ast.Node
	Body      ast.Node
	ExprBody  bool
	Closure   *Environment
	IsArrow   bool // arrow functions bind no own `this`/`arguments`
	Async     bool
	Generator bool
}

func (f *SandboxFunction) Type() string { return "function" }
func (f *SandboxFunction) String() string {
	if f.Name != "" {
		return "function " + f.Name + "() { [sandbox code] }"
	}
	return "function () { [sandbox code] }"
}
func (f *SandboxFunction) Truthy() bool { return true }

// HostFunc is the Go-side signature a registered host function must
// implement: it receives the bound `this` value (Undefined for a bare
// call), the evaluated argument list, and the meter's context so
// long-running host calls can observe cancellation.
type HostFunc func(ctx context.Context, this values.Value, args []values.Value) (values.Value, error)

// HostFunction wraps a HostFunc so it can flow through the sandbox as an
// ordinary callable Value. Host functions expose no introspection to
// sandboxed code beyond `length`/`name` (see
// CheckHostFunctionIntrospection) — they are opaque capabilities, not
// full objects. Props is the one deliberate exception: a constructor-
// style host global (Date, with its static `now`) may carry a small,
// embedder-populated property bag alongside itself, read-only from
// sandboxed code's perspective (property writes still hit the lockdown
// check; only named-property reads consult Props).
type HostFunction struct {
	Name  string
	Fn    HostFunc
	Async bool // calling an async host function from a synchronous evaluation is rejected, same as an async sandbox function
	Props *values.Object
}

func (f *HostFunction) Type() string   { return "function" }
func (f *HostFunction) String() string { return "function " + f.Name + "() { [native code] }" }
func (f *HostFunction) Truthy() bool   { return true }

// Call invokes the wrapped Go function directly; the evaluator's call
// machinery is responsible for resource-metering and security checks
// before reaching here.
func (f *HostFunction) Call(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
	return f.Fn(ctx, this, args)
}
