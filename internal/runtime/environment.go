// Package runtime provides the evaluator's execution-time machinery: the
// lexical environment/scope chain, the call stack and resource meter, the
// security guard, and the callable/generator value kinds that close over
// an Environment.
package runtime

import (
	"github.com/samlaycock/nookjs/internal/errors"
	"github.com/samlaycock/nookjs/internal/values"
)

// BindingKind records how a binding was declared, which governs hoisting
// and reassignment.
type BindingKind int

const (
	// BindingVar is function/top-scoped and hoisted: the name exists
	// (as Undefined) from the start of its enclosing function/program,
	// and redeclaration in the same scope is permitted.
	BindingVar BindingKind = iota
	// BindingLet is block-scoped, mutable, and not hoisted: reading it
	// before its declaration executes is the caller's responsibility to
	// reject (temporal-dead-zone checking lives in the evaluator).
	BindingLet
	// BindingConst is block-scoped and immutable after initialization.
	BindingConst
)

type binding struct {
	value Value
	kind  BindingKind
}

// Value is an alias so callers working purely in terms of runtime don't
// need to import internal/values directly for the common case.
type Value = values.Value

// Environment is a single scope's symbol table, chained to its enclosing
// scope for lexical lookup. Bindings are case-sensitive and tagged with
// the var/let/const distinction the language's block scoping and
// hoisting rules require.
type Environment struct {
	store map[string]*binding
	outer *Environment
	// isFunctionScope marks environments that `var` hoisting targets:
	// the global/program scope and each function-call scope. Block
	// scopes (if/for/while bodies, bare blocks) are not function scopes,
	// so a `var` declared inside one climbs past it.
	isFunctionScope bool
}

// NewEnvironment creates a new root-level (program/global) environment.
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]*binding), isFunctionScope: true}
}

// NewEnclosedEnvironment creates a block-scoped environment nested inside
// outer, used for if/for/while bodies and bare blocks.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	return &Environment{store: make(map[string]*binding), outer: outer}
}

// NewFunctionScope creates a function-call scope nested inside outer: the
// target hoisted `var` declarations climb to from any nested block.
func NewFunctionScope(outer *Environment) *Environment {
	return &Environment{store: make(map[string]*binding), outer: outer, isFunctionScope: true}
}

// Get retrieves a variable's value, searching outward through the scope
// chain.
func (e *Environment) Get(name string) (Value, bool) {
	if b, ok := e.store[name]; ok {
		return b.value, true
	}
	if e.outer != nil {
		return e.outer.Get(name)
	}
	return nil, false
}

// GetLocal retrieves a variable's value only from this environment,
// without searching outer scopes.
func (e *Environment) GetLocal(name string) (Value, bool) {
	if b, ok := e.store[name]; ok {
		return b.value, true
	}
	return nil, false
}

// Set assigns to an existing binding, searching outward through the
// scope chain to find where it was declared. Returns a *errors.InterpreterError
// if the name is undeclared anywhere in the chain, or if it names a
// const binding.
func (e *Environment) Set(name string, val Value) error {
	env := e
	for env != nil {
		if b, ok := env.store[name]; ok {
			if b.kind == BindingConst {
				return errors.NewRuntimeErrorf(nil, name, "assignment to constant variable: %s", name)
			}
			b.value = val
			return nil
		}
		env = env.outer
	}
	return errors.UndefinedVariableError(nil, name, name)
}

// Declare introduces a new binding of the given kind in this environment.
// `var` declarations are hoisted by the evaluator calling Declare on the
// nearest function scope (found via FunctionScope) rather than the
// innermost block; `let`/`const` declare directly in the block scope they
// appear in. Redeclaring an existing `let`/`const` name in the same scope
// is a caller-checked error (Has/GetLocal before calling Declare); `var`
// may always redeclare.
func (e *Environment) Declare(name string, val Value, kind BindingKind) {
	e.store[name] = &binding{value: val, kind: kind}
}

// Has reports whether name is bound anywhere in the scope chain.
func (e *Environment) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// HasLocal reports whether name is bound directly in this environment.
func (e *Environment) HasLocal(name string) bool {
	_, ok := e.store[name]
	return ok
}

// KindOf reports the binding kind of a name declared directly in this
// environment.
func (e *Environment) KindOf(name string) (BindingKind, bool) {
	b, ok := e.store[name]
	if !ok {
		return 0, false
	}
	return b.kind, true
}

// FunctionScope returns the nearest enclosing environment that `var`
// hoisting targets (this environment if it is already one).
func (e *Environment) FunctionScope() *Environment {
	env := e
	for env != nil && !env.isFunctionScope {
		env = env.outer
	}
	if env == nil {
		return e // unreachable in practice: the root environment is always a function scope
	}
	return env
}

// Outer returns the enclosing environment, or nil at the root.
func (e *Environment) Outer() *Environment {
	return e.outer
}

// Size returns the number of bindings declared directly in this
// environment (not including outer scopes).
func (e *Environment) Size() int {
	return len(e.store)
}

// Range calls f for every binding declared directly in this environment.
// Iteration order is unspecified; callers needing declaration order
// should consult the AST instead (the environment itself does not track
// it, only values.Object does).
func (e *Environment) Range(f func(name string, value Value) bool) {
	for name, b := range e.store {
		if !f(name, b.value) {
			return
		}
	}
}
