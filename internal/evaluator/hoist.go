package evaluator

import (
	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// hoist walks body (a Program's or function's top-level statement list,
// recursing into nested blocks/loops/conditionals but not into nested
// function bodies) and pre-declares every `var` binding as Undefined on
// env's function scope, and every function declaration as its
// already-evaluated function value. This must run before the statement
// list itself executes so that forward references (a call before its
// `function` declaration, a read of a `var` before its assignment) see
// the hoisted bindings rather than an undefined-variable error.
func hoist(body []ast.Node, env *runtime.Environment) {
	fnScope := env.FunctionScope()
	for _, stmt := range body {
		hoistStatement(stmt, fnScope)
	}
	// Function declarations are hoisted with their value already bound
	// (not just their name), so a second pass assigns them after every
	// var name in the scope exists.
	for _, stmt := range body {
		if fd, ok := stmt.(*ast.FunctionDeclaration); ok && fd.ID != nil {
			fnScope.Declare(fd.ID.Name, makeSandboxFunction(&fd.FunctionBase, env), runtime.BindingVar)
		}
	}
}

func hoistStatement(node ast.Node, fnScope *runtime.Environment) {
	switch n := node.(type) {
	case *ast.VariableDeclaration:
		if n.Kind != "var" {
			return
		}
		for _, decl := range n.Declarations {
			for _, name := range bindingNames(decl.ID) {
				if !fnScope.HasLocal(name) {
					fnScope.Declare(name, values.Undefined{}, runtime.BindingVar)
				}
			}
		}
	case *ast.BlockStatement:
		for _, s := range n.Body {
			hoistStatement(s, fnScope)
		}
	case *ast.IfStatement:
		hoistStatement(n.Consequent, fnScope)
		if n.Alternate != nil {
			hoistStatement(n.Alternate, fnScope)
		}
	case *ast.ForStatement:
		if n.Init != nil {
			hoistStatement(n.Init, fnScope)
		}
		hoistStatement(n.Body, fnScope)
	case *ast.ForOfStatement:
		hoistStatement(n.Left, fnScope)
		hoistStatement(n.Body, fnScope)
	case *ast.ForInStatement:
		hoistStatement(n.Left, fnScope)
		hoistStatement(n.Body, fnScope)
	case *ast.WhileStatement:
		hoistStatement(n.Body, fnScope)
	case *ast.DoWhileStatement:
		hoistStatement(n.Body, fnScope)
	case *ast.TryStatement:
		hoistStatement(n.Block, fnScope)
		if n.Handler != nil {
			hoistStatement(n.Handler.Body, fnScope)
		}
		if n.Finalizer != nil {
			hoistStatement(n.Finalizer, fnScope)
		}
	case *ast.SwitchStatement:
		for _, c := range n.Cases {
			for _, s := range c.Consequent {
				hoistStatement(s, fnScope)
			}
		}
	case *ast.LabeledStatement:
		hoistStatement(n.Body, fnScope)
	}
}

// bindingNames flattens an identifier or destructuring pattern into the
// list of names it binds, used by both hoisting and `var`/`let`/`const`
// declaration evaluation.
func bindingNames(target ast.Node) []string {
	switch t := target.(type) {
	case *ast.Identifier:
		return []string{t.Name}
	case *ast.AssignmentPattern:
		return bindingNames(t.Left)
	case *ast.RestElement:
		return bindingNames(t.Argument)
	case *ast.ArrayPattern:
		var names []string
		for _, el := range t.Elements {
			if el == nil {
				continue
			}
			names = append(names, bindingNames(el)...)
		}
		return names
	case *ast.ObjectPattern:
		var names []string
		for _, prop := range t.Properties {
			switch p := prop.(type) {
			case *ast.RestElement:
				names = append(names, bindingNames(p.Argument)...)
			case *ast.Property:
				names = append(names, bindingNames(p.Value)...)
			}
		}
		return names
	default:
		return nil
	}
}
