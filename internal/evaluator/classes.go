package evaluator

import (
	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/errors"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// SandboxClass is the minimal class model this interpreter supports: fields, a
// constructor, and methods, with `extends` resolved as a one-time,
// non-live copy-down of the parent's method/field set at declaration
// time rather than a prototype link (no prototype chains, per the
// Non-goals).
type SandboxClass struct {
	Name        string
	Constructor *runtime.SandboxFunction
	Methods     map[string]*runtime.SandboxFunction
	Fields      []classField
}

type classField struct {
	name string
	init ast.Node // may be nil
}

func (c *SandboxClass) Type() string   { return "function" }
func (c *SandboxClass) String() string { return "class " + c.Name + " { }" }
func (c *SandboxClass) Truthy() bool   { return true }

// evalClassDeclaration builds the class value and binds it under its name.
func (in *Interpreter) evalClassDeclaration(n *ast.ClassDeclaration, env *runtime.Environment) (values.Value, Completion, error) {
	class, c, err := in.buildClass(n.ID, n.SuperClass, n.Body, env)
	if err != nil || !c.IsNormal() {
		return values.Undefined{}, c, err
	}
	if n.ID != nil {
		env.Declare(n.ID.Name, class, runtime.BindingLet)
	}
	return values.Undefined{}, Normal(), nil
}

func (in *Interpreter) evalClassExpression(n *ast.ClassExpression, env *runtime.Environment) (values.Value, Completion, error) {
	return in.buildClass(n.ID, n.SuperClass, n.Body, env)
}

// buildClass resolves `extends` (a one-time copy of the parent's methods
// and fields, never a live link) and collects the class's own methods and
// field initializers.
func (in *Interpreter) buildClass(id *ast.Identifier, superClass ast.Node, body *ast.ClassBody, env *runtime.Environment) (values.Value, Completion, error) {
	name := ""
	if id != nil {
		name = id.Name
	}
	class := &SandboxClass{Name: name, Methods: make(map[string]*runtime.SandboxFunction)}

	if superClass != nil {
		superVal, c, err := in.Eval(superClass, env)
		if err != nil || !c.IsNormal() {
			return values.Undefined{}, c, err
		}
		parent, ok := superVal.(*SandboxClass)
		if !ok {
			return values.Undefined{}, Normal(), errors.NewTypeErrorf(errors.PositionFromNode(superClass), errors.ExpressionFromNode(superClass), errors.ErrMsgInvalidOperation, "extends", values.TypeOf(superVal))
		}
		for k, v := range parent.Methods {
			class.Methods[k] = v
		}
		class.Fields = append(class.Fields, parent.Fields...)
		class.Constructor = parent.Constructor
	}

	for _, member := range body.Body {
		switch m := member.(type) {
		case *ast.ClassMethod:
			fn := makeSandboxFunction(&m.Value.FunctionBase, env)
			if m.Kind == "constructor" {
				class.Constructor = fn
				continue
			}
			key, c, err := classMemberKey(in, m.Key, m.Computed, env)
			if err != nil || !c.IsNormal() {
				return values.Undefined{}, c, err
			}
			fn.Name = key
			class.Methods[key] = fn

		case *ast.ClassProperty:
			key, c, err := classMemberKey(in, m.Key, m.Computed, env)
			if err != nil || !c.IsNormal() {
				return values.Undefined{}, c, err
			}
			class.Fields = append(class.Fields, classField{name: key, init: m.Value})
		}
	}

	return class, Normal(), nil
}

// classMemberKey resolves a (possibly computed) method or field name.
func classMemberKey(in *Interpreter, key ast.Node, computed bool, env *runtime.Environment) (string, Completion, error) {
	if !computed {
		switch k := key.(type) {
		case *ast.Identifier:
			return k.Name, Normal(), nil
		case *ast.StringLiteral:
			return k.Value, Normal(), nil
		}
	}
	v, c, err := in.Eval(key, env)
	if err != nil || !c.IsNormal() {
		return "", c, err
	}
	return v.String(), Normal(), nil
}

// instantiate builds a fresh instance carrying the class's fields
// (evaluated per-instance with `this` already bound) and bound copies of
// its methods as plain own properties — there is no prototype chain, so
// every instance gets its own reference to each method value — then runs
// the constructor if one is declared.
func (in *Interpreter) instantiate(class *SandboxClass, args []values.Value, node ast.Node) (values.Value, Completion, error) {
	instance := values.NewObject()
	instance.Set("__class__", values.String(class.Name))
	for name, method := range class.Methods {
		instance.Set(name, method)
	}

	fieldEnv := runtime.NewFunctionScope(in.Global)
	fieldEnv.Declare("this", instance, runtime.BindingConst)
	for _, f := range class.Fields {
		var v values.Value = values.Undefined{}
		if f.init != nil {
			fv, c, err := in.Eval(f.init, fieldEnv)
			if err != nil || !c.IsNormal() {
				return values.Undefined{}, c, err
			}
			v = fv
		}
		instance.Set(f.name, v)
	}

	if class.Constructor != nil {
		if _, c, err := in.call(class.Constructor, instance, args, node); err != nil || !c.IsNormal() {
			return values.Undefined{}, c, err
		}
	}
	return instance, Normal(), nil
}
