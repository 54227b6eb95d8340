package evaluator

import (
	"encoding/json"
	"testing"

	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/runtime"
)

func node(t *testing.T, m map[string]any) ast.Node {
	t.Helper()
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}
	n, err := ast.Decode(raw)
	if err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return n
}

func programOf(t *testing.T, body ...map[string]any) ast.Node {
	return node(t, map[string]any{"type": "Program", "body": body})
}

func numLit(v float64) map[string]any  { return map[string]any{"type": "NumericLiteral", "value": v} }
func strLit(v string) map[string]any   { return map[string]any{"type": "StringLiteral", "value": v} }
func boolLit(v bool) map[string]any    { return map[string]any{"type": "BooleanLiteral", "value": v} }
func ident(name string) map[string]any { return map[string]any{"type": "Identifier", "name": name} }

func binExpr(op string, left, right map[string]any) map[string]any {
	return map[string]any{"type": "BinaryExpression", "operator": op, "left": left, "right": right}
}

func assignExpr(op string, left, right map[string]any) map[string]any {
	return map[string]any{"type": "AssignmentExpression", "operator": op, "left": left, "right": right}
}

func exprStmt(e map[string]any) map[string]any {
	return map[string]any{"type": "ExpressionStatement", "expression": e}
}

func varDecl(kind string, pairs ...[2]any) map[string]any {
	decls := make([]map[string]any, 0, len(pairs))
	for _, p := range pairs {
		decls = append(decls, map[string]any{"id": p[0], "init": p[1]})
	}
	return map[string]any{"type": "VariableDeclaration", "kind": kind, "declarations": decls}
}

func callExpr(callee map[string]any, args ...map[string]any) map[string]any {
	return map[string]any{"type": "CallExpression", "callee": callee, "arguments": args}
}

func memberExpr(obj, prop map[string]any, computed bool) map[string]any {
	return map[string]any{"type": "MemberExpression", "object": obj, "property": prop, "computed": computed}
}

func blockStmt(body ...map[string]any) map[string]any {
	return map[string]any{"type": "BlockStatement", "body": body}
}

func returnStmt(arg map[string]any) map[string]any {
	return map[string]any{"type": "ReturnStatement", "argument": arg}
}

func breakStmt(label string) map[string]any {
	m := map[string]any{"type": "BreakStatement"}
	if label != "" {
		m["label"] = ident(label)
	}
	return m
}

func continueStmt(label string) map[string]any {
	m := map[string]any{"type": "ContinueStatement"}
	if label != "" {
		m["label"] = ident(label)
	}
	return m
}

func labeledStmt(label string, body map[string]any) map[string]any {
	return map[string]any{"type": "LabeledStatement", "label": ident(label), "body": body}
}

func throwStmt(arg map[string]any) map[string]any {
	return map[string]any{"type": "ThrowStatement", "argument": arg}
}

func forOfStmt(left, right, body map[string]any) map[string]any {
	return map[string]any{"type": "ForOfStatement", "left": left, "right": right, "body": body}
}

func forInStmt(left, right, body map[string]any) map[string]any {
	return map[string]any{"type": "ForInStatement", "left": left, "right": right, "body": body}
}

func forStmt(init, test, update, body map[string]any) map[string]any {
	return map[string]any{"type": "ForStatement", "init": init, "test": test, "update": update, "body": body}
}

func arrExpr(elems ...map[string]any) map[string]any {
	return map[string]any{"type": "ArrayExpression", "elements": elems}
}

func spreadElement(arg map[string]any) map[string]any {
	return map[string]any{"type": "SpreadElement", "argument": arg}
}

func funcDecl(name string, params []map[string]any, body map[string]any) map[string]any {
	return map[string]any{"type": "FunctionDeclaration", "id": ident(name), "params": params, "body": body}
}

func funcExpr(params []map[string]any, body map[string]any) map[string]any {
	return map[string]any{"type": "FunctionExpression", "params": params, "body": body}
}

func newExpr(callee map[string]any, args ...map[string]any) map[string]any {
	return map[string]any{"type": "NewExpression", "callee": callee, "arguments": args}
}

func classDecl(name string, superClass map[string]any, methods ...map[string]any) map[string]any {
	m := map[string]any{
		"type": "ClassDeclaration",
		"id":   ident(name),
		"body": map[string]any{"type": "ClassBody", "body": methods},
	}
	if superClass != nil {
		m["superClass"] = superClass
	}
	return m
}

func classMethod(kind, name string, params []map[string]any, body map[string]any, static bool) map[string]any {
	return map[string]any{
		"type":   "MethodDefinition",
		"kind":   kind,
		"static": static,
		"key":    ident(name),
		"value":  funcExpr(params, body),
	}
}

func objPattern(props ...map[string]any) map[string]any {
	return map[string]any{"type": "ObjectPattern", "properties": props}
}

func objProp(key string, value map[string]any, shorthand bool) map[string]any {
	return map[string]any{"type": "Property", "key": ident(key), "value": value, "shorthand": shorthand}
}

func arrPattern(elems ...map[string]any) map[string]any {
	return map[string]any{"type": "ArrayPattern", "elements": elems}
}

func restElement(arg map[string]any) map[string]any {
	return map[string]any{"type": "RestElement", "argument": arg}
}

func switchStmt(disc map[string]any, cases ...map[string]any) map[string]any {
	return map[string]any{"type": "SwitchStatement", "discriminant": disc, "cases": cases}
}

func switchCase(test map[string]any, body ...map[string]any) map[string]any {
	return map[string]any{"type": "SwitchCase", "test": test, "consequent": body}
}

func tryStmt(block map[string]any, catchParam map[string]any, catchBody map[string]any, finalizer map[string]any) map[string]any {
	m := map[string]any{"type": "TryStatement", "block": block}
	if catchBody != nil {
		m["handler"] = map[string]any{"type": "CatchClause", "param": catchParam, "body": catchBody}
	}
	if finalizer != nil {
		m["finalizer"] = finalizer
	}
	return m
}

func whileStmt(test, body map[string]any) map[string]any {
	return map[string]any{"type": "WhileStatement", "test": test, "body": body}
}

func newInterpreter() *Interpreter {
	env := runtime.NewEnvironment()
	meter := runtime.NewMeter(nil, runtime.DefaultLimits())
	guard := runtime.NewGuard(runtime.ModeSync)
	return New(env, meter, guard, nil)
}
