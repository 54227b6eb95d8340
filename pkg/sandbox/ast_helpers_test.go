package sandbox

import "encoding/json"

// The helpers below build ESTree-shaped documents as plain
// map[string]any trees and marshal them to JSON, the same shape an
// external parser would hand this package's Evaluate/EvaluateAsync.
// Hand-assembling JSON by string concatenation would be error-prone and
// fragile to reformat; building it as Go values and marshaling keeps
// every fixture exercising the real decode path without that risk.

func program(body ...any) string {
	return marshal(map[string]any{"type": "Program", "body": body})
}

func marshal(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func numLit(v float64) map[string]any {
	return map[string]any{"type": "NumericLiteral", "value": v}
}

func strLit(v string) map[string]any {
	return map[string]any{"type": "StringLiteral", "value": v}
}

func boolLit(v bool) map[string]any {
	return map[string]any{"type": "BooleanLiteral", "value": v}
}

func ident(name string) map[string]any {
	return map[string]any{"type": "Identifier", "name": name}
}

func binExpr(op string, left, right any) map[string]any {
	return map[string]any{"type": "BinaryExpression", "operator": op, "left": left, "right": right}
}

func assignExpr(op string, left, right any) map[string]any {
	return map[string]any{"type": "AssignmentExpression", "operator": op, "left": left, "right": right}
}

func exprStmt(e any) map[string]any {
	return map[string]any{"type": "ExpressionStatement", "expression": e}
}

func varDecl(kind, name string, init any) map[string]any {
	decl := map[string]any{"id": ident(name)}
	if init != nil {
		decl["init"] = init
	}
	return map[string]any{
		"type":         "VariableDeclaration",
		"kind":         kind,
		"declarations": []any{decl},
	}
}

func callExpr(callee any, args ...any) map[string]any {
	return map[string]any{"type": "CallExpression", "callee": callee, "arguments": args}
}

func newExpr(callee any, args ...any) map[string]any {
	return map[string]any{"type": "NewExpression", "callee": callee, "arguments": args}
}

func memberExpr(object, property any, computed bool) map[string]any {
	return map[string]any{"type": "MemberExpression", "object": object, "property": property, "computed": computed}
}

func funcDecl(name string, params []any, body []any) map[string]any {
	return map[string]any{
		"type":   "FunctionDeclaration",
		"id":     ident(name),
		"params": params,
		"body":   map[string]any{"type": "BlockStatement", "body": body},
	}
}

func returnStmt(arg any) map[string]any {
	return map[string]any{"type": "ReturnStatement", "argument": arg}
}

func ifStmt(test, cons, alt any) map[string]any {
	return map[string]any{"type": "IfStatement", "test": test, "consequent": cons, "alternate": alt}
}

func blockStmt(body ...any) map[string]any {
	return map[string]any{"type": "BlockStatement", "body": body}
}

func whileStmt(test, body any) map[string]any {
	return map[string]any{"type": "WhileStatement", "test": test, "body": body}
}

func forStmt(init, test, update, body any) map[string]any {
	return map[string]any{"type": "ForStatement", "init": init, "test": test, "update": update, "body": body}
}

func updateExpr(op string, arg any, prefix bool) map[string]any {
	return map[string]any{"type": "UpdateExpression", "operator": op, "argument": arg, "prefix": prefix}
}

func breakStmt() map[string]any {
	return map[string]any{"type": "BreakStatement"}
}

func tryStmt(block any, param, handlerBody any, finalizer any) map[string]any {
	out := map[string]any{"type": "TryStatement", "block": block}
	if handlerBody != nil {
		out["handler"] = map[string]any{"param": param, "body": handlerBody}
	}
	if finalizer != nil {
		out["finalizer"] = finalizer
	}
	return out
}

func throwStmt(arg any) map[string]any {
	return map[string]any{"type": "ThrowStatement", "argument": arg}
}

func awaitExpr(arg any) map[string]any {
	return map[string]any{"type": "AwaitExpression", "argument": arg}
}

func arrowFunc(params []any, body any, async bool) map[string]any {
	return map[string]any{
		"type":   "ArrowFunctionExpression",
		"params": params,
		"body":   body,
		"async":  async,
	}
}
