package ast

import "fmt"

// Decode converts a generic parsed tree (as produced by unmarshaling the
// external parser's JSON AST into map[string]any/[]any/string/float64
// values) into the typed Node tree the evaluator walks. Every object node
// is expected to carry a "type" string field and, where available, "line"
// and "column" fields locating it in the source.
//
// Decode is the single place that knows the external AST contract's shape;
// everything downstream only ever sees the Node interface.
func Decode(raw any) (Node, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		if raw == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("ast: expected object node, got %T", raw)
	}
	typ, _ := obj["type"].(string)
	b := base{Position: decodePos(obj), Type: typ}

	switch typ {
	case "Program":
		body, err := decodeList(obj["body"])
		if err != nil {
			return nil, err
		}
		return &Program{base: b, Body: body}, nil

	case "Identifier":
		name, _ := obj["name"].(string)
		return &Identifier{base: b, Name: name}, nil

	case "ThisExpression":
		return &ThisExpression{base: b}, nil

	case "NumericLiteral", "Literal":
		if v, ok := obj["value"].(float64); ok {
			return &NumericLiteral{base: b, Value: v}, nil
		}
		if v, ok := obj["value"].(string); ok {
			return &StringLiteral{base: b, Value: v}, nil
		}
		if v, ok := obj["value"].(bool); ok {
			return &BooleanLiteral{base: b, Value: v}, nil
		}
		if obj["value"] == nil {
			return &NullLiteral{base: b}, nil
		}
		return nil, fmt.Errorf("ast: unsupported literal value %T at %s", obj["value"], b.Position)

	case "StringLiteral":
		v, _ := obj["value"].(string)
		return &StringLiteral{base: b, Value: v}, nil

	case "BooleanLiteral":
		v, _ := obj["value"].(bool)
		return &BooleanLiteral{base: b, Value: v}, nil

	case "NullLiteral":
		return &NullLiteral{base: b}, nil

	case "BinaryExpression":
		left, err := Decode(obj["left"])
		if err != nil {
			return nil, err
		}
		right, err := Decode(obj["right"])
		if err != nil {
			return nil, err
		}
		op, _ := obj["operator"].(string)
		return &BinaryExpression{base: b, Operator: op, Left: left, Right: right}, nil

	case "LogicalExpression":
		left, err := Decode(obj["left"])
		if err != nil {
			return nil, err
		}
		right, err := Decode(obj["right"])
		if err != nil {
			return nil, err
		}
		op, _ := obj["operator"].(string)
		return &LogicalExpression{base: b, Operator: op, Left: left, Right: right}, nil

	case "UnaryExpression":
		arg, err := Decode(obj["argument"])
		if err != nil {
			return nil, err
		}
		op, _ := obj["operator"].(string)
		prefix, _ := obj["prefix"].(bool)
		return &UnaryExpression{base: b, Operator: op, Prefix: prefix, Argument: arg}, nil

	case "UpdateExpression":
		arg, err := Decode(obj["argument"])
		if err != nil {
			return nil, err
		}
		op, _ := obj["operator"].(string)
		prefix, _ := obj["prefix"].(bool)
		return &UpdateExpression{base: b, Operator: op, Prefix: prefix, Argument: arg}, nil

	case "AssignmentExpression":
		left, err := Decode(obj["left"])
		if err != nil {
			return nil, err
		}
		right, err := Decode(obj["right"])
		if err != nil {
			return nil, err
		}
		op, _ := obj["operator"].(string)
		return &AssignmentExpression{base: b, Operator: op, Left: left, Right: right}, nil

	case "ConditionalExpression":
		test, err := Decode(obj["test"])
		if err != nil {
			return nil, err
		}
		cons, err := Decode(obj["consequent"])
		if err != nil {
			return nil, err
		}
		alt, err := Decode(obj["alternate"])
		if err != nil {
			return nil, err
		}
		return &ConditionalExpression{base: b, Test: test, Consequent: cons, Alternate: alt}, nil

	case "SequenceExpression":
		exprs, err := decodeList(obj["expressions"])
		if err != nil {
			return nil, err
		}
		return &SequenceExpression{base: b, Expressions: exprs}, nil

	case "MemberExpression":
		object, err := Decode(obj["object"])
		if err != nil {
			return nil, err
		}
		prop, err := Decode(obj["property"])
		if err != nil {
			return nil, err
		}
		computed, _ := obj["computed"].(bool)
		optional, _ := obj["optional"].(bool)
		return &MemberExpression{base: b, Object: object, Property: prop, Computed: computed, Optional: optional}, nil

	case "CallExpression":
		callee, err := Decode(obj["callee"])
		if err != nil {
			return nil, err
		}
		args, err := decodeList(obj["arguments"])
		if err != nil {
			return nil, err
		}
		optional, _ := obj["optional"].(bool)
		return &CallExpression{base: b, Callee: callee, Arguments: args, Optional: optional}, nil

	case "NewExpression":
		callee, err := Decode(obj["callee"])
		if err != nil {
			return nil, err
		}
		args, err := decodeList(obj["arguments"])
		if err != nil {
			return nil, err
		}
		return &NewExpression{base: b, Callee: callee, Arguments: args}, nil

	case "SpreadElement":
		arg, err := Decode(obj["argument"])
		if err != nil {
			return nil, err
		}
		return &SpreadElement{base: b, Argument: arg}, nil

	case "ArrayExpression":
		elems, err := decodeSparseList(obj["elements"])
		if err != nil {
			return nil, err
		}
		return &ArrayExpression{base: b, Elements: elems}, nil

	case "ObjectExpression":
		props, err := decodeProperties(obj["properties"])
		if err != nil {
			return nil, err
		}
		return &ObjectExpression{base: b, Properties: props}, nil

	case "TemplateLiteral":
		return decodeTemplateLiteral(b, obj)

	case "TaggedTemplateExpression":
		tag, err := Decode(obj["tag"])
		if err != nil {
			return nil, err
		}
		quasiNode, err := decodeTemplateLiteral(base{Position: decodePos(asObj(obj["quasi"])), Type: "TemplateLiteral"}, asObj(obj["quasi"]))
		if err != nil {
			return nil, err
		}
		return &TaggedTemplateExpression{base: b, Tag: tag, Quasi: quasiNode.(*TemplateLiteral)}, nil

	case "YieldExpression":
		arg, err := Decode(obj["argument"])
		if err != nil {
			return nil, err
		}
		delegate, _ := obj["delegate"].(bool)
		return &YieldExpression{base: b, Argument: arg, Delegate: delegate}, nil

	case "AwaitExpression":
		arg, err := Decode(obj["argument"])
		if err != nil {
			return nil, err
		}
		return &AwaitExpression{base: b, Argument: arg}, nil

	case "FunctionDeclaration", "FunctionExpression", "ArrowFunctionExpression":
		fb, err := decodeFunctionBase(b, obj)
		if err != nil {
			return nil, err
		}
		switch typ {
		case "FunctionDeclaration":
			return &FunctionDeclaration{FunctionBase: fb}, nil
		case "FunctionExpression":
			return &FunctionExpression{FunctionBase: fb}, nil
		default:
			return &ArrowFunctionExpression{FunctionBase: fb}, nil
		}

	case "ExpressionStatement":
		expr, err := Decode(obj["expression"])
		if err != nil {
			return nil, err
		}
		return &ExpressionStatement{base: b, Expression: expr}, nil

	case "BlockStatement":
		body, err := decodeList(obj["body"])
		if err != nil {
			return nil, err
		}
		return &BlockStatement{base: b, Body: body}, nil

	case "VariableDeclaration":
		kind, _ := obj["kind"].(string)
		rawDecls, _ := obj["declarations"].([]any)
		decls := make([]*VariableDeclarator, 0, len(rawDecls))
		for _, rd := range rawDecls {
			ro := asObj(rd)
			id, err := Decode(ro["id"])
			if err != nil {
				return nil, err
			}
			init, err := Decode(ro["init"])
			if err != nil {
				return nil, err
			}
			decls = append(decls, &VariableDeclarator{
				base: base{Position: decodePos(ro), Type: "VariableDeclarator"},
				ID:   id, Init: init,
			})
		}
		return &VariableDeclaration{base: b, Kind: kind, Declarations: decls}, nil

	case "IfStatement":
		test, err := Decode(obj["test"])
		if err != nil {
			return nil, err
		}
		cons, err := Decode(obj["consequent"])
		if err != nil {
			return nil, err
		}
		alt, err := Decode(obj["alternate"])
		if err != nil {
			return nil, err
		}
		return &IfStatement{base: b, Test: test, Consequent: cons, Alternate: alt}, nil

	case "ForStatement":
		init, err := Decode(obj["init"])
		if err != nil {
			return nil, err
		}
		test, err := Decode(obj["test"])
		if err != nil {
			return nil, err
		}
		update, err := Decode(obj["update"])
		if err != nil {
			return nil, err
		}
		bodyNode, err := Decode(obj["body"])
		if err != nil {
			return nil, err
		}
		return &ForStatement{base: b, Init: init, Test: test, Update: update, Body: bodyNode}, nil

	case "ForOfStatement", "ForInStatement":
		left, err := Decode(obj["left"])
		if err != nil {
			return nil, err
		}
		right, err := Decode(obj["right"])
		if err != nil {
			return nil, err
		}
		bodyNode, err := Decode(obj["body"])
		if err != nil {
			return nil, err
		}
		if typ == "ForInStatement" {
			return &ForInStatement{base: b, Left: left, Right: right, Body: bodyNode}, nil
		}
		await, _ := obj["await"].(bool)
		return &ForOfStatement{base: b, Left: left, Right: right, Body: bodyNode, Await: await}, nil

	case "WhileStatement":
		test, err := Decode(obj["test"])
		if err != nil {
			return nil, err
		}
		bodyNode, err := Decode(obj["body"])
		if err != nil {
			return nil, err
		}
		return &WhileStatement{base: b, Test: test, Body: bodyNode}, nil

	case "DoWhileStatement":
		test, err := Decode(obj["test"])
		if err != nil {
			return nil, err
		}
		bodyNode, err := Decode(obj["body"])
		if err != nil {
			return nil, err
		}
		return &DoWhileStatement{base: b, Test: test, Body: bodyNode}, nil

	case "SwitchStatement":
		disc, err := Decode(obj["discriminant"])
		if err != nil {
			return nil, err
		}
		rawCases, _ := obj["cases"].([]any)
		cases := make([]*SwitchCase, 0, len(rawCases))
		for _, rc := range rawCases {
			co := asObj(rc)
			test, err := Decode(co["test"])
			if err != nil {
				return nil, err
			}
			consequent, err := decodeList(co["consequent"])
			if err != nil {
				return nil, err
			}
			cases = append(cases, &SwitchCase{
				base:       base{Position: decodePos(co), Type: "SwitchCase"},
				Test:       test,
				Consequent: consequent,
			})
		}
		return &SwitchStatement{base: b, Discriminant: disc, Cases: cases}, nil

	case "LabeledStatement":
		labelNode, err := Decode(obj["label"])
		if err != nil {
			return nil, err
		}
		bodyNode, err := Decode(obj["body"])
		if err != nil {
			return nil, err
		}
		label, _ := labelNode.(*Identifier)
		return &LabeledStatement{base: b, Label: label, Body: bodyNode}, nil

	case "BreakStatement", "ContinueStatement":
		labelNode, err := Decode(obj["label"])
		if err != nil {
			return nil, err
		}
		label, _ := labelNode.(*Identifier)
		if typ == "BreakStatement" {
			return &BreakStatement{base: b, Label: label}, nil
		}
		return &ContinueStatement{base: b, Label: label}, nil

	case "ReturnStatement":
		arg, err := Decode(obj["argument"])
		if err != nil {
			return nil, err
		}
		return &ReturnStatement{base: b, Argument: arg}, nil

	case "ThrowStatement":
		arg, err := Decode(obj["argument"])
		if err != nil {
			return nil, err
		}
		return &ThrowStatement{base: b, Argument: arg}, nil

	case "TryStatement":
		block, err := Decode(obj["block"])
		if err != nil {
			return nil, err
		}
		var handler *CatchClause
		if ho, ok := obj["handler"].(map[string]any); ok {
			param, err := Decode(ho["param"])
			if err != nil {
				return nil, err
			}
			bodyNode, err := Decode(ho["body"])
			if err != nil {
				return nil, err
			}
			handler = &CatchClause{
				base:  base{Position: decodePos(ho), Type: "CatchClause"},
				Param: param,
				Body:  bodyNode.(*BlockStatement),
			}
		}
		var finalizer *BlockStatement
		if fo, ok := obj["finalizer"].(map[string]any); ok {
			bodyNode, err := Decode(fo)
			if err != nil {
				return nil, err
			}
			finalizer = bodyNode.(*BlockStatement)
		}
		return &TryStatement{base: b, Block: block.(*BlockStatement), Handler: handler, Finalizer: finalizer}, nil

	case "EmptyStatement":
		return &EmptyStatement{base: b}, nil

	case "ObjectPattern":
		propsRaw, _ := obj["properties"].([]any)
		props := make([]Node, 0, len(propsRaw))
		for _, pr := range propsRaw {
			po := asObj(pr)
			if po["type"] == "RestElement" {
				n, err := Decode(po)
				if err != nil {
					return nil, err
				}
				props = append(props, n)
				continue
			}
			key, err := Decode(po["key"])
			if err != nil {
				return nil, err
			}
			val, err := Decode(po["value"])
			if err != nil {
				return nil, err
			}
			computed, _ := po["computed"].(bool)
			shorthand, _ := po["shorthand"].(bool)
			props = append(props, &Property{
				base:      base{Position: decodePos(po), Type: "Property"},
				Key:       key, Value: val, Computed: computed, Shorthand: shorthand,
			})
		}
		return &ObjectPattern{base: b, Properties: props}, nil

	case "ArrayPattern":
		elems, err := decodeSparseList(obj["elements"])
		if err != nil {
			return nil, err
		}
		return &ArrayPattern{base: b, Elements: elems}, nil

	case "RestElement":
		arg, err := Decode(obj["argument"])
		if err != nil {
			return nil, err
		}
		return &RestElement{base: b, Argument: arg}, nil

	case "AssignmentPattern":
		left, err := Decode(obj["left"])
		if err != nil {
			return nil, err
		}
		right, err := Decode(obj["right"])
		if err != nil {
			return nil, err
		}
		return &AssignmentPattern{base: b, Left: left, Right: right}, nil

	case "ClassDeclaration", "ClassExpression":
		idNode, err := Decode(obj["id"])
		if err != nil {
			return nil, err
		}
		id, _ := idNode.(*Identifier)
		super, err := Decode(obj["superClass"])
		if err != nil {
			return nil, err
		}
		bodyNode, err := decodeClassBody(asObj(obj["body"]))
		if err != nil {
			return nil, err
		}
		if typ == "ClassDeclaration" {
			return &ClassDeclaration{base: b, ID: id, SuperClass: super, Body: bodyNode}, nil
		}
		return &ClassExpression{base: b, ID: id, SuperClass: super, Body: bodyNode}, nil

	default:
		return nil, fmt.Errorf("ast: unsupported node type %q at %s", typ, b.Position)
	}
}

func decodeFunctionBase(b base, obj map[string]any) (FunctionBase, error) {
	idNode, err := Decode(obj["id"])
	if err != nil {
		return FunctionBase{}, err
	}
	id, _ := idNode.(*Identifier)
	rawParams, _ := obj["params"].([]any)
	params := make([]Node, 0, len(rawParams))
	for _, rp := range rawParams {
		p, err := Decode(rp)
		if err != nil {
			return FunctionBase{}, err
		}
		params = append(params, p)
	}
	bodyNode, err := Decode(obj["body"])
	if err != nil {
		return FunctionBase{}, err
	}
	async, _ := obj["async"].(bool)
	generator, _ := obj["generator"].(bool)
	_, exprBody := bodyNode.(*BlockStatement)
	return FunctionBase{
		base: b, ID: id, Params: params, Body: bodyNode,
		Async: async, Generator: generator, ExprBody: !exprBody,
	}, nil
}

func decodeClassBody(obj map[string]any) (*ClassBody, error) {
	rawBody, _ := obj["body"].([]any)
	body := make([]Node, 0, len(rawBody))
	for _, rm := range rawBody {
		mo := asObj(rm)
		switch mo["type"] {
		case "ClassProperty", "PropertyDefinition":
			key, err := Decode(mo["key"])
			if err != nil {
				return nil, err
			}
			val, err := Decode(mo["value"])
			if err != nil {
				return nil, err
			}
			static, _ := mo["static"].(bool)
			computed, _ := mo["computed"].(bool)
			body = append(body, &ClassProperty{
				base:     base{Position: decodePos(mo), Type: "ClassProperty"},
				Key:      key, Value: val, Static: static, Computed: computed,
			})
		default:
			key, err := Decode(mo["key"])
			if err != nil {
				return nil, err
			}
			valNode, err := Decode(mo["value"])
			if err != nil {
				return nil, err
			}
			fn, _ := valNode.(*FunctionExpression)
			kind, _ := mo["kind"].(string)
			if kind == "" {
				kind = "method"
			}
			static, _ := mo["static"].(bool)
			computed, _ := mo["computed"].(bool)
			body = append(body, &ClassMethod{
				base:     base{Position: decodePos(mo), Type: "ClassMethod"},
				Key:      key, Value: fn, Kind: kind, Static: static, Computed: computed,
			})
		}
	}
	return &ClassBody{base: base{Position: decodePos(obj), Type: "ClassBody"}, Body: body}, nil
}

func decodeTemplateLiteral(b base, obj map[string]any) (Node, error) {
	rawQuasis, _ := obj["quasis"].([]any)
	quasis := make([]TemplateElement, 0, len(rawQuasis))
	for _, rq := range rawQuasis {
		qo := asObj(rq)
		valueObj := asObj(qo["value"])
		cooked, _ := valueObj["cooked"].(string)
		raw, _ := valueObj["raw"].(string)
		tail, _ := qo["tail"].(bool)
		quasis = append(quasis, TemplateElement{Cooked: cooked, Raw: raw, Tail: tail})
	}
	exprs, err := decodeList(obj["expressions"])
	if err != nil {
		return nil, err
	}
	return &TemplateLiteral{base: b, Quasis: quasis, Expressions: exprs}, nil
}

func decodeProperties(raw any) ([]*Property, error) {
	rawList, _ := raw.([]any)
	out := make([]*Property, 0, len(rawList))
	for _, rp := range rawList {
		po := asObj(rp)
		if po["type"] == "SpreadElement" {
			arg, err := Decode(po["argument"])
			if err != nil {
				return nil, err
			}
			out = append(out, &Property{
				base:     base{Position: decodePos(po), Type: "Property"},
				Value:    arg,
				IsSpread: true,
			})
			continue
		}
		key, err := Decode(po["key"])
		if err != nil {
			return nil, err
		}
		val, err := Decode(po["value"])
		if err != nil {
			return nil, err
		}
		computed, _ := po["computed"].(bool)
		shorthand, _ := po["shorthand"].(bool)
		out = append(out, &Property{
			base:      base{Position: decodePos(po), Type: "Property"},
			Key:       key, Value: val, Computed: computed, Shorthand: shorthand,
		})
	}
	return out, nil
}

func decodeList(raw any) ([]Node, error) {
	rawList, ok := raw.([]any)
	if !ok {
		return nil, nil
	}
	out := make([]Node, 0, len(rawList))
	for _, r := range rawList {
		n, err := Decode(r)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// decodeSparseList keeps nil holes (elisions) as nil Node entries, unlike
// decodeList which would otherwise collapse them via Decode(nil).
func decodeSparseList(raw any) ([]Node, error) {
	rawList, ok := raw.([]any)
	if !ok {
		return nil, nil
	}
	out := make([]Node, len(rawList))
	for i, r := range rawList {
		if r == nil {
			continue
		}
		n, err := Decode(r)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func decodePos(obj map[string]any) Position {
	line, _ := obj["line"].(float64)
	col, _ := obj["column"].(float64)
	if loc, ok := obj["loc"].(map[string]any); ok {
		if start, ok := loc["start"].(map[string]any); ok {
			line, _ = start["line"].(float64)
			col, _ = start["column"].(float64)
		}
	}
	return Position{Line: int(line), Column: int(col)}
}

func asObj(raw any) map[string]any {
	o, _ := raw.(map[string]any)
	return o
}
