package evaluator

import (
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/samlaycock/nookjs/internal/ast"
	"github.com/samlaycock/nookjs/internal/values"
)

// fixture is one small whole-program sample run through the evaluator and
// snapshotted by name. These stand in for the hand-written .js-shaped
// sample scripts a source-level test suite would carry — this package only
// ever sees the already-parsed JSON-AST-document form, so each fixture
// builds its program with the same node(...) helpers the rest of this
// package's tests use rather than a string of source text.
type fixture struct {
	name  string
	build func(t *testing.T) ast.Node
}

// fixtures exercises one representative program per language area: this is
// deliberately not exhaustive (evalProgram's table-driven tests already
// cover the edge cases) — it is a regression net against accidental output
// changes across unrelated refactors.
var fixtures = []fixture{
	{
		name: "arithmetic_and_string_concat",
		build: func(t *testing.T) ast.Node {
			return programOf(t,
				varDecl("let", [2]any{ident("total"), binExpr("+", numLit(2), binExpr("*", numLit(3), numLit(4)))}),
				binExpr("+", strLit("total="), ident("total")),
			)
		},
	},
	{
		name: "array_map_filter_chain",
		build: func(t *testing.T) ast.Node {
			return programOf(t,
				varDecl("let", [2]any{ident("xs"), arrExpr(numLit(1), numLit(2), numLit(3), numLit(4), numLit(5))}),
				callExpr(
					memberExpr(
						callExpr(
							memberExpr(ident("xs"), ident("filter"), false),
							funcExpr([]map[string]any{ident("n")}, blockStmt(returnStmt(binExpr("===", binExpr("%", ident("n"), numLit(2)), numLit(0))))),
						),
						ident("map"), false,
					),
					funcExpr([]map[string]any{ident("n")}, blockStmt(returnStmt(binExpr("*", ident("n"), ident("n"))))),
				),
			)
		},
	},
	{
		name: "for_of_accumulation",
		build: func(t *testing.T) ast.Node {
			return programOf(t,
				varDecl("let", [2]any{ident("sum"), numLit(0)}),
				forOfStmt(
					varDecl("let", [2]any{ident("x"), nil}),
					arrExpr(numLit(10), numLit(20), numLit(30)),
					blockStmt(exprStmt(assignExpr("+=", ident("sum"), ident("x")))),
				),
				ident("sum"),
			)
		},
	},
	{
		name: "class_instantiation_and_inheritance",
		build: func(t *testing.T) ast.Node {
			return programOf(t,
				classDecl("Shape", nil,
					classMethod("method", "describe", nil, blockStmt(returnStmt(strLit("a shape"))), false),
				),
				classDecl("Circle", ident("Shape"),
					classMethod("method", "describe", nil, blockStmt(returnStmt(strLit("a circle"))), false),
				),
				varDecl("let", [2]any{ident("c"), newExpr(ident("Circle"))}),
				callExpr(memberExpr(ident("c"), ident("describe"), false)),
			)
		},
	},
	{
		name: "try_catch_recovers_thrown_value",
		build: func(t *testing.T) ast.Node {
			return programOf(t,
				varDecl("let", [2]any{ident("result"), strLit("")}),
				tryStmt(
					blockStmt(throwStmt(strLit("boom"))),
					ident("e"),
					blockStmt(exprStmt(assignExpr("=", ident("result"), ident("e")))),
					nil,
				),
				ident("result"),
			)
		},
	},
	{
		name: "switch_statement_match",
		build: func(t *testing.T) ast.Node {
			return programOf(t,
				varDecl("let", [2]any{ident("out"), strLit("")}),
				switchStmt(numLit(2),
					switchCase(numLit(1), exprStmt(assignExpr("=", ident("out"), strLit("one"))), breakStmt("")),
					switchCase(numLit(2), exprStmt(assignExpr("=", ident("out"), strLit("two"))), breakStmt("")),
					switchCase(nil, exprStmt(assignExpr("=", ident("out"), strLit("other")))),
				),
				ident("out"),
			)
		},
	},
}

// TestEvaluatorFixtures runs each fixture program and snapshots its final
// value's inspected form, the same golden-file approach used to pin down
// whole-program evaluation output against accidental regressions.
func TestEvaluatorFixtures(t *testing.T) {
	for _, f := range fixtures {
		t.Run(f.name, func(t *testing.T) {
			in := newInterpreter()
			v, _, err := in.Eval(f.build(t), in.Global)
			var output string
			if err != nil {
				output = fmt.Sprintf("error: %s", err.Error())
			} else {
				output = values.Inspect(v)
			}
			snaps.MatchSnapshot(t, fmt.Sprintf("%s_output", f.name), output)
		})
	}
}
