package ast

// ExpressionStatement wraps an expression evaluated for its side effect.
type ExpressionStatement struct {
	base
	Expression Node
}

func (n *ExpressionStatement) String() string { return "ExpressionStatement" }

// BlockStatement introduces a new lexical scope for its Body.
type BlockStatement struct {
	base
	Body []Node
}

func (n *BlockStatement) String() string { return "BlockStatement" }

// VariableDeclarator pairs a binding target (Identifier or destructuring
// pattern) with an optional initializer.
type VariableDeclarator struct {
	base
	ID   Node
	Init Node // may be nil
}

func (n *VariableDeclarator) String() string { return "VariableDeclarator" }

// VariableDeclaration declares one or more bindings of a single Kind
// (var|let|const).
type VariableDeclaration struct {
	base
	Kind         string
	Declarations []*VariableDeclarator
}

func (n *VariableDeclaration) String() string { return "VariableDeclaration(" + n.Kind + ")" }

// IfStatement. Alternate may be nil.
type IfStatement struct {
	base
	Test       Node
	Consequent Node
	Alternate  Node
}

func (n *IfStatement) String() string { return "IfStatement" }

// ForStatement is the classic three-clause for loop; any of Init, Test,
// Update may be nil.
type ForStatement struct {
	base
	Init   Node
	Test   Node
	Update Node
	Body   Node
}

func (n *ForStatement) String() string { return "ForStatement" }

// ForOfStatement iterates Right's iterator protocol, binding each value to
// Left (an Identifier, a fresh VariableDeclaration, or a pattern).
type ForOfStatement struct {
	base
	Left  Node
	Right Node
	Body  Node
	Await bool
}

func (n *ForOfStatement) String() string { return "ForOfStatement" }

// ForInStatement iterates Right's own enumerable property keys in
// insertion order.
type ForInStatement struct {
	base
	Left  Node
	Right Node
	Body  Node
}

func (n *ForInStatement) String() string { return "ForInStatement" }

type WhileStatement struct {
	base
	Test Node
	Body Node
}

func (n *WhileStatement) String() string { return "WhileStatement" }

type DoWhileStatement struct {
	base
	Test Node
	Body Node
}

func (n *DoWhileStatement) String() string { return "DoWhileStatement" }

// SwitchCase is one `case`/`default` arm of a SwitchStatement; Test is nil
// for the default arm.
type SwitchCase struct {
	base
	Test       Node
	Consequent []Node
}

func (n *SwitchCase) String() string { return "SwitchCase" }

type SwitchStatement struct {
	base
	Discriminant Node
	Cases        []*SwitchCase
}

func (n *SwitchStatement) String() string { return "SwitchStatement" }

// LabeledStatement names Body so that a nested break/continue can target
// it directly.
type LabeledStatement struct {
	base
	Label *Identifier
	Body  Node
}

func (n *LabeledStatement) String() string { return "LabeledStatement" }

// BreakStatement and ContinueStatement carry an optional label naming the
// enclosing LabeledStatement to unwind to.
type BreakStatement struct {
	base
	Label *Identifier // may be nil
}

func (n *BreakStatement) String() string { return "BreakStatement" }

type ContinueStatement struct {
	base
	Label *Identifier // may be nil
}

func (n *ContinueStatement) String() string { return "ContinueStatement" }

// ReturnStatement. Argument may be nil (bare `return;`).
type ReturnStatement struct {
	base
	Argument Node
}

func (n *ReturnStatement) String() string { return "ReturnStatement" }

// ThrowStatement raises a sandbox-level Throw signal carrying Argument.
type ThrowStatement struct {
	base
	Argument Node
}

func (n *ThrowStatement) String() string { return "ThrowStatement" }

// CatchClause binds a caught Throw's value to Param (may be nil for a
// parameterless catch) and runs Body.
type CatchClause struct {
	base
	Param Node // Identifier or pattern, may be nil
	Body  *BlockStatement
}

func (n *CatchClause) String() string { return "CatchClause" }

// TryStatement. Handler and Finalizer may each be nil, but not both.
type TryStatement struct {
	base
	Block     *BlockStatement
	Handler   *CatchClause
	Finalizer *BlockStatement
}

func (n *TryStatement) String() string { return "TryStatement" }

// EmptyStatement is a bare `;`.
type EmptyStatement struct{ base }

func (n *EmptyStatement) String() string { return "EmptyStatement" }
