// Package ast defines the node shapes the interpreter consumes. These
// mirror the ECMAScript/ESTree node taxonomy named in the external parser
// contract: nodes carry a string Type and a source Position, and are
// decoded from whatever the embedder's parser produces.
package ast

import "fmt"

// Position locates a node in the original source text.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
