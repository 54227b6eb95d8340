package runtime

import (
	"fmt"
	"strings"

	"github.com/samlaycock/nookjs/internal/ast"
)

// StackFrame records one call's function name and call-site position.
type StackFrame struct {
	FunctionName string
	Position     ast.Position
}

// String renders a frame as "FunctionName [line: N, column: M]".
func (f StackFrame) String() string {
	return fmt.Sprintf("%s [line: %d, column: %d]", f.FunctionName, f.Position.Line, f.Position.Column)
}

// CallStack tracks in-flight sandbox function calls for stack-overflow
// detection and diagnostic stack traces.
type CallStack struct {
	frames   []StackFrame
	maxDepth int
}

// NewCallStack creates a call stack enforcing maxDepth. A non-positive
// maxDepth falls back to a default of 1024.
func NewCallStack(maxDepth int) *CallStack {
	if maxDepth <= 0 {
		maxDepth = 1024
	}
	return &CallStack{maxDepth: maxDepth}
}

// WillOverflow reports whether pushing another frame would exceed the
// configured maximum depth.
func (cs *CallStack) WillOverflow() bool {
	return len(cs.frames) >= cs.maxDepth
}

// Push records a new call frame. Callers must check WillOverflow first;
// Push itself does not enforce the limit so the evaluator can raise its
// own positioned error before unwinding.
func (cs *CallStack) Push(functionName string, pos ast.Position) {
	cs.frames = append(cs.frames, StackFrame{FunctionName: functionName, Position: pos})
}

// Pop removes the most recently pushed frame. A no-op on an empty stack.
func (cs *CallStack) Pop() {
	if len(cs.frames) > 0 {
		cs.frames = cs.frames[:len(cs.frames)-1]
	}
}

// Depth returns the number of frames currently on the stack.
func (cs *CallStack) Depth() int {
	return len(cs.frames)
}

// MaxDepth returns the configured maximum depth.
func (cs *CallStack) MaxDepth() int {
	return cs.maxDepth
}

// Current returns the top frame, or nil if the stack is empty.
func (cs *CallStack) Current() *StackFrame {
	if len(cs.frames) == 0 {
		return nil
	}
	return &cs.frames[len(cs.frames)-1]
}

// String renders the stack newest-frame-first, one per line.
func (cs *CallStack) String() string {
	var sb strings.Builder
	for i := len(cs.frames) - 1; i >= 0; i-- {
		sb.WriteString(cs.frames[i].String())
		if i > 0 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
