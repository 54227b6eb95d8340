package errors

import (
	"fmt"

	"github.com/samlaycock/nookjs/internal/ast"
)

// ErrorCategory represents the category of an interpreter error.
type ErrorCategory string

const (
	// CategoryType represents type-related errors (type mismatches, invalid operand types).
	CategoryType ErrorCategory = "Type"
	// CategoryRuntime represents runtime errors (division by zero, index out of bounds, sandbox throws).
	CategoryRuntime ErrorCategory = "Runtime"
	// CategoryUndefined represents errors for undefined entities (variables, properties, globals).
	CategoryUndefined ErrorCategory = "Undefined"
	// CategorySecurity represents capability/isolation violations (forbidden properties, disallowed calls).
	CategorySecurity ErrorCategory = "Security"
	// CategoryResource represents resource-limit violations (call depth, loop iterations, memory charge, cancellation).
	CategoryResource ErrorCategory = "Resource"
	// CategoryControlFlow represents malformed non-local control flow (break/continue with no matching target).
	CategoryControlFlow ErrorCategory = "ControlFlow"
	// CategoryInternal represents internal interpreter errors (should never happen).
	CategoryInternal ErrorCategory = "Internal"
)

// InterpreterError is the single error kind the sandbox ever surfaces to
// its host. It carries enough context to report a useful diagnostic
// without leaking interpreter internals.
type InterpreterError struct {
	Err        error
	Pos        *ast.Position
	Values     map[string]string
	Category   ErrorCategory
	Message    string
	Expression string
}

// Error implements the error interface.
func (e *InterpreterError) Error() string {
	if e.Pos != nil {
		return fmt.Sprintf("%s error at line %d, column %d: %s", e.Category, e.Pos.Line, e.Pos.Column, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Category, e.Message)
}

// Unwrap implements error unwrapping for error chains.
func (e *InterpreterError) Unwrap() error {
	return e.Err
}

func newError(category ErrorCategory, pos *ast.Position, expr, message string) *InterpreterError {
	return &InterpreterError{Category: category, Message: message, Pos: pos, Expression: expr}
}

func newErrorf(category ErrorCategory, pos *ast.Position, expr, format string, args ...interface{}) *InterpreterError {
	return newError(category, pos, expr, fmt.Sprintf(format, args...))
}

// NewTypeError creates a type-related error.
func NewTypeError(pos *ast.Position, message, expr string) *InterpreterError {
	return newError(CategoryType, pos, expr, message)
}

// NewTypeErrorf creates a type-related error with formatting.
func NewTypeErrorf(pos *ast.Position, expr, format string, args ...interface{}) *InterpreterError {
	return newErrorf(CategoryType, pos, expr, format, args...)
}

// NewRuntimeError creates a runtime error.
func NewRuntimeError(pos *ast.Position, message, expr string) *InterpreterError {
	return newError(CategoryRuntime, pos, expr, message)
}

// NewRuntimeErrorf creates a runtime error with formatting.
func NewRuntimeErrorf(pos *ast.Position, expr, format string, args ...interface{}) *InterpreterError {
	return newErrorf(CategoryRuntime, pos, expr, format, args...)
}

// NewUndefinedError creates an undefined-entity error.
func NewUndefinedError(pos *ast.Position, message, expr string) *InterpreterError {
	return newError(CategoryUndefined, pos, expr, message)
}

// NewUndefinedErrorf creates an undefined-entity error with formatting.
func NewUndefinedErrorf(pos *ast.Position, expr, format string, args ...interface{}) *InterpreterError {
	return newErrorf(CategoryUndefined, pos, expr, format, args...)
}

// NewSecurityError creates a capability/isolation violation error.
func NewSecurityError(pos *ast.Position, message, expr string) *InterpreterError {
	return newError(CategorySecurity, pos, expr, message)
}

// NewSecurityErrorf creates a capability/isolation violation error with formatting.
func NewSecurityErrorf(pos *ast.Position, expr, format string, args ...interface{}) *InterpreterError {
	return newErrorf(CategorySecurity, pos, expr, format, args...)
}

// NewResourceError creates a resource-limit violation error.
func NewResourceError(pos *ast.Position, message, expr string) *InterpreterError {
	return newError(CategoryResource, pos, expr, message)
}

// NewResourceErrorf creates a resource-limit violation error with formatting.
func NewResourceErrorf(pos *ast.Position, expr, format string, args ...interface{}) *InterpreterError {
	return newErrorf(CategoryResource, pos, expr, format, args...)
}

// NewControlFlowError creates a malformed-control-flow error.
func NewControlFlowError(pos *ast.Position, message, expr string) *InterpreterError {
	return newError(CategoryControlFlow, pos, expr, message)
}

// NewControlFlowErrorf creates a malformed-control-flow error with formatting.
func NewControlFlowErrorf(pos *ast.Position, expr, format string, args ...interface{}) *InterpreterError {
	return newErrorf(CategoryControlFlow, pos, expr, format, args...)
}

// NewInternalError creates an internal interpreter error.
func NewInternalError(pos *ast.Position, message, expr string) *InterpreterError {
	return newError(CategoryInternal, pos, expr, message)
}

// NewInternalErrorf creates an internal interpreter error with formatting.
func NewInternalErrorf(pos *ast.Position, expr, format string, args ...interface{}) *InterpreterError {
	return newErrorf(CategoryInternal, pos, expr, format, args...)
}

// WrapError wraps an existing error with interpreter context.
func WrapError(err error, category ErrorCategory, pos *ast.Position, expr string) *InterpreterError {
	e := newError(category, pos, expr, err.Error())
	e.Err = err
	return e
}

// WrapErrorf wraps an existing error with additional message formatting.
func WrapErrorf(err error, category ErrorCategory, pos *ast.Position, expr, format string, args ...interface{}) *InterpreterError {
	e := newErrorf(category, pos, expr, format, args...)
	e.Err = err
	return e
}

// PositionFromNode extracts position from an AST node, tolerating nil.
func PositionFromNode(node ast.Node) *ast.Position {
	if node == nil {
		return nil
	}
	pos := node.Pos()
	return &pos
}

// ExpressionFromNode returns a string representation of an AST node,
// tolerating nil.
func ExpressionFromNode(node ast.Node) string {
	if node == nil {
		return ""
	}
	return node.String()
}
