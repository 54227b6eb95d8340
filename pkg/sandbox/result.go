package sandbox

import "github.com/samlaycock/nookjs/internal/values"

// Result is what Evaluate/EvaluateAsync hand back: the value of the last
// top-level statement (Undefined if the program produced none) and a
// Success flag consulted independently of the returned error, since a script
// that completes without panicking but whose last statement was a bare
// declaration still "succeeds" with an Undefined value.
type Result struct {
	Value   values.Value
	Success bool
}

func newResult(v values.Value) Result {
	return Result{Value: v, Success: true}
}
