package runtime

import "context"

// Invoker calls an arbitrary sandbox-visible callable (a SandboxFunction
// or a HostFunction) with the given bound this/args, the same dispatch a
// CallExpression goes through. Host functions that accept a callback
// argument (Array/Map/Set's forEach, a sort comparator, a Promise
// executor) need this to invoke what the sandbox handed them without
// knowing whether it's sandbox- or host-defined.
type Invoker func(ctx context.Context, fn Value, this Value, args []Value) (Value, error)

type invokerKey struct{}

// WithInvoker attaches inv to ctx. The evaluator does this once per call
// via callContext so every HostFunc it invokes can reach back in.
func WithInvoker(ctx context.Context, inv Invoker) context.Context {
	return context.WithValue(ctx, invokerKey{}, inv)
}

// InvokerFromContext retrieves the Invoker WithInvoker attached, if any.
// A HostFunc called outside the evaluator (a direct unit test, say) sees
// ok == false and should treat a callback argument as uninvokable.
func InvokerFromContext(ctx context.Context) (Invoker, bool) {
	inv, ok := ctx.Value(invokerKey{}).(Invoker)
	return inv, ok
}
