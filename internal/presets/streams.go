package presets

import (
	"context"

	"github.com/samlaycock/nookjs/internal/evaluator"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// registerStreams gives Browser/NodeJS scripts a minimal ReadableStream
// backed by an in-memory queue the constructor's `start` controller
// eagerly drains into (no backpressure, no piping), enough to exercise
// the async-iteration surface (`getReader().read()`) without building a
// real streaming transport.
func registerStreams(g *evaluator.Globals) {
	g.RegisterValue("ReadableStream", &runtime.HostFunction{Name: "ReadableStream", Fn: readableStreamConstructor})
}

func readableStreamConstructor(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
	obj, ok := this.(*values.Object)
	if !ok {
		obj = values.NewObject()
	}
	var queue []values.Value
	closed := false

	controller := values.NewObject()
	controller.Set("enqueue", &runtime.HostFunction{Name: "enqueue", Fn: hostFn(func(args []values.Value) (values.Value, error) {
		queue = append(queue, argOr(args, 0, values.Undefined{}))
		return values.Undefined{}, nil
	})})
	controller.Set("close", &runtime.HostFunction{Name: "close", Fn: hostFn(func([]values.Value) (values.Value, error) {
		closed = true
		return values.Undefined{}, nil
	})})

	if init, ok := argOr(args, 0, values.Undefined{}).(*values.Object); ok {
		if start, ok := init.Get("start"); ok {
			if invoke, ok := runtime.InvokerFromContext(ctx); ok {
				if _, err := invoke(ctx, start, values.Undefined{}, []values.Value{controller}); err != nil {
					return values.Undefined{}, err
				}
			}
		}
	}

	reader := values.NewObject()
	reader.Set("read", &runtime.HostFunction{Name: "read", Fn: hostFn(func([]values.Value) (values.Value, error) {
		result := values.NewObject()
		if len(queue) == 0 {
			result.Set("value", values.Undefined{})
			result.Set("done", values.Boolean(closed))
			return result, nil
		}
		v := queue[0]
		queue = queue[1:]
		result.Set("value", v)
		result.Set("done", values.Boolean(false))
		return result, nil
	})})
	reader.Set("releaseLock", &runtime.HostFunction{Name: "releaseLock", Fn: hostFn(func([]values.Value) (values.Value, error) {
		return values.Undefined{}, nil
	})})

	obj.Set("getReader", &runtime.HostFunction{Name: "getReader", Fn: hostFn(func([]values.Value) (values.Value, error) {
		return reader, nil
	})})
	obj.Set("locked", values.Boolean(false))
	return obj, nil
}
