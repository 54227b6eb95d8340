package presets

import (
	"context"

	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// namespace builds a frozen object whose properties are the given
// methods, the shape every Math/JSON/console-style global in this
// package uses: a plain data bag of host functions, never a class, since
// presets carry no sandbox-visible construction logic of their own.
func namespace(methods map[string]runtime.HostFunc) *values.Object {
	obj := values.NewObject()
	for name, fn := range methods {
		obj.Set(name, &runtime.HostFunction{Name: name, Fn: fn})
	}
	obj.Freeze()
	return obj
}

// hostFn adapts a Go function ignoring ctx/this into the HostFunc shape,
// for the many preset methods that need neither.
func hostFn(fn func(args []values.Value) (values.Value, error)) runtime.HostFunc {
	return func(_ context.Context, _ values.Value, args []values.Value) (values.Value, error) {
		return fn(args)
	}
}

func argOr(args []values.Value, i int, fallback values.Value) values.Value {
	if i < len(args) {
		return args[i]
	}
	return fallback
}

func numArg(args []values.Value, i int) float64 {
	v := argOr(args, i, values.Number(0))
	if n, ok := v.(values.Number); ok {
		return float64(n)
	}
	return 0
}

func strArg(args []values.Value, i int) string {
	v := argOr(args, i, values.String(""))
	return v.String()
}
