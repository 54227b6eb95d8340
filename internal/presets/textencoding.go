package presets

import (
	"context"
	"unicode/utf8"

	"github.com/samlaycock/nookjs/internal/evaluator"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// registerTextEncoding exposes TextEncoder/TextDecoder, both UTF-8 only
// (the only encoding this sandbox's Value model, a float64-per-byte
// Array, needs to support). encode/decode are the sole methods; there is
// no streaming variant.
func registerTextEncoding(g *evaluator.Globals) {
	g.RegisterValue("TextEncoder", &runtime.HostFunction{Name: "TextEncoder", Fn: textEncoderConstructor})
	g.RegisterValue("TextDecoder", &runtime.HostFunction{Name: "TextDecoder", Fn: textDecoderConstructor})
}

func textEncoderConstructor(_ context.Context, this values.Value, _ []values.Value) (values.Value, error) {
	obj, ok := this.(*values.Object)
	if !ok {
		obj = values.NewObject()
	}
	obj.Set("encoding", values.String("utf-8"))
	obj.Set("encode", &runtime.HostFunction{Name: "encode", Fn: hostFn(func(args []values.Value) (values.Value, error) {
		b := []byte(strArg(args, 0))
		out := make([]values.Value, len(b))
		for i, c := range b {
			out[i] = values.Number(float64(c))
		}
		return values.NewArray(out...), nil
	})})
	return obj, nil
}

func textDecoderConstructor(_ context.Context, this values.Value, _ []values.Value) (values.Value, error) {
	obj, ok := this.(*values.Object)
	if !ok {
		obj = values.NewObject()
	}
	obj.Set("encoding", values.String("utf-8"))
	obj.Set("decode", &runtime.HostFunction{Name: "decode", Fn: hostFn(func(args []values.Value) (values.Value, error) {
		arr, ok := argOr(args, 0, values.Undefined{}).(*values.Array)
		if !ok {
			return values.String(""), nil
		}
		b := make([]byte, 0, arr.Len())
		for _, v := range arr.Values() {
			if n, ok := v.(values.Number); ok {
				b = append(b, byte(n))
			}
		}
		if !utf8.Valid(b) {
			return values.String(string(b)), nil
		}
		return values.String(b), nil
	})})
	return obj, nil
}
