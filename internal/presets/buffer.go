package presets

import (
	"context"
	"encoding/base64"
	"encoding/hex"

	"github.com/samlaycock/nookjs/internal/evaluator"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// registerBuffer gives NodeJS scripts a Buffer-shaped API over this
// sandbox's Array-of-byte-numbers model: `Buffer.from(string, encoding)`
// and `Buffer.alloc(size)` return a plain Array whose elements are
// already plain numbers. Array has no string-keyed property bag (see
// values.Array), so the encoding-back direction is a static
// `Buffer.toString(buf, encoding)` rather than an instance method. There
// is no distinct typed-array class backing any of this, unlike Node's
// real Buffer — registerArrayBufferDataView covers that separate need.
func registerBuffer(g *evaluator.Globals) {
	props := values.NewObject()
	props.Set("from", &runtime.HostFunction{Name: "from", Fn: bufferFrom})
	props.Set("alloc", &runtime.HostFunction{Name: "alloc", Fn: bufferAlloc})
	props.Set("toString", &runtime.HostFunction{Name: "toString", Fn: hostFn(bufferToString)})
	props.Freeze()
	g.RegisterValue("Buffer", &runtime.HostFunction{Name: "Buffer", Fn: bufferFrom, Props: props})
}

func bufferFrom(_ context.Context, _ values.Value, args []values.Value) (values.Value, error) {
	encoding := strArg(args, 1)
	var b []byte
	switch v := argOr(args, 0, values.Undefined{}).(type) {
	case values.String:
		b = decodeBufferString(string(v), encoding)
	case *values.Array:
		b = make([]byte, v.Len())
		for i, e := range v.Values() {
			if n, ok := e.(values.Number); ok {
				b[i] = byte(n)
			}
		}
	}
	return bufferArray(b), nil
}

func bufferAlloc(_ context.Context, _ values.Value, args []values.Value) (values.Value, error) {
	size := int(numArg(args, 0))
	if size < 0 {
		size = 0
	}
	return bufferArray(make([]byte, size)), nil
}

func decodeBufferString(s, encoding string) []byte {
	switch encoding {
	case "base64":
		if b, err := base64.StdEncoding.DecodeString(s); err == nil {
			return b
		}
		return nil
	case "hex":
		if b, err := hex.DecodeString(s); err == nil {
			return b
		}
		return nil
	default:
		return []byte(s)
	}
}

func bufferArray(b []byte) *values.Array {
	elems := make([]values.Value, len(b))
	for i, c := range b {
		elems[i] = values.Number(float64(c))
	}
	return values.NewArray(elems...)
}

func bufferToString(args []values.Value) (values.Value, error) {
	arr, ok := argOr(args, 0, values.Undefined{}).(*values.Array)
	if !ok {
		return values.String(""), nil
	}
	b := make([]byte, arr.Len())
	for i, v := range arr.Values() {
		if n, ok := v.(values.Number); ok {
			b[i] = byte(n)
		}
	}
	switch strArg(args, 1) {
	case "base64":
		return values.String(base64.StdEncoding.EncodeToString(b)), nil
	case "hex":
		return values.String(hex.EncodeToString(b)), nil
	default:
		return values.String(b), nil
	}
}
