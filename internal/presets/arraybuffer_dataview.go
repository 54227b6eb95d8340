package presets

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/samlaycock/nookjs/internal/evaluator"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// registerArrayBufferDataView gives NodeJS scripts `new ArrayBuffer(n)`
// (a zero-filled byte Array with a `byteLength` reader) and
// `new DataView(buffer)` with the getUint8/getInt32/getFloat64-family
// accessors real code reaches for, little/big-endian selectable per
// call the same way the real DataView API takes a littleEndian flag.
// There is no separate typed-array class hierarchy (Uint8Array and
// friends) — scripts read/write through DataView or plain Array indexing
// instead.
func registerArrayBufferDataView(g *evaluator.Globals) {
	g.RegisterValue("ArrayBuffer", &runtime.HostFunction{Name: "ArrayBuffer", Fn: arrayBufferConstructor})
	g.RegisterValue("DataView", &runtime.HostFunction{Name: "DataView", Fn: dataViewConstructor})
}

func arrayBufferConstructor(_ context.Context, this values.Value, args []values.Value) (values.Value, error) {
	obj, ok := this.(*values.Object)
	if !ok {
		obj = values.NewObject()
	}
	size := int(numArg(args, 0))
	if size < 0 {
		size = 0
	}
	obj.Set("byteLength", values.Number(float64(size)))
	obj.Set("bytes", bufferArray(make([]byte, size)))
	return obj, nil
}

func dataViewConstructor(_ context.Context, this values.Value, args []values.Value) (values.Value, error) {
	obj, ok := this.(*values.Object)
	if !ok {
		obj = values.NewObject()
	}
	buf, ok := argOr(args, 0, values.Undefined{}).(*values.Object)
	if !ok {
		return values.Undefined{}, nil
	}
	bytesVal, _ := buf.Get("bytes")
	bytes, ok := bytesVal.(*values.Array)
	if !ok {
		return values.Undefined{}, nil
	}

	endian := func(args []values.Value, i int) binary.ByteOrder {
		if i < len(args) && args[i].Truthy() {
			return binary.LittleEndian
		}
		return binary.BigEndian
	}

	obj.Set("getUint8", &runtime.HostFunction{Name: "getUint8", Fn: hostFn(func(args []values.Value) (values.Value, error) {
		v, _ := bytes.Get(int(numArg(args, 0)))
		n, _ := v.(values.Number)
		return values.Number(float64(byte(n))), nil
	})})
	obj.Set("setUint8", &runtime.HostFunction{Name: "setUint8", Fn: hostFn(func(args []values.Value) (values.Value, error) {
		bytes.Set(int(numArg(args, 0)), values.Number(float64(byte(numArg(args, 1)))))
		return values.Undefined{}, nil
	})})
	obj.Set("getUint32", &runtime.HostFunction{Name: "getUint32", Fn: hostFn(func(args []values.Value) (values.Value, error) {
		b := dataViewRead(bytes, int(numArg(args, 0)), 4)
		return values.Number(float64(endian(args, 1).Uint32(b))), nil
	})})
	obj.Set("setUint32", &runtime.HostFunction{Name: "setUint32", Fn: hostFn(func(args []values.Value) (values.Value, error) {
		b := make([]byte, 4)
		endian(args, 2).PutUint32(b, uint32(numArg(args, 1)))
		dataViewWrite(bytes, int(numArg(args, 0)), b)
		return values.Undefined{}, nil
	})})
	obj.Set("getFloat64", &runtime.HostFunction{Name: "getFloat64", Fn: hostFn(func(args []values.Value) (values.Value, error) {
		b := dataViewRead(bytes, int(numArg(args, 0)), 8)
		bits := endian(args, 1).Uint64(b)
		return values.Number(math.Float64frombits(bits)), nil
	})})
	obj.Set("setFloat64", &runtime.HostFunction{Name: "setFloat64", Fn: hostFn(func(args []values.Value) (values.Value, error) {
		b := make([]byte, 8)
		endian(args, 2).PutUint64(b, math.Float64bits(numArg(args, 1)))
		dataViewWrite(bytes, int(numArg(args, 0)), b)
		return values.Undefined{}, nil
	})})
	obj.Set("byteLength", values.Number(float64(bytes.Len())))
	return obj, nil
}

func dataViewRead(bytes *values.Array, offset, n int) []byte {
	b := make([]byte, n)
	for i := 0; i < n; i++ {
		v, _ := bytes.Get(offset + i)
		num, _ := v.(values.Number)
		b[i] = byte(num)
	}
	return b
}

func dataViewWrite(bytes *values.Array, offset int, b []byte) {
	for i, c := range b {
		bytes.Set(offset+i, values.Number(float64(c)))
	}
}
