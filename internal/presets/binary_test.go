package presets

import (
	"context"
	"testing"

	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

func TestArrayBufferReportsByteLength(t *testing.T) {
	g := Build(NodeJS, nil)
	env := runtime.NewEnvironment()
	g.Apply(env)

	abV, _ := env.Get("ArrayBuffer")
	abCtor := abV.(*runtime.HostFunction)

	v, err := abCtor.Fn(context.Background(), values.Undefined{}, []values.Value{values.Number(8)})
	if err != nil {
		t.Fatalf("ArrayBuffer constructor unexpected error: %v", err)
	}
	obj := v.(*values.Object)
	if bl, _ := obj.Get("byteLength"); bl != values.Number(8) {
		t.Errorf("ArrayBuffer(8).byteLength = %v, want 8", bl)
	}
}

func TestDataViewUint32RoundTrip(t *testing.T) {
	g := Build(NodeJS, nil)
	env := runtime.NewEnvironment()
	g.Apply(env)

	ctx := context.Background()

	abV, _ := env.Get("ArrayBuffer")
	abCtor := abV.(*runtime.HostFunction)
	bufV, err := abCtor.Fn(ctx, values.Undefined{}, []values.Value{values.Number(4)})
	if err != nil {
		t.Fatalf("ArrayBuffer constructor unexpected error: %v", err)
	}

	dvV, _ := env.Get("DataView")
	dvCtor := dvV.(*runtime.HostFunction)
	viewV, err := dvCtor.Fn(ctx, values.Undefined{}, []values.Value{bufV})
	if err != nil {
		t.Fatalf("DataView constructor unexpected error: %v", err)
	}
	view := viewV.(*values.Object)

	setV := method(t, view, "setUint32")
	getV := method(t, view, "getUint32")

	if _, err := setV.Fn(ctx, view, []values.Value{values.Number(0), values.Number(1234)}); err != nil {
		t.Fatalf("setUint32 unexpected error: %v", err)
	}
	got, err := getV.Fn(ctx, view, []values.Value{values.Number(0)})
	if err != nil {
		t.Fatalf("getUint32 unexpected error: %v", err)
	}
	if got != values.Number(1234) {
		t.Errorf("getUint32(setUint32(0, 1234)) = %v, want 1234", got)
	}
}

func TestBlobSizeAndText(t *testing.T) {
	g := Build(Browser, nil)
	env := runtime.NewEnvironment()
	g.Apply(env)

	blobV, _ := env.Get("Blob")
	blobCtor := blobV.(*runtime.HostFunction)

	parts := values.NewArray(values.String("hello "), values.String("world"))
	v, err := blobCtor.Fn(context.Background(), values.Undefined{}, []values.Value{parts})
	if err != nil {
		t.Fatalf("Blob constructor unexpected error: %v", err)
	}
	blob := v.(*values.Object)

	if size, _ := blob.Get("size"); size != values.Number(11) {
		t.Errorf("Blob.size = %v, want 11", size)
	}
	text := method(t, blob, "text")
	got, err := text.Fn(context.Background(), blob, nil)
	if err != nil {
		t.Fatalf("Blob.text unexpected error: %v", err)
	}
	if got != values.String("hello world") {
		t.Errorf("Blob.text() = %v, want \"hello world\"", got)
	}
}

func TestFileCarriesName(t *testing.T) {
	g := Build(Browser, nil)
	env := runtime.NewEnvironment()
	g.Apply(env)

	fileV, _ := env.Get("File")
	fileCtor := fileV.(*runtime.HostFunction)

	parts := values.NewArray(values.String("data"))
	v, err := fileCtor.Fn(context.Background(), values.Undefined{}, []values.Value{parts, values.String("notes.txt")})
	if err != nil {
		t.Fatalf("File constructor unexpected error: %v", err)
	}
	file := v.(*values.Object)
	if name, _ := file.Get("name"); name != values.String("notes.txt") {
		t.Errorf("File.name = %v, want \"notes.txt\"", name)
	}
}
