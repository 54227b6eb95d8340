package presets

import (
	"context"
	"strings"

	"github.com/samlaycock/nookjs/internal/evaluator"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// registerBlobFile gives Browser scripts classless Blob/File constructors
// backed by a concatenated string of whatever string/number parts were
// passed (this sandbox has no binary ArrayBuffer-of-bytes shared with
// Blob the way a real engine does — see registerArrayBufferDataView for
// that separate, Node-side typed-array shim). size/type/name are plain
// data properties set at construction; text() is the one method.
func registerBlobFile(g *evaluator.Globals) {
	g.RegisterValue("Blob", &runtime.HostFunction{Name: "Blob", Fn: blobConstructor})
	g.RegisterValue("File", &runtime.HostFunction{Name: "File", Fn: fileConstructor})
}

func blobParts(args []values.Value) string {
	var sb strings.Builder
	if arr, ok := argOr(args, 0, values.Undefined{}).(*values.Array); ok {
		for _, part := range arr.Values() {
			sb.WriteString(part.String())
		}
	}
	return sb.String()
}

func blobType(args []values.Value) string {
	if init, ok := argOr(args, 1, values.Undefined{}).(*values.Object); ok {
		if t, ok := init.Get("type"); ok {
			return t.String()
		}
	}
	return ""
}

func blobConstructor(_ context.Context, this values.Value, args []values.Value) (values.Value, error) {
	obj, ok := this.(*values.Object)
	if !ok {
		obj = values.NewObject()
	}
	content := blobParts(args)
	mime := blobType(args)
	attachBlobMethods(obj, content, mime)
	return obj, nil
}

func fileConstructor(_ context.Context, this values.Value, args []values.Value) (values.Value, error) {
	obj, ok := this.(*values.Object)
	if !ok {
		obj = values.NewObject()
	}
	content := blobParts(args)
	mime := blobType(args)
	attachBlobMethods(obj, content, mime)
	obj.Set("name", values.String(strArg(args, 1)))
	obj.Set("lastModified", values.Number(0))
	return obj, nil
}

func attachBlobMethods(obj *values.Object, content, mime string) {
	obj.Set("size", values.Number(float64(len(content))))
	obj.Set("type", values.String(mime))
	obj.Set("text", &runtime.HostFunction{Name: "text", Fn: hostFn(func([]values.Value) (values.Value, error) {
		return values.String(content), nil
	})})
}
