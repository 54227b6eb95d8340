package presets

import (
	"bytes"
	"testing"

	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

func TestBuildMinimalRegistersCoreGlobals(t *testing.T) {
	g := Build(Minimal, nil)
	for _, name := range []string{"Math", "JSON", "Date", "Map", "Set"} {
		env := runtime.NewEnvironment()
		g.Apply(env)
		if !env.Has(name) {
			t.Errorf("Minimal preset should register %q", name)
		}
	}
}

func TestBuildLayersOnTopOfMinimal(t *testing.T) {
	for _, name := range []Name{WinterCG, Browser, NodeJS} {
		env := runtime.NewEnvironment()
		Build(name, nil).Apply(env)
		if !env.Has("Math") {
			t.Errorf("preset %q should still carry Minimal's Math global", name)
		}
	}

	env := runtime.NewEnvironment()
	Build(WinterCG, nil).Apply(env)
	if !env.Has("fetch") || !env.Has("Headers") {
		t.Error("WinterCG preset should register fetch/Headers")
	}

	env = runtime.NewEnvironment()
	Build(Browser, nil).Apply(env)
	if !env.Has("setTimeout") || !env.Has("URL") || !env.Has("performance") {
		t.Error("Browser preset should register setTimeout/URL/performance")
	}

	env = runtime.NewEnvironment()
	Build(NodeJS, nil).Apply(env)
	if !env.Has("Buffer") || !env.Has("ArrayBuffer") {
		t.Error("NodeJS preset should register Buffer/ArrayBuffer")
	}
}

func TestMathNamespace(t *testing.T) {
	g := Build(Minimal, nil)
	env := runtime.NewEnvironment()
	g.Apply(env)

	mathObj, _ := env.Get("Math")
	ns, ok := mathObj.(*values.Object)
	if !ok {
		t.Fatal("Math should be a namespace object")
	}
	sqrtV, ok := ns.Get("sqrt")
	if !ok {
		t.Fatal("Math.sqrt should be registered")
	}
	sqrt := sqrtV.(*runtime.HostFunction)
	result, err := sqrt.Fn(nil, values.Undefined{}, []values.Value{values.Number(16)})
	if err != nil {
		t.Fatalf("Math.sqrt(16) unexpected error: %v", err)
	}
	if result != values.Number(4) {
		t.Errorf("Math.sqrt(16) = %v, want 4", result)
	}
}

func TestJSONStringifyAndParseRoundTrip(t *testing.T) {
	g := Build(Minimal, nil)
	env := runtime.NewEnvironment()
	g.Apply(env)

	jsonObj, _ := env.Get("JSON")
	ns := jsonObj.(*values.Object)

	obj := values.NewObject()
	obj.Set("a", values.Number(1))
	obj.Set("b", values.String("two"))

	stringifyV, _ := ns.Get("stringify")
	stringify := stringifyV.(*runtime.HostFunction)
	encoded, err := stringify.Fn(nil, values.Undefined{}, []values.Value{obj})
	if err != nil {
		t.Fatalf("JSON.stringify unexpected error: %v", err)
	}
	encodedStr, ok := encoded.(values.String)
	if !ok {
		t.Fatalf("JSON.stringify should return a string, got %T", encoded)
	}

	parseV, _ := ns.Get("parse")
	parse := parseV.(*runtime.HostFunction)
	decoded, err := parse.Fn(nil, values.Undefined{}, []values.Value{encodedStr})
	if err != nil {
		t.Fatalf("JSON.parse unexpected error: %v", err)
	}
	decodedObj, ok := decoded.(*values.Object)
	if !ok {
		t.Fatalf("JSON.parse should return an object, got %T", decoded)
	}
	if v, _ := decodedObj.Get("a"); v != values.Number(1) {
		t.Errorf("decoded a = %v, want 1", v)
	}
	if v, _ := decodedObj.Get("b"); v != values.String("two") {
		t.Errorf("decoded b = %v, want \"two\"", v)
	}
}

func TestConsoleLogWritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	g := Build(Browser, &buf)
	env := runtime.NewEnvironment()
	g.Apply(env)

	consoleObj, _ := env.Get("console")
	ns := consoleObj.(*values.Object)
	logV, _ := ns.Get("log")
	logFn := logV.(*runtime.HostFunction)
	if _, err := logFn.Fn(nil, values.Undefined{}, []values.Value{values.String("hello"), values.Number(42)}); err != nil {
		t.Fatalf("console.log unexpected error: %v", err)
	}
	if got := buf.String(); got != "\"hello\" 42\n" {
		t.Errorf("console.log output = %q, want %q", got, "\"hello\" 42\n")
	}
}

func TestBufferFromAndToString(t *testing.T) {
	g := Build(NodeJS, nil)
	env := runtime.NewEnvironment()
	g.Apply(env)

	bufferV, _ := env.Get("Buffer")
	buffer := bufferV.(*runtime.HostFunction)

	arr, err := buffer.Fn(nil, values.Undefined{}, []values.Value{values.String("hi")})
	if err != nil {
		t.Fatalf("Buffer.from unexpected error: %v", err)
	}
	a, ok := arr.(*values.Array)
	if !ok {
		t.Fatalf("Buffer.from should return an Array, got %T", arr)
	}
	if a.Len() != 2 {
		t.Fatalf("Buffer.from(\"hi\").length = %d, want 2", a.Len())
	}

	toStringV, _ := buffer.Props.Get("toString")
	toString := toStringV.(*runtime.HostFunction)
	str, err := toString.Fn(nil, values.Undefined{}, []values.Value{a})
	if err != nil {
		t.Fatalf("Buffer.toString unexpected error: %v", err)
	}
	if str != values.String("hi") {
		t.Errorf("Buffer.toString(buf) = %v, want \"hi\"", str)
	}
}
