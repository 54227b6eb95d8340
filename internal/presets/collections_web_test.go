package presets

import (
	"context"
	"testing"

	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

func newHostObject(t *testing.T, name string, ctor *runtime.HostFunction) *values.Object {
	t.Helper()
	v, err := ctor.Fn(context.Background(), values.Undefined{}, nil)
	if err != nil {
		t.Fatalf("%s constructor unexpected error: %v", name, err)
	}
	obj, ok := v.(*values.Object)
	if !ok {
		t.Fatalf("%s constructor should return an Object, got %T", name, v)
	}
	return obj
}

func method(t *testing.T, obj *values.Object, name string) *runtime.HostFunction {
	t.Helper()
	v, ok := obj.Get(name)
	if !ok {
		t.Fatalf("expected method %q to be present", name)
	}
	fn, ok := v.(*runtime.HostFunction)
	if !ok {
		t.Fatalf("%q should be a HostFunction, got %T", name, v)
	}
	return fn
}

func TestMapSetGetHasDelete(t *testing.T) {
	g := Build(Minimal, nil)
	env := runtime.NewEnvironment()
	g.Apply(env)

	mapV, _ := env.Get("Map")
	mapCtor := mapV.(*runtime.HostFunction)
	m := newHostObject(t, "Map", mapCtor)

	set := method(t, m, "set")
	get := method(t, m, "get")
	has := method(t, m, "has")
	del := method(t, m, "delete")
	size := method(t, m, "size")

	ctx := context.Background()
	if _, err := set.Fn(ctx, m, []values.Value{values.String("a"), values.Number(1)}); err != nil {
		t.Fatalf("Map.set unexpected error: %v", err)
	}
	if v, _ := get.Fn(ctx, m, []values.Value{values.String("a")}); v != values.Number(1) {
		t.Errorf("Map.get(a) = %v, want 1", v)
	}
	if v, _ := has.Fn(ctx, m, []values.Value{values.String("a")}); v != values.Boolean(true) {
		t.Errorf("Map.has(a) = %v, want true", v)
	}
	if v, _ := size.Fn(ctx, m, nil); v != values.Number(1) {
		t.Errorf("Map.size() = %v, want 1", v)
	}
	if v, _ := del.Fn(ctx, m, []values.Value{values.String("a")}); v != values.Boolean(true) {
		t.Errorf("Map.delete(a) = %v, want true", v)
	}
	if v, _ := has.Fn(ctx, m, []values.Value{values.String("a")}); v != values.Boolean(false) {
		t.Errorf("Map.has(a) after delete = %v, want false", v)
	}
}

func TestSetAddHasDelete(t *testing.T) {
	g := Build(Minimal, nil)
	env := runtime.NewEnvironment()
	g.Apply(env)

	setV, _ := env.Get("Set")
	setCtor := setV.(*runtime.HostFunction)
	s := newHostObject(t, "Set", setCtor)

	add := method(t, s, "add")
	has := method(t, s, "has")
	size := method(t, s, "size")

	ctx := context.Background()
	if _, err := add.Fn(ctx, s, []values.Value{values.Number(7)}); err != nil {
		t.Fatalf("Set.add unexpected error: %v", err)
	}
	if _, err := add.Fn(ctx, s, []values.Value{values.Number(7)}); err != nil {
		t.Fatalf("Set.add (dup) unexpected error: %v", err)
	}
	if v, _ := size.Fn(ctx, s, nil); v != values.Number(1) {
		t.Errorf("Set.size() after duplicate add = %v, want 1 (no dup entries)", v)
	}
	if v, _ := has.Fn(ctx, s, []values.Value{values.Number(7)}); v != values.Boolean(true) {
		t.Errorf("Set.has(7) = %v, want true", v)
	}
}

func TestURLParsesComponents(t *testing.T) {
	g := Build(Browser, nil)
	env := runtime.NewEnvironment()
	g.Apply(env)

	urlV, _ := env.Get("URL")
	urlCtor := urlV.(*runtime.HostFunction)

	v, err := urlCtor.Fn(context.Background(), values.Undefined{}, []values.Value{values.String("https://example.com/path?q=1#frag")})
	if err != nil {
		t.Fatalf("URL constructor unexpected error: %v", err)
	}
	obj := v.(*values.Object)

	check := func(prop, want string) {
		t.Helper()
		fn := method(t, obj, prop)
		got, err := fn.Fn(context.Background(), obj, nil)
		if err != nil {
			t.Fatalf("%s() unexpected error: %v", prop, err)
		}
		if got.String() != want {
			t.Errorf("%s() = %q, want %q", prop, got.String(), want)
		}
	}
	check("protocol", "https:")
	check("hostname", "example.com")
	check("pathname", "/path")
	check("search", "?q=1")
	check("hash", "#frag")
}

func TestCryptoGetRandomValuesFillsArray(t *testing.T) {
	g := Build(WinterCG, nil)
	env := runtime.NewEnvironment()
	g.Apply(env)

	cryptoV, _ := env.Get("crypto")
	ns := cryptoV.(*values.Object)
	getRandom := method(t, ns, "getRandomValues")

	arr := values.NewArray(values.Number(0), values.Number(0), values.Number(0), values.Number(0))
	result, err := getRandom.Fn(context.Background(), values.Undefined{}, []values.Value{arr})
	if err != nil {
		t.Fatalf("crypto.getRandomValues unexpected error: %v", err)
	}
	out, ok := result.(*values.Array)
	if !ok || out.Len() != 4 {
		t.Fatalf("crypto.getRandomValues should return the same 4-element array, got %v", result)
	}
}

func TestCryptoRandomUUIDFormat(t *testing.T) {
	g := Build(WinterCG, nil)
	env := runtime.NewEnvironment()
	g.Apply(env)

	cryptoV, _ := env.Get("crypto")
	ns := cryptoV.(*values.Object)
	randomUUID := method(t, ns, "randomUUID")

	v, err := randomUUID.Fn(context.Background(), values.Undefined{}, nil)
	if err != nil {
		t.Fatalf("crypto.randomUUID unexpected error: %v", err)
	}
	s := v.String()
	if len(s) != 36 {
		t.Errorf("crypto.randomUUID() = %q, want 36 characters", s)
	}
}

func TestTextEncoderDecoderRoundTrip(t *testing.T) {
	g := Build(WinterCG, nil)
	env := runtime.NewEnvironment()
	g.Apply(env)

	encV, _ := env.Get("TextEncoder")
	encCtor := encV.(*runtime.HostFunction)
	enc := newHostObject(t, "TextEncoder", encCtor)
	encode := method(t, enc, "encode")

	encoded, err := encode.Fn(context.Background(), enc, []values.Value{values.String("hi")})
	if err != nil {
		t.Fatalf("TextEncoder.encode unexpected error: %v", err)
	}

	decV, _ := env.Get("TextDecoder")
	decCtor := decV.(*runtime.HostFunction)
	dec := newHostObject(t, "TextDecoder", decCtor)
	decode := method(t, dec, "decode")

	decoded, err := decode.Fn(context.Background(), dec, []values.Value{encoded})
	if err != nil {
		t.Fatalf("TextDecoder.decode unexpected error: %v", err)
	}
	if decoded != values.String("hi") {
		t.Errorf("decode(encode(\"hi\")) = %v, want \"hi\"", decoded)
	}
}

func TestEventPreventDefault(t *testing.T) {
	g := Build(Browser, nil)
	env := runtime.NewEnvironment()
	g.Apply(env)

	eventV, _ := env.Get("Event")
	eventCtor := eventV.(*runtime.HostFunction)

	v, err := eventCtor.Fn(context.Background(), values.Undefined{}, []values.Value{values.String("click")})
	if err != nil {
		t.Fatalf("Event constructor unexpected error: %v", err)
	}
	evt := v.(*values.Object)

	if typ, _ := evt.Get("type"); typ != values.String("click") {
		t.Errorf("event.type = %v, want \"click\"", typ)
	}
	preventDefault := method(t, evt, "preventDefault")
	if _, err := preventDefault.Fn(context.Background(), evt, nil); err != nil {
		t.Fatalf("event.preventDefault unexpected error: %v", err)
	}
	if dp, _ := evt.Get("defaultPrevented"); dp != values.Boolean(true) {
		t.Errorf("event.defaultPrevented after preventDefault() = %v, want true", dp)
	}
}

func TestEventTargetDispatchesToListeners(t *testing.T) {
	g := Build(Browser, nil)
	env := runtime.NewEnvironment()
	g.Apply(env)

	targetV, _ := env.Get("EventTarget")
	targetCtor := targetV.(*runtime.HostFunction)
	target := newHostObject(t, "EventTarget", targetCtor)

	addEventListener := method(t, target, "addEventListener")
	dispatchEvent := method(t, target, "dispatchEvent")

	called := false
	var seenEvt values.Value
	listener := &runtime.HostFunction{Name: "listener", Fn: func(_ context.Context, _ values.Value, args []values.Value) (values.Value, error) {
		called = true
		if len(args) > 0 {
			seenEvt = args[0]
		}
		return values.Undefined{}, nil
	}}

	ctx := context.Background()
	if _, err := addEventListener.Fn(ctx, target, []values.Value{values.String("ping"), listener}); err != nil {
		t.Fatalf("addEventListener unexpected error: %v", err)
	}

	evt := values.NewObject()
	evt.Set("type", values.String("ping"))

	invokeCtx := runtime.WithInvoker(ctx, func(ctx context.Context, fn values.Value, this values.Value, args []values.Value) (values.Value, error) {
		hf := fn.(*runtime.HostFunction)
		return hf.Fn(ctx, this, args)
	})
	if _, err := dispatchEvent.Fn(invokeCtx, target, []values.Value{evt}); err != nil {
		t.Fatalf("dispatchEvent unexpected error: %v", err)
	}
	if !called {
		t.Error("dispatchEvent should have invoked the registered listener")
	}
	if seenEvt != values.Value(evt) {
		t.Errorf("listener should receive the dispatched event object, got %v", seenEvt)
	}
}

func TestEventTargetDispatchWithoutInvokerIsNoop(t *testing.T) {
	g := Build(Browser, nil)
	env := runtime.NewEnvironment()
	g.Apply(env)

	targetV, _ := env.Get("EventTarget")
	targetCtor := targetV.(*runtime.HostFunction)
	target := newHostObject(t, "EventTarget", targetCtor)
	dispatchEvent := method(t, target, "dispatchEvent")

	evt := values.NewObject()
	evt.Set("type", values.String("ping"))

	v, err := dispatchEvent.Fn(context.Background(), target, []values.Value{evt})
	if err != nil {
		t.Fatalf("dispatchEvent without an invoker should not error, got: %v", err)
	}
	if v != values.Boolean(true) {
		t.Errorf("dispatchEvent() = %v, want true", v)
	}
}

func TestPerformanceNowIsMonotonic(t *testing.T) {
	g := Build(Browser, nil)
	env := runtime.NewEnvironment()
	g.Apply(env)

	perfV, _ := env.Get("performance")
	ns := perfV.(*values.Object)
	now := method(t, ns, "now")

	ctx := context.Background()
	first, err := now.Fn(ctx, values.Undefined{}, nil)
	if err != nil {
		t.Fatalf("performance.now unexpected error: %v", err)
	}
	second, err := now.Fn(ctx, values.Undefined{}, nil)
	if err != nil {
		t.Fatalf("performance.now unexpected error: %v", err)
	}
	if second.(values.Number) < first.(values.Number) {
		t.Errorf("performance.now() should never go backwards: %v then %v", first, second)
	}
}
