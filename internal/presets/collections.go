package presets

import (
	"context"

	"github.com/samlaycock/nookjs/internal/evaluator"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// mapEntry preserves insertion order the same way values.Object does,
// but keyed by an arbitrary sandbox Value (not just strings) since a
// real Map, unlike a plain object, accepts any value as a key.
type mapEntry struct {
	key, val values.Value
}

// mapState is the private backing store a `new Map()` instance's bound
// methods close over directly; the sandbox-visible object carries no
// properties of its own besides those methods, since there is no way to
// hide Go state inside a values.Object's string-keyed property bag.
type mapState struct {
	entries []mapEntry
}

func mapKeyOf(v values.Value) string {
	return values.TypeOf(v) + ":" + values.Inspect(v)
}

func (m *mapState) indexOf(key values.Value) int {
	k := mapKeyOf(key)
	for i, e := range m.entries {
		if mapKeyOf(e.key) == k {
			return i
		}
	}
	return -1
}

func registerMap(g *evaluator.Globals) {
	g.RegisterValue("Map", &runtime.HostFunction{Name: "Map", Fn: mapConstructor})
}

func mapConstructor(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
	obj, ok := this.(*values.Object)
	if !ok {
		obj = values.NewObject()
	}
	state := &mapState{}
	if len(args) > 0 {
		if arr, ok := args[0].(*values.Array); ok {
			for _, entry := range arr.Values() {
				pair, ok := entry.(*values.Array)
				if !ok || pair.Len() < 2 {
					continue
				}
				k, _ := pair.Get(0)
				v, _ := pair.Get(1)
				state.entries = append(state.entries, mapEntry{k, v})
			}
		}
	}

	set := func(_ context.Context, _ values.Value, args []values.Value) (values.Value, error) {
		key := argOr(args, 0, values.Undefined{})
		val := argOr(args, 1, values.Undefined{})
		if i := state.indexOf(key); i >= 0 {
			state.entries[i].val = val
		} else {
			state.entries = append(state.entries, mapEntry{key, val})
		}
		return obj, nil
	}
	get := func(_ context.Context, _ values.Value, args []values.Value) (values.Value, error) {
		key := argOr(args, 0, values.Undefined{})
		if i := state.indexOf(key); i >= 0 {
			return state.entries[i].val, nil
		}
		return values.Undefined{}, nil
	}
	has := func(_ context.Context, _ values.Value, args []values.Value) (values.Value, error) {
		return values.Boolean(state.indexOf(argOr(args, 0, values.Undefined{})) >= 0), nil
	}
	del := func(_ context.Context, _ values.Value, args []values.Value) (values.Value, error) {
		i := state.indexOf(argOr(args, 0, values.Undefined{}))
		if i < 0 {
			return values.Boolean(false), nil
		}
		state.entries = append(state.entries[:i], state.entries[i+1:]...)
		return values.Boolean(true), nil
	}
	clear := func(_ context.Context, _ values.Value, _ []values.Value) (values.Value, error) {
		state.entries = nil
		return values.Undefined{}, nil
	}
	size := func(_ context.Context, _ values.Value, _ []values.Value) (values.Value, error) {
		return values.Number(len(state.entries)), nil
	}
	keys := func(_ context.Context, _ values.Value, _ []values.Value) (values.Value, error) {
		out := make([]values.Value, len(state.entries))
		for i, e := range state.entries {
			out[i] = e.key
		}
		return values.NewArray(out...), nil
	}
	valuesFn := func(_ context.Context, _ values.Value, _ []values.Value) (values.Value, error) {
		out := make([]values.Value, len(state.entries))
		for i, e := range state.entries {
			out[i] = e.val
		}
		return values.NewArray(out...), nil
	}
	entries := func(_ context.Context, _ values.Value, _ []values.Value) (values.Value, error) {
		out := make([]values.Value, len(state.entries))
		for i, e := range state.entries {
			out[i] = values.NewArray(e.key, e.val)
		}
		return values.NewArray(out...), nil
	}
	forEach := func(ctx context.Context, _ values.Value, args []values.Value) (values.Value, error) {
		fn := argOr(args, 0, values.Undefined{})
		invoke, ok := runtime.InvokerFromContext(ctx)
		if !ok {
			return values.Undefined{}, nil
		}
		for _, e := range state.entries {
			if _, err := invoke(ctx, fn, values.Undefined{}, []values.Value{e.val, e.key, obj}); err != nil {
				return values.Undefined{}, err
			}
		}
		return values.Undefined{}, nil
	}

	obj.Set("set", &runtime.HostFunction{Name: "set", Fn: set})
	obj.Set("get", &runtime.HostFunction{Name: "get", Fn: get})
	obj.Set("has", &runtime.HostFunction{Name: "has", Fn: has})
	obj.Set("delete", &runtime.HostFunction{Name: "delete", Fn: del})
	obj.Set("clear", &runtime.HostFunction{Name: "clear", Fn: clear})
	obj.Set("size", &runtime.HostFunction{Name: "size", Fn: size})
	obj.Set("keys", &runtime.HostFunction{Name: "keys", Fn: keys})
	obj.Set("values", &runtime.HostFunction{Name: "values", Fn: valuesFn})
	obj.Set("entries", &runtime.HostFunction{Name: "entries", Fn: entries})
	obj.Set("forEach", &runtime.HostFunction{Name: "forEach", Fn: forEach})
	return obj, nil
}

func registerSet(g *evaluator.Globals) {
	g.RegisterValue("Set", &runtime.HostFunction{Name: "Set", Fn: setConstructor})
}

func setConstructor(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
	obj, ok := this.(*values.Object)
	if !ok {
		obj = values.NewObject()
	}
	state := &mapState{}
	add := func(_ context.Context, _ values.Value, args []values.Value) (values.Value, error) {
		v := argOr(args, 0, values.Undefined{})
		if state.indexOf(v) < 0 {
			state.entries = append(state.entries, mapEntry{v, v})
		}
		return obj, nil
	}
	if len(args) > 0 {
		if arr, ok := args[0].(*values.Array); ok {
			for _, v := range arr.Values() {
				_, _ = add(ctx, obj, []values.Value{v})
			}
		}
	}
	has := func(_ context.Context, _ values.Value, args []values.Value) (values.Value, error) {
		return values.Boolean(state.indexOf(argOr(args, 0, values.Undefined{})) >= 0), nil
	}
	del := func(_ context.Context, _ values.Value, args []values.Value) (values.Value, error) {
		i := state.indexOf(argOr(args, 0, values.Undefined{}))
		if i < 0 {
			return values.Boolean(false), nil
		}
		state.entries = append(state.entries[:i], state.entries[i+1:]...)
		return values.Boolean(true), nil
	}
	clear := func(_ context.Context, _ values.Value, _ []values.Value) (values.Value, error) {
		state.entries = nil
		return values.Undefined{}, nil
	}
	size := func(_ context.Context, _ values.Value, _ []values.Value) (values.Value, error) {
		return values.Number(len(state.entries)), nil
	}
	valuesArr := func(_ context.Context, _ values.Value, _ []values.Value) (values.Value, error) {
		out := make([]values.Value, len(state.entries))
		for i, e := range state.entries {
			out[i] = e.val
		}
		return values.NewArray(out...), nil
	}
	forEach := func(ctx context.Context, _ values.Value, args []values.Value) (values.Value, error) {
		fn := argOr(args, 0, values.Undefined{})
		invoke, ok := runtime.InvokerFromContext(ctx)
		if !ok {
			return values.Undefined{}, nil
		}
		for _, e := range state.entries {
			if _, err := invoke(ctx, fn, values.Undefined{}, []values.Value{e.val, e.val, obj}); err != nil {
				return values.Undefined{}, err
			}
		}
		return values.Undefined{}, nil
	}

	obj.Set("add", &runtime.HostFunction{Name: "add", Fn: add})
	obj.Set("has", &runtime.HostFunction{Name: "has", Fn: has})
	obj.Set("delete", &runtime.HostFunction{Name: "delete", Fn: del})
	obj.Set("clear", &runtime.HostFunction{Name: "clear", Fn: clear})
	obj.Set("size", &runtime.HostFunction{Name: "size", Fn: size})
	obj.Set("values", &runtime.HostFunction{Name: "values", Fn: valuesArr})
	obj.Set("forEach", &runtime.HostFunction{Name: "forEach", Fn: forEach})
	return obj, nil
}
