package presets

import (
	"context"

	"github.com/samlaycock/nookjs/internal/evaluator"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// registerEvent gives Browser scripts a classless Event constructor plus
// EventTarget-shaped addEventListener/removeEventListener/dispatchEvent,
// a small synchronous pub-sub, no capture/bubble phases or DOM tree.
func registerEvent(g *evaluator.Globals) {
	g.RegisterValue("Event", &runtime.HostFunction{Name: "Event", Fn: eventConstructor})
	g.RegisterValue("EventTarget", &runtime.HostFunction{Name: "EventTarget", Fn: eventTargetConstructor})
}

func eventConstructor(_ context.Context, this values.Value, args []values.Value) (values.Value, error) {
	obj, ok := this.(*values.Object)
	if !ok {
		obj = values.NewObject()
	}
	obj.Set("type", values.String(strArg(args, 0)))
	defaultPrevented := false
	obj.Set("defaultPrevented", values.Boolean(false))
	obj.Set("preventDefault", &runtime.HostFunction{Name: "preventDefault", Fn: hostFn(func([]values.Value) (values.Value, error) {
		defaultPrevented = true
		obj.Set("defaultPrevented", values.Boolean(defaultPrevented))
		return values.Undefined{}, nil
	})})
	return obj, nil
}

type eventListenerState struct {
	listeners map[string][]values.Value
}

func eventTargetConstructor(_ context.Context, this values.Value, _ []values.Value) (values.Value, error) {
	obj, ok := this.(*values.Object)
	if !ok {
		obj = values.NewObject()
	}
	state := &eventListenerState{listeners: make(map[string][]values.Value)}

	obj.Set("addEventListener", &runtime.HostFunction{Name: "addEventListener", Fn: hostFn(func(args []values.Value) (values.Value, error) {
		t := strArg(args, 0)
		fn := argOr(args, 1, values.Undefined{})
		state.listeners[t] = append(state.listeners[t], fn)
		return values.Undefined{}, nil
	})})
	obj.Set("removeEventListener", &runtime.HostFunction{Name: "removeEventListener", Fn: hostFn(func(args []values.Value) (values.Value, error) {
		t := strArg(args, 0)
		fn := argOr(args, 1, values.Undefined{})
		kept := state.listeners[t][:0]
		for _, l := range state.listeners[t] {
			if l != fn {
				kept = append(kept, l)
			}
		}
		state.listeners[t] = kept
		return values.Undefined{}, nil
	})})
	obj.Set("dispatchEvent", &runtime.HostFunction{Name: "dispatchEvent", Fn: func(ctx context.Context, _ values.Value, args []values.Value) (values.Value, error) {
		evt := argOr(args, 0, values.Undefined{})
		t := ""
		if eo, ok := evt.(*values.Object); ok {
			if tv, ok := eo.Get("type"); ok {
				t = tv.String()
			}
		}
		invoke, ok := runtime.InvokerFromContext(ctx)
		if !ok {
			return values.Boolean(true), nil
		}
		for _, l := range state.listeners[t] {
			if _, err := invoke(ctx, l, obj, []values.Value{evt}); err != nil {
				return values.Undefined{}, err
			}
		}
		return values.Boolean(true), nil
	}})
	return obj, nil
}
