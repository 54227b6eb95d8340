package presets

import (
	"context"
	"strings"

	"github.com/samlaycock/nookjs/internal/evaluator"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// headerState backs a `new Headers()` instance: an ordered, case-
// insensitive multimap, the same shape net/http.Header models, kept
// private to the constructor closure for the same reason mapState is.
type headerState struct {
	order []string // canonical-cased key in first-seen order
	byKey map[string][]string
}

func canonicalHeaderKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

func (h *headerState) append(key, value string) {
	ck := canonicalHeaderKey(key)
	if _, ok := h.byKey[ck]; !ok {
		h.order = append(h.order, ck)
	}
	h.byKey[ck] = append(h.byKey[ck], value)
}

func (h *headerState) set(key, value string) {
	ck := canonicalHeaderKey(key)
	if _, ok := h.byKey[ck]; !ok {
		h.order = append(h.order, ck)
	}
	h.byKey[ck] = []string{value}
}

func registerHeaders(g *evaluator.Globals) {
	g.RegisterValue("Headers", &runtime.HostFunction{Name: "Headers", Fn: headersConstructor})
}

func headersConstructor(ctx context.Context, this values.Value, args []values.Value) (values.Value, error) {
	obj, ok := this.(*values.Object)
	if !ok {
		obj = values.NewObject()
	}
	state := &headerState{byKey: make(map[string][]string)}
	if len(args) > 0 {
		switch init := args[0].(type) {
		case *values.Object:
			for _, k := range init.Keys() {
				v, _ := init.Get(k)
				state.set(k, v.String())
			}
		case *values.Array:
			for _, entry := range init.Values() {
				if pair, ok := entry.(*values.Array); ok && pair.Len() >= 2 {
					k, _ := pair.Get(0)
					v, _ := pair.Get(1)
					state.set(k.String(), v.String())
				}
			}
		}
	}

	obj.Set("append", &runtime.HostFunction{Name: "append", Fn: hostFn(func(args []values.Value) (values.Value, error) {
		state.append(strArg(args, 0), strArg(args, 1))
		return values.Undefined{}, nil
	})})
	obj.Set("set", &runtime.HostFunction{Name: "set", Fn: hostFn(func(args []values.Value) (values.Value, error) {
		state.set(strArg(args, 0), strArg(args, 1))
		return values.Undefined{}, nil
	})})
	obj.Set("get", &runtime.HostFunction{Name: "get", Fn: hostFn(func(args []values.Value) (values.Value, error) {
		vs, ok := state.byKey[canonicalHeaderKey(strArg(args, 0))]
		if !ok || len(vs) == 0 {
			return values.Null{}, nil
		}
		return values.String(strings.Join(vs, ", ")), nil
	})})
	obj.Set("has", &runtime.HostFunction{Name: "has", Fn: hostFn(func(args []values.Value) (values.Value, error) {
		_, ok := state.byKey[canonicalHeaderKey(strArg(args, 0))]
		return values.Boolean(ok), nil
	})})
	obj.Set("delete", &runtime.HostFunction{Name: "delete", Fn: hostFn(func(args []values.Value) (values.Value, error) {
		ck := canonicalHeaderKey(strArg(args, 0))
		delete(state.byKey, ck)
		for i, k := range state.order {
			if k == ck {
				state.order = append(state.order[:i], state.order[i+1:]...)
				break
			}
		}
		return values.Undefined{}, nil
	})})
	obj.Set("forEach", &runtime.HostFunction{Name: "forEach", Fn: func(ctx context.Context, _ values.Value, args []values.Value) (values.Value, error) {
		fn := argOr(args, 0, values.Undefined{})
		invoke, ok := runtime.InvokerFromContext(ctx)
		if !ok {
			return values.Undefined{}, nil
		}
		for _, k := range state.order {
			joined := strings.Join(state.byKey[k], ", ")
			if _, err := invoke(ctx, fn, values.Undefined{}, []values.Value{values.String(joined), values.String(k), obj}); err != nil {
				return values.Undefined{}, err
			}
		}
		return values.Undefined{}, nil
	}})
	return obj, nil
}
