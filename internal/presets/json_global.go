package presets

import (
	"encoding/json"
	"fmt"

	"github.com/samlaycock/nookjs/internal/evaluator"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

func registerJSON(g *evaluator.Globals) {
	obj := namespace(map[string]runtime.HostFunc{
		"stringify": hostFn(jsonStringify),
		"parse":     hostFn(jsonParse),
	})
	g.RegisterValue("JSON", obj)
}

func jsonStringify(args []values.Value) (values.Value, error) {
	v := argOr(args, 0, values.Undefined{})
	converted, err := valueToAny(v)
	if err != nil {
		return values.Undefined{}, err
	}
	indent := ""
	if len(args) > 2 {
		if n, ok := args[2].(values.Number); ok {
			for i := 0; i < int(n); i++ {
				indent += " "
			}
		} else if s, ok := args[2].(values.String); ok {
			indent = string(s)
		}
	}
	var (
		out []byte
		err2 error
	)
	if indent != "" {
		out, err2 = json.MarshalIndent(converted, "", indent)
	} else {
		out, err2 = json.Marshal(converted)
	}
	if err2 != nil {
		return values.Undefined{}, fmt.Errorf("JSON.stringify: %w", err2)
	}
	if converted == nil && v.Type() == "undefined" {
		return values.Undefined{}, nil
	}
	return values.String(out), nil
}

func jsonParse(args []values.Value) (values.Value, error) {
	text := strArg(args, 0)
	var decoded any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return values.Undefined{}, fmt.Errorf("JSON.parse: %w", err)
	}
	return anyToValue(decoded), nil
}

// valueToAny converts a sandbox Value into a plain Go value
// encoding/json can marshal, the bridge JSON.stringify needs since this
// package has no direct access to the sandbox's own serializer.
func valueToAny(v values.Value) (any, error) {
	switch val := v.(type) {
	case values.Undefined:
		return nil, nil
	case values.Null:
		return nil, nil
	case values.Boolean:
		return bool(val), nil
	case values.Number:
		return float64(val), nil
	case values.String:
		return string(val), nil
	case *values.Array:
		out := make([]any, val.Len())
		for i, elem := range val.Values() {
			converted, err := valueToAny(elem)
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	case *values.Object:
		out := make(map[string]any, val.Len())
		for _, key := range val.Keys() {
			elem, _ := val.Get(key)
			converted, err := valueToAny(elem)
			if err != nil {
				return nil, err
			}
			out[key] = converted
		}
		return out, nil
	default:
		return nil, fmt.Errorf("JSON.stringify: value of type %s is not serializable", v.Type())
	}
}

// anyToValue is valueToAny's inverse, used by JSON.parse.
func anyToValue(v any) values.Value {
	switch val := v.(type) {
	case nil:
		return values.Null{}
	case bool:
		return values.Boolean(val)
	case float64:
		return values.Number(val)
	case string:
		return values.String(val)
	case []any:
		elems := make([]values.Value, len(val))
		for i, e := range val {
			elems[i] = anyToValue(e)
		}
		return values.NewArray(elems...)
	case map[string]any:
		obj := values.NewObject()
		for k, e := range val {
			obj.Set(k, anyToValue(e))
		}
		return obj
	default:
		return values.Undefined{}
	}
}
