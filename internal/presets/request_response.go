package presets

import (
	"context"

	"github.com/samlaycock/nookjs/internal/evaluator"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// registerRequestResponse exposes classless `Request`/`Response`
// constructors as plain data carriers (url/method/headers/status/ok,
// plus text()/json() readers over a body string already in hand) since
// actual network transport is fetch's job, stubbed out in fetch.go.
func registerRequestResponse(g *evaluator.Globals) {
	g.RegisterValue("Request", &runtime.HostFunction{Name: "Request", Fn: requestConstructor})
	g.RegisterValue("Response", &runtime.HostFunction{Name: "Response", Fn: responseConstructor})
}

func requestConstructor(_ context.Context, this values.Value, args []values.Value) (values.Value, error) {
	obj, ok := this.(*values.Object)
	if !ok {
		obj = values.NewObject()
	}
	url := strArg(args, 0)
	method := "GET"
	var headers values.Value = values.Undefined{}
	body := ""
	if init, ok := argOr(args, 1, values.Undefined{}).(*values.Object); ok {
		if m, ok := init.Get("method"); ok {
			method = m.String()
		}
		if h, ok := init.Get("headers"); ok {
			headers = h
		}
		if b, ok := init.Get("body"); ok {
			body = b.String()
		}
	}
	obj.Set("url", values.String(url))
	obj.Set("method", values.String(method))
	obj.Set("headers", headers)
	obj.Set("text", bodyReader(body))
	obj.Set("json", bodyJSONReader(body))
	return obj, nil
}

func responseConstructor(_ context.Context, this values.Value, args []values.Value) (values.Value, error) {
	obj, ok := this.(*values.Object)
	if !ok {
		obj = values.NewObject()
	}
	body := ""
	if b, ok := argOr(args, 0, values.Undefined{}).(values.String); ok {
		body = string(b)
	}
	status := 200
	var headers values.Value = values.Undefined{}
	if init, ok := argOr(args, 1, values.Undefined{}).(*values.Object); ok {
		if s, ok := init.Get("status"); ok {
			if n, ok := s.(values.Number); ok {
				status = int(n)
			}
		}
		if h, ok := init.Get("headers"); ok {
			headers = h
		}
	}
	obj.Set("status", values.Number(float64(status)))
	obj.Set("ok", values.Boolean(status >= 200 && status < 300))
	obj.Set("headers", headers)
	obj.Set("text", bodyReader(body))
	obj.Set("json", bodyJSONReader(body))
	return obj, nil
}

func bodyReader(body string) *runtime.HostFunction {
	return &runtime.HostFunction{Name: "text", Fn: hostFn(func([]values.Value) (values.Value, error) {
		return values.String(body), nil
	})}
}

func bodyJSONReader(body string) *runtime.HostFunction {
	return &runtime.HostFunction{Name: "json", Fn: hostFn(func([]values.Value) (values.Value, error) {
		return jsonParse([]values.Value{values.String(body)})
	})}
}
