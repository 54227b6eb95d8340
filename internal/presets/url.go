package presets

import (
	"context"
	"net/url"

	"github.com/samlaycock/nookjs/internal/evaluator"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// registerURL exposes a classless `URL` constructor wrapping net/url.Parse,
// with the accessor properties (href, protocol, host, pathname, search,
// hash, ...) surfaced as zero-argument methods rather than live getters,
// the same simplification registerDate uses for the same reason: this
// value model has no getter/setter property slot, only plain data and
// callable methods.
func registerURL(g *evaluator.Globals) {
	g.RegisterValue("URL", &runtime.HostFunction{Name: "URL", Fn: urlConstructor})
}

func urlConstructor(_ context.Context, this values.Value, args []values.Value) (values.Value, error) {
	raw := strArg(args, 0)
	if len(args) > 1 {
		base, err := url.Parse(strArg(args, 1))
		if err == nil {
			if ref, err2 := url.Parse(raw); err2 == nil {
				u := base.ResolveReference(ref)
				return buildURLObject(this, u), nil
			}
		}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return values.Undefined{}, err
	}
	return buildURLObject(this, u), nil
}

func buildURLObject(this values.Value, u *url.URL) *values.Object {
	obj, ok := this.(*values.Object)
	if !ok {
		obj = values.NewObject()
	}
	ret := func(s string) runtime.HostFunc {
		return hostFn(func([]values.Value) (values.Value, error) { return values.String(s), nil })
	}
	obj.Set("href", &runtime.HostFunction{Name: "href", Fn: ret(u.String())})
	obj.Set("protocol", &runtime.HostFunction{Name: "protocol", Fn: ret(u.Scheme + ":")})
	obj.Set("host", &runtime.HostFunction{Name: "host", Fn: ret(u.Host)})
	obj.Set("hostname", &runtime.HostFunction{Name: "hostname", Fn: ret(u.Hostname())})
	obj.Set("port", &runtime.HostFunction{Name: "port", Fn: ret(u.Port())})
	obj.Set("pathname", &runtime.HostFunction{Name: "pathname", Fn: ret(u.Path)})
	obj.Set("search", &runtime.HostFunction{Name: "search", Fn: ret(searchString(u))})
	obj.Set("hash", &runtime.HostFunction{Name: "hash", Fn: ret(fragmentString(u))})
	obj.Set("origin", &runtime.HostFunction{Name: "origin", Fn: ret(u.Scheme + "://" + u.Host)})
	obj.Set("toString", &runtime.HostFunction{Name: "toString", Fn: ret(u.String())})
	return obj
}

func searchString(u *url.URL) string {
	if u.RawQuery == "" {
		return ""
	}
	return "?" + u.RawQuery
}

func fragmentString(u *url.URL) string {
	if u.Fragment == "" {
		return ""
	}
	return "#" + u.Fragment
}
