package presets

import (
	"context"

	"github.com/samlaycock/nookjs/internal/evaluator"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// registerFetch exposes a `fetch` global that always rejects. Real
// network access is deliberately out of reach of sandboxed code — an
// embedder wanting scripts to fetch something registers its own
// RegisterFunction/RegisterAsyncFunction against a host API it controls
// instead. Declaring fetch here (rather than leaving it undefined) lets
// WinterCG-shaped scripts reference the identifier and get a proper
// rejection instead of a ReferenceError, matching how a sandboxed runtime
// would report "not permitted" over "doesn't exist".
func registerFetch(g *evaluator.Globals) {
	g.RegisterValue("fetch", &runtime.HostFunction{Name: "fetch", Async: true, Fn: fetchStub})
}

func fetchStub(_ context.Context, _ values.Value, args []values.Value) (values.Value, error) {
	p := runtime.NewPromise()
	url := strArg(args, 0)
	msg := "fetch is not permitted in this sandbox"
	if url != "" {
		msg += ": " + url
	}
	reason := values.NewObject()
	reason.Set("name", values.String("SecurityError"))
	reason.Set("message", values.String(msg))
	p.Reject(reason)
	return p, nil
}
