package presets

import (
	"context"
	"sync"
	"time"

	"github.com/samlaycock/nookjs/internal/evaluator"
	"github.com/samlaycock/nookjs/internal/runtime"
	"github.com/samlaycock/nookjs/internal/values"
)

// timerRegistry hands out ids for in-flight setTimeout/setInterval calls
// so clearTimeout/clearInterval can cancel them. There is no event loop
// backing this sandbox: a fired timer calls back into the interpreter
// from its own goroutine via the
// Invoker captured at scheduling time, outside any Guard latch (even
// under strict evaluation isolation). Safe for the common case of scripts that
// don't themselves run concurrent Evaluate calls against the same
// Interpreter while timers are outstanding; an embedder issuing overlapping
// calls on one Interpreter while timers are pending can race.
type timerRegistry struct {
	mu      sync.Mutex
	nextID  float64
	cancels map[float64]func()
}

func newTimerRegistry() *timerRegistry {
	return &timerRegistry{cancels: make(map[float64]func())}
}

func (r *timerRegistry) register(cancel func()) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := r.nextID
	r.cancels[id] = cancel
	return id
}

func (r *timerRegistry) clear(id float64) {
	r.mu.Lock()
	cancel, ok := r.cancels[id]
	delete(r.cancels, id)
	r.mu.Unlock()
	if ok {
		cancel()
	}
}

func registerTimers(g *evaluator.Globals) {
	timers := newTimerRegistry()

	setTimeout := func(ctx context.Context, _ values.Value, args []values.Value) (values.Value, error) {
		fn := argOr(args, 0, values.Undefined{})
		delay := time.Duration(numArg(args, 1)) * time.Millisecond
		extra := extraArgs(args, 2)
		invoke, ok := runtime.InvokerFromContext(ctx)
		if !ok {
			return values.Number(0), nil
		}
		t := time.AfterFunc(delay, func() {
			_, _ = invoke(ctx, fn, values.Undefined{}, extra)
		})
		id := timers.register(func() { t.Stop() })
		return values.Number(id), nil
	}

	setInterval := func(ctx context.Context, _ values.Value, args []values.Value) (values.Value, error) {
		fn := argOr(args, 0, values.Undefined{})
		delay := time.Duration(numArg(args, 1)) * time.Millisecond
		if delay <= 0 {
			delay = time.Millisecond
		}
		extra := extraArgs(args, 2)
		invoke, ok := runtime.InvokerFromContext(ctx)
		if !ok {
			return values.Number(0), nil
		}
		ticker := time.NewTicker(delay)
		stop := make(chan struct{})
		go func() {
			for {
				select {
				case <-stop:
					ticker.Stop()
					return
				case <-ticker.C:
					if _, err := invoke(ctx, fn, values.Undefined{}, extra); err != nil {
						ticker.Stop()
						return
					}
				case <-ctx.Done():
					ticker.Stop()
					return
				}
			}
		}()
		id := timers.register(func() { close(stop) })
		return values.Number(id), nil
	}

	clear := hostFn(func(args []values.Value) (values.Value, error) {
		timers.clear(numArg(args, 0))
		return values.Undefined{}, nil
	})

	g.RegisterFunction("setTimeout", setTimeout)
	g.RegisterFunction("setInterval", setInterval)
	g.RegisterFunction("clearTimeout", clear)
	g.RegisterFunction("clearInterval", clear)
}

func extraArgs(args []values.Value, from int) []values.Value {
	if from >= len(args) {
		return nil
	}
	out := make([]values.Value, len(args)-from)
	copy(out, args[from:])
	return out
}
