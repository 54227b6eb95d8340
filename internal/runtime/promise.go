package runtime

import "context"

// PromiseState records a Promise's settlement.
type PromiseState int

const (
	PromisePending PromiseState = iota
	PromiseFulfilled
	PromiseRejected
)

// Promise is the sandbox's representation of a pending asynchronous
// result: a host function that starts background work (a timer, an I/O
// call) returns one immediately, and `await` blocks the evaluating
// goroutine on its settlement. There is no microtask queue or
// then()-chaining here — cooperative execution in this interpreter means
// one Promise settles at a time, observed by the single `await` that is
// waiting on it, matching the "await blocks on settlement" design this
// sandbox uses in place of a real event loop.
type Promise struct {
	done   chan struct{}
	value  Value // fulfillment value, or the rejection reason
	state  PromiseState
}

// NewPromise returns a pending promise.
func NewPromise() *Promise {
	return &Promise{done: make(chan struct{})}
}

func (p *Promise) Type() string   { return "object" }
func (p *Promise) String() string { return "[object Promise]" }
func (p *Promise) Truthy() bool   { return true }

// Resolve settles the promise successfully. Resolving an already-settled
// promise is a no-op.
func (p *Promise) Resolve(v Value) {
	if p.state != PromisePending {
		return
	}
	p.value = v
	p.state = PromiseFulfilled
	close(p.done)
}

// Reject settles the promise with reason, the value `await` will throw
// into catchable sandbox code (a rejection is not a host-level error).
func (p *Promise) Reject(reason Value) {
	if p.state != PromisePending {
		return
	}
	p.value = reason
	p.state = PromiseRejected
	close(p.done)
}

// State reports the promise's current settlement.
func (p *Promise) State() PromiseState {
	return p.state
}

// Await blocks until the promise settles or ctx is done, whichever comes
// first. rejected reports whether the settlement value is a rejection
// reason (to be thrown) rather than a fulfillment value. A non-nil error
// means ctx ended first and is always a host-level cancellation, never a
// sandbox-catchable rejection.
func (p *Promise) Await(ctx context.Context) (v Value, rejected bool, err error) {
	select {
	case <-p.done:
		return p.value, p.state == PromiseRejected, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}
