package failover

import (
	"context"
	"sync"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/failover/internal/sentinel"
)

// Future is the eventual result of a request delivered with Go. It settles exactly
// once, with either a response or a classified error, and exposes no cancellation
// primitive: once the retry loop is running it converges to a terminal outcome on
// its own. A caller may stop waiting early, but the in-flight attempt is not
// interrupted.
type Future struct {
	done chan struct{}
	once sync.Once
	resp *Response
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// settle resolves the future. Later calls are no-ops.
func (f *Future) settle(resp *Response, err error) {
	f.once.Do(func() {
		f.resp = resp
		f.err = err

		close(f.done)
	})
}

// Done returns a channel closed when the future settles. Useful in select loops.
func (f *Future) Done() <-chan struct{} { return f.done }

// Wait blocks until the future settles or the wait context ends. A context failure
// abandons the wait, not the request: the retry loop keeps running to its terminal
// outcome and the result stays available for a later Wait.
func (f *Future) Wait(ctx context.Context) (*Response, error) {
	select {
	case <-ctx.Done():
		return nil, ewrap.Wrap(sentinel.ErrTimeoutOrCanceled, ctx.Err().Error())
	case <-f.done:
		return f.resp, f.err
	}
}

// Settled reports whether the future already holds its outcome.
func (f *Future) Settled() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Go delivers the request asynchronously, returning a future that settles once the
// retry loop reaches a terminal outcome. The context is handed to the collaborators
// exactly as in Perform. With WithAsyncWorkers configured, deliveries queue behind
// the worker pool instead of spawning a goroutine each.
func (t *Transport) Go(ctx context.Context, req *Request) *Future {
	fut := newFuture()

	deliver := func() error {
		resp, err := t.Perform(ctx, req)
		fut.settle(resp, err)

		return err
	}

	if t.workers != nil {
		t.workers.Enqueue(deliver)

		return fut
	}

	go func() {
		_ = deliver()
	}()

	return fut
}

// Close drains the async worker pool when one is configured. Synchronous use needs
// no Close.
func (t *Transport) Close() {
	if t.workers != nil {
		t.workers.Shutdown()
	}
}
