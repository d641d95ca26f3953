package pool

import (
	"context"
	"time"
)

// Option is a function type that can be used to configure the `Pool` struct.
type Option func(*Pool)

// WithMaxRetries is an option that sets the retry budget: the number of consecutive
// failed attempts after which RequestFailed stops granting retries. The budget
// resets whenever a request succeeds.
func WithMaxRetries(n int) Option {
	return func(p *Pool) {
		p.maxRetries = n
	}
}

// WithDeadTimeout is an option that sets the base resurrection deadline for dead
// nodes. The effective deadline doubles with each accumulated failure, capped.
func WithDeadTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.deadTimeout = d
		}
	}
}

// WithRingAffinity is an option that routes requests carrying a routing key (see
// ContextWithRoutingKey) to the consistent-hash owner of that key while it stays
// healthy. Requests without a key fall back to round-robin.
func WithRingAffinity() Option {
	return func(p *Pool) {
		p.ringAffinity = true
	}
}

type routingKeyCtx struct{}

// ContextWithRoutingKey attaches a routing key for ring-affinity selection.
func ContextWithRoutingKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, routingKeyCtx{}, key)
}

// routingKeyFrom extracts the routing key, if any.
func routingKeyFrom(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(routingKeyCtx{}).(string)

	return key, ok && key != ""
}
