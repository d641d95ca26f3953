package failover

import (
	"context"
	"time"
)

// Performer is the service interface for the transport.
// It enables middleware to be added to the service.
type Performer interface {
	// Perform delivers one logical request and resolves to a final response or a
	// classified error once the retry loop settles.
	Perform(ctx context.Context, req *Request) (*Response, error)
}

// Middleware describes a transport middleware.
type Middleware func(Performer) Performer

// Chain wraps a Performer with the given middlewares, outermost first.
func Chain(p Performer, middlewares ...Middleware) Performer {
	for i := len(middlewares) - 1; i >= 0; i-- {
		p = middlewares[i](p)
	}

	return p
}

// Connection is an opaque handle to one cluster node, capable of executing a request
// and returning a response or failing with a classified error. Connections are owned
// by the pool; the transport borrows one reference per attempt and never caches it.
type Connection interface {
	// Perform executes one attempt of the request against the node.
	Perform(ctx context.Context, req *Request) (*Response, error)
	// ID returns a stable human-readable identifier used only for logging.
	ID() string
}

// ConnectionPool selects connections, tracks their health, and owns the retry budget.
type ConnectionPool interface {
	// Next selects a healthy connection or fails if none is available.
	Next(ctx context.Context) (Connection, error)
	// RequestOK notifies the pool that the connection served a request successfully,
	// so it can restore or boost the connection's health weighting.
	RequestOK(conn Connection)
	// RequestFailed notifies the pool that the connection failed and returns whether
	// the caller should retry on another connection (true) or propagate the error
	// (false). It may mark the connection unhealthy as a side effect.
	RequestFailed(conn Connection, err error) bool
}

// Logger receives the transport's trace and severity events. All methods are
// fire-and-forget; the transport never consumes a return value. The conn argument
// of the trace methods may be nil when no connection was ever obtained.
type Logger interface {
	// TraceRequest documents one attempt of a request on a connection. It is emitted
	// exactly once per attempt, regardless of the attempt's outcome.
	TraceRequest(conn Connection, req *Request)
	// TraceResponse documents a successful attempt with its elapsed wall-clock time.
	TraceResponse(conn Connection, statusCode int, body []byte, elapsed time.Duration)
	// TraceError documents a terminal failure on the connection it rejected with.
	TraceError(conn Connection, err error)
	Debug(msg string)
	Info(msg string)
	Error(err error)
	Critical(err error)
}

// nopLogger discards all events. It is the default sink when no logger is configured.
type nopLogger struct{}

func (nopLogger) TraceRequest(Connection, *Request)                      {}
func (nopLogger) TraceResponse(Connection, int, []byte, time.Duration)   {}
func (nopLogger) TraceError(Connection, error)                           {}
func (nopLogger) Debug(string)                                           {}
func (nopLogger) Info(string)                                            {}
func (nopLogger) Error(error)                                            {}
func (nopLogger) Critical(error)                                         {}
