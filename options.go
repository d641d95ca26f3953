package failover

// Option is a function type that can be used to configure the `Transport` struct.
type Option func(*Transport)

// WithLogger is an option that sets the logger field of the `Transport` struct.
// The logger receives the trace-request/trace-response/trace-error events emitted at
// every stage of an attempt, plus the debug/info retry lines and the terminal
// error/critical event. When not set, events are discarded.
func WithLogger(logger Logger) Option {
	return func(t *Transport) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithAsyncWorkers bounds the concurrency of asynchronous deliveries: Go enqueues
// into a pool of the given size instead of spawning a goroutine per request. Callers
// should Close the transport to drain the pool.
func WithAsyncWorkers(workers int) Option {
	return func(t *Transport) {
		if workers > 0 {
			t.workers = NewWorkerPool(workers)
		}
	}
}
