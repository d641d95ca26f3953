// Package middleware provides decorators for the failover transport service.
// Each middleware wraps a failover.Performer and adds one cross-cutting concern:
// call logging, OpenTelemetry tracing and metrics, or latency stats collection.
package middleware

import (
	"context"
	"time"

	"github.com/hyp3rd/failover"
)

// Logger describes a logging interface allowing to implement different external, or custom logger.
// Tested with logrus, and Uber's Zap (high-performance), but should work with any other logger that matches the interface.
type Logger interface {
	Printf(format string, v ...any)
}

// LoggingMiddleware is a middleware that logs the time it takes to execute the wrapped performer.
// Must implement the failover.Performer interface.
type LoggingMiddleware struct {
	next   failover.Performer
	logger Logger
}

// NewLoggingMiddleware returns a new LoggingMiddleware.
func NewLoggingMiddleware(next failover.Performer, logger Logger) failover.Performer {
	return &LoggingMiddleware{next: next, logger: logger}
}

// Perform logs the time it takes the wrapped performer to settle the request.
func (mw LoggingMiddleware) Perform(ctx context.Context, req *failover.Request) (*failover.Response, error) {
	defer func(begin time.Time) {
		mw.logger.Printf("method Perform took: %s", time.Since(begin))
	}(time.Now())

	mw.logger.Printf("Perform method invoked with method: %s path: %s", req.Method, req.Path)

	resp, err := mw.next.Perform(ctx, req)
	if err != nil {
		mw.logger.Printf("Perform method failed: %v", err)
	}

	return resp, err
}
