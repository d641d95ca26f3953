package failover

import (
	"context"
	"fmt"
	"time"

	"github.com/hyp3rd/failover/internal/sentinel"
)

// Transport drives the retry loop for one logical request and resolves it to a final
// success or final failure. It holds no cross-request mutable state: independent
// invocations interleave freely and all health bookkeeping lives in the pool.
type Transport struct {
	pool    ConnectionPool
	logger  Logger
	workers *WorkerPool
}

// New creates a transport over the given connection pool.
func New(pool ConnectionPool, options ...Option) (*Transport, error) {
	if pool == nil {
		return nil, sentinel.ErrNilPool
	}

	t := &Transport{
		pool:   pool,
		logger: nopLogger{},
	}

	// Apply options
	for _, option := range options {
		option(t)
	}

	return t, nil
}

// Perform delivers one logical request, failing over to another connection whenever
// the pool declares a failed attempt retryable. The transport never counts attempts;
// the retry budget belongs to the pool. The descriptor is never mutated.
func (t *Transport) Perform(ctx context.Context, req *Request) (*Response, error) {
	tidied := req.tidy()

	for {
		conn, err := t.pool.Next(ctx)
		if err != nil {
			// Selection failed before any attempt was made: no connection to trace,
			// and the failure always surfaces as pool exhaustion.
			classified := Classify(err, tidied)
			if classified.Kind != KindNoNodes {
				classified = NewNoNodesError(tidied, err)
			}

			return nil, t.settleFailure(nil, classified)
		}

		begin := time.Now()

		resp, err := conn.Perform(ctx, tidied)

		// Exactly once per attempt, before any outcome-specific handling.
		t.logger.TraceRequest(conn, tidied)

		if err != nil {
			classified := Classify(err, tidied)

			if !t.pool.RequestFailed(conn, classified) {
				return nil, t.settleFailure(conn, classified)
			}

			t.logger.Debug(fmt.Sprintf("connection %s failed: %v", conn.ID(), classified.Redacted()))
			t.logger.Info("retrying request on a new connection")

			continue
		}

		t.pool.RequestOK(conn)
		t.logger.TraceResponse(conn, resp.StatusCode, resp.Body, time.Since(begin))

		return resp, nil
	}
}

// settleFailure emits the terminal-failure events and hands the classified error to
// the caller. conn is the connection at the point of final rejection, nil when the
// rejection came from pool selection. The logged copy is always redacted; the caller
// still receives the full error context.
func (t *Transport) settleFailure(conn Connection, classified *Error) error {
	redacted := classified.Redacted()

	if conn != nil {
		t.logger.TraceRequest(conn, classified.Request)
		t.logger.TraceError(conn, redacted)
	}

	if classified.Kind == KindNoNodes {
		t.logger.Critical(redacted)
	} else {
		t.logger.Error(redacted)
	}

	return classified
}
