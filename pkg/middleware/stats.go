package middleware

import (
	"context"
	"time"

	"github.com/hyp3rd/failover"
	"github.com/hyp3rd/failover/pkg/stats"
)

// StatsCollectorMiddleware is a middleware that collects latency and outcome stats.
// It can and should re-use the same collector as the management HTTP server.
// Must implement the failover.Performer interface.
type StatsCollectorMiddleware struct {
	next      failover.Performer
	collector *stats.LatencyCollector
}

// NewStatsCollectorMiddleware returns a new StatsCollectorMiddleware.
func NewStatsCollectorMiddleware(next failover.Performer, collector *stats.LatencyCollector) failover.Performer {
	return &StatsCollectorMiddleware{next: next, collector: collector}
}

// Perform collects stats for the settled request.
func (mw StatsCollectorMiddleware) Perform(ctx context.Context, req *failover.Request) (*failover.Response, error) {
	start := time.Now()

	defer func() {
		mw.collector.Observe(stats.OpRequest, time.Since(start))
		mw.collector.IncrRequests()
	}()

	resp, err := mw.next.Perform(ctx, req)
	if err != nil {
		mw.collector.IncrFailures()
	}

	return resp, err
}
