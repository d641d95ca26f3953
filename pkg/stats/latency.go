// Package stats provides lightweight statistics collection for the failover
// transport: lock-free fixed-bucket latency histograms and attempt counters,
// exposed for the stats middleware and the management endpoints.
package stats

import (
	"sync/atomic"
	"time"
)

// Op represents a transport operation type observed by the collector.
type Op int

// Observed operation enumeration.
const (
	// OpRequest covers one whole logical request, retries included.
	OpRequest Op = iota
	// OpAttempt covers one attempt against one connection.
	OpAttempt
	opCount
)

func (o Op) String() string {
	switch o {
	case OpRequest:
		return "request"
	case OpAttempt:
		return "attempt"
	}

	return "unknown"
}

// latencyBuckets defines fixed bucket upper bounds in nanoseconds (roughly exponential).
// Kept as a package-level var for zero-allocation hot path; suppress global lint.
//
//nolint:gochecknoglobals,mnd // bucket constants intentionally centralized
var latencyBuckets = [...]int64{
	int64(500 * time.Microsecond),
	int64(1 * time.Millisecond),
	int64(2 * time.Millisecond),
	int64(5 * time.Millisecond),
	int64(10 * time.Millisecond),
	int64(25 * time.Millisecond),
	int64(50 * time.Millisecond),
	int64(100 * time.Millisecond),
	int64(250 * time.Millisecond),
	int64(500 * time.Millisecond),
	int64(1 * time.Second),
	int64(2 * time.Second),
	int64(5 * time.Second),
	int64(10 * time.Second),
}

// LatencyCollector collects latency histograms (fixed buckets) plus outcome counters
// for transport operations. It's intentionally lightweight: lock free, atomic per bucket.
type LatencyCollector struct {
	// buckets[op][bucket]
	buckets [opCount][len(latencyBuckets) + 1]atomic.Uint64 // last bucket is +Inf

	requests  atomic.Uint64
	failures  atomic.Uint64
	retries   atomic.Uint64
}

// NewLatencyCollector creates an empty collector.
func NewLatencyCollector() *LatencyCollector {
	return &LatencyCollector{}
}

// Observe records a duration for the given operation.
func (c *LatencyCollector) Observe(op Op, d time.Duration) {
	if op < 0 || op >= opCount {
		return
	}

	ns := d.Nanoseconds()
	for i, ub := range latencyBuckets {
		if ns <= ub {
			c.buckets[op][i].Add(1)

			return
		}
	}
	// +Inf bucket
	c.buckets[op][len(latencyBuckets)].Add(1)
}

// IncrRequests counts one settled logical request.
func (c *LatencyCollector) IncrRequests() { c.requests.Add(1) }

// IncrFailures counts one terminal failure.
func (c *LatencyCollector) IncrFailures() { c.failures.Add(1) }

// IncrRetries counts one failover retry.
func (c *LatencyCollector) IncrRetries() { c.retries.Add(1) }

// Totals returns the outcome counters.
func (c *LatencyCollector) Totals() (requests, failures, retries uint64) {
	return c.requests.Load(), c.failures.Load(), c.retries.Load()
}

// Snapshot returns a copy of bucket counts for exposure (op -> buckets slice).
func (c *LatencyCollector) Snapshot() map[string][]uint64 {
	out := map[string][]uint64{
		OpRequest.String(): make([]uint64, len(latencyBuckets)+1),
		OpAttempt.String(): make([]uint64, len(latencyBuckets)+1),
	}
	for b := range out[OpRequest.String()] {
		out[OpRequest.String()][b] = c.buckets[OpRequest][b].Load()
		out[OpAttempt.String()][b] = c.buckets[OpAttempt][b].Load()
	}

	return out
}

// BucketBounds returns the bucket upper bounds in nanoseconds, +Inf excluded.
func BucketBounds() []int64 {
	out := make([]int64, len(latencyBuckets))
	copy(out, latencyBuckets[:])

	return out
}
