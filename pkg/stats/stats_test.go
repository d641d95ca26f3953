package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyp3rd/failover/pkg/logging"
)

func TestLatencyCollector_Observe(t *testing.T) {
	collector := NewLatencyCollector()

	collector.Observe(OpRequest, 700*time.Microsecond) // second bucket
	collector.Observe(OpRequest, 3*time.Millisecond)   // fourth bucket
	collector.Observe(OpRequest, time.Minute)          // +Inf bucket

	snapshot := collector.Snapshot()
	buckets := snapshot[OpRequest.String()]
	require.Len(t, buckets, len(BucketBounds())+1)

	assert.Equal(t, uint64(1), buckets[1])
	assert.Equal(t, uint64(1), buckets[3])
	assert.Equal(t, uint64(1), buckets[len(buckets)-1])

	var total uint64
	for _, count := range buckets {
		total += count
	}

	assert.Equal(t, uint64(3), total)
}

func TestLatencyCollector_Counters(t *testing.T) {
	collector := NewLatencyCollector()

	collector.IncrRequests()
	collector.IncrRequests()
	collector.IncrFailures()
	collector.IncrRetries()

	requests, failures, retries := collector.Totals()
	assert.Equal(t, uint64(2), requests)
	assert.Equal(t, uint64(1), failures)
	assert.Equal(t, uint64(1), retries)
}

func TestLatencyCollector_Concurrent(t *testing.T) {
	collector := NewLatencyCollector()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for range 100 {
				collector.Observe(OpAttempt, time.Millisecond)
				collector.IncrRequests()
			}
		}()
	}

	wg.Wait()

	requests, _, _ := collector.Totals()
	assert.Equal(t, uint64(800), requests)

	var observed uint64
	for _, count := range collector.Snapshot()[OpAttempt.String()] {
		observed += count
	}

	assert.Equal(t, uint64(800), observed)
}

func TestLoggerHook(t *testing.T) {
	collector := NewLatencyCollector()
	hook := NewLoggerHook(logging.Nop{}, collector)

	hook.TraceResponse(nil, 200, nil, 2*time.Millisecond)
	hook.TraceResponse(nil, 200, nil, 4*time.Millisecond)
	hook.Info("retrying request on a new connection")

	_, _, retries := collector.Totals()
	assert.Equal(t, uint64(1), retries)

	var attempts uint64
	for _, count := range collector.Snapshot()[OpAttempt.String()] {
		attempts += count
	}

	assert.Equal(t, uint64(2), attempts)
}
