package stats

import (
	"time"

	"github.com/hyp3rd/failover"
)

// LoggerHook tees the transport's log events into a LatencyCollector before
// forwarding them to the wrapped logger. Attempt latency comes from the
// trace-response event; retries from the retry announcement, the only info
// event the transport emits.
type LoggerHook struct {
	next      failover.Logger
	collector *LatencyCollector
}

// NewLoggerHook wraps the logger with collection into collector.
func NewLoggerHook(next failover.Logger, collector *LatencyCollector) *LoggerHook {
	return &LoggerHook{next: next, collector: collector}
}

// TraceRequest forwards the event.
func (h *LoggerHook) TraceRequest(conn failover.Connection, req *failover.Request) {
	h.next.TraceRequest(conn, req)
}

// TraceResponse records the attempt latency and forwards the event.
func (h *LoggerHook) TraceResponse(conn failover.Connection, statusCode int, body []byte, elapsed time.Duration) {
	h.collector.Observe(OpAttempt, elapsed)
	h.next.TraceResponse(conn, statusCode, body, elapsed)
}

// TraceError forwards the event.
func (h *LoggerHook) TraceError(conn failover.Connection, err error) {
	h.next.TraceError(conn, err)
}

// Debug forwards the line.
func (h *LoggerHook) Debug(msg string) { h.next.Debug(msg) }

// Info counts a retry and forwards the line.
func (h *LoggerHook) Info(msg string) {
	h.collector.IncrRetries()
	h.next.Info(msg)
}

// Error forwards the event.
func (h *LoggerHook) Error(err error) { h.next.Error(err) }

// Critical forwards the event.
func (h *LoggerHook) Critical(err error) { h.next.Critical(err) }
