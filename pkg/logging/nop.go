package logging

import (
	"time"

	"github.com/hyp3rd/failover"
)

// Nop is a Logger that discards every event. Handy for tests and for callers that
// want the transport's default silence made explicit.
type Nop struct{}

// TraceRequest discards the event.
func (Nop) TraceRequest(failover.Connection, *failover.Request) {}

// TraceResponse discards the event.
func (Nop) TraceResponse(failover.Connection, int, []byte, time.Duration) {}

// TraceError discards the event.
func (Nop) TraceError(failover.Connection, error) {}

// Debug discards the line.
func (Nop) Debug(string) {}

// Info discards the line.
func (Nop) Info(string) {}

// Error discards the event.
func (Nop) Error(error) {}

// Critical discards the event.
func (Nop) Critical(error) {}
