// Package logging provides Logger implementations for the failover transport.
// The zerolog adapter maps the transport's trace events onto structured
// trace-level records and the severity events onto the corresponding levels.
package logging

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/hyp3rd/failover"
)

// Zerolog adapts a zerolog.Logger to the failover.Logger contract.
type Zerolog struct {
	log zerolog.Logger
}

// NewZerolog creates the adapter.
func NewZerolog(log zerolog.Logger) *Zerolog {
	return &Zerolog{log: log}
}

// TraceRequest documents one attempt of a request on a connection.
func (z *Zerolog) TraceRequest(conn failover.Connection, req *failover.Request) {
	z.log.Trace().
		Str("conn", connID(conn)).
		Str("method", req.Method).
		Str("path", req.Path).
		Str("params", req.Params.Encode()).
		Str("serializer", req.Serializer).
		Msg("request")
}

// TraceResponse documents a successful attempt with its elapsed wall-clock time.
func (z *Zerolog) TraceResponse(conn failover.Connection, statusCode int, body []byte, elapsed time.Duration) {
	z.log.Trace().
		Str("conn", connID(conn)).
		Int("status", statusCode).
		Int("body_len", len(body)).
		Dur("elapsed", elapsed).
		Msg("response")
}

// TraceError documents a terminal failure on the connection it rejected with.
func (z *Zerolog) TraceError(conn failover.Connection, err error) {
	z.log.Trace().
		Str("conn", connID(conn)).
		Err(err).
		Msg("request failed")
}

// Debug logs a debug line.
func (z *Zerolog) Debug(msg string) { z.log.Debug().Msg(msg) }

// Info logs an informational line.
func (z *Zerolog) Info(msg string) { z.log.Info().Msg(msg) }

// Error logs a terminal failure at error level.
func (z *Zerolog) Error(err error) { z.log.Error().Err(err).Msg("request failed") }

// Critical logs pool exhaustion. zerolog has no critical level; fatal severity is
// used without the os.Exit behavior of the Fatal() helper.
func (z *Zerolog) Critical(err error) {
	z.log.WithLevel(zerolog.FatalLevel).Err(err).Msg("no nodes available")
}

func connID(conn failover.Connection) string {
	if conn == nil {
		return ""
	}

	return conn.ID()
}
