// Package sentinel provides standardized error definitions for the failover transport.
// This package centralizes all error types used across the transport components,
// ensuring consistent error handling and messaging throughout the module.
//
// The errors defined here cover various scenarios including:
// - Invalid configuration parameters (nil pool, empty addresses, bad retry budget)
// - Pool selection failures (no nodes available)
// - Request validation failures (missing method or path)
// - Component lookup errors (missing serializers)
//
// All errors are created using the ewrap package to provide enhanced error
// wrapping and context capabilities.
package sentinel

import (
	"github.com/hyp3rd/ewrap"
)

var (
	// ErrNoNodesAvailable is returned when the pool has no alive or resurrectable connection left.
	ErrNoNodesAvailable = ewrap.New("no nodes available")

	// ErrNilPool is returned when a nil connection pool is passed to the transport.
	ErrNilPool = ewrap.New("nil connection pool")

	// ErrNilConnection is returned when a nil connection is handed to the pool.
	ErrNilConnection = ewrap.New("nil connection")

	// ErrMissingPath is returned when a request descriptor carries an empty path.
	ErrMissingPath = ewrap.New("missing request path")

	// ErrEmptyAddress is returned when a node address is empty or not host:port shaped.
	ErrEmptyAddress = ewrap.New("empty node address")

	// ErrSerializerNotFound is returned when a serializer is not registered under the requested name.
	ErrSerializerNotFound = ewrap.New("serializer not found")

	// ErrParamCannotBeEmpty is returned when a parameter cannot be empty.
	ErrParamCannotBeEmpty = ewrap.New("param cannot be empty")

	// ErrInvalidMaxRetries is returned when a negative retry budget is configured.
	ErrInvalidMaxRetries = ewrap.New("max retries cannot be negative")

	// ErrBulkBodyShape is returned when the bulk serializer receives a body that is not a slice.
	ErrBulkBodyShape = ewrap.New("bulk body must be a slice")

	// ErrTimeoutOrCanceled is returned when a timeout or cancellation occurs.
	ErrTimeoutOrCanceled = ewrap.New("the operation timed out or was canceled")

	// ErrMgmtHTTPShutdownTimeout is returned when the management HTTP server fails to shutdown before context deadline.
	ErrMgmtHTTPShutdownTimeout = ewrap.New("management http shutdown timeout")
)
