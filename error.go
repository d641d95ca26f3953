package failover

import (
	"errors"
	"fmt"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/failover/internal/sentinel"
)

// ErrorKind tags a classified error with the failure class retry logic cares about.
type ErrorKind int

// Error kind enumeration.
const (
	// KindTransport marks a connection-level failure: network error, timeout,
	// malformed response. Retryable at the pool's discretion.
	KindTransport ErrorKind = iota
	// KindNode marks a node-reported application error, e.g. a non-ignored error
	// status code. Retryable at the pool's discretion.
	KindNode
	// KindNoNodes marks pool exhaustion. Always terminal, always logged critical.
	KindNoNodes
	// KindInternal marks a caller or configuration error: a malformed descriptor,
	// an unregistered serializer. Never retried; the node is not at fault.
	KindInternal
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindNode:
		return "node"
	case KindNoNodes:
		return "no_nodes"
	case KindInternal:
		return "internal"
	}

	return "unknown"
}

// Error is the single classified error shape every failure is normalized into before
// any retry decision is made. It carries the offending request as context, the
// node-reported status and raw body when one exists, and the wrapped cause.
type Error struct {
	Kind       ErrorKind
	Request    *Request
	StatusCode int
	Body       []byte // raw response body; stripped by Redacted before logging
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	desc := "request failed"
	if e.Request != nil {
		desc = fmt.Sprintf("%s %s failed", e.Request.Method, e.Request.Path)
	}

	if e.StatusCode != 0 {
		desc = fmt.Sprintf("%s: status %d", desc, e.StatusCode)
	}

	if e.Err != nil {
		return fmt.Sprintf("%s [%s]: %v", desc, e.Kind, e.Err)
	}

	return fmt.Sprintf("%s [%s]", desc, e.Kind)
}

// Unwrap exposes the cause so errors.Is reaches the sentinels underneath.
func (e *Error) Unwrap() error { return e.Err }

// Redacted returns a copy with the raw response body stripped. Applied uniformly at
// the log boundary so potentially large or sensitive payloads never reach the sink.
func (e *Error) Redacted() *Error {
	if e == nil {
		return nil
	}

	cp := *e
	cp.Body = nil

	return &cp
}

// NewTransportError classifies a connection-level failure.
func NewTransportError(req *Request, cause error) *Error {
	return &Error{Kind: KindTransport, Request: req, Err: cause}
}

// NewNodeError classifies a node-reported error status, capturing the raw body.
func NewNodeError(req *Request, statusCode int, body []byte) *Error {
	return &Error{
		Kind:       KindNode,
		Request:    req,
		StatusCode: statusCode,
		Body:       body,
		Err:        ewrap.Newf("node returned status %d", statusCode),
	}
}

// NewInternalError classifies a caller or configuration failure.
func NewInternalError(req *Request, cause error) *Error {
	return &Error{Kind: KindInternal, Request: req, Err: cause}
}

// NewNoNodesError classifies a pool-selection failure.
func NewNoNodesError(req *Request, cause error) *Error {
	if cause == nil {
		cause = sentinel.ErrNoNodesAvailable
	}

	return &Error{Kind: KindNoNodes, Request: req, Err: cause}
}

// Classify normalizes any failure into an *Error, attaching the request as context.
// Already-classified errors pass through with the request filled in when missing.
func Classify(err error, req *Request) *Error {
	var classified *Error
	if errors.As(err, &classified) {
		if classified.Request == nil {
			cp := *classified
			cp.Request = req

			return &cp
		}

		return classified
	}

	if errors.Is(err, sentinel.ErrNoNodesAvailable) {
		return NewNoNodesError(req, err)
	}

	if errors.Is(err, sentinel.ErrMissingPath) ||
		errors.Is(err, sentinel.ErrSerializerNotFound) ||
		errors.Is(err, sentinel.ErrParamCannotBeEmpty) {
		return NewInternalError(req, err)
	}

	return NewTransportError(req, err)
}
