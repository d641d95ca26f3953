package failover

import (
	"net/http"
	"net/url"
	"slices"
)

// Serializer mode names recognized by the default registry. The mode is carried on
// the request and passed through untouched to the connection.
const (
	// SerializerDefault encodes the body as a single JSON document.
	SerializerDefault = "default"
	// SerializerBulk encodes a slice body as newline-delimited JSON for batch endpoints.
	SerializerBulk = "bulk"
	// SerializerMsgpack encodes the body as msgpack.
	SerializerMsgpack = "msgpack"
	// SerializerCbor encodes the body as CBOR.
	SerializerCbor = "cbor"
)

// Request describes one logical operation against the cluster. It is constructed by
// the caller and never mutated by the transport; the transport works on a tidied
// copy with defaults filled in.
type Request struct {
	// Method is the operation verb. Defaults to GET.
	Method string
	// Path is the operation path, absolute within a node's base URL.
	Path string
	// Params holds the query parameters.
	Params url.Values
	// Body is the payload, encoded by the serializer named in Serializer.
	Body any
	// Ignore lists status codes that are not treated as node errors. Defaults to empty.
	Ignore []int
	// Serializer names the body encoding mode. Defaults to SerializerDefault.
	Serializer string
}

// Ignores reports whether the status code is on the request's ignore list.
func (r *Request) Ignores(statusCode int) bool {
	return slices.Contains(r.Ignore, statusCode)
}

// tidy returns a defaulted copy of the request. The original is left untouched so
// callers can reuse descriptors across invocations.
func (r *Request) tidy() *Request {
	cp := *r

	if cp.Method == "" {
		cp.Method = http.MethodGet
	}

	if cp.Params == nil {
		cp.Params = url.Values{}
	}

	if cp.Ignore == nil {
		cp.Ignore = []int{}
	}

	if cp.Serializer == "" {
		cp.Serializer = SerializerDefault
	}

	return &cp
}
