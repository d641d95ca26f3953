package failover

import "net/http"

// Response is the outcome of a settled request: the node's status code, raw body,
// and headers. The body is fully read before the response is returned; decoding is
// left to the caller (the serializer registry can be reused for that).
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}
