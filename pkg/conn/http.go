// Package conn provides connection implementations for the failover transport.
// The HTTP connection speaks JSON (or one of the other registered serializer
// modes) against a node's base URL.
package conn

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/failover"
	"github.com/hyp3rd/failover/internal/constants"
	"github.com/hyp3rd/failover/internal/libs/serializer"
	"github.com/hyp3rd/failover/internal/sentinel"
)

// internal status code threshold for error classification.
const statusThreshold = 300

const (
	errMsgNewRequest = "new request"
	errMsgDoRequest  = "do request"
)

// HTTP executes request descriptors against one node over HTTP.
type HTTP struct {
	base     string // scheme://host[:port], no trailing slash
	client   *http.Client
	registry *serializer.Registry
}

// HTTPOption configures the HTTP connection.
type HTTPOption func(*HTTP)

// WithHTTPClient sets the underlying client, replacing the default timeout one.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(c *HTTP) {
		if client != nil {
			c.client = client
		}
	}
}

// WithTimeout sets the per-attempt timeout on the default client.
func WithTimeout(d time.Duration) HTTPOption {
	return func(c *HTTP) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithSerializerRegistry replaces the default serializer registry.
func WithSerializerRegistry(registry *serializer.Registry) HTTPOption {
	return func(c *HTTP) {
		if registry != nil {
			c.registry = registry
		}
	}
}

// NewHTTP creates an HTTP connection for the node at the given base URL.
func NewHTTP(baseURL string, opts ...HTTPOption) *HTTP {
	conn := &HTTP{
		base:     strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: constants.DefaultConnTimeout},
		registry: serializer.NewSerializerRegistry(),
	}
	for _, opt := range opts {
		opt(conn)
	}

	return conn
}

// ID returns the node base URL, the stable identifier used in logs.
func (c *HTTP) ID() string { return c.base }

// Perform executes one attempt of the request against the node. A status at or
// above the error threshold that is not on the request's ignore list comes back as
// a node-classified error carrying the status and raw body.
func (c *HTTP) Perform(ctx context.Context, req *failover.Request) (*failover.Response, error) {
	if req.Path == "" {
		return nil, failover.NewInternalError(req, sentinel.ErrMissingPath)
	}

	ser, err := c.registry.New(req.Serializer)
	if err != nil {
		return nil, failover.NewInternalError(req, err)
	}

	var payload io.Reader

	contentType := ""

	if req.Body != nil {
		data, merr := ser.Marshal(req.Body)
		if merr != nil {
			return nil, failover.NewInternalError(req, ewrap.Wrap(merr, "marshal body"))
		}

		payload = bytes.NewReader(data)
		contentType = ser.ContentType()
	}

	url := c.base + req.Path
	if encoded := req.Params.Encode(); encoded != "" {
		url += "?" + encoded
	}

	hreq, err := http.NewRequestWithContext(ctx, req.Method, url, payload)
	if err != nil {
		return nil, failover.NewTransportError(req, ewrap.Wrap(err, errMsgNewRequest))
	}

	if contentType != "" {
		hreq.Header.Set("Content-Type", contentType)
	}

	hreq.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(hreq)
	if err != nil {
		return nil, failover.NewTransportError(req, ewrap.Wrap(err, errMsgDoRequest))
	}

	defer func() {
		_ = resp.Body.Close() //nolint:errcheck // best-effort
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, failover.NewTransportError(req, ewrap.Wrap(err, "read body"))
	}

	if resp.StatusCode >= statusThreshold && !req.Ignores(resp.StatusCode) {
		return nil, failover.NewNodeError(req, resp.StatusCode, body)
	}

	return &failover.Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}
