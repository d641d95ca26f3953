package middleware

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hyp3rd/failover"
	"github.com/hyp3rd/failover/internal/telemetry/attrs"
)

// OTelTracingMiddleware wraps failover.Performer with OpenTelemetry spans.
type OTelTracingMiddleware struct {
	next   failover.Performer
	tracer trace.Tracer
	// static attributes applied to all spans
	commonAttrs []attribute.KeyValue
}

// OTelTracingOption allows configuring the tracing middleware.
type OTelTracingOption func(*OTelTracingMiddleware)

// WithCommonAttributes sets attributes applied to all spans.
func WithCommonAttributes(attributes ...attribute.KeyValue) OTelTracingOption {
	return func(m *OTelTracingMiddleware) { m.commonAttrs = append(m.commonAttrs, attributes...) }
}

// NewOTelTracingMiddleware creates a tracing middleware.
func NewOTelTracingMiddleware(next failover.Performer, tracer trace.Tracer, opts ...OTelTracingOption) failover.Performer {
	mw := &OTelTracingMiddleware{next: next, tracer: tracer}
	for _, o := range opts {
		o(mw)
	}

	return mw
}

// Perform implements Performer.Perform with tracing. The span covers the whole
// retry loop; individual attempts stay visible through the transport's logger.
func (mw OTelTracingMiddleware) Perform(ctx context.Context, req *failover.Request) (*failover.Response, error) {
	ctx, span := mw.startSpan(
		ctx, "failover.Perform",
		attribute.String(attrs.AttrMethod, req.Method),
		attribute.String(attrs.AttrPath, req.Path))
	defer span.End()

	resp, err := mw.next.Perform(ctx, req)
	if err != nil {
		span.RecordError(err)

		var classified *failover.Error
		if errors.As(err, &classified) {
			span.SetAttributes(attribute.String(attrs.AttrErrorKind, classified.Kind.String()))
		}

		return resp, err
	}

	span.SetAttributes(
		attribute.Int(attrs.AttrStatusCode, resp.StatusCode),
		attribute.Int(attrs.AttrBodyLength, len(resp.Body)))

	return resp, nil
}

// startSpan starts a span merging common attributes with per-call ones.
func (mw OTelTracingMiddleware) startSpan(ctx context.Context, name string, kv ...attribute.KeyValue) (context.Context, trace.Span) {
	all := make([]attribute.KeyValue, 0, len(mw.commonAttrs)+len(kv))
	all = append(all, mw.commonAttrs...)
	all = append(all, kv...)

	return mw.tracer.Start(ctx, name, trace.WithAttributes(all...))
}
