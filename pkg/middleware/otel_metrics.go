package middleware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/hyp3rd/failover"
	"github.com/hyp3rd/failover/internal/telemetry/attrs"
)

// OTelMetricsMiddleware emits OpenTelemetry metrics for settled requests.
type OTelMetricsMiddleware struct {
	next  failover.Performer
	meter metric.Meter

	// instruments
	calls     metric.Int64Counter
	failures  metric.Int64Counter
	durations metric.Float64Histogram
}

// NewOTelMetricsMiddleware constructs a metrics middleware using the provided meter.
func NewOTelMetricsMiddleware(next failover.Performer, meter metric.Meter) (failover.Performer, error) {
	calls, err := meter.Int64Counter("failover.requests")
	if err != nil {
		return nil, fmt.Errorf("create counter: %w", err)
	}

	failures, err := meter.Int64Counter("failover.failures")
	if err != nil {
		return nil, fmt.Errorf("create counter: %w", err)
	}

	durations, err := meter.Float64Histogram("failover.duration.ms")
	if err != nil {
		return nil, fmt.Errorf("create histogram: %w", err)
	}

	return &OTelMetricsMiddleware{next: next, meter: meter, calls: calls, failures: failures, durations: durations}, nil
}

// Perform implements Performer.Perform with metrics.
func (mw *OTelMetricsMiddleware) Perform(ctx context.Context, req *failover.Request) (*failover.Response, error) {
	start := time.Now()

	resp, err := mw.next.Perform(ctx, req)

	base := []attribute.KeyValue{
		attribute.String(attrs.AttrMethod, req.Method),
		attribute.String(attrs.AttrPath, req.Path),
	}

	mw.calls.Add(ctx, 1, metric.WithAttributes(base...))
	mw.durations.Record(ctx, float64(time.Since(start).Milliseconds()), metric.WithAttributes(base...))

	if err != nil {
		kind := failover.KindTransport.String()

		var classified *failover.Error
		if errors.As(err, &classified) {
			kind = classified.Kind.String()
		}

		mw.failures.Add(ctx, 1, metric.WithAttributes(append(base, attribute.String(attrs.AttrErrorKind, kind))...))
	}

	return resp, err
}
