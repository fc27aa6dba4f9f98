// This file contains utility functions for business-level tracing in
// application services.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the default tracer name for business spans
const TracerName = "pricing-backend"

// Common attribute keys for price-ledger spans
const (
	SpanAttrEntityID   = "entity_id"
	SpanAttrEntityType = "entity_type"
	SpanAttrSource     = "source"
	SpanAttrPrice      = "price"
	SpanAttrSKU        = "sku"
)

// StartSpan starts a new span with the given name. The caller is
// responsible for calling span.End() when the operation completes.
func StartSpan(ctx context.Context, spanName string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer(TracerName)
	opts := []trace.SpanStartOption{
		trace.WithSpanKind(trace.SpanKindInternal),
	}
	if len(attrs) > 0 {
		opts = append(opts, trace.WithAttributes(attrs...))
	}
	return tracer.Start(ctx, spanName, opts...)
}

// StartServiceSpan starts a span for a service method, named
// {service}.{method} (e.g. "price_recorder.update").
func StartServiceSpan(ctx context.Context, service, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return StartSpan(ctx, fmt.Sprintf("%s.%s", service, method), attrs...)
}

// SetAttributes adds string attributes to a span from alternating
// key/value pairs. Odd trailing values are ignored.
func SetAttributes(span trace.Span, keyValues ...string) {
	if span == nil || len(keyValues) < 2 {
		return
	}
	attrs := make([]attribute.KeyValue, 0, len(keyValues)/2)
	for i := 0; i+1 < len(keyValues); i += 2 {
		attrs = append(attrs, attribute.String(keyValues[i], keyValues[i+1]))
	}
	span.SetAttributes(attrs...)
}

// RecordError records an error on the span and sets the span status to error
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// GetTraceID returns the trace ID from the current span in the context.
// Returns empty string if no span is present.
func GetTraceID(ctx context.Context) string {
	traceID := trace.SpanFromContext(ctx).SpanContext().TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}
