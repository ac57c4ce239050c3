package trace

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// OTLPExporter exports sessions to an OTLP endpoint
type OTLPExporter struct {
	provider *sdktrace.TracerProvider
	tracer   oteltrace.Tracer
	enabled  bool
}

// NewOTLPExporter creates an OTLP exporter if OTEL_EXPORTER_OTLP_ENDPOINT is set
// Returns nil if endpoint not configured (disabled)
func NewOTLPExporter(ctx context.Context) (*OTLPExporter, error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		return nil, nil // Disabled
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(), // For local dev; make configurable
	)
	if err != nil {
		return nil, err
	}

	serviceName := os.Getenv("OTEL_SERVICE_NAME")
	if serviceName == "" {
		serviceName = "paneldeck"
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	return &OTLPExporter{
		provider: provider,
		tracer:   provider.Tracer("paneldeck/internal/trace"),
		enabled:  true,
	}, nil
}

// ExportSession exports a completed Session to OTLP
func (e *OTLPExporter) ExportSession(ctx context.Context, s *Session) error {
	if e == nil || !e.enabled {
		return nil
	}

	if s.Root == nil {
		return nil // Nothing to export
	}

	traceID, err := hexToTraceID(s.ID)
	if err != nil {
		return err // Invalid trace ID
	}

	traceCtx := oteltrace.ContextWithSpanContext(ctx, oteltrace.NewSpanContext(oteltrace.SpanContextConfig{
		TraceID:    traceID,
		TraceFlags: oteltrace.FlagsSampled,
	}))

	// The root span exports first so its SDK-side context can parent the
	// gesture and operation spans.
	_, rootSpan := e.tracer.Start(
		traceCtx,
		s.Root.Name,
		oteltrace.WithTimestamp(s.Root.StartTime),
	)
	rootSpan.SetAttributes(mapAttributes(s.Root)...)

	parentCtx := oteltrace.ContextWithSpanContext(traceCtx, rootSpan.SpanContext())
	for _, child := range s.Children {
		_, childSpan := e.tracer.Start(
			parentCtx,
			child.Name,
			oteltrace.WithTimestamp(child.StartTime),
		)
		childSpan.SetAttributes(mapAttributes(child)...)
		childSpan.End(oteltrace.WithTimestamp(child.StartTime.Add(child.Duration)))
	}

	rootSpan.End(oteltrace.WithTimestamp(s.Root.StartTime.Add(s.Root.Duration)))
	return nil
}

// mapAttributes converts span attributes to the paneldeck.* namespace
func mapAttributes(span *Span) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(span.Attributes)+1)
	attrs = append(attrs, attribute.String("paneldeck.event.type", string(span.Type)))
	for k, v := range span.Attributes {
		var key string
		switch k {
		case "source":
			key = "paneldeck.gesture.source"
		case "outcome":
			key = "paneldeck.gesture.outcome"
		case "name":
			key = "paneldeck.preset.name"
		case "locked":
			key = "paneldeck.lock.engaged"
		default:
			key = "paneldeck." + k
		}
		attrs = append(attrs, attribute.String(key, v))
	}
	return attrs
}

// hexToTraceID converts a 32-character hex string to trace.TraceID
func hexToTraceID(hexStr string) (oteltrace.TraceID, error) {
	bytes, err := hex.DecodeString(hexStr)
	if err != nil {
		return oteltrace.TraceID{}, err
	}
	if len(bytes) != 16 {
		return oteltrace.TraceID{}, fmt.Errorf("trace id %q: need 16 bytes, got %d", hexStr, len(bytes))
	}
	var traceID oteltrace.TraceID
	copy(traceID[:], bytes)
	return traceID, nil
}

// Shutdown flushes and closes the exporter
func (e *OTLPExporter) Shutdown(ctx context.Context) error {
	if e == nil {
		return nil
	}
	return e.provider.Shutdown(ctx)
}
