package observe

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// ModuleMeta describes a load for telemetry purposes.
type ModuleMeta struct {
	Name  string // capability name (required)
	Group int    // 1-based preload group, 0 for direct loads
	Cache bool   // whether the result will be cached
}

// SpanName returns the span name for this load: loader.load.<name>.
func (m ModuleMeta) SpanName() string {
	return "loader.load." + m.Name
}

func (m ModuleMeta) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("module.name", m.Name),
		attribute.Bool("module.cache", m.Cache),
	}
	if m.Group > 0 {
		attrs = append(attrs, attribute.String("module.group", strconv.Itoa(m.Group)))
	}
	return attrs
}

// Tracer opens and closes spans around loads.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a span for one load.
	StartSpan(ctx context.Context, meta ModuleMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording err and the attempt count.
	EndSpan(span trace.Span, attempts int, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer wraps an OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	if t == nil {
		t = tracenoop.NewTracerProvider().Tracer("noop")
	}
	return &tracerImpl{tracer: t}
}

func (t *tracerImpl) StartSpan(ctx context.Context, meta ModuleMeta) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(meta.attributes()...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (t *tracerImpl) EndSpan(span trace.Span, attempts int, err error) {
	span.SetAttributes(attribute.Int("module.attempts", attempts))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
