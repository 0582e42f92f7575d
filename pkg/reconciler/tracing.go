package reconciler

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for reconciler spans.
const defaultTracerName = "github.com/vango-dev/reactor/pkg/reconciler"

func defaultTracer() trace.Tracer {
	return otel.Tracer(defaultTracerName)
}

// startSpan opens a span for one public operation.
func (r *Reconciler) startSpan(name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("reactor.reconciler_id", r.id))
	return r.tracer.Start(r.baseContext(), name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// endSpan records the outcome of a pass on its span and ends it.
func endSpan(span trace.Span, p *pass, err error) {
	span.SetAttributes(
		attribute.Int("reactor.mounts", p.mounts),
		attribute.Int("reactor.updates", p.updates),
		attribute.Int("reactor.unmounts", p.unmounts),
		attribute.Int("reactor.effects", p.effects),
		attribute.Int("reactor.cleanups", p.cleanups),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
