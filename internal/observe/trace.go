package observe

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope name for the VoiceBill tracer.
const tracerName = "github.com/rampradops28/final-app"

// Tracer returns the package-level [trace.Tracer] for VoiceBill. It uses the
// globally registered [trace.TracerProvider].
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StartSpan starts a new span and returns the updated context and span. The
// caller must call span.End() when done.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, opts...)
}

// StartCommandSpan starts an internal span covering classification and
// dispatch of one voice command. The transcript itself is deliberately not
// recorded as an attribute; the resolved intent is attached by the caller via
// [EndCommandSpan] once classification finishes.
func StartCommandSpan(ctx context.Context) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "voice.command",
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndCommandSpan attaches the classification outcome and ends the span.
func EndCommandSpan(span trace.Span, intent string, success bool) {
	span.SetAttributes(
		attribute.String("voicebill.intent", intent),
		attribute.Bool("voicebill.success", success),
	)
	span.End()
}

// CorrelationID extracts the trace ID from the OTel span context in ctx.
// Returns the empty string when no active span with a valid trace ID exists.
// The trace ID doubles as the request correlation identifier.
func CorrelationID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if sc.HasTraceID() {
		return sc.TraceID().String()
	}
	return ""
}

// Logger returns an [slog.Logger] enriched with trace_id and span_id from
// the OTel span context in ctx. When no active span is present, the returned
// logger is the default slog logger without extra attributes.
func Logger(ctx context.Context) *slog.Logger {
	l := slog.Default()
	sc := trace.SpanContextFromContext(ctx)
	if sc.HasTraceID() {
		l = l.With(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	return l
}
