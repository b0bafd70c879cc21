// Package observe provides application-wide observability primitives for
// VoiceBill: OpenTelemetry metrics, structured logging helpers, and HTTP
// middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all VoiceBill metrics.
const meterName = "github.com/rampradops28/final-app"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms ---

	// CommandDuration tracks transcript classification latency.
	CommandDuration metric.Float64Histogram

	// DispatchDuration tracks how long the side effects of a classified
	// command take (billing mutations, invoice rendering, speech feedback).
	DispatchDuration metric.Float64Histogram

	// --- Counters ---

	// Commands counts processed voice commands. Use with attributes:
	//   attribute.String("intent", ...), attribute.String("status", ...)
	Commands metric.Int64Counter

	// FuzzyCorrections counts product names that were resolved through
	// edit-distance matching rather than an exact lookup.
	FuzzyCorrections metric.Int64Counter

	// InvoicesGenerated counts invoice renders by status.
	InvoicesGenerated metric.Int64Counter

	// SMSMessages counts SMS deliveries by status.
	SMSMessages metric.Int64Counter

	// --- Gauges ---

	// BillItems tracks the current number of lines on the bill.
	BillItems metric.Int64UpDownCounter

	// ActiveSessions tracks the number of live recognition sessions.
	ActiveSessions metric.Int64UpDownCounter

	// --- HTTP middleware ---

	// HTTPRequestDuration tracks HTTP request processing time. Use with attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds). Command
// classification is regex work and finishes well under a millisecond; the
// upper buckets cover dispatch side effects like invoice rendering.
var latencyBuckets = []float64{
	0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.CommandDuration, err = m.Float64Histogram("voicebill.command.duration",
		metric.WithDescription("Latency of transcript classification."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.DispatchDuration, err = m.Float64Histogram("voicebill.dispatch.duration",
		metric.WithDescription("Latency of command side-effect execution."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.Commands, err = m.Int64Counter("voicebill.commands",
		metric.WithDescription("Total voice commands by intent and status."),
	); err != nil {
		return nil, err
	}
	if met.FuzzyCorrections, err = m.Int64Counter("voicebill.fuzzy.corrections",
		metric.WithDescription("Product names resolved by fuzzy matching."),
	); err != nil {
		return nil, err
	}
	if met.InvoicesGenerated, err = m.Int64Counter("voicebill.invoices",
		metric.WithDescription("Total invoice renders by status."),
	); err != nil {
		return nil, err
	}
	if met.SMSMessages, err = m.Int64Counter("voicebill.sms.messages",
		metric.WithDescription("Total SMS deliveries by status."),
	); err != nil {
		return nil, err
	}

	// Gauges (UpDownCounters).
	if met.BillItems, err = m.Int64UpDownCounter("voicebill.bill.items",
		metric.WithDescription("Current number of lines on the bill."),
	); err != nil {
		return nil, err
	}
	if met.ActiveSessions, err = m.Int64UpDownCounter("voicebill.active_sessions",
		metric.WithDescription("Number of live recognition sessions."),
	); err != nil {
		return nil, err
	}

	// HTTP middleware histogram.
	if met.HTTPRequestDuration, err = m.Float64Histogram("voicebill.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordCommand records one processed voice command: a counter increment with
// intent/status attributes plus the classification latency.
func (m *Metrics) RecordCommand(ctx context.Context, intent string, success bool, d time.Duration) {
	status := "ok"
	if !success {
		status = "unknown"
	}
	m.Commands.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("intent", intent),
			attribute.String("status", status),
		),
	)
	m.CommandDuration.Record(ctx, d.Seconds())
}

// RecordDispatch records the side-effect execution latency of one command.
func (m *Metrics) RecordDispatch(ctx context.Context, intent string, d time.Duration) {
	m.DispatchDuration.Record(ctx, d.Seconds(),
		metric.WithAttributes(attribute.String("intent", intent)),
	)
}

// RecordInvoice is a convenience method that records an invoice render
// counter increment.
func (m *Metrics) RecordInvoice(ctx context.Context, status string) {
	m.InvoicesGenerated.Add(ctx, 1,
		metric.WithAttributes(attribute.String("status", status)),
	)
}

// RecordSMS is a convenience method that records an SMS delivery counter
// increment.
func (m *Metrics) RecordSMS(ctx context.Context, status string) {
	m.SMSMessages.Add(ctx, 1,
		metric.WithAttributes(attribute.String("status", status)),
	)
}
