package session_test

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/rampradops28/final-app/internal/bill"
	"github.com/rampradops28/final-app/internal/dispatch"
	"github.com/rampradops28/final-app/internal/lexicon"
	"github.com/rampradops28/final-app/internal/observe"
	"github.com/rampradops28/final-app/internal/recognizer"
	"github.com/rampradops28/final-app/internal/session"
)

// newTestMetrics returns a Metrics instance backed by a ManualReader for
// programmatic metric inspection.
func newTestMetrics(t *testing.T) (*observe.Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := observe.NewMetrics(mp)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return m, reader
}

// newMeteredDriver wires a full pipeline whose metrics land in the returned
// reader. The duplicate window is disabled so tests can repeat commands.
func newMeteredDriver(t *testing.T) (*session.Driver, *sdkmetric.ManualReader) {
	t.Helper()
	m, reader := newTestMetrics(t)
	lex := lexicon.New()
	rec := recognizer.New(lex)
	ledger := bill.NewLedger()
	disp := dispatch.New(ledger, dispatch.WithFeedback(false))
	d := session.New(rec, disp,
		session.WithMetrics(m),
		session.WithDuplicateWindow(0),
	)
	return d, reader
}

// sumValue collects the reader and returns the summed data points of the
// named counter or up/down counter. found is false when the instrument has
// recorded nothing yet.
func sumValue(t *testing.T, reader *sdkmetric.ManualReader, name string) (total int64, found bool) {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	for _, sm := range rm.ScopeMetrics {
		for _, met := range sm.Metrics {
			if met.Name != name {
				continue
			}
			sum, ok := met.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("metric %q is not a sum", name)
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total, true
		}
	}
	return 0, false
}

func TestHandleTranscript_CountsFuzzyCorrections(t *testing.T) {
	t.Parallel()

	d, reader := newMeteredDriver(t)

	// "onoin" resolves to onion through the fuzzy matcher; the exact
	// product and the unknown command must not count.
	d.HandleTranscript(context.Background(), "add onoin 1 kg 30")
	d.HandleTranscript(context.Background(), "add potato 2 kg 50")
	d.HandleTranscript(context.Background(), "hello there")

	got, found := sumValue(t, reader, "voicebill.fuzzy.corrections")
	if !found {
		t.Fatal("fuzzy corrections counter recorded nothing")
	}
	if got != 1 {
		t.Errorf("fuzzy corrections = %d, want 1", got)
	}
}

func TestHandleTranscript_RecordsDispatchDuration(t *testing.T) {
	t.Parallel()

	d, reader := newMeteredDriver(t)

	d.HandleTranscript(context.Background(), "add potato 2 kg 30")
	d.HandleTranscript(context.Background(), "what is the total")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	var count uint64
	for _, sm := range rm.ScopeMetrics {
		for _, met := range sm.Metrics {
			if met.Name != "voicebill.dispatch.duration" {
				continue
			}
			hist, ok := met.Data.(metricdata.Histogram[float64])
			if !ok {
				t.Fatal("dispatch duration metric is not a histogram")
			}
			for _, dp := range hist.DataPoints {
				count += dp.Count
			}
		}
	}
	if count != 2 {
		t.Errorf("dispatch duration samples = %d, want 2", count)
	}
}

func TestDriver_TracksActiveSessions(t *testing.T) {
	t.Parallel()

	d, reader := newMeteredDriver(t)

	if got, _ := sumValue(t, reader, "voicebill.active_sessions"); got != 1 {
		t.Fatalf("active sessions after New = %d, want 1", got)
	}

	// Repeated stops decrement exactly once.
	d.Stop()
	d.Stop()
	if got, _ := sumValue(t, reader, "voicebill.active_sessions"); got != 0 {
		t.Errorf("active sessions after Stop = %d, want 0", got)
	}

	d.Resume()
	d.Resume()
	if got, _ := sumValue(t, reader, "voicebill.active_sessions"); got != 1 {
		t.Errorf("active sessions after Resume = %d, want 1", got)
	}
}
