package dispatch_test

import (
	"context"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/rampradops28/final-app/internal/dispatch"
	"github.com/rampradops28/final-app/internal/observe"
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

// billItemsGauge collects the reader and sums the bill-items data points.
func billItemsGauge(t *testing.T, reader *sdkmetric.ManualReader) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	for _, sm := range rm.ScopeMetrics {
		for _, met := range sm.Metrics {
			if met.Name != "voicebill.bill.items" {
				continue
			}
			sum, ok := met.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatal("bill items metric is not a sum")
			}
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

func TestDispatch_TracksBillItemsGauge(t *testing.T) {
	t.Parallel()

	m, reader := newTestMetrics(t)
	h := newHarness(t, dispatch.WithMetrics(m))

	h.say(t, "add potato 1 kg 50")
	h.say(t, "add tomato 1 kg 40")
	h.say(t, "add rice 1 packet 85")
	if got := billItemsGauge(t, reader); got != 3 {
		t.Fatalf("gauge after three adds = %d, want 3", got)
	}

	h.say(t, "remove potato")
	h.say(t, "removed the last item")
	if got := billItemsGauge(t, reader); got != 1 {
		t.Errorf("gauge after two removals = %d, want 1", got)
	}

	// A referential miss leaves the gauge alone.
	h.say(t, "remove onion")
	if got := billItemsGauge(t, reader); got != 1 {
		t.Errorf("gauge after missed removal = %d, want 1", got)
	}

	h.say(t, "clear the bill")
	if got := billItemsGauge(t, reader); got != 0 {
		t.Errorf("gauge after reset = %d, want 0", got)
	}
}
