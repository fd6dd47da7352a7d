package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestStationCollectorRecordsBeamEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewStationCollector(reg)
	if err != nil {
		t.Fatalf("NewStationCollector: %v", err)
	}

	collector.BeamAdded(10)
	collector.BeamAdded(3)
	collector.AllocationFailed(244, 0)
	collector.PassbandViolation()

	if got := testutil.ToFloat64(collector.BeamsTotal); got != 2 {
		t.Fatalf("station_beams_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.BeamletsTotal); got != 13 {
		t.Fatalf("station_beamlets_allocated_total = %v, want 13", got)
	}
	if got := testutil.ToFloat64(collector.AllocationFailures); got != 1 {
		t.Fatalf("station_allocation_failures_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.PassbandViolations); got != 1 {
		t.Fatalf("station_passband_violations_total = %v, want 1", got)
	}
}

func TestStationCollectorPoolGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewStationCollector(reg)
	if err != nil {
		t.Fatalf("NewStationCollector: %v", err)
	}

	collector.PoolState(17, 244)

	if got := gaugeValue(t, reg, "station_beamlet_pool_allocated"); got != 17 {
		t.Fatalf("station_beamlet_pool_allocated = %v, want 17", got)
	}
	if got := gaugeValue(t, reg, "station_beamlet_pool_capacity"); got != 244 {
		t.Fatalf("station_beamlet_pool_capacity = %v, want 244", got)
	}
}

func TestStationCollectorDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewStationCollector(reg)
	if err != nil {
		t.Fatalf("NewStationCollector (first): %v", err)
	}
	second, err := NewStationCollector(reg)
	if err != nil {
		t.Fatalf("NewStationCollector (second): %v", err)
	}

	// Both collectors must share the already-registered metrics.
	first.BeamAdded(4)
	second.BeamAdded(6)
	if got := testutil.ToFloat64(second.BeamletsTotal); got != 10 {
		t.Fatalf("station_beamlets_allocated_total = %v, want 10", got)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewStationCollector(reg)
	if err != nil {
		t.Fatalf("NewStationCollector: %v", err)
	}
	collector.BeamAdded(1)

	srv := httptest.NewServer(collector.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	if !strings.Contains(string(body), "station_beams_total 1") {
		t.Fatalf("metrics output missing station_beams_total, got:\n%s", body)
	}
}

func gaugeValue(t *testing.T, g prometheus.Gatherer, name string) float64 {
	t.Helper()
	families, err := g.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			return gaugeOf(t, m)
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func gaugeOf(t *testing.T, m *dto.Metric) float64 {
	t.Helper()
	if m.GetGauge() == nil {
		t.Fatalf("metric is not a gauge: %+v", m)
	}
	return m.GetGauge().GetValue()
}
