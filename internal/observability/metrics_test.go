package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestEngineCollectorCountsMessagesByKind(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewEngineCollector(reg)
	if err != nil {
		t.Fatalf("NewEngineCollector: %v", err)
	}

	collector.ObserveMessage("update-board")
	collector.ObserveMessage("update-entity")
	collector.ObserveMessage("update-entity")

	if got := testutil.ToFloat64(collector.MessagesHandled.WithLabelValues("update-entity")); got != 2 {
		t.Fatalf("sim_messages_total{kind=update-entity} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.MessagesHandled.WithLabelValues("update-board")); got != 1 {
		t.Fatalf("sim_messages_total{kind=update-board} = %v, want 1", got)
	}
}

func TestEngineCollectorRecordsTickDurations(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewEngineCollector(reg)
	if err != nil {
		t.Fatalf("NewEngineCollector: %v", err)
	}

	collector.ObserveTick(2 * time.Millisecond)
	collector.ObserveTick(8 * time.Millisecond)

	if count := histogramSampleCount(t, reg, "sim_tick_duration_seconds"); count != 2 {
		t.Fatalf("sim_tick_duration_seconds sample_count = %d, want 2", count)
	}
}

func TestMetricsHandlerExposesEngineSeries(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewEngineCollector(reg)
	if err != nil {
		t.Fatalf("NewEngineCollector: %v", err)
	}
	collector.SetBoardCounts(3, 6)
	collector.SetQueueDepth(2)
	collector.IncLaunches()
	collector.IncKillEvents()
	collector.IncHandlerPanics()
	collector.ObserveMessage("add")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"sim_messages_total",
		"sim_queue_depth",
		"sim_tick_duration_seconds",
		"sim_live_entities",
		"sim_projectiles_in_flight",
		"sim_launches_total",
		"sim_kill_events_total",
		"sim_handler_panics_total",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in /metrics output", metric)
		}
	}
	if got := testutil.ToFloat64(collector.ProjectilesInFlight); got != 6 {
		t.Fatalf("sim_projectiles_in_flight = %v, want 6", got)
	}
}

func TestEngineCollectorReregistersIdempotently(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewEngineCollector(reg)
	if err != nil {
		t.Fatalf("first NewEngineCollector: %v", err)
	}
	second, err := NewEngineCollector(reg)
	if err != nil {
		t.Fatalf("second NewEngineCollector: %v", err)
	}

	// Both handles must resolve to the same underlying series.
	first.IncLaunches()
	second.IncLaunches()
	if got := testutil.ToFloat64(second.Launches); got != 2 {
		t.Fatalf("sim_launches_total = %v after shared increments, want 2", got)
	}
}

func TestNilCollectorIsInert(t *testing.T) {
	var collector *EngineCollector
	collector.ObserveMessage("add")
	collector.SetQueueDepth(1)
	collector.ObserveTick(time.Millisecond)
	collector.SetBoardCounts(1, 1)
	collector.IncLaunches()
	collector.IncKillEvents()
	collector.IncHandlerPanics()
	if collector.Gatherer() != nil {
		t.Fatalf("nil collector returned a gatherer")
	}
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string) uint64 {
	t.Helper()

	metrics, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	var family *dto.MetricFamily
	for _, mf := range metrics {
		if mf.GetName() == name {
			family = mf
			break
		}
	}
	if family == nil {
		return 0
	}
	for _, m := range family.Metric {
		if m.GetHistogram() != nil {
			return m.GetHistogram().GetSampleCount()
		}
	}
	return 0
}
