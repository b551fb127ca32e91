package telemetry

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	if m.Gauge == nil {
		t.Fatal("expected gauge metric to have Gauge field")
	}
	return m.GetGauge().GetValue()
}

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics(WithNamespace("test"))

	m.ObserveBuild(5 * time.Millisecond)
	m.ObserveBuild(time.Millisecond)
	m.Reconciled()
	m.RenderFailed("render")
	m.TemplateWarning("W202")
	m.TemplateWarning("W202")
	m.ComponentRegistered()
	m.ComponentRegistered()
	m.ComponentReleased()
	m.ListenersBound(3)
	m.ListenersBound(-1)

	if got := metricCounterValue(t, m.buildsTotal); got != 2 {
		t.Errorf("builds_total = %v, want 2", got)
	}
	if got := metricCounterValue(t, m.reconcilesTotal); got != 1 {
		t.Errorf("reconciles_total = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.renderFailures.WithLabelValues("render")); got != 1 {
		t.Errorf("render_failures_total = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.templateWarnings.WithLabelValues("W202")); got != 2 {
		t.Errorf("template_warnings_total = %v, want 2", got)
	}
	if got := metricGaugeValue(t, m.liveComponents); got != 1 {
		t.Errorf("live_components = %v, want 1", got)
	}
	if got := metricGaugeValue(t, m.boundListeners); got != 2 {
		t.Errorf("bound_listeners = %v, want 2", got)
	}
}

func TestMetricsSeparateRegistries(t *testing.T) {
	// Two instances must not collide on registration.
	a := NewMetrics()
	b := NewMetrics()
	if a.Registry() == b.Registry() {
		t.Fatal("expected distinct registries")
	}

	reg := prometheus.NewRegistry()
	c := NewMetrics(WithRegistry(reg))
	if c.Registry() != reg {
		t.Error("WithRegistry not honoured")
	}
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.Reconciled()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "weave_engine_reconciles_total 1") {
		t.Errorf("exposition missing reconciles_total:\n%s", body)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveBuild(time.Second)
	m.Reconciled()
	m.RenderFailed("listener")
	m.TemplateWarning("W201")
	m.ComponentRegistered()
	m.ComponentReleased()
	m.ListenersBound(1)
	if m.Registry() != nil {
		t.Error("nil metrics should have no registry")
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 404 {
		t.Errorf("nil metrics handler status = %d, want 404", rec.Code)
	}
}
