package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsConfig configures the engine metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "weave").
	Namespace string

	// Subsystem is the metrics subsystem (default: "engine").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for build duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: a fresh registry owned by the Metrics value, so that
	// several applications can live in one process.
	Registry *prometheus.Registry
}

// MetricsOption configures the engine metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry *prometheus.Registry) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "weave",
		Subsystem: "engine",
		Buckets:   prometheus.DefBuckets,
	}
}

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	buildsTotal      prometheus.Counter
	reconcilesTotal  prometheus.Counter
	renderFailures   *prometheus.CounterVec
	templateWarnings *prometheus.CounterVec
	liveComponents   prometheus.Gauge
	boundListeners   prometheus.Gauge
	buildDuration    prometheus.Histogram
}

// NewMetrics creates and registers the engine metrics.
//
// Metrics collected:
//   - weave_engine_builds_total: component builds
//   - weave_engine_reconciles_total: update-triggered subtree swaps
//   - weave_engine_render_failures_total: recovered panics by source
//   - weave_engine_template_warnings_total: unresolved placeholders by code
//   - weave_engine_live_components: registered component instances
//   - weave_engine_bound_listeners: native listeners attached by components
//   - weave_engine_build_duration_seconds: time spent in Build
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		registry: config.Registry,

		buildsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "builds_total",
			Help:        "Total number of component builds",
			ConstLabels: config.ConstLabels,
		}),

		reconcilesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reconciles_total",
			Help:        "Total number of subtree replacements triggered by updates",
			ConstLabels: config.ConstLabels,
		}),

		renderFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_failures_total",
			Help:        "Total number of recovered renderer and listener panics",
			ConstLabels: config.ConstLabels,
		}, []string{"source"}),

		templateWarnings: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "template_warnings_total",
			Help:        "Total number of placeholders passed through unresolved",
			ConstLabels: config.ConstLabels,
		}, []string{"code"}),

		liveComponents: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_components",
			Help:        "Number of registered component instances",
			ConstLabels: config.ConstLabels,
		}),

		boundListeners: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "bound_listeners",
			Help:        "Number of native listeners currently bound by components",
			ConstLabels: config.ConstLabels,
		}),

		buildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "build_duration_seconds",
			Help:        "Component build duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

// Registry returns the registry the metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveBuild records one build that took d.
func (m *Metrics) ObserveBuild(d time.Duration) {
	if m == nil {
		return
	}
	m.buildsTotal.Inc()
	m.buildDuration.Observe(d.Seconds())
}

// Reconciled records one subtree replacement.
func (m *Metrics) Reconciled() {
	if m == nil {
		return
	}
	m.reconcilesTotal.Inc()
}

// RenderFailed records a recovered panic. source is "render" or "listener".
func (m *Metrics) RenderFailed(source string) {
	if m == nil {
		return
	}
	m.renderFailures.WithLabelValues(source).Inc()
}

// TemplateWarning records an unresolved placeholder.
func (m *Metrics) TemplateWarning(code string) {
	if m == nil {
		return
	}
	m.templateWarnings.WithLabelValues(code).Inc()
}

// ComponentRegistered increments the live component gauge.
func (m *Metrics) ComponentRegistered() {
	if m == nil {
		return
	}
	m.liveComponents.Inc()
}

// ComponentReleased decrements the live component gauge.
func (m *Metrics) ComponentReleased() {
	if m == nil {
		return
	}
	m.liveComponents.Dec()
}

// ListenersBound adjusts the bound listener gauge by delta.
func (m *Metrics) ListenersBound(delta int) {
	if m == nil || delta == 0 {
		return
	}
	m.boundListeners.Add(float64(delta))
}
