package internal

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsOption configures navigation metrics.
type MetricsOption func(*metricsConfig)

type metricsConfig struct {
	namespace string
	registry  *prometheus.Registry
	path      string
	buckets   []float64
}

// MetricsNamespace sets the metric name prefix. Default: "routekit".
func MetricsNamespace(ns string) MetricsOption {
	return func(c *metricsConfig) { c.namespace = ns }
}

// MetricsRegistry registers collectors on reg instead of a fresh registry.
func MetricsRegistry(reg *prometheus.Registry) MetricsOption {
	return func(c *metricsConfig) { c.registry = reg }
}

// MetricsPath sets the exposition path. Default: "/metrics".
func MetricsPath(path string) MetricsOption {
	return func(c *metricsConfig) {
		if path != "" {
			c.path = path
		}
	}
}

// MetricsBuckets sets loader duration buckets.
func MetricsBuckets(b []float64) MetricsOption {
	return func(c *metricsConfig) { c.buckets = b }
}

// Metrics collects navigation, validation and loader measurements.
type Metrics struct {
	path        string
	handler     http.Handler
	navigations *prometheus.CounterVec
	invalid     *prometheus.CounterVec
	loads       *prometheus.HistogramVec
	cacheHits   *prometheus.CounterVec
}

// NewMetrics registers the collectors.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := metricsConfig{namespace: "routekit", path: "/metrics", buckets: prometheus.DefBuckets}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.registry == nil {
		cfg.registry = prometheus.NewRegistry()
	}
	factory := promauto.With(cfg.registry)

	return &Metrics{
		path:    cfg.path,
		handler: promhttp.HandlerFor(cfg.registry, promhttp.HandlerOpts{Registry: cfg.registry}),
		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "navigations_total",
			Help:      "Navigations by leaf route and outcome.",
		}, []string{"route", "outcome"}),
		invalid: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "search_validation_failures_total",
			Help:      "Rejected search params by route and field.",
		}, []string{"route", "field"}),
		loads: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.namespace,
			Name:      "loader_duration_seconds",
			Help:      "Loader run time by route.",
			Buckets:   cfg.buckets,
		}, []string{"route"}),
		cacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.namespace,
			Name:      "loader_cache_total",
			Help:      "Loader cache lookups by route and result.",
		}, []string{"route", "result"}),
	}
}

// Handler serves the exposition format.
func (m *Metrics) Handler() http.Handler { return m.handler }

// Path is where Handler is mounted.
func (m *Metrics) Path() string { return m.path }

// nil-safe recorders

func (m *Metrics) navigation(route, outcome string) {
	if m != nil {
		m.navigations.WithLabelValues(route, outcome).Inc()
	}
}

func (m *Metrics) validationFailure(route, field string) {
	if m != nil {
		m.invalid.WithLabelValues(route, field).Inc()
	}
}

func (m *Metrics) loaderRun(route string, d time.Duration) {
	if m != nil {
		m.loads.WithLabelValues(route).Observe(d.Seconds())
	}
}

func (m *Metrics) loaderCache(route string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheHits.WithLabelValues(route, result).Inc()
}
