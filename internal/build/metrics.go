package build

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures build metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "routegen").
	Namespace string

	// Buckets are the histogram buckets for build duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry receives the collectors. Default: a new private registry,
	// so repeated builds in one process never collide with the global one.
	Registry *prometheus.Registry
}

// MetricsOption configures build metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the registry the collectors are registered with.
func WithRegistry(registry *prometheus.Registry) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// Metrics records build outcomes.
//
// Metrics collected:
//   - routegen_builds_total: Counter of builds by target and status
//   - routegen_build_duration_seconds: Histogram of build duration by target
//   - routegen_routes: Gauge of routes in the last successful build of a target
type Metrics struct {
	registry *prometheus.Registry

	buildsTotal   *prometheus.CounterVec
	buildDuration *prometheus.HistogramVec
	routes        *prometheus.GaugeVec
}

// Build status label values.
const (
	StatusSuccess   = "success"
	StatusUnchanged = "unchanged"
	StatusError     = "error"
)

// NewMetrics creates and registers the build collectors.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := MetricsConfig{
		Namespace: "routegen",
		Buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}

	factory := promauto.With(config.Registry)
	return &Metrics{
		registry: config.Registry,

		buildsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "builds_total",
			Help:      "Total number of route builds",
		}, []string{"target", "status"}),

		buildDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "build_duration_seconds",
			Help:      "Route build duration in seconds",
			Buckets:   config.Buckets,
		}, []string{"target"}),

		routes: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "routes",
			Help:      "Number of routes in the last successful build",
		}, []string{"target"}),
	}
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// observe records one build. A nil Metrics records nothing.
func (m *Metrics) observe(target, status string, duration time.Duration, routes int) {
	if m == nil {
		return
	}
	m.buildsTotal.WithLabelValues(target, status).Inc()
	m.buildDuration.WithLabelValues(target).Observe(duration.Seconds())
	if status != StatusError {
		m.routes.WithLabelValues(target).Set(float64(routes))
	}
}

// WriteTextfile writes the current metrics in the text exposition format,
// for the node_exporter textfile collector. The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
