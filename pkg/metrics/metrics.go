// Package metrics collects Prometheus metrics for batch dispatch.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/batchdom/internal/errors"
)

// Config configures the collector.
type Config struct {
	// Namespace is the metrics namespace (default: "batchdom").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for batch duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "batchdom",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the dispatch metrics. A nil *Metrics records nothing.
type Metrics struct {
	batchesTotal       *prometheus.CounterVec
	batchDuration      prometheus.Histogram
	editsApplied       prometheus.Counter
	componentsUpdated  prometheus.Counter
	componentsDisposed prometheus.Counter
	handlersDisposed   prometheus.Counter
	attachTotal        *prometheus.CounterVec
	renderers          prometheus.Gauge
}

// New registers the metrics with the configured registry.
//
// Metrics collected:
//   - batchdom_batches_total: Counter of dispatched batches by status and error code
//   - batchdom_batch_duration_seconds: Histogram of dispatch duration
//   - batchdom_edits_applied_total: Counter of applied edits
//   - batchdom_components_updated_total: Counter of applied component diffs
//   - batchdom_components_disposed_total: Counter of disposed components
//   - batchdom_event_handlers_disposed_total: Counter of released event handlers
//   - batchdom_root_attach_total: Counter of root attachments by status
//   - batchdom_renderers: Gauge of live renderers
func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		batchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "batches_total",
			Help:        "Total number of render batches dispatched",
			ConstLabels: config.ConstLabels,
		}, []string{"status", "code"}),

		batchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "batch_duration_seconds",
			Help:        "Render batch dispatch duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		editsApplied: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "edits_applied_total",
			Help:        "Total number of edits applied to the document",
			ConstLabels: config.ConstLabels,
		}),

		componentsUpdated: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "components_updated_total",
			Help:        "Total number of component diffs applied",
			ConstLabels: config.ConstLabels,
		}),

		componentsDisposed: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "components_disposed_total",
			Help:        "Total number of components disposed",
			ConstLabels: config.ConstLabels,
		}),

		handlersDisposed: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "event_handlers_disposed_total",
			Help:        "Total number of event handlers released by explicit disposal",
			ConstLabels: config.ConstLabels,
		}),

		attachTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "root_attach_total",
			Help:        "Total number of root component attachments",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		renderers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renderers",
			Help:        "Number of live renderers",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// BatchStats is what one dispatch did.
type BatchStats struct {
	UpdatedComponents     int
	Edits                 int
	DisposedComponents    int
	DisposedEventHandlers int
}

// ObserveBatch records one dispatch. Failed batches are labelled with the
// error code, or "unknown" for uncoded errors.
func (m *Metrics) ObserveBatch(seconds float64, stats BatchStats, err error) {
	if m == nil {
		return
	}
	status, code := "success", ""
	if err != nil {
		status, code = "error", errors.CodeOf(err)
		if code == "" {
			code = "unknown"
		}
	}
	m.batchesTotal.WithLabelValues(status, code).Inc()
	m.batchDuration.Observe(seconds)
	m.editsApplied.Add(float64(stats.Edits))
	m.componentsUpdated.Add(float64(stats.UpdatedComponents))
	m.componentsDisposed.Add(float64(stats.DisposedComponents))
	m.handlersDisposed.Add(float64(stats.DisposedEventHandlers))
}

// ObserveAttach records one root attachment.
func (m *Metrics) ObserveAttach(err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.attachTotal.WithLabelValues(status).Inc()
}

// SetRenderers sets the live renderer gauge.
func (m *Metrics) SetRenderers(n int) {
	if m == nil {
		return
	}
	m.renderers.Set(float64(n))
}
