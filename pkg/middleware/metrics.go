package middleware

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	lerrors "github.com/lessonkit/inversetrig/internal/errors"
	"github.com/lessonkit/inversetrig/pkg/store"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "lesson").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for event duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry receives the metrics and serves them.
	// Default: a fresh registry with Go and process collectors.
	Registry *prometheus.Registry
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
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

// Metrics holds the lesson server's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	eventsTotal    *prometheus.CounterVec
	eventDuration  *prometheus.HistogramVec
	eventErrors    *prometheus.CounterVec
	patchesSent    prometheus.Counter
	activeSessions prometheus.Gauge
	sessionsTotal  prometheus.Counter
	variableWrites *prometheus.CounterVec
	wsErrors       *prometheus.CounterVec
}

// NewMetrics registers the lesson metrics.
//
// Metrics collected:
//   - lesson_events_total: events by type and status
//   - lesson_event_duration_seconds: event handling duration by type
//   - lesson_event_errors_total: failed events by type and error code
//   - lesson_patches_sent_total: region patches sent to clients
//   - lesson_active_sessions: live WebSocket sessions
//   - lesson_sessions_total: sessions opened
//   - lesson_variable_writes_total: store writes that changed a value, by variable
//   - lesson_websocket_errors_total: transport errors by kind
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := MetricsConfig{
		Namespace: "lesson",
		Buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
		config.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m := &Metrics{
		registry: config.Registry,

		eventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "events_total",
			Help:        "Total number of client events processed",
			ConstLabels: config.ConstLabels,
		}, []string{"type", "status"}),

		eventDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Name:        "event_duration_seconds",
			Help:        "Event processing duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"type"}),

		eventErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "event_errors_total",
			Help:        "Total number of event processing errors",
			ConstLabels: config.ConstLabels,
		}, []string{"type", "code"}),

		patchesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "patches_sent_total",
			Help:        "Total number of region patches sent to clients",
			ConstLabels: config.ConstLabels,
		}),

		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "active_sessions",
			Help:        "Number of live WebSocket sessions",
			ConstLabels: config.ConstLabels,
		}),

		sessionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "sessions_total",
			Help:        "Total number of sessions opened",
			ConstLabels: config.ConstLabels,
		}),

		variableWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "variable_writes_total",
			Help:        "Store writes that changed a variable",
			ConstLabels: config.ConstLabels,
		}, []string{"name"}),

		wsErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "websocket_errors_total",
			Help:        "Total WebSocket errors by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),
	}

	config.Registry.MustRegister(
		m.eventsTotal,
		m.eventDuration,
		m.eventErrors,
		m.patchesSent,
		m.activeSessions,
		m.sessionsTotal,
		m.variableWrites,
		m.wsErrors,
	)
	return m
}

// Registry returns the registry the metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware times and counts every event.
func (m *Metrics) Middleware() Middleware {
	return MiddlewareFunc(func(ev *Event, next func() error) error {
		eventType := ev.Type
		if eventType == "" {
			eventType = "unknown"
		}

		start := time.Now()
		err := next()
		m.eventDuration.WithLabelValues(eventType).Observe(time.Since(start).Seconds())

		status := "success"
		if err != nil {
			status = "error"
			m.eventErrors.WithLabelValues(eventType, errorCode(err)).Inc()
		}
		m.eventsTotal.WithLabelValues(eventType, status).Inc()
		m.patchesSent.Add(float64(ev.Patches()))
		return err
	})
}

// ObserveStore counts the value changes of st.
func (m *Metrics) ObserveStore(st *store.Store) {
	st.OnWrite(func(name string, _ float64) {
		m.variableWrites.WithLabelValues(name).Inc()
	})
}

// RecordPatches records patches sent outside an event, such as the
// initial sync of a new connection.
func (m *Metrics) RecordPatches(count int) {
	m.patchesSent.Add(float64(count))
}

// SessionOpened records a new live session.
func (m *Metrics) SessionOpened() {
	m.activeSessions.Inc()
	m.sessionsTotal.Inc()
}

// SessionClosed records the end of a live session.
func (m *Metrics) SessionClosed() {
	m.activeSessions.Dec()
}

// RecordWebSocketError records a transport error of the given kind.
func (m *Metrics) RecordWebSocketError(kind string) {
	m.wsErrors.WithLabelValues(kind).Inc()
}

// errorCode keeps the label set small: lesson error codes or "internal".
func errorCode(err error) string {
	if code := lerrors.Code(err); code != "" {
		return code
	}
	return "internal"
}
