package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "notes"

// Metrics holds the Prometheus collectors for the REST API. Each Metrics owns
// its registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	// RequestsTotal counts requests by method, route template and status code.
	RequestsTotal *prometheus.CounterVec

	// RequestDuration observes handler latency by method and route template.
	RequestDuration *prometheus.HistogramVec

	// StoreErrorsTotal counts unexpected store failures by operation.
	StoreErrorsTotal *prometheus.CounterVec

	// Notes is the note count seen by the most recent list.
	Notes prometheus.Gauge
}

// NewMetrics registers the collectors on a fresh registry together with the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests handled, by method, route and status.",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		StoreErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "store",
			Name:      "errors_total",
			Help:      "Unexpected note store failures, by operation.",
		}, []string{"op"}),
		Notes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "store",
			Name:      "notes",
			Help:      "Number of notes returned by the latest list.",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
