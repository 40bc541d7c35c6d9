// Package metrics provides Prometheus metrics for the assistant backend
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP request metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Store metrics
	StoreOperationsTotal   *prometheus.CounterVec
	StoreOperationDuration *prometheus.HistogramVec

	// Generation metrics
	GenerationsTotal    *prometheus.CounterVec
	GenerationFragments prometheus.Counter
	GenerationsInFlight prometheus.Gauge
	GenerationDuration  prometheus.Histogram
	RateLimitedTotal    prometheus.Counter
	IndexEnsureFailures prometheus.Counter
}

// New creates all metrics on a dedicated registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assistant_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		StoreOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_store_operations_total",
				Help: "Total number of document store operations",
			},
			[]string{"operation", "collection", "status"},
		),
		StoreOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assistant_store_operation_duration_seconds",
				Help:    "Duration of document store operations in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"operation"},
		),

		GenerationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_generations_total",
				Help: "Total number of generation requests by outcome",
			},
			[]string{"outcome"},
		),
		GenerationFragments: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "assistant_generation_fragments_total",
				Help: "Total number of streamed text fragments",
			},
		),
		GenerationsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "assistant_generations_in_flight",
				Help: "Number of generation streams currently open",
			},
		),
		GenerationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "assistant_generation_duration_seconds",
				Help:    "Duration of generation streams in seconds",
				Buckets: []float64{.5, 1, 2.5, 5, 10, 20, 40, 80},
			},
		),
		RateLimitedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "assistant_generation_rate_limited_total",
				Help: "Total number of generation requests rejected by the rate guard",
			},
		),
		IndexEnsureFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "assistant_index_ensure_failures_total",
				Help: "Total number of indexes that could not be ensured",
			},
		),
	}
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records a served HTTP request
func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordStoreOperation records a document store operation
func (m *Metrics) RecordStoreOperation(operation, collection, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.StoreOperationsTotal.WithLabelValues(operation, collection, status).Inc()
	m.StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// GenerationStarted marks a stream as open and returns a func that closes it
// with the given outcome.
func (m *Metrics) GenerationStarted() func(outcome string) {
	if m == nil {
		return func(string) {}
	}
	start := time.Now()
	m.GenerationsInFlight.Inc()
	return func(outcome string) {
		m.GenerationsInFlight.Dec()
		m.GenerationDuration.Observe(time.Since(start).Seconds())
		m.GenerationsTotal.WithLabelValues(outcome).Inc()
	}
}

// RecordFragment counts one streamed fragment
func (m *Metrics) RecordFragment() {
	if m == nil {
		return
	}
	m.GenerationFragments.Inc()
}

// RecordRateLimited counts a rejected generation request
func (m *Metrics) RecordRateLimited() {
	if m == nil {
		return
	}
	m.RateLimitedTotal.Inc()
	m.GenerationsTotal.WithLabelValues("rate_limited").Inc()
}

// RecordIndexFailure counts an index that could not be ensured
func (m *Metrics) RecordIndexFailure() {
	if m == nil {
		return
	}
	m.IndexEnsureFailures.Inc()
}

// StatusLabel renders an operation result for the status label
func StatusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
