// Package metrics holds the prometheus collectors for the UI server.
//
// Collectors are registered on the Registerer passed to New so tests can use
// an isolated prometheus.NewRegistry().
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	BackendRequestsTotal  *prometheus.CounterVec
	BackendRequestSeconds *prometheus.HistogramVec
	SubmissionsTotal      *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		BackendRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backend_requests_total",
				Help: "Total number of calls made to the scraping backend.",
			},
			[]string{"path", "outcome"}, // outcome: success, status_error, transport_error
		),
		BackendRequestSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backend_request_duration_seconds",
				Help:    "Duration of calls to the scraping backend.",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
			},
			[]string{"path"},
		),
		SubmissionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "submissions_total",
				Help: "Page submissions by resource, strategy and result.",
			},
			[]string{"resource", "strategy", "result"}, // result: success, failure, exhausted, canceled, timeout
		),
		gatherer: reg,
	}
}

// Handler exposes the registered collectors.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveBackend records one backend call.
func (m *Metrics) ObserveBackend(path, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.BackendRequestsTotal.WithLabelValues(path, outcome).Inc()
	if duration > 0 {
		m.BackendRequestSeconds.WithLabelValues(path).Observe(duration.Seconds())
	}
}

// ObserveSubmission records the final result of a page submission.
func (m *Metrics) ObserveSubmission(resource, strategy, result string) {
	if m == nil {
		return
	}
	m.SubmissionsTotal.WithLabelValues(resource, strategy, result).Inc()
}

// Middleware counts requests by chi route pattern so path parameters do not
// explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := strconv.Itoa(ww.Status())

		m.HTTPRequestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
		m.HTTPRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
	})
}
