// Package metrics holds the Prometheus collectors for the web server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors and the registry they are registered with.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	itineraries         prometheus.Counter
	navigations         *prometheus.CounterVec
	failures            *prometheus.CounterVec
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		itineraries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "itineraries_generated_total",
			Help: "Number of routes picked by Generate",
		}),
		navigations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slot_navigations_total",
				Help: "Number of next/previous actions per slot",
			},
			[]string{"slot", "direction"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "itinerary_failures_total",
				Help: "Errors hit while building itineraries, by kind",
			},
			[]string{"kind"},
		),
	}

	m.registry.MustRegister(
		m.httpRequests,
		m.httpRequestDuration,
		m.itineraries,
		m.navigations,
		m.failures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Generated counts a new route pick.
func (m *Metrics) Generated() {
	m.itineraries.Inc()
}

// Navigated counts a next/previous action on a slot.
func (m *Metrics) Navigated(slot, direction string) {
	m.navigations.WithLabelValues(slot, direction).Inc()
}

// Failed counts an error of the given kind (load, resolution, render, asset).
func (m *Metrics) Failed(kind string) {
	m.failures.WithLabelValues(kind).Inc()
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and durations. Routes are labelled by
// their mux template so slot names do not each get a series.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		route := "unmatched"
		if cr := mux.CurrentRoute(r); cr != nil {
			if tmpl, err := cr.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		m.httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(sw.status)).Inc()
		m.httpRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
