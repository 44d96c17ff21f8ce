// Package metrics holds the Prometheus collectors exported on /metrics.
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

// Task outcomes recorded by the deferred task runner.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomePanic   = "panic"
	OutcomeDropped = "dropped"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_service_http_requests_total",
			Help: "Number of HTTP requests, partitioned by method, route and status code.",
		},
		[]string{"method", "route", "code"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "user_service_http_request_duration_seconds",
			Help:    "Request latency in seconds. Broken down by method and route.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "route"},
	)

	// TasksSubmitted counts deferred tasks handed to the runner.
	TasksSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_service_deferred_tasks_submitted_total",
			Help: "Number of deferred tasks submitted, partitioned by task name.",
		},
		[]string{"task"},
	)

	// TasksFinished counts deferred tasks by how they ended.
	TasksFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_service_deferred_tasks_finished_total",
			Help: "Number of deferred tasks finished, partitioned by task name and outcome.",
		},
		[]string{"task", "outcome"},
	)

	// TasksInFlight is the number of deferred tasks currently holding a worker slot.
	TasksInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "user_service_deferred_tasks_in_flight",
			Help: "Number of deferred tasks currently running.",
		},
	)
)

// Handler serves the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request count and latency per chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
