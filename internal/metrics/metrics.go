// Package metrics provides Prometheus metrics for the backend API,
// exposed on the /metrics endpoint.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "footyclub",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "footyclub",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInFlight tracks current in-flight requests
	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "footyclub",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		},
	)
)

var (
	// AuthRegistrationsTotal counts successful account registrations
	AuthRegistrationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "footyclub",
			Subsystem: "auth",
			Name:      "registrations_total",
			Help:      "Total number of successfully registered accounts",
		},
	)

	// AuthLoginsTotal counts login attempts by outcome
	AuthLoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "footyclub",
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Total number of login attempts by outcome",
		},
		[]string{"outcome"},
	)
)

var (
	// ReminderOperationsTotal counts reminder mutations by operation
	ReminderOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "footyclub",
			Subsystem: "reminders",
			Name:      "operations_total",
			Help:      "Total number of successful reminder operations by type",
		},
		[]string{"operation"},
	)
)

var (
	// FootballUpstreamRequestsTotal counts outbound football API calls by outcome
	FootballUpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "footyclub",
			Subsystem: "football",
			Name:      "upstream_requests_total",
			Help:      "Total number of football API upstream requests by outcome",
		},
		[]string{"outcome"},
	)

	// FootballCacheTotal counts football cache lookups by result
	FootballCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "footyclub",
			Subsystem: "football",
			Name:      "cache_total",
			Help:      "Total number of football cache lookups by result",
		},
		[]string{"result"},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware instruments HTTP requests with count, duration, and
// in-flight gauges. The route pattern is used instead of the raw URL so
// parameterized paths do not explode label cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		HTTPRequestsInFlight.Inc()
		defer HTTPRequestsInFlight.Dec()

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := routePattern(r)
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(ww.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// routePattern returns the chi route pattern for the request, falling
// back to the raw path when no route matched.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
