// Package metrics provides Prometheus metrics for the frontend.
package metrics

import (
	"regexp"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// BackendRequestsTotal tracks outbound calls to the backend API
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "h2a",
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Total number of backend API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	// BackendRequestDuration tracks outbound call latency
	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "h2a",
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Duration of backend API requests in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route"},
	)

	// FormRejectionsTotal tracks submissions blocked before reaching the backend
	FormRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "h2a",
			Subsystem: "forms",
			Name:      "rejections_total",
			Help:      "Form submissions rejected locally, by form and reason",
		},
		[]string{"form", "reason"},
	)

	// PageErrorsTotal tracks pages rendered as errors
	PageErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "h2a",
			Subsystem: "pages",
			Name:      "errors_total",
			Help:      "Pages that ended in an error response, by status code",
		},
		[]string{"status_code"},
	)
)

var numericSegment = regexp.MustCompile(`/\d+(/|$)`)

// RouteLabel collapses numeric path segments so item paths share one label.
func RouteLabel(path string) string {
	for numericSegment.MatchString(path) {
		path = numericSegment.ReplaceAllString(path, "/:id$1")
	}
	return path
}

// Handler exposes the default registry.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
