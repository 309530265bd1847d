// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "veyra_http_requests_total",
		Help: "Total HTTP requests by route and status.",
	}, []string{"route", "method", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "veyra_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	rateLimiterTrackedKeys = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "veyra_rate_limiter_tracked_keys",
		Help: "Number of keys currently tracked across all rate-limit groups.",
	})
)

// Observe records one completed request against route (the chi route
// pattern, not the raw path, to keep cardinality bounded).
func Observe(route, method string, status int, duration time.Duration) {
	requestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// SetRateLimiterTrackedKeys updates the rate-limiter gauge. Called
// periodically by the same janitor loop that prunes expired keys.
func SetRateLimiterTrackedKeys(n int) {
	rateLimiterTrackedKeys.Set(float64(n))
}

// Handler serves the Prometheus exposition format for GET /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
