package backend

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	backendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogfront_backend_requests_total",
			Help: "Total number of requests sent to the blog backend",
		},
		[]string{"method", "endpoint", "status"},
	)

	backendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blogfront_backend_request_duration_seconds",
			Help:    "Duration of blog backend requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// observe records one request. status 0 means the request never got a response.
func observe(method, endpoint string, status int, d time.Duration) {
	label := "error"
	if status != 0 {
		label = strconv.Itoa(status)
	}
	backendRequestsTotal.WithLabelValues(method, endpoint, label).Inc()
	backendRequestDuration.WithLabelValues(method, endpoint).Observe(d.Seconds())
}
