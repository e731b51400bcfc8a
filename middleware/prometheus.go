package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogfront_http_requests_total",
			Help: "Total number of front-end HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blogfront_http_request_duration_seconds",
			Help:    "Duration of front-end HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	viewRendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogfront_view_renders_total",
			Help: "Views rendered, by view and outcome",
		},
		[]string{"view", "outcome"},
	)
)

// PrometheusMiddleware records count and latency per route template.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordRender counts one view render. outcome is "ok", "superseded" or "error".
func RecordRender(view, outcome string) {
	viewRendersTotal.WithLabelValues(view, outcome).Inc()
}
