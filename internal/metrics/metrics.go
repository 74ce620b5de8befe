package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts HTTP requests by method, route and status
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metadata_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// RequestDuration tracks HTTP request processing time
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "metadata_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// OwnerLookupsTotal counts ownership resolutions by outcome
	OwnerLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metadata_owner_lookups_total",
			Help: "Total number of on-chain ownership lookups",
		},
		[]string{"network", "outcome"},
	)

	// SessionsPurged counts expired sessions removed by the sweep
	SessionsPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "metadata_sessions_purged_total",
			Help: "Total number of expired metadata sessions purged",
		},
	)

	// LogoUploads counts logo uploads by storage backend
	LogoUploads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "metadata_logo_uploads_total",
			Help: "Total number of logo uploads",
		},
		[]string{"backend"},
	)
)

// Middleware records request counts and latencies per route
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler returns the prometheus scrape handler
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
