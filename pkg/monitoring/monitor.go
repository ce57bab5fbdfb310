package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// 完整性引擎批处理指标
	SessionsScored = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "integrity_sessions_scored_total",
			Help: "Total number of sessions scored by the integrity engine",
		},
	)

	SessionsFlagged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integrity_sessions_flagged_total",
			Help: "Total number of sessions flagged as suspicious",
		},
		[]string{"risk_level"},
	)

	ProgressCorrected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "integrity_progress_corrections_total",
			Help: "Total number of stored progress values overridden at read time",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(SessionsScored)
	prometheus.MustRegister(SessionsFlagged)
	prometheus.MustRegister(ProgressCorrected)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
