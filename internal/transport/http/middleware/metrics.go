package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type HTTPMetrics struct {
	total   *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

// NewHTTPMetrics registers the request counters on reg. Both engines of one
// process share the same instance and are told apart by the engine label.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "http_requests_total", Help: "Count of HTTP requests"},
			[]string{"engine", "path", "method", "status"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Latency of HTTP requests",
				Buckets: prometheus.DefBuckets,
			}, []string{"engine", "path", "method"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.total, m.latency)
	}
	return m
}

func (m *HTTPMetrics) Handler(engine string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.total.WithLabelValues(engine, path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.latency.WithLabelValues(engine, path, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
