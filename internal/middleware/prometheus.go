package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"eduportal-backend/pkg/metrics"
)

// PrometheusMiddleware records HTTP metrics per request
func PrometheusMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.IncrementHTTPRequestsInFlight()
		defer m.DecrementHTTPRequestsInFlight()

		start := time.Now()
		c.Next()

		m.RecordHTTPRequest(
			c.Request.Method,
			c.FullPath(),
			c.Writer.Status(),
			time.Since(start),
		)
	}
}

// MetricsHandler serves the Prometheus scrape endpoint. The service registry
// holds HTTP metrics; the default gatherer carries the chat collectors.
func MetricsHandler(m *metrics.Metrics) gin.HandlerFunc {
	gatherers := prometheus.Gatherers{m.Registry(), prometheus.DefaultGatherer}
	handler := promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		handler.ServeHTTP(c.Writer, c.Request)
	}
}
