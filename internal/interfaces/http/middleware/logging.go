package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gemmology-dev/crystal-api/internal/infrastructure/monitoring/logging"
	"github.com/gemmology-dev/crystal-api/internal/infrastructure/monitoring/prometheus"
)

// Logging emits one structured log entry per request and records the HTTP
// metrics.  It expects RequestID to run earlier in the chain.
func Logging(log logging.Logger, metrics *prometheus.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if metrics != nil {
			metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, itoa(status)).Inc()
			metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(latency.Seconds())
		}

		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", path),
			logging.Int("status", status),
			logging.Duration("latency", latency),
			logging.String("request_id", GetRequestID(c)),
			logging.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logging.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			log.Error("request failed", fields...)
		case status >= 400:
			log.Warn("request rejected", fields...)
		default:
			log.Info("request served", fields...)
		}
	}
}

func itoa(v int) string {
	// Status codes are three digits; avoid strconv for the hot path.
	return string([]byte{byte('0' + v/100), byte('0' + v/10%10), byte('0' + v%10)})
}
