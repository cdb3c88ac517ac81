package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"supplyspend/pkg/logger"
)

// Logger middleware puts a request-scoped logger into the request context
// and logs every request with timing and status. Health probes log at debug.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		reqLog := log.WithContext(c.Request.Context())
		c.Request = c.Request.WithContext(logger.WithLogger(c.Request.Context(), log))

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", status,
			"latency_ms", latency.Milliseconds(),
			"bytes", c.Writer.Size(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "error", c.Errors.Last().Error())
		}

		switch {
		case strings.HasPrefix(path, "/health/"):
			reqLog.Debugw("http request", fields...)
		case status >= 500:
			reqLog.Errorw("http request", fields...)
		default:
			reqLog.Infow("http request", fields...)
		}
	}
}
