// Package middleware holds the gin middleware: authentication, role checks, request
// logging and the error envelope writers used by the controllers.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/assigntrack/internal/pkg/logger"
)

// RequestLogger logs one line per request with zerolog
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		if status >= 500 {
			event = logger.Error()
		} else if status >= 400 {
			event = logger.Warn()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("ip", c.ClientIP()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	}
}
