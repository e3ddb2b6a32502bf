package middleware

import (
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kiteran/userd/pkg/consts"
	"github.com/kiteran/userd/pkg/utils/response"
)

// LoggingMiddleware writes one access log line per request after the
// handler chain finished.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		slog.InfoContext(c, "request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"clientIp", c.ClientIP(),
			"requestId", c.GetString(consts.ContextKeyRequestID),
		)
	}
}

func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.ErrorContext(c, "panic recovered", "reason", recovered, "stack", string(debug.Stack()))
		response.Abort(c, recovered)
	})
}
