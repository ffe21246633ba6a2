package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"tapgame-backend/internal/common/logger"
)

// Logger writes one log line per request. Query strings are left out since they may carry initData.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		if status >= 500 {
			event = logger.Error()
		}

		event = event.
			Str("request_id", GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Int("body_size", c.Writer.Size())
		if user, ok := GetUser(c); ok {
			event = event.Int64("tg_user_id", user.ID)
		}
		event.Msg("Request processed")
	}
}
