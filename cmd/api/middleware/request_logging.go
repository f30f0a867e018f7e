package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"nestly/cmd/api/auth"
	"nestly/internal/logger"
)

// RequestLoggingMiddleware 는 요청 진입부터 응답까지 걸린 시간을 로깅한다.
// 5xx 는 error, 4xx 는 warn 레벨로 남긴다.
func RequestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		fields := logger.Fields{
			"method":      method,
			"path":        path,
			"route":       c.FullPath(),
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
		}
		if userID := auth.UserID(c); userID != "" {
			fields["user_id"] = userID
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch {
		case status >= 500:
			logger.ErrorWithFields("api_request", fields)
		case status >= 400:
			logger.WarnWithFields("api_request", fields)
		default:
			logger.InfoWithFields("api_request", fields)
		}
	}
}
