package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pastas-console/cmd/api/trace"
	"pastas-console/cmd/internal/logger"
)

// RequestLoggingMiddleware 는 라우트 단위 요약 로그를 남긴다.
// 백엔드 장애(5xx)는 error, 핸들러가 c.Error 로 남긴 실패는 warn, 나머지는 debug 다.
func RequestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := logger.Fields{
			"route":       c.FullPath(),
			"method":      c.Request.Method,
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  trace.RequestIDFromContext(c.Request.Context()),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		switch {
		case status >= http.StatusInternalServerError:
			logger.ErrorWithFields("api_request", fields)
		case len(c.Errors) > 0:
			logger.WarnWithFields("api_request", fields)
		default:
			logger.DebugWithFields("api_request", fields)
		}
	}
}
