package middleware

import (
	"time"

	"minutes-qa-go/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestLogger 是一个 Gin 中间件，为每个请求生成 requestId 并记录概要日志。
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		requestID := uuid.NewString()
		c.Set("requestId", requestID)
		c.Header("X-Request-Id", requestID)

		c.Next()

		log.Infow("HTTP Request Log",
			"requestId", requestID,
			"statusCode", c.Writer.Status(),
			"latency", time.Since(startTime).String(),
			"clientIP", c.ClientIP(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"action", c.Query("action"),
		)
	}
}
