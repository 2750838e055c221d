package middleware

import (
	"net/http"
	"time"

	"quickfeedback/internal/infra/ratelimit"
	"quickfeedback/internal/shared/logger"

	"github.com/gin-gonic/gin"
)

// RateLimitByIP allows at most perMinute requests per client IP. A nil
// limiter or a non-positive limit disables the check. Limiter errors fail open.
func RateLimitByIP(l ratelimit.Limiter, scope string, perMinute int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil || perMinute <= 0 {
			c.Next()
			return
		}

		ok, err := l.Allow(c.Request.Context(), scope+":"+c.ClientIP(), perMinute, time.Minute)
		if err != nil {
			logger.WithComponent("ratelimit").Warn("rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if !ok {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again later."})
			return
		}
		c.Next()
	}
}
