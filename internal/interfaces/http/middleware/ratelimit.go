package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/servis-automat/servis/internal/infrastructure/ratelimit"
	"github.com/servis-automat/servis/internal/shared/logger"
	"github.com/servis-automat/servis/internal/shared/utils"
)

// RateLimit limits requests per client IP under the given key prefix. When
// the backing store fails the request is let through.
func RateLimit(limiter ratelimit.RateLimiter, prefix string, w ratelimit.Window, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		if w.Limit <= 0 {
			c.Next()
			return
		}

		key := prefix + ":" + c.ClientIP()
		allowed, err := limiter.Allow(c.Request.Context(), key, w)
		if err != nil {
			log.Warnw("rate limiter unavailable, allowing request", "key", key, "error", err)
			c.Next()
			return
		}
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(w.Duration.Seconds())))
			utils.ErrorResponse(c, http.StatusTooManyRequests, "too many attempts, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
