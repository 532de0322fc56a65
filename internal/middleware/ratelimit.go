package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// NewRateLimiter builds an in-memory limiter from a formatted rate such as "100-M".
func NewRateLimiter(formatted string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	return limiter.New(memory.NewStore(), rate), nil
}

// RateLimit creates a Gin middleware for rate limiting requests by client IP.
func RateLimit(limiterInstance *limiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		logger := GetLoggerFromCtx(c.Request.Context())

		lctx, err := limiterInstance.Get(c.Request.Context(), ip)
		if err != nil {
			logger.Error("Failed to get rate limit context", slog.String("ip", ip), slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during rate limit check"})
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))

		if lctx.Reached {
			logger.Warn("Rate limit exceeded", slog.String("ip", ip), slog.Int64("limit", lctx.Limit))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please try again later."})
			return
		}

		c.Next()
	}
}
