package middleware

import (
	"net/http"
	"time"

	"skate_app/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

var rateLimiter *redis.Client

// InitRedisRateLimiter connects the shared limiter backend. With no
// address the limiter disables itself and every request passes.
func InitRedisRateLimiter(addr, password string, db int) {
	if addr == "" {
		logger.Warn("rate limiter disabled: no redis address")
		rateLimiter = nil
		return
	}
	rateLimiter = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// RateLimit caps each caller at limit requests per window, counted
// per user when authenticated and per client IP otherwise. The
// limiter fails open: when redis is down the request goes through.
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rateLimiter == nil || limit <= 0 {
			c.Next()
			return
		}

		who := c.GetString("userID")
		if who == "" {
			who = c.ClientIP()
		}
		key := "skate:rl:" + who

		ctx := c.Request.Context()
		n, err := rateLimiter.Incr(ctx, key).Result()
		if err != nil {
			logger.Warn("rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if n == 1 {
			rateLimiter.Expire(ctx, key, window)
		}
		if n > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
