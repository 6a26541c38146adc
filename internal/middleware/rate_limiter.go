package middleware

import (
	_ "embed"
	"fmt"
	"net/http"
	"time"

	"exercise_tracker/internal/config"
	"exercise_tracker/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

//go:embed rate_limiter.lua
var luaScript string

var tokenBucket = redis.NewScript(luaScript)

// RateLimiterConfig holds rate limiter configuration
type RateLimiterConfig struct {
	Capacity   int     // Maximum number of tokens (burst size)
	RefillRate float64 // Tokens refilled per second
}

// DefaultRateLimiterConfig returns 10 requests per second with a burst of 20.
func DefaultRateLimiterConfig() *RateLimiterConfig {
	return &RateLimiterConfig{
		Capacity:   20,
		RefillRate: 10.0,
	}
}

// NewRateLimiterConfig builds the limiter settings from application config.
func NewRateLimiterConfig(cfg config.RateLimitConfig) *RateLimiterConfig {
	return &RateLimiterConfig{
		Capacity:   cfg.Capacity,
		RefillRate: cfg.RefillRate,
	}
}

// RateLimiterMiddleware applies a per-client-IP token bucket kept in Redis.
// When Redis is unreachable the request is let through.
func RateLimiterMiddleware(redisClient *redis.Client, cfg *RateLimiterConfig, metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := ClientRateLimiterKey(c.ClientIP())
		now := time.Now().UnixMilli()

		allowed, err := tokenBucket.Run(c.Request.Context(), redisClient, []string{key},
			cfg.Capacity,
			cfg.RefillRate,
			now,
		).Int64()
		if err != nil {
			logrus.WithError(err).Error("Failed to execute rate limiter Lua script")
			c.Next()
			return
		}

		if allowed == 0 {
			metrics.RateLimited()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}

// ClientRateLimiterKey builds the bucket key for a client address.
func ClientRateLimiterKey(clientIP string) string {
	return fmt.Sprintf("rate_limiter:ip:%s", clientIP)
}
