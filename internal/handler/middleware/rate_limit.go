package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// RateLimit caps requests per client IP using a redis counter: incr with a
// one second expiry, reject once the count passes qps.
func RateLimit(redisClient *redis.Client, qps int, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		key := "rate_limit:" + ip

		ctx := c.Request.Context()
		count, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			logger.Error("rate limit check failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "rate limit service unavailable"})
			c.Abort()
			return
		}
		if count == 1 {
			redisClient.Expire(ctx, key, time.Second)
		}

		if count > int64(qps) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests, slow down",
				"qps":   qps,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
