package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/yourusername/survey-api/internal/config"
)

const rateLimitOpTimeout = 2 * time.Second

// RateLimiter - ограничитель частоты запросов с фиксированным окном в Redis
type RateLimiter struct {
	redisClient redis.UniversalClient
	keyPrefix   string
	logger      *zap.Logger
}

// NewRateLimiter создает новый RateLimiter; namespace совпадает с префиксом кеша
func NewRateLimiter(redisClient redis.UniversalClient, namespace string, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	prefix := "rl"
	if namespace != "" {
		prefix = namespace + ":rl"
	}
	return &RateLimiter{
		redisClient: redisClient,
		keyPrefix:   prefix,
		logger:      logger.With(zap.String("component", "rate_limiter")),
	}
}

// Limit возвращает Gin middleware с заданной конфигурацией.
// Ключ формируется из IP + шаблона маршрута. Ошибка Redis пропускает запрос (fail-open).
func (rl *RateLimiter) Limit(cfg config.RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.MaxRequests <= 0 {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		key := rl.keyPrefix + ":" + clientIP + ":" + path

		ctx, cancel := context.WithTimeout(c.Request.Context(), rateLimitOpTimeout)
		defer cancel()

		count, err := rl.redisClient.Incr(ctx, key).Result()
		if err != nil {
			rl.logger.Warn("redis error, allowing request (fail-open)", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		// Первый запрос в окне устанавливает TTL
		if count == 1 {
			if err := rl.redisClient.Expire(ctx, key, cfg.Window).Err(); err != nil {
				rl.logger.Warn("failed to set rate limit TTL", zap.String("key", key), zap.Error(err))
			}
		}

		retryAfter := int(cfg.Window.Seconds())
		if ttl, err := rl.redisClient.TTL(ctx, key).Result(); err == nil && ttl > 0 {
			retryAfter = int(ttl.Seconds())
		}
		remaining := cfg.MaxRequests - int(count)
		if remaining < 0 {
			remaining = 0
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.MaxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(retryAfter))

		if int(count) > cfg.MaxRequests {
			rl.logger.Info("rate limit exceeded",
				zap.String("client_ip", clientIP),
				zap.String("path", path),
				zap.Int64("count", count),
				zap.Int("limit", cfg.MaxRequests),
			)
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests. Please try again later.",
				"error_type":  "rate_limited",
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()
	}
}
