package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/survey-api/internal/domain/repository"
)

const (
	// IdempotencyHeader - клиентский ключ для безопасного повтора изменяющих запросов
	IdempotencyHeader = "Idempotency-Key"
	maxIdempotencyKey = 128
)

// Idempotency отклоняет повтор запроса с тем же Idempotency-Key (409 duplicate_request).
// Ключ привязан к пользователю и маршруту. Если запрос завершился ошибкой,
// ключ освобождается, чтобы клиент мог повторить его.
// При недоступности Redis запрос пропускается (fail-open).
// Должен применяться ПОСЛЕ RequireAuth.
func Idempotency(cache repository.CacheRepository, ttl time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" || cache == nil {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKey {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Idempotency-Key is too long", "error_type": "bad_request"})
			return
		}

		userID, _ := c.Get(ContextUserID)
		cacheKey := fmt.Sprintf("idem:%v:%s:%s:%s", userID, c.Request.Method, c.FullPath(), key)

		stored, err := cache.SetNX(cacheKey, time.Now().Unix(), ttl)
		if err != nil {
			logger.Warn("idempotency check failed, allowing request (fail-open)",
				zap.String("key", cacheKey), zap.Error(err))
			c.Next()
			return
		}
		if !stored {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error":      "Request with this Idempotency-Key was already processed",
				"error_type": "duplicate_request",
			})
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := cache.Delete(cacheKey); err != nil {
				logger.Warn("failed to release idempotency key", zap.String("key", cacheKey), zap.Error(err))
			}
		}
	}
}
