package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/pkg/auth"
)

// Ключи контекста Gin
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
	contextActor  = "actor"
)

// TokenParser проверяет access-токен; реализуется auth.JWTService
type TokenParser interface {
	ParseToken(tokenString string) (*auth.JWTCustomClaims, error)
}

// AuthMiddleware обеспечивает аутентификацию для защищенных маршрутов
type AuthMiddleware struct {
	tokens TokenParser
	logger *zap.Logger
}

// NewAuthMiddleware создает новый middleware аутентификации
func NewAuthMiddleware(tokens TokenParser, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{tokens: tokens, logger: logger.With(zap.String("component", "auth_middleware"))}
}

// RequireAuth проверяет заголовок Authorization: Bearer {token}
// и кладет актора (id + роль) в контекст
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required", "error_type": "token_missing"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}", "error_type": "token_format"})
			return
		}

		claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			m.logger.Debug("token rejected", zap.String("request_id", RequestIDFromContext(c)), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "error_type": "token_invalid"})
			return
		}

		actor := claims.Actor()
		c.Set(ContextUserID, actor.ID)
		c.Set(ContextRole, string(actor.Role))
		c.Set(contextActor, actor)
		c.Next()
	}
}

// ActorFromContext возвращает актора, установленного RequireAuth
func ActorFromContext(c *gin.Context) (entity.Actor, bool) {
	value, exists := c.Get(contextActor)
	if !exists {
		return entity.Actor{}, false
	}
	actor, ok := value.(entity.Actor)
	return actor, ok
}
