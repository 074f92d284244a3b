package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/internal/middleware"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
)

// statusFor возвращает HTTP статус для вида бизнес-ошибки
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// handleServiceError отвечает клиенту {"error": причина, "error_type": вид}.
// Внутренние ошибки логируются, а клиенту возвращается общий текст.
func handleServiceError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("internal server error",
			zap.String("path", c.FullPath()),
			zap.String("request_id", middleware.RequestIDFromContext(c)),
			zap.String("error_type", apperrors.KindName(err)),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"error": "Internal server error", "error_type": apperrors.KindName(err)})
		return
	}
	c.JSON(status, gin.H{"error": apperrors.Reason(err), "error_type": apperrors.KindName(err)})
}

// bindError отвечает 400 на ошибку разбора или валидации тела запроса
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "bad_request"})
}

// requireActor достает актора, установленного RequireAuth; без него отвечает 401
func requireActor(c *gin.Context) (entity.Actor, bool) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "unauthorized"})
	}
	return actor, ok
}
