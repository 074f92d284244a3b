package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/survey-api/internal/handler/dto"
)

// AnswerHandler обрабатывает запросы на изменение ответов
type AnswerHandler struct {
	answerService AnswerService
	logger        *zap.Logger
}

// NewAnswerHandler создает новый обработчик ответов
func NewAnswerHandler(answerService AnswerService, logger *zap.Logger) *AnswerHandler {
	return &AnswerHandler{answerService: answerService, logger: logger.With(zap.String("component", "answer_handler"))}
}

// AnswerRequest содержит номер выбранного варианта
type AnswerRequest struct {
	Number int `json:"number" binding:"required,min=1,max=5"`
}

// CreateAnswer отвечает на вопрос
// POST /api/surveys/:surveyId/questions/:questionId/answers
func (h *AnswerHandler) CreateAnswer(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	surveyID := c.MustGet(ParamSurveyID).(uint)
	questionID := c.MustGet(ParamQuestionID).(uint)
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	answer, err := h.answerService.CreateAnswer(c.Request.Context(), actor, surveyID, questionID, req.Number)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewAnswerResponse(answer))
}

// GetAnswer возвращает ответ его владельцу
func (h *AnswerHandler) GetAnswer(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	surveyID := c.MustGet(ParamSurveyID).(uint)
	questionID := c.MustGet(ParamQuestionID).(uint)
	answerID := c.MustGet(ParamAnswerID).(uint)

	answer, err := h.answerService.GetAnswer(c.Request.Context(), actor, surveyID, questionID, answerID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAnswerResponse(answer))
}

// UpdateAnswer меняет выбранный вариант
func (h *AnswerHandler) UpdateAnswer(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	surveyID := c.MustGet(ParamSurveyID).(uint)
	questionID := c.MustGet(ParamQuestionID).(uint)
	answerID := c.MustGet(ParamAnswerID).(uint)
	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	answer, err := h.answerService.UpdateAnswer(c.Request.Context(), actor, surveyID, questionID, answerID, req.Number)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewAnswerResponse(answer))
}

// DeleteAnswer удаляет ответ
func (h *AnswerHandler) DeleteAnswer(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	surveyID := c.MustGet(ParamSurveyID).(uint)
	questionID := c.MustGet(ParamQuestionID).(uint)
	answerID := c.MustGet(ParamAnswerID).(uint)

	deletedID, err := h.answerService.DeleteAnswer(c.Request.Context(), actor, surveyID, questionID, answerID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeletedResponse{ID: deletedID})
}
