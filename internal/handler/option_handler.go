package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/survey-api/internal/handler/dto"
)

// OptionHandler обрабатывает запросы, связанные с вариантами ответа
type OptionHandler struct {
	optionService OptionService
	logger        *zap.Logger
}

// NewOptionHandler создает новый обработчик вариантов
func NewOptionHandler(optionService OptionService, logger *zap.Logger) *OptionHandler {
	return &OptionHandler{optionService: optionService, logger: logger.With(zap.String("component", "option_handler"))}
}

// CreateOptionRequest представляет запрос на создание варианта
type CreateOptionRequest struct {
	Number  int    `json:"number" binding:"required,min=1,max=5"`
	Content string `json:"content" binding:"required,min=1,max=255"`
	Score   int    `json:"score" binding:"required,min=1,max=5"`
}

// UpdateOptionRequest представляет запрос на изменение варианта; номер не меняется
type UpdateOptionRequest struct {
	Content string `json:"content" binding:"required,min=1,max=255"`
	Score   int    `json:"score" binding:"required,min=1,max=5"`
}

// ListOptions возвращает варианты вопроса
func (h *OptionHandler) ListOptions(c *gin.Context) {
	surveyID := c.MustGet(ParamSurveyID).(uint)
	questionID := c.MustGet(ParamQuestionID).(uint)

	options, err := h.optionService.ListOptions(c.Request.Context(), surveyID, questionID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListOptionResponse(options))
}

// CreateOption добавляет вариант к вопросу
func (h *OptionHandler) CreateOption(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	surveyID := c.MustGet(ParamSurveyID).(uint)
	questionID := c.MustGet(ParamQuestionID).(uint)
	var req CreateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	option, err := h.optionService.CreateOption(c.Request.Context(), actor, surveyID, questionID, req.Number, req.Content, req.Score)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewOptionResponse(option))
}

// UpdateOption меняет текст и балл варианта
func (h *OptionHandler) UpdateOption(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	surveyID := c.MustGet(ParamSurveyID).(uint)
	questionID := c.MustGet(ParamQuestionID).(uint)
	optionID := c.MustGet(ParamOptionID).(uint)
	var req UpdateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	option, err := h.optionService.UpdateOption(c.Request.Context(), actor, surveyID, questionID, optionID, req.Content, req.Score)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewOptionResponse(option))
}

// DeleteOption удаляет вариант
func (h *OptionHandler) DeleteOption(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	surveyID := c.MustGet(ParamSurveyID).(uint)
	questionID := c.MustGet(ParamQuestionID).(uint)
	optionID := c.MustGet(ParamOptionID).(uint)

	if err := h.optionService.DeleteOption(c.Request.Context(), actor, surveyID, questionID, optionID); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeletedResponse{ID: optionID})
}
