package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yourusername/survey-api/internal/handler/dto"
)

// QuestionHandler обрабатывает запросы, связанные с вопросами опроса
type QuestionHandler struct {
	questionService QuestionService
	logger          *zap.Logger
}

// NewQuestionHandler создает новый обработчик вопросов
func NewQuestionHandler(questionService QuestionService, logger *zap.Logger) *QuestionHandler {
	return &QuestionHandler{questionService: questionService, logger: logger.With(zap.String("component", "question_handler"))}
}

// CreateQuestionRequest представляет запрос на создание вопроса
type CreateQuestionRequest struct {
	Number  int    `json:"number" binding:"required,min=1,max=5"`
	Content string `json:"content" binding:"required,min=3,max=255"`
}

// UpdateQuestionRequest представляет запрос на изменение текста вопроса
type UpdateQuestionRequest struct {
	Content string `json:"content" binding:"required,min=3,max=255"`
}

// ListQuestions возвращает вопросы опроса
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	surveyID := c.MustGet(ParamSurveyID).(uint)

	questions, err := h.questionService.ListQuestions(c.Request.Context(), surveyID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListQuestionResponse(questions))
}

// GetQuestion возвращает вопрос опроса
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	surveyID := c.MustGet(ParamSurveyID).(uint)
	questionID := c.MustGet(ParamQuestionID).(uint)

	question, err := h.questionService.GetQuestion(c.Request.Context(), surveyID, questionID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewQuestionResponse(question))
}

// CreateQuestion добавляет вопрос в опрос
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	surveyID := c.MustGet(ParamSurveyID).(uint)
	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	question, err := h.questionService.CreateQuestion(c.Request.Context(), actor, surveyID, req.Number, req.Content)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewQuestionResponse(question))
}

// UpdateQuestion меняет текст вопроса
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	surveyID := c.MustGet(ParamSurveyID).(uint)
	questionID := c.MustGet(ParamQuestionID).(uint)
	var req UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	question, err := h.questionService.UpdateQuestion(c.Request.Context(), actor, surveyID, questionID, req.Content)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewQuestionResponse(question))
}

// DeleteQuestion удаляет вопрос с вариантами
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	surveyID := c.MustGet(ParamSurveyID).(uint)
	questionID := c.MustGet(ParamQuestionID).(uint)

	if err := h.questionService.DeleteQuestion(c.Request.Context(), actor, surveyID, questionID); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeletedResponse{ID: questionID})
}
