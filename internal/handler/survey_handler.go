package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/yourusername/survey-api/internal/handler/dto"
	"github.com/yourusername/survey-api/internal/service"
)

// SurveyHandler обрабатывает запросы, связанные с опросами
type SurveyHandler struct {
	surveyService SurveyService
	logger        *zap.Logger
}

// NewSurveyHandler создает новый обработчик опросов
func NewSurveyHandler(surveyService SurveyService, logger *zap.Logger) *SurveyHandler {
	return &SurveyHandler{surveyService: surveyService, logger: logger.With(zap.String("component", "survey_handler"))}
}

// SurveyRequest представляет запрос на создание или изменение опроса
type SurveyRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=100"`
	Description string `json:"description" binding:"required,min=3,max=500"`
}

// ListSurveys возвращает страницу опросов
// GET /api/surveys?page=1&page_size=20
func (h *SurveyHandler) ListSurveys(c *gin.Context) {
	page, pageSize := pageParams(c)
	surveys, err := h.surveyService.ListSurveys(c.Request.Context(), page, pageSize)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListSurveyResponse(surveys))
}

// ListDoneSurveys возвращает страницу завершенных опросов
func (h *SurveyHandler) ListDoneSurveys(c *gin.Context) {
	page, pageSize := pageParams(c)
	surveys, err := h.surveyService.ListDoneSurveys(c.Request.Context(), page, pageSize)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewListSurveyResponse(surveys))
}

// GetSurvey возвращает опрос с вопросами и вариантами
func (h *SurveyHandler) GetSurvey(c *gin.Context) {
	surveyID := c.MustGet(ParamSurveyID).(uint)

	survey, err := h.surveyService.GetSurvey(c.Request.Context(), surveyID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSurveyResponse(survey, true))
}

// CreateSurvey обрабатывает запрос на создание опроса
func (h *SurveyHandler) CreateSurvey(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req SurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	survey, err := h.surveyService.CreateSurvey(c.Request.Context(), actor, req.Title, req.Description)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewSurveyResponse(survey, false))
}

// UpdateSurvey обрабатывает запрос на изменение опроса
func (h *SurveyHandler) UpdateSurvey(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	surveyID := c.MustGet(ParamSurveyID).(uint)
	var req SurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	survey, err := h.surveyService.UpdateSurvey(c.Request.Context(), actor, surveyID, req.Title, req.Description)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSurveyResponse(survey, false))
}

// DeleteSurvey удаляет опрос вместе с вопросами и вариантами
func (h *SurveyHandler) DeleteSurvey(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	surveyID := c.MustGet(ParamSurveyID).(uint)

	if err := h.surveyService.DeleteSurvey(c.Request.Context(), actor, surveyID); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.DeletedResponse{ID: surveyID})
}

// CompleteSurvey завершает опрос, если на все вопросы есть ответы
// POST /api/surveys/:surveyId/complete
func (h *SurveyHandler) CompleteSurvey(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	surveyID := c.MustGet(ParamSurveyID).(uint)

	survey, err := h.surveyService.CompleteSurvey(c.Request.Context(), actor, surveyID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSurveyResponse(survey, false))
}

// ExportSurvey выгружает результаты опроса в CSV или Excel
// GET /api/surveys/:surveyId/export?format=csv|xlsx
func (h *SurveyHandler) ExportSurvey(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	surveyID := c.MustGet(ParamSurveyID).(uint)
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx", "error_type": "bad_request"})
		return
	}

	report, err := h.surveyService.ExportSurvey(c.Request.Context(), actor, surveyID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	filename := fmt.Sprintf("survey_%d_results_%s", surveyID, time.Now().Format("2006-01-02"))
	if format == "xlsx" {
		h.exportXLSX(c, report, filename)
		return
	}
	h.exportCSV(c, report, filename)
}

var exportHeaders = []string{"Номер вопроса", "Вопрос", "Отвечен", "Номер варианта", "Вариант", "Балл"}

func reportCells(row service.ReportRow) []string {
	answered := "Нет"
	optionNumber := ""
	if row.Answered {
		answered = "Да"
		optionNumber = strconv.Itoa(row.OptionNumber)
	}
	return []string{
		strconv.Itoa(row.QuestionNumber),
		sanitizeForExcel(row.Question),
		answered,
		optionNumber,
		sanitizeForExcel(row.Option),
		strconv.Itoa(row.Score),
	}
}

// exportCSV пишет выгрузку в CSV; строка "Итого" содержит сумму баллов опроса
func (h *SurveyHandler) exportCSV(c *gin.Context, report *service.SurveyReport, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))
	c.Status(http.StatusOK)

	// BOM для корректного отображения UTF-8 в Excel
	if _, err := c.Writer.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		h.logger.Warn("failed to write csv export", zap.Error(err))
		return
	}

	writer := csv.NewWriter(c.Writer)
	_ = writer.Write(exportHeaders)
	for _, row := range report.Rows {
		_ = writer.Write(reportCells(row))
	}
	_ = writer.Write([]string{"", "Итого", "", "", "", strconv.Itoa(report.Survey.TotalScore)})
	writer.Flush()
	if err := writer.Error(); err != nil {
		h.logger.Warn("failed to write csv export", zap.Uint("survey_id", report.Survey.ID), zap.Error(err))
	}
}

// exportXLSX пишет выгрузку в Excel через StreamWriter
func (h *SurveyHandler) exportXLSX(c *gin.Context, report *service.SurveyReport, filename string) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Результаты"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		h.failExport(c, err)
		return
	}
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		h.failExport(c, err)
		return
	}

	headers := make([]interface{}, len(exportHeaders))
	for i, v := range exportHeaders {
		headers[i] = v
	}
	if err := sw.SetRow("A1", headers); err != nil {
		h.failExport(c, err)
		return
	}

	rowNum := 2
	for _, row := range report.Rows {
		cells := reportCells(row)
		values := []interface{}{row.QuestionNumber, cells[1], cells[2], cells[3], cells[4], row.Score}
		if err := sw.SetRow(fmt.Sprintf("A%d", rowNum), values); err != nil {
			h.failExport(c, err)
			return
		}
		rowNum++
	}
	if err := sw.SetRow(fmt.Sprintf("A%d", rowNum), []interface{}{nil, "Итого", nil, nil, nil, report.Survey.TotalScore}); err != nil {
		h.failExport(c, err)
		return
	}
	if err := sw.Flush(); err != nil {
		h.failExport(c, err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		h.logger.Warn("failed to write xlsx export", zap.Uint("survey_id", report.Survey.ID), zap.Error(err))
	}
}

func (h *SurveyHandler) failExport(c *gin.Context, err error) {
	h.logger.Error("failed to build xlsx export", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file", "error_type": "internal_server_error"})
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

// pageParams читает page и page_size; некорректные значения нормализует сервис
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return page, pageSize
}
