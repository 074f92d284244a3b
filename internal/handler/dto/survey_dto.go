package dto

import (
	"time"

	"github.com/yourusername/survey-api/internal/domain/entity"
)

// OptionResponse представляет вариант ответа в формате для ответа клиенту
type OptionResponse struct {
	ID         uint      `json:"id"`
	QuestionID uint      `json:"question_id"`
	Number     int       `json:"number"`
	Content    string    `json:"content"`
	Score      int       `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// QuestionResponse представляет вопрос в формате для ответа клиенту
type QuestionResponse struct {
	ID               uint             `json:"id"`
	SurveyID         uint             `json:"survey_id"`
	OwnerID          uint             `json:"owner_id"`
	Number           int              `json:"number"`
	Content          string           `json:"content"`
	IsAnswered       bool             `json:"is_answered"`
	Score            int              `json:"score"`
	AnsweredOptionID *uint            `json:"answered_option_id,omitempty"`
	Options          []OptionResponse `json:"options,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// SurveyResponse представляет опрос в формате для ответа клиенту
type SurveyResponse struct {
	ID            uint               `json:"id"`
	OwnerID       uint               `json:"owner_id"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Done          bool               `json:"done"`
	TotalScore    int                `json:"total_score"`
	QuestionCount int                `json:"question_count,omitempty"`
	AnsweredCount int                `json:"answered_count,omitempty"`
	Questions     []QuestionResponse `json:"questions,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// AnswerResponse представляет ответ респондента
type AnswerResponse struct {
	ID         uint      `json:"id"`
	SurveyID   uint      `json:"survey_id"`
	QuestionID uint      `json:"question_id"`
	OwnerID    uint      `json:"owner_id"`
	Number     int       `json:"number"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DeletedResponse возвращается на удаление ресурса
type DeletedResponse struct {
	ID uint `json:"id"`
}

// NewOptionResponse создает DTO для варианта
func NewOptionResponse(o *entity.Option) OptionResponse {
	return OptionResponse{
		ID:         o.ID,
		QuestionID: o.QuestionID,
		Number:     o.Number,
		Content:    o.Content,
		Score:      o.Score,
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
}

// NewListOptionResponse создает список DTO вариантов
func NewListOptionResponse(options []entity.Option) []OptionResponse {
	result := make([]OptionResponse, 0, len(options))
	for i := range options {
		result = append(result, NewOptionResponse(&options[i]))
	}
	return result
}

// NewQuestionResponse создает DTO для вопроса; варианты включаются, если загружены
func NewQuestionResponse(q *entity.Question) QuestionResponse {
	state := q.State()
	resp := QuestionResponse{
		ID:         q.ID,
		SurveyID:   q.SurveyID,
		OwnerID:    q.OwnerID,
		Number:     q.Number,
		Content:    q.Content,
		IsAnswered: state.IsAnswered(),
		Score:      state.Score(),
		CreatedAt:  q.CreatedAt,
		UpdatedAt:  q.UpdatedAt,
	}
	if state.IsAnswered() {
		optionID := state.OptionID()
		resp.AnsweredOptionID = &optionID
	}
	if len(q.Options) > 0 {
		resp.Options = NewListOptionResponse(q.Options)
	}
	return resp
}

// NewListQuestionResponse создает список DTO вопросов
func NewListQuestionResponse(questions []entity.Question) []QuestionResponse {
	result := make([]QuestionResponse, 0, len(questions))
	for i := range questions {
		result = append(result, NewQuestionResponse(&questions[i]))
	}
	return result
}

// NewSurveyResponse создает DTO для опроса
func NewSurveyResponse(s *entity.Survey, includeQuestions bool) *SurveyResponse {
	resp := &SurveyResponse{
		ID:          s.ID,
		OwnerID:     s.OwnerID,
		Title:       s.Title,
		Description: s.Description,
		Done:        s.Done,
		TotalScore:  s.TotalScore,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
	if includeQuestions {
		resp.QuestionCount = len(s.Questions)
		resp.AnsweredCount = s.AnsweredCount()
		resp.Questions = NewListQuestionResponse(s.Questions)
	}
	return resp
}

// NewListSurveyResponse создает список DTO опросов без вопросов
func NewListSurveyResponse(surveys []entity.Survey) []*SurveyResponse {
	result := make([]*SurveyResponse, 0, len(surveys))
	for i := range surveys {
		result = append(result, NewSurveyResponse(&surveys[i], false))
	}
	return result
}

// NewAnswerResponse создает DTO для ответа
func NewAnswerResponse(a *entity.Answer) *AnswerResponse {
	return &AnswerResponse{
		ID:         a.ID,
		SurveyID:   a.SurveyID,
		QuestionID: a.QuestionID,
		OwnerID:    a.OwnerID,
		Number:     a.Number,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}
