package handler

import (
	"context"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/internal/service"
)

// Ключи контекста для параметров маршрута (см. middleware.ExtractUintParam)
const (
	ParamSurveyID   = "surveyID"
	ParamQuestionID = "questionID"
	ParamOptionID   = "optionID"
	ParamAnswerID   = "answerID"
)

// SurveyService - операции над опросами, которые использует SurveyHandler
type SurveyService interface {
	CreateSurvey(ctx context.Context, actor entity.Actor, title, description string) (*entity.Survey, error)
	UpdateSurvey(ctx context.Context, actor entity.Actor, surveyID uint, title, description string) (*entity.Survey, error)
	DeleteSurvey(ctx context.Context, actor entity.Actor, surveyID uint) error
	GetSurvey(ctx context.Context, surveyID uint) (*entity.Survey, error)
	ListSurveys(ctx context.Context, page, pageSize int) ([]entity.Survey, error)
	ListDoneSurveys(ctx context.Context, page, pageSize int) ([]entity.Survey, error)
	CompleteSurvey(ctx context.Context, actor entity.Actor, surveyID uint) (*entity.Survey, error)
	ExportSurvey(ctx context.Context, actor entity.Actor, surveyID uint) (*service.SurveyReport, error)
}

// QuestionService - операции над вопросами
type QuestionService interface {
	CreateQuestion(ctx context.Context, actor entity.Actor, surveyID uint, number int, content string) (*entity.Question, error)
	UpdateQuestion(ctx context.Context, actor entity.Actor, surveyID, questionID uint, content string) (*entity.Question, error)
	DeleteQuestion(ctx context.Context, actor entity.Actor, surveyID, questionID uint) error
	ListQuestions(ctx context.Context, surveyID uint) ([]entity.Question, error)
	GetQuestion(ctx context.Context, surveyID, questionID uint) (*entity.Question, error)
}

// OptionService - операции над вариантами ответа
type OptionService interface {
	CreateOption(ctx context.Context, actor entity.Actor, surveyID, questionID uint, number int, content string, score int) (*entity.Option, error)
	UpdateOption(ctx context.Context, actor entity.Actor, surveyID, questionID, optionID uint, content string, score int) (*entity.Option, error)
	DeleteOption(ctx context.Context, actor entity.Actor, surveyID, questionID, optionID uint) error
	ListOptions(ctx context.Context, surveyID, questionID uint) ([]entity.Option, error)
}

// AnswerService - операции над ответами
type AnswerService interface {
	CreateAnswer(ctx context.Context, actor entity.Actor, surveyID, questionID uint, number int) (*entity.Answer, error)
	UpdateAnswer(ctx context.Context, actor entity.Actor, surveyID, questionID, answerID uint, number int) (*entity.Answer, error)
	DeleteAnswer(ctx context.Context, actor entity.Actor, surveyID, questionID, answerID uint) (uint, error)
	GetAnswer(ctx context.Context, actor entity.Actor, surveyID, questionID, answerID uint) (*entity.Answer, error)
}

// AuthService - регистрация, вход и профиль
type AuthService interface {
	RegisterUser(ctx context.Context, username, email, password string, role entity.Role) (*entity.User, error)
	LoginUser(ctx context.Context, email, password string) (*service.AuthResult, error)
	GetUserByID(ctx context.Context, userID uint) (*entity.User, error)
}

var (
	_ SurveyService   = (*service.SurveyService)(nil)
	_ QuestionService = (*service.QuestionService)(nil)
	_ OptionService   = (*service.OptionService)(nil)
	_ AnswerService   = (*service.AnswerService)(nil)
	_ AuthService     = (*service.AuthService)(nil)
)
