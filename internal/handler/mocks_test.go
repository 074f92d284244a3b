package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/internal/service"
)

type MockSurveyService struct{ mock.Mock }

func (m *MockSurveyService) CreateSurvey(ctx context.Context, actor entity.Actor, title, description string) (*entity.Survey, error) {
	args := m.Called(ctx, actor, title, description)
	return surveyOrNil(args.Get(0)), args.Error(1)
}

func (m *MockSurveyService) UpdateSurvey(ctx context.Context, actor entity.Actor, surveyID uint, title, description string) (*entity.Survey, error) {
	args := m.Called(ctx, actor, surveyID, title, description)
	return surveyOrNil(args.Get(0)), args.Error(1)
}

func (m *MockSurveyService) DeleteSurvey(ctx context.Context, actor entity.Actor, surveyID uint) error {
	return m.Called(ctx, actor, surveyID).Error(0)
}

func (m *MockSurveyService) GetSurvey(ctx context.Context, surveyID uint) (*entity.Survey, error) {
	args := m.Called(ctx, surveyID)
	return surveyOrNil(args.Get(0)), args.Error(1)
}

func (m *MockSurveyService) ListSurveys(ctx context.Context, page, pageSize int) ([]entity.Survey, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]entity.Survey), args.Error(1)
}

func (m *MockSurveyService) ListDoneSurveys(ctx context.Context, page, pageSize int) ([]entity.Survey, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]entity.Survey), args.Error(1)
}

func (m *MockSurveyService) CompleteSurvey(ctx context.Context, actor entity.Actor, surveyID uint) (*entity.Survey, error) {
	args := m.Called(ctx, actor, surveyID)
	return surveyOrNil(args.Get(0)), args.Error(1)
}

func (m *MockSurveyService) ExportSurvey(ctx context.Context, actor entity.Actor, surveyID uint) (*service.SurveyReport, error) {
	args := m.Called(ctx, actor, surveyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SurveyReport), args.Error(1)
}

func surveyOrNil(v interface{}) *entity.Survey {
	if v == nil {
		return nil
	}
	return v.(*entity.Survey)
}

type MockQuestionService struct{ mock.Mock }

func (m *MockQuestionService) CreateQuestion(ctx context.Context, actor entity.Actor, surveyID uint, number int, content string) (*entity.Question, error) {
	args := m.Called(ctx, actor, surveyID, number, content)
	return questionOrNil(args.Get(0)), args.Error(1)
}

func (m *MockQuestionService) UpdateQuestion(ctx context.Context, actor entity.Actor, surveyID, questionID uint, content string) (*entity.Question, error) {
	args := m.Called(ctx, actor, surveyID, questionID, content)
	return questionOrNil(args.Get(0)), args.Error(1)
}

func (m *MockQuestionService) DeleteQuestion(ctx context.Context, actor entity.Actor, surveyID, questionID uint) error {
	return m.Called(ctx, actor, surveyID, questionID).Error(0)
}

func (m *MockQuestionService) ListQuestions(ctx context.Context, surveyID uint) ([]entity.Question, error) {
	args := m.Called(ctx, surveyID)
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionService) GetQuestion(ctx context.Context, surveyID, questionID uint) (*entity.Question, error) {
	args := m.Called(ctx, surveyID, questionID)
	return questionOrNil(args.Get(0)), args.Error(1)
}

func questionOrNil(v interface{}) *entity.Question {
	if v == nil {
		return nil
	}
	return v.(*entity.Question)
}

type MockOptionService struct{ mock.Mock }

func (m *MockOptionService) CreateOption(ctx context.Context, actor entity.Actor, surveyID, questionID uint, number int, content string, score int) (*entity.Option, error) {
	args := m.Called(ctx, actor, surveyID, questionID, number, content, score)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Option), args.Error(1)
}

func (m *MockOptionService) UpdateOption(ctx context.Context, actor entity.Actor, surveyID, questionID, optionID uint, content string, score int) (*entity.Option, error) {
	args := m.Called(ctx, actor, surveyID, questionID, optionID, content, score)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Option), args.Error(1)
}

func (m *MockOptionService) DeleteOption(ctx context.Context, actor entity.Actor, surveyID, questionID, optionID uint) error {
	return m.Called(ctx, actor, surveyID, questionID, optionID).Error(0)
}

func (m *MockOptionService) ListOptions(ctx context.Context, surveyID, questionID uint) ([]entity.Option, error) {
	args := m.Called(ctx, surveyID, questionID)
	return args.Get(0).([]entity.Option), args.Error(1)
}

type MockAnswerService struct{ mock.Mock }

func (m *MockAnswerService) CreateAnswer(ctx context.Context, actor entity.Actor, surveyID, questionID uint, number int) (*entity.Answer, error) {
	args := m.Called(ctx, actor, surveyID, questionID, number)
	return answerOrNil(args.Get(0)), args.Error(1)
}

func (m *MockAnswerService) UpdateAnswer(ctx context.Context, actor entity.Actor, surveyID, questionID, answerID uint, number int) (*entity.Answer, error) {
	args := m.Called(ctx, actor, surveyID, questionID, answerID, number)
	return answerOrNil(args.Get(0)), args.Error(1)
}

func (m *MockAnswerService) DeleteAnswer(ctx context.Context, actor entity.Actor, surveyID, questionID, answerID uint) (uint, error) {
	args := m.Called(ctx, actor, surveyID, questionID, answerID)
	return args.Get(0).(uint), args.Error(1)
}

func (m *MockAnswerService) GetAnswer(ctx context.Context, actor entity.Actor, surveyID, questionID, answerID uint) (*entity.Answer, error) {
	args := m.Called(ctx, actor, surveyID, questionID, answerID)
	return answerOrNil(args.Get(0)), args.Error(1)
}

func answerOrNil(v interface{}) *entity.Answer {
	if v == nil {
		return nil
	}
	return v.(*entity.Answer)
}

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) RegisterUser(ctx context.Context, username, email, password string, role entity.Role) (*entity.User, error) {
	args := m.Called(ctx, username, email, password, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAuthService) LoginUser(ctx context.Context, email, password string) (*service.AuthResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResult), args.Error(1)
}

func (m *MockAuthService) GetUserByID(ctx context.Context, userID uint) (*entity.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}
