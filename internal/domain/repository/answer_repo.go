package repository

import (
	"context"

	"github.com/yourusername/survey-api/internal/domain/entity"
)

// AnswerRepository определяет методы для работы с ответами
type AnswerRepository interface {
	Create(ctx context.Context, answer *entity.Answer) error
	GetByID(ctx context.Context, id uint) (*entity.Answer, error)
	GetByQuestion(ctx context.Context, questionID uint) (*entity.Answer, error)
	ListBySurvey(ctx context.Context, surveyID uint) ([]entity.Answer, error)
	UpdateNumber(ctx context.Context, id uint, number int) error
	Delete(ctx context.Context, id uint) error
}
