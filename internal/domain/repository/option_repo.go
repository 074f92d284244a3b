package repository

import (
	"context"

	"github.com/yourusername/survey-api/internal/domain/entity"
)

// OptionRepository определяет методы для работы с вариантами ответа
type OptionRepository interface {
	Create(ctx context.Context, option *entity.Option) error
	GetByID(ctx context.Context, questionID, id uint) (*entity.Option, error)
	GetByNumber(ctx context.Context, surveyID, questionID uint, number int) (*entity.Option, error)
	// ListByQuestion возвращает варианты вопроса по возрастанию номера
	ListByQuestion(ctx context.Context, questionID uint) ([]entity.Option, error)
	Update(ctx context.Context, option *entity.Option) error
	Delete(ctx context.Context, id uint) error
}
