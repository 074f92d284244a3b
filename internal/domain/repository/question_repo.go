package repository

import (
	"context"

	"github.com/yourusername/survey-api/internal/domain/entity"
)

// QuestionRepository определяет методы для работы с вопросами
type QuestionRepository interface {
	Create(ctx context.Context, question *entity.Question) error
	// GetByID ищет вопрос в пределах опроса
	GetByID(ctx context.Context, surveyID, id uint) (*entity.Question, error)
	// GetByIDForUpdate блокирует строку вопроса до конца транзакции
	GetByIDForUpdate(ctx context.Context, surveyID, id uint) (*entity.Question, error)
	ListBySurvey(ctx context.Context, surveyID uint) ([]entity.Question, error)

	ExistsByNumber(ctx context.Context, surveyID uint, number int) (bool, error)
	ExistsByContent(ctx context.Context, surveyID uint, content string, excludeID uint) (bool, error)

	UpdateContent(ctx context.Context, id uint, content string) error
	// SaveState сохраняет is_answered, score и answered_option_id
	SaveState(ctx context.Context, question *entity.Question) error
	// Delete удаляет вопрос каскадно вместе с вариантами
	Delete(ctx context.Context, id uint) error
}
