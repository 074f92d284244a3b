package repository

import (
	"context"

	"github.com/yourusername/survey-api/internal/domain/entity"
)

// SurveyRepository определяет методы для работы с опросами
type SurveyRepository interface {
	Create(ctx context.Context, survey *entity.Survey) error
	GetByID(ctx context.Context, id uint) (*entity.Survey, error)
	// GetByIDForUpdate блокирует строку опроса до конца транзакции
	GetByIDForUpdate(ctx context.Context, id uint) (*entity.Survey, error)
	// GetWithQuestions загружает опрос вместе с вопросами и их вариантами
	GetWithQuestions(ctx context.Context, id uint) (*entity.Survey, error)
	List(ctx context.Context, limit, offset int) ([]entity.Survey, error)
	ListDone(ctx context.Context, limit, offset int) ([]entity.Survey, error)

	// Проверки уникальности; excludeID исключает сам редактируемый опрос
	ExistsByTitle(ctx context.Context, title string, excludeID uint) (bool, error)
	ExistsByDescription(ctx context.Context, description string, excludeID uint) (bool, error)

	UpdateDetails(ctx context.Context, id uint, title, description string) error
	UpdateTotalScore(ctx context.Context, id uint, total int) error
	MarkDone(ctx context.Context, id uint) error
	// Delete удаляет опрос каскадно вместе с вопросами и вариантами (но не ответами)
	Delete(ctx context.Context, id uint) error
}
