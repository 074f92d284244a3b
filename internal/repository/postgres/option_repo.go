package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/yourusername/survey-api/internal/domain/entity"
)

// OptionRepo реализует repository.OptionRepository
type OptionRepo struct {
	db *gorm.DB
}

// NewOptionRepo создает новый репозиторий вариантов ответа
func NewOptionRepo(db *gorm.DB) *OptionRepo {
	return &OptionRepo{db: db}
}

// Create создает вариант; нарушение уникальных индексов превращается в ErrConflict
func (r *OptionRepo) Create(ctx context.Context, option *entity.Option) error {
	return translateError(r.db.WithContext(ctx).Create(option).Error)
}

// GetByID возвращает вариант вопроса по ID
func (r *OptionRepo) GetByID(ctx context.Context, questionID, id uint) (*entity.Option, error) {
	var option entity.Option
	err := r.db.WithContext(ctx).
		Where("id = ? AND question_id = ?", id, questionID).
		First(&option).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &option, nil
}

// GetByNumber возвращает вариант по номеру в пределах опроса и вопроса
func (r *OptionRepo) GetByNumber(ctx context.Context, surveyID, questionID uint, number int) (*entity.Option, error) {
	var option entity.Option
	err := r.db.WithContext(ctx).
		Where("survey_id = ? AND question_id = ? AND number = ?", surveyID, questionID, number).
		First(&option).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &option, nil
}

// ListByQuestion возвращает варианты вопроса по возрастанию номера
func (r *OptionRepo) ListByQuestion(ctx context.Context, questionID uint) ([]entity.Option, error) {
	var options []entity.Option
	err := r.db.WithContext(ctx).
		Where("question_id = ?", questionID).
		Order("number ASC").
		Find(&options).Error
	return options, err
}

// Update сохраняет текст и балл варианта
func (r *OptionRepo) Update(ctx context.Context, option *entity.Option) error {
	result := r.db.WithContext(ctx).Model(&entity.Option{}).
		Where("id = ?", option.ID).
		Updates(map[string]interface{}{"content": option.Content, "score": option.Score})
	return rowsOrNotFound(result)
}

// Delete удаляет вариант
func (r *OptionRepo) Delete(ctx context.Context, id uint) error {
	return rowsOrNotFound(r.db.WithContext(ctx).Delete(&entity.Option{}, id))
}
