package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/yourusername/survey-api/internal/domain/entity"
)

// AnswerRepo реализует repository.AnswerRepository
type AnswerRepo struct {
	db *gorm.DB
}

// NewAnswerRepo создает новый репозиторий ответов
func NewAnswerRepo(db *gorm.DB) *AnswerRepo {
	return &AnswerRepo{db: db}
}

// Create создает ответ; второй ответ на тот же вопрос отклоняется уникальным индексом
func (r *AnswerRepo) Create(ctx context.Context, answer *entity.Answer) error {
	return translateError(r.db.WithContext(ctx).Create(answer).Error)
}

// GetByID возвращает ответ по ID
func (r *AnswerRepo) GetByID(ctx context.Context, id uint) (*entity.Answer, error) {
	var answer entity.Answer
	if err := r.db.WithContext(ctx).First(&answer, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &answer, nil
}

// GetByQuestion возвращает ответ на вопрос
func (r *AnswerRepo) GetByQuestion(ctx context.Context, questionID uint) (*entity.Answer, error) {
	var answer entity.Answer
	if err := r.db.WithContext(ctx).Where("question_id = ?", questionID).First(&answer).Error; err != nil {
		return nil, translateError(err)
	}
	return &answer, nil
}

// ListBySurvey возвращает ответы опроса
func (r *AnswerRepo) ListBySurvey(ctx context.Context, surveyID uint) ([]entity.Answer, error) {
	var answers []entity.Answer
	err := r.db.WithContext(ctx).Where("survey_id = ?", surveyID).Order("question_id ASC").Find(&answers).Error
	return answers, err
}

// UpdateNumber меняет выбранный вариант
func (r *AnswerRepo) UpdateNumber(ctx context.Context, id uint, number int) error {
	result := r.db.WithContext(ctx).Model(&entity.Answer{}).
		Where("id = ?", id).
		Update("number", number)
	return rowsOrNotFound(result)
}

// Delete удаляет ответ
func (r *AnswerRepo) Delete(ctx context.Context, id uint) error {
	return rowsOrNotFound(r.db.WithContext(ctx).Delete(&entity.Answer{}, id))
}
