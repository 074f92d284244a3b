package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/survey-api/internal/domain/entity"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// Create создает новый вопрос
func (r *QuestionRepo) Create(ctx context.Context, question *entity.Question) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(question).Error)
}

// GetByID возвращает вопрос опроса по ID
func (r *QuestionRepo) GetByID(ctx context.Context, surveyID, id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.WithContext(ctx).
		Where("id = ? AND survey_id = ?", id, surveyID).
		First(&question).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &question, nil
}

// GetByIDForUpdate возвращает вопрос с блокировкой строки
func (r *QuestionRepo) GetByIDForUpdate(ctx context.Context, surveyID, id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND survey_id = ?", id, surveyID).
		First(&question).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &question, nil
}

// ListBySurvey возвращает вопросы опроса по возрастанию номера
func (r *QuestionRepo) ListBySurvey(ctx context.Context, surveyID uint) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.WithContext(ctx).
		Where("survey_id = ?", surveyID).
		Order("number ASC").
		Find(&questions).Error
	return questions, err
}

// ExistsByNumber проверяет, занят ли номер в опросе
func (r *QuestionRepo) ExistsByNumber(ctx context.Context, surveyID uint, number int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Question{}).
		Where("survey_id = ? AND number = ?", surveyID, number).
		Count(&count).Error
	return count > 0, err
}

// ExistsByContent проверяет, занят ли текст другим вопросом опроса
func (r *QuestionRepo) ExistsByContent(ctx context.Context, surveyID uint, content string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Question{}).
		Where("survey_id = ? AND content = ? AND id <> ?", surveyID, content, excludeID).
		Count(&count).Error
	return count > 0, err
}

// UpdateContent меняет текст вопроса
func (r *QuestionRepo) UpdateContent(ctx context.Context, id uint, content string) error {
	result := r.db.WithContext(ctx).Model(&entity.Question{}).
		Where("id = ?", id).
		Update("content", content)
	return rowsOrNotFound(result)
}

// SaveState сохраняет состояние ответа вопроса
func (r *QuestionRepo) SaveState(ctx context.Context, question *entity.Question) error {
	result := r.db.WithContext(ctx).Model(&entity.Question{}).
		Where("id = ?", question.ID).
		Updates(map[string]interface{}{
			"is_answered":        question.IsAnswered,
			"score":              question.Score,
			"answered_option_id": question.AnsweredOptionID,
		})
	return rowsOrNotFound(result)
}

// Delete удаляет вопрос; варианты удаляются каскадом
func (r *QuestionRepo) Delete(ctx context.Context, id uint) error {
	return rowsOrNotFound(r.db.WithContext(ctx).Delete(&entity.Question{}, id))
}
