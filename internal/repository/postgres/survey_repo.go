package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/survey-api/internal/domain/entity"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
)

// SurveyRepo реализует repository.SurveyRepository
type SurveyRepo struct {
	db *gorm.DB
}

// NewSurveyRepo создает новый репозиторий опросов
func NewSurveyRepo(db *gorm.DB) *SurveyRepo {
	return &SurveyRepo{db: db}
}

// Create создает новый опрос
func (r *SurveyRepo) Create(ctx context.Context, survey *entity.Survey) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(survey).Error)
}

// GetByID возвращает опрос по ID
func (r *SurveyRepo) GetByID(ctx context.Context, id uint) (*entity.Survey, error) {
	var survey entity.Survey
	if err := r.db.WithContext(ctx).First(&survey, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &survey, nil
}

// GetByIDForUpdate возвращает опрос с блокировкой строки (SELECT ... FOR UPDATE)
func (r *SurveyRepo) GetByIDForUpdate(ctx context.Context, id uint) (*entity.Survey, error) {
	var survey entity.Survey
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&survey, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &survey, nil
}

// GetWithQuestions возвращает опрос с вопросами и вариантами, упорядоченными по номеру
func (r *SurveyRepo) GetWithQuestions(ctx context.Context, id uint) (*entity.Survey, error) {
	var survey entity.Survey
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.number ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.number ASC")
		}).
		First(&survey, id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &survey, nil
}

// List возвращает список опросов с пагинацией
func (r *SurveyRepo) List(ctx context.Context, limit, offset int) ([]entity.Survey, error) {
	var surveys []entity.Survey
	err := r.db.WithContext(ctx).Order("id DESC").Limit(limit).Offset(offset).Find(&surveys).Error
	return surveys, err
}

// ListDone возвращает завершенные опросы
func (r *SurveyRepo) ListDone(ctx context.Context, limit, offset int) ([]entity.Survey, error) {
	var surveys []entity.Survey
	err := r.db.WithContext(ctx).
		Where("done = ?", true).
		Order("updated_at DESC").
		Limit(limit).Offset(offset).
		Find(&surveys).Error
	return surveys, err
}

// ExistsByTitle проверяет, занят ли заголовок другим опросом
func (r *SurveyRepo) ExistsByTitle(ctx context.Context, title string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Survey{}).
		Where("title = ? AND id <> ?", title, excludeID).
		Count(&count).Error
	return count > 0, err
}

// ExistsByDescription проверяет, занято ли описание другим опросом
func (r *SurveyRepo) ExistsByDescription(ctx context.Context, description string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Survey{}).
		Where("description = ? AND id <> ?", description, excludeID).
		Count(&count).Error
	return count > 0, err
}

// UpdateDetails обновляет заголовок и описание
func (r *SurveyRepo) UpdateDetails(ctx context.Context, id uint, title, description string) error {
	result := r.db.WithContext(ctx).Model(&entity.Survey{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"title": title, "description": description})
	return rowsOrNotFound(result)
}

// UpdateTotalScore записывает новый суммарный балл; CHECK (total_score >= 0) страхует инвариант на уровне БД
func (r *SurveyRepo) UpdateTotalScore(ctx context.Context, id uint, total int) error {
	result := r.db.WithContext(ctx).Model(&entity.Survey{}).
		Where("id = ?", id).
		Update("total_score", total)
	return rowsOrNotFound(result)
}

// MarkDone переводит опрос в завершенное состояние
func (r *SurveyRepo) MarkDone(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&entity.Survey{}).
		Where("id = ?", id).
		Update("done", true)
	return rowsOrNotFound(result)
}

// Delete удаляет опрос; вопросы и варианты удаляются каскадом (ON DELETE CASCADE)
func (r *SurveyRepo) Delete(ctx context.Context, id uint) error {
	return rowsOrNotFound(r.db.WithContext(ctx).Delete(&entity.Survey{}, id))
}

// rowsOrNotFound возвращает ErrNotFound, если запрос не затронул ни одной строки
func rowsOrNotFound(result *gorm.DB) error {
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
