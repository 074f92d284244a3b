package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/yourusername/survey-api/internal/domain/repository"
)

// UnitOfWork реализует repository.UnitOfWork поверх транзакций gorm
type UnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork создает новый UnitOfWork
func NewUnitOfWork(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

// NewRepositories создает набор репозиториев, работающих на переданном соединении
func NewRepositories(db *gorm.DB) repository.Repositories {
	return repository.Repositories{
		Surveys:   NewSurveyRepo(db),
		Questions: NewQuestionRepo(db),
		Options:   NewOptionRepo(db),
		Answers:   NewAnswerRepo(db),
	}
}

// Do выполняет fn в транзакции. Любая ошибка откатывает транзакцию.
func (u *UnitOfWork) Do(ctx context.Context, fn func(repos repository.Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
