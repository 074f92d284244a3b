package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/survey-api/internal/domain/repository"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
	"github.com/yourusername/survey-api/internal/service/surveycore"
)

const defaultTxTimeout = 5 * time.Second

// Deps - общие зависимости сервисов опросов
type Deps struct {
	UoW   repository.UnitOfWork
	Repos repository.Repositories
	// Cache может быть nil: тогда карточки опросов не кешируются
	Cache     repository.CacheRepository
	Logger    *zap.Logger
	TxTimeout time.Duration
	CacheTTL  time.Duration
}

// base выполняет транзакции и сбрасывает кеш после успешной записи
type base struct {
	uow       repository.UnitOfWork
	repos     repository.Repositories
	cache     repository.CacheRepository
	logger    *zap.Logger
	txTimeout time.Duration
	cacheTTL  time.Duration
}

func newBase(deps Deps, component string) (base, error) {
	if deps.UoW == nil {
		return base{}, fmt.Errorf("UnitOfWork is required for %s", component)
	}
	if deps.Repos.Surveys == nil || deps.Repos.Questions == nil || deps.Repos.Options == nil || deps.Repos.Answers == nil {
		return base{}, fmt.Errorf("all repositories are required for %s", component)
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	txTimeout := deps.TxTimeout
	if txTimeout <= 0 {
		txTimeout = defaultTxTimeout
	}
	return base{
		uow:       deps.UoW,
		repos:     deps.Repos,
		cache:     deps.Cache,
		logger:    logger.With(zap.String("component", component)),
		txTimeout: txTimeout,
		cacheTTL:  deps.CacheTTL,
	}, nil
}

// inTx выполняет fn в одной транзакции с ограничением по времени.
// Ядро согласованности собирается поверх репозиториев именно этой транзакции.
func (b *base) inTx(ctx context.Context, fn func(repos repository.Repositories, core *surveycore.Core) error) error {
	ctx, cancel := context.WithTimeout(ctx, b.txTimeout)
	defer cancel()
	return b.uow.Do(ctx, func(repos repository.Repositories) error {
		return fn(repos, surveycore.New(repos, b.logger))
	})
}

func surveyCacheKey(surveyID uint) string {
	return fmt.Sprintf("survey:%d", surveyID)
}

// invalidateSurvey сбрасывает кеш карточки; ошибка кеша не влияет на результат операции
func (b *base) invalidateSurvey(surveyID uint) {
	if b.cache == nil {
		return
	}
	if err := b.cache.Delete(surveyCacheKey(surveyID)); err != nil {
		b.logger.Warn("failed to invalidate survey cache", zap.Uint("survey_id", surveyID), zap.Error(err))
	}
}

// notFound уточняет причину для ErrNotFound из репозитория, остальные ошибки оборачивает
func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return err
		}
		return apperrors.Newf(apperrors.ErrNotFound, format, args...)
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// logFailure пишет неожиданные ошибки; бизнес-ошибки логируются на уровне Debug
func (b *base) logFailure(operation string, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("operation", operation), zap.Error(err))
	var appErr *apperrors.Error
	if errors.As(err, &appErr) && !errors.Is(err, apperrors.ErrInvariant) {
		b.logger.Debug("operation rejected", fields...)
		return
	}
	b.logger.Error("operation failed", fields...)
}
