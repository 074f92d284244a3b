package surveycore

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/internal/domain/repository"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
	"github.com/yourusername/survey-api/pkg/monitoring"
)

// Операции, порождающие дельты (метка метрики)
const (
	OpAnswerCreate   = "answer_create"
	OpAnswerUpdate   = "answer_update"
	OpAnswerDelete   = "answer_delete"
	OpOptionRescore  = "option_rescore"
	OpQuestionDelete = "question_delete"
)

// ScoreLedger применяет дельты к суммарному баллу опроса
type ScoreLedger struct {
	surveys repository.SurveyRepository
	logger  *zap.Logger
}

// NewScoreLedger создает ledger поверх репозитория текущей транзакции
func NewScoreLedger(surveys repository.SurveyRepository, logger *zap.Logger) *ScoreLedger {
	return &ScoreLedger{surveys: surveys, logger: logger}
}

// ApplyDelta прибавляет delta к total_score под блокировкой строки опроса.
// Отрицательный итог - нарушение инварианта: ошибка ErrInvariant, без записи и без обрезки до нуля.
func (l *ScoreLedger) ApplyDelta(ctx context.Context, surveyID uint, delta int, operation string) (*entity.Survey, error) {
	survey, err := l.surveys.GetByIDForUpdate(ctx, surveyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Newf(apperrors.ErrNotFound, "survey %d not found", surveyID)
		}
		return nil, fmt.Errorf("load survey %d for score update: %w", surveyID, err)
	}
	if delta == 0 {
		return survey, nil
	}

	newTotal := survey.TotalScore + delta
	if newTotal < 0 {
		monitoring.LedgerInvariantViolations.Inc()
		l.logger.Error("survey total score would become negative",
			zap.Uint("survey_id", surveyID),
			zap.Int("total_score", survey.TotalScore),
			zap.Int("delta", delta),
			zap.String("operation", operation),
		)
		return nil, apperrors.Newf(apperrors.ErrInvariant,
			"survey %d total score would become negative (%d%+d)", surveyID, survey.TotalScore, delta)
	}

	if err := l.surveys.UpdateTotalScore(ctx, surveyID, newTotal); err != nil {
		return nil, fmt.Errorf("update total score of survey %d: %w", surveyID, err)
	}
	survey.TotalScore = newTotal

	monitoring.ScoreDeltas.WithLabelValues(operation).Inc()
	l.logger.Debug("score delta applied",
		zap.Uint("survey_id", surveyID),
		zap.Int("delta", delta),
		zap.Int("total_score", newTotal),
		zap.String("operation", operation),
	)
	return survey, nil
}
