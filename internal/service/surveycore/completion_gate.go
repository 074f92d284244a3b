package surveycore

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/internal/domain/repository"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
	"github.com/yourusername/survey-api/pkg/monitoring"
)

// CompletionGate разрешает переход done=false -> true только после ответа на все вопросы
type CompletionGate struct {
	guard     *Guard
	surveys   repository.SurveyRepository
	questions repository.QuestionRepository
}

// NewCompletionGate создает gate поверх репозиториев текущей транзакции
func NewCompletionGate(guard *Guard, surveys repository.SurveyRepository, questions repository.QuestionRepository) *CompletionGate {
	return &CompletionGate{guard: guard, surveys: surveys, questions: questions}
}

// Complete проверяет по порядку: роль, существование опроса, повторное завершение,
// наличие вопросов, ответы на все вопросы. Неуспешная попытка ничего не меняет.
func (g *CompletionGate) Complete(ctx context.Context, surveyID uint, actor entity.Actor) (*entity.Survey, error) {
	if err := g.guard.Authorize(actor, ActionComplete, NewTarget(TargetSurvey)); err != nil {
		monitoring.Completions.WithLabelValues("unauthorized").Inc()
		return nil, err
	}

	survey, err := g.surveys.GetByIDForUpdate(ctx, surveyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			monitoring.Completions.WithLabelValues("not_found").Inc()
			return nil, apperrors.Newf(apperrors.ErrNotFound, "survey %d not found", surveyID)
		}
		return nil, fmt.Errorf("load survey %d: %w", surveyID, err)
	}
	if survey.Done {
		monitoring.Completions.WithLabelValues("already_done").Inc()
		return nil, apperrors.New(apperrors.ErrBadRequest, "survey is already completed")
	}

	questions, err := g.questions.ListBySurvey(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("list questions of survey %d: %w", surveyID, err)
	}
	if len(questions) == 0 {
		monitoring.Completions.WithLabelValues("no_questions").Inc()
		return nil, apperrors.Newf(apperrors.ErrNotFound, "survey %d has no questions", surveyID)
	}

	unanswered := 0
	for i := range questions {
		if !questions[i].State().IsAnswered() {
			unanswered++
		}
	}
	if unanswered > 0 {
		monitoring.Completions.WithLabelValues("incomplete").Inc()
		return nil, apperrors.Newf(apperrors.ErrBadRequest, "%d of %d questions are not answered", unanswered, len(questions))
	}

	if err := g.surveys.MarkDone(ctx, surveyID); err != nil {
		return nil, fmt.Errorf("mark survey %d done: %w", surveyID, err)
	}
	survey.Done = true
	monitoring.Completions.WithLabelValues("completed").Inc()
	return survey, nil
}
