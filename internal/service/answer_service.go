package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/internal/domain/repository"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
	"github.com/yourusername/survey-api/internal/service/surveycore"
)

// AnswerService выполняет изменения ответов. Каждое изменение - одна транзакция:
// блокировка опроса, блокировка вопроса, выбор варианта, переход состояния вопроса,
// запись ответа и вопроса, применение дельты к сумме опроса.
type AnswerService struct {
	base
}

// NewAnswerService создает новый сервис ответов
func NewAnswerService(deps Deps) (*AnswerService, error) {
	b, err := newBase(deps, "answer_service")
	if err != nil {
		return nil, err
	}
	return &AnswerService{base: b}, nil
}

// CreateAnswer отвечает на вопрос вариантом с номером number
func (s *AnswerService) CreateAnswer(ctx context.Context, actor entity.Actor, surveyID, questionID uint, number int) (*entity.Answer, error) {
	var created *entity.Answer
	err := s.inTx(ctx, func(repos repository.Repositories, core *surveycore.Core) error {
		if err := core.Guard.Authorize(actor, surveycore.ActionCreate, surveycore.NewTarget(surveycore.TargetAnswer)); err != nil {
			return err
		}
		question, err := lockQuestion(ctx, repos, surveyID, questionID)
		if err != nil {
			return err
		}
		option, err := core.Options.ResolveByNumber(ctx, surveyID, questionID, number)
		if err != nil {
			return err
		}
		delta, err := core.States.Answer(question, option)
		if err != nil {
			return err
		}

		answer := &entity.Answer{
			SurveyID:   surveyID,
			QuestionID: questionID,
			OwnerID:    actor.ID,
			Number:     option.Number,
		}
		if err := repos.Answers.Create(ctx, answer); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				return apperrors.New(apperrors.ErrConflict, "question is already answered")
			}
			return fmt.Errorf("failed to create answer: %w", err)
		}
		if err := repos.Questions.SaveState(ctx, question); err != nil {
			return fmt.Errorf("failed to save question %d state: %w", questionID, err)
		}
		if _, err := core.Ledger.ApplyDelta(ctx, surveyID, delta, surveycore.OpAnswerCreate); err != nil {
			return err
		}
		created = answer
		return nil
	})
	if err != nil {
		s.logFailure("create_answer", err, zap.Uint("question_id", questionID), zap.Uint("actor_id", actor.ID))
		return nil, err
	}

	s.invalidateSurvey(surveyID)
	return created, nil
}

// UpdateAnswer меняет выбранный вариант ответа; дельта newScore - oldScore
func (s *AnswerService) UpdateAnswer(ctx context.Context, actor entity.Actor, surveyID, questionID, answerID uint, number int) (*entity.Answer, error) {
	var updated *entity.Answer
	err := s.inTx(ctx, func(repos repository.Repositories, core *surveycore.Core) error {
		question, err := lockQuestion(ctx, repos, surveyID, questionID)
		if err != nil {
			return err
		}
		answer, err := loadAnswer(ctx, repos.Answers, surveyID, questionID, answerID)
		if err != nil {
			return err
		}
		if err := core.Guard.Authorize(actor, surveycore.ActionUpdate, surveycore.AnswerTarget(answer)); err != nil {
			return err
		}
		option, err := core.Options.ResolveByNumber(ctx, surveyID, questionID, number)
		if err != nil {
			return err
		}
		delta, err := core.States.Reanswer(question, option)
		if err != nil {
			return err
		}

		if err := repos.Answers.UpdateNumber(ctx, answerID, option.Number); err != nil {
			return notFound(err, "answer %d not found", answerID)
		}
		if err := repos.Questions.SaveState(ctx, question); err != nil {
			return fmt.Errorf("failed to save question %d state: %w", questionID, err)
		}
		if _, err := core.Ledger.ApplyDelta(ctx, surveyID, delta, surveycore.OpAnswerUpdate); err != nil {
			return err
		}
		answer.Number = option.Number
		updated = answer
		return nil
	})
	if err != nil {
		s.logFailure("update_answer", err, zap.Uint("answer_id", answerID), zap.Uint("actor_id", actor.ID))
		return nil, err
	}

	s.invalidateSurvey(surveyID)
	return updated, nil
}

// DeleteAnswer удаляет ответ; вопрос становится неотвеченным, его балл вычитается.
// Флаг done опроса не сбрасывается.
func (s *AnswerService) DeleteAnswer(ctx context.Context, actor entity.Actor, surveyID, questionID, answerID uint) (uint, error) {
	err := s.inTx(ctx, func(repos repository.Repositories, core *surveycore.Core) error {
		question, err := lockQuestion(ctx, repos, surveyID, questionID)
		if err != nil {
			return err
		}
		answer, err := loadAnswer(ctx, repos.Answers, surveyID, questionID, answerID)
		if err != nil {
			return err
		}
		if err := core.Guard.Authorize(actor, surveycore.ActionDelete, surveycore.AnswerTarget(answer)); err != nil {
			return err
		}
		delta, err := core.States.Clear(question)
		if err != nil {
			return err
		}

		if err := repos.Answers.Delete(ctx, answerID); err != nil {
			return notFound(err, "answer %d not found", answerID)
		}
		if err := repos.Questions.SaveState(ctx, question); err != nil {
			return fmt.Errorf("failed to save question %d state: %w", questionID, err)
		}
		if _, err := core.Ledger.ApplyDelta(ctx, surveyID, delta, surveycore.OpAnswerDelete); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		s.logFailure("delete_answer", err, zap.Uint("answer_id", answerID), zap.Uint("actor_id", actor.ID))
		return 0, err
	}

	s.invalidateSurvey(surveyID)
	return answerID, nil
}

// GetAnswer возвращает ответ его владельцу
func (s *AnswerService) GetAnswer(ctx context.Context, actor entity.Actor, surveyID, questionID, answerID uint) (*entity.Answer, error) {
	answer, err := loadAnswer(ctx, s.repos.Answers, surveyID, questionID, answerID)
	if err != nil {
		return nil, err
	}
	if err := surveycore.NewGuard().Authorize(actor, surveycore.ActionRead, surveycore.AnswerTarget(answer)); err != nil {
		return nil, err
	}
	return answer, nil
}

// lockQuestion блокирует опрос и вопрос в фиксированном порядке
func lockQuestion(ctx context.Context, repos repository.Repositories, surveyID, questionID uint) (*entity.Question, error) {
	if _, err := repos.Surveys.GetByIDForUpdate(ctx, surveyID); err != nil {
		return nil, notFound(err, "survey %d not found", surveyID)
	}
	question, err := repos.Questions.GetByIDForUpdate(ctx, surveyID, questionID)
	if err != nil {
		return nil, notFound(err, "question %d not found in survey %d", questionID, surveyID)
	}
	return question, nil
}

// loadAnswer загружает ответ и проверяет, что он относится к указанному вопросу
func loadAnswer(ctx context.Context, answers repository.AnswerRepository, surveyID, questionID, answerID uint) (*entity.Answer, error) {
	answer, err := answers.GetByID(ctx, answerID)
	if err != nil {
		return nil, notFound(err, "answer %d not found", answerID)
	}
	if answer.SurveyID != surveyID || answer.QuestionID != questionID {
		return nil, apperrors.Newf(apperrors.ErrNotFound, "answer %d not found for question %d", answerID, questionID)
	}
	return answer, nil
}
