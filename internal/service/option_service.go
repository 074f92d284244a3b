package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/internal/domain/repository"
	"github.com/yourusername/survey-api/internal/service/surveycore"
)

// OptionService предоставляет методы для работы с вариантами ответа
type OptionService struct {
	base
}

// NewOptionService создает новый сервис вариантов
func NewOptionService(deps Deps) (*OptionService, error) {
	b, err := newBase(deps, "option_service")
	if err != nil {
		return nil, err
	}
	return &OptionService{base: b}, nil
}

// CreateOption добавляет вариант к вопросу. Номера создаются подряд, начиная с 1.
func (s *OptionService) CreateOption(ctx context.Context, actor entity.Actor, surveyID, questionID uint, number int, content string, score int) (*entity.Option, error) {
	var created *entity.Option
	err := s.inTx(ctx, func(repos repository.Repositories, core *surveycore.Core) error {
		// Блокировка вопроса сериализует создание вариантов одного вопроса
		question, err := lockQuestion(ctx, repos, surveyID, questionID)
		if err != nil {
			return err
		}
		if err := core.Guard.Authorize(actor, surveycore.ActionCreate, surveycore.OptionTarget(question)); err != nil {
			return err
		}
		option, err := core.Options.CreateOption(ctx, surveyID, questionID, number, content, score)
		if err != nil {
			return err
		}
		created = option
		return nil
	})
	if err != nil {
		s.logFailure("create_option", err, zap.Uint("question_id", questionID), zap.Int("number", number))
		return nil, err
	}

	s.invalidateSurvey(surveyID)
	return created, nil
}

// UpdateOption меняет текст и балл варианта. Если вариант выбран текущим ответом,
// новый балл переносится в вопрос и в сумму опроса в той же транзакции.
func (s *OptionService) UpdateOption(ctx context.Context, actor entity.Actor, surveyID, questionID, optionID uint, content string, score int) (*entity.Option, error) {
	var updated *entity.Option
	err := s.inTx(ctx, func(repos repository.Repositories, core *surveycore.Core) error {
		question, option, err := lockOption(ctx, repos, surveyID, questionID, optionID)
		if err != nil {
			return err
		}
		if err := core.Guard.Authorize(actor, surveycore.ActionUpdate, surveycore.OptionTarget(question)); err != nil {
			return err
		}
		if err := core.Options.UpdateOption(ctx, option, content, score); err != nil {
			return err
		}

		if delta := core.States.Rescore(question, option); delta != 0 {
			if err := repos.Questions.SaveState(ctx, question); err != nil {
				return fmt.Errorf("failed to save question %d state: %w", questionID, err)
			}
			if _, err := core.Ledger.ApplyDelta(ctx, surveyID, delta, surveycore.OpOptionRescore); err != nil {
				return err
			}
		}
		updated = option
		return nil
	})
	if err != nil {
		s.logFailure("update_option", err, zap.Uint("option_id", optionID))
		return nil, err
	}

	s.invalidateSurvey(surveyID)
	return updated, nil
}

// DeleteOption удаляет вариант, если он не выбран текущим ответом
func (s *OptionService) DeleteOption(ctx context.Context, actor entity.Actor, surveyID, questionID, optionID uint) error {
	err := s.inTx(ctx, func(repos repository.Repositories, core *surveycore.Core) error {
		question, option, err := lockOption(ctx, repos, surveyID, questionID, optionID)
		if err != nil {
			return err
		}
		if err := core.Guard.Authorize(actor, surveycore.ActionDelete, surveycore.OptionTarget(question)); err != nil {
			return err
		}
		return core.Options.DeleteOption(ctx, question, option)
	})
	if err != nil {
		s.logFailure("delete_option", err, zap.Uint("option_id", optionID))
		return err
	}

	s.invalidateSurvey(surveyID)
	return nil
}

// ListOptions возвращает варианты вопроса по возрастанию номера
func (s *OptionService) ListOptions(ctx context.Context, surveyID, questionID uint) ([]entity.Option, error) {
	if _, err := s.repos.Questions.GetByID(ctx, surveyID, questionID); err != nil {
		return nil, notFound(err, "question %d not found in survey %d", questionID, surveyID)
	}
	options, err := s.repos.Options.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list options of question %d: %w", questionID, err)
	}
	return options, nil
}

// lockOption блокирует опрос и вопрос и загружает вариант вопроса
func lockOption(ctx context.Context, repos repository.Repositories, surveyID, questionID, optionID uint) (*entity.Question, *entity.Option, error) {
	question, err := lockQuestion(ctx, repos, surveyID, questionID)
	if err != nil {
		return nil, nil, err
	}
	option, err := repos.Options.GetByID(ctx, questionID, optionID)
	if err != nil {
		return nil, nil, notFound(err, "option %d not found for question %d", optionID, questionID)
	}
	return question, option, nil
}
