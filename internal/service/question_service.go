package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/internal/domain/repository"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
	"github.com/yourusername/survey-api/internal/service/surveycore"
)

// QuestionService предоставляет методы для работы с вопросами опроса
type QuestionService struct {
	base
}

// NewQuestionService создает новый сервис вопросов
func NewQuestionService(deps Deps) (*QuestionService, error) {
	b, err := newBase(deps, "question_service")
	if err != nil {
		return nil, err
	}
	return &QuestionService{base: b}, nil
}

// CreateQuestion добавляет вопрос в опрос. Номер 1..5 и текст уникальны в пределах опроса.
func (s *QuestionService) CreateQuestion(ctx context.Context, actor entity.Actor, surveyID uint, number int, content string) (*entity.Question, error) {
	content = strings.TrimSpace(content)
	if number < entity.MinQuestionNumber || number > entity.MaxQuestionNumber {
		return nil, apperrors.Newf(apperrors.ErrBadRequest, "question number must be between %d and %d",
			entity.MinQuestionNumber, entity.MaxQuestionNumber)
	}
	if content == "" {
		return nil, apperrors.New(apperrors.ErrValidation, "question content is required")
	}

	question := &entity.Question{
		SurveyID: surveyID,
		OwnerID:  actor.ID,
		Number:   number,
		Content:  content,
	}
	err := s.inTx(ctx, func(repos repository.Repositories, core *surveycore.Core) error {
		if err := core.Guard.Authorize(actor, surveycore.ActionCreate, surveycore.NewTarget(surveycore.TargetQuestion)); err != nil {
			return err
		}
		survey, err := repos.Surveys.GetByIDForUpdate(ctx, surveyID)
		if err != nil {
			return notFound(err, "survey %d not found", surveyID)
		}
		if survey.Done {
			return apperrors.New(apperrors.ErrBadRequest, "cannot add questions to a completed survey")
		}

		exists, err := repos.Questions.ExistsByNumber(ctx, surveyID, number)
		if err != nil {
			return fmt.Errorf("failed to check question number: %w", err)
		}
		if exists {
			return apperrors.New(apperrors.ErrConflict, "duplicate question number")
		}
		exists, err = repos.Questions.ExistsByContent(ctx, surveyID, content, 0)
		if err != nil {
			return fmt.Errorf("failed to check question content: %w", err)
		}
		if exists {
			return apperrors.New(apperrors.ErrConflict, "duplicate question content")
		}

		if err := repos.Questions.Create(ctx, question); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				return err
			}
			return fmt.Errorf("failed to create question: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("create_question", err, zap.Uint("survey_id", surveyID))
		return nil, err
	}

	s.invalidateSurvey(surveyID)
	return question, nil
}

// UpdateQuestion меняет текст вопроса; номер и состояние ответа не меняются
func (s *QuestionService) UpdateQuestion(ctx context.Context, actor entity.Actor, surveyID, questionID uint, content string) (*entity.Question, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.New(apperrors.ErrValidation, "question content is required")
	}

	var updated *entity.Question
	err := s.inTx(ctx, func(repos repository.Repositories, core *surveycore.Core) error {
		question, err := repos.Questions.GetByIDForUpdate(ctx, surveyID, questionID)
		if err != nil {
			return notFound(err, "question %d not found in survey %d", questionID, surveyID)
		}
		if err := core.Guard.Authorize(actor, surveycore.ActionUpdate, surveycore.QuestionTarget(question)); err != nil {
			return err
		}
		exists, err := repos.Questions.ExistsByContent(ctx, surveyID, content, questionID)
		if err != nil {
			return fmt.Errorf("failed to check question content: %w", err)
		}
		if exists {
			return apperrors.New(apperrors.ErrConflict, "duplicate question content")
		}
		if err := repos.Questions.UpdateContent(ctx, questionID, content); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				return err
			}
			return fmt.Errorf("failed to update question %d: %w", questionID, err)
		}
		question.Content = content
		updated = question
		return nil
	})
	if err != nil {
		s.logFailure("update_question", err, zap.Uint("question_id", questionID))
		return nil, err
	}

	s.invalidateSurvey(surveyID)
	return updated, nil
}

// DeleteQuestion удаляет вопрос с вариантами. Балл отвеченного вопроса вычитается из опроса.
func (s *QuestionService) DeleteQuestion(ctx context.Context, actor entity.Actor, surveyID, questionID uint) error {
	err := s.inTx(ctx, func(repos repository.Repositories, core *surveycore.Core) error {
		question, err := lockQuestion(ctx, repos, surveyID, questionID)
		if err != nil {
			return err
		}
		if err := core.Guard.Authorize(actor, surveycore.ActionDelete, surveycore.QuestionTarget(question)); err != nil {
			return err
		}

		score := question.State().Score()
		if err := repos.Questions.Delete(ctx, questionID); err != nil {
			return notFound(err, "question %d not found in survey %d", questionID, surveyID)
		}
		if _, err := core.Ledger.ApplyDelta(ctx, surveyID, -score, surveycore.OpQuestionDelete); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		s.logFailure("delete_question", err, zap.Uint("question_id", questionID))
		return err
	}

	s.invalidateSurvey(surveyID)
	return nil
}

// ListQuestions возвращает вопросы опроса по возрастанию номера
func (s *QuestionService) ListQuestions(ctx context.Context, surveyID uint) ([]entity.Question, error) {
	if _, err := s.repos.Surveys.GetByID(ctx, surveyID); err != nil {
		return nil, notFound(err, "survey %d not found", surveyID)
	}
	questions, err := s.repos.Questions.ListBySurvey(ctx, surveyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions of survey %d: %w", surveyID, err)
	}
	return questions, nil
}

// GetQuestion возвращает вопрос опроса
func (s *QuestionService) GetQuestion(ctx context.Context, surveyID, questionID uint) (*entity.Question, error) {
	question, err := s.repos.Questions.GetByID(ctx, surveyID, questionID)
	if err != nil {
		return nil, notFound(err, "question %d not found in survey %d", questionID, surveyID)
	}
	return question, nil
}
