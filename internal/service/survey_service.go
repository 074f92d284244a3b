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

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// SurveyService предоставляет методы для работы с опросами
type SurveyService struct {
	base
}

// NewSurveyService создает новый сервис опросов
func NewSurveyService(deps Deps) (*SurveyService, error) {
	b, err := newBase(deps, "survey_service")
	if err != nil {
		return nil, err
	}
	return &SurveyService{base: b}, nil
}

// CreateSurvey создает опрос; название и описание уникальны среди всех опросов
func (s *SurveyService) CreateSurvey(ctx context.Context, actor entity.Actor, title, description string) (*entity.Survey, error) {
	title, description, err := normalizeSurveyDetails(title, description)
	if err != nil {
		return nil, err
	}
	if err := surveycore.NewGuard().Authorize(actor, surveycore.ActionCreate, surveycore.NewTarget(surveycore.TargetSurvey)); err != nil {
		return nil, err
	}

	survey := &entity.Survey{
		OwnerID:     actor.ID,
		Title:       title,
		Description: description,
	}
	err = s.inTx(ctx, func(repos repository.Repositories, _ *surveycore.Core) error {
		if err := checkSurveyUnique(ctx, repos.Surveys, title, description, 0); err != nil {
			return err
		}
		if err := repos.Surveys.Create(ctx, survey); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				return err
			}
			return fmt.Errorf("failed to create survey: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("create_survey", err, zap.Uint("actor_id", actor.ID))
		return nil, err
	}

	s.logger.Info("survey created", zap.Uint("survey_id", survey.ID), zap.Uint("owner_id", actor.ID))
	return survey, nil
}

// UpdateSurvey меняет название и описание опроса; доступно только владельцу
func (s *SurveyService) UpdateSurvey(ctx context.Context, actor entity.Actor, surveyID uint, title, description string) (*entity.Survey, error) {
	title, description, err := normalizeSurveyDetails(title, description)
	if err != nil {
		return nil, err
	}

	var updated *entity.Survey
	err = s.inTx(ctx, func(repos repository.Repositories, core *surveycore.Core) error {
		survey, err := repos.Surveys.GetByIDForUpdate(ctx, surveyID)
		if err != nil {
			return notFound(err, "survey %d not found", surveyID)
		}
		if err := core.Guard.Authorize(actor, surveycore.ActionUpdate, surveycore.SurveyTarget(survey)); err != nil {
			return err
		}
		if err := checkSurveyUnique(ctx, repos.Surveys, title, description, surveyID); err != nil {
			return err
		}
		if err := repos.Surveys.UpdateDetails(ctx, surveyID, title, description); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				return err
			}
			return fmt.Errorf("failed to update survey %d: %w", surveyID, err)
		}
		survey.Title = title
		survey.Description = description
		updated = survey
		return nil
	})
	if err != nil {
		s.logFailure("update_survey", err, zap.Uint("survey_id", surveyID))
		return nil, err
	}

	s.invalidateSurvey(surveyID)
	return updated, nil
}

// DeleteSurvey удаляет опрос вместе с вопросами и вариантами. Ответы сохраняются.
func (s *SurveyService) DeleteSurvey(ctx context.Context, actor entity.Actor, surveyID uint) error {
	err := s.inTx(ctx, func(repos repository.Repositories, core *surveycore.Core) error {
		survey, err := repos.Surveys.GetByIDForUpdate(ctx, surveyID)
		if err != nil {
			return notFound(err, "survey %d not found", surveyID)
		}
		if err := core.Guard.Authorize(actor, surveycore.ActionDelete, surveycore.SurveyTarget(survey)); err != nil {
			return err
		}
		if err := repos.Surveys.Delete(ctx, surveyID); err != nil {
			return notFound(err, "survey %d not found", surveyID)
		}
		return nil
	})
	if err != nil {
		s.logFailure("delete_survey", err, zap.Uint("survey_id", surveyID))
		return err
	}

	s.invalidateSurvey(surveyID)
	s.logger.Info("survey deleted", zap.Uint("survey_id", surveyID), zap.Uint("actor_id", actor.ID))
	return nil
}

// GetSurvey возвращает опрос с вопросами и вариантами. Карточка кешируется в Redis.
func (s *SurveyService) GetSurvey(ctx context.Context, surveyID uint) (*entity.Survey, error) {
	key := surveyCacheKey(surveyID)
	if s.cache != nil {
		var cached entity.Survey
		err := s.cache.GetJSON(key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("failed to read survey cache", zap.Uint("survey_id", surveyID), zap.Error(err))
		}
	}

	survey, err := s.repos.Surveys.GetWithQuestions(ctx, surveyID)
	if err != nil {
		return nil, notFound(err, "survey %d not found", surveyID)
	}

	if s.cache != nil && s.cacheTTL > 0 {
		if err := s.cache.SetJSON(key, survey, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache survey", zap.Uint("survey_id", surveyID), zap.Error(err))
		}
	}
	return survey, nil
}

// ListSurveys возвращает страницу опросов
func (s *SurveyService) ListSurveys(ctx context.Context, page, pageSize int) ([]entity.Survey, error) {
	limit, offset := pagination(page, pageSize)
	surveys, err := s.repos.Surveys.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list surveys: %w", err)
	}
	return surveys, nil
}

// ListDoneSurveys возвращает страницу завершенных опросов
func (s *SurveyService) ListDoneSurveys(ctx context.Context, page, pageSize int) ([]entity.Survey, error) {
	limit, offset := pagination(page, pageSize)
	surveys, err := s.repos.Surveys.ListDone(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list done surveys: %w", err)
	}
	return surveys, nil
}

// CompleteSurvey переводит опрос в done, если на все вопросы есть ответы
func (s *SurveyService) CompleteSurvey(ctx context.Context, actor entity.Actor, surveyID uint) (*entity.Survey, error) {
	var completed *entity.Survey
	err := s.inTx(ctx, func(_ repository.Repositories, core *surveycore.Core) error {
		survey, err := core.Gate.Complete(ctx, surveyID, actor)
		if err != nil {
			return err
		}
		completed = survey
		return nil
	})
	if err != nil {
		s.logFailure("complete_survey", err, zap.Uint("survey_id", surveyID), zap.Uint("actor_id", actor.ID))
		return nil, err
	}

	s.invalidateSurvey(surveyID)
	s.logger.Info("survey completed",
		zap.Uint("survey_id", surveyID),
		zap.Uint("actor_id", actor.ID),
		zap.Int("total_score", completed.TotalScore),
	)
	return completed, nil
}

// ReportRow - строка выгрузки результатов по одному вопросу
type ReportRow struct {
	QuestionNumber int
	Question       string
	Answered       bool
	OptionNumber   int
	Option         string
	Score          int
}

// SurveyReport - выгрузка результатов опроса
type SurveyReport struct {
	Survey *entity.Survey
	Rows   []ReportRow
}

// ExportSurvey собирает таблицу результатов опроса; доступно только владельцу
func (s *SurveyService) ExportSurvey(ctx context.Context, actor entity.Actor, surveyID uint) (*SurveyReport, error) {
	survey, err := s.repos.Surveys.GetWithQuestions(ctx, surveyID)
	if err != nil {
		return nil, notFound(err, "survey %d not found", surveyID)
	}
	if err := surveycore.NewGuard().Authorize(actor, surveycore.ActionExport, surveycore.SurveyTarget(survey)); err != nil {
		return nil, err
	}

	report := &SurveyReport{Survey: survey, Rows: make([]ReportRow, 0, len(survey.Questions))}
	for i := range survey.Questions {
		q := &survey.Questions[i]
		row := ReportRow{QuestionNumber: q.Number, Question: q.Content}
		state := q.State()
		if state.IsAnswered() {
			row.Answered = true
			row.Score = state.Score()
			for _, o := range q.Options {
				if o.ID == state.OptionID() {
					row.OptionNumber = o.Number
					row.Option = o.Content
					break
				}
			}
		}
		report.Rows = append(report.Rows, row)
	}
	return report, nil
}

func normalizeSurveyDetails(title, description string) (string, string, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return "", "", apperrors.New(apperrors.ErrValidation, "survey title is required")
	}
	if description == "" {
		return "", "", apperrors.New(apperrors.ErrValidation, "survey description is required")
	}
	return title, description, nil
}

func checkSurveyUnique(ctx context.Context, surveys repository.SurveyRepository, title, description string, excludeID uint) error {
	exists, err := surveys.ExistsByTitle(ctx, title, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check survey title: %w", err)
	}
	if exists {
		return apperrors.New(apperrors.ErrConflict, "survey with this title already exists")
	}
	exists, err = surveys.ExistsByDescription(ctx, description, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check survey description: %w", err)
	}
	if exists {
		return apperrors.New(apperrors.ErrConflict, "survey with this description already exists")
	}
	return nil
}

func pagination(page, pageSize int) (limit, offset int) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	return pageSize, (page - 1) * pageSize
}
