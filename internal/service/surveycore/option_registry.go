package surveycore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/internal/domain/repository"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
)

// OptionRegistry следит за уникальностью номера, текста и балла вариантов
// в пределах вопроса и за последовательной нумерацией 1..5.
type OptionRegistry struct {
	options repository.OptionRepository
}

// NewOptionRegistry создает реестр поверх репозитория текущей транзакции
func NewOptionRegistry(options repository.OptionRepository) *OptionRegistry {
	return &OptionRegistry{options: options}
}

// NextNumber возвращает наименьший свободный номер 1..5; ok=false, если занято всё
func NextNumber(existing []entity.Option) (int, bool) {
	used := make(map[int]bool, len(existing))
	for _, o := range existing {
		used[o.Number] = true
	}
	for n := entity.MinOptionNumber; n <= entity.MaxOptionNumber; n++ {
		if !used[n] {
			return n, true
		}
	}
	return 0, false
}

// CreateOption создает вариант. Порядок проверок: диапазоны, дубли номера,
// текста и балла (Conflict), затем последовательность (BadRequest).
// Вопрос должен быть заблокирован вызывающим кодом.
func (r *OptionRegistry) CreateOption(ctx context.Context, surveyID, questionID uint, number int, content string, score int) (*entity.Option, error) {
	content = strings.TrimSpace(content)
	if err := validateOptionInput(number, content, score); err != nil {
		return nil, err
	}

	existing, err := r.options.ListByQuestion(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("list options of question %d: %w", questionID, err)
	}

	for _, o := range existing {
		if o.Number == number {
			return nil, apperrors.New(apperrors.ErrConflict, "duplicate option number")
		}
	}
	if err := checkContentAndScore(existing, 0, content, score); err != nil {
		return nil, err
	}

	next, ok := NextNumber(existing)
	if !ok {
		return nil, apperrors.New(apperrors.ErrConflict, "question already has all options")
	}
	if number != next {
		return nil, apperrors.Newf(apperrors.ErrBadRequest,
			"options must be numbered sequentially: next valid option number is %d", next)
	}

	option := &entity.Option{
		SurveyID:   surveyID,
		QuestionID: questionID,
		Number:     number,
		Content:    content,
		Score:      score,
	}
	if err := r.options.Create(ctx, option); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("create option: %w", err)
	}
	return option, nil
}

// ResolveByNumber находит вариант по номеру в пределах опроса и вопроса
func (r *OptionRegistry) ResolveByNumber(ctx context.Context, surveyID, questionID uint, number int) (*entity.Option, error) {
	option, err := r.options.GetByNumber(ctx, surveyID, questionID, number)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Newf(apperrors.ErrNotFound, "option %d not found for question %d", number, questionID)
		}
		return nil, fmt.Errorf("resolve option %d: %w", number, err)
	}
	return option, nil
}

// UpdateOption меняет текст и балл варианта; номер неизменен.
// Уникальность проверяется среди остальных вариантов вопроса.
func (r *OptionRegistry) UpdateOption(ctx context.Context, option *entity.Option, content string, score int) error {
	content = strings.TrimSpace(content)
	if err := validateOptionInput(option.Number, content, score); err != nil {
		return err
	}

	existing, err := r.options.ListByQuestion(ctx, option.QuestionID)
	if err != nil {
		return fmt.Errorf("list options of question %d: %w", option.QuestionID, err)
	}
	if err := checkContentAndScore(existing, option.ID, content, score); err != nil {
		return err
	}

	option.Content = content
	option.Score = score
	if err := r.options.Update(ctx, option); err != nil {
		if errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("update option %d: %w", option.ID, err)
	}
	return nil
}

// DeleteOption удаляет вариант, если он не выбран текущим ответом вопроса.
// Освободившийся номер становится следующим допустимым для создания.
func (r *OptionRegistry) DeleteOption(ctx context.Context, question *entity.Question, option *entity.Option) error {
	state := question.State()
	if state.IsAnswered() && state.OptionID() == option.ID {
		return apperrors.New(apperrors.ErrConflict, "option is selected by the current answer")
	}
	if err := r.options.Delete(ctx, option.ID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete option %d: %w", option.ID, err)
	}
	return nil
}

func validateOptionInput(number int, content string, score int) error {
	if number < entity.MinOptionNumber || number > entity.MaxOptionNumber {
		return apperrors.Newf(apperrors.ErrBadRequest, "option number must be between %d and %d",
			entity.MinOptionNumber, entity.MaxOptionNumber)
	}
	if score < entity.MinOptionScore || score > entity.MaxOptionScore {
		return apperrors.Newf(apperrors.ErrBadRequest, "option score must be between %d and %d",
			entity.MinOptionScore, entity.MaxOptionScore)
	}
	if content == "" {
		return apperrors.New(apperrors.ErrBadRequest, "option content is required")
	}
	return nil
}

func checkContentAndScore(existing []entity.Option, excludeID uint, content string, score int) error {
	for _, o := range existing {
		if o.ID != excludeID && o.Content == content {
			return apperrors.New(apperrors.ErrConflict, "duplicate option content")
		}
	}
	for _, o := range existing {
		if o.ID != excludeID && o.Score == score {
			return apperrors.New(apperrors.ErrConflict, "duplicate option score")
		}
	}
	return nil
}
