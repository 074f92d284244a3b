package surveycore

import (
	"context"
	"sort"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/survey-api/internal/domain/entity"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
)

// ============================================================================
// Моки репозиториев для тестов ядра
// ============================================================================

// MockSurveyRepository реализует repository.SurveyRepository
type MockSurveyRepository struct {
	mock.Mock
}

func (m *MockSurveyRepository) Create(ctx context.Context, survey *entity.Survey) error {
	return m.Called(ctx, survey).Error(0)
}

func (m *MockSurveyRepository) GetByID(ctx context.Context, id uint) (*entity.Survey, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Survey), args.Error(1)
}

func (m *MockSurveyRepository) GetByIDForUpdate(ctx context.Context, id uint) (*entity.Survey, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Survey), args.Error(1)
}

func (m *MockSurveyRepository) GetWithQuestions(ctx context.Context, id uint) (*entity.Survey, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Survey), args.Error(1)
}

func (m *MockSurveyRepository) List(ctx context.Context, limit, offset int) ([]entity.Survey, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]entity.Survey), args.Error(1)
}

func (m *MockSurveyRepository) ListDone(ctx context.Context, limit, offset int) ([]entity.Survey, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]entity.Survey), args.Error(1)
}

func (m *MockSurveyRepository) ExistsByTitle(ctx context.Context, title string, excludeID uint) (bool, error) {
	args := m.Called(ctx, title, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSurveyRepository) ExistsByDescription(ctx context.Context, description string, excludeID uint) (bool, error) {
	args := m.Called(ctx, description, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSurveyRepository) UpdateDetails(ctx context.Context, id uint, title, description string) error {
	return m.Called(ctx, id, title, description).Error(0)
}

func (m *MockSurveyRepository) UpdateTotalScore(ctx context.Context, id uint, total int) error {
	return m.Called(ctx, id, total).Error(0)
}

func (m *MockSurveyRepository) MarkDone(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSurveyRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

// MockQuestionRepository реализует repository.QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(ctx context.Context, question *entity.Question) error {
	return m.Called(ctx, question).Error(0)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, surveyID, id uint) (*entity.Question, error) {
	args := m.Called(ctx, surveyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetByIDForUpdate(ctx context.Context, surveyID, id uint) (*entity.Question, error) {
	args := m.Called(ctx, surveyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) ListBySurvey(ctx context.Context, surveyID uint) ([]entity.Question, error) {
	args := m.Called(ctx, surveyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Question), args.Error(1)
}

func (m *MockQuestionRepository) ExistsByNumber(ctx context.Context, surveyID uint, number int) (bool, error) {
	args := m.Called(ctx, surveyID, number)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuestionRepository) ExistsByContent(ctx context.Context, surveyID uint, content string, excludeID uint) (bool, error) {
	args := m.Called(ctx, surveyID, content, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuestionRepository) UpdateContent(ctx context.Context, id uint, content string) error {
	return m.Called(ctx, id, content).Error(0)
}

func (m *MockQuestionRepository) SaveState(ctx context.Context, question *entity.Question) error {
	return m.Called(ctx, question).Error(0)
}

func (m *MockQuestionRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

// ============================================================================
// memOptionRepo - простое хранилище вариантов в памяти для проверки нумерации
// ============================================================================

type memOptionRepo struct {
	nextID  uint
	options map[uint]entity.Option
}

func newMemOptionRepo() *memOptionRepo {
	return &memOptionRepo{options: make(map[uint]entity.Option)}
}

func (r *memOptionRepo) Create(_ context.Context, option *entity.Option) error {
	r.nextID++
	option.ID = r.nextID
	r.options[option.ID] = *option
	return nil
}

func (r *memOptionRepo) GetByID(_ context.Context, questionID, id uint) (*entity.Option, error) {
	o, ok := r.options[id]
	if !ok || o.QuestionID != questionID {
		return nil, apperrors.ErrNotFound
	}
	return &o, nil
}

func (r *memOptionRepo) GetByNumber(_ context.Context, surveyID, questionID uint, number int) (*entity.Option, error) {
	for _, o := range r.options {
		if o.SurveyID == surveyID && o.QuestionID == questionID && o.Number == number {
			found := o
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memOptionRepo) ListByQuestion(_ context.Context, questionID uint) ([]entity.Option, error) {
	var result []entity.Option
	for _, o := range r.options {
		if o.QuestionID == questionID {
			result = append(result, o)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result, nil
}

func (r *memOptionRepo) Update(_ context.Context, option *entity.Option) error {
	if _, ok := r.options[option.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.options[option.ID] = *option
	return nil
}

func (r *memOptionRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.options[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.options, id)
	return nil
}
