package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourusername/survey-api/internal/domain/entity"
)

var (
	instructor      = entity.Actor{ID: 1, Role: entity.RoleInstructor}
	otherInstructor = entity.Actor{ID: 2, Role: entity.RoleInstructor}
	respondent      = entity.Actor{ID: 10, Role: entity.RoleRespondent}
	otherRespondent = entity.Actor{ID: 11, Role: entity.RoleRespondent}
)

type testEnv struct {
	store     *memStore
	cache     *memCache
	surveys   *SurveyService
	questions *QuestionService
	options   *OptionService
	answers   *AnswerService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newMemStore()
	cache := newMemCache()
	deps := Deps{
		UoW:      store,
		Repos:    store.repos(false),
		Cache:    cache,
		Logger:   zap.NewNop(),
		CacheTTL: time.Minute,
	}

	surveys, err := NewSurveyService(deps)
	require.NoError(t, err)
	questions, err := NewQuestionService(deps)
	require.NoError(t, err)
	options, err := NewOptionService(deps)
	require.NoError(t, err)
	answers, err := NewAnswerService(deps)
	require.NoError(t, err)

	return &testEnv{store: store, cache: cache, surveys: surveys, questions: questions, options: options, answers: answers}
}

// createSurvey создает опрос владельца instructor
func (e *testEnv) createSurvey(t *testing.T, title string) *entity.Survey {
	t.Helper()
	survey, err := e.surveys.CreateSurvey(context.Background(), instructor, title, "Описание: "+title)
	require.NoError(t, err)
	return survey
}

// createQuestion создает вопрос с вариантами, баллы которых перечислены по порядку номеров
func (e *testEnv) createQuestion(t *testing.T, surveyID uint, number int, scores ...int) *entity.Question {
	t.Helper()
	ctx := context.Background()
	question, err := e.questions.CreateQuestion(ctx, instructor, surveyID, number, fmt.Sprintf("Вопрос %d", number))
	require.NoError(t, err)
	for i, score := range scores {
		_, err := e.options.CreateOption(ctx, instructor, surveyID, question.ID, i+1, fmt.Sprintf("Вариант %d", i+1), score)
		require.NoError(t, err)
	}
	return question
}

func (e *testEnv) survey(t *testing.T, id uint) entity.Survey {
	t.Helper()
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	s, ok := e.store.surveys[id]
	require.True(t, ok, "опрос %d должен существовать", id)
	return s
}

func (e *testEnv) question(t *testing.T, id uint) entity.Question {
	t.Helper()
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	q, ok := e.store.questions[id]
	require.True(t, ok, "вопрос %d должен существовать", id)
	return q
}

// assertConsistent проверяет инварианты хранилища: сумма баллов опроса
// и соответствие состояния вопроса наличию ответа
func (e *testEnv) assertConsistent(t *testing.T) {
	t.Helper()
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	sums := make(map[uint]int)
	for _, q := range e.store.questions {
		sums[q.SurveyID] += q.Score

		var answer *entity.Answer
		for _, a := range e.store.answers {
			if a.QuestionID == q.ID {
				answer = &a
			}
		}
		assert.Equal(t, answer != nil, q.IsAnswered, "вопрос %d: answered должен совпадать с наличием ответа", q.ID)
		if answer == nil {
			assert.Zero(t, q.Score, "вопрос %d без ответа не должен иметь балла", q.ID)
			continue
		}
		option, ok := e.store.options[*q.AnsweredOptionID]
		require.True(t, ok, "выбранный вариант вопроса %d должен существовать", q.ID)
		assert.Equal(t, option.Score, q.Score)
		assert.Equal(t, option.Number, answer.Number)
	}
	for id, s := range e.store.surveys {
		assert.Equal(t, sums[id], s.TotalScore, "опрос %d: total_score должен равняться сумме баллов вопросов", id)
	}
}
