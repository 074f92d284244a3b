package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/yourusername/survey-api/internal/domain/entity"
	"github.com/yourusername/survey-api/internal/domain/repository"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
)

// memStore - хранилище в памяти с транзакциями: Do сериализует транзакции
// одним мьютексом и откатывает снимок при ошибке.
type memStore struct {
	mu        sync.Mutex
	nextID    uint
	surveys   map[uint]entity.Survey
	questions map[uint]entity.Question
	options   map[uint]entity.Option
	answers   map[uint]entity.Answer

	// failSaveState имитирует сбой записи вопроса внутри транзакции
	failSaveState error
}

func newMemStore() *memStore {
	return &memStore{
		surveys:   make(map[uint]entity.Survey),
		questions: make(map[uint]entity.Question),
		options:   make(map[uint]entity.Option),
		answers:   make(map[uint]entity.Answer),
	}
}

type memSnapshot struct {
	nextID    uint
	surveys   map[uint]entity.Survey
	questions map[uint]entity.Question
	options   map[uint]entity.Option
	answers   map[uint]entity.Answer
}

func copyMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (s *memStore) snapshot() memSnapshot {
	return memSnapshot{
		nextID:    s.nextID,
		surveys:   copyMap(s.surveys),
		questions: copyMap(s.questions),
		options:   copyMap(s.options),
		answers:   copyMap(s.answers),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.nextID = snap.nextID
	s.surveys = snap.surveys
	s.questions = snap.questions
	s.options = snap.options
	s.answers = snap.answers
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

// Do реализует repository.UnitOfWork
func (s *memStore) Do(ctx context.Context, fn func(repos repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	snap := s.snapshot()
	err := fn(s.repos(true))
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.restore(snap)
	}
	return err
}

// repos возвращает репозитории; вне транзакции каждый вызов берет мьютекс сам
func (s *memStore) repos(inTx bool) repository.Repositories {
	v := &memView{store: s, inTx: inTx}
	return repository.Repositories{
		Surveys:   memSurveys{v},
		Questions: memQuestions{v},
		Options:   memOptions{v},
		Answers:   memAnswers{v},
	}
}

type memView struct {
	store *memStore
	inTx  bool
}

func (v *memView) lock() func() {
	if v.inTx {
		return func() {}
	}
	v.store.mu.Lock()
	return v.store.mu.Unlock
}

// --- surveys ---

type memSurveys struct{ *memView }

func (r memSurveys) Create(_ context.Context, survey *entity.Survey) error {
	defer r.lock()()
	for _, s := range r.store.surveys {
		if s.Title == survey.Title || s.Description == survey.Description {
			return apperrors.New(apperrors.ErrConflict, "survey already exists")
		}
	}
	survey.ID = r.store.id()
	survey.CreatedAt = time.Now()
	survey.UpdatedAt = survey.CreatedAt
	stored := *survey
	stored.Questions = nil
	r.store.surveys[survey.ID] = stored
	return nil
}

func (r memSurveys) GetByID(_ context.Context, id uint) (*entity.Survey, error) {
	defer r.lock()()
	s, ok := r.store.surveys[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &s, nil
}

func (r memSurveys) GetByIDForUpdate(ctx context.Context, id uint) (*entity.Survey, error) {
	return r.GetByID(ctx, id)
}

func (r memSurveys) GetWithQuestions(_ context.Context, id uint) (*entity.Survey, error) {
	defer r.lock()()
	s, ok := r.store.surveys[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	s.Questions = r.store.questionsOf(id)
	for i := range s.Questions {
		s.Questions[i].Options = r.store.optionsOf(s.Questions[i].ID)
	}
	return &s, nil
}

func (r memSurveys) list(limit, offset int, onlyDone bool) []entity.Survey {
	defer r.lock()()
	result := make([]entity.Survey, 0, len(r.store.surveys))
	for _, s := range r.store.surveys {
		if onlyDone && !s.Done {
			continue
		}
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	if offset >= len(result) {
		return []entity.Survey{}
	}
	result = result[offset:]
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

func (r memSurveys) List(_ context.Context, limit, offset int) ([]entity.Survey, error) {
	return r.list(limit, offset, false), nil
}

func (r memSurveys) ListDone(_ context.Context, limit, offset int) ([]entity.Survey, error) {
	return r.list(limit, offset, true), nil
}

func (r memSurveys) ExistsByTitle(_ context.Context, title string, excludeID uint) (bool, error) {
	defer r.lock()()
	for _, s := range r.store.surveys {
		if s.ID != excludeID && s.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (r memSurveys) ExistsByDescription(_ context.Context, description string, excludeID uint) (bool, error) {
	defer r.lock()()
	for _, s := range r.store.surveys {
		if s.ID != excludeID && s.Description == description {
			return true, nil
		}
	}
	return false, nil
}

func (r memSurveys) update(id uint, fn func(s *entity.Survey) error) error {
	defer r.lock()()
	s, ok := r.store.surveys[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if err := fn(&s); err != nil {
		return err
	}
	s.UpdatedAt = time.Now()
	r.store.surveys[id] = s
	return nil
}

func (r memSurveys) UpdateDetails(_ context.Context, id uint, title, description string) error {
	return r.update(id, func(s *entity.Survey) error {
		s.Title = title
		s.Description = description
		return nil
	})
}

func (r memSurveys) UpdateTotalScore(_ context.Context, id uint, total int) error {
	return r.update(id, func(s *entity.Survey) error {
		// CHECK (total_score >= 0)
		if total < 0 {
			return apperrors.ErrInvariant
		}
		s.TotalScore = total
		return nil
	})
}

func (r memSurveys) MarkDone(_ context.Context, id uint) error {
	return r.update(id, func(s *entity.Survey) error {
		s.Done = true
		return nil
	})
}

func (r memSurveys) Delete(_ context.Context, id uint) error {
	defer r.lock()()
	if _, ok := r.store.surveys[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.store.surveys, id)
	for qid, q := range r.store.questions {
		if q.SurveyID == id {
			r.store.deleteQuestion(qid)
		}
	}
	return nil
}

// --- questions ---

type memQuestions struct{ *memView }

func (s *memStore) questionsOf(surveyID uint) []entity.Question {
	result := make([]entity.Question, 0)
	for _, q := range s.questions {
		if q.SurveyID == surveyID {
			result = append(result, q)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result
}

func (s *memStore) deleteQuestion(id uint) {
	delete(s.questions, id)
	for oid, o := range s.options {
		if o.QuestionID == id {
			delete(s.options, oid)
		}
	}
}

func (r memQuestions) Create(_ context.Context, question *entity.Question) error {
	defer r.lock()()
	for _, q := range r.store.questions {
		if q.SurveyID == question.SurveyID && (q.Number == question.Number || q.Content == question.Content) {
			return apperrors.New(apperrors.ErrConflict, "question already exists")
		}
	}
	question.ID = r.store.id()
	stored := *question
	stored.Options = nil
	r.store.questions[question.ID] = stored
	return nil
}

func (r memQuestions) GetByID(_ context.Context, surveyID, id uint) (*entity.Question, error) {
	defer r.lock()()
	q, ok := r.store.questions[id]
	if !ok || q.SurveyID != surveyID {
		return nil, apperrors.ErrNotFound
	}
	return &q, nil
}

func (r memQuestions) GetByIDForUpdate(ctx context.Context, surveyID, id uint) (*entity.Question, error) {
	return r.GetByID(ctx, surveyID, id)
}

func (r memQuestions) ListBySurvey(_ context.Context, surveyID uint) ([]entity.Question, error) {
	defer r.lock()()
	return r.store.questionsOf(surveyID), nil
}

func (r memQuestions) ExistsByNumber(_ context.Context, surveyID uint, number int) (bool, error) {
	defer r.lock()()
	for _, q := range r.store.questions {
		if q.SurveyID == surveyID && q.Number == number {
			return true, nil
		}
	}
	return false, nil
}

func (r memQuestions) ExistsByContent(_ context.Context, surveyID uint, content string, excludeID uint) (bool, error) {
	defer r.lock()()
	for _, q := range r.store.questions {
		if q.SurveyID == surveyID && q.ID != excludeID && q.Content == content {
			return true, nil
		}
	}
	return false, nil
}

func (r memQuestions) UpdateContent(_ context.Context, id uint, content string) error {
	defer r.lock()()
	q, ok := r.store.questions[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	q.Content = content
	r.store.questions[id] = q
	return nil
}

func (r memQuestions) SaveState(_ context.Context, question *entity.Question) error {
	defer r.lock()()
	if r.store.failSaveState != nil {
		return r.store.failSaveState
	}
	q, ok := r.store.questions[question.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	q.SetState(question.State())
	r.store.questions[question.ID] = q
	return nil
}

func (r memQuestions) Delete(_ context.Context, id uint) error {
	defer r.lock()()
	if _, ok := r.store.questions[id]; !ok {
		return apperrors.ErrNotFound
	}
	r.store.deleteQuestion(id)
	return nil
}

// --- options ---

type memOptions struct{ *memView }

func (s *memStore) optionsOf(questionID uint) []entity.Option {
	result := make([]entity.Option, 0)
	for _, o := range s.options {
		if o.QuestionID == questionID {
			result = append(result, o)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Number < result[j].Number })
	return result
}

func (s *memStore) optionConflict(option *entity.Option) error {
	for _, o := range s.options {
		if o.QuestionID != option.QuestionID || o.ID == option.ID {
			continue
		}
		if o.Number == option.Number || o.Content == option.Content || o.Score == option.Score {
			return apperrors.New(apperrors.ErrConflict, "option already exists")
		}
	}
	return nil
}

func (r memOptions) Create(_ context.Context, option *entity.Option) error {
	defer r.lock()()
	if err := r.store.optionConflict(option); err != nil {
		return err
	}
	option.ID = r.store.id()
	r.store.options[option.ID] = *option
	return nil
}

func (r memOptions) GetByID(_ context.Context, questionID, id uint) (*entity.Option, error) {
	defer r.lock()()
	o, ok := r.store.options[id]
	if !ok || o.QuestionID != questionID {
		return nil, apperrors.ErrNotFound
	}
	return &o, nil
}

func (r memOptions) GetByNumber(_ context.Context, surveyID, questionID uint, number int) (*entity.Option, error) {
	defer r.lock()()
	for _, o := range r.store.options {
		if o.SurveyID == surveyID && o.QuestionID == questionID && o.Number == number {
			return &o, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r memOptions) ListByQuestion(_ context.Context, questionID uint) ([]entity.Option, error) {
	defer r.lock()()
	return r.store.optionsOf(questionID), nil
}

func (r memOptions) Update(_ context.Context, option *entity.Option) error {
	defer r.lock()()
	if _, ok := r.store.options[option.ID]; !ok {
		return apperrors.ErrNotFound
	}
	if err := r.store.optionConflict(option); err != nil {
		return err
	}
	r.store.options[option.ID] = *option
	return nil
}

func (r memOptions) Delete(_ context.Context, id uint) error {
	defer r.lock()()
	if _, ok := r.store.options[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.store.options, id)
	return nil
}

// --- answers ---

type memAnswers struct{ *memView }

func (r memAnswers) Create(_ context.Context, answer *entity.Answer) error {
	defer r.lock()()
	for _, a := range r.store.answers {
		if a.QuestionID == answer.QuestionID {
			return apperrors.New(apperrors.ErrConflict, "answer already exists")
		}
	}
	answer.ID = r.store.id()
	r.store.answers[answer.ID] = *answer
	return nil
}

func (r memAnswers) GetByID(_ context.Context, id uint) (*entity.Answer, error) {
	defer r.lock()()
	a, ok := r.store.answers[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &a, nil
}

func (r memAnswers) GetByQuestion(_ context.Context, questionID uint) (*entity.Answer, error) {
	defer r.lock()()
	for _, a := range r.store.answers {
		if a.QuestionID == questionID {
			return &a, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r memAnswers) ListBySurvey(_ context.Context, surveyID uint) ([]entity.Answer, error) {
	defer r.lock()()
	result := make([]entity.Answer, 0)
	for _, a := range r.store.answers {
		if a.SurveyID == surveyID {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r memAnswers) UpdateNumber(_ context.Context, id uint, number int) error {
	defer r.lock()()
	a, ok := r.store.answers[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	a.Number = number
	r.store.answers[id] = a
	return nil
}

func (r memAnswers) Delete(_ context.Context, id uint) error {
	defer r.lock()()
	if _, ok := r.store.answers[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.store.answers, id)
	return nil
}

// --- cache ---

type memCache struct {
	mu     sync.Mutex
	values map[string][]byte
	nx     map[string]bool
}

func newMemCache() *memCache {
	return &memCache{values: make(map[string][]byte), nx: make(map[string]bool)}
}

func (c *memCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

func (c *memCache) SetJSON(key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = data
	return nil
}

func (c *memCache) GetJSON(key string, dest interface{}) error {
	c.mu.Lock()
	data, ok := c.values[key]
	c.mu.Unlock()
	if !ok {
		return apperrors.ErrNotFound
	}
	return json.Unmarshal(data, dest)
}

func (c *memCache) SetNX(key string, _ interface{}, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.nx[key] {
		return false, nil
	}
	c.nx[key] = true
	return true, nil
}

func (c *memCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return ok
}

var (
	_ repository.UnitOfWork      = (*memStore)(nil)
	_ repository.CacheRepository = (*memCache)(nil)
)
