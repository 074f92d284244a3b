package surveycore

import (
	"github.com/yourusername/survey-api/internal/domain/entity"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
)

// QuestionStateMachine владеет состоянием ответа вопроса.
// Переходы не пишут в хранилище: они меняют загруженный вопрос и возвращают дельту
// для ScoreLedger, которую вызывающий код применяет в той же транзакции.
//
//	Unanswered --Answer--> Answered --Reanswer--> Answered
//	Answered --Clear--> Unanswered
type QuestionStateMachine struct{}

// Answer: Unanswered -> Answered(option). Дельта +option.Score.
func (QuestionStateMachine) Answer(q *entity.Question, option *entity.Option) (int, error) {
	if err := checkOption(q, option); err != nil {
		return 0, err
	}
	if q.State().IsAnswered() {
		return 0, apperrors.New(apperrors.ErrConflict, "question is already answered")
	}
	q.SetState(entity.AnsweredWith(option.ID, option.Score))
	return option.Score, nil
}

// Reanswer: Answered(old) -> Answered(option). Дельта option.Score - old.
func (QuestionStateMachine) Reanswer(q *entity.Question, option *entity.Option) (int, error) {
	if err := checkOption(q, option); err != nil {
		return 0, err
	}
	current := q.State()
	if !current.IsAnswered() {
		return 0, apperrors.New(apperrors.ErrBadRequest, "question is not answered yet")
	}
	q.SetState(entity.AnsweredWith(option.ID, option.Score))
	return option.Score - current.Score(), nil
}

// Clear: Answered(old) -> Unanswered. Дельта -old.
func (QuestionStateMachine) Clear(q *entity.Question) (int, error) {
	current := q.State()
	if !current.IsAnswered() {
		return 0, apperrors.New(apperrors.ErrBadRequest, "question is not answered yet")
	}
	q.SetState(entity.Unanswered())
	return -current.Score(), nil
}

// Rescore синхронизирует вопрос с новым баллом выбранного варианта.
// Если вариант не выбран, состояние не меняется и дельта 0.
func (QuestionStateMachine) Rescore(q *entity.Question, option *entity.Option) int {
	current := q.State()
	if !current.IsAnswered() || current.OptionID() != option.ID {
		return 0
	}
	q.SetState(entity.AnsweredWith(option.ID, option.Score))
	return option.Score - current.Score()
}

func checkOption(q *entity.Question, option *entity.Option) error {
	if option.QuestionID != q.ID {
		return apperrors.Newf(apperrors.ErrBadRequest, "option %d does not belong to question %d", option.ID, q.ID)
	}
	return nil
}
