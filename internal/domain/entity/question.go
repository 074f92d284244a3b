package entity

import "time"

const (
	// MinQuestionNumber и MaxQuestionNumber ограничивают номер вопроса в опросе
	MinQuestionNumber = 1
	MaxQuestionNumber = 5
)

// QuestionState - состояние вопроса: либо не отвечен, либо отвечен конкретным вариантом.
// Нулевое значение соответствует Unanswered.
type QuestionState struct {
	answered bool
	optionID uint
	score    int
}

// Unanswered возвращает состояние "нет ответа"
func Unanswered() QuestionState {
	return QuestionState{}
}

// AnsweredWith возвращает состояние "отвечен вариантом optionID с баллом score"
func AnsweredWith(optionID uint, score int) QuestionState {
	return QuestionState{answered: true, optionID: optionID, score: score}
}

func (s QuestionState) IsAnswered() bool { return s.answered }
func (s QuestionState) OptionID() uint   { return s.optionID }

// Score возвращает балл выбранного варианта, 0 для Unanswered
func (s QuestionState) Score() int { return s.score }

// Question представляет вопрос опроса.
// Колонки is_answered/score/answered_option_id меняются только через SetState.
type Question struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	SurveyID         uint      `gorm:"not null;index" json:"survey_id"`
	OwnerID          uint      `gorm:"not null;index" json:"owner_id"`
	Number           int       `gorm:"not null" json:"number"`
	Content          string    `gorm:"size:255;not null" json:"content"`
	IsAnswered       bool      `gorm:"column:is_answered;not null;default:false" json:"is_answered"`
	Score            int       `gorm:"not null;default:0" json:"score"`
	AnsweredOptionID *uint     `json:"answered_option_id,omitempty"`
	Options          []Option  `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// State восстанавливает состояние вопроса из колонок
func (q *Question) State() QuestionState {
	if !q.IsAnswered {
		return Unanswered()
	}
	var optionID uint
	if q.AnsweredOptionID != nil {
		optionID = *q.AnsweredOptionID
	}
	return AnsweredWith(optionID, q.Score)
}

// SetState записывает состояние во все три колонки сразу
func (q *Question) SetState(state QuestionState) {
	q.IsAnswered = state.answered
	q.Score = state.score
	if state.answered {
		optionID := state.optionID
		q.AnsweredOptionID = &optionID
	} else {
		q.AnsweredOptionID = nil
	}
}

// IsOwnedBy проверяет владельца вопроса
func (q *Question) IsOwnedBy(userID uint) bool {
	return q.OwnerID == userID
}
