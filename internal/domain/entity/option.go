package entity

import "time"

const (
	MinOptionNumber = 1
	MaxOptionNumber = 5
	MinOptionScore  = 1
	MaxOptionScore  = 5
)

// Option - вариант ответа на вопрос. Номер, текст и балл уникальны в пределах вопроса.
type Option struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SurveyID   uint      `gorm:"not null;index" json:"survey_id"`
	QuestionID uint      `gorm:"not null;index" json:"question_id"`
	Number     int       `gorm:"not null" json:"number"`
	Content    string    `gorm:"size:255;not null" json:"content"`
	Score      int       `gorm:"not null" json:"score"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Option) TableName() string {
	return "options"
}
