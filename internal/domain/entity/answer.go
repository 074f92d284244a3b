package entity

import "time"

// Answer - ответ респондента на вопрос: не более одного на вопрос.
// Number - номер выбранного варианта.
type Answer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SurveyID   uint      `gorm:"not null;index" json:"survey_id"`
	QuestionID uint      `gorm:"not null;uniqueIndex" json:"question_id"`
	OwnerID    uint      `gorm:"not null;index" json:"owner_id"`
	Number     int       `gorm:"not null" json:"number"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Answer) TableName() string {
	return "answers"
}

// IsOwnedBy проверяет владельца ответа
func (a *Answer) IsOwnedBy(userID uint) bool {
	return a.OwnerID == userID
}
