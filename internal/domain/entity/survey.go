package entity

import "time"

// Survey представляет опрос - корень агрегата Survey -> Question -> Option -> Answer.
// TotalScore всегда равен сумме Score всех вопросов опроса.
type Survey struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	OwnerID     uint       `gorm:"not null;index" json:"owner_id"`
	Title       string     `gorm:"size:100;not null;uniqueIndex" json:"title"`
	Description string     `gorm:"size:500;not null;uniqueIndex" json:"description"`
	Done        bool       `gorm:"not null;default:false" json:"done"`
	TotalScore  int        `gorm:"not null;default:0" json:"total_score"`
	Questions   []Question `gorm:"foreignKey:SurveyID" json:"questions,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Survey) TableName() string {
	return "surveys"
}

// IsOwnedBy проверяет владельца опроса
func (s *Survey) IsOwnedBy(userID uint) bool {
	return s.OwnerID == userID
}

// AnsweredCount возвращает число отвеченных вопросов из загруженных
func (s *Survey) AnsweredCount() int {
	count := 0
	for i := range s.Questions {
		if s.Questions[i].State().IsAnswered() {
			count++
		}
	}
	return count
}
