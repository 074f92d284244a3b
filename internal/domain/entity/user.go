package entity

import (
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Role - роль пользователя в системе опросов
type Role string

const (
	// RoleInstructor создает опросы, вопросы и варианты ответов
	RoleInstructor Role = "instructor"
	// RoleRespondent отвечает на вопросы и завершает опросы
	RoleRespondent Role = "respondent"
)

// IsValid проверяет, что роль известна системе
func (r Role) IsValid() bool {
	return r == RoleInstructor || r == RoleRespondent
}

// User представляет пользователя в системе
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email     string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      Role      `gorm:"size:20;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (User) TableName() string {
	return "users"
}

// Actor возвращает пару (id, роль), с которой работает ядро авторизации
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

// BeforeSave хеширует пароль перед сохранением, только если он не является bcrypt-хешем
func (u *User) BeforeSave(tx *gorm.DB) error {
	if len(u.Password) > 0 && !strings.HasPrefix(u.Password, "$2a$") &&
		!strings.HasPrefix(u.Password, "$2b$") && !strings.HasPrefix(u.Password, "$2y$") {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("[User.BeforeSave] Ошибка при хешировании пароля для email=%s: %v", u.Email, err)
			return err
		}
		u.Password = string(hashedPassword)
	}
	return nil
}

// CheckPassword проверяет, соответствует ли переданный пароль хешу
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Actor - аутентифицированный участник запроса
type Actor struct {
	ID   uint
	Role Role
}

// IsInstructor / IsRespondent - проверки роли
func (a Actor) IsInstructor() bool { return a.Role == RoleInstructor }
func (a Actor) IsRespondent() bool { return a.Role == RoleRespondent }
