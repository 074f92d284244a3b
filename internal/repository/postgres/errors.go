package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// Причины конфликтов по именам ограничений из миграций
var constraintReasons = map[string]string{
	"uq_surveys_title":            "survey title already exists",
	"uq_surveys_description":      "survey description already exists",
	"uq_questions_survey_number":  "question number already exists in this survey",
	"uq_questions_survey_content": "question content already exists in this survey",
	"uq_options_question_number":  "duplicate option number",
	"uq_options_question_content": "duplicate option content",
	"uq_options_question_score":   "duplicate option score",
	"uq_answers_question":         "question already has an answer",
	"uq_users_email":              "email already registered",
	"uq_users_username":           "username already taken",
}

// pgErrorInfo извлекает код и имя ограничения для pgconn и lib/pq драйверов
func pgErrorInfo(err error) (code, constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint, true
	}
	return "", "", false
}

// isUniqueViolation проверяет Postgres unique violation (23505)
func isUniqueViolation(err error) bool {
	code, _, ok := pgErrorInfo(err)
	return ok && code == pgUniqueViolation
}

// translateError приводит ошибки gorm/драйвера к видам apperrors
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	code, constraint, ok := pgErrorInfo(err)
	if !ok {
		return err
	}
	switch code {
	case pgUniqueViolation:
		reason, known := constraintReasons[constraint]
		if !known {
			reason = "unique constraint violated"
		}
		return apperrors.New(apperrors.ErrConflict, reason)
	case pgCheckViolation:
		return apperrors.Newf(apperrors.ErrInvariant, "check constraint %s violated", constraint)
	}
	return err
}
