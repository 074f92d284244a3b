package errors

import (
	"errors"
	"fmt"
)

// Общие ошибки приложения (виды ошибок)
var (
	// ErrNotFound используется, когда запись или ресурс не найдены.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized используется, когда роль актора не допускает действие.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden используется, когда актор не является владельцем ресурса.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation используется для ошибок валидации входных данных.
	ErrValidation = errors.New("validation failed")

	// ErrBadRequest используется, когда операция недопустима в текущем состоянии
	// (нарушена последовательность номеров, вопрос ещё не отвечен, опрос уже завершён).
	ErrBadRequest = errors.New("bad request")

	// ErrConflict используется для конфликтов уникальности и состояния.
	ErrConflict = errors.New("resource state conflict")

	// ErrInvariant используется, когда операция нарушила бы инвариант хранилища
	// (например, отрицательный суммарный балл опроса). Транзакция откатывается.
	ErrInvariant = errors.New("invariant violation")
)

// Error - бизнес-ошибка с видом и человекочитаемой причиной.
// errors.Is(err, Kind) работает через Unwrap.
type Error struct {
	Kind   error
	Reason string
}

func (e *Error) Error() string {
	if e.Reason == "" {
		return e.Kind.Error()
	}
	return e.Reason
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// New создает бизнес-ошибку заданного вида
func New(kind error, reason string) error {
	return &Error{Kind: kind, Reason: reason}
}

// Newf создает бизнес-ошибку с форматированной причиной
func Newf(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// Reason возвращает причину бизнес-ошибки или текст произвольной ошибки
func Reason(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Error()
	}
	return err.Error()
}

// KindName возвращает машинное имя вида ошибки для поля error_type ответа
func KindName(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrBadRequest):
		return "bad_request"
	case errors.Is(err, ErrValidation):
		return "validation_error"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrInvariant):
		return "invariant_violation"
	default:
		return "internal_server_error"
	}
}
