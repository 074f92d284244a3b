package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_UnwrapsToKind(t *testing.T) {
	err := New(ErrConflict, "duplicate option number")

	assert.True(t, errors.Is(err, ErrConflict), "ошибка должна разворачиваться в свой вид")
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "duplicate option number", err.Error())
}

func TestError_WrappedKeepsKindAndReason(t *testing.T) {
	err := fmt.Errorf("create option: %w", Newf(ErrBadRequest, "next valid option number is %d", 2))

	assert.True(t, errors.Is(err, ErrBadRequest))
	assert.Equal(t, "next valid option number is 2", Reason(err))
	assert.Equal(t, "bad_request", KindName(err))
}

func TestError_EmptyReasonFallsBackToKind(t *testing.T) {
	err := New(ErrForbidden, "")
	assert.Equal(t, "forbidden", err.Error())
}

func TestKindName(t *testing.T) {
	cases := map[error]string{
		ErrNotFound:        "not_found",
		ErrConflict:        "conflict",
		ErrBadRequest:      "bad_request",
		ErrValidation:      "validation_error",
		ErrUnauthorized:    "unauthorized",
		ErrForbidden:       "forbidden",
		ErrInvariant:       "invariant_violation",
		errors.New("boom"): "internal_server_error",
	}
	for err, want := range cases {
		assert.Equal(t, want, KindName(err), "неверное имя вида для %v", err)
	}
}

func TestReason_PlainError(t *testing.T) {
	assert.Equal(t, "boom", Reason(errors.New("boom")))
}
