package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingoflash/internal/errors"
)

func TestAppError_ErrorIncludesWrapped(t *testing.T) {
	cause := stderrors.New("disk full")
	err := errors.NewInternalError(cause)

	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Contains(t, err.Error(), "INTERNAL_ERROR")
	assert.Contains(t, err.Error(), "disk full")
	assert.ErrorIs(t, err, cause)
}

func TestAs_FindsWrappedAppError(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", errors.NewNotFoundError("flashcard", "abc"))

	appErr, ok := errors.As(wrapped)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeNotFound, appErr.Code)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
	assert.Equal(t, "flashcard not found: abc", appErr.Message)

	_, ok = errors.As(stderrors.New("plain"))
	assert.False(t, ok)
}

func TestConstructors_StatusCodes(t *testing.T) {
	tests := []struct {
		err    *errors.AppError
		code   string
		status int
	}{
		{errors.NewValidationError("name", "required"), errors.ErrCodeValidation, http.StatusBadRequest},
		{errors.NewInvalidRatingError(nil), errors.ErrCodeInvalidRating, http.StatusBadRequest},
		{errors.NewForbiddenError("nope"), errors.ErrCodeForbidden, http.StatusForbidden},
		{errors.NewUnauthorizedError("who"), errors.ErrCodeUnauthorized, http.StatusUnauthorized},
		{errors.NewBadRequestError("bad"), errors.ErrCodeBadRequest, http.StatusBadRequest},
		{errors.NewUnavailableError("busy", nil), errors.ErrCodeUnavailable, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.Status)
		})
	}
}
