package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("create appointment: %w", Conflict("employee has a conflicting appointment"))
	assert.Equal(t, KindConflict, KindOf(err))
	assert.True(t, Is(err, KindConflict))

	var appErr *Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "employee has a conflicting appointment", appErr.Message)
}

func TestUnknownErrorsAreInternal(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("connection reset")))
	assert.False(t, Is(nil, KindInternal))
}

func TestInternalHidesCause(t *testing.T) {
	cause := errors.New("pool exhausted")
	err := Internal(cause)
	assert.Equal(t, "internal server error", err.Message)
	assert.ErrorIs(t, err, cause)
}

func TestFieldValidation(t *testing.T) {
	err := FieldValidation("startTime", "startTime must be HH:MM")
	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, map[string]string{"startTime": "startTime must be HH:MM"}, err.Fields)
	assert.Equal(t, "appointment not found", NotFound("appointment").Message)
}
