package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassification(t *testing.T) {
	require.True(t, IsNotFound(NotFound("property", "p-1")))
	require.True(t, IsForbidden(Forbidden("not the owner")))
	require.True(t, IsConflict(Conflict("duplicate email")))
	require.False(t, IsNotFound(Forbidden("nope")))
	require.False(t, IsConflict(errors.New("plain")))
}

func TestNotFoundMessage(t *testing.T) {
	err := NotFound("lead", "l-42")
	require.Contains(t, err.Error(), "lead")
	require.Contains(t, err.Error(), "l-42")
}

func TestValidationError(t *testing.T) {
	err := NewValidation(map[string]string{"email": "not a valid email address"})
	require.True(t, IsValidation(err))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "not a valid email address", verr.Fields["email"])
}

func TestFieldError(t *testing.T) {
	err := FieldError("yearBuilt", "out of range")
	require.True(t, IsValidation(err))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 1)
}
