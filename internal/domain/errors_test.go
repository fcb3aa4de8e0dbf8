package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_WrappedSentinelStillMatches(t *testing.T) {
	err := fmt.Errorf("login: %w", ErrInvalidCredentials)

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NotErrorIs(t, err, ErrUserNotFound)

	var de *Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, CodeInvalidCredentials, de.Code)
	assert.Equal(t, "Invalid email or password", de.Error())
}

func TestError_IsMatchesByCode(t *testing.T) {
	detailed := &Error{Code: CodeValidation, Message: "Invalid request body", Resolution: "Email failed email"}

	assert.ErrorIs(t, detailed, ErrValidation)
	assert.NotErrorIs(t, detailed, ErrInternal)
	assert.NotErrorIs(t, errors.New("plain"), ErrValidation)
}
