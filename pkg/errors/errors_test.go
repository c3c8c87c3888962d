package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppError(t *testing.T) {
	cause := fmt.Errorf("underlying failure")
	err := NewAppError(ErrAccessDenied, "access rejected", cause)

	assert.Equal(t, ErrAccessDenied, err.Code)
	assert.Equal(t, "access rejected", err.Message)
	assert.Equal(t, cause, err.Cause)
	assert.True(t, err.Retryable)
	assert.NotEmpty(t, err.UserMessage)
	assert.WithinDuration(t, time.Now(), err.Timestamp, time.Second)
}

func TestAppError_Error(t *testing.T) {
	withCause := NewAppError(ErrNotFound, "token unknown", fmt.Errorf("404"))
	assert.Contains(t, withCause.Error(), "NOT_FOUND")
	assert.Contains(t, withCause.Error(), "caused by")

	withoutCause := NewAppError(ErrNotFound, "token unknown", nil)
	assert.Equal(t, "NOT_FOUND: token unknown", withoutCause.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("root")
	err := NewAppError(ErrNetworkError, "request failed", cause)

	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
}

func TestNewAccessError_CarriesDetail(t *testing.T) {
	err := NewAccessError(ErrOtpRequired, "second factor needed", "2FA verification required. Please request and verify OTP first.")

	assert.Equal(t, ErrOtpRequired, err.Code)
	assert.Contains(t, err.Detail, "2FA verification required")
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, WrapError(nil, ErrNetworkError, "ignored"))

	wrapped := WrapError(fmt.Errorf("boom"), ErrDatabaseError, "save failed")
	require.NotNil(t, wrapped)
	assert.Equal(t, ErrDatabaseError, wrapped.Code)

	// Existing AppError is preserved when no code is given
	original := NewAppError(ErrNotFound, "gone", nil)
	again := WrapError(original, "", "outer")
	assert.Equal(t, original, again)
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{"nil error", nil, ""},
		{"deadline exceeded", context.DeadlineExceeded, ErrConnectionTimeout},
		{"canceled", context.Canceled, ErrNetworkError},
		{"net timeout", net.Error(timeoutErr{}), ErrConnectionTimeout},
		{"connection refused", fmt.Errorf("dial tcp: connection refused"), ErrNetworkError},
		{"sql failure", fmt.Errorf("sql: no rows in result set"), ErrDatabaseError},
		{"unknown", fmt.Errorf("something odd"), ErrUnknownError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := ClassifyError(tt.err)
			if tt.err == nil {
				assert.Nil(t, classified)
				return
			}
			require.NotNil(t, classified)
			assert.Equal(t, tt.expected, classified.Code)
		})
	}
}

func TestClassifyError_PreservesAppError(t *testing.T) {
	original := NewAppError(ErrOtpRequired, "needs code", nil)
	classified := ClassifyError(fmt.Errorf("request failed: %w", original))
	assert.Equal(t, ErrOtpRequired, classified.Code)
}

func TestIs(t *testing.T) {
	err := NewAppError(ErrNotFound, "gone", nil)
	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrAccessDenied))
	assert.True(t, Is(fmt.Errorf("wrapped: %w", err), ErrNotFound))
	assert.False(t, Is(fmt.Errorf("plain"), ErrNotFound))
}

func TestRetryability(t *testing.T) {
	assert.True(t, NewAppError(ErrAccessDenied, "", nil).IsRetryable())
	assert.True(t, NewAppError(ErrNetworkError, "", nil).IsRetryable())
	assert.False(t, NewAppError(ErrNotFound, "", nil).IsRetryable())
	assert.False(t, NewAppError(ErrMalformedContainer, "", nil).IsRetryable())
}

func TestUserMessages(t *testing.T) {
	codes := []ErrorCode{
		ErrMalformedContainer, ErrValidationFailed, ErrNotFound,
		ErrAccessDenied, ErrOtpRequired, ErrOtpRejected,
		ErrNetworkError, ErrConnectionTimeout, ErrServerError,
		ErrDatabaseError, ErrInvalidState, ErrConfigurationError,
	}
	for _, code := range codes {
		err := NewAppError(code, "internal text", nil)
		assert.NotEmpty(t, err.GetUserMessage(), "code %s", code)
		assert.NotEqual(t, "internal text", err.GetUserMessage(), "code %s should have a dedicated user message", code)
	}

	assert.Equal(t, "File not found or already destroyed.", NewAppError(ErrNotFound, "", nil).GetUserMessage())
}
