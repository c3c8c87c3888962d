package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// ErrorCode represents different types of application errors
type ErrorCode string

const (
	// Container parsing errors
	ErrMalformedContainer ErrorCode = "MALFORMED_CONTAINER"

	// Local input validation errors
	ErrValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Access protocol errors
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrAccessDenied ErrorCode = "ACCESS_DENIED"
	ErrOtpRequired  ErrorCode = "OTP_REQUIRED"
	ErrOtpRejected  ErrorCode = "OTP_REJECTED"

	// Network and connectivity errors
	ErrNetworkError      ErrorCode = "NETWORK_ERROR"
	ErrConnectionTimeout ErrorCode = "CONNECTION_TIMEOUT"
	ErrServerError       ErrorCode = "SERVER_ERROR"

	// Local state errors
	ErrDatabaseError ErrorCode = "DATABASE_ERROR"
	ErrInvalidState  ErrorCode = "INVALID_STATE"

	// Configuration errors
	ErrConfigurationError ErrorCode = "CONFIGURATION_ERROR"

	// Generic errors
	ErrUnknownError ErrorCode = "UNKNOWN_ERROR"
)

// AppError represents an application-specific error with user-friendly messaging
type AppError struct {
	Code        ErrorCode              `json:"code"`
	Message     string                 `json:"message"`
	UserMessage string                 `json:"user_message"`
	Detail      string                 `json:"detail,omitempty"` // server-supplied free text, when present
	Cause       error                  `json:"-"`                // Don't serialize the underlying error
	Context     map[string]interface{} `json:"context,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
	Retryable   bool                   `json:"retryable"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsRetryable reports whether the user may retry the failed action.
// Retrying is always a manual user decision; no caller performs
// automatic retries of access calls.
func (e *AppError) IsRetryable() bool {
	return e.Retryable
}

// GetUserMessage returns a user-friendly error message
func (e *AppError) GetUserMessage() string {
	if e.UserMessage != "" {
		return e.UserMessage
	}
	return e.Message
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:        code,
		Message:     message,
		UserMessage: getUserFriendlyMessage(code, message),
		Cause:       cause,
		Timestamp:   time.Now(),
		Retryable:   isRetryable(code),
	}
}

// NewAccessError creates an application error that carries the server's
// free-text detail alongside the classified code.
func NewAccessError(code ErrorCode, message, detail string) *AppError {
	err := NewAppError(code, message, nil)
	err.Detail = detail
	return err
}

// WrapError wraps an existing error with application error context
func WrapError(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	// If it's already an AppError, preserve the original code if not specified
	if appErr, ok := err.(*AppError); ok && code == "" {
		return appErr
	}

	return NewAppError(code, message, err)
}

// ClassifyError attempts to classify a generic error into an AppError
func ClassifyError(err error) *AppError {
	if err == nil {
		return nil
	}

	// If it's already an AppError, return as-is
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	// Context errors
	if errors.Is(err, context.DeadlineExceeded) {
		return NewAppError(ErrConnectionTimeout, "Request timed out", err)
	}
	if errors.Is(err, context.Canceled) {
		return NewAppError(ErrNetworkError, "Request was canceled", err)
	}

	// Network errors
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return NewAppError(ErrConnectionTimeout, "Network operation timed out", err)
		}
		return NewAppError(ErrNetworkError, "Network error occurred", err)
	}

	errStr := strings.ToLower(err.Error())

	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "connection reset") {
		return NewAppError(ErrNetworkError, "Could not reach the server", err)
	}

	if strings.Contains(errStr, "database") || strings.Contains(errStr, "sql") {
		return NewAppError(ErrDatabaseError, "Local database error", err)
	}

	// Default to unknown error
	return NewAppError(ErrUnknownError, "An unexpected error occurred", err)
}

// Is reports whether err carries the given application error code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// getUserFriendlyMessage returns a user-friendly message for the error code
func getUserFriendlyMessage(code ErrorCode, originalMessage string) string {
	switch code {
	case ErrMalformedContainer:
		return "This file is not a valid container. It may be corrupted or not a .bar file."
	case ErrValidationFailed:
		return "The provided input is invalid. Please check it and try again."
	case ErrNotFound:
		return "File not found or already destroyed."
	case ErrAccessDenied:
		return "Access denied. The password may be wrong or the view limit may be exhausted."
	case ErrOtpRequired:
		return "This file requires email verification. Request a code to continue."
	case ErrOtpRejected:
		return "The verification code was not accepted. Please check it or request a new one."
	case ErrNetworkError:
		return "A network error occurred. Please check your connection and try again."
	case ErrConnectionTimeout:
		return "The connection timed out. Please check your connection and try again."
	case ErrServerError:
		return "The server reported an error. Please try again in a few minutes."
	case ErrDatabaseError:
		return "A local storage error occurred. Please try again."
	case ErrInvalidState:
		return "This action is no longer available for the current session."
	case ErrConfigurationError:
		return "There's a configuration error. Please check your settings."
	default:
		if originalMessage != "" {
			return originalMessage
		}
		return "An unexpected error occurred. Please try again."
	}
}

// isRetryable determines whether the user may retry after the error
func isRetryable(code ErrorCode) bool {
	retryableErrors := map[ErrorCode]bool{
		ErrAccessDenied:      true, // different password, bounded by server-side lockout
		ErrOtpRejected:       true,
		ErrValidationFailed:  true,
		ErrNetworkError:      true,
		ErrConnectionTimeout: true,
		ErrServerError:       true,
		ErrDatabaseError:     true,
	}
	return retryableErrors[code]
}
