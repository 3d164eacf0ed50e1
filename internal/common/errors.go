package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	// ErrEmptyDocument is an input error: nothing to extract. Reported
	// immediately, no partial model is fabricated.
	ErrEmptyDocument = errors.New("empty or unreadable document")

	// ErrRateLimited marks a transient completion-service failure (retry).
	ErrRateLimited = errors.New("completion service rate limited")

	// ErrUnavailable marks a transient network or 5xx failure (retry).
	ErrUnavailable = errors.New("completion service unavailable")

	// ErrAuth marks a terminal completion-service failure (no retry).
	ErrAuth = errors.New("completion service authentication failed")

	// ErrQuotaExhausted marks a terminal completion-service failure (no retry).
	ErrQuotaExhausted = errors.New("completion service quota exhausted")

	// ErrUnparsable means model output survived no repair strategy.
	ErrUnparsable = errors.New("unparsable completion output")

	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsTerminal reports whether a completion-service error must not be retried.
func IsTerminal(err error) bool {
	return errors.Is(err, ErrAuth) || errors.Is(err, ErrQuotaExhausted)
}

// IsTransient reports whether a completion-service error is worth retrying.
func IsTransient(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrUnavailable)
}
