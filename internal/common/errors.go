// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Gateway errors.
	ErrAuthExpired        = errors.New("authentication expired")
	ErrGatewayUnavailable = errors.New("gateway unavailable")
	ErrNotFound           = errors.New("not found")
	ErrRateLimit          = errors.New("rate limit exceeded")

	// Filter errors.
	ErrInvalidDateRange = errors.New("invalid date range")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRetryable determines if an error should trigger a retry.
// Authentication failures are never retryable: a 401 is terminal for the
// current cycle and belongs to the session collaborator.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrAuthExpired) {
		return false
	}

	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
