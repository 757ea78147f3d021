// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Input errors.
	ErrInvalidInput = errors.New("invalid input")
	ErrNoCandidates = errors.New("no fertilizer candidates")

	// Assessment errors.
	ErrAssessmentFailed = errors.New("assessment failed")

	// Storage errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")
	ErrDatabaseLocked = errors.New("database locked")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// AssessmentError reports which analysis component could not produce a result.
type AssessmentError struct {
	Err       error
	Component string
}

func (e *AssessmentError) Error() string {
	return fmt.Sprintf("%s: %s component: %v", ErrAssessmentFailed, e.Component, e.Err)
}

func (e *AssessmentError) Unwrap() error {
	return e.Err
}

// Is makes every AssessmentError match ErrAssessmentFailed.
func (e *AssessmentError) Is(target error) bool {
	return target == ErrAssessmentFailed
}

// NewAssessmentError wraps err as a failure of the named component.
func NewAssessmentError(component string, err error) error {
	return &AssessmentError{
		Component: component,
		Err:       err,
	}
}

// InvalidInputf builds a validation error wrapping ErrInvalidInput.
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

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
func IsRetryable(err error) bool {
	if errors.Is(err, ErrDatabaseLocked) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
