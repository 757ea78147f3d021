package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/soilsense/internal/model"
)

// Validation errors.
var (
	ErrNilContext        = errors.New("context cannot be nil")
	ErrEmptyString       = errors.New("string parameter cannot be empty")
	ErrNilParameter      = errors.New("parameter cannot be nil")
	ErrEmptySlice        = errors.New("slice cannot be empty")
	ErrInvalidRecord     = errors.New("invalid assessment record")
	ErrInvalidLimit      = errors.New("limit and offset must be non-negative")
	ErrMissingFertilizer = errors.New("assessment has no fertilizer key")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRecord validates an assessment record before it is written.
func validateRecord(record *model.AssessmentRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if record.Assessment.Fertilizer.Key == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrMissingFertilizer)
	}
	if record.Assessment.AssessmentDate.IsZero() {
		return fmt.Errorf("%w: missing assessment date", ErrInvalidRecord)
	}
	return nil
}
