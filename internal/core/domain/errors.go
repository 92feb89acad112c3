package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingTitle        = errors.New("title is required")
	ErrNoQuestions         = errors.New("at least one question is required")
	ErrEmptyQuestionText   = errors.New("question text is required")
	ErrInsufficientOptions = errors.New("at least two non-empty options are required")
	ErrUnknownQuestionType = errors.New("unknown question type")
	ErrIncompleteResponse  = errors.New("response must answer every question exactly once")
	ErrInvalidAnswer       = errors.New("invalid answer")
	ErrPollNotFound        = errors.New("poll not found")
	ErrInvalidPollID       = errors.New("invalid poll id")
	ErrResultsNotFound     = errors.New("results snapshot not found")
)

// ValidationError ties a validation failure to the question it concerns.
type ValidationError struct {
	// Err is one of the sentinel errors above.
	Err error
	// Index is the 0-based question index.
	Index int
	// Hint is an optional suggestion for the submitter.
	Hint string
}

func (e *ValidationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("question %d: %v (did you mean %q?)", e.Index, e.Err, e.Hint)
	}
	return fmt.Sprintf("question %d: %v", e.Index, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func newValidationError(err error, index int) *ValidationError {
	return &ValidationError{Err: err, Index: index}
}

// IsValidationError reports whether err was caused by user input rather than by
// storage or an internal failure.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrMissingTitle,
		ErrNoQuestions,
		ErrEmptyQuestionText,
		ErrInsufficientOptions,
		ErrUnknownQuestionType,
		ErrIncompleteResponse,
		ErrInvalidAnswer,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
