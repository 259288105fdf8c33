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

// Document-level failure taxonomy. Field-level non-matches never surface as
// errors; they degrade to absent fields.
var (
	ErrUnreadableDocument  = errors.New("unreadable document")
	ErrUnsupportedFormat   = errors.New("unsupported input format")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrMalformedOutput     = errors.New("malformed extractor output")
	ErrSchemaViolation     = errors.New("schema violation")
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input")
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

// FailureKind maps a pipeline error onto its taxonomy label for responses
// and persisted error messages.
func FailureKind(err error) string {
	switch {
	case errors.Is(err, ErrUnreadableDocument):
		return "unreadable-document"
	case errors.Is(err, ErrUnsupportedFormat):
		return "unsupported-input-format"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "upstream-unavailable"
	case errors.Is(err, ErrMalformedOutput):
		return "malformed-output"
	case errors.Is(err, ErrSchemaViolation):
		return "schema-violation"
	case errors.Is(err, ErrNotFound):
		return "not-found"
	case errors.Is(err, ErrInvalidInput):
		return "invalid-input"
	default:
		return "internal"
	}
}
