package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryState    Category = "state"
	CategoryContent  Category = "content"
	CategoryProtocol Category = "protocol"
	CategorySession  Category = "session"
	CategoryConfig   Category = "config"
	CategoryPublish  Category = "publish"
	CategoryCLI      Category = "cli"
)

// LessonError is a structured error with a registered code.
type LessonError struct {
	// Code is a unique error identifier (e.g., "L001").
	Code string

	// Category is the error type (state, protocol, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *LessonError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *LessonError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a LessonError with the same code, so
// errors.Is(err, errors.New("L001")) matches any L001 error.
func (e *LessonError) Is(target error) bool {
	var t *LessonError
	if !stderrors.As(target, &t) {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithDetail adds a detailed explanation to the error.
func (e *LessonError) WithDetail(d string) *LessonError {
	e.Detail = d
	return e
}

// WithDetailf adds a formatted detail to the error.
func (e *LessonError) WithDetailf(format string, args ...any) *LessonError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *LessonError) WithSuggestion(s string) *LessonError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *LessonError) Wrap(err error) *LessonError {
	e.Wrapped = err
	return e
}

// New creates a LessonError from a registered error code.
func New(code string) *LessonError {
	template, ok := registry[code]
	if !ok {
		return &LessonError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &LessonError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new LessonError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *LessonError {
	return &LessonError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Code returns the code of the first LessonError in err's chain, or "".
func Code(err error) string {
	var le *LessonError
	if stderrors.As(err, &le) {
		return le.Code
	}
	return ""
}
