package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryComposition Category = "composition"
	CategoryRouting     Category = "routing"
	CategoryProtocol    Category = "protocol"
	CategoryConfig      Category = "config"
	CategoryCLI         Category = "cli"
)

// RelayError is a structured error with a stable code, suggestions, and
// documentation links.
type RelayError struct {
	// Code is a unique error identifier (e.g., "E101").
	Code string

	// Category is the error type (composition, routing, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *RelayError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *RelayError) Unwrap() error {
	return e.Wrapped
}

// WithDetail replaces the detailed explanation of the error.
func (e *RelayError) WithDetail(d string) *RelayError {
	e.Detail = d
	return e
}

// WithDetailf replaces the detailed explanation with a formatted string.
func (e *RelayError) WithDetailf(format string, args ...any) *RelayError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *RelayError) WithSuggestion(s string) *RelayError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *RelayError) Wrap(err error) *RelayError {
	e.Wrapped = err
	return e
}

// New creates a RelayError from a registered error code.
func New(code string) *RelayError {
	template, ok := registry[code]
	if !ok {
		return &RelayError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &RelayError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
		DocURL:     template.DocURL,
	}
}

// Newf creates a new RelayError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *RelayError {
	return &RelayError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a RelayError.
func FromError(err error, code string) *RelayError {
	if err == nil {
		return nil
	}
	if re, ok := err.(*RelayError); ok {
		return re
	}
	return New(code).Wrap(err)
}
