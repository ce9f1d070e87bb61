package relay

import (
	"fmt"

	"github.com/relayhttp/relay/internal/errors"
)

// ErrMultipleNext is returned for the request when a handler invokes its
// continuation more than once within a single dispatch.
var ErrMultipleNext error = errors.New("E102")

// StatusCoder is implemented by errors that carry an HTTP status. The
// error-coercion middleware translates such errors into responses instead of
// letting them propagate to the transport's 500 catch-all.
type StatusCoder interface {
	StatusCode() int
}

// Error is a handler failure with an HTTP status and an optional response
// body. It satisfies StatusCoder.
type Error struct {
	// Status is the HTTP status to answer with.
	Status int

	// Message is the error text. Used as the response body when Body is nil.
	Message string

	// Body overrides the response body when set. Rendered like any handler
	// body (string, bytes, or JSON value).
	Body any

	// Err is the underlying cause, if any.
	Err error
}

// NewError creates an Error with the given status and message.
func NewError(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Errorf creates an Error with a formatted message.
func Errorf(status int, format string, args ...any) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("http error %d", e.Status)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode implements StatusCoder.
func (e *Error) StatusCode() int {
	return e.Status
}
