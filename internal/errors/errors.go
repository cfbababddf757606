package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind represents the type of error
type Kind int

const (
	ErrInternal Kind = iota
	ErrNotFound
	ErrValidation
	// ErrTransport is a network failure or non-2xx response from the upstream API
	ErrTransport
	// ErrMalformed is an upstream body that cannot be used (bad JSON, GraphQL errors, no data)
	ErrMalformed
)

func (k Kind) String() string {
	switch k {
	case ErrNotFound:
		return "not_found"
	case ErrValidation:
		return "validation"
	case ErrTransport:
		return "transport"
	case ErrMalformed:
		return "malformed"
	default:
		return "internal"
	}
}

// Error is an application-level error with a kind for classification
type Error struct {
	Kind    Kind
	Message string
	Err     error // underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Constructor functions for common error types

func NotFound(msg string) *Error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validation(msg string) *Error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func Transport(err error, msg string) *Error {
	return &Error{Kind: ErrTransport, Message: msg, Err: err}
}

func Transportf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrTransport, Message: fmt.Sprintf(format, args...)}
}

func Malformed(err error, msg string) *Error {
	return &Error{Kind: ErrMalformed, Message: msg, Err: err}
}

func Malformedf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrMalformed, Message: fmt.Sprintf(format, args...)}
}

func Internal(err error) *Error {
	return &Error{Kind: ErrInternal, Message: "internal error", Err: err}
}

func Internalf(format string, args ...interface{}) *Error {
	return &Error{Kind: ErrInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or ErrInternal
func KindOf(err error) Kind {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return ErrInternal
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}
