package domain

import "errors"

// ErrorKind classifies a failure so the transport layer can map it to a
// status code without string matching.
type ErrorKind string

const (
	KindValidation      ErrorKind = "validation"
	KindNotFound        ErrorKind = "not_found"
	KindForbidden       ErrorKind = "forbidden"
	KindInvalidState    ErrorKind = "invalid_state"
	KindRateLimited     ErrorKind = "rate_limited"
	KindProvider        ErrorKind = "provider"
	KindProviderTimeout ErrorKind = "provider_timeout"
)

// Error is a kinded error with a single user-facing message. Internal
// causes are wrapped but never surfaced to the caller.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func NewNotFoundError(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func NewForbiddenError(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func NewInvalidStateError(msg string) *Error {
	return &Error{Kind: KindInvalidState, Message: msg}
}

func NewRateLimitError(msg string) *Error {
	return &Error{Kind: KindRateLimited, Message: msg}
}

func NewProviderError(msg string, err error) *Error {
	return &Error{Kind: KindProvider, Message: msg, Err: err}
}

func NewProviderTimeoutError(msg string, err error) *Error {
	return &Error{Kind: KindProviderTimeout, Message: msg, Err: err}
}

// KindOf returns the kind of err, or KindProvider for unclassified errors
// from nested operations.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindProvider
}
