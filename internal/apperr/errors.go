// Package apperr defines the error kinds surfaced by the meteorite service.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the transport layer
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindRateLimited
	KindNotReady
	KindMisconfigured
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	case KindNotReady:
		return "not_ready"
	case KindMisconfigured:
		return "misconfigured"
	default:
		return "internal"
	}
}

// Error carries a user-facing message. Err, when set, is the underlying cause
// and is never shown to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so sentinels below work with errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Sentinels for errors.Is checks
var (
	ErrValidation  = &Error{Kind: KindValidation}
	ErrNotFound    = &Error{Kind: KindNotFound}
	ErrRateLimited = &Error{Kind: KindRateLimited}
	ErrNotReady    = &Error{Kind: KindNotReady}
	ErrInternal    = &Error{Kind: KindInternal}
)

// Validation returns a validation error with a formatted message
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound returns a not-found error
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// RateLimited returns a rate-limited error
func RateLimited(message string) *Error {
	return &Error{Kind: KindRateLimited, Message: message}
}

// NotReady returns a not-ready error
func NotReady(message string) *Error {
	return &Error{Kind: KindNotReady, Message: message}
}

// Misconfigured returns a configuration error
func Misconfigured(message string) *Error {
	return &Error{Kind: KindMisconfigured, Message: message}
}

// Internal wraps an unexpected fault
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "Internal server error.", Err: err}
}

// KindOf returns the kind of err, KindInternal for foreign errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf returns the client-safe message for err
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "Internal server error."
}
