// Package apperr defines the typed errors every service operation returns.
// Handlers map kinds to HTTP status codes; internal causes never reach clients.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindValidation Kind = iota // malformed or missing input, caller's fault
	KindUnauthorized
	KindAccessDenied
	KindNotFound
	KindConflict
	KindInternal // backend failure, message redacted before exposure
)

// Error carries a kind, a user-facing message and an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an error of the given kind with a user-facing message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation reports bad input naming the violated field or rule.
func Validation(message string) *Error { return New(KindValidation, message) }

// Unauthorized reports a missing or invalid credential.
func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }

// AccessDenied reports an authenticated caller lacking permission.
func AccessDenied(message string) *Error { return New(KindAccessDenied, message) }

// NotFound reports a missing entity.
func NotFound(message string) *Error { return New(KindNotFound, message) }

// Conflict reports a uniqueness violation or cross-auth-method mismatch.
func Conflict(message string) *Error { return New(KindConflict, message) }

// Internal wraps a backend failure. The message is generic; cause stays internal.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

// KindOf extracts the kind of err, defaulting to KindInternal for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
