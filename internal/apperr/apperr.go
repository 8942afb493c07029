// Package apperr defines the error kinds handlers map onto HTTP statuses.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	Persistence Kind = iota
	Validation
	Authentication
	InvalidCredentials
	NotFound
	DuplicateEmail
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Authentication:
		return "authentication"
	case InvalidCredentials:
		return "invalid_credentials"
	case NotFound:
		return "not_found"
	case DuplicateEmail:
		return "duplicate_email"
	default:
		return "persistence"
	}
}

// Status returns the HTTP status for the kind.
func (k Kind) Status() int {
	switch k {
	case Validation:
		return http.StatusBadRequest
	case Authentication, InvalidCredentials:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	case DuplicateEmail:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error carries a kind, a client-safe message and optional per-field details.
// Err is the underlying cause and is never sent to clients.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind, so sentinels like ErrNotFound
// work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Message == ""
}

// Sentinels for errors.Is checks.
var (
	ErrValidation         = &Error{Kind: Validation}
	ErrAuthentication     = &Error{Kind: Authentication}
	ErrInvalidCredentials = &Error{Kind: InvalidCredentials}
	ErrNotFound           = &Error{Kind: NotFound}
	ErrDuplicateEmail     = &Error{Kind: DuplicateEmail}
	ErrPersistence        = &Error{Kind: Persistence}
)

func Invalid(msg string, details map[string]string) *Error {
	return &Error{Kind: Validation, Message: msg, Details: details}
}

func Unauthenticated(msg string) *Error {
	return &Error{Kind: Authentication, Message: msg}
}

func BadCredentials() *Error {
	return &Error{Kind: InvalidCredentials, Message: "invalid credentials"}
}

func Missing(msg string) *Error {
	return &Error{Kind: NotFound, Message: msg}
}

func Duplicate(msg string, err error) *Error {
	return &Error{Kind: DuplicateEmail, Message: msg, Err: err}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: Persistence, Message: msg, Err: err}
}

// KindOf reports the kind of err. Errors outside the taxonomy are Persistence.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Persistence
}
