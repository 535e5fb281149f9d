package auth

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure so the HTTP layer can pick a status code without
// inspecting message strings.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuth
	KindForbidden
	KindConflict
	KindNotFound
	KindStorage
)

type Error struct {
	Kind    Kind
	Message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.err }

// Is matches on kind and message so the sentinel values below work with
// errors.Is even after wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

var (
	// ErrInvalidCredentials is deliberately identical for a wrong password
	// and an unknown or inactive account.
	ErrInvalidCredentials = &Error{Kind: KindAuth, Message: "Invalid email or password"}

	// ErrInvalidSession covers missing, expired, and inactive-user sessions
	// without distinguishing them.
	ErrInvalidSession = &Error{Kind: KindAuth, Message: "Invalid or expired session"}

	ErrEmailInUse = &Error{Kind: KindConflict, Message: "Email already in use"}

	ErrInvalidResetToken = &Error{Kind: KindValidation, Message: "Invalid or expired reset token"}

	ErrNotAdmin = &Error{Kind: KindForbidden, Message: "Unauthorized"}
)

func validationf(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// storage wraps a store failure behind a generic client-facing message.
func storage(err error) *Error {
	return &Error{Kind: KindStorage, Message: "Something went wrong. Please try again later.", err: err}
}

// HTTPStatus maps an error to the response status code. Unknown errors are
// treated as storage failures.
func HTTPStatus(err error) int {
	var ae *Error
	if !errors.As(err, &ae) {
		return http.StatusInternalServerError
	}
	switch ae.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-safe message for an error.
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return "Something went wrong. Please try again later."
}
