// Package apperr is the error taxonomy shared by services and controllers.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindConflict
	KindRejectedImage
	KindInvalidTransition
	KindNotFound
	KindForbidden
	KindUnauthorized
	KindTooLarge
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindConflict:
		return "conflict"
	case KindRejectedImage:
		return "rejected_image"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	case KindTooLarge:
		return "too_large"
	default:
		return "internal"
	}
}

// Error carries a Kind and a caller-safe message. Err is the underlying
// cause and is never shown to clients.
type Error struct {
	Kind Kind
	Msg  string
	Err  error

	// Confidence is set for KindRejectedImage.
	Confidence float64
}

func (e *Error) Error() string {
	if e.Err != nil {
		if e.Msg != "" {
			return e.Msg + ": " + e.Err.Error()
		}
		return e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func InvalidInput(msg string) error { return &Error{Kind: KindInvalidInput, Msg: msg} }

func Conflict(msg string) error { return &Error{Kind: KindConflict, Msg: msg} }

func RejectedImage(msg string, confidence float64) error {
	return &Error{Kind: KindRejectedImage, Msg: msg, Confidence: confidence}
}

func InvalidTransition(msg string) error { return &Error{Kind: KindInvalidTransition, Msg: msg} }

func NotFound(msg string) error { return &Error{Kind: KindNotFound, Msg: msg} }

func Forbidden(msg string) error { return &Error{Kind: KindForbidden, Msg: msg} }

func Unauthorized(msg string) error { return &Error{Kind: KindUnauthorized, Msg: msg} }

func TooLarge(msg string) error { return &Error{Kind: KindTooLarge, Msg: msg} }

// Internal wraps a store or decode failure.
func Internal(err error, msg string) error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf reports the kind of err; unknown errors are internal.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// HTTPStatus maps a kind onto the response code.
func HTTPStatus(k Kind) int {
	switch k {
	case KindInvalidInput, KindConflict, KindRejectedImage, KindInvalidTransition:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
