package apperr

import "errors"

// Kinds. Every domain error unwraps to exactly one of these.
var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is a domain error with a human readable message and a kind.
type Error struct {
	kind error
	msg  string
}

func New(kind error, msg string) *Error { return &Error{kind: kind, msg: msg} }

func (e *Error) Error() string { return e.msg }
func (e *Error) Unwrap() error { return e.kind }

// Kind returns the taxonomy kind of err, or nil for foreign errors.
func Kind(err error) error {
	for _, k := range []error{ErrValidation, ErrNotFound, ErrInvalidState, ErrConflict, ErrUnauthorized} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Validation builds an ad-hoc validation error.
func Validation(msg string) error { return New(ErrValidation, msg) }
