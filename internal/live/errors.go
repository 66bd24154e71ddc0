package live

import "errors"

type ErrorKind int

const (
	KindNotFound ErrorKind = iota + 1
	KindAuthorization
	KindInvalidState
	KindValidation
	KindPersistence
)

// Error is the failure type every coordinator operation returns. The
// gateway reports it to the single caller only; it is never broadcast.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindAuthorization, Message: msg}
}

func InvalidState(msg string) *Error {
	return &Error{Kind: KindInvalidState, Message: msg}
}

func Invalid(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func PersistenceFailure(err error) *Error {
	return &Error{Kind: KindPersistence, Message: "internal error", cause: err}
}

// KindOf returns the error's kind, or 0 for non-live errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
