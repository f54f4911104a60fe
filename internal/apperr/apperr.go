package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies an application error so the HTTP layer can map it to a
// status code without inspecting message text.
type Kind int

const (
	KindValidation Kind = iota
	KindInvalidStateTransition
	KindInsufficientStock
	KindNotFound
	KindConflict
	KindInternal
)

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

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func InvalidStateTransition(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidStateTransition, Message: fmt.Sprintf(format, args...)}
}

func InsufficientStock(format string, args ...any) *Error {
	return &Error{Kind: KindInsufficientStock, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// IsKind reports whether err is an application error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

// StatusOf maps an error to the HTTP status code of its kind. Unknown errors
// are treated as internal.
func StatusOf(err error) int {
	var ae *Error
	if !errors.As(err, &ae) {
		return fiber.StatusInternalServerError
	}
	switch ae.Kind {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindInvalidStateTransition:
		return fiber.StatusConflict
	case KindInsufficientStock:
		return fiber.StatusUnprocessableEntity
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
