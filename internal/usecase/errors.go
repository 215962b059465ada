package usecase

import (
	"errors"
	"fmt"
)

// ErrorKind は呼び出し側が分岐に使うエラーの種類。
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindInvalidInput
	KindEmptyCart
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not found"
	case KindInvalidInput:
		return "invalid input"
	case KindEmptyCart:
		return "empty cart"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    ErrorKind
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

func NewError(kind ErrorKind, message string) error {
	return &Error{Kind: kind, Message: message}
}

func Forbidden(reason string) error {
	return NewError(KindForbidden, reason)
}

func NotFound(message string) error {
	return NewError(KindNotFound, message)
}

func InvalidInput(message string) error {
	return NewError(KindInvalidInput, message)
}

func EmptyCart() error {
	return NewError(KindEmptyCart, "cart is empty")
}

func Conflict(message string) error {
	return NewError(KindConflict, message)
}

func Unauthorized() error {
	return NewError(KindUnauthorized, "unauthorized")
}

// 原因はログ用に保持し、Messageだけを返す。
func Internal(message string, err error) error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

func IsKind(err error, kind ErrorKind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == kind
}
