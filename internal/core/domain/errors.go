package domain

import (
	"errors"
	"fmt"
)

// Kind is a machine-readable error code shared by every layer.
type Kind string

const (
	KindUnknown           Kind = "UNKNOWN"
	KindValidation        Kind = "VALIDATION"
	KindNotFound          Kind = "NOT_FOUND"
	KindForbidden         Kind = "FORBIDDEN"
	KindCapacityViolation Kind = "CAPACITY_VIOLATION"
	KindClassFull         Kind = "CLASS_FULL"
	KindAlreadyBooked     Kind = "ALREADY_BOOKED"
	KindAlreadyCancelled  Kind = "ALREADY_CANCELLED"
	KindInvalidTransition Kind = "INVALID_TRANSITION"
	KindStorageConflict   Kind = "STORAGE_CONFLICT"
	KindUnavailable       Kind = "UNAVAILABLE"
	KindPartialFailure    Kind = "PARTIAL_FAILURE"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match when target is a *Error of the same kind, so the
// sentinels below work with errors.Is regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrValidation        = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrNotFound          = &Error{Kind: KindNotFound, Message: "not found"}
	ErrForbidden         = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrCapacityViolation = &Error{Kind: KindCapacityViolation, Message: "capacity below current enrollment"}
	ErrClassFull         = &Error{Kind: KindClassFull, Message: "class is full"}
	ErrAlreadyBooked     = &Error{Kind: KindAlreadyBooked, Message: "user already has an active booking for this class"}
	ErrAlreadyCancelled  = &Error{Kind: KindAlreadyCancelled, Message: "booking already cancelled"}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition, Message: "invalid status transition"}
	ErrStorageConflict   = &Error{Kind: KindStorageConflict, Message: "record was modified concurrently"}
	ErrUnavailable       = &Error{Kind: KindUnavailable, Message: "service temporarily unavailable, try again"}
	ErrPartialFailure    = &Error{Kind: KindPartialFailure, Message: "operation partially failed"}
)

// NewError builds an error of the given kind with a specific message.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches a kind to an underlying cause.
func WrapError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
