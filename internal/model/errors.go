package model

import (
	"errors"
	"fmt"
)

// Kind classifies an engine error for the caller.
type Kind string

const (
	// KindInvalidArgument marks malformed or out-of-range input. Caller
	// error; never retried.
	KindInvalidArgument Kind = "invalid_argument"

	// KindNotFound marks a reference to a nonexistent goal, task, or concept.
	KindNotFound Kind = "not_found"

	// KindStorageUnavailable marks an I/O-level failure opening or writing
	// the store. Fatal for the current call.
	KindStorageUnavailable Kind = "storage_unavailable"

	// KindConflict marks a transactional read-then-write that lost to a
	// concurrent mutation after bounded internal retries.
	KindConflict Kind = "conflict"
)

// Error is the structured error every engine operation surfaces.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError creates an engine error of the given kind.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError creates an engine error wrapping an underlying cause.
func WrapError(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf returns the kind of err, or "" if err is not an engine error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsInvalidArgument reports whether err is an invalid_argument error.
func IsInvalidArgument(err error) bool { return KindOf(err) == KindInvalidArgument }

// IsNotFound reports whether err is a not_found error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }
