package domainerrors

import (
	"errors"
	"fmt"
)

// Code represents a domain error category independent of transport layer.
// These codes describe what went wrong in business logic terms, not HTTP terms.
type Code string

const (
	// CodeInvalidInput covers structural validation failures and malformed page tokens.
	CodeInvalidInput Code = "invalid_input"
	// CodeBadRequest covers requests the transport layer could not parse.
	CodeBadRequest Code = "bad_request"
	// CodeAlreadyExists is returned when a create collides with a stored identity.
	CodeAlreadyExists Code = "already_exists"
	// CodeVersionConflict is returned when an update does not carry storedVersion+1.
	CodeVersionConflict Code = "version_conflict"
	CodeNotFound        Code = "not_found"
	// CodeInternal wraps backend failures. It is the only non-deterministic code.
	CodeInternal Code = "internal_error"
)

// Error wraps domain or infrastructure failures with a stable code.
// It is transport-agnostic and can be used across service, store, and other layers.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// Unwrap implements error unwrapping for error chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is enables errors.Is() to match errors by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new domain error with the given code and message.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap creates a new domain error wrapping an existing error.
// If the wrapped error is already a domain error, the original code is preserved.
func Wrap(err error, code Code, msg string) error {
	var existing *Error
	if errors.As(err, &existing) {
		return &Error{Code: existing.Code, Message: msg, Err: err}
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode checks if an error is a domain error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// CodeOf returns the code of the outermost domain error in the chain,
// or CodeInternal when err carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// VersionMismatch carries the versions involved in an optimistic concurrency conflict.
type VersionMismatch struct {
	Expected int
	Received int
}

func (v *VersionMismatch) Error() string {
	return fmt.Sprintf("Expected consent version %d, received %d, indicating state conflict", v.Expected, v.Received)
}

// NewVersionConflict returns a CodeVersionConflict error whose chain exposes
// the expected and received versions via errors.As(err, **VersionMismatch).
func NewVersionConflict(expected, received int) error {
	mismatch := &VersionMismatch{Expected: expected, Received: received}
	return &Error{Code: CodeVersionConflict, Message: mismatch.Error(), Err: mismatch}
}
