// Package domainerrors provides coded domain errors shared across modules.
//
// Stores return infrastructure sentinels (pkg/platform/sentinel); services
// translate them into coded errors from this package so transports can map
// codes to wire responses without inspecting error strings.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies the category of a domain error. The string value is what
// transports expose in the `error` field of failure responses.
type Code string

const (
	CodeBadRequest   Code = "bad_request"
	CodeInvalidInput Code = "invalid_input"
	CodeUnauthorized Code = "unauthorized"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeTimeout      Code = "timeout"
	CodeUnavailable  Code = "unavailable"
	CodeInternal     Code = "internal_error"

	// Registry-specific codes. The registry contract distinguishes these from
	// the generic categories above, so callers can branch on them.
	CodeNotAuthorized Code = "not_authorized"
	CodeAlreadyExists Code = "already_exists"
	CodeInvalidDID    Code = "invalid_did"
	CodeInvalidClaim  Code = "invalid_claim"
	CodeInvalidUser   Code = "invalid_user"
)

// Error is a coded domain error with an optional wrapped cause.
type Error struct {
	code  Code
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.cause }

// Code returns the error's code.
func (e *Error) Code() Code { return e.code }

// Message returns the human-readable message without the cause chain.
// Transports use this for error descriptions that are safe to expose.
func (e *Error) Message() string { return e.msg }

// New creates a coded domain error.
func New(code Code, msg string) error {
	return &Error{code: code, msg: msg}
}

// Newf creates a coded domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{code: code, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error, preserving the
// cause for errors.Is / errors.As.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{code: code, msg: msg, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for errors
// that did not originate in a domain layer.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.code
	}
	return CodeInternal
}
