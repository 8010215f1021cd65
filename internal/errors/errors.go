// Package errors provides coded domain errors for the Colored In API.
//
// Services return *Error values; the API layer maps Code onto an HTTP status.
//
//	if !p.OwnedBy(userID) {
//	    return errors.Forbidden("palette belongs to another user")
//	}
//
//	if errors.Is(err, errors.ErrNotFound) { ... }
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code is a machine-readable error code.
type Code string

// Error codes.
const (
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeTokenExpired  Code = "TOKEN_EXPIRED"
	CodeForbidden     Code = "FORBIDDEN"
	CodeValidation    Code = "VALIDATION"
	CodeConflict      Code = "CONFLICT"
	CodeRateLimited   Code = "RATE_LIMITED"
	CodeUpstream      Code = "UPSTREAM"
	CodeUnavailable   Code = "UNAVAILABLE"
	CodeInternal      Code = "INTERNAL"
)

// HTTPStatus returns the HTTP status for a code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists, CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized, CodeTokenExpired:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeValidation:
		return http.StatusBadRequest
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeUpstream:
		return http.StatusBadGateway
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a copy carrying details.
func (e *Error) WithDetails(details any) *Error {
	c := *e
	c.Details = details
	return &c
}

// WithCause returns a copy wrapping err.
func (e *Error) WithCause(err error) *Error {
	c := *e
	c.cause = err
	return &c
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound      = &Error{Code: CodeNotFound, Message: "not found"}
	ErrAlreadyExists = &Error{Code: CodeAlreadyExists, Message: "already exists"}
	ErrUnauthorized  = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrTokenExpired  = &Error{Code: CodeTokenExpired, Message: "token expired"}
	ErrForbidden     = &Error{Code: CodeForbidden, Message: "forbidden"}
	ErrValidation    = &Error{Code: CodeValidation, Message: "validation error"}
	ErrConflict      = &Error{Code: CodeConflict, Message: "conflict"}
	ErrRateLimited   = &Error{Code: CodeRateLimited, Message: "rate limit exceeded"}
	ErrUpstream      = &Error{Code: CodeUpstream, Message: "upstream service failed"}
	ErrUnavailable   = &Error{Code: CodeUnavailable, Message: "service unavailable"}
	ErrInternal      = &Error{Code: CodeInternal, Message: "internal error"}
)

// New creates an error with code and msg.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Newf creates an error with code and a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a not found error.
func NotFound(msg string) *Error { return New(CodeNotFound, msg) }

// NotFoundf creates a not found error with a formatted message.
func NotFoundf(format string, args ...any) *Error { return Newf(CodeNotFound, format, args...) }

// AlreadyExists creates an already exists error.
func AlreadyExists(msg string) *Error { return New(CodeAlreadyExists, msg) }

// Unauthorized creates an unauthorized error.
func Unauthorized(msg string) *Error { return New(CodeUnauthorized, msg) }

// TokenExpired creates a token expired error.
func TokenExpired(msg string) *Error { return New(CodeTokenExpired, msg) }

// Forbidden creates a forbidden error.
func Forbidden(msg string) *Error { return New(CodeForbidden, msg) }

// Validation creates a validation error.
func Validation(msg string) *Error { return New(CodeValidation, msg) }

// Validationf creates a validation error with a formatted message.
func Validationf(format string, args ...any) *Error { return Newf(CodeValidation, format, args...) }

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// RateLimited creates a rate limited error.
func RateLimited(msg string) *Error { return New(CodeRateLimited, msg) }

// Unavailable creates a service unavailable error.
func Unavailable(msg string) *Error { return New(CodeUnavailable, msg) }

// Internal creates an internal error.
func Internal(msg string) *Error { return New(CodeInternal, msg) }

// Wrap wraps err with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps err with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}

// CodeOf returns the Code of the first *Error in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
