// Package errors defines the typed error vocabulary shared by services
// and the HTTP layer. Every error carries a Code; the response writer
// maps codes to HTTP statuses and decides what leaks to clients.
package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeForbidden     Code = "FORBIDDEN"
	CodeNotFound      Code = "NOT_FOUND"
	CodeConflict      Code = "CONFLICT"
	CodeStateConflict Code = "STATE_CONFLICT"
	CodeRateLimit     Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeDependency    Code = "DEPENDENCY_ERROR"
)

// Metadata describes how a code behaves at the HTTP boundary.
// DetailsAllowed gates whether structured details reach the client.
type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:    {http.StatusBadRequest, false, "validation failed", true},
	CodeUnauthorized:  {http.StatusUnauthorized, false, "authentication required", false},
	CodeForbidden:     {http.StatusForbidden, false, "access denied", false},
	CodeNotFound:      {http.StatusNotFound, false, "resource not found", false},
	CodeConflict:      {http.StatusConflict, false, "conflict detected", true},
	CodeStateConflict: {http.StatusUnprocessableEntity, false, "state transition disallowed", true},
	CodeRateLimit:     {http.StatusTooManyRequests, false, "rate limit exceeded", false},
	CodeInternal:      {http.StatusInternalServerError, true, "internal server error", false},
	CodeDependency:    {http.StatusServiceUnavailable, true, "dependency unavailable", true},
}

// MetadataFor resolves a code. Unknown codes fall back to internal so a
// typo never produces an unmapped status.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// Error is the concrete typed error. The zero-value-safe accessors let
// callers use the result of As without a nil check.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(code Code, err error, message string) *Error {
	e := New(code, message)
	e.cause = err
	return e
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

// WithDetails sets structured details, typically a per-field problem map.
func (e *Error) WithDetails(details any) *Error {
	if e != nil {
		e.details = details
	}
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As extracts the typed error from anywhere in the chain, or nil.
func As(err error) *Error {
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}
