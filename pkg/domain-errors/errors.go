// Package domainerrors defines the coded error type returned by services.
//
// Stores and infrastructure return sentinel errors (pkg/platform/sentinel);
// services translate those facts into coded domain errors that the transport
// layer maps onto HTTP statuses. Handlers never inspect raw infrastructure
// errors.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error kind. The set is closed; transport maps
// each code to exactly one HTTP status.
type Code string

const (
	CodeBadRequest          Code = "bad_request"
	CodeUnsupportedType     Code = "unsupported_type"
	CodeFileTooLarge        Code = "file_too_large"
	CodeInvalidJurisdiction Code = "invalid_jurisdiction_reference"
	CodeNotFound            Code = "not_found"
	CodeUnauthorized        Code = "unauthorized"
	CodeTokenReused         Code = "token_reused"
	CodeForbidden           Code = "forbidden"
	CodeConflict            Code = "conflict"
	CodeStorageUnavailable  Code = "storage_unavailable"
	CodeInternal            Code = "internal"
)

// Error carries a code, a human-readable message and optional structured
// detail (for example the missing IDs of a failed jurisdiction resolution).
type Error struct {
	Code    Code
	Message string
	Meta    map[string]any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// WithMeta attaches a structured detail to the error and returns it.
func (e *Error) WithMeta(key string, value any) *Error {
	if e.Meta == nil {
		e.Meta = make(map[string]any, 1)
	}
	e.Meta[key] = value
	return e
}

// New builds a coded error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for errors
// that did not originate in a service.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MetaOf extracts the structured detail from err, if any.
func MetaOf(err error) map[string]any {
	var de *Error
	if errors.As(err, &de) {
		return de.Meta
	}
	return nil
}

// ToHTTPStatus maps a code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeUnsupportedType, CodeInvalidJurisdiction:
		return http.StatusBadRequest
	case CodeFileTooLarge:
		return http.StatusRequestEntityTooLarge
	case CodeUnauthorized, CodeTokenReused:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
