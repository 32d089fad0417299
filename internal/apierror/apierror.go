// Package apierror provides the error taxonomy shared by services and handlers.
// Only Message is ever shown to clients; Err stays in the logs.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a business failure.
type Code string

const (
	CodeNotFound             Code = "NOT_FOUND"
	CodeInvalidIdentifier    Code = "INVALID_IDENTIFIER"
	CodeDuplicateIdentifier  Code = "DUPLICATE_IDENTIFIER"
	CodeDuplicateEmail       Code = "DUPLICATE_EMAIL"
	CodeInvalidAge           Code = "INVALID_AGE"
	CodeInsufficientStock    Code = "INSUFFICIENT_STOCK"
	CodeAlreadyFulfilled     Code = "ALREADY_FULFILLED"
	CodeReferentialIntegrity Code = "REFERENTIAL_INTEGRITY"
	CodePersistence          Code = "PERSISTENCE_FAILURE"
	CodeValidation           Code = "VALIDATION_ERROR"
	CodeUnauthorized         Code = "UNAUTHORIZED"
)

var statusByCode = map[Code]int{
	CodeNotFound:             http.StatusNotFound,
	CodeInvalidIdentifier:    http.StatusUnprocessableEntity,
	CodeDuplicateIdentifier:  http.StatusConflict,
	CodeDuplicateEmail:       http.StatusConflict,
	CodeInvalidAge:           http.StatusUnprocessableEntity,
	CodeInsufficientStock:    http.StatusConflict,
	CodeAlreadyFulfilled:     http.StatusOK,
	CodeReferentialIntegrity: http.StatusConflict,
	CodePersistence:          http.StatusInternalServerError,
	CodeValidation:           http.StatusBadRequest,
	CodeUnauthorized:         http.StatusUnauthorized,
}

// HTTPStatus maps a code to the response status. Unknown codes are 500.
func (c Code) HTTPStatus() int {
	if s, ok := statusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error is a typed business error. Message is safe to show to end users;
// Err carries the underlying cause for logs only.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error carrying the same code, so callers can write
// errors.Is(err, apierror.ErrNotFound).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is comparisons.
var (
	ErrNotFound             = &Error{Code: CodeNotFound}
	ErrInvalidIdentifier    = &Error{Code: CodeInvalidIdentifier}
	ErrDuplicateIdentifier  = &Error{Code: CodeDuplicateIdentifier}
	ErrDuplicateEmail       = &Error{Code: CodeDuplicateEmail}
	ErrInvalidAge           = &Error{Code: CodeInvalidAge}
	ErrInsufficientStock    = &Error{Code: CodeInsufficientStock}
	ErrAlreadyFulfilled     = &Error{Code: CodeAlreadyFulfilled}
	ErrReferentialIntegrity = &Error{Code: CodeReferentialIntegrity}
	ErrPersistence          = &Error{Code: CodePersistence}
	ErrUnauthorized         = &Error{Code: CodeUnauthorized}
)

func newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error { return newf(CodeNotFound, format, args...) }

func InvalidIdentifier(format string, args ...any) *Error {
	return newf(CodeInvalidIdentifier, format, args...)
}

func DuplicateIdentifier(format string, args ...any) *Error {
	return newf(CodeDuplicateIdentifier, format, args...)
}

func DuplicateEmail(format string, args ...any) *Error {
	return newf(CodeDuplicateEmail, format, args...)
}

func InvalidAge(format string, args ...any) *Error { return newf(CodeInvalidAge, format, args...) }

// InsufficientStock names the product whose stock would go negative.
func InsufficientStock(producto string) *Error {
	return newf(CodeInsufficientStock, "El producto %s tiene existencias insuficientes", producto)
}

func ReferentialIntegrity(format string, args ...any) *Error {
	return newf(CodeReferentialIntegrity, format, args...)
}

// Persistence wraps a store failure. The cause is kept for logging only.
func Persistence(err error, format string, args ...any) *Error {
	e := newf(CodePersistence, format, args...)
	e.Err = err
	return e
}

func Validation(format string, args ...any) *Error {
	return newf(CodeValidation, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return newf(CodeUnauthorized, format, args...)
}

// As extracts the typed error from a chain, or nil.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
