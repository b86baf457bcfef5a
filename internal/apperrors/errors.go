package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError carries a stable error code alongside a human-readable message
// and, optionally, the originating error.
type AppError struct {
	Code    string
	Message string
	Origin  error
}

func (e *AppError) Error() string {
	if e.Origin != nil {
		return e.Message + ": " + e.Origin.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Origin }

// Standard error codes for the application.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeDuplicate    = "DUPLICATE"
	CodeInvalidInput = "INVALID_INPUT"

	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeInvalidToken = "INVALID_TOKEN"

	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeUpstream        = "UPSTREAM_FAILURE"
)

func New(code, message string, origin error) *AppError {
	return &AppError{Code: code, Message: message, Origin: origin}
}

func NotFound(what string) *AppError {
	return &AppError{Code: CodeNotFound, Message: what + " not found"}
}

func Invalid(message string) *AppError {
	return &AppError{Code: CodeInvalidInput, Message: message}
}

func Unauthorized(reason string) *AppError {
	return &AppError{Code: CodeUnauthorized, Message: "unauthorized: " + reason}
}

// NotOwner reports a failed ownership check. Both usernames are kept in the
// message so a rejected delete can be debugged from the error payload alone.
func NotOwner(actor, author string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: fmt.Sprintf("user %q is not the author %q of this content", actor, author),
	}
}

func Duplicate(what string) *AppError {
	return &AppError{Code: CodeDuplicate, Message: what + " already exists"}
}

func Upstream(origin error) *AppError {
	return &AppError{Code: CodeUpstream, Message: "backend request failed", Origin: origin}
}

// Is reports whether err is an AppError with the given code.
func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// HTTPStatus maps an error to the HTTP status code handlers should return.
// Non-AppError values map to 500.
func HTTPStatus(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeInvalidToken:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeDuplicate:
		return http.StatusConflict
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
