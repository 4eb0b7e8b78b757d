package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError carries a machine-readable code alongside the message so the
// handler layer can pick the HTTP status without string matching
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewError creates a new AppError
func NewError(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an error with a code and message
func WrapError(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Error code constants
const (
	CodeInvalidReference = "INVALID_REFERENCE" // malformed identifier
	CodeNotFound         = "NOT_FOUND"         // no matching document
	CodeValidation       = "VALIDATION_ERROR"  // missing or empty required field
	CodeUnauthorized     = "UNAUTHORIZED"      // no acting user on the request
	CodeForbidden        = "FORBIDDEN"         // actor is not the owner
	CodeConflict         = "CONFLICT"          // relation already exists (UNIQUE violation)
	CodeDependency       = "DEPENDENCY_ERROR"  // downstream media/search store failed
	CodeInternal         = "INTERNAL_ERROR"
)

// statusByCode is the normalization table: each error kind surfaces as
// exactly one HTTP status everywhere in the API
var statusByCode = map[string]int{
	CodeInvalidReference: http.StatusBadRequest,
	CodeNotFound:         http.StatusNotFound,
	CodeValidation:       http.StatusBadRequest,
	CodeUnauthorized:     http.StatusUnauthorized,
	CodeForbidden:        http.StatusForbidden,
	CodeConflict:         http.StatusConflict,
	CodeDependency:       http.StatusBadGateway,
	CodeInternal:         http.StatusInternalServerError,
}

// HTTPStatus resolves the HTTP status for err. Unknown errors are 500.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if status, ok := statusByCode[appErr.Code]; ok {
			return status
		}
	}
	return http.StatusInternalServerError
}

// ErrorStrings flattens err into the errors[] field of the failure envelope.
// Internal causes are not exposed to clients.
func ErrorStrings(err error) []string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return []string{appErr.Message}
	}
	return []string{}
}
