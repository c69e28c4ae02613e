package errors

import (
	"fmt"
	"net/http"
)

// APIError represents a standardized API error response
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
	Details string    `json:"details,omitempty"`
	Status  int       `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NotFound creates a NOT_FOUND error
func NotFound(resource string) *APIError {
	return &APIError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
	}
}

// Unauthorized creates an UNAUTHORIZED error
func Unauthorized(message string) *APIError {
	return &APIError{
		Code:    ErrUnauthorized,
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

// Forbidden creates a FORBIDDEN error
func Forbidden(message string) *APIError {
	return &APIError{
		Code:    ErrForbidden,
		Message: message,
		Status:  http.StatusForbidden,
	}
}

// Conflict creates a CONFLICT error
func Conflict(resource string) *APIError {
	return &APIError{
		Code:    ErrConflict,
		Message: fmt.Sprintf("%s already exists or is in an invalid state", resource),
		Status:  http.StatusConflict,
	}
}

// ValidationError creates a VALIDATION_ERROR
func ValidationError(field, message string) *APIError {
	return &APIError{
		Code:    ErrValidation,
		Message: message,
		Field:   field,
		Status:  http.StatusUnprocessableEntity,
	}
}

// BadRequest creates a BAD_REQUEST error
func BadRequest(message string) *APIError {
	return &APIError{
		Code:    ErrBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// InternalError creates an INTERNAL_ERROR
func InternalError(message string) *APIError {
	return &APIError{
		Code:    ErrInternalError,
		Message: message,
		Status:  http.StatusInternalServerError,
	}
}

// AlreadyExists creates an ALREADY_EXISTS error
func AlreadyExists(resource string) *APIError {
	return &APIError{
		Code:    ErrAlreadyExists,
		Message: fmt.Sprintf("%s already exists", resource),
		Status:  http.StatusConflict,
	}
}

// DataAccess creates a DATA_ACCESS_ERROR for store failures.
// The request layer returns these as 5xx with no partial results.
func DataAccess(operation string, err error) *APIError {
	apiErr := &APIError{
		Code:    ErrDataAccess,
		Message: fmt.Sprintf("%s failed", operation),
		Status:  http.StatusInternalServerError,
	}
	if err != nil {
		apiErr.Details = err.Error()
	}
	return apiErr
}

// AnalyticsWrite creates an ANALYTICS_WRITE_ERROR.
// These are recovered locally (logged, counted) and never surfaced to callers.
func AnalyticsWrite(operation string, err error) *APIError {
	apiErr := &APIError{
		Code:    ErrAnalyticsWrite,
		Message: fmt.Sprintf("%s failed", operation),
		Status:  http.StatusInternalServerError,
	}
	if err != nil {
		apiErr.Details = err.Error()
	}
	return apiErr
}

// TagInUse creates a TAG_IN_USE error for deletions of tags with live associations
func TagInUse(name string, usage int64) *APIError {
	return &APIError{
		Code:    ErrTagInUse,
		Message: fmt.Sprintf("tag %q is attached to %d items and cannot be deleted", name, usage),
		Status:  http.StatusConflict,
	}
}

// WithDetails adds additional details to an error
func (e *APIError) WithDetails(details string) *APIError {
	e.Details = details
	return e
}
