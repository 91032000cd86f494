package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// APIError is an error a handler can return with a known status and code.
// The ErrorHandler turns it into problem details; it is never written as is.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError names the offending field of a rejected request
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors groups the field errors of one request
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// New creates an APIError without details
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates an APIError carrying details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	e := New(statusCode, errorCode, message)
	e.Details = details
	return e
}

var (
	ErrTableNotFound     = New(http.StatusNotFound, "TABLE_NOT_FOUND", "Summary table not found")
	ErrRateLimitExceeded = New(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded. Please retry later")
)

// ErrValidation rejects a single field
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed",
		ValidationError{Field: field, Message: message})
}

// NewValidationErrors rejects several fields at once
func NewValidationErrors(errs []ValidationError) *APIError {
	return NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed",
		ValidationErrors{Errors: errs})
}

// InvalidRequestWithError rejects a request the validator could not inspect
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format", err.Error())
}

// ExportError reports a failed chart, workbook or CSV rendering
func ExportError(format string, err error) *APIError {
	return NewWithDetails(http.StatusInternalServerError, "EXPORT_FAILED",
		fmt.Sprintf("Failed to export %s", format), err.Error())
}
