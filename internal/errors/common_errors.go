package errors

import (
	"fmt"
)

// ErrorType classifies AppError values outside the HTTP layer
type ErrorType string

const (
	ErrTypeConfig ErrorType = "CONFIG"
	ErrTypeExport ErrorType = "EXPORT"
)

// AppError wraps a failure of the report and export paths with its
// category and a few key/value facts for the log.
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext records key on the error and returns it
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewConfigError reports a configuration file that could not be used
func NewConfigError(path string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, fmt.Sprintf("load config %s", path), cause).
		WithContext("path", path)
}

// NewExportError creates an export-related error
func NewExportError(format string, cause error) *AppError {
	return NewAppError(ErrTypeExport, fmt.Sprintf("export %s failed", format), cause).
		WithContext("format", format)
}
