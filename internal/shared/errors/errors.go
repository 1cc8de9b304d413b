package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types for different domains
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "VALIDATION_ERROR"
	ErrorTypeInfrastructure ErrorType = "INFRASTRUCTURE_ERROR"
	ErrorTypeNotFound       ErrorType = "NOT_FOUND_ERROR"
	ErrorTypeInternal       ErrorType = "INTERNAL_ERROR"
	// ErrorTypeCancelled marks a prompt or confirmation the user dismissed
	ErrorTypeCancelled ErrorType = "OPERATION_CANCELLED"
	// ErrorTypeRemote marks a failure reported by the document client
	ErrorTypeRemote ErrorType = "REMOTE_OPERATION_ERROR"
)

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Tree and document client errors
var (
	ErrOperationCancelled = errors.New("operation cancelled")
	ErrInvalidLink        = errors.New("invalid resource link")
	ErrCollectionNotFound = errors.New("collection not found")
	ErrDocumentNotFound   = errors.New("document not found")
)

// AppError represents a custom application error with context
type AppError struct {
	Type      ErrorType              `json:"type"`
	Message   string                 `json:"message"`
	Code      string                 `json:"code,omitempty"`
	HTTPCode  int                    `json:"-"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Cause     error                  `json:"-"`
	Component string                 `json:"component,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(errorType ErrorType, message string, httpCode int) *AppError {
	return &AppError{
		Type:     errorType,
		Message:  message,
		HTTPCode: httpCode,
		Details:  make(map[string]interface{}),
	}
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithCause adds the underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithComponent adds the component name
func (e *AppError) WithComponent(component string) *AppError {
	e.Component = component
	return e
}

// WithDetail adds a detail field
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Common error constructors

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrorTypeValidation, message, http.StatusBadRequest)
}

// NewInfrastructureError creates an infrastructure error
func NewInfrastructureError(message string) *AppError {
	return NewAppError(ErrorTypeInfrastructure, message, http.StatusInternalServerError)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrorTypeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	return NewAppError(ErrorTypeInternal, message, http.StatusInternalServerError)
}

// NewOperationCancelledError reports that the user declined or dismissed a prompt.
// The cause is always ErrOperationCancelled so errors.Is works on the result.
func NewOperationCancelledError(operation string) *AppError {
	return NewAppError(ErrorTypeCancelled, "operation cancelled", http.StatusConflict).
		WithCode("operation_cancelled").
		WithDetail("operation", operation).
		WithCause(ErrOperationCancelled)
}

// NewRemoteOperationError wraps a failure reported by the document client.
// An error that already is a remote operation error is returned as is.
func NewRemoteOperationError(operation string, cause error) *AppError {
	var appErr *AppError
	if errors.As(cause, &appErr) && appErr.Type == ErrorTypeRemote {
		return appErr
	}
	return NewAppError(ErrorTypeRemote, fmt.Sprintf("%s failed", operation), http.StatusBadGateway).
		WithCode("remote_operation_failed").
		WithDetail("operation", operation).
		WithCause(cause)
}

// Helper functions for common error scenarios

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Type == ErrorTypeNotFound {
		return true
	}
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrCollectionNotFound) || errors.Is(err, ErrDocumentNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == ErrorTypeValidation
	}
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInvalidLink)
}

// IsOperationCancelled checks if an error comes from a dismissed prompt
func IsOperationCancelled(err error) bool {
	return errors.Is(err, ErrOperationCancelled)
}

// IsRemoteOperation checks if an error was reported by the document client
func IsRemoteOperation(err error) bool {
	var appErr *AppError
	for errors.As(err, &appErr) {
		if appErr.Type == ErrorTypeRemote {
			return true
		}
		err = appErr.Cause
	}
	return false
}

// HTTPStatus returns the HTTP status carried by an AppError, or 500.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.HTTPCode != 0 {
		return appErr.HTTPCode
	}
	return http.StatusInternalServerError
}
