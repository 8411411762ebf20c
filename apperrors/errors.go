package apperrors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeNotConnected indicates the document store has no live connection
	ErrorTypeNotConnected ErrorType = "NOT_CONNECTED"

	// ErrorTypeStartupConnectivity indicates every startup connection attempt failed
	ErrorTypeStartupConnectivity ErrorType = "STARTUP_CONNECTIVITY"

	// ErrorTypeMalformedRecord indicates a stored record lacks a usable identifier
	ErrorTypeMalformedRecord ErrorType = "MALFORMED_RECORD"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// IsType reports whether any error in err's chain is an *AppError of type t.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// NewNotConnectedError creates a new not connected error
func NewNotConnectedError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotConnected,
		Message: message,
	}
}

// NewStartupConnectivityError creates a new startup connectivity error
func NewStartupConnectivityError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeStartupConnectivity,
		Message: message,
		Err:     err,
	}
}

// NewMalformedRecordError creates a new malformed record error
func NewMalformedRecordError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeMalformedRecord,
		Message: message,
	}
}
