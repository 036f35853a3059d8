package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeValidation indicates invalid caller-supplied input
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeMissingLocation indicates the search origin is absent or invalid.
	// Fatal to a search: distance cannot be scored without an origin.
	ErrorTypeMissingLocation ErrorType = "MISSING_LOCATION"

	// ErrorTypeClassifierUnavailable indicates the capability classifier
	// failed or timed out
	ErrorTypeClassifierUnavailable ErrorType = "CLASSIFIER_UNAVAILABLE"

	// ErrorTypeRegistryUnavailable indicates a facility registry call failed
	ErrorTypeRegistryUnavailable ErrorType = "REGISTRY_UNAVAILABLE"

	// ErrorTypeResolutionFailed indicates an address could not be resolved
	// to a coordinate
	ErrorTypeResolutionFailed ErrorType = "RESOLUTION_FAILED"

	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal indicates an error from an external service
	ErrorTypeExternal ErrorType = "EXTERNAL"
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

// IsType reports whether err is an AppError of the given type
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewMissingLocationError creates a new missing location error
func NewMissingLocationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeMissingLocation,
		Message: message,
	}
}

// NewClassifierUnavailableError creates a new classifier unavailable error
func NewClassifierUnavailableError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeClassifierUnavailable,
		Message: message,
		Err:     err,
	}
}

// NewRegistryUnavailableError creates a new registry unavailable error
func NewRegistryUnavailableError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeRegistryUnavailable,
		Message: message,
		Err:     err,
	}
}

// NewResolutionFailedError creates a new coordinate resolution error
func NewResolutionFailedError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeResolutionFailed,
		Message: message,
		Err:     err,
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

// NewExternalError creates a new external service error
func NewExternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}
