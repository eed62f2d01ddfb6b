package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the failure categories surfaced by the itinerary core
type ErrorType string

const (
	// ErrorTypeNotFound indicates an order or entry was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a malformed request
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeMissingAnchor indicates flights or dates needed for arrival/return are absent
	ErrorTypeMissingAnchor ErrorType = "MISSING_ANCHOR"

	// ErrorTypeNoAvailableSlot indicates no placement date fits inside the required bounds
	ErrorTypeNoAvailableSlot ErrorType = "NO_AVAILABLE_SLOT"

	// ErrorTypeParseFailure indicates a location string is not of the form "A - B"
	ErrorTypeParseFailure ErrorType = "PARSE_FAILURE"

	// ErrorTypeUndecidableDirection indicates the flight direction heuristic cannot decide
	ErrorTypeUndecidableDirection ErrorType = "UNDECIDABLE_DIRECTION"

	// ErrorTypeExternal indicates an error from an external service
	ErrorTypeExternal ErrorType = "EXTERNAL"

	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Details map[string]interface{}
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

// WithDetail attaches a structured detail and returns the same error
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{Type: ErrorTypeNotFound, Message: message}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message}
}

// NewMissingAnchorError reports how many flight entries were found versus expected
func NewMissingAnchorError(message string, found, expected int) *AppError {
	return &AppError{
		Type:    ErrorTypeMissingAnchor,
		Message: message,
		Details: map[string]interface{}{
			"found":    found,
			"expected": expected,
		},
	}
}

// NewNoAvailableSlotError carries the computed bounds so an operator can place the entry manually
func NewNoAvailableSlotError(message string, candidate, minDate, maxDate time.Time) *AppError {
	return &AppError{
		Type:    ErrorTypeNoAvailableSlot,
		Message: message,
		Details: map[string]interface{}{
			"candidate": candidate.UTC().Format(time.RFC3339),
			"minDate":   minDate.UTC().Format(time.RFC3339),
			"maxDate":   maxDate.UTC().Format(time.RFC3339),
		},
	}
}

// NewParseFailureError creates a location parse error for one entry
func NewParseFailureError(entryID, location string) *AppError {
	return &AppError{
		Type:    ErrorTypeParseFailure,
		Message: fmt.Sprintf("location %q is not of the form \"Origin - Destination\"", location),
		Details: map[string]interface{}{
			"entryId":  entryID,
			"location": location,
		},
	}
}

// NewUndecidableDirectionError creates an error for the both/neither destination case
func NewUndecidableDirectionError(message string) *AppError {
	return &AppError{Type: ErrorTypeUndecidableDirection, Message: message}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeInternal, Message: message, Err: err}
}

// NewExternalError creates a new external service error
func NewExternalError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeExternal, Message: message, Err: err}
}

// As returns the first AppError in err's chain
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType reports whether err's chain holds an AppError of type t
func IsType(err error, t ErrorType) bool {
	appErr, ok := As(err)
	return ok && appErr.Type == t
}
