package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"

	// Verification / generation specific errors
	ErrTransport  ErrorCode = "TRANSPORT_ERROR"
	ErrParse      ErrorCode = "PARSE_ERROR"
	ErrGeneration ErrorCode = "GENERATION_ERROR"
	ErrStore      ErrorCode = "STORE_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewNotFoundError(message string) *DomainError {
	return NewError(ErrNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(ErrUnauthorized, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

// NewTransportError wraps a failed call to the external generation service.
func NewTransportError(err error) *DomainError {
	return NewError(ErrTransport, "Text generation service is unreachable", err)
}

// NewParseError is returned when the generation service's free-form response
// did not contain a value of the requested shape.
func NewParseError(message string, err error) *DomainError {
	return NewError(ErrParse, message, err)
}

func NewGenerationError(err error) *DomainError {
	return NewError(ErrGeneration, "Failed to generate quiz questions", err)
}

func NewStoreError(message string, err error) *DomainError {
	return NewError(ErrStore, message, err)
}

// IsCode reports whether err is a DomainError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	de, ok := err.(*DomainError)
	return ok && de.Code == code
}
