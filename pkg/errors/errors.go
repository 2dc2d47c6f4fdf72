// Package errors provides structured error handling for the Daktela extractor.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeValidation represents configuration validation errors,
	// including invalid date expressions and inverted date ranges
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfig represents configuration errors such as unknown tables
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeAuthentication represents authentication failures (never retried)
	ErrorTypeAuthentication ErrorType = "authentication"
	// ErrorTypeRequest represents client-side request errors (4xx, never retried)
	ErrorTypeRequest ErrorType = "request"
	// ErrorTypeConnection represents connection errors (retryable)
	ErrorTypeConnection ErrorType = "connection"
	// ErrorTypeTimeout represents timeout errors (retryable)
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeRateLimit represents rate limit errors (retryable)
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeExtraction represents an extraction that failed after
	// exhausting all retry attempts
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeData represents data processing errors
	ErrorTypeData ErrorType = "data"
	// ErrorTypeFile represents file operation errors
	ErrorTypeFile ErrorType = "file"
	// ErrorTypeInternal represents internal errors
	ErrorTypeInternal ErrorType = "internal"
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithTable attaches the originating table name
func (e *Error) WithTable(table string) *Error {
	return e.WithDetail("table", table)
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new error with a formatted message
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return New(errType, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
	}
}

// IsRetryable returns true if the error is retryable
func IsRetryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}

	switch e.Type {
	case ErrorTypeRateLimit, ErrorTypeTimeout, ErrorTypeConnection:
		return true
	default:
		return false
	}
}

// IsType checks if the error is of the given type
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}
