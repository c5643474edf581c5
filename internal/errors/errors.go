package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput       = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON      = errors.New("invalid JSON document")
	ErrKeyNotFound      = errors.New("key not found")
	ErrWrongKind        = errors.New("value accessed as the wrong kind")
	ErrSchemaViolation  = errors.New("document does not match the asset record schema")
	ErrFileNotFound     = errors.New("file not found")
	ErrNoInput          = errors.New("no input provided: pass a file argument or pipe JSON data to stdin")
	ErrStoreUnavailable = errors.New("record store unavailable")
	ErrDeliveryFailed   = errors.New("asset delivery failed")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput     ErrorType = "input"
	ErrorTypeParsing   ErrorType = "parsing"
	ErrorTypeSchema    ErrorType = "schema"
	ErrorTypeStore     ErrorType = "store"
	ErrorTypeTransport ErrorType = "transport"
	ErrorTypeConfig    ErrorType = "config"
	ErrorTypeOutput    ErrorType = "output"
	ErrorTypeUnknown   ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *AppError of the same type.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

func newAppError(t ErrorType, message string, err error) *AppError {
	return &AppError{
		Type:    t,
		Message: message,
		Err:     err,
	}
}

// NewInputError creates a new error related to reading input
func NewInputError(message string, err error) *AppError {
	return newAppError(ErrorTypeInput, message, err)
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return newAppError(ErrorTypeParsing, message, err)
}

// NewSchemaError creates a new error for a document rejected by the validator
func NewSchemaError(message string, err error) *AppError {
	return newAppError(ErrorTypeSchema, message, err)
}

// NewStoreError creates a new error related to the record store
func NewStoreError(message string, err error) *AppError {
	return newAppError(ErrorTypeStore, message, err)
}

// NewTransportError creates a new error related to HTTP delivery or serving
func NewTransportError(message string, err error) *AppError {
	return newAppError(ErrorTypeTransport, message, err)
}

// NewConfigError creates a new error related to configuration loading
func NewConfigError(message string, err error) *AppError {
	return newAppError(ErrorTypeConfig, message, err)
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return newAppError(ErrorTypeOutput, message, err)
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			if appErr.Err != nil {
				return fmt.Sprintf("JSON parsing error: %s: %v", appErr.Message, appErr.Err)
			}
			return fmt.Sprintf("JSON parsing error: %s", appErr.Message)
		case ErrorTypeSchema:
			return fmt.Sprintf("Schema error: %s", appErr.Message)
		case ErrorTypeStore:
			return fmt.Sprintf("Store error: %s", appErr.Message)
		case ErrorTypeTransport:
			return fmt.Sprintf("Transport error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide a JSON document."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return fmt.Sprintf("Error: The input is not valid JSON (%v).", err)
	}
	if errors.Is(err, ErrKeyNotFound) {
		return fmt.Sprintf("Error: %v", err)
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Pass a file argument or pipe JSON data to stdin."
	}

	return fmt.Sprintf("Error: %v", err)
}
