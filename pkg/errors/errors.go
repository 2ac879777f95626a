package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Read path: a file exists but could not be understood
	ErrParse ErrorCode = "PARSE_ERROR"

	// Write path: permission denied, disk full, missing parent directory
	ErrIO ErrorCode = "IO_ERROR"

	// Configuration errors
	ErrConfigLoad ErrorCode = "CONFIG_LOAD"
)

// MimerError represents a structured error with code and details
type MimerError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *MimerError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *MimerError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *MimerError) Is(target error) bool {
	var targetErr *MimerError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new MimerError with the given code and message
func New(code ErrorCode, message string) *MimerError {
	return &MimerError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new MimerError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *MimerError {
	return &MimerError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a MimerError
func Wrap(err error, code ErrorCode, message string) *MimerError {
	if err == nil {
		return nil
	}
	return &MimerError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *MimerError {
	if err == nil {
		return nil
	}
	return &MimerError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *MimerError) WithDetail(key string, value interface{}) *MimerError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *MimerError) WithDetails(details map[string]interface{}) *MimerError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var mimerErr *MimerError
	if errors.As(err, &mimerErr) {
		return mimerErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a MimerError
func GetErrorCode(err error) ErrorCode {
	var mimerErr *MimerError
	if errors.As(err, &mimerErr) {
		return mimerErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a MimerError
func GetErrorDetails(err error) map[string]interface{} {
	var mimerErr *MimerError
	if errors.As(err, &mimerErr) {
		return mimerErr.Details
	}
	return nil
}

// PathOf returns the "path" detail of an error, if any. Write failures
// always carry the path they attempted.
func PathOf(err error) string {
	if p, ok := GetErrorDetails(err)["path"].(string); ok {
		return p
	}
	return ""
}

// As is errors.As from the standard library
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Description is the serializable form of an error, for machine-readable
// output
type Description struct {
	Error   string                 `json:"error" yaml:"error"`
	Code    ErrorCode              `json:"code" yaml:"code"`
	Details map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
}

// Describe converts err to a Description. Errors that are not MimerErrors
// get the UNKNOWN code.
func Describe(err error) Description {
	d := Description{Error: err.Error(), Code: GetErrorCode(err)}
	if details := GetErrorDetails(err); len(details) > 0 {
		d.Details = details
	}
	return d
}
