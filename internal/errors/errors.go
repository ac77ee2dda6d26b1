package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeInvalidToken indicates the identity service explicitly rejected a token.
	ErrCodeInvalidToken ErrorCode = "invalid_token"
	// ErrCodeNetwork indicates a transport or timeout failure reaching a backend service.
	ErrCodeNetwork ErrorCode = "network"
	// ErrCodeMalformedCookie indicates an unparsable user cookie payload.
	ErrCodeMalformedCookie ErrorCode = "malformed_cookie"
	// ErrCodeMalformedResponse indicates an unparsable JSON body from a backend call.
	ErrCodeMalformedResponse ErrorCode = "malformed_response"
	// ErrCodePersistence indicates a cookie write failed.
	ErrCodePersistence ErrorCode = "persistence"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// InvalidToken creates a new InvalidToken error.
func InvalidToken(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidToken,
		Message: message,
	}
}

// Network creates a new Network error wrapping the transport failure.
func Network(message string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeNetwork,
		Message: message,
		Cause:   cause,
	}
}

// MalformedCookie creates a new MalformedCookie error.
func MalformedCookie(message string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeMalformedCookie,
		Message: message,
		Cause:   cause,
	}
}

// MalformedResponse creates a new MalformedResponse error.
func MalformedResponse(message string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeMalformedResponse,
		Message: message,
		Cause:   cause,
	}
}

// Persistence creates a new Persistence error.
func Persistence(message string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodePersistence,
		Message: message,
		Cause:   cause,
	}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
	}
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
	}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
	}
}

// Internalf creates a new Internal error with formatted message.
func Internalf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsInvalidToken checks if an error is an InvalidToken error.
func IsInvalidToken(err error) bool {
	return isCode(err, ErrCodeInvalidToken)
}

// IsNetwork checks if an error is a Network error.
func IsNetwork(err error) bool {
	return isCode(err, ErrCodeNetwork)
}

// IsMalformedCookie checks if an error is a MalformedCookie error.
func IsMalformedCookie(err error) bool {
	return isCode(err, ErrCodeMalformedCookie)
}

// IsMalformedResponse checks if an error is a MalformedResponse error.
func IsMalformedResponse(err error) bool {
	return isCode(err, ErrCodeMalformedResponse)
}

// IsPersistence checks if an error is a Persistence error.
func IsPersistence(err error) bool {
	return isCode(err, ErrCodePersistence)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsInternal checks if an error is an Internal error.
func IsInternal(err error) bool {
	return isCode(err, ErrCodeInternal)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
