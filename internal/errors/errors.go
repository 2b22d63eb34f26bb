package errors

import (
	"errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, preserving the code if present
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode wraps an error under an explicit code
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// GetCode returns the error code if it's an AppError, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether err carries the given code anywhere in its chain
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Predefined error codes.
//
// The AI-facing codes are deliberately distinct so callers can give different
// user guidance: MISSING_CREDENTIAL and AUTH_ERROR mean "reconfigure the key",
// SERVICE_UNAVAILABLE means "try again", EMPTY_RESPONSE and MALFORMED_RESPONSE
// mean the model produced unusable output and resubmission may help.
const (
	CodeMissingCredential = "MISSING_CREDENTIAL"
	CodeAuthError         = "AUTH_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeEmptyResponse     = "EMPTY_RESPONSE"
	CodeMalformedResponse = "MALFORMED_RESPONSE"

	CodeConfigInvalid   = "CONFIG_INVALID"
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeStoreError      = "STORE_ERROR"
	CodeInternalError   = "INTERNAL_ERROR"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeBusy            = "BUSY"
)

// Common error constructors

func MissingCredential(message string) *AppError {
	return New(CodeMissingCredential, message)
}

func AuthError(message string) *AppError {
	return New(CodeAuthError, message)
}

func ServiceUnavailable(cause error) *AppError {
	return &AppError{
		Code:    CodeServiceUnavailable,
		Message: "generative service unavailable",
		Cause:   cause,
	}
}

func EmptyResponse() *AppError {
	return New(CodeEmptyResponse, "empty response from generative service")
}

func MalformedResponse(cause error) *AppError {
	return &AppError{
		Code:    CodeMalformedResponse,
		Message: "generative service returned an unexpected format",
		Cause:   cause,
	}
}

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func ValidationError(message string) *AppError {
	return New(CodeValidationError, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func StoreError(cause error) *AppError {
	return &AppError{
		Code:    CodeStoreError,
		Message: "project store error",
		Cause:   cause,
	}
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}
