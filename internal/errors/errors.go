package errors

import (
	stderrors "errors"
	"fmt"

	"contractalloc/domain/core"
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

// Wrap wraps an error with additional context, keeping the code of the cause.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    CodeFor(err),
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

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// CodeFor classifies any error, including the domain errors of core.
func CodeFor(err error) string {
	var appErr *AppError
	switch {
	case stderrors.As(err, &appErr):
		return appErr.Code
	case stderrors.Is(err, core.ErrMissingFile):
		return CodeInputNotFound
	case stderrors.Is(err, core.ErrSheetNotFound):
		return CodeSheetNotFound
	case stderrors.Is(err, core.ErrMissingColumn):
		return CodeColumnNotFound
	case stderrors.Is(err, core.ErrColumnClash):
		return CodeColumnClash
	case stderrors.Is(err, core.ErrUnknownIdentifier), stderrors.Is(err, core.ErrEngine):
		return CodeExternalService
	case stderrors.Is(err, core.ErrOutputWrite):
		return CodeOutputWrite
	default:
		return CodeInternalError
	}
}

// Predefined error codes
const (
	CodeConfigInvalid   = "CONFIG_INVALID"
	CodeInputNotFound   = "INPUT_NOT_FOUND"
	CodeSheetNotFound   = "SHEET_NOT_FOUND"
	CodeColumnNotFound  = "COLUMN_NOT_FOUND"
	CodeColumnClash     = "COLUMN_CLASH"
	CodeExternalService = "EXTERNAL_SERVICE_ERROR"
	CodeOutputWrite     = "OUTPUT_WRITE_ERROR"
	CodeInternalError   = "INTERNAL_ERROR"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code:    CodeExternalService,
		Message: fmt.Sprintf("%s service error", service),
		Cause:   cause,
	}
}
