package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrPersistence   = errors.New("persistence failure")
	ErrFetchFailed   = errors.New("fetch failed")
	ErrInternal      = errors.New("internal error")
)

// AppError represents a structured application error with a machine-readable code.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates an error for an operation referencing an absent id.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Err:     ErrNotFound,
	}
}

// AlreadyExists creates an error for a uniqueness violation.
func AlreadyExists(resource, field, value string) *AppError {
	return &AppError{
		Code:    "ALREADY_EXISTS",
		Message: fmt.Sprintf("%s with %s %q already exists", resource, field, value),
		Err:     ErrAlreadyExists,
	}
}

// InvalidInput creates an error for an invalid argument.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Err:     ErrInvalidInput,
	}
}

// Validation creates an error for a draft that failed field validation.
// The underlying validation error is preserved for errors.As inspection.
func Validation(err error) *AppError {
	return &AppError{
		Code:    "VALIDATION_FAILED",
		Message: err.Error(),
		Err:     fmt.Errorf("%w: %w", ErrInvalidInput, err),
	}
}

// Unauthorized creates an error for a failed credential check.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Err:     ErrUnauthorized,
	}
}

// Persistence creates an error for a storage medium read/write failure.
func Persistence(op, key string, err error) *AppError {
	return &AppError{
		Code:    "PERSISTENCE_FAILED",
		Message: fmt.Sprintf("storage %s for key %q failed", op, key),
		Err:     fmt.Errorf("%w: %w", ErrPersistence, err),
	}
}

// FetchFailed creates an error for a catalog load failure recorded in store status.
func FetchFailed(err error) *AppError {
	return &AppError{
		Code:    "FETCH_FAILED",
		Message: "failed to load catalog from storage",
		Err:     fmt.Errorf("%w: %w", ErrFetchFailed, err),
	}
}

// Internal creates an error for an unexpected failure.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// CodeOf returns the machine-readable code for the given error,
// or "INTERNAL_ERROR" when the error carries no code.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "INTERNAL_ERROR"
}
