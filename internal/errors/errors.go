package errors

import (
	"errors"
	"fmt"
)

// Domain-specific error types
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrDuplicateEntry indicates a unique constraint violation
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrValidation indicates caller-supplied input violates a precondition
	ErrValidation = errors.New("validation failed")

	// ErrAccountNotFound indicates the account was not found or is inactive
	ErrAccountNotFound = errors.New("account not found")

	// ErrBookNotFound indicates the book was not found
	ErrBookNotFound = errors.New("book not found")

	// ErrMessageNotFound indicates the message was not found.
	// Also returned when the acting account is not a participant of the
	// message, so callers cannot probe for the existence of messages they
	// are not party to.
	ErrMessageNotFound = errors.New("message not found")

	// ErrSelfMessage indicates an attempt to message oneself
	ErrSelfMessage = errors.New("cannot message yourself")

	// ErrEmptyBody indicates a message body that is empty after trimming
	ErrEmptyBody = errors.New("message body cannot be empty")

	// ErrRecipientNotFound indicates the recipient does not resolve to an active account
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrInvalidCredentials indicates a failed login attempt
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnauthorized indicates a missing or invalid session
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInternal indicates the persistent store failed unexpectedly
	ErrInternal = errors.New("internal server error")
)

// Error codes for API responses
const (
	CodeNotFound           = "NOT_FOUND"
	CodeDuplicateEntry     = "DUPLICATE_ENTRY"
	CodeValidation         = "VALIDATION_ERROR"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInternalError      = "INTERNAL_ERROR"
)

// AppError represents an application error with context
type AppError struct {
	Err     error
	Message string
	Code    string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(err error, message string, code string) *AppError {
	return &AppError{
		Err:     err,
		Message: message,
		Code:    code,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrBookNotFound) ||
		errors.Is(err, ErrMessageNotFound)
}

// IsValidation checks if the error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrSelfMessage) ||
		errors.Is(err, ErrEmptyBody) ||
		errors.Is(err, ErrRecipientNotFound)
}

// IsDuplicateEntry checks if the error is a duplicate entry error
func IsDuplicateEntry(err error) bool {
	return errors.Is(err, ErrDuplicateEntry)
}

// GetErrorCode returns the appropriate error code for an error
func GetErrorCode(err error) string {
	switch {
	case IsValidation(err):
		return CodeValidation
	case IsNotFound(err):
		return CodeNotFound
	case IsDuplicateEntry(err):
		return CodeDuplicateEntry
	case errors.Is(err, ErrInvalidCredentials):
		return CodeInvalidCredentials
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	default:
		return CodeInternalError
	}
}
