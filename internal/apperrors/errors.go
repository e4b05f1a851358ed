package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates a concurrent modification, e.g. a stale version number.
var ErrConflict = errors.New("conflict")

// ErrRateNotFound indicates that no exchange rate applies to the requested pair and date.
var ErrRateNotFound = errors.New("exchange rate not found")

// ErrInvalidState indicates that the resource is not in a state that allows the operation.
var ErrInvalidState = errors.New("invalid state")

// ErrUnauthorized indicates that the caller is not authenticated.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates that the caller lacks the role required for the operation.
var ErrForbidden = errors.New("forbidden")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an error that matches ErrNotFound.
func NewNotFoundError(message string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, message)
}

// NewValidationError returns an error that matches ErrValidation.
func NewValidationError(message string) error {
	return fmt.Errorf("%w: %s", ErrValidation, message)
}

// NewRateNotFoundError returns an error that matches ErrRateNotFound and names the pair and date.
func NewRateNotFoundError(from, to, date string) error {
	return fmt.Errorf("%w: no rate from %s to %s effective on %s", ErrRateNotFound, from, to, date)
}
