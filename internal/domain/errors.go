package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

const (
	ErrCodeInvalidTransition    = "INVALID_TRANSITION"
	ErrCodeInvalidState         = "INVALID_STATE"
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodeInvalidAmount        = "INVALID_AMOUNT"
	ErrCodeMissingRequiredField = "MISSING_REQUIRED_FIELD"
	ErrCodeBookingNotFound      = "BOOKING_NOT_FOUND"
)

func NewInvalidTransitionError(from, to string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}

func NewInvalidStateError(current, expected string) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidState,
		Message: fmt.Sprintf("invalid state: booking is %s, expected %s", current, expected),
	}
}

func NewValidationError(msg string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: msg,
	}
}

func NewInvalidAmountError(amount float64) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidAmount,
		Message: fmt.Sprintf("invalid amount %v", amount),
	}
}

func NewMissingRequiredFieldError(field string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingRequiredField,
		Message: fmt.Sprintf("%s is required", field),
	}
}

func NewBookingNotFoundError(id string) *DomainError {
	return &DomainError{
		Code:    ErrCodeBookingNotFound,
		Message: fmt.Sprintf("booking with ID %s not found", id),
	}
}

// IsErrorCode checks if an error is a DomainError with a specific code
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
