package application

import (
	"context"
	"errors"
	"net/http"

	"drivehub-booking/internal/domain"
)

// ErrorCategory represents the nature of an error for retry logic
type ErrorCategory string

const (
	CategoryTransient    ErrorCategory = "TRANSIENT"
	CategoryPermanent    ErrorCategory = "PERMANENT"
	CategoryBusinessRule ErrorCategory = "BUSINESS_RULE"
	CategoryClientError  ErrorCategory = "CLIENT_ERROR"
)

// CategorizeError determines error category for retry and logging purposes
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CategoryTransient
	}

	if domain.IsErrorCode(err, domain.ErrCodeInvalidTransition) ||
		domain.IsErrorCode(err, domain.ErrCodeInvalidState) {
		return CategoryBusinessRule
	}

	if domain.IsErrorCode(err, domain.ErrCodeValidation) ||
		domain.IsErrorCode(err, domain.ErrCodeInvalidAmount) ||
		domain.IsErrorCode(err, domain.ErrCodeMissingRequiredField) ||
		domain.IsErrorCode(err, domain.ErrCodeBookingNotFound) {
		return CategoryClientError
	}

	if errors.Is(err, ErrConcurrentModification) {
		return CategoryTransient
	}

	if svcErr, ok := IsServiceError(err); ok {
		switch svcErr.Code {
		case ErrCodeGatewayUnavailable, ErrCodeConcurrentModification:
			return CategoryTransient
		case ErrCodeCardDeclined, ErrCodeInsufficientFunds,
			ErrCodeAuthorizationExpired, ErrCodeNoSavedPaymentMethod,
			ErrCodePaymentCaptureFailed:
			return CategoryPermanent
		case ErrCodeInvalidRequest:
			return CategoryClientError
		}
	}

	if gwErr, ok := IsGatewayError(err); ok {
		if gwErr.IsRetryable() {
			return CategoryTransient
		}
		return CategoryPermanent
	}

	return CategoryTransient
}

// IsRetryable returns true if the error category suggests retry
func IsRetryable(err error) bool {
	return CategorizeError(err) == CategoryTransient
}

// ToHTTPStatus maps error to appropriate HTTP status code
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.HTTPStatus
	}

	switch {
	case domain.IsErrorCode(err, domain.ErrCodeBookingNotFound):
		return http.StatusNotFound
	case domain.IsErrorCode(err, domain.ErrCodeInvalidTransition),
		domain.IsErrorCode(err, domain.ErrCodeInvalidState):
		return http.StatusConflict
	case domain.IsErrorCode(err, domain.ErrCodeValidation),
		domain.IsErrorCode(err, domain.ErrCodeInvalidAmount),
		domain.IsErrorCode(err, domain.ErrCodeMissingRequiredField):
		return http.StatusBadRequest
	case errors.Is(err, ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	}

	if gwErr, ok := IsGatewayError(err); ok {
		return gwErr.StatusCode
	}

	return http.StatusInternalServerError
}

// ToErrorCode returns a stable error code for API responses
func ToErrorCode(err error) string {
	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.Code
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}

	if errors.Is(err, ErrConcurrentModification) {
		return ErrCodeConcurrentModification
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "TIMEOUT"
	}

	return ErrCodeInternal
}
