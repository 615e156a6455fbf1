package application

import (
	"errors"
	"fmt"
	"net/http"
)

// ServiceError is an orchestration-level error surfaced to the hosting
// process. Kind plus Message are enough for the caller to render an
// actionable message without processor-specific knowledge.
type ServiceError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

const (
	ErrCodePaymentCaptureFailed   = "PAYMENT_CAPTURE_FAILED"
	ErrCodeCardDeclined           = "CARD_DECLINED"
	ErrCodeInsufficientFunds      = "INSUFFICIENT_FUNDS"
	ErrCodeAuthorizationExpired   = "AUTHORIZATION_EXPIRED"
	ErrCodeGatewayUnavailable     = "GATEWAY_UNAVAILABLE"
	ErrCodeNoSavedPaymentMethod   = "NO_SAVED_PAYMENT_METHOD"
	ErrCodeConcurrentModification = "CONCURRENT_MODIFICATION"
	ErrCodeInvalidRequest         = "INVALID_REQUEST"
	ErrCodeInternal               = "INTERNAL_ERROR"
)

func NewPaymentCaptureFailedError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodePaymentCaptureFailed,
		Message:    "payment capture failed, booking left unchanged",
		HTTPStatus: http.StatusPaymentRequired,
		Err:        err,
	}
}

func NewConcurrentModificationError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeConcurrentModification,
		Message:    "booking was modified concurrently, retry the command",
		HTTPStatus: http.StatusConflict,
		Err:        err,
	}
}

func NewGatewayUnavailableError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeGatewayUnavailable,
		Message:    "payment processor unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func NewInvalidRequestError(msg string) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInvalidRequest,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
	}
}

func NewInternalError(err error) *ServiceError {
	return &ServiceError{
		Code:       ErrCodeInternal,
		Message:    "an internal error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func IsServiceError(err error) (*ServiceError, bool) {
	var svcErr *ServiceError
	ok := errors.As(err, &svcErr)
	return svcErr, ok
}
