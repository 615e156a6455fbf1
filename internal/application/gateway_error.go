package application

import (
	"errors"
	"fmt"
	"net/http"
)

// GatewayError is a failure reported by the payment processor, already
// decoded from the wire by the infrastructure client.
type GatewayError struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway error [%s]: %s (status: %d)", e.Code, e.Message, e.StatusCode)
}

// IsRetryable reports whether the processor failure is transient. Explicit
// 4xx responses are final answers about this request.
func (e *GatewayError) IsRetryable() bool {
	return e.StatusCode >= 500
}

func IsGatewayError(err error) (*GatewayError, bool) {
	var gwErr *GatewayError
	ok := errors.As(err, &gwErr)
	return gwErr, ok
}

// Processor error codes this core understands. Anything else maps to an
// invalid request.
const (
	gwCodeInsufficientFunds    = "insufficient_funds"
	gwCodeCardDeclined         = "card_declined"
	gwCodeAuthorizationExpired = "authorization_expired"
	gwCodeNoSavedPaymentMethod = "no_saved_payment_method"
	gwCodeInternalError        = "internal_error"
)

// MapGatewayError folds a processor failure into the service error taxonomy.
func MapGatewayError(err error) *ServiceError {
	gwErr, ok := IsGatewayError(err)
	if !ok {
		// Transport-level failure with no processor response.
		return NewGatewayUnavailableError(err)
	}

	if gwErr.StatusCode >= 500 || gwErr.Code == gwCodeInternalError {
		return NewGatewayUnavailableError(err)
	}

	switch gwErr.Code {
	case gwCodeInsufficientFunds:
		return &ServiceError{
			Code:       ErrCodeInsufficientFunds,
			Message:    "insufficient funds on the saved payment method",
			HTTPStatus: http.StatusPaymentRequired,
			Err:        err,
		}
	case gwCodeCardDeclined:
		return &ServiceError{
			Code:       ErrCodeCardDeclined,
			Message:    "the card was declined",
			HTTPStatus: http.StatusPaymentRequired,
			Err:        err,
		}
	case gwCodeAuthorizationExpired:
		return &ServiceError{
			Code:       ErrCodeAuthorizationExpired,
			Message:    "the authorization hold has expired",
			HTTPStatus: http.StatusConflict,
			Err:        err,
		}
	case gwCodeNoSavedPaymentMethod:
		return &ServiceError{
			Code:       ErrCodeNoSavedPaymentMethod,
			Message:    "the guest has no saved payment method",
			HTTPStatus: http.StatusUnprocessableEntity,
			Err:        err,
		}
	default:
		return &ServiceError{
			Code:       ErrCodeInvalidRequest,
			Message:    gwErr.Message,
			HTTPStatus: http.StatusBadRequest,
			Err:        err,
		}
	}
}
