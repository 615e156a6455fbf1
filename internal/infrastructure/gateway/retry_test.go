package gateway_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drivehub-booking/internal/application"
	"drivehub-booking/internal/config"
	"drivehub-booking/internal/infrastructure/gateway"
)

// stubGateway lets each test script the inner processor behavior.
type stubGateway struct {
	application.PaymentGateway

	captures    int
	CaptureFn   func(ctx context.Context, req application.CaptureRequest) (*application.CaptureResult, error)
	lookups     int
	LookupFn    func(ctx context.Context, idempotencyKey string) (*application.OperationResult, error)
	authorizes  int
	AuthorizeFn func(ctx context.Context, req application.AuthorizeRequest) (*application.AuthorizationResult, error)
}

func (s *stubGateway) Capture(ctx context.Context, req application.CaptureRequest) (*application.CaptureResult, error) {
	s.captures++
	return s.CaptureFn(ctx, req)
}

func (s *stubGateway) Authorize(ctx context.Context, req application.AuthorizeRequest) (*application.AuthorizationResult, error) {
	s.authorizes++
	return s.AuthorizeFn(ctx, req)
}

func (s *stubGateway) LookupOperation(ctx context.Context, idempotencyKey string) (*application.OperationResult, error) {
	s.lookups++
	if s.LookupFn != nil {
		return s.LookupFn(ctx, idempotencyKey)
	}
	return &application.OperationResult{Found: false}, nil
}

func retryGateway(inner *stubGateway) *gateway.RetryGateway {
	return gateway.NewRetryGateway(inner, config.RetryConfig{BaseDelay: 0, MaxRetries: 3})
}

func TestRetry_TransientFailureThenSuccess(t *testing.T) {
	inner := &stubGateway{}
	inner.CaptureFn = func(ctx context.Context, req application.CaptureRequest) (*application.CaptureResult, error) {
		if inner.captures == 1 {
			return nil, &application.GatewayError{Code: "internal_error", Message: "boom", StatusCode: 503}
		}
		return &application.CaptureResult{CaptureRef: "cap-1", AmountMinor: req.AmountMinor}, nil
	}

	result, err := retryGateway(inner).Capture(context.Background(), application.CaptureRequest{
		AuthorizationRef: "auth-1",
		AmountMinor:      100,
		IdempotencyKey:   "key-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "cap-1", result.CaptureRef)
	assert.Equal(t, 2, inner.captures)
	// An explicit 5xx verdict is not ambiguous, so no lookup happened.
	assert.Equal(t, 0, inner.lookups)
}

func TestRetry_PermanentFailureNotRetried(t *testing.T) {
	inner := &stubGateway{}
	inner.CaptureFn = func(ctx context.Context, req application.CaptureRequest) (*application.CaptureResult, error) {
		return nil, &application.GatewayError{Code: "card_declined", Message: "declined", StatusCode: 402}
	}

	_, err := retryGateway(inner).Capture(context.Background(), application.CaptureRequest{
		AuthorizationRef: "auth-1",
		AmountMinor:      100,
		IdempotencyKey:   "key-1",
	})
	require.Error(t, err)

	gwErr, ok := application.IsGatewayError(err)
	require.True(t, ok)
	assert.Equal(t, "card_declined", gwErr.Code)
	assert.Equal(t, 1, inner.captures)
}

func TestRetry_AmbiguousTimeoutResolvedByLookup(t *testing.T) {
	inner := &stubGateway{}
	inner.CaptureFn = func(ctx context.Context, req application.CaptureRequest) (*application.CaptureResult, error) {
		// Transport error: no processor verdict at all.
		return nil, errors.New("connection reset")
	}
	inner.LookupFn = func(ctx context.Context, idempotencyKey string) (*application.OperationResult, error) {
		return &application.OperationResult{
			Found:       true,
			Kind:        "capture",
			Status:      "succeeded",
			Reference:   "cap-prior",
			AmountMinor: 100,
		}, nil
	}

	result, err := retryGateway(inner).Capture(context.Background(), application.CaptureRequest{
		AuthorizationRef: "auth-1",
		AmountMinor:      100,
		IdempotencyKey:   "key-1",
	})
	require.NoError(t, err)

	// The prior attempt's result is adopted without re-sending the capture.
	assert.Equal(t, "cap-prior", result.CaptureRef)
	assert.Equal(t, 1, inner.captures)
	assert.Equal(t, 1, inner.lookups)
}

func TestRetry_AmbiguousTimeoutNotFoundIsResent(t *testing.T) {
	inner := &stubGateway{}
	inner.CaptureFn = func(ctx context.Context, req application.CaptureRequest) (*application.CaptureResult, error) {
		if inner.captures == 1 {
			return nil, errors.New("connection reset")
		}
		return &application.CaptureResult{CaptureRef: "cap-1", AmountMinor: req.AmountMinor}, nil
	}

	result, err := retryGateway(inner).Capture(context.Background(), application.CaptureRequest{
		AuthorizationRef: "auth-1",
		AmountMinor:      100,
		IdempotencyKey:   "key-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "cap-1", result.CaptureRef)
	assert.Equal(t, 2, inner.captures)
	assert.Equal(t, 1, inner.lookups)
}

func TestRetry_FailedPriorOperationIsRetried(t *testing.T) {
	inner := &stubGateway{}
	inner.CaptureFn = func(ctx context.Context, req application.CaptureRequest) (*application.CaptureResult, error) {
		if inner.captures == 1 {
			return nil, errors.New("connection reset")
		}
		return &application.CaptureResult{CaptureRef: "cap-2", AmountMinor: req.AmountMinor}, nil
	}
	inner.LookupFn = func(ctx context.Context, idempotencyKey string) (*application.OperationResult, error) {
		return &application.OperationResult{
			Found:     true,
			Kind:      "capture",
			Status:    "failed",
			Reference: "cap-1",
		}, nil
	}

	result, err := retryGateway(inner).Capture(context.Background(), application.CaptureRequest{
		AuthorizationRef: "auth-1",
		AmountMinor:      100,
		IdempotencyKey:   "key-1",
	})
	require.NoError(t, err)

	// The recorded attempt failed at the processor, so the call is re-sent.
	assert.Equal(t, "cap-2", result.CaptureRef)
	assert.Equal(t, 2, inner.captures)
}

func TestRetry_ExhaustsAttempts(t *testing.T) {
	inner := &stubGateway{}
	inner.AuthorizeFn = func(ctx context.Context, req application.AuthorizeRequest) (*application.AuthorizationResult, error) {
		return nil, &application.GatewayError{Code: "internal_error", Message: "down", StatusCode: 503}
	}

	_, err := retryGateway(inner).Authorize(context.Background(), application.AuthorizeRequest{
		CustomerRef:    "cust-1",
		AmountMinor:    100,
		Currency:       "PHP",
		IdempotencyKey: "key-1",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum retries exceeded")
	assert.Equal(t, 3, inner.authorizes)
}

func TestRetry_ContextCancellation(t *testing.T) {
	inner := &stubGateway{}
	inner.CaptureFn = func(ctx context.Context, req application.CaptureRequest) (*application.CaptureResult, error) {
		return nil, &application.GatewayError{Code: "internal_error", Message: "down", StatusCode: 503}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := retryGateway(inner).Capture(ctx, application.CaptureRequest{
		AuthorizationRef: "auth-1",
		AmountMinor:      100,
		IdempotencyKey:   "key-1",
	})
	assert.ErrorIs(t, err, context.Canceled)
}
