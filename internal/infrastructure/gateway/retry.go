package gateway

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"drivehub-booking/internal/application"
	"drivehub-booking/internal/config"
)

// RetryGateway retries transient processor failures with exponential backoff
// and jitter. An explicit failure response is safe to retry immediately with
// the same idempotency key. No response at all is ambiguous: the call may
// have succeeded, so the prior operation is looked up by its idempotency key
// before the request is re-sent.
var _ application.PaymentGateway = (*RetryGateway)(nil)

type RetryGateway struct {
	inner      application.PaymentGateway
	baseDelay  time.Duration
	maxRetries int
}

func NewRetryGateway(inner application.PaymentGateway, cfg config.RetryConfig) *RetryGateway {
	return &RetryGateway{
		inner:      inner,
		baseDelay:  time.Duration(cfg.BaseDelay) * time.Second,
		maxRetries: int(cfg.MaxRetries),
	}
}

func (r *RetryGateway) Authorize(ctx context.Context, req application.AuthorizeRequest) (*application.AuthorizationResult, error) {
	return retry(r, ctx, req.IdempotencyKey,
		func(op *application.OperationResult) (*application.AuthorizationResult, bool) {
			if op.Kind != "authorization" {
				return nil, false
			}
			return &application.AuthorizationResult{
				AuthorizationRef: op.Reference,
				AmountMinor:      op.AmountMinor,
				Currency:         req.Currency,
				CustomerRef:      req.CustomerRef,
			}, true
		},
		func(ctx context.Context) (*application.AuthorizationResult, error) {
			return r.inner.Authorize(ctx, req)
		},
	)
}

func (r *RetryGateway) Capture(ctx context.Context, req application.CaptureRequest) (*application.CaptureResult, error) {
	return retry(r, ctx, req.IdempotencyKey,
		func(op *application.OperationResult) (*application.CaptureResult, bool) {
			if op.Kind != "capture" {
				return nil, false
			}
			return &application.CaptureResult{
				CaptureRef:  op.Reference,
				AmountMinor: op.AmountMinor,
			}, true
		},
		func(ctx context.Context) (*application.CaptureResult, error) {
			return r.inner.Capture(ctx, req)
		},
	)
}

func (r *RetryGateway) CancelAuthorization(ctx context.Context, req application.CancelAuthorizationRequest) (*application.ReleaseResult, error) {
	return retry(r, ctx, req.IdempotencyKey,
		func(op *application.OperationResult) (*application.ReleaseResult, bool) {
			if op.Kind != "void" {
				return nil, false
			}
			return &application.ReleaseResult{ReleaseRef: op.Reference}, true
		},
		func(ctx context.Context) (*application.ReleaseResult, error) {
			return r.inner.CancelAuthorization(ctx, req)
		},
	)
}

func (r *RetryGateway) Refund(ctx context.Context, req application.RefundRequest) (*application.RefundResult, error) {
	return retry(r, ctx, req.IdempotencyKey,
		func(op *application.OperationResult) (*application.RefundResult, bool) {
			if op.Kind != "refund" {
				return nil, false
			}
			return &application.RefundResult{
				RefundRef:   op.Reference,
				Status:      application.RefundState(op.Status),
				AmountMinor: op.AmountMinor,
			}, true
		},
		func(ctx context.Context) (*application.RefundResult, error) {
			return r.inner.Refund(ctx, req)
		},
	)
}

func (r *RetryGateway) ChargeOffSession(ctx context.Context, req application.OffSessionChargeRequest) (*application.ChargeResult, error) {
	return retry(r, ctx, req.IdempotencyKey,
		func(op *application.OperationResult) (*application.ChargeResult, bool) {
			if op.Kind != "charge" {
				return nil, false
			}
			return &application.ChargeResult{
				ChargeRef:   op.Reference,
				AmountMinor: op.AmountMinor,
			}, true
		},
		func(ctx context.Context) (*application.ChargeResult, error) {
			return r.inner.ChargeOffSession(ctx, req)
		},
	)
}

func (r *RetryGateway) GetAuthorization(ctx context.Context, authorizationRef string) (*application.AuthorizationResult, error) {
	return retry(r, ctx, "", nil, func(ctx context.Context) (*application.AuthorizationResult, error) {
		return r.inner.GetAuthorization(ctx, authorizationRef)
	})
}

func (r *RetryGateway) GetRefund(ctx context.Context, refundRef string) (*application.RefundResult, error) {
	return retry(r, ctx, "", nil, func(ctx context.Context) (*application.RefundResult, error) {
		return r.inner.GetRefund(ctx, refundRef)
	})
}

func (r *RetryGateway) LookupOperation(ctx context.Context, idempotencyKey string) (*application.OperationResult, error) {
	return retry(r, ctx, "", nil, func(ctx context.Context) (*application.OperationResult, error) {
		return r.inner.LookupOperation(ctx, idempotencyKey)
	})
}

// retry runs the operation up to maxRetries times. resolve maps a found
// operation record to the typed result when an ambiguous failure forces a
// lookup; a nil resolve (read-side calls) skips lookups entirely.
func retry[T any](
	r *RetryGateway,
	ctx context.Context,
	idempotencyKey string,
	resolve func(*application.OperationResult) (*T, bool),
	operation func(ctx context.Context) (*T, error),
) (*T, error) {
	var lastErr error

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		resp, err := operation(ctx)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !isRetryable(err) {
			return nil, err
		}

		if isAmbiguous(err) && resolve != nil && idempotencyKey != "" {
			if prior, lookupErr := r.inner.LookupOperation(ctx, idempotencyKey); lookupErr == nil && prior.Found {
				if result, ok := resolve(prior); ok && prior.Status != "failed" {
					return result, nil
				}
			}
		}

		if attempt < r.maxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.backoff(attempt)):
			}
		}
	}

	return nil, fmt.Errorf("maximum retries exceeded: %w", lastErr)
}

func isRetryable(err error) bool {
	if gwErr, ok := application.IsGatewayError(err); ok {
		return gwErr.IsRetryable()
	}
	// Transport failure or timeout: no processor verdict yet.
	return true
}

// isAmbiguous reports whether the processor may have applied the operation
// without us seeing the response.
func isAmbiguous(err error) bool {
	_, ok := application.IsGatewayError(err)
	return !ok
}

// Backoff calculation with exponential delay and jitter
func (r *RetryGateway) backoff(attempt int) time.Duration {
	base := r.baseDelay * time.Duration(1<<attempt)
	jitter := time.Duration(rand.Intn(1000)) * time.Millisecond
	return base + jitter
}
