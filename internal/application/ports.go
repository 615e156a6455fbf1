package application

import (
	"context"
	"errors"

	"drivehub-booking/internal/domain"
)

// ErrConcurrentModification is returned by BookingRepository.Update when the
// expected version no longer matches storage. The stale write is rejected,
// never merged.
var ErrConcurrentModification = errors.New("booking modified concurrently")

// BookingRepository is the port for the durable booking record.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	FindByID(ctx context.Context, id string) (*domain.Booking, error)
	FindByGuestID(ctx context.Context, guestID string, limit, offset int) ([]*domain.Booking, error)
	FindByHostID(ctx context.Context, hostID string, limit, offset int) ([]*domain.Booking, error)
	FindPendingRefunds(ctx context.Context, limit int) ([]*domain.Booking, error)

	// Update persists the booking conditioned on expectedVersion and bumps
	// the version token on success. Returns ErrConcurrentModification on a
	// stale version.
	Update(ctx context.Context, booking *domain.Booking, expectedVersion int64) error
}

// RefundState is the processor-side settlement state of a refund. PENDING is
// a valid terminal outcome of the Refund call; settlement is resolved later
// by the reconciler.
type RefundState string

const (
	RefundStateSucceeded RefundState = "succeeded"
	RefundStatePending   RefundState = "pending"
)

type AuthorizeRequest struct {
	CustomerRef    string
	AmountMinor    int64
	Currency       string
	IdempotencyKey string
}

type AuthorizationResult struct {
	AuthorizationRef string
	CustomerRef      string
	AmountMinor      int64
	Currency         string
}

type CaptureRequest struct {
	AuthorizationRef string
	AmountMinor      int64
	IdempotencyKey   string
}

type CaptureResult struct {
	CaptureRef  string
	AmountMinor int64
}

type CancelAuthorizationRequest struct {
	AuthorizationRef string
	Reason           string
	IdempotencyKey   string
}

type ReleaseResult struct {
	ReleaseRef string
}

type RefundRequest struct {
	AuthorizationRef string
	// AmountMinor zero means full refund.
	AmountMinor    int64
	Reason         string
	IdempotencyKey string
}

type RefundResult struct {
	RefundRef   string
	Status      RefundState
	AmountMinor int64
}

type OffSessionChargeRequest struct {
	// The customer and saved payment method are resolved by the adapter from
	// the original authorization when PaymentMethodRef is empty: first saved
	// method in listing order wins.
	AuthorizationRef string
	PaymentMethodRef string
	AmountMinor      int64
	Currency         string
	IdempotencyKey   string
	Metadata         map[string]string
}

type ChargeResult struct {
	ChargeRef   string
	AmountMinor int64
}

// OperationResult is what a prior attempt with the same idempotency key
// produced, as recorded by the processor. Used to resolve ambiguous
// timeouts before re-sending a mutating call.
type OperationResult struct {
	Found       bool
	Kind        string
	Status      string
	Reference   string
	AmountMinor int64
}

// PaymentGateway is the port for the external payment processor. Every
// mutating call carries a caller-supplied deterministic idempotency key.
type PaymentGateway interface {
	Authorize(ctx context.Context, req AuthorizeRequest) (*AuthorizationResult, error)
	Capture(ctx context.Context, req CaptureRequest) (*CaptureResult, error)
	CancelAuthorization(ctx context.Context, req CancelAuthorizationRequest) (*ReleaseResult, error)
	Refund(ctx context.Context, req RefundRequest) (*RefundResult, error)
	ChargeOffSession(ctx context.Context, req OffSessionChargeRequest) (*ChargeResult, error)

	GetAuthorization(ctx context.Context, authorizationRef string) (*AuthorizationResult, error)
	GetRefund(ctx context.Context, refundRef string) (*RefundResult, error)
	LookupOperation(ctx context.Context, idempotencyKey string) (*OperationResult, error)
}
