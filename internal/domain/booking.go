// Package domain encodes the booking aggregate and its lifecycle rules.
package domain

import (
	"slices"
	"time"
)

// BookingStatus represents the current state of a booking in its lifecycle
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingDeclined  BookingStatus = "DECLINED"
)

// PaymentStatus tracks the money side of a booking independently of the
// booking status. PAID means the authorization hold was captured.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

// TripStatus is the orthogonal sub-machine tracking the physical trip.
type TripStatus string

const (
	TripNotStarted     TripStatus = "NOT_STARTED"
	TripCheckedIn      TripStatus = "CHECKED_IN"
	TripInProgress     TripStatus = "IN_PROGRESS"
	TripCheckedOut     TripStatus = "CHECKED_OUT"
	TripAwaitingHost   TripStatus = "AWAITING_HOST_CONFIRMATION"
	TripCompleted      TripStatus = "COMPLETED"
)

type CancellationStatus string

const (
	CancellationNone      CancellationStatus = "NONE"
	CancellationProcessed CancellationStatus = "PROCESSED"
)

type RefundStatus string

const (
	RefundNone      RefundStatus = "NONE"
	RefundPending   RefundStatus = "PENDING"
	RefundSucceeded RefundStatus = "SUCCEEDED"
)

// Actor identifies who initiated a lifecycle command.
type Actor string

const (
	ActorGuest Actor = "GUEST"
	ActorHost  Actor = "HOST"
)

// Booking is the aggregate root. It is mutated exclusively through its
// transition methods; callers never set status fields directly.
type Booking struct {
	ID      string
	GuestID string
	HostID  string
	CarID   string

	PickupAt   time.Time
	ReturnAt   time.Time
	RentalDays int

	// Monetary breakdown in decimal currency units (PHP).
	Subtotal    float64
	PlatformFee float64
	Total       float64
	Currency    string

	Status        BookingStatus
	PaymentStatus PaymentStatus
	TripStatus    TripStatus

	// Opaque processor references.
	PaymentIntentRef *string
	CaptureRef       *string
	ReleaseRef       *string

	LateReturn    bool
	LateHours     int
	LateFee       float64
	LateChargeRef *string

	CancellationStatus      CancellationStatus
	CancellationRequestedAt *time.Time
	CancellationReason      *string
	CancelledBy             *Actor
	CancelledAt             *time.Time

	RefundStatus      RefundStatus
	RefundAmount      float64
	RefundPercent     int
	RefundRef         *string
	RefundProcessedAt *time.Time

	// Version is the optimistic-concurrency token. It increases on every
	// successful write; stale writers are rejected, never merged.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBooking creates a pending booking with an authorization hold reference.
// Funds are held, not captured, until the host confirms.
func NewBooking(
	id, guestID, hostID, carID string,
	pickupAt, returnAt time.Time,
	rentalDays int,
	subtotal, platformFee, total float64,
	currency string,
	paymentIntentRef string,
) (*Booking, error) {
	switch {
	case id == "":
		return nil, NewMissingRequiredFieldError("booking ID")
	case guestID == "":
		return nil, NewMissingRequiredFieldError("guest ID")
	case hostID == "":
		return nil, NewMissingRequiredFieldError("host ID")
	case carID == "":
		return nil, NewMissingRequiredFieldError("car ID")
	case paymentIntentRef == "":
		return nil, NewMissingRequiredFieldError("payment intent reference")
	}
	if !returnAt.After(pickupAt) {
		return nil, NewValidationError("return time must be after pickup time")
	}
	if rentalDays <= 0 {
		return nil, NewValidationError("rental days must be positive")
	}
	if err := ValidateAmount(total); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ref := paymentIntentRef
	return &Booking{
		ID:                 id,
		GuestID:            guestID,
		HostID:             hostID,
		CarID:              carID,
		PickupAt:           pickupAt,
		ReturnAt:           returnAt,
		RentalDays:         rentalDays,
		Subtotal:           subtotal,
		PlatformFee:        platformFee,
		Total:              total,
		Currency:           currency,
		Status:             BookingPending,
		PaymentStatus:      PaymentPending,
		TripStatus:         TripNotStarted,
		PaymentIntentRef:   &ref,
		CancellationStatus: CancellationNone,
		RefundStatus:       RefundNone,
		Version:            1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// CanTransitionTo reports whether the booking may move to target from its
// current status. Transitions not present in the table are rejected with an
// InvalidTransition error carrying both states.
func (b *Booking) CanTransitionTo(target BookingStatus) error {
	switch b.Status {
	case BookingPending:
		return b.allow(target, BookingConfirmed, BookingDeclined)
	case BookingConfirmed:
		return b.allow(target, BookingCompleted, BookingCancelled)
	}
	return NewInvalidTransitionError(string(b.Status), string(target))
}

func (b *Booking) allow(target BookingStatus, allowed ...BookingStatus) error {
	if slices.Contains(allowed, target) {
		return nil
	}
	return NewInvalidTransitionError(string(b.Status), string(target))
}

func (b *Booking) transition(target BookingStatus) error {
	if err := b.CanTransitionTo(target); err != nil {
		return err
	}
	b.Status = target
	b.touch()
	return nil
}

// Confirm marks the booking confirmed after a successful capture. A booking
// is never confirmed without captured funds.
func (b *Booking) Confirm(captureRef string, at time.Time) error {
	if captureRef == "" {
		return NewMissingRequiredFieldError("capture reference")
	}
	if err := b.transition(BookingConfirmed); err != nil {
		return err
	}
	b.PaymentStatus = PaymentPaid
	b.CaptureRef = &captureRef
	b.UpdatedAt = at.UTC()
	return nil
}

// Decline releases the authorization hold and ends the booking. The hold was
// never captured, so this records a release, not a refund.
func (b *Booking) Decline(releaseRef, reason string, at time.Time) error {
	if err := b.transition(BookingDeclined); err != nil {
		return err
	}
	if releaseRef != "" {
		b.ReleaseRef = &releaseRef
	}
	if reason != "" {
		b.CancellationReason = &reason
	}
	b.UpdatedAt = at.UTC()
	return nil
}

// Cancel ends a confirmed booking and records the refund outcome. The booking
// is cancelled even when the refund settles later (refund status PENDING).
func (b *Booking) Cancel(
	by Actor,
	reason string,
	at time.Time,
	refundPercent int,
	refundAmount float64,
	refundRef *string,
	refundStatus RefundStatus,
) error {
	if refundPercent < 0 || refundPercent > 100 {
		return NewValidationError("refund percent out of range")
	}
	if refundAmount < 0 || refundAmount > b.Total {
		return NewValidationError("refund amount exceeds captured amount")
	}
	if err := b.transition(BookingCancelled); err != nil {
		return err
	}
	ts := at.UTC()
	actor := by
	b.CancellationStatus = CancellationProcessed
	b.CancellationRequestedAt = &ts
	b.CancelledBy = &actor
	b.CancelledAt = &ts
	if reason != "" {
		b.CancellationReason = &reason
	}
	b.RefundPercent = refundPercent
	b.RefundAmount = refundAmount
	b.RefundRef = refundRef
	b.RefundStatus = refundStatus
	if refundStatus == RefundSucceeded {
		b.RefundProcessedAt = &ts
	}
	return nil
}

// Complete closes out a confirmed booking. The trip must already be complete.
func (b *Booking) Complete(at time.Time) error {
	if b.TripStatus != TripCompleted {
		return NewInvalidTransitionError(string(b.TripStatus), string(TripCompleted))
	}
	if err := b.transition(BookingCompleted); err != nil {
		return err
	}
	b.UpdatedAt = at.UTC()
	return nil
}

// MarkRefundSettled promotes a pending refund to succeeded.
func (b *Booking) MarkRefundSettled(at time.Time) error {
	if b.RefundStatus != RefundPending {
		return NewInvalidStateError(string(b.RefundStatus), string(RefundPending))
	}
	ts := at.UTC()
	b.RefundStatus = RefundSucceeded
	b.RefundProcessedAt = &ts
	b.touch()
	return nil
}

// RecordLateReturn stores the late-return computation. It does not charge.
func (b *Booking) RecordLateReturn(hours int, fee float64) error {
	if hours <= 0 {
		return NewValidationError("late hours must be positive")
	}
	if err := ValidateAmount(fee); err != nil {
		return err
	}
	b.LateReturn = true
	b.LateHours = hours
	b.LateFee = fee
	b.touch()
	return nil
}

// RecordLateCharge stores the processor reference of the late-fee charge.
// It is set at most once per booking.
func (b *Booking) RecordLateCharge(chargeRef string) error {
	if chargeRef == "" {
		return NewMissingRequiredFieldError("charge reference")
	}
	if b.LateChargeRef != nil {
		return NewInvalidStateError("late fee already charged", "no prior late charge")
	}
	b.LateChargeRef = &chargeRef
	b.touch()
	return nil
}

// IsTerminal reports whether no further booking transitions are possible.
func (b *Booking) IsTerminal() bool {
	switch b.Status {
	case BookingCompleted, BookingCancelled, BookingDeclined:
		return true
	default:
		return false
	}
}

func (b *Booking) touch() {
	b.UpdatedAt = time.Now().UTC()
}
