package services

import (
	"time"

	"drivehub-booking/internal/domain"
)

// CheckoutCommand creates a booking and places the authorization hold.
// Amounts are decimal currency units; the guest's processor customer is
// required so the hold lands on their saved card.
type CheckoutCommand struct {
	GuestID     string
	HostID      string
	CarID       string
	CustomerRef string
	PickupAt    time.Time
	ReturnAt    time.Time
	DailyRate   float64
}

type DeclineCommand struct {
	BookingID string
	Reason    string
}

type CancelCommand struct {
	BookingID string
	Actor     domain.Actor
	Reason    string
	// Now is the cancellation timestamp supplied by the caller so the refund
	// policy evaluation is reproducible.
	Now time.Time
}

type CompleteTripCommand struct {
	BookingID          string
	ActualEndTime      time.Time
	ExpectedReturnTime time.Time
}

type ChargeLateFeeCommand struct {
	BookingID string
	// Amount is the late fee in decimal currency units.
	Amount float64
}
