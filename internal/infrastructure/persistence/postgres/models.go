package postgres

import (
	"time"
)

// BookingModel mirrors the bookings table row.
type BookingModel struct {
	ID      string
	GuestID string
	HostID  string
	CarID   string

	PickupAt   time.Time
	ReturnAt   time.Time
	RentalDays int

	Subtotal    float64
	PlatformFee float64
	Total       float64
	Currency    string

	Status        string
	PaymentStatus string
	TripStatus    string

	PaymentIntentRef *string
	CaptureRef       *string
	ReleaseRef       *string

	LateReturn    bool
	LateHours     int
	LateFee       float64
	LateChargeRef *string

	CancellationStatus      string
	CancellationRequestedAt *time.Time
	CancellationReason      *string
	CancelledBy             *string
	CancelledAt             *time.Time

	RefundStatus      string
	RefundAmount      float64
	RefundPercent     int
	RefundRef         *string
	RefundProcessedAt *time.Time

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
