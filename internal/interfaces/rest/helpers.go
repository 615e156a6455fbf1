package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"drivehub-booking/internal/domain"
)

type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// BookingView is the wire representation of a booking.
type BookingView struct {
	ID      string `json:"id"`
	GuestID string `json:"guest_id"`
	HostID  string `json:"host_id"`
	CarID   string `json:"car_id"`

	PickupAt   time.Time `json:"pickup_at"`
	ReturnAt   time.Time `json:"return_at"`
	RentalDays int       `json:"rental_days"`

	Subtotal    float64 `json:"subtotal"`
	PlatformFee float64 `json:"platform_fee"`
	Total       float64 `json:"total"`
	Currency    string  `json:"currency"`

	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	TripStatus    string `json:"trip_status"`

	PaymentIntentRef string `json:"payment_intent_ref,omitempty"`
	CaptureRef       string `json:"capture_ref,omitempty"`
	ReleaseRef       string `json:"release_ref,omitempty"`

	LateReturn    bool    `json:"late_return"`
	LateHours     int     `json:"late_hours,omitempty"`
	LateFee       float64 `json:"late_fee,omitempty"`
	LateChargeRef string  `json:"late_charge_ref,omitempty"`

	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CancelledBy        string     `json:"cancelled_by,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`

	RefundStatus      string     `json:"refund_status"`
	RefundAmount      float64    `json:"refund_amount,omitempty"`
	RefundPercent     int        `json:"refund_percent,omitempty"`
	RefundRef         string     `json:"refund_ref,omitempty"`
	RefundProcessedAt *time.Time `json:"refund_processed_at,omitempty"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToBookingView(b *domain.Booking) BookingView {
	v := BookingView{
		ID:                b.ID,
		GuestID:           b.GuestID,
		HostID:            b.HostID,
		CarID:             b.CarID,
		PickupAt:          b.PickupAt,
		ReturnAt:          b.ReturnAt,
		RentalDays:        b.RentalDays,
		Subtotal:          b.Subtotal,
		PlatformFee:       b.PlatformFee,
		Total:             b.Total,
		Currency:          b.Currency,
		Status:            string(b.Status),
		PaymentStatus:     string(b.PaymentStatus),
		TripStatus:        string(b.TripStatus),
		LateReturn:        b.LateReturn,
		LateHours:         b.LateHours,
		LateFee:           b.LateFee,
		RefundStatus:      string(b.RefundStatus),
		RefundAmount:      b.RefundAmount,
		RefundPercent:     b.RefundPercent,
		CancelledAt:       b.CancelledAt,
		RefundProcessedAt: b.RefundProcessedAt,
		Version:           b.Version,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
	if b.PaymentIntentRef != nil {
		v.PaymentIntentRef = *b.PaymentIntentRef
	}
	if b.CaptureRef != nil {
		v.CaptureRef = *b.CaptureRef
	}
	if b.ReleaseRef != nil {
		v.ReleaseRef = *b.ReleaseRef
	}
	if b.LateChargeRef != nil {
		v.LateChargeRef = *b.LateChargeRef
	}
	if b.CancellationReason != nil {
		v.CancellationReason = *b.CancellationReason
	}
	if b.CancelledBy != nil {
		v.CancelledBy = string(*b.CancelledBy)
	}
	if b.RefundRef != nil {
		v.RefundRef = *b.RefundRef
	}
	return v
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(SuccessResponse{Success: true, Data: data})
}
