// Package notify emits lifecycle outcomes to the counterpart actor.
// Delivery is best-effort relative to the financial transition: a failed
// dispatch is logged and swallowed, never rolled back into the booking.
package notify

import (
	"fmt"

	"drivehub-booking/internal/domain"
)

type Type string

const (
	TypeBookingRequested Type = "booking_requested"
	TypeBookingConfirmed Type = "booking_confirmed"
	TypeBookingDeclined  Type = "booking_declined"
	TypeBookingCancelled Type = "booking_cancelled"
	TypePaymentReceived  Type = "payment_received"
	TypeTripCompleted    Type = "trip_completed"
	TypeLateFeeCharged   Type = "late_fee_charged"
	TypeRefundSettled    Type = "refund_settled"
)

// Event is a single notification addressed to one recipient.
type Event struct {
	Recipient string
	Role      domain.Actor
	Type      Type
	Title     string
	Message   string
	BookingID string
	Data      map[string]any
}

func BookingRequested(b *domain.Booking) Event {
	return Event{
		Recipient: b.HostID,
		Role:      domain.ActorHost,
		Type:      TypeBookingRequested,
		Title:     "New booking request",
		Message:   fmt.Sprintf("A guest requested your car from %s", b.PickupAt.Format("Jan 2, 2006 15:04")),
		BookingID: b.ID,
		Data:      map[string]any{"car_id": b.CarID, "total": b.Total},
	}
}

func BookingConfirmed(b *domain.Booking) Event {
	return Event{
		Recipient: b.GuestID,
		Role:      domain.ActorGuest,
		Type:      TypeBookingConfirmed,
		Title:     "Booking confirmed",
		Message:   fmt.Sprintf("Your booking is confirmed. Pickup on %s.", b.PickupAt.Format("Jan 2, 2006 15:04")),
		BookingID: b.ID,
		Data:      map[string]any{"car_id": b.CarID},
	}
}

func PaymentReceived(b *domain.Booking) Event {
	return Event{
		Recipient: b.HostID,
		Role:      domain.ActorHost,
		Type:      TypePaymentReceived,
		Title:     "Payment received",
		Message:   fmt.Sprintf("Payment of %.2f %s was captured for your booking.", b.Total, b.Currency),
		BookingID: b.ID,
		Data:      map[string]any{"total": b.Total, "currency": b.Currency},
	}
}

func BookingDeclined(b *domain.Booking, reason string) Event {
	msg := "The host declined your booking request. The hold on your card was released."
	return Event{
		Recipient: b.GuestID,
		Role:      domain.ActorGuest,
		Type:      TypeBookingDeclined,
		Title:     "Booking declined",
		Message:   msg,
		BookingID: b.ID,
		Data:      map[string]any{"reason": reason},
	}
}

// BookingCancelled notifies the counterpart of whoever cancelled.
func BookingCancelled(b *domain.Booking, by domain.Actor) Event {
	ev := Event{
		Type:      TypeBookingCancelled,
		Title:     "Booking cancelled",
		BookingID: b.ID,
		Data: map[string]any{
			"cancelled_by":   string(by),
			"refund_percent": b.RefundPercent,
			"refund_amount":  b.RefundAmount,
		},
	}
	if by == domain.ActorGuest {
		ev.Recipient = b.HostID
		ev.Role = domain.ActorHost
		ev.Message = "The guest cancelled the booking."
	} else {
		ev.Recipient = b.GuestID
		ev.Role = domain.ActorGuest
		ev.Message = fmt.Sprintf("The host cancelled your booking. Refund: %.2f %s.", b.RefundAmount, b.Currency)
	}
	return ev
}

func TripCompleted(b *domain.Booking) Event {
	return Event{
		Recipient: b.HostID,
		Role:      domain.ActorHost,
		Type:      TypeTripCompleted,
		Title:     "Trip completed",
		Message:   "The trip has been completed and the booking is closed.",
		BookingID: b.ID,
		Data:      map[string]any{"late_return": b.LateReturn, "late_hours": b.LateHours},
	}
}

func LateFeeCharged(b *domain.Booking, amount float64) Event {
	return Event{
		Recipient: b.GuestID,
		Role:      domain.ActorGuest,
		Type:      TypeLateFeeCharged,
		Title:     "Late return fee charged",
		Message:   fmt.Sprintf("A late return fee of %.2f %s was charged to your saved payment method.", amount, b.Currency),
		BookingID: b.ID,
		Data:      map[string]any{"late_fee": amount, "late_hours": b.LateHours},
	}
}

func RefundSettled(b *domain.Booking) Event {
	return Event{
		Recipient: b.GuestID,
		Role:      domain.ActorGuest,
		Type:      TypeRefundSettled,
		Title:     "Refund processed",
		Message:   fmt.Sprintf("Your refund of %.2f %s has been processed.", b.RefundAmount, b.Currency),
		BookingID: b.ID,
		Data:      map[string]any{"refund_amount": b.RefundAmount},
	}
}
