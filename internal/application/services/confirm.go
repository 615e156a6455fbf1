package services

import (
	"context"

	"drivehub-booking/internal/application"
	"drivehub-booking/internal/domain"
	"drivehub-booking/internal/notify"
)

// ConfirmBooking captures the authorization hold and marks the booking
// confirmed and paid. A capture failure leaves the booking in PENDING and
// surfaces PaymentCaptureFailed, so re-invoking the command is safe.
func (o *Orchestrator) ConfirmBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	return o.updateBooking(ctx, bookingID, func(b *domain.Booking) ([]notify.Event, error) {
		if err := b.CanTransitionTo(domain.BookingConfirmed); err != nil {
			return nil, err
		}
		if b.PaymentIntentRef == nil {
			return nil, domain.NewMissingRequiredFieldError("payment intent reference")
		}

		totalMinor := domain.ToMinorUnits(b.Total)
		capture, err := o.gateway.Capture(ctx, application.CaptureRequest{
			AuthorizationRef: *b.PaymentIntentRef,
			AmountMinor:      totalMinor,
			IdempotencyKey:   application.CaptureKey(b.ID, totalMinor),
		})
		if err != nil {
			o.logger.Error("capture failed, booking left in pending",
				"booking_id", b.ID,
				"error", err,
			)
			return nil, application.NewPaymentCaptureFailedError(err)
		}

		if err := b.Confirm(capture.CaptureRef, o.now()); err != nil {
			return nil, err
		}

		return []notify.Event{
			notify.BookingConfirmed(b),
			notify.PaymentReceived(b),
		}, nil
	})
}
