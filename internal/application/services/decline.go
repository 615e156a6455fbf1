package services

import (
	"context"

	"drivehub-booking/internal/application"
	"drivehub-booking/internal/domain"
	"drivehub-booking/internal/notify"
)

// DeclineBooking releases the uncaptured authorization hold and marks the
// booking declined. Funds were never captured, so this is a release of the
// hold, not a refund.
func (o *Orchestrator) DeclineBooking(ctx context.Context, cmd DeclineCommand) (*domain.Booking, error) {
	return o.updateBooking(ctx, cmd.BookingID, func(b *domain.Booking) ([]notify.Event, error) {
		if err := b.CanTransitionTo(domain.BookingDeclined); err != nil {
			return nil, err
		}
		if b.PaymentIntentRef == nil {
			return nil, domain.NewMissingRequiredFieldError("payment intent reference")
		}

		release, err := o.gateway.CancelAuthorization(ctx, application.CancelAuthorizationRequest{
			AuthorizationRef: *b.PaymentIntentRef,
			Reason:           cmd.Reason,
			IdempotencyKey:   application.ReleaseKey(b.ID),
		})
		if err != nil {
			return nil, application.MapGatewayError(err)
		}

		if err := b.Decline(release.ReleaseRef, cmd.Reason, o.now()); err != nil {
			return nil, err
		}

		return []notify.Event{notify.BookingDeclined(b, cmd.Reason)}, nil
	})
}
