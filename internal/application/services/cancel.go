package services

import (
	"context"

	"drivehub-booking/internal/application"
	"drivehub-booking/internal/domain"
	"drivehub-booking/internal/notify"
)

// CancelBooking cancels a confirmed booking and issues the refund computed by
// the refund policy. The booking transitions to CANCELLED even when the
// processor reports the refund as pending; cancellation is not gated on
// refund settlement.
func (o *Orchestrator) CancelBooking(ctx context.Context, cmd CancelCommand) (*domain.Booking, error) {
	if cmd.Actor != domain.ActorGuest && cmd.Actor != domain.ActorHost {
		return nil, domain.NewValidationError("cancelling actor must be guest or host")
	}

	return o.updateBooking(ctx, cmd.BookingID, func(b *domain.Booking) ([]notify.Event, error) {
		if err := b.CanTransitionTo(domain.BookingCancelled); err != nil {
			return nil, err
		}
		if b.PaymentIntentRef == nil {
			return nil, domain.NewMissingRequiredFieldError("payment intent reference")
		}

		assessment := o.policy.Assess(cmd.Now, b.PickupAt, cmd.Actor, b.Total)

		var (
			refundRef    *string
			refundStatus = domain.RefundNone
		)
		if assessment.Amount > 0 {
			amountMinor := domain.ToMinorUnits(assessment.Amount)
			result, err := o.gateway.Refund(ctx, application.RefundRequest{
				AuthorizationRef: *b.PaymentIntentRef,
				AmountMinor:      amountMinor,
				Reason:           cmd.Reason,
				IdempotencyKey:   application.RefundKey(b.ID, amountMinor),
			})
			if err != nil {
				return nil, application.MapGatewayError(err)
			}
			refundRef = &result.RefundRef
			refundStatus = domain.RefundSucceeded
			if result.Status == application.RefundStatePending {
				refundStatus = domain.RefundPending
			}
		}

		if err := b.Cancel(cmd.Actor, cmd.Reason, cmd.Now, assessment.Percent, assessment.Amount, refundRef, refundStatus); err != nil {
			return nil, err
		}

		return []notify.Event{notify.BookingCancelled(b, cmd.Actor)}, nil
	})
}
