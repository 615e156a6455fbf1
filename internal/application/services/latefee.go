package services

import (
	"context"
	"strconv"

	"drivehub-booking/internal/application"
	"drivehub-booking/internal/domain"
	"drivehub-booking/internal/notify"
)

// ChargeLateFee charges a late return fee against the guest's saved payment
// method. A booking is charged at most once: a repeat attempt finds the
// recorded charge reference and echoes the original result as a success
// without touching the processor.
func (o *Orchestrator) ChargeLateFee(ctx context.Context, cmd ChargeLateFeeCommand) (*domain.Booking, error) {
	if err := domain.ValidateAmount(cmd.Amount); err != nil {
		return nil, err
	}

	return o.updateBooking(ctx, cmd.BookingID, func(b *domain.Booking) ([]notify.Event, error) {
		if b.LateChargeRef != nil {
			// Success echo of the earlier completed charge.
			return nil, errSkipSave
		}

		if b.Status != domain.BookingConfirmed && b.Status != domain.BookingCompleted {
			return nil, domain.NewInvalidStateError(string(b.Status), string(domain.BookingConfirmed))
		}
		if b.PaymentStatus != domain.PaymentPaid {
			return nil, domain.NewInvalidStateError(string(b.PaymentStatus), string(domain.PaymentPaid))
		}

		if err := o.chargeLateFee(ctx, b, cmd.Amount); err != nil {
			return nil, err
		}
		if b.LateFee == 0 {
			b.LateFee = cmd.Amount
		}

		return []notify.Event{notify.LateFeeCharged(b, cmd.Amount)}, nil
	})
}

// chargeLateFee performs the off-session charge and records its reference on
// the booking. The idempotency key is a hash of the booking id, the original
// payment reference and the amount in minor units, so identical retries at
// the processor collapse into one charge.
func (o *Orchestrator) chargeLateFee(ctx context.Context, b *domain.Booking, amount float64) error {
	if b.PaymentIntentRef == nil {
		return domain.NewMissingRequiredFieldError("payment intent reference")
	}

	amountMinor := domain.ToMinorUnits(amount)
	charge, err := o.gateway.ChargeOffSession(ctx, application.OffSessionChargeRequest{
		AuthorizationRef: *b.PaymentIntentRef,
		AmountMinor:      amountMinor,
		Currency:         b.Currency,
		IdempotencyKey:   application.LateFeeKey(b.ID, *b.PaymentIntentRef, amountMinor),
		Metadata: map[string]string{
			"booking_id": b.ID,
			"kind":       "late_fee",
			"late_hours": strconv.Itoa(b.LateHours),
		},
	})
	if err != nil {
		return application.MapGatewayError(err)
	}

	return b.RecordLateCharge(charge.ChargeRef)
}
