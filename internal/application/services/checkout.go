package services

import (
	"context"
	"math"

	"drivehub-booking/internal/application"
	"drivehub-booking/internal/domain"
	"drivehub-booking/internal/notify"

	"github.com/google/uuid"
)

// CreateBooking places an authorization hold for the full amount and persists
// the booking in PENDING. Funds are held, not captured; capture happens when
// the host confirms.
func (o *Orchestrator) CreateBooking(ctx context.Context, cmd CheckoutCommand) (*domain.Booking, error) {
	if cmd.CustomerRef == "" {
		return nil, domain.NewMissingRequiredFieldError("customer reference")
	}
	if !cmd.ReturnAt.After(cmd.PickupAt) {
		return nil, domain.NewValidationError("return time must be after pickup time")
	}
	if err := domain.ValidateAmount(cmd.DailyRate); err != nil {
		return nil, err
	}

	days := int(math.Ceil(cmd.ReturnAt.Sub(cmd.PickupAt).Hours() / 24))
	subtotal := cmd.DailyRate * float64(days)
	platformFee := subtotal * o.cfg.PlatformFeePercent / 100
	total := subtotal + platformFee

	bookingID := uuid.New().String()
	totalMinor := domain.ToMinorUnits(total)

	auth, err := o.gateway.Authorize(ctx, application.AuthorizeRequest{
		CustomerRef:    cmd.CustomerRef,
		AmountMinor:    totalMinor,
		Currency:       o.cfg.Currency,
		IdempotencyKey: application.AuthorizeKey(bookingID, totalMinor),
	})
	if err != nil {
		return nil, application.MapGatewayError(err)
	}

	booking, err := domain.NewBooking(
		bookingID,
		cmd.GuestID, cmd.HostID, cmd.CarID,
		cmd.PickupAt, cmd.ReturnAt,
		days,
		subtotal, platformFee, total,
		o.cfg.Currency,
		auth.AuthorizationRef,
	)
	if err != nil {
		return nil, err
	}

	if err := o.bookings.Create(ctx, booking); err != nil {
		return nil, application.NewInternalError(err)
	}

	o.notifier.Dispatch(ctx, notify.BookingRequested(booking))
	return booking, nil
}
