// Package services contains the booking lifecycle orchestrator. Each public
// operation is a single booking-scoped transaction: load the booking at its
// current version, validate the transition, perform the matching processor
// operation, write conditioned on the loaded version, then dispatch
// notifications.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"drivehub-booking/internal/application"
	"drivehub-booking/internal/notify"
	"drivehub-booking/internal/refund"

	"drivehub-booking/internal/domain"
)

const defaultConflictRetries = 3

// Config carries the orchestrator's business settings.
type Config struct {
	// LateFeeHourlyRate is the configured per-hour late return rate, in
	// decimal currency units.
	LateFeeHourlyRate float64
	// PlatformFeePercent is applied to the rental subtotal at checkout.
	PlatformFeePercent float64
	Currency           string
	// ConflictRetries bounds the internal read-check-write retry cycle
	// before ConcurrentModification is surfaced.
	ConflictRetries int
}

type Orchestrator struct {
	bookings        application.BookingRepository
	gateway         application.PaymentGateway
	policy          refund.Policy
	notifier        *notify.Dispatcher
	cfg             Config
	logger          *slog.Logger
	conflictRetries int
	now             func() time.Time
}

func NewOrchestrator(
	bookings application.BookingRepository,
	gateway application.PaymentGateway,
	policy refund.Policy,
	notifier *notify.Dispatcher,
	cfg Config,
	logger *slog.Logger,
) *Orchestrator {
	retries := cfg.ConflictRetries
	if retries <= 0 {
		retries = defaultConflictRetries
	}
	return &Orchestrator{
		bookings:        bookings,
		gateway:         gateway,
		policy:          policy,
		notifier:        notifier,
		cfg:             cfg,
		logger:          logger,
		conflictRetries: retries,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// errSkipSave aborts the write cycle without persisting: the command turned
// out to be a no-op echo of an earlier completed operation.
var errSkipSave = errors.New("no state change")

// updateBooking runs one read-check-write cycle against the version token,
// retrying a bounded number of times on conflict. The apply function may call
// the payment gateway; its calls must be idempotent because a losing writer
// repeats them with the same keys. Notifications go out only after the write
// commits.
func (o *Orchestrator) updateBooking(
	ctx context.Context,
	bookingID string,
	apply func(b *domain.Booking) ([]notify.Event, error),
) (*domain.Booking, error) {
	var conflict error
	for attempt := 0; attempt <= o.conflictRetries; attempt++ {
		booking, err := o.bookings.FindByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		loadedVersion := booking.Version

		events, err := apply(booking)
		if errors.Is(err, errSkipSave) {
			return booking, nil
		}
		if err != nil {
			return nil, err
		}

		if err := o.bookings.Update(ctx, booking, loadedVersion); err != nil {
			if errors.Is(err, application.ErrConcurrentModification) {
				conflict = err
				o.logger.Warn("version conflict, retrying command",
					"booking_id", bookingID,
					"attempt", attempt+1,
				)
				continue
			}
			return nil, application.NewInternalError(err)
		}

		o.notifier.Dispatch(ctx, events...)
		return booking, nil
	}
	return nil, application.NewConcurrentModificationError(conflict)
}
