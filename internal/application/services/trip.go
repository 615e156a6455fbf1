package services

import (
	"context"

	"drivehub-booking/internal/domain"
	"drivehub-booking/internal/notify"
)

// CheckInTrip records the guest picking up the car.
func (o *Orchestrator) CheckInTrip(ctx context.Context, bookingID string) (*domain.Booking, error) {
	return o.updateBooking(ctx, bookingID, func(b *domain.Booking) ([]notify.Event, error) {
		return nil, b.CheckIn()
	})
}

// StartTrip moves a checked-in trip to in progress.
func (o *Orchestrator) StartTrip(ctx context.Context, bookingID string) (*domain.Booking, error) {
	return o.updateBooking(ctx, bookingID, func(b *domain.Booking) ([]notify.Event, error) {
		return nil, b.BeginTrip()
	})
}

// CheckOutTrip records the guest returning the car.
func (o *Orchestrator) CheckOutTrip(ctx context.Context, bookingID string) (*domain.Booking, error) {
	return o.updateBooking(ctx, bookingID, func(b *domain.Booking) ([]notify.Event, error) {
		return nil, b.CheckOut()
	})
}

// CompleteTrip closes out the trip. When the car came back late it computes
// the billable late hours (rounded up), charges the late fee off-session, and
// only then completes the trip and the booking. A retry with identical late
// data does not produce a second charge; the recorded charge reference makes
// the fee at most once per booking.
func (o *Orchestrator) CompleteTrip(ctx context.Context, cmd CompleteTripCommand) (*domain.Booking, error) {
	return o.updateBooking(ctx, cmd.BookingID, func(b *domain.Booking) ([]notify.Event, error) {
		if err := b.CanTransitionTo(domain.BookingCompleted); err != nil {
			return nil, err
		}

		var events []notify.Event

		if cmd.ActualEndTime.After(cmd.ExpectedReturnTime) {
			minutesLate := cmd.ActualEndTime.Sub(cmd.ExpectedReturnTime).Minutes()
			hours := domain.LateHours(minutesLate)
			fee := float64(hours) * o.cfg.LateFeeHourlyRate

			if b.LateChargeRef == nil {
				if err := b.RecordLateReturn(hours, fee); err != nil {
					return nil, err
				}
				if err := o.chargeLateFee(ctx, b, fee); err != nil {
					return nil, err
				}
				events = append(events, notify.LateFeeCharged(b, fee))
			}
		}

		// Walk the remaining trip edges to completion.
		if b.TripStatus == domain.TripInProgress {
			if err := b.CheckOut(); err != nil {
				return nil, err
			}
		}
		if b.TripStatus == domain.TripCheckedOut {
			if err := b.SubmitForHostConfirmation(); err != nil {
				return nil, err
			}
		}
		if err := b.FinishTrip(); err != nil {
			return nil, err
		}

		if err := b.Complete(cmd.ActualEndTime); err != nil {
			return nil, err
		}

		events = append(events, notify.TripCompleted(b))
		return events, nil
	})
}
