package domain

import "slices"

// Trip sub-machine. The edges are strictly linear:
// NOT_STARTED → CHECKED_IN → IN_PROGRESS → CHECKED_OUT →
// AWAITING_HOST_CONFIRMATION → COMPLETED.

func (b *Booking) canTripTransitionTo(target TripStatus) error {
	switch b.TripStatus {
	case TripNotStarted:
		return b.allowTrip(target, TripCheckedIn)
	case TripCheckedIn:
		return b.allowTrip(target, TripInProgress)
	case TripInProgress:
		return b.allowTrip(target, TripCheckedOut)
	case TripCheckedOut:
		return b.allowTrip(target, TripAwaitingHost)
	case TripAwaitingHost:
		return b.allowTrip(target, TripCompleted)
	}
	return NewInvalidTransitionError(string(b.TripStatus), string(target))
}

func (b *Booking) allowTrip(target TripStatus, allowed ...TripStatus) error {
	if slices.Contains(allowed, target) {
		return nil
	}
	return NewInvalidTransitionError(string(b.TripStatus), string(target))
}

func (b *Booking) transitionTrip(target TripStatus) error {
	if b.Status != BookingConfirmed {
		return NewInvalidStateError(string(b.Status), string(BookingConfirmed))
	}
	if err := b.canTripTransitionTo(target); err != nil {
		return err
	}
	b.TripStatus = target
	b.touch()
	return nil
}

// CheckIn records the guest picking up the car.
func (b *Booking) CheckIn() error {
	return b.transitionTrip(TripCheckedIn)
}

// BeginTrip moves a checked-in trip to in progress.
func (b *Booking) BeginTrip() error {
	return b.transitionTrip(TripInProgress)
}

// CheckOut records the guest returning the car.
func (b *Booking) CheckOut() error {
	return b.transitionTrip(TripCheckedOut)
}

// SubmitForHostConfirmation hands the returned car to the host for review.
func (b *Booking) SubmitForHostConfirmation() error {
	return b.transitionTrip(TripAwaitingHost)
}

// FinishTrip completes the trip after the host confirms the return.
func (b *Booking) FinishTrip() error {
	return b.transitionTrip(TripCompleted)
}
