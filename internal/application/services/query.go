package services

import (
	"context"

	"drivehub-booking/internal/domain"
)

// GetBooking retrieves a booking snapshot for the API layer.
func (o *Orchestrator) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	return o.bookings.FindByID(ctx, bookingID)
}

// GetBookingsByGuest retrieves a guest's bookings, newest first.
func (o *Orchestrator) GetBookingsByGuest(ctx context.Context, guestID string, limit, offset int) ([]*domain.Booking, error) {
	return o.bookings.FindByGuestID(ctx, guestID, limit, offset)
}

// GetBookingsByHost retrieves a host's bookings, newest first.
func (o *Orchestrator) GetBookingsByHost(ctx context.Context, hostID string, limit, offset int) ([]*domain.Booking, error) {
	return o.bookings.FindByHostID(ctx, hostID, limit, offset)
}
