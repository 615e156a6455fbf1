// Package handlers exposes the booking lifecycle over HTTP.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"drivehub-booking/internal/application/services"
	"drivehub-booking/internal/domain"
)

// BookingService is the slice of the orchestrator the handlers need.
type BookingService interface {
	CreateBooking(ctx context.Context, cmd services.CheckoutCommand) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, bookingID string) (*domain.Booking, error)
	DeclineBooking(ctx context.Context, cmd services.DeclineCommand) (*domain.Booking, error)
	CancelBooking(ctx context.Context, cmd services.CancelCommand) (*domain.Booking, error)
	CheckInTrip(ctx context.Context, bookingID string) (*domain.Booking, error)
	StartTrip(ctx context.Context, bookingID string) (*domain.Booking, error)
	CheckOutTrip(ctx context.Context, bookingID string) (*domain.Booking, error)
	CompleteTrip(ctx context.Context, cmd services.CompleteTripCommand) (*domain.Booking, error)
	ChargeLateFee(ctx context.Context, cmd services.ChargeLateFeeCommand) (*domain.Booking, error)
	GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error)
	GetBookingsByGuest(ctx context.Context, guestID string, limit, offset int) ([]*domain.Booking, error)
	GetBookingsByHost(ctx context.Context, hostID string, limit, offset int) ([]*domain.Booking, error)
}

type Handlers struct {
	service BookingService
	logger  *slog.Logger
}

func NewHandlers(service BookingService, logger *slog.Logger) *Handlers {
	return &Handlers{service: service, logger: logger}
}

// Register wires all booking routes onto the mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/bookings", h.CreateBooking)
	mux.HandleFunc("GET /api/v1/bookings/{id}", h.GetBooking)
	mux.HandleFunc("GET /api/v1/bookings", h.ListBookings)

	mux.HandleFunc("POST /api/v1/bookings/{id}/confirm", h.ConfirmBooking)
	mux.HandleFunc("POST /api/v1/bookings/{id}/decline", h.DeclineBooking)
	mux.HandleFunc("POST /api/v1/bookings/{id}/cancel", h.CancelBooking)

	mux.HandleFunc("POST /api/v1/bookings/{id}/trip/check-in", h.CheckInTrip)
	mux.HandleFunc("POST /api/v1/bookings/{id}/trip/start", h.StartTrip)
	mux.HandleFunc("POST /api/v1/bookings/{id}/trip/check-out", h.CheckOutTrip)
	mux.HandleFunc("POST /api/v1/bookings/{id}/trip/complete", h.CompleteTrip)

	mux.HandleFunc("POST /api/v1/bookings/{id}/late-fee", h.ChargeLateFee)

	mux.HandleFunc("GET /health", h.Health)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
