package handlers

import (
	"net/http"
	"strconv"

	"drivehub-booking/internal/application"
	"drivehub-booking/internal/domain"
	"drivehub-booking/internal/interfaces/rest"
)

func (h *Handlers) GetBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.service.GetBooking(r.Context(), r.PathValue("id"))
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToBookingView(booking))
}

// ListBookings lists bookings for a guest or a host, newest first.
// Exactly one of guest_id or host_id is required.
func (h *Handlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	guestID := r.URL.Query().Get("guest_id")
	hostID := r.URL.Query().Get("host_id")
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	var (
		bookings []*domain.Booking
		err      error
	)
	switch {
	case guestID != "" && hostID == "":
		bookings, err = h.service.GetBookingsByGuest(r.Context(), guestID, limit, offset)
	case hostID != "" && guestID == "":
		bookings, err = h.service.GetBookingsByHost(r.Context(), hostID, limit, offset)
	default:
		rest.WriteError(w, application.NewInvalidRequestError("exactly one of guest_id or host_id is required"))
		return
	}
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	views := make([]rest.BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, rest.ToBookingView(b))
	}
	rest.WriteJSON(w, http.StatusOK, views)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
