package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"drivehub-booking/internal/application"
	"drivehub-booking/internal/application/services"
	"drivehub-booking/internal/interfaces/rest"
)

func (h *Handlers) CheckInTrip(w http.ResponseWriter, r *http.Request) {
	booking, err := h.service.CheckInTrip(r.Context(), r.PathValue("id"))
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToBookingView(booking))
}

func (h *Handlers) StartTrip(w http.ResponseWriter, r *http.Request) {
	booking, err := h.service.StartTrip(r.Context(), r.PathValue("id"))
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToBookingView(booking))
}

func (h *Handlers) CheckOutTrip(w http.ResponseWriter, r *http.Request) {
	booking, err := h.service.CheckOutTrip(r.Context(), r.PathValue("id"))
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToBookingView(booking))
}

type completeTripRequest struct {
	ActualEndTime time.Time `json:"actual_end_time"`
}

// CompleteTrip finishes the trip. Late-return assessment compares the
// actual end time against the booked return time.
func (h *Handlers) CompleteTrip(w http.ResponseWriter, r *http.Request) {
	var req completeTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, application.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.ActualEndTime.IsZero() {
		req.ActualEndTime = time.Now().UTC()
	}

	id := r.PathValue("id")
	current, err := h.service.GetBooking(r.Context(), id)
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	booking, err := h.service.CompleteTrip(r.Context(), services.CompleteTripCommand{
		BookingID:          id,
		ActualEndTime:      req.ActualEndTime,
		ExpectedReturnTime: current.ReturnAt,
	})
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToBookingView(booking))
}
