package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"drivehub-booking/internal/application"
	"drivehub-booking/internal/application/services"
	"drivehub-booking/internal/domain"
	"drivehub-booking/internal/interfaces/rest"
)

type createBookingRequest struct {
	GuestID     string    `json:"guest_id"`
	HostID      string    `json:"host_id"`
	CarID       string    `json:"car_id"`
	CustomerRef string    `json:"customer_ref"`
	PickupAt    time.Time `json:"pickup_at"`
	ReturnAt    time.Time `json:"return_at"`
	DailyRate   float64   `json:"daily_rate"`
}

func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, application.NewInvalidRequestError("invalid request body"))
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), services.CheckoutCommand{
		GuestID:     req.GuestID,
		HostID:      req.HostID,
		CarID:       req.CarID,
		CustomerRef: req.CustomerRef,
		PickupAt:    req.PickupAt,
		ReturnAt:    req.ReturnAt,
		DailyRate:   req.DailyRate,
	})
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.ToBookingView(booking))
}

func (h *Handlers) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.service.ConfirmBooking(r.Context(), r.PathValue("id"))
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToBookingView(booking))
}

type declineBookingRequest struct {
	Reason string `json:"reason"`
}

func (h *Handlers) DeclineBooking(w http.ResponseWriter, r *http.Request) {
	var req declineBookingRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			rest.WriteError(w, application.NewInvalidRequestError("invalid request body"))
			return
		}
	}

	booking, err := h.service.DeclineBooking(r.Context(), services.DeclineCommand{
		BookingID: r.PathValue("id"),
		Reason:    req.Reason,
	})
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToBookingView(booking))
}

type cancelBookingRequest struct {
	CancelledBy string `json:"cancelled_by"`
	Reason      string `json:"reason"`
}

func (h *Handlers) CancelBooking(w http.ResponseWriter, r *http.Request) {
	var req cancelBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, application.NewInvalidRequestError("invalid request body"))
		return
	}

	booking, err := h.service.CancelBooking(r.Context(), services.CancelCommand{
		BookingID: r.PathValue("id"),
		Actor:     domain.Actor(req.CancelledBy),
		Reason:    req.Reason,
		Now:       time.Now().UTC(),
	})
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToBookingView(booking))
}

type chargeLateFeeRequest struct {
	Amount float64 `json:"amount"`
}

func (h *Handlers) ChargeLateFee(w http.ResponseWriter, r *http.Request) {
	var req chargeLateFeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rest.WriteError(w, application.NewInvalidRequestError("invalid request body"))
		return
	}

	booking, err := h.service.ChargeLateFee(r.Context(), services.ChargeLateFeeCommand{
		BookingID: r.PathValue("id"),
		Amount:    req.Amount,
	})
	if err != nil {
		rest.WriteError(w, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.ToBookingView(booking))
}
