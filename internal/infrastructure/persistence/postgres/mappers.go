package postgres

import (
	"drivehub-booking/internal/domain"
)

// toDomainModel: maps db model to domain aggregate
func toDomainModel(m BookingModel) *domain.Booking {
	b := &domain.Booking{
		ID:                      m.ID,
		GuestID:                 m.GuestID,
		HostID:                  m.HostID,
		CarID:                   m.CarID,
		PickupAt:                m.PickupAt,
		ReturnAt:                m.ReturnAt,
		RentalDays:              m.RentalDays,
		Subtotal:                m.Subtotal,
		PlatformFee:             m.PlatformFee,
		Total:                   m.Total,
		Currency:                m.Currency,
		Status:                  domain.BookingStatus(m.Status),
		PaymentStatus:           domain.PaymentStatus(m.PaymentStatus),
		TripStatus:              domain.TripStatus(m.TripStatus),
		PaymentIntentRef:        m.PaymentIntentRef,
		CaptureRef:              m.CaptureRef,
		ReleaseRef:              m.ReleaseRef,
		LateReturn:              m.LateReturn,
		LateHours:               m.LateHours,
		LateFee:                 m.LateFee,
		LateChargeRef:           m.LateChargeRef,
		CancellationStatus:      domain.CancellationStatus(m.CancellationStatus),
		CancellationRequestedAt: m.CancellationRequestedAt,
		CancellationReason:      m.CancellationReason,
		CancelledAt:             m.CancelledAt,
		RefundStatus:            domain.RefundStatus(m.RefundStatus),
		RefundAmount:            m.RefundAmount,
		RefundPercent:           m.RefundPercent,
		RefundRef:               m.RefundRef,
		RefundProcessedAt:       m.RefundProcessedAt,
		Version:                 m.Version,
		CreatedAt:               m.CreatedAt,
		UpdatedAt:               m.UpdatedAt,
	}
	if m.CancelledBy != nil {
		actor := domain.Actor(*m.CancelledBy)
		b.CancelledBy = &actor
	}
	return b
}

// toDBModel: maps domain aggregate to db model
func toDBModel(b *domain.Booking) *BookingModel {
	m := &BookingModel{
		ID:                      b.ID,
		GuestID:                 b.GuestID,
		HostID:                  b.HostID,
		CarID:                   b.CarID,
		PickupAt:                b.PickupAt,
		ReturnAt:                b.ReturnAt,
		RentalDays:              b.RentalDays,
		Subtotal:                b.Subtotal,
		PlatformFee:             b.PlatformFee,
		Total:                   b.Total,
		Currency:                b.Currency,
		Status:                  string(b.Status),
		PaymentStatus:           string(b.PaymentStatus),
		TripStatus:              string(b.TripStatus),
		PaymentIntentRef:        b.PaymentIntentRef,
		CaptureRef:              b.CaptureRef,
		ReleaseRef:              b.ReleaseRef,
		LateReturn:              b.LateReturn,
		LateHours:               b.LateHours,
		LateFee:                 b.LateFee,
		LateChargeRef:           b.LateChargeRef,
		CancellationStatus:      string(b.CancellationStatus),
		CancellationRequestedAt: b.CancellationRequestedAt,
		CancellationReason:      b.CancellationReason,
		CancelledAt:             b.CancelledAt,
		RefundStatus:            string(b.RefundStatus),
		RefundAmount:            b.RefundAmount,
		RefundPercent:           b.RefundPercent,
		RefundRef:               b.RefundRef,
		RefundProcessedAt:       b.RefundProcessedAt,
		Version:                 b.Version,
		CreatedAt:               b.CreatedAt,
		UpdatedAt:               b.UpdatedAt,
	}
	if b.CancelledBy != nil {
		actor := string(*b.CancelledBy)
		m.CancelledBy = &actor
	}
	return m
}
