package postgres

import (
	"context"
	"errors"
	"fmt"

	"drivehub-booking/internal/application"
	"drivehub-booking/internal/domain"
	"drivehub-booking/internal/infrastructure/persistence"

	"github.com/jackc/pgx/v5"
)

const bookingColumns = `
	id, guest_id, host_id, car_id,
	pickup_at, return_at, rental_days,
	subtotal, platform_fee, total, currency,
	status, payment_status, trip_status,
	payment_intent_ref, capture_ref, release_ref,
	late_return, late_hours, late_fee, late_charge_ref,
	cancellation_status, cancellation_requested_at, cancellation_reason, cancelled_by, cancelled_at,
	refund_status, refund_amount, refund_percent, refund_ref, refund_processed_at,
	version, created_at, updated_at`

type BookingRepository struct {
	db persistence.Executor
}

func NewBookingRepository(db persistence.Executor) *BookingRepository {
	return &BookingRepository{db: db}
}

var _ application.BookingRepository = (*BookingRepository)(nil)

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7,
			$8, $9, $10, $11,
			$12, $13, $14,
			$15, $16, $17,
			$18, $19, $20, $21,
			$22, $23, $24, $25, $26,
			$27, $28, $29, $30, $31,
			$32, $33, $34
		)
	`

	m := toDBModel(booking)
	_, err := r.db.Exec(ctx, query,
		m.ID, m.GuestID, m.HostID, m.CarID,
		m.PickupAt, m.ReturnAt, m.RentalDays,
		m.Subtotal, m.PlatformFee, m.Total, m.Currency,
		m.Status, m.PaymentStatus, m.TripStatus,
		m.PaymentIntentRef, m.CaptureRef, m.ReleaseRef,
		m.LateReturn, m.LateHours, m.LateFee, m.LateChargeRef,
		m.CancellationStatus, m.CancellationRequestedAt, m.CancellationReason, m.CancelledBy, m.CancelledAt,
		m.RefundStatus, m.RefundAmount, m.RefundPercent, m.RefundRef, m.RefundProcessedAt,
		m.Version, m.CreatedAt, m.UpdatedAt,
	)

	if err != nil {
		if persistence.IsUniqueViolation(err) {
			return application.NewInvalidRequestError("booking already exists")
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}

	return nil
}

// FindByID retrieves a booking
func (r *BookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	row := r.db.QueryRow(ctx, query, id)
	return scanBooking(row, id)
}

// FindByGuestID retrieves bookings made by a guest, newest first
func (r *BookingRepository) FindByGuestID(ctx context.Context, guestID string, limit, offset int) ([]*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings WHERE guest_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, guestID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query bookings by guest_id: %w", err)
	}
	return collectBookings(rows)
}

// FindByHostID retrieves bookings on a host's cars, newest first
func (r *BookingRepository) FindByHostID(ctx context.Context, hostID string, limit, offset int) ([]*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings WHERE host_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, hostID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query bookings by host_id: %w", err)
	}
	return collectBookings(rows)
}

// FindPendingRefunds finds cancelled bookings whose refund has not settled yet
func (r *BookingRepository) FindPendingRefunds(ctx context.Context, limit int) ([]*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE refund_status = 'PENDING'
		  AND refund_ref IS NOT NULL
		ORDER BY cancelled_at ASC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending refunds: %w", err)
	}
	return collectBookings(rows)
}

// Update writes the booking conditioned on expectedVersion. The WHERE clause
// on version is what rejects stale writers; nothing is ever merged.
func (r *BookingRepository) Update(ctx context.Context, booking *domain.Booking, expectedVersion int64) error {
	query := `
		UPDATE bookings
		SET status = $1, payment_status = $2, trip_status = $3,
			payment_intent_ref = $4, capture_ref = $5, release_ref = $6,
			late_return = $7, late_hours = $8, late_fee = $9, late_charge_ref = $10,
			cancellation_status = $11, cancellation_requested_at = $12, cancellation_reason = $13,
			cancelled_by = $14, cancelled_at = $15,
			refund_status = $16, refund_amount = $17, refund_percent = $18,
			refund_ref = $19, refund_processed_at = $20,
			updated_at = $21,
			version = version + 1
		WHERE id = $22 AND version = $23
	`

	m := toDBModel(booking)
	result, err := r.db.Exec(ctx, query,
		m.Status, m.PaymentStatus, m.TripStatus,
		m.PaymentIntentRef, m.CaptureRef, m.ReleaseRef,
		m.LateReturn, m.LateHours, m.LateFee, m.LateChargeRef,
		m.CancellationStatus, m.CancellationRequestedAt, m.CancellationReason,
		m.CancelledBy, m.CancelledAt,
		m.RefundStatus, m.RefundAmount, m.RefundPercent,
		m.RefundRef, m.RefundProcessedAt,
		m.UpdatedAt,
		m.ID, expectedVersion,
	)

	if err != nil {
		return fmt.Errorf("failed to update booking: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Either the row is gone or someone else won the version race.
		// Distinguish so callers retry only on a real conflict.
		var exists bool
		checkErr := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id = $1)`, m.ID).Scan(&exists)
		if checkErr != nil {
			return fmt.Errorf("failed to check booking existence: %w", checkErr)
		}
		if !exists {
			return domain.NewBookingNotFoundError(m.ID)
		}
		return application.ErrConcurrentModification
	}

	booking.Version = expectedVersion + 1
	return nil
}

// scanBooking converts a database row into a domain Booking.
// Returns a BOOKING_NOT_FOUND domain error if the row doesn't exist.
func scanBooking(row pgx.Row, id string) (*domain.Booking, error) {
	var m BookingModel
	err := row.Scan(
		&m.ID, &m.GuestID, &m.HostID, &m.CarID,
		&m.PickupAt, &m.ReturnAt, &m.RentalDays,
		&m.Subtotal, &m.PlatformFee, &m.Total, &m.Currency,
		&m.Status, &m.PaymentStatus, &m.TripStatus,
		&m.PaymentIntentRef, &m.CaptureRef, &m.ReleaseRef,
		&m.LateReturn, &m.LateHours, &m.LateFee, &m.LateChargeRef,
		&m.CancellationStatus, &m.CancellationRequestedAt, &m.CancellationReason, &m.CancelledBy, &m.CancelledAt,
		&m.RefundStatus, &m.RefundAmount, &m.RefundPercent, &m.RefundRef, &m.RefundProcessedAt,
		&m.Version, &m.CreatedAt, &m.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewBookingNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to scan booking: %w", err)
	}
	return toDomainModel(m), nil
}

func collectBookings(rows pgx.Rows) ([]*domain.Booking, error) {
	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Booking, error) {
		var m BookingModel
		err := row.Scan(
			&m.ID, &m.GuestID, &m.HostID, &m.CarID,
			&m.PickupAt, &m.ReturnAt, &m.RentalDays,
			&m.Subtotal, &m.PlatformFee, &m.Total, &m.Currency,
			&m.Status, &m.PaymentStatus, &m.TripStatus,
			&m.PaymentIntentRef, &m.CaptureRef, &m.ReleaseRef,
			&m.LateReturn, &m.LateHours, &m.LateFee, &m.LateChargeRef,
			&m.CancellationStatus, &m.CancellationRequestedAt, &m.CancellationReason, &m.CancelledBy, &m.CancelledAt,
			&m.RefundStatus, &m.RefundAmount, &m.RefundPercent, &m.RefundRef, &m.RefundProcessedAt,
			&m.Version, &m.CreatedAt, &m.UpdatedAt,
		)
		return toDomainModel(m), err
	})

	if err != nil {
		return nil, fmt.Errorf("error occurred while scanning rows: %w", err)
	}
	return results, nil
}
