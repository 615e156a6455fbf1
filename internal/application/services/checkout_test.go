package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drivehub-booking/internal/application"
	"drivehub-booking/internal/application/services"
	"drivehub-booking/internal/domain"
	"drivehub-booking/internal/notify"
)

func checkoutCommand() services.CheckoutCommand {
	pickup := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	return services.CheckoutCommand{
		GuestID:     "guest-1",
		HostID:      "host-1",
		CarID:       "car-1",
		CustomerRef: "cust-1",
		PickupAt:    pickup,
		ReturnAt:    pickup.Add(72 * time.Hour),
		DailyRate:   1000,
	}
}

func TestCreateBooking_Success(t *testing.T) {
	f := newFixture(t)

	b, err := f.orchestrator.CreateBooking(context.Background(), checkoutCommand())
	require.NoError(t, err)

	assert.Equal(t, 3, b.RentalDays)
	assert.Equal(t, 3000.0, b.Subtotal)
	assert.Equal(t, 300.0, b.PlatformFee)
	assert.Equal(t, 3300.0, b.Total)
	assert.Equal(t, "PHP", b.Currency)
	assert.Equal(t, domain.BookingPending, b.Status)
	assert.Equal(t, domain.PaymentPending, b.PaymentStatus)
	require.NotNil(t, b.PaymentIntentRef)
	assert.Equal(t, "auth-1", *b.PaymentIntentRef)

	require.Len(t, f.gateway.AuthorizeCalls, 1)
	call := f.gateway.AuthorizeCalls[0]
	assert.Equal(t, "cust-1", call.CustomerRef)
	assert.Equal(t, int64(330000), call.AmountMinor)
	assert.Equal(t, application.AuthorizeKey(b.ID, 330000), call.IdempotencyKey)

	saved, err := f.repo.FindByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, saved.Status)

	assert.Equal(t, []notify.Type{notify.TypeBookingRequested}, f.sink.types())
}

func TestCreateBooking_PartialDayRoundsUp(t *testing.T) {
	f := newFixture(t)

	cmd := checkoutCommand()
	cmd.ReturnAt = cmd.PickupAt.Add(50 * time.Hour)

	b, err := f.orchestrator.CreateBooking(context.Background(), cmd)
	require.NoError(t, err)

	assert.Equal(t, 3, b.RentalDays)
	assert.Equal(t, 3000.0, b.Subtotal)
}

func TestCreateBooking_AuthorizationDeclined(t *testing.T) {
	f := newFixture(t)
	f.gateway.AuthorizeFn = func(ctx context.Context, req application.AuthorizeRequest) (*application.AuthorizationResult, error) {
		return nil, &application.GatewayError{Code: "card_declined", Message: "declined", StatusCode: 402}
	}

	_, err := f.orchestrator.CreateBooking(context.Background(), checkoutCommand())
	require.Error(t, err)

	svcErr, ok := application.IsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, application.ErrCodeCardDeclined, svcErr.Code)

	// Nothing was persisted and nobody was notified.
	assert.Empty(t, f.repo.bookings)
	assert.Empty(t, f.sink.types())
}

func TestCreateBooking_Validation(t *testing.T) {
	f := newFixture(t)

	cmd := checkoutCommand()
	cmd.CustomerRef = ""
	_, err := f.orchestrator.CreateBooking(context.Background(), cmd)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeMissingRequiredField))

	cmd = checkoutCommand()
	cmd.ReturnAt = cmd.PickupAt
	_, err = f.orchestrator.CreateBooking(context.Background(), cmd)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeValidation))

	cmd = checkoutCommand()
	cmd.DailyRate = 0
	_, err = f.orchestrator.CreateBooking(context.Background(), cmd)
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidAmount))

	assert.Empty(t, f.gateway.AuthorizeCalls)
}
