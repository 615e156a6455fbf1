package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drivehub-booking/internal/application"
	"drivehub-booking/internal/application/services"
	"drivehub-booking/internal/domain"
	"drivehub-booking/internal/notify"
)

func TestDeclineBooking_Success(t *testing.T) {
	f := newFixture(t)
	seedPendingBooking(t, f)

	b, err := f.orchestrator.DeclineBooking(context.Background(), services.DeclineCommand{
		BookingID: "bkg-1",
		Reason:    "car unavailable",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.BookingDeclined, b.Status)
	require.NotNil(t, b.ReleaseRef)
	assert.Equal(t, "void-1", *b.ReleaseRef)

	require.Len(t, f.gateway.ReleaseCalls, 1)
	call := f.gateway.ReleaseCalls[0]
	assert.Equal(t, "auth-1", call.AuthorizationRef)
	assert.Equal(t, "car unavailable", call.Reason)
	assert.Equal(t, application.ReleaseKey("bkg-1"), call.IdempotencyKey)

	saved, err := f.repo.FindByID(context.Background(), "bkg-1")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingDeclined, saved.Status)
	assert.Equal(t, int64(2), saved.Version)

	assert.Equal(t, []notify.Type{notify.TypeBookingDeclined}, f.sink.types())
}

func TestDeclineBooking_ReleaseFailureLeavesBookingPending(t *testing.T) {
	f := newFixture(t)
	seedPendingBooking(t, f)
	f.gateway.CancelAuthorizationFn = func(ctx context.Context, req application.CancelAuthorizationRequest) (*application.ReleaseResult, error) {
		return nil, &application.GatewayError{Code: "internal_error", Message: "boom", StatusCode: 503}
	}

	_, err := f.orchestrator.DeclineBooking(context.Background(), services.DeclineCommand{
		BookingID: "bkg-1",
		Reason:    "car unavailable",
	})
	require.Error(t, err)

	saved, err := f.repo.FindByID(context.Background(), "bkg-1")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingPending, saved.Status)
	assert.Nil(t, saved.ReleaseRef)
	assert.Equal(t, int64(1), saved.Version)
	assert.Empty(t, f.sink.types())
}

func TestDeclineBooking_ConfirmedBookingRejected(t *testing.T) {
	f := newFixture(t)
	seedConfirmedBooking(t, f)

	_, err := f.orchestrator.DeclineBooking(context.Background(), services.DeclineCommand{
		BookingID: "bkg-1",
	})
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidTransition))
	assert.Empty(t, f.gateway.ReleaseCalls)
}
