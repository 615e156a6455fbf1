package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"drivehub-booking/internal/application"
	"drivehub-booking/internal/domain"
	"drivehub-booking/internal/infrastructure/persistence/postgres"
	"drivehub-booking/internal/notify"
	"drivehub-booking/internal/testhelpers"
)

type BookingRepositoryTestSuite struct {
	suite.Suite
	testDB *testhelpers.TestDatabase
	repo   *postgres.BookingRepository
	store  *postgres.NotificationStore
}

func TestBookingRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration suite in short mode")
	}
	suite.Run(t, new(BookingRepositoryTestSuite))
}

func (suite *BookingRepositoryTestSuite) SetupSuite() {
	suite.testDB = testhelpers.SetupTestDatabase(suite.T())
	suite.repo = postgres.NewBookingRepository(suite.testDB.DB.Pool)
	suite.store = postgres.NewNotificationStore(suite.testDB.DB.Pool)
}

func (suite *BookingRepositoryTestSuite) TearDownSuite() {
	suite.testDB.Cleanup(suite.T())
}

func (suite *BookingRepositoryTestSuite) TearDownTest() {
	suite.testDB.CleanTables(suite.T())
}

func (suite *BookingRepositoryTestSuite) newBooking(id, guestID, hostID string) *domain.Booking {
	pickup := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	b, err := domain.NewBooking(
		id, guestID, hostID, "car-1",
		pickup, pickup.Add(72*time.Hour), 3,
		3000, 300, 3300, "PHP",
		"auth-"+id,
	)
	require.NoError(suite.T(), err)
	return b
}

func (suite *BookingRepositoryTestSuite) Test_CreateAndFindByID() {
	ctx := context.Background()
	t := suite.T()

	b := suite.newBooking("bkg-1", "guest-1", "host-1")
	require.NoError(t, suite.repo.Create(ctx, b))

	found, err := suite.repo.FindByID(ctx, "bkg-1")
	require.NoError(t, err)

	assert.Equal(t, b.ID, found.ID)
	assert.Equal(t, b.GuestID, found.GuestID)
	assert.Equal(t, domain.BookingPending, found.Status)
	assert.Equal(t, domain.PaymentPending, found.PaymentStatus)
	assert.Equal(t, domain.TripNotStarted, found.TripStatus)
	assert.Equal(t, 3300.0, found.Total)
	assert.Equal(t, int64(1), found.Version)
	require.NotNil(t, found.PaymentIntentRef)
	assert.Equal(t, "auth-bkg-1", *found.PaymentIntentRef)
	assert.True(t, b.PickupAt.Equal(found.PickupAt))
}

func (suite *BookingRepositoryTestSuite) Test_FindByID_NotFound() {
	_, err := suite.repo.FindByID(context.Background(), "missing")
	assert.True(suite.T(), domain.IsErrorCode(err, domain.ErrCodeBookingNotFound))
}

func (suite *BookingRepositoryTestSuite) Test_Update_BumpsVersion() {
	ctx := context.Background()
	t := suite.T()

	b := suite.newBooking("bkg-1", "guest-1", "host-1")
	require.NoError(t, suite.repo.Create(ctx, b))

	require.NoError(t, b.Confirm("cap-1", time.Now()))
	require.NoError(t, suite.repo.Update(ctx, b, 1))
	assert.Equal(t, int64(2), b.Version)

	found, err := suite.repo.FindByID(ctx, "bkg-1")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, found.Status)
	assert.Equal(t, domain.PaymentPaid, found.PaymentStatus)
	require.NotNil(t, found.CaptureRef)
	assert.Equal(t, "cap-1", *found.CaptureRef)
	assert.Equal(t, int64(2), found.Version)
}

func (suite *BookingRepositoryTestSuite) Test_Update_StaleVersionRejected() {
	ctx := context.Background()
	t := suite.T()

	b := suite.newBooking("bkg-1", "guest-1", "host-1")
	require.NoError(t, suite.repo.Create(ctx, b))

	// Two writers load version 1; the first commit wins.
	first, err := suite.repo.FindByID(ctx, "bkg-1")
	require.NoError(t, err)
	second, err := suite.repo.FindByID(ctx, "bkg-1")
	require.NoError(t, err)

	require.NoError(t, first.Confirm("cap-1", time.Now()))
	require.NoError(t, suite.repo.Update(ctx, first, 1))

	require.NoError(t, second.Decline("void-1", "busy", time.Now()))
	err = suite.repo.Update(ctx, second, 1)
	assert.ErrorIs(t, err, application.ErrConcurrentModification)

	found, err := suite.repo.FindByID(ctx, "bkg-1")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, found.Status)
	assert.Equal(t, int64(2), found.Version)
}

func (suite *BookingRepositoryTestSuite) Test_Update_MissingBooking() {
	b := suite.newBooking("ghost", "guest-1", "host-1")
	err := suite.repo.Update(context.Background(), b, 1)
	assert.True(suite.T(), domain.IsErrorCode(err, domain.ErrCodeBookingNotFound))
}

func (suite *BookingRepositoryTestSuite) Test_FindByGuestAndHost() {
	ctx := context.Background()
	t := suite.T()

	require.NoError(t, suite.repo.Create(ctx, suite.newBooking("bkg-1", "guest-1", "host-1")))
	require.NoError(t, suite.repo.Create(ctx, suite.newBooking("bkg-2", "guest-1", "host-2")))
	require.NoError(t, suite.repo.Create(ctx, suite.newBooking("bkg-3", "guest-2", "host-1")))

	byGuest, err := suite.repo.FindByGuestID(ctx, "guest-1", 10, 0)
	require.NoError(t, err)
	assert.Len(t, byGuest, 2)

	byHost, err := suite.repo.FindByHostID(ctx, "host-1", 10, 0)
	require.NoError(t, err)
	assert.Len(t, byHost, 2)

	limited, err := suite.repo.FindByGuestID(ctx, "guest-1", 1, 0)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func (suite *BookingRepositoryTestSuite) Test_FindPendingRefunds() {
	ctx := context.Background()
	t := suite.T()

	pendingRefund := suite.newBooking("bkg-1", "guest-1", "host-1")
	require.NoError(t, pendingRefund.Confirm("cap-1", time.Now()))
	ref := "ref-1"
	require.NoError(t, pendingRefund.Cancel(domain.ActorGuest, "", time.Now(), 100, 3300, &ref, domain.RefundPending))
	require.NoError(t, suite.repo.Create(ctx, pendingRefund))

	settled := suite.newBooking("bkg-2", "guest-1", "host-1")
	require.NoError(t, settled.Confirm("cap-2", time.Now()))
	ref2 := "ref-2"
	require.NoError(t, settled.Cancel(domain.ActorGuest, "", time.Now(), 100, 3300, &ref2, domain.RefundSucceeded))
	require.NoError(t, suite.repo.Create(ctx, settled))

	open := suite.newBooking("bkg-3", "guest-1", "host-1")
	require.NoError(t, suite.repo.Create(ctx, open))

	found, err := suite.repo.FindPendingRefunds(ctx, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "bkg-1", found[0].ID)
}

func (suite *BookingRepositoryTestSuite) Test_NotificationStore_Publish() {
	ctx := context.Background()
	t := suite.T()

	b := suite.newBooking("bkg-1", "guest-1", "host-1")
	require.NoError(t, suite.store.Publish(ctx, notify.BookingRequested(b)))

	var count int
	err := suite.testDB.DB.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND type = $2 AND booking_id = $3",
		"host-1", string(notify.TypeBookingRequested), "bkg-1",
	).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
