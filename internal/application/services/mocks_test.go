package services_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"drivehub-booking/internal/application"
	"drivehub-booking/internal/application/services"
	"drivehub-booking/internal/domain"
	"drivehub-booking/internal/notify"
	"drivehub-booking/internal/refund"
)

// mockBookingRepository is an in-memory repository with real version-token
// semantics, so conflict paths behave like the Postgres implementation.
type mockBookingRepository struct {
	mu       sync.Mutex
	bookings map[string]*domain.Booking

	CreateFn   func(ctx context.Context, b *domain.Booking) error
	FindByIDFn func(ctx context.Context, id string) (*domain.Booking, error)
	UpdateFn   func(ctx context.Context, b *domain.Booking, expectedVersion int64) error
}

func newMockBookingRepository() *mockBookingRepository {
	return &mockBookingRepository{bookings: make(map[string]*domain.Booking)}
}

func (m *mockBookingRepository) put(b *domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.bookings[b.ID] = &cp
}

func (m *mockBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, b)
	}
	m.put(b)
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, domain.NewBookingNotFoundError(id)
	}
	cp := *b
	return &cp, nil
}

func (m *mockBookingRepository) FindByGuestID(ctx context.Context, guestID string, limit, offset int) ([]*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Booking
	for _, b := range m.bookings {
		if b.GuestID == guestID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockBookingRepository) FindByHostID(ctx context.Context, hostID string, limit, offset int) ([]*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Booking
	for _, b := range m.bookings {
		if b.HostID == hostID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockBookingRepository) FindPendingRefunds(ctx context.Context, limit int) ([]*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Booking
	for _, b := range m.bookings {
		if b.RefundStatus == domain.RefundPending && b.RefundRef != nil {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockBookingRepository) Update(ctx context.Context, b *domain.Booking, expectedVersion int64) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, b, expectedVersion)
	}
	return m.cas(b, expectedVersion)
}

// cas is the default compare-and-swap write, callable from UpdateFn overrides.
func (m *mockBookingRepository) cas(b *domain.Booking, expectedVersion int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.bookings[b.ID]
	if !ok {
		return domain.NewBookingNotFoundError(b.ID)
	}
	if stored.Version != expectedVersion {
		return application.ErrConcurrentModification
	}
	b.Version = expectedVersion + 1
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

// mockGateway counts calls per operation and records idempotency keys.
type mockGateway struct {
	mu sync.Mutex

	AuthorizeFn           func(ctx context.Context, req application.AuthorizeRequest) (*application.AuthorizationResult, error)
	CaptureFn             func(ctx context.Context, req application.CaptureRequest) (*application.CaptureResult, error)
	CancelAuthorizationFn func(ctx context.Context, req application.CancelAuthorizationRequest) (*application.ReleaseResult, error)
	RefundFn              func(ctx context.Context, req application.RefundRequest) (*application.RefundResult, error)
	ChargeOffSessionFn    func(ctx context.Context, req application.OffSessionChargeRequest) (*application.ChargeResult, error)
	GetRefundFn           func(ctx context.Context, refundRef string) (*application.RefundResult, error)

	AuthorizeCalls []application.AuthorizeRequest
	CaptureCalls   []application.CaptureRequest
	ReleaseCalls   []application.CancelAuthorizationRequest
	RefundCalls    []application.RefundRequest
	ChargeCalls    []application.OffSessionChargeRequest
}

func (m *mockGateway) Authorize(ctx context.Context, req application.AuthorizeRequest) (*application.AuthorizationResult, error) {
	m.mu.Lock()
	m.AuthorizeCalls = append(m.AuthorizeCalls, req)
	m.mu.Unlock()
	if m.AuthorizeFn != nil {
		return m.AuthorizeFn(ctx, req)
	}
	return &application.AuthorizationResult{
		AuthorizationRef: "auth-1",
		CustomerRef:      req.CustomerRef,
		AmountMinor:      req.AmountMinor,
		Currency:         req.Currency,
	}, nil
}

func (m *mockGateway) Capture(ctx context.Context, req application.CaptureRequest) (*application.CaptureResult, error) {
	m.mu.Lock()
	m.CaptureCalls = append(m.CaptureCalls, req)
	m.mu.Unlock()
	if m.CaptureFn != nil {
		return m.CaptureFn(ctx, req)
	}
	return &application.CaptureResult{CaptureRef: "cap-1", AmountMinor: req.AmountMinor}, nil
}

func (m *mockGateway) CancelAuthorization(ctx context.Context, req application.CancelAuthorizationRequest) (*application.ReleaseResult, error) {
	m.mu.Lock()
	m.ReleaseCalls = append(m.ReleaseCalls, req)
	m.mu.Unlock()
	if m.CancelAuthorizationFn != nil {
		return m.CancelAuthorizationFn(ctx, req)
	}
	return &application.ReleaseResult{ReleaseRef: "void-1"}, nil
}

func (m *mockGateway) Refund(ctx context.Context, req application.RefundRequest) (*application.RefundResult, error) {
	m.mu.Lock()
	m.RefundCalls = append(m.RefundCalls, req)
	m.mu.Unlock()
	if m.RefundFn != nil {
		return m.RefundFn(ctx, req)
	}
	return &application.RefundResult{
		RefundRef:   "ref-1",
		Status:      application.RefundStateSucceeded,
		AmountMinor: req.AmountMinor,
	}, nil
}

func (m *mockGateway) ChargeOffSession(ctx context.Context, req application.OffSessionChargeRequest) (*application.ChargeResult, error) {
	m.mu.Lock()
	m.ChargeCalls = append(m.ChargeCalls, req)
	m.mu.Unlock()
	if m.ChargeOffSessionFn != nil {
		return m.ChargeOffSessionFn(ctx, req)
	}
	return &application.ChargeResult{ChargeRef: "chg-1", AmountMinor: req.AmountMinor}, nil
}

func (m *mockGateway) GetAuthorization(ctx context.Context, authorizationRef string) (*application.AuthorizationResult, error) {
	return &application.AuthorizationResult{AuthorizationRef: authorizationRef, CustomerRef: "cust-1"}, nil
}

func (m *mockGateway) GetRefund(ctx context.Context, refundRef string) (*application.RefundResult, error) {
	if m.GetRefundFn != nil {
		return m.GetRefundFn(ctx, refundRef)
	}
	return &application.RefundResult{RefundRef: refundRef, Status: application.RefundStateSucceeded}, nil
}

func (m *mockGateway) LookupOperation(ctx context.Context, idempotencyKey string) (*application.OperationResult, error) {
	return &application.OperationResult{Found: false}, nil
}

// recordingSink captures dispatched notifications.
type recordingSink struct {
	mu     sync.Mutex
	events []notify.Event
}

func (s *recordingSink) Publish(ctx context.Context, ev notify.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *recordingSink) types() []notify.Type {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notify.Type, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.Type)
	}
	return out
}

type fixture struct {
	repo         *mockBookingRepository
	gateway      *mockGateway
	sink         *recordingSink
	orchestrator *services.Orchestrator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newMockBookingRepository()
	gw := &mockGateway{}
	sink := &recordingSink{}
	logger := slog.New(slog.DiscardHandler)

	tiers, err := refund.ParseTiers("48h:100,24h:50,0h:0")
	require.NoError(t, err)
	policy, err := refund.NewTierPolicy(tiers, 100)
	require.NoError(t, err)

	orch := services.NewOrchestrator(
		repo,
		gw,
		policy,
		notify.NewDispatcher(logger, sink),
		services.Config{
			LateFeeHourlyRate:  250,
			PlatformFeePercent: 10,
			Currency:           "PHP",
		},
		logger,
	)

	return &fixture{repo: repo, gateway: gw, sink: sink, orchestrator: orch}
}

func seedConfirmedBooking(t *testing.T, f *fixture) *domain.Booking {
	t.Helper()
	pickup := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	b, err := domain.NewBooking(
		"bkg-1", "guest-1", "host-1", "car-1",
		pickup, pickup.Add(72*time.Hour), 3,
		3000, 300, 3300, "PHP",
		"auth-1",
	)
	require.NoError(t, err)
	require.NoError(t, b.Confirm("cap-1", time.Now()))
	f.repo.put(b)
	return b
}

func seedPendingBooking(t *testing.T, f *fixture) *domain.Booking {
	t.Helper()
	pickup := time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC)
	b, err := domain.NewBooking(
		"bkg-1", "guest-1", "host-1", "car-1",
		pickup, pickup.Add(72*time.Hour), 3,
		3000, 300, 3300, "PHP",
		"auth-1",
	)
	require.NoError(t, err)
	f.repo.put(b)
	return b
}
