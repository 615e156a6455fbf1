// Package worker runs the background reconciliation loops.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"drivehub-booking/internal/application"
	"drivehub-booking/internal/domain"
	"drivehub-booking/internal/notify"
)

// RefundReconciler resolves refunds that the processor reported as PENDING
// at cancellation time. Each cycle it polls the processor for a batch of
// unsettled refunds and promotes the ones that have since succeeded.
type RefundReconciler struct {
	repo      application.BookingRepository
	gateway   application.PaymentGateway
	notifier  *notify.Dispatcher
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
}

func NewRefundReconciler(
	repo application.BookingRepository,
	gateway application.PaymentGateway,
	notifier *notify.Dispatcher,
	interval time.Duration,
	batchSize int,
	logger *slog.Logger,
) *RefundReconciler {
	return &RefundReconciler{
		repo:      repo,
		gateway:   gateway,
		notifier:  notifier,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger,
	}
}

func (r *RefundReconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("starting refund reconciler", "interval", r.interval, "batch_size", r.batchSize)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("stopping refund reconciler")
			return
		case <-ticker.C:
			r.run(ctx)
		}
	}
}

// RunOnce executes a single reconciliation cycle.
func (r *RefundReconciler) RunOnce(ctx context.Context) {
	r.run(ctx)
}

func (r *RefundReconciler) run(ctx context.Context) {
	pending, err := r.repo.FindPendingRefunds(ctx, r.batchSize)
	if err != nil {
		r.logger.Error("failed to fetch pending refunds", "error", err)
		return
	}

	if len(pending) == 0 {
		return
	}

	r.logger.Info("reconciling pending refunds", "count", len(pending))

	for _, b := range pending {
		if err := r.reconcile(ctx, b); err != nil {
			category := application.CategorizeError(err)
			if application.IsRetryable(err) {
				// Transient processor failures resolve themselves; the item
				// stays pending and the next cycle polls it again.
				r.logger.Warn("refund reconciliation deferred",
					"booking_id", b.ID, "category", category, "error", err)
				continue
			}
			r.logger.Error("refund reconciliation failed",
				"booking_id", b.ID, "category", category, "error", err)
		}
	}
}

func (r *RefundReconciler) reconcile(ctx context.Context, b *domain.Booking) error {
	if b.RefundRef == nil {
		return nil
	}

	result, err := r.gateway.GetRefund(ctx, *b.RefundRef)
	if err != nil {
		return err
	}

	if result.Status != application.RefundStateSucceeded {
		return nil
	}

	if err := b.MarkRefundSettled(time.Now()); err != nil {
		return err
	}
	if err := r.repo.Update(ctx, b, b.Version); err != nil {
		// A concurrent writer moved the booking; the next cycle will pick
		// it up again if the refund is still pending.
		if errors.Is(err, application.ErrConcurrentModification) {
			r.logger.Warn("skipping refund settlement after version conflict", "booking_id", b.ID)
			return nil
		}
		return err
	}

	r.logger.Info("refund settled", "booking_id", b.ID, "refund_ref", *b.RefundRef)
	r.notifier.Dispatch(ctx, notify.RefundSettled(b))
	return nil
}
