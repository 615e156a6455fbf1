package notify

import (
	"context"
	"log/slog"
)

// Sink receives notification events. Publish is fire-and-forget from the
// orchestrator's point of view.
type Sink interface {
	Publish(ctx context.Context, ev Event) error
}

// Dispatcher fans events out to the configured sinks. It runs after the
// booking write commits; a sink failure is logged and swallowed so it can
// never fail or roll back the lifecycle transaction.
type Dispatcher struct {
	sinks  []Sink
	logger *slog.Logger
}

func NewDispatcher(logger *slog.Logger, sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks, logger: logger}
}

func (d *Dispatcher) Dispatch(ctx context.Context, events ...Event) {
	for _, ev := range events {
		for _, sink := range d.sinks {
			if err := sink.Publish(ctx, ev); err != nil {
				d.logger.Error("notification dispatch failed",
					"type", ev.Type,
					"recipient", ev.Recipient,
					"booking_id", ev.BookingID,
					"error", err,
				)
			}
		}
	}
}
