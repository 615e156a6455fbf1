package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"drivehub-booking/internal/infrastructure/persistence"
	"drivehub-booking/internal/notify"

	"github.com/google/uuid"
)

// NotificationStore persists notifications as rows for in-app delivery.
type NotificationStore struct {
	db persistence.Executor
}

func NewNotificationStore(db persistence.Executor) *NotificationStore {
	return &NotificationStore{db: db}
}

var _ notify.Sink = (*NotificationStore)(nil)

func (s *NotificationStore) Publish(ctx context.Context, ev notify.Event) error {
	query := `
		INSERT INTO notifications (
			id, recipient_id, role, type, title, message, booking_id, data, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	data, err := json.Marshal(ev.Data)
	if err != nil {
		return fmt.Errorf("marshal notification data: %w", err)
	}

	_, err = s.db.Exec(ctx, query,
		uuid.New().String(),
		ev.Recipient,
		string(ev.Role),
		string(ev.Type),
		ev.Title,
		ev.Message,
		ev.BookingID,
		data,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	return nil
}
