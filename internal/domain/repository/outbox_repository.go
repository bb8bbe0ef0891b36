package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rkstores/billing-api/internal/domain/entity"
)

// OutboxRepository defines the interface for the notification outbox.
// Rows are inserted by TransactionRepository.Commit; the dispatcher drains
// them outside the posting path.
type OutboxRepository interface {
	// ClaimPending returns up to limit rows that are due for delivery
	// (pending, or failed and past their next attempt time).
	ClaimPending(ctx context.Context, limit int) ([]entity.NotificationOutbox, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
	// MarkFailed records a delivery failure. A nil nextAttemptAt marks the
	// row permanently failed.
	MarkFailed(ctx context.Context, id uuid.UUID, deliveryErr string, nextAttemptAt *time.Time) error
}
