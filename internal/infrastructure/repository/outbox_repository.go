package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rkstores/billing-api/internal/domain/entity"
	"github.com/rkstores/billing-api/internal/domain/enum"
	"github.com/rkstores/billing-api/internal/domain/repository"
	"gorm.io/gorm"
)

type outboxRepository struct {
	db *gorm.DB
}

// NewOutboxRepository creates a new notification outbox repository.
// The dispatcher runs across all tenants, so these queries are not
// tenant-scoped.
func NewOutboxRepository(db *gorm.DB) repository.OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) ClaimPending(ctx context.Context, limit int) ([]entity.NotificationOutbox, error) {
	var rows []entity.NotificationOutbox
	now := time.Now()
	err := r.db.WithContext(ctx).
		Where("status = ?", enum.OutboxStatusPending).
		Or("status = ? AND next_attempt_at IS NOT NULL AND next_attempt_at <= ?", enum.OutboxStatusFailed, now).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *outboxRepository) MarkSent(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entity.NotificationOutbox{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":          enum.OutboxStatusSent,
			"attempts":        gorm.Expr("attempts + 1"),
			"next_attempt_at": nil,
			"last_error":      "",
		}).Error
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, deliveryErr string, nextAttemptAt *time.Time) error {
	if len(deliveryErr) > 500 {
		deliveryErr = deliveryErr[:500]
	}
	return r.db.WithContext(ctx).
		Model(&entity.NotificationOutbox{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":          enum.OutboxStatusFailed,
			"attempts":        gorm.Expr("attempts + 1"),
			"next_attempt_at": nextAttemptAt,
			"last_error":      deliveryErr,
		}).Error
}
