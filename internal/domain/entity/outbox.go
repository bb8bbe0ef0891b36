package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/rkstores/billing-api/internal/domain/enum"
	"gorm.io/gorm"
)

// NotificationOutbox is a post-commit customer notification queued inside
// the posting transaction and delivered asynchronously. Delivery failures
// never affect the committed transaction.
type NotificationOutbox struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	TenantID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"tenant_id"`
	DocumentNumber string            `gorm:"size:100;not null;index" json:"document_number"`
	Phone          string            `gorm:"size:30;not null" json:"phone"`
	Message        string            `gorm:"type:text;not null" json:"message"`
	Status         enum.OutboxStatus `gorm:"default:0;index" json:"status"`
	Attempts       int               `gorm:"default:0" json:"attempts"`
	NextAttemptAt  *time.Time        `gorm:"index" json:"next_attempt_at,omitempty"`
	LastError      string            `gorm:"size:500" json:"last_error,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new outbox row
func (n *NotificationOutbox) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the NotificationOutbox model
func (NotificationOutbox) TableName() string {
	return "notification_outbox"
}
