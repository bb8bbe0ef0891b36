package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NumberSeries is the per-tenant, per-prefix sequence allocator backing
// document numbering. NextNumber is advanced with an atomic in-store
// increment so two concurrent postings can never mint the same number.
type NumberSeries struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tenant_prefix" json:"tenant_id"`
	Prefix     string    `gorm:"size:10;not null;uniqueIndex:idx_tenant_prefix" json:"prefix"`
	NextNumber int64     `gorm:"not null;default:1" json:"next_number"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new series
func (s *NumberSeries) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the NumberSeries model
func (NumberSeries) TableName() string {
	return "number_series"
}
