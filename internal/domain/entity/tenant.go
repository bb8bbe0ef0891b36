package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant represents a store/organization in the multitenant system
type Tenant struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	Settings  TenantConfig   `gorm:"type:jsonb;serializer:json" json:"settings"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new tenant
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Tenant model
func (Tenant) TableName() string {
	return "tenants"
}

// TenantConfig is the per-tenant configuration the engine needs. It is read
// once per request when the tenant is resolved and passed down explicitly,
// never fetched from ambient state mid-transaction.
type TenantConfig struct {
	StoreName      string `json:"store_name"`
	Currency       string `json:"currency"`
	Gstin          string `json:"gstin,omitempty"`
	ApproverPhone  string `json:"approver_phone,omitempty"`
	NotifyCustomer bool   `json:"notify_customer"`
}
