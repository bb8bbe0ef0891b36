package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DiscountOtpChallenge is a persisted, single-use, time-bounded approval
// challenge for a discretionary discount. One challenge per attempt id; a
// re-send replaces the previous code for the same attempt.
type DiscountOtpChallenge struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index" json:"tenant_id"`
	AttemptID string    `gorm:"size:100;not null;uniqueIndex" json:"attempt_id"`
	Code      string    `gorm:"size:10;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`

	// VerifiedAt is set when the approver code was matched; ConsumedAt when
	// the discount entry it authorizes entered a committed ledger.
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new challenge
func (c *DiscountOtpChallenge) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the DiscountOtpChallenge model
func (DiscountOtpChallenge) TableName() string {
	return "discount_otp_challenges"
}

// IsExpired checks if the challenge has expired
func (c *DiscountOtpChallenge) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// IsVerified checks if the approver code was matched and is still unconsumed
func (c *DiscountOtpChallenge) IsVerified() bool {
	return c.VerifiedAt != nil && c.ConsumedAt == nil
}
