package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rkstores/billing-api/internal/domain/entity"
	"github.com/rkstores/billing-api/internal/domain/repository"
	"gorm.io/gorm"
)

type otpChallengeRepository struct {
	db *gorm.DB
}

// NewOtpChallengeRepository creates a new OTP challenge repository
func NewOtpChallengeRepository(db *gorm.DB) repository.OtpChallengeRepository {
	return &otpChallengeRepository{db: db}
}

// Upsert replaces any prior challenge for the attempt so a re-sent code
// invalidates the old one
func (r *otpChallengeRepository) Upsert(ctx context.Context, challenge *entity.DiscountOtpChallenge) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(TenantScope(ctx)).
			Where("attempt_id = ?", challenge.AttemptID).
			Delete(&entity.DiscountOtpChallenge{}).Error; err != nil {
			return err
		}
		return tx.Create(challenge).Error
	})
}

func (r *otpChallengeRepository) GetByAttemptID(ctx context.Context, attemptID string) (*entity.DiscountOtpChallenge, error) {
	var challenge entity.DiscountOtpChallenge
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Where("attempt_id = ?", attemptID).
		First(&challenge).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &challenge, nil
}

func (r *otpChallengeRepository) MarkVerified(ctx context.Context, attemptID string) error {
	return r.db.WithContext(ctx).
		Model(&entity.DiscountOtpChallenge{}).
		Scopes(TenantScope(ctx)).
		Where("attempt_id = ?", attemptID).
		Update("verified_at", time.Now()).Error
}

func (r *otpChallengeRepository) DeleteExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("expires_at < ? AND consumed_at IS NULL", time.Now()).
		Delete(&entity.DiscountOtpChallenge{}).Error
}
