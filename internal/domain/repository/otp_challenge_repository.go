package repository

import (
	"context"

	"github.com/rkstores/billing-api/internal/domain/entity"
)

// OtpChallengeRepository defines the interface for discount OTP challenges
type OtpChallengeRepository interface {
	// Upsert stores a challenge, replacing any prior one for the same
	// attempt id (a re-send invalidates the previous code).
	Upsert(ctx context.Context, challenge *entity.DiscountOtpChallenge) error
	GetByAttemptID(ctx context.Context, attemptID string) (*entity.DiscountOtpChallenge, error)
	MarkVerified(ctx context.Context, attemptID string) error
	DeleteExpired(ctx context.Context) error
}
