package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rkstores/billing-api/internal/domain/entity"
	"github.com/rkstores/billing-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type numberSeriesRepository struct {
	db *gorm.DB
}

// NewNumberSeriesRepository creates a new number series repository
func NewNumberSeriesRepository(db *gorm.DB) repository.NumberSeriesRepository {
	return &numberSeriesRepository{db: db}
}

// Next advances the series with a single UPDATE so concurrent callers
// serialize on the row and never observe the same value
func (r *numberSeriesRepository) Next(ctx context.Context, prefix string) (int64, error) {
	var allocated int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entity.NumberSeries{}).
			Scopes(TenantScope(ctx)).
			Where("prefix = ?", prefix).
			Update("next_number", gorm.Expr("next_number + 1"))
		if result.Error != nil {
			return fmt.Errorf("failed to advance number series: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return repository.ErrSeriesNotFound
		}

		var series entity.NumberSeries
		if err := tx.Scopes(TenantScope(ctx)).Where("prefix = ?", prefix).First(&series).Error; err != nil {
			return err
		}
		allocated = series.NextNumber - 1
		return nil
	})
	if err != nil {
		return 0, err
	}
	return allocated, nil
}

func (r *numberSeriesRepository) Create(ctx context.Context, prefix string, next int64) error {
	tenantID, ok := GetTenantID(ctx)
	if !ok {
		return fmt.Errorf("no tenant in context")
	}
	series := &entity.NumberSeries{
		ID:         uuid.New(),
		TenantID:   tenantID,
		Prefix:     prefix,
		NextNumber: next,
	}
	// A concurrent seeder may have won the unique-index race; that is fine,
	// the caller retries Next against the winner's row.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(series).Error
}
