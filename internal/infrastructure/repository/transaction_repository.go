package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rkstores/billing-api/internal/domain/entity"
	"github.com/rkstores/billing-api/internal/domain/repository"
	"github.com/rkstores/billing-api/pkg/apperror"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

// Commit applies the full posting write set in one database transaction.
// Any failure rolls everything back; partial documents never persist.
func (r *transactionRepository) Commit(ctx context.Context, commit *repository.TransactionCommit) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, update := range commit.PriorReturns {
			if err := applyReturnedQty(ctx, tx, update); err != nil {
				return err
			}
		}

		if err := tx.Create(commit.Header).Error; err != nil {
			return fmt.Errorf("failed to create document header: %w", err)
		}

		for i := range commit.Lines {
			commit.Lines[i].DocumentID = commit.Header.ID
		}
		if len(commit.Lines) > 0 {
			if err := tx.Create(&commit.Lines).Error; err != nil {
				return fmt.Errorf("failed to create document lines: %w", err)
			}
		}

		if commit.Outbox != nil {
			if err := tx.Create(commit.Outbox).Error; err != nil {
				return fmt.Errorf("failed to queue notification: %w", err)
			}
		}

		now := time.Now()
		for _, attemptID := range commit.ConsumeAttempts {
			result := tx.Model(&entity.DiscountOtpChallenge{}).
				Scopes(TenantScope(ctx)).
				Where("attempt_id = ? AND verified_at IS NOT NULL AND consumed_at IS NULL", attemptID).
				Update("consumed_at", now)
			if result.Error != nil {
				return fmt.Errorf("failed to consume discount authorization: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				return apperror.NewAuthorizationError("discount authorization already used or not verified")
			}
		}

		return nil
	})
}

// applyReturnedQty increments the returned quantity on the prior document's
// line, rejecting over-returns and returns against unknown lines
func applyReturnedQty(ctx context.Context, tx *gorm.DB, update repository.ReturnedQtyUpdate) error {
	result := tx.Model(&entity.TransactionLine{}).
		Scopes(TenantScope(ctx)).
		Where("document_number = ? AND product_code = ?", update.DocumentNumber, update.ProductCode).
		Where("quantity - returned_qty >= ?", update.Quantity).
		Update("returned_qty", gorm.Expr("returned_qty + ?", update.Quantity))
	if result.Error != nil {
		return fmt.Errorf("failed to update returned quantity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NewConflictError(
			fmt.Sprintf("cannot return %s of %s against %s", update.Quantity.String(), update.ProductCode, update.DocumentNumber))
	}
	return nil
}

func (r *transactionRepository) GetByNumber(ctx context.Context, documentNumber string) (*entity.TransactionDocument, error) {
	var doc entity.TransactionDocument
	err := r.db.WithContext(ctx).
		Scopes(TenantScope(ctx)).
		Preload("Lines").
		Where("document_number = ?", documentNumber).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

// sortableColumns limits sort_by to known columns; anything else falls
// back to created_at so raw input never reaches the ORDER BY clause.
var sortableColumns = map[string]bool{
	"created_at":      true,
	"document_date":   true,
	"document_number": true,
	"net_amount":      true,
	"party_name":      true,
}

func (r *transactionRepository) List(ctx context.Context, params *repository.TransactionFilterParams) ([]entity.TransactionDocument, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&entity.TransactionDocument{}).
		Scopes(TenantScope(ctx))

	query = applyFilters(query, params)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := params.SortBy
	if !sortableColumns[sortBy] {
		sortBy = "created_at"
	}
	sortOrder := params.SortOrder
	if sortOrder != "asc" {
		sortOrder = "desc"
	}

	var docs []entity.TransactionDocument
	err := query.
		Order(fmt.Sprintf("%s %s", sortBy, sortOrder)).
		Offset(params.Pagination.Offset()).
		Limit(params.Pagination.PerPage).
		Find(&docs).Error
	if err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

func (r *transactionRepository) ListWithCursor(ctx context.Context, params *repository.TransactionCursorFilterParams) ([]entity.TransactionDocument, error) {
	query := r.db.WithContext(ctx).
		Model(&entity.TransactionDocument{}).
		Scopes(TenantScope(ctx))

	if params.Type != nil {
		query = query.Where("document_type = ?", *params.Type)
	}
	if params.PartyCode != "" {
		query = query.Where("party_code = ?", params.PartyCode)
	}
	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("document_number ILIKE ? OR party_name ILIKE ?", search, search)
	}

	cursor, err := params.Cursor.DecodeCursor()
	if err != nil {
		return nil, apperror.NewBadRequestError("invalid cursor")
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	// Fetch one extra row to detect whether another page exists
	var docs []entity.TransactionDocument
	err = query.
		Order("created_at DESC, id DESC").
		Limit(params.Cursor.Limit + 1).
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *transactionRepository) ListNumbersByPrefix(ctx context.Context, prefix string) ([]string, error) {
	var numbers []string
	err := r.db.WithContext(ctx).
		Model(&entity.TransactionDocument{}).
		Scopes(TenantScope(ctx)).
		Where("document_number LIKE ?", prefix+"%").
		// degraded timestamp numbers would poison a series seeded from
		// the highest existing suffix
		Where("non_sequential_number = ?", false).
		Pluck("document_number", &numbers).Error
	if err != nil {
		return nil, err
	}
	return numbers, nil
}

func (r *transactionRepository) NumberExists(ctx context.Context, documentNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.TransactionDocument{}).
		Scopes(TenantScope(ctx)).
		Where("document_number = ?", documentNumber).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func applyFilters(query *gorm.DB, params *repository.TransactionFilterParams) *gorm.DB {
	if params.Type != nil {
		query = query.Where("document_type = ?", *params.Type)
	}
	if params.PartyCode != "" {
		query = query.Where("party_code = ?", params.PartyCode)
	}
	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("document_number ILIKE ? OR party_name ILIKE ?", search, search)
	}
	if params.StartDate != nil {
		query = query.Where("document_date >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("document_date <= ?", *params.EndDate)
	}
	return query
}
