package service

import (
	"context"
	"time"

	"github.com/rkstores/billing-api/internal/domain/entity"
	"github.com/rkstores/billing-api/internal/domain/repository"
	"github.com/rkstores/billing-api/pkg/apperror"
	"github.com/rkstores/billing-api/pkg/pagination"
)

// TransactionQueryService answers document lookups and listings
type TransactionQueryService struct {
	transactions repository.TransactionRepository
}

// NewTransactionQueryService creates a new query service
func NewTransactionQueryService(transactions repository.TransactionRepository) *TransactionQueryService {
	return &TransactionQueryService{transactions: transactions}
}

func (s *TransactionQueryService) GetByNumber(ctx context.Context, documentNumber string) (*entity.TransactionDocument, error) {
	doc, err := s.transactions.GetByNumber(ctx, documentNumber)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperror.NewNotFoundError("document not found")
	}
	return doc, nil
}

func (s *TransactionQueryService) List(ctx context.Context, params *repository.TransactionFilterParams) (*pagination.PaginatedResult[entity.TransactionDocument], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	items, total, err := s.transactions.List(ctx, params)
	if err != nil {
		return nil, err
	}
	meta := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(items, meta), nil
}

func (s *TransactionQueryService) ListWithCursor(ctx context.Context, params *repository.TransactionCursorFilterParams) (*pagination.CursorPaginatedResult[entity.TransactionDocument], error) {
	if params.Cursor == nil {
		params.Cursor = &pagination.CursorParams{}
	}
	params.Cursor.Validate()

	items, err := s.transactions.ListWithCursor(ctx, params)
	if err != nil {
		return nil, err
	}
	meta, trimmed := pagination.NewCursorPagination(items, params.Cursor.Limit,
		func(d entity.TransactionDocument) string { return d.ID.String() },
		func(d entity.TransactionDocument) time.Time { return d.CreatedAt },
	)
	meta.HasPrev = params.Cursor.Cursor != ""
	return pagination.NewCursorPaginatedResult(trimmed, meta), nil
}
