package repository

import (
	"context"
	"time"

	"github.com/rkstores/billing-api/internal/domain/entity"
	"github.com/rkstores/billing-api/internal/domain/enum"
	"github.com/rkstores/billing-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ReturnedQtyUpdate increments the returned quantity on a previously posted
// document's line. It is applied inside the same atomic commit as the return
// document that causes it.
type ReturnedQtyUpdate struct {
	DocumentNumber string
	ProductCode    string
	Quantity       decimal.Decimal
}

// TransactionCommit is the full write set of one posting. Commit applies it
// all-or-nothing: prior-document updates, header, lines, the queued
// notification, and consumption of any discount OTP challenges.
type TransactionCommit struct {
	Header          *entity.TransactionDocument
	Lines           []entity.TransactionLine
	PriorReturns    []ReturnedQtyUpdate
	Outbox          *entity.NotificationOutbox
	ConsumeAttempts []string
}

// TransactionFilterParams represents filtering options for listing documents
type TransactionFilterParams struct {
	Pagination *pagination.PaginationParams
	Type       *enum.DocumentType
	PartyCode  string
	Search     string
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}

// TransactionCursorFilterParams represents cursor-based filtering options
type TransactionCursorFilterParams struct {
	Cursor    *pagination.CursorParams
	Type      *enum.DocumentType
	PartyCode string
	Search    string
}

// TransactionRepository defines the interface for posted transaction data access
type TransactionRepository interface {
	Commit(ctx context.Context, commit *TransactionCommit) error
	GetByNumber(ctx context.Context, documentNumber string) (*entity.TransactionDocument, error)
	List(ctx context.Context, params *TransactionFilterParams) ([]entity.TransactionDocument, int64, error)
	ListWithCursor(ctx context.Context, params *TransactionCursorFilterParams) ([]entity.TransactionDocument, error)

	// ListNumbersByPrefix returns all document numbers for the tenant that
	// start with the given prefix. Used by legacy scan numbering.
	ListNumbersByPrefix(ctx context.Context, prefix string) ([]string, error)
	NumberExists(ctx context.Context, documentNumber string) (bool, error)
}
