package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rkstores/billing-api/internal/domain/entity"
	"github.com/rkstores/billing-api/internal/domain/enum"
	"github.com/rkstores/billing-api/internal/domain/repository"
	"github.com/rkstores/billing-api/pkg/apperror"
	"github.com/rkstores/billing-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func saleCommit(tenantID uuid.UUID, number string) *repository.TransactionCommit {
	return &repository.TransactionCommit{
		Header: &entity.TransactionDocument{
			TenantID:       tenantID,
			DocumentNumber: number,
			DocumentType:   enum.DocumentTypeSaleBill,
			DocumentDate:   time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
			PartyCode:      "C001",
			PartyName:      "Asha Traders",
			BaseAmount:     dec("200"),
			TaxAmount:      dec("36"),
			CgstAmount:     dec("18"),
			SgstAmount:     dec("18"),
			NetAmount:      dec("236"),
			PayMode:        "Cash",
			CashAmount:     dec("236"),
		},
		Lines: []entity.TransactionLine{
			{
				TenantID:       tenantID,
				DocumentNumber: number,
				ProductCode:    "P001",
				ProductName:    "Widget",
				Quantity:       dec("2"),
				Rate:           dec("118"),
				BaseAmount:     dec("200"),
				TaxRatePercent: dec("18"),
				CgstAmount:     dec("18"),
				SgstAmount:     dec("18"),
				TotalAmount:    dec("236"),
			},
		},
	}
}

func TestCommitPersistsHeaderLinesAndOutbox(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	tenantID := uuid.New()
	ctx := tenantCtx(tenantID)

	commit := saleCommit(tenantID, "SB00001")
	commit.Outbox = &entity.NotificationOutbox{
		TenantID:       tenantID,
		DocumentNumber: "SB00001",
		Phone:          "+919900000002",
		Message:        "receipt",
		Status:         enum.OutboxStatusPending,
	}

	if err := repo.Commit(ctx, commit); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	doc, err := repo.GetByNumber(ctx, "SB00001")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if doc == nil {
		t.Fatal("document not found after commit")
	}
	if len(doc.Lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(doc.Lines))
	}
	if doc.Lines[0].DocumentID != doc.ID {
		t.Fatal("line not attached to header")
	}

	var outboxCount int64
	if err := db.Model(&entity.NotificationOutbox{}).Count(&outboxCount).Error; err != nil {
		t.Fatalf("outbox count failed: %v", err)
	}
	if outboxCount != 1 {
		t.Fatalf("outbox rows = %d, want 1", outboxCount)
	}
}

func TestCommitRollsBackOnUnverifiedChallenge(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	tenantID := uuid.New()
	ctx := tenantCtx(tenantID)

	// challenge exists but was never verified
	challenge := &entity.DiscountOtpChallenge{
		TenantID:  tenantID,
		AttemptID: "att-1",
		Code:      "123456",
		ExpiresAt: time.Now().Add(time.Minute),
	}
	if err := db.Create(challenge).Error; err != nil {
		t.Fatalf("failed to seed challenge: %v", err)
	}

	commit := saleCommit(tenantID, "SB00001")
	commit.ConsumeAttempts = []string{"att-1"}

	err := repo.Commit(ctx, commit)
	if err == nil {
		t.Fatal("expected commit to fail on unverified challenge")
	}
	if !apperror.IsAppError(err) {
		t.Fatalf("err = %v, want conflict apperror", err)
	}

	// nothing from the failed commit may persist
	doc, err := repo.GetByNumber(ctx, "SB00001")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if doc != nil {
		t.Fatal("header persisted despite rollback")
	}
	var lineCount int64
	if err := db.Model(&entity.TransactionLine{}).Count(&lineCount).Error; err != nil {
		t.Fatalf("line count failed: %v", err)
	}
	if lineCount != 0 {
		t.Fatalf("lines persisted despite rollback: %d", lineCount)
	}
}

func TestCommitConsumesVerifiedChallengeOnce(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	tenantID := uuid.New()
	ctx := tenantCtx(tenantID)

	now := time.Now()
	challenge := &entity.DiscountOtpChallenge{
		TenantID:   tenantID,
		AttemptID:  "att-1",
		Code:       "123456",
		ExpiresAt:  now.Add(time.Minute),
		VerifiedAt: &now,
	}
	if err := db.Create(challenge).Error; err != nil {
		t.Fatalf("failed to seed challenge: %v", err)
	}

	first := saleCommit(tenantID, "SB00001")
	first.ConsumeAttempts = []string{"att-1"}
	if err := repo.Commit(ctx, first); err != nil {
		t.Fatalf("first commit failed: %v", err)
	}

	// the same authorization cannot admit a second document
	second := saleCommit(tenantID, "SB00002")
	second.ConsumeAttempts = []string{"att-1"}
	if err := repo.Commit(ctx, second); err == nil {
		t.Fatal("expected second commit to fail on consumed challenge")
	}
	if doc, _ := repo.GetByNumber(ctx, "SB00002"); doc != nil {
		t.Fatal("second document persisted despite consumed challenge")
	}
}

func TestCommitAppliesReturnedQty(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	tenantID := uuid.New()
	ctx := tenantCtx(tenantID)

	if err := repo.Commit(ctx, saleCommit(tenantID, "SB00001")); err != nil {
		t.Fatalf("sale commit failed: %v", err)
	}

	ret := &repository.TransactionCommit{
		Header: &entity.TransactionDocument{
			TenantID:       tenantID,
			DocumentNumber: "SR00001",
			DocumentType:   enum.DocumentTypeSaleReturn,
			DocumentDate:   time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
			PartyCode:      "C001",
			PartyName:      "Asha Traders",
			NetAmount:      dec("-118"),
		},
		PriorReturns: []repository.ReturnedQtyUpdate{
			{DocumentNumber: "SB00001", ProductCode: "P001", Quantity: dec("1")},
		},
	}
	if err := repo.Commit(ctx, ret); err != nil {
		t.Fatalf("return commit failed: %v", err)
	}

	doc, err := repo.GetByNumber(ctx, "SB00001")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !doc.Lines[0].ReturnedQty.Equal(dec("1")) {
		t.Fatalf("returned qty = %s, want 1", doc.Lines[0].ReturnedQty)
	}

	// returning more than was sold must fail and roll back
	over := &repository.TransactionCommit{
		Header: &entity.TransactionDocument{
			TenantID:       tenantID,
			DocumentNumber: "SR00002",
			DocumentType:   enum.DocumentTypeSaleReturn,
			DocumentDate:   time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC),
			PartyCode:      "C001",
			PartyName:      "Asha Traders",
			NetAmount:      dec("-236"),
		},
		PriorReturns: []repository.ReturnedQtyUpdate{
			{DocumentNumber: "SB00001", ProductCode: "P001", Quantity: dec("2")},
		},
	}
	if err := repo.Commit(ctx, over); err == nil {
		t.Fatal("expected over-return to fail")
	}
	if doc, _ := repo.GetByNumber(ctx, "SR00002"); doc != nil {
		t.Fatal("over-return document persisted")
	}
}

func TestTenantIsolation(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	tenantA := uuid.New()
	tenantB := uuid.New()

	if err := repo.Commit(tenantCtx(tenantA), saleCommit(tenantA, "SB00001")); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	// another tenant cannot see the document
	doc, err := repo.GetByNumber(tenantCtx(tenantB), "SB00001")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if doc != nil {
		t.Fatal("document leaked across tenants")
	}

	// a context without a tenant matches nothing
	doc, err = repo.GetByNumber(context.Background(), "SB00001")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if doc != nil {
		t.Fatal("document visible without tenant context")
	}
}

func TestListNumbersByPrefixAndNumberExists(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	tenantID := uuid.New()
	ctx := tenantCtx(tenantID)

	for _, n := range []string{"SB00001", "SB00002"} {
		if err := repo.Commit(ctx, saleCommit(tenantID, n)); err != nil {
			t.Fatalf("commit %s failed: %v", n, err)
		}
	}

	numbers, err := repo.ListNumbersByPrefix(ctx, "SB")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(numbers) != 2 {
		t.Fatalf("numbers = %v, want 2 entries", numbers)
	}

	exists, err := repo.NumberExists(ctx, "SB00001")
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if !exists {
		t.Fatal("SB00001 should exist")
	}
	exists, err = repo.NumberExists(ctx, "SB09999")
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if exists {
		t.Fatal("SB09999 should not exist")
	}
}

func TestListNumbersByPrefixSkipsNonSequential(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	tenantID := uuid.New()
	ctx := tenantCtx(tenantID)

	if err := repo.Commit(ctx, saleCommit(tenantID, "SB00007")); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	degraded := saleCommit(tenantID, "SB1757590000000000000")
	degraded.Header.NonSequentialNumber = true
	if err := repo.Commit(ctx, degraded); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	numbers, err := repo.ListNumbersByPrefix(ctx, "SB")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(numbers) != 1 || numbers[0] != "SB00007" {
		t.Fatalf("numbers = %v, want [SB00007]", numbers)
	}
}

func TestListFiltersByType(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	tenantID := uuid.New()
	ctx := tenantCtx(tenantID)

	if err := repo.Commit(ctx, saleCommit(tenantID, "SB00001")); err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	purchase := saleCommit(tenantID, "PB00001")
	purchase.Header.DocumentType = enum.DocumentTypePurchaseBill
	purchase.Lines = nil
	if err := repo.Commit(ctx, purchase); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	docType := enum.DocumentTypeSaleBill
	docs, total, err := repo.List(ctx, &repository.TransactionFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 10},
		Type:       &docType,
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(docs) != 1 {
		t.Fatalf("total = %d, docs = %d, want 1/1", total, len(docs))
	}
	if docs[0].DocumentNumber != "SB00001" {
		t.Fatalf("got %s, want SB00001", docs[0].DocumentNumber)
	}
}

func TestListRejectsUnknownSortColumn(t *testing.T) {
	db := newTestDB(t)
	repo := NewTransactionRepository(db)
	tenantID := uuid.New()
	ctx := tenantCtx(tenantID)

	for _, n := range []string{"SB00001", "SB00002"} {
		if err := repo.Commit(ctx, saleCommit(tenantID, n)); err != nil {
			t.Fatalf("commit %s failed: %v", n, err)
		}
	}

	docs, total, err := repo.List(ctx, &repository.TransactionFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 10},
		SortBy:     "document_number; DROP TABLE transaction_documents",
		SortOrder:  "asc",
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(docs) != 2 {
		t.Fatalf("total = %d, docs = %d, want 2/2", total, len(docs))
	}

	// whitelisted column still sorts
	docs, _, err = repo.List(ctx, &repository.TransactionFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 10},
		SortBy:     "document_number",
		SortOrder:  "desc",
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if docs[0].DocumentNumber != "SB00002" {
		t.Fatalf("got %s, want SB00002 first", docs[0].DocumentNumber)
	}
}
