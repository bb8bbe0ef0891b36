package repository

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rkstores/billing-api/internal/domain/repository"
)

func TestSeriesNextWithoutRow(t *testing.T) {
	db := newTestDB(t)
	repo := NewNumberSeriesRepository(db)

	_, err := repo.Next(tenantCtx(uuid.New()), "SB")
	if !errors.Is(err, repository.ErrSeriesNotFound) {
		t.Fatalf("err = %v, want ErrSeriesNotFound", err)
	}
}

func TestSeriesCreateAndNext(t *testing.T) {
	db := newTestDB(t)
	repo := NewNumberSeriesRepository(db)
	ctx := tenantCtx(uuid.New())

	if err := repo.Create(ctx, "SB", 42); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	for want := int64(42); want < 45; want++ {
		got, err := repo.Next(ctx, "SB")
		if err != nil {
			t.Fatalf("next failed: %v", err)
		}
		if got != want {
			t.Fatalf("allocated %d, want %d", got, want)
		}
	}
}

func TestSeriesPerTenantAndPrefix(t *testing.T) {
	db := newTestDB(t)
	repo := NewNumberSeriesRepository(db)
	ctxA := tenantCtx(uuid.New())
	ctxB := tenantCtx(uuid.New())

	if err := repo.Create(ctxA, "SB", 1); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create(ctxA, "SR", 10); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if got, err := repo.Next(ctxA, "SB"); err != nil || got != 1 {
		t.Fatalf("SB next = %d (%v), want 1", got, err)
	}
	if got, err := repo.Next(ctxA, "SR"); err != nil || got != 10 {
		t.Fatalf("SR next = %d (%v), want 10", got, err)
	}

	// another tenant's series is independent
	if _, err := repo.Next(ctxB, "SB"); !errors.Is(err, repository.ErrSeriesNotFound) {
		t.Fatalf("err = %v, want ErrSeriesNotFound for other tenant", err)
	}
}

func TestSeriesCreateIgnoresDuplicate(t *testing.T) {
	db := newTestDB(t)
	repo := NewNumberSeriesRepository(db)
	ctx := tenantCtx(uuid.New())

	if err := repo.Create(ctx, "SB", 5); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	// a lost seeding race must not clobber the winner's row
	if err := repo.Create(ctx, "SB", 999); err != nil {
		t.Fatalf("duplicate create failed: %v", err)
	}

	got, err := repo.Next(ctx, "SB")
	if err != nil {
		t.Fatalf("next failed: %v", err)
	}
	if got != 5 {
		t.Fatalf("allocated %d, want 5", got)
	}
}
