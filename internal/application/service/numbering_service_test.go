package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rkstores/billing-api/internal/domain/entity"
	"github.com/rkstores/billing-api/internal/domain/enum"
	"github.com/rkstores/billing-api/internal/domain/repository"
	"github.com/rkstores/billing-api/pkg/logger"
)

// fakeSeriesRepo is an in-memory NumberSeriesRepository
type fakeSeriesRepo struct {
	next    map[string]int64
	nextErr error
}

func newFakeSeriesRepo() *fakeSeriesRepo {
	return &fakeSeriesRepo{next: make(map[string]int64)}
}

func (f *fakeSeriesRepo) Next(ctx context.Context, prefix string) (int64, error) {
	if f.nextErr != nil {
		return 0, f.nextErr
	}
	n, ok := f.next[prefix]
	if !ok {
		return 0, repository.ErrSeriesNotFound
	}
	f.next[prefix] = n + 1
	return n, nil
}

func (f *fakeSeriesRepo) Create(ctx context.Context, prefix string, next int64) error {
	if _, ok := f.next[prefix]; !ok {
		f.next[prefix] = next
	}
	return nil
}

// fakeNumberSource implements the TransactionRepository lookups numbering
// relies on; the posting methods are never reached from these tests.
type fakeNumberSource struct {
	numbers []string
	listErr error
}

func (f *fakeNumberSource) Commit(ctx context.Context, commit *repository.TransactionCommit) error {
	return errors.New("not implemented")
}

func (f *fakeNumberSource) GetByNumber(ctx context.Context, documentNumber string) (*entity.TransactionDocument, error) {
	return nil, nil
}

func (f *fakeNumberSource) List(ctx context.Context, params *repository.TransactionFilterParams) ([]entity.TransactionDocument, int64, error) {
	return nil, 0, nil
}

func (f *fakeNumberSource) ListWithCursor(ctx context.Context, params *repository.TransactionCursorFilterParams) ([]entity.TransactionDocument, error) {
	return nil, nil
}

func (f *fakeNumberSource) ListNumbersByPrefix(ctx context.Context, prefix string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []string
	for _, n := range f.numbers {
		if strings.HasPrefix(n, prefix) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNumberSource) NumberExists(ctx context.Context, documentNumber string) (bool, error) {
	for _, n := range f.numbers {
		if n == documentNumber {
			return true, nil
		}
	}
	return false, nil
}

// saturatedNumberSource reports every candidate number as already issued
type saturatedNumberSource struct {
	fakeNumberSource
}

func (f *saturatedNumberSource) NumberExists(ctx context.Context, documentNumber string) (bool, error) {
	return true, nil
}

func newNumbering(series *fakeSeriesRepo, source *fakeNumberSource) *NumberingService {
	return NewNumberingService(series, source, logger.New("error"))
}

func TestGenerateSequential(t *testing.T) {
	series := newFakeSeriesRepo()
	series.next["SB"] = 1
	svc := newNumbering(series, &fakeNumberSource{})
	ctx := context.Background()

	want := []string{"SB00001", "SB00002", "SB00003"}
	for _, w := range want {
		got, err := svc.Generate(ctx, enum.DocumentTypeSaleBill)
		if err != nil {
			t.Fatalf("generate failed: %v", err)
		}
		if got.Value != w || got.Degraded {
			t.Fatalf("got %+v, want %s", got, w)
		}
	}
}

func TestGenerateSeedsFromExistingNumbers(t *testing.T) {
	series := newFakeSeriesRepo()
	source := &fakeNumberSource{numbers: []string{
		"SB00041",
		"SB00007",
		"SBLEGACY1", // non-numeric tail, ignored
		"PB00099",   // different prefix, ignored
	}}
	svc := newNumbering(series, source)

	got, err := svc.Generate(context.Background(), enum.DocumentTypeSaleBill)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if got.Value != "SB00042" {
		t.Fatalf("got %s, want SB00042", got.Value)
	}
	if got.Degraded {
		t.Fatal("seeded allocation marked degraded")
	}
}

func TestGenerateEmptyTenantStartsAtOne(t *testing.T) {
	svc := newNumbering(newFakeSeriesRepo(), &fakeNumberSource{})

	got, err := svc.Generate(context.Background(), enum.DocumentTypeSaleBill)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if got.Value != "SB00001" {
		t.Fatalf("got %s, want SB00001", got.Value)
	}
}

func TestGenerateDegradedFallback(t *testing.T) {
	series := newFakeSeriesRepo()
	series.nextErr = errors.New("store offline")
	svc := newNumbering(series, &fakeNumberSource{})

	got, err := svc.Generate(context.Background(), enum.DocumentTypeSaleBill)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !got.Degraded {
		t.Fatal("fallback number not marked degraded")
	}
	if !strings.HasPrefix(got.Value, "SB") {
		t.Fatalf("fallback number %s missing prefix", got.Value)
	}
}

func TestGenerateDegradedWhenScanFails(t *testing.T) {
	source := &fakeNumberSource{listErr: errors.New("scan failed")}
	svc := newNumbering(newFakeSeriesRepo(), source)

	got, err := svc.Generate(context.Background(), enum.DocumentTypeSaleBill)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !got.Degraded {
		t.Fatal("expected degraded number when seeding scan fails")
	}
}

func TestParseNumericSuffix(t *testing.T) {
	tests := []struct {
		prefix string
		number string
		want   int64
		ok     bool
	}{
		{"SB", "SB00042", 42, true},
		{"SB", "SB1", 1, true},
		{"SB", "SB", 0, false},
		{"SB", "PB00042", 0, false},
		{"SB", "SB00X42", 0, false},
		{"SR", "SR00007", 7, true},
	}

	for _, tt := range tests {
		got, ok := ParseNumericSuffix(tt.prefix, tt.number)
		if got != tt.want || ok != tt.ok {
			t.Fatalf("ParseNumericSuffix(%q, %q) = (%d, %v), want (%d, %v)",
				tt.prefix, tt.number, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMaxNumericSuffix(t *testing.T) {
	numbers := []string{"SB00003", "SB00100", "SBXX", "SB00099"}
	if got := MaxNumericSuffix("SB", numbers); got != 100 {
		t.Fatalf("got %d, want 100", got)
	}
	if got := MaxNumericSuffix("SB", nil); got != 0 {
		t.Fatalf("got %d, want 0 for empty input", got)
	}
}

func TestGenerateRandomCode(t *testing.T) {
	source := &fakeNumberSource{numbers: []string{"SB0001"}}
	svc := newNumbering(newFakeSeriesRepo(), source)

	got, err := svc.GenerateRandomCode(context.Background(), enum.DocumentTypeSaleBill)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !strings.HasPrefix(got.Value, "SB") || len(got.Value) != 6 {
		t.Fatalf("unexpected random code %q", got.Value)
	}
	if got.Value == "SB0001" {
		t.Fatal("random code collided with an existing number")
	}
}

func TestGenerateRandomCodeExhaustsRetries(t *testing.T) {
	svc := NewNumberingService(newFakeSeriesRepo(), &saturatedNumberSource{}, logger.New("error"))

	_, err := svc.GenerateRandomCode(context.Background(), enum.DocumentTypeSaleBill)
	if !errors.Is(err, ErrExhaustedRetries) {
		t.Fatalf("err = %v, want ErrExhaustedRetries", err)
	}
}
