package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/rkstores/billing-api/internal/domain/enum"
	"github.com/rkstores/billing-api/internal/domain/repository"
	"github.com/sirupsen/logrus"
)

const (
	numberPadWidth     = 5
	randomCodeAttempts = 100
)

// DocumentNumber is an allocated document identifier. Degraded is set when
// the allocator had to fall back to a timestamp-derived number and the
// document should be flagged as non-sequential.
type DocumentNumber struct {
	Value    string
	Degraded bool
}

// NumberingService allocates gapless per-tenant document numbers backed by
// an atomically incremented series row. Legacy tenants without a series row
// get one seeded from the highest number already on record.
type NumberingService struct {
	series       repository.NumberSeriesRepository
	transactions repository.TransactionRepository
	log          *logrus.Logger
}

// NewNumberingService creates a new document number allocator
func NewNumberingService(series repository.NumberSeriesRepository, transactions repository.TransactionRepository, log *logrus.Logger) *NumberingService {
	return &NumberingService{
		series:       series,
		transactions: transactions,
		log:          log,
	}
}

// Generate allocates the next number for a document type. The series
// increment is atomic, so two concurrent callers never receive the same
// value. If both the series and the seeding scan fail, a timestamp-derived
// number is returned and marked degraded rather than blocking the sale.
func (s *NumberingService) Generate(ctx context.Context, docType enum.DocumentType) (DocumentNumber, error) {
	prefix := docType.Prefix()

	next, err := s.series.Next(ctx, prefix)
	if err == nil {
		return DocumentNumber{Value: formatDocumentNumber(prefix, next)}, nil
	}
	if !errors.Is(err, repository.ErrSeriesNotFound) {
		s.log.WithFields(logrus.Fields{
			"module": "numbering",
			"prefix": prefix,
		}).WithError(err).Error("series allocation failed")
		return s.degraded(prefix), nil
	}

	// First allocation for this tenant and prefix: seed from whatever
	// numbers already exist, then retry once. A concurrent seeder losing
	// the unique-index race is fine, the retry picks up the winner's row.
	seed, err := s.seedFromExisting(ctx, prefix)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"module": "numbering",
			"prefix": prefix,
		}).WithError(err).Error("series seeding failed")
		return s.degraded(prefix), nil
	}

	next, err = s.series.Next(ctx, prefix)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"module": "numbering",
			"prefix": prefix,
			"seed":   seed,
		}).WithError(err).Error("series allocation failed after seeding")
		return s.degraded(prefix), nil
	}
	return DocumentNumber{Value: formatDocumentNumber(prefix, next)}, nil
}

func (s *NumberingService) seedFromExisting(ctx context.Context, prefix string) (int64, error) {
	numbers, err := s.transactions.ListNumbersByPrefix(ctx, prefix)
	if err != nil {
		return 0, err
	}
	max := MaxNumericSuffix(prefix, numbers)
	if err := s.series.Create(ctx, prefix, max+1); err != nil {
		return 0, err
	}
	return max + 1, nil
}

func (s *NumberingService) degraded(prefix string) DocumentNumber {
	return DocumentNumber{
		Value:    fmt.Sprintf("%s%d", prefix, time.Now().UnixNano()),
		Degraded: true,
	}
}

func formatDocumentNumber(prefix string, n int64) string {
	return fmt.Sprintf("%s%0*d", prefix, numberPadWidth, n)
}

// ParseNumericSuffix extracts the numeric part of a document number. It
// returns false for numbers with a different prefix or a non-numeric tail,
// such as migrated legacy identifiers.
func ParseNumericSuffix(prefix, number string) (int64, bool) {
	if !strings.HasPrefix(number, prefix) {
		return 0, false
	}
	tail := number[len(prefix):]
	if tail == "" {
		return 0, false
	}
	var n int64
	for _, r := range tail {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int64(r-'0')
	}
	return n, true
}

// MaxNumericSuffix returns the highest numeric suffix among the given
// document numbers, ignoring any that do not parse
func MaxNumericSuffix(prefix string, numbers []string) int64 {
	var max int64
	for _, number := range numbers {
		if n, ok := ParseNumericSuffix(prefix, number); ok && n > max {
			max = n
		}
	}
	return max
}

// GenerateRandomCode allocates a short random document number, retrying on
// collision against already-issued numbers
func (s *NumberingService) GenerateRandomCode(ctx context.Context, docType enum.DocumentType) (DocumentNumber, error) {
	prefix := docType.Prefix()
	for i := 0; i < randomCodeAttempts; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10000))
		if err != nil {
			return DocumentNumber{}, err
		}
		candidate := fmt.Sprintf("%s%04d", prefix, n.Int64())
		exists, err := s.transactions.NumberExists(ctx, candidate)
		if err != nil {
			return DocumentNumber{}, err
		}
		if !exists {
			return DocumentNumber{Value: candidate}, nil
		}
	}
	return DocumentNumber{}, ErrExhaustedRetries
}
