package repository

import (
	"context"
	"errors"
)

// ErrSeriesNotFound is returned by Next when no series row exists yet for
// the tenant/prefix pair. The caller seeds one and retries.
var ErrSeriesNotFound = errors.New("number series not found")

// NumberSeriesRepository defines the interface for sequence allocation.
// Next must advance the sequence atomically with respect to concurrent
// callers; two postings can never observe the same value.
type NumberSeriesRepository interface {
	Next(ctx context.Context, prefix string) (int64, error)
	Create(ctx context.Context, prefix string, next int64) error
}
