package usecase

import (
	"context"
	"time"
)

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultPageSize and MaxPageSize bound list pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
)

func clampPagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

// retryTx runs op through the retrier when one is configured.
func retryTx(ctx context.Context, r Retrier, op func() error) error {
	if r == nil {
		return op()
	}

	return r.Retry(ctx, op)
}
