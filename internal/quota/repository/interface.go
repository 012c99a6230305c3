// Package repository implements fixed-window quota counters.
//
// Provides PostgreSQL and MySQL implementations that serialize concurrent
// increments with row locks inside a transaction, plus an in-memory
// implementation for tests and single-node deployments. All implementations
// are check-and-increment: the counter only advances when the check passes,
// so a denied request consumes nothing.
package repository

import (
	"context"
	"time"
)

// QuotaRepository defines atomic check-and-increment operations over
// per-subject fixed-window counters.
type QuotaRepository interface {
	// CheckAndIncrement atomically checks whether the subject has made fewer
	// than limit requests in the current window and increments the counter.
	// Returns ErrRateLimitExceeded without incrementing when the limit is hit.
	CheckAndIncrement(ctx context.Context, subject string, limit int64, window time.Duration) error

	// Consume atomically checks whether the subject has at least tokens of
	// budget left out of capacity in the current window and adds tokens to
	// the counter. Returns ErrTokenBudgetExceeded without consuming when the
	// budget would be exceeded.
	Consume(ctx context.Context, subject string, tokens int64, capacity int64, window time.Duration) error

	// Reset clears all counters for the subject.
	Reset(ctx context.Context, subject string) error
}
