package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/secureai/gateway/internal/database"
	apperrors "github.com/secureai/gateway/internal/errors"
	quotaDomain "github.com/secureai/gateway/internal/quota/domain"
)

// MySQLQuotaRepository implements quota counters for MySQL.
// Uses the same row-lock strategy as the PostgreSQL implementation with
// MySQL placeholder syntax.
type MySQLQuotaRepository struct {
	db        *sql.DB
	txManager database.TxManager
	now       func() time.Time
}

// CheckAndIncrement enforces the request rate limit for the subject.
func (m *MySQLQuotaRepository) CheckAndIncrement(ctx context.Context, subject string, limit int64, window time.Duration) error {
	return m.advance(ctx, subject, quotaDomain.DimensionRequests, 1, limit, window, quotaDomain.ErrRateLimitExceeded)
}

// Consume enforces the token budget for the subject.
func (m *MySQLQuotaRepository) Consume(ctx context.Context, subject string, tokens int64, capacity int64, window time.Duration) error {
	return m.advance(ctx, subject, quotaDomain.DimensionTokens, tokens, capacity, window, quotaDomain.ErrTokenBudgetExceeded)
}

func (m *MySQLQuotaRepository) advance(
	ctx context.Context,
	subject string,
	dimension string,
	amount int64,
	limit int64,
	window time.Duration,
	limitErr error,
) error {
	windowStart := quotaDomain.WindowStart(m.now(), window)

	return m.txManager.WithTx(ctx, func(txCtx context.Context) error {
		querier := database.GetTx(txCtx, m.db)

		var (
			used        int64
			storedStart time.Time
		)
		query := `SELECT used, window_start FROM quota_counters
				  WHERE subject = ? AND dimension = ?
				  FOR UPDATE`
		err := querier.QueryRowContext(txCtx, query, subject, dimension).Scan(&used, &storedStart)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if amount > limit {
				return limitErr
			}
			insert := `INSERT INTO quota_counters (subject, dimension, window_start, used)
					   VALUES (?, ?, ?, ?)`
			if _, err := querier.ExecContext(txCtx, insert, subject, dimension, windowStart, amount); err != nil {
				return apperrors.Wrap(err, "failed to insert quota counter")
			}
			return nil
		case err != nil:
			return apperrors.Wrap(err, "failed to read quota counter")
		}

		if storedStart.Before(windowStart) {
			used = 0
		}

		if used+amount > limit {
			return limitErr
		}

		update := `UPDATE quota_counters SET used = ?, window_start = ?
				   WHERE subject = ? AND dimension = ?`
		if _, err := querier.ExecContext(txCtx, update, used+amount, windowStart, subject, dimension); err != nil {
			return apperrors.Wrap(err, "failed to update quota counter")
		}
		return nil
	})
}

// Reset clears all counters for the subject.
func (m *MySQLQuotaRepository) Reset(ctx context.Context, subject string) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM quota_counters WHERE subject = ?`
	if _, err := querier.ExecContext(ctx, query, subject); err != nil {
		return apperrors.Wrap(err, "failed to reset quota counters")
	}
	return nil
}

// NewMySQLQuotaRepository creates a new MySQL quota repository.
func NewMySQLQuotaRepository(db *sql.DB, txManager database.TxManager) *MySQLQuotaRepository {
	return &MySQLQuotaRepository{db: db, txManager: txManager, now: time.Now}
}
