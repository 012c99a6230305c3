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

// PostgreSQLQuotaRepository implements quota counters for PostgreSQL.
// Concurrent increments for the same subject are serialized with
// SELECT ... FOR UPDATE inside a transaction.
type PostgreSQLQuotaRepository struct {
	db        *sql.DB
	txManager database.TxManager
	now       func() time.Time
}

// CheckAndIncrement enforces the request rate limit for the subject.
func (p *PostgreSQLQuotaRepository) CheckAndIncrement(ctx context.Context, subject string, limit int64, window time.Duration) error {
	return p.advance(ctx, subject, quotaDomain.DimensionRequests, 1, limit, window, quotaDomain.ErrRateLimitExceeded)
}

// Consume enforces the token budget for the subject.
func (p *PostgreSQLQuotaRepository) Consume(ctx context.Context, subject string, tokens int64, capacity int64, window time.Duration) error {
	return p.advance(ctx, subject, quotaDomain.DimensionTokens, tokens, capacity, window, quotaDomain.ErrTokenBudgetExceeded)
}

// advance runs the check-and-increment for one counter inside a transaction.
// The row lock taken by FOR UPDATE makes concurrent calls for the same
// subject and dimension execute one at a time, so the limit can never be
// oversubscribed by a race.
func (p *PostgreSQLQuotaRepository) advance(
	ctx context.Context,
	subject string,
	dimension string,
	amount int64,
	limit int64,
	window time.Duration,
	limitErr error,
) error {
	windowStart := quotaDomain.WindowStart(p.now(), window)

	return p.txManager.WithTx(ctx, func(txCtx context.Context) error {
		querier := database.GetTx(txCtx, p.db)

		var (
			used        int64
			storedStart time.Time
		)
		query := `SELECT used, window_start FROM quota_counters
				  WHERE subject = $1 AND dimension = $2
				  FOR UPDATE`
		err := querier.QueryRowContext(txCtx, query, subject, dimension).Scan(&used, &storedStart)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			if amount > limit {
				return limitErr
			}
			insert := `INSERT INTO quota_counters (subject, dimension, window_start, used)
					   VALUES ($1, $2, $3, $4)`
			if _, err := querier.ExecContext(txCtx, insert, subject, dimension, windowStart, amount); err != nil {
				return apperrors.Wrap(err, "failed to insert quota counter")
			}
			return nil
		case err != nil:
			return apperrors.Wrap(err, "failed to read quota counter")
		}

		// A stale row belongs to a previous window; the counter starts over.
		if storedStart.Before(windowStart) {
			used = 0
		}

		if used+amount > limit {
			return limitErr
		}

		update := `UPDATE quota_counters SET used = $1, window_start = $2
				   WHERE subject = $3 AND dimension = $4`
		if _, err := querier.ExecContext(txCtx, update, used+amount, windowStart, subject, dimension); err != nil {
			return apperrors.Wrap(err, "failed to update quota counter")
		}
		return nil
	})
}

// Reset clears all counters for the subject.
func (p *PostgreSQLQuotaRepository) Reset(ctx context.Context, subject string) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM quota_counters WHERE subject = $1`
	if _, err := querier.ExecContext(ctx, query, subject); err != nil {
		return apperrors.Wrap(err, "failed to reset quota counters")
	}
	return nil
}

// NewPostgreSQLQuotaRepository creates a new PostgreSQL quota repository.
func NewPostgreSQLQuotaRepository(db *sql.DB, txManager database.TxManager) *PostgreSQLQuotaRepository {
	return &PostgreSQLQuotaRepository{db: db, txManager: txManager, now: time.Now}
}
