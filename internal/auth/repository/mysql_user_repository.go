package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	authDomain "github.com/secureai/gateway/internal/auth/domain"
	"github.com/secureai/gateway/internal/database"
	apperrors "github.com/secureai/gateway/internal/errors"
)

// MySQLUserRepository implements User persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLUserRepository struct {
	db *sql.DB
}

// Create inserts a new User into the MySQL database using BINARY(16) for UUIDs.
func (m *MySQLUserRepository) Create(ctx context.Context, user *authDomain.User) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO users (id, username, password_hash, plan, is_active, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	id, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal user id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		user.Username,
		user.PasswordHash,
		user.Plan,
		user.IsActive,
		user.CreatedAt,
	)
	if err != nil {
		if isMySQLDuplicateEntry(err) {
			return authDomain.ErrUserExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// Get retrieves a User by ID from the MySQL database.
func (m *MySQLUserRepository) Get(ctx context.Context, userID uuid.UUID) (*authDomain.User, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, username, password_hash, plan, is_active, created_at
			  FROM users WHERE id = ?`

	id, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal user id")
	}

	return m.scanUser(querier.QueryRowContext(ctx, query, id))
}

// GetByUsername retrieves a User by username from the MySQL database.
func (m *MySQLUserRepository) GetByUsername(ctx context.Context, username string) (*authDomain.User, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, username, password_hash, plan, is_active, created_at
			  FROM users WHERE username = ?`

	return m.scanUser(querier.QueryRowContext(ctx, query, username))
}

func (m *MySQLUserRepository) scanUser(row *sql.Row) (*authDomain.User, error) {
	var (
		user    authDomain.User
		idBytes []byte
	)

	err := row.Scan(
		&idBytes,
		&user.Username,
		&user.PasswordHash,
		&user.Plan,
		&user.IsActive,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user")
	}

	if err := user.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal user id")
	}

	return &user, nil
}

// isMySQLDuplicateEntry checks if the error is a MySQL duplicate entry error (1062).
func isMySQLDuplicateEntry(err error) bool {
	if err == nil {
		return false
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate entry")
}

// NewMySQLUserRepository creates a new MySQL User repository.
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}
