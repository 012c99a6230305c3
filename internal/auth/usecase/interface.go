// Package usecase defines business logic interfaces for authentication operations.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/secureai/gateway/internal/auth/domain"
)

// UserRepository defines persistence operations for gateway users.
type UserRepository interface {
	// Create stores a new user in the repository.
	// Returns ErrUserExists if the username is already taken.
	Create(ctx context.Context, user *authDomain.User) error

	// Get retrieves a user by ID. Returns ErrUserNotFound if not found.
	Get(ctx context.Context, userID uuid.UUID) (*authDomain.User, error)

	// GetByUsername retrieves a user by username. Returns ErrUserNotFound if not found.
	GetByUsername(ctx context.Context, username string) (*authDomain.User, error)
}

// AuthUseCase defines business logic operations for credential issuance.
//
// It implements a two-phase flow: Login authenticates a user and returns a
// short-lived identity credential; Exchange trades a valid identity credential
// for an even shorter-lived capability credential scoped to a single model
// and token ceiling.
type AuthUseCase interface {
	// Login authenticates a user by username and password and mints an
	// identity credential. Returns ErrInvalidCredentials on unknown users
	// and wrong passwords alike, and ErrUserInactive for deactivated users.
	Login(ctx context.Context, input *authDomain.LoginInput) (*authDomain.LoginOutput, error)

	// Exchange verifies an identity credential and mints a capability
	// credential with the requested scopes, model, and token ceiling pinned.
	// Returns ErrUnauthorized when the identity credential fails verification.
	Exchange(ctx context.Context, input *authDomain.ExchangeInput) (*authDomain.ExchangeOutput, error)

	// CreateUser provisions a new user with a hashed password.
	CreateUser(ctx context.Context, input *authDomain.CreateUserInput) (*authDomain.User, error)
}
