package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a subject that can authenticate against the gateway.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string //nolint:gosec // Argon2id hash, not plaintext
	Plan         string // Billing plan ("free", "premium"), informational
	IsActive     bool
	CreatedAt    time.Time
}

// LoginInput contains the parameters for password authentication.
type LoginInput struct {
	Username string
	Password string
}

// LoginOutput contains the issued identity credential.
// The plain token is only returned once; it is never stored server-side.
type LoginOutput struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int // Lifetime in seconds
}

// ExchangeInput contains the parameters for exchanging an identity credential
// for a scoped capability credential.
type ExchangeInput struct {
	IdentityToken string
	Model         string
	MaxTokens     int
	Scopes        []string
}

// ExchangeOutput contains the issued capability credential and its fixed lifetime.
type ExchangeOutput struct {
	Token     string
	ExpiresIn int // Lifetime in seconds, intentionally very short
}

// CreateUserInput contains the parameters for provisioning a new user.
type CreateUserInput struct {
	Username string
	Password string
	Plan     string
	IsActive bool
}
