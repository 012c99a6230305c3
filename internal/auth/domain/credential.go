package domain

import (
	"slices"
	"time"
)

// Credential is the decoded, immutable view of a presented token. All fields
// are fixed at mint time; consumers see only what was embedded at issuance and
// no code path widens scopes or the ceiling after minting.
type Credential struct {
	Subject   string         // Subject (user) identifier
	Kind      CredentialKind // identity or capability
	Scopes    []string       // Granted resource:action scopes (capability only)
	Model     string         // Target model identifier (capability only)
	MaxTokens int            // Maximum-token ceiling (capability only)
	ExpiresAt time.Time      // Expiry embedded at mint time
}

// IsWellFormed reports whether the credential carries the structural fields
// every token must have. Used by the zero-trust gate's integrity check.
func (c *Credential) IsWellFormed() bool {
	return c != nil && c.Subject != "" && c.Kind != "" && !c.ExpiresAt.IsZero()
}

// HasScope reports whether the exact resource:action scope string was granted.
// Flat string membership: no hierarchy, no wildcard expansion.
func (c *Credential) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}
