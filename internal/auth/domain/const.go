// Package domain defines authentication domain models for the gateway.
// Implements two-tier credentials: a short-lived identity credential obtained by
// password login, exchanged for a very-short-lived capability credential that
// embeds exactly the scopes, model, and token ceiling granted at issuance.
package domain

// CredentialKind distinguishes the two credential tiers. The kinds are not
// interchangeable: only capability credentials authorize generation requests.
type CredentialKind string

const (
	// KindIdentity is the credential minted on successful password verification.
	KindIdentity CredentialKind = "identity"

	// KindCapability is the scoped credential minted in exchange for a valid
	// identity credential.
	KindCapability CredentialKind = "capability"
)

// ScopeGenerate is the scope required to submit generation requests.
const ScopeGenerate = "llm:generate"
