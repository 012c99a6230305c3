// Package service provides technical services for authentication operations.
//
// This package implements secret hashing with Argon2id and credential
// minting/decoding with HMAC-signed JWTs, keeping all key material and
// cryptographic policy in one place.
package service

import (
	authDomain "github.com/secureai/gateway/internal/auth/domain"
)

// SecretService defines operations for password hashing and verification.
// Implementations must use a memory-hard hashing algorithm so offline
// brute-forcing is expensive, and constant-time comparison.
type SecretService interface {
	// HashSecret hashes a plain text secret using Argon2id.
	HashSecret(plainSecret string) (hashedSecret string, err error)

	// CompareSecret compares a plain text secret against a hashed secret.
	// Returns true if the plain secret matches the hash, false otherwise.
	// This is constant-time to prevent timing attacks.
	CompareSecret(plainSecret string, hashedSecret string) bool

	// DummyCompare runs a hash verification against a fixed dummy value.
	// Called on lookups for non-existent subjects so a miss costs the same
	// wall-clock time as a real verification (no existence leak via timing).
	DummyCompare()
}

// CredentialService defines operations for minting and decoding the two
// credential kinds. The signing secret never leaves the implementation.
type CredentialService interface {
	// MintIdentity creates a short-lived identity credential for a subject.
	MintIdentity(subject string) (token string, err error)

	// MintCapability creates a very-short-lived scoped capability credential.
	// Scopes, model, and the token ceiling are fixed at mint time and can
	// never be widened by downstream consumers.
	MintCapability(subject string, scopes []string, model string, maxTokens int) (token string, err error)

	// Decode verifies a token's signature and expiry and returns the embedded
	// credential. Returns (nil, false) on ANY verification failure — expired,
	// malformed, or bad signature — so callers treat every failure uniformly
	// as an absent credential and fail closed.
	Decode(token string) (*authDomain.Credential, bool)
}
