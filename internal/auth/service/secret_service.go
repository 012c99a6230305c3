package service

import (
	"github.com/allisson/go-pwdhash"

	apperrors "github.com/secureai/gateway/internal/errors"
)

// dummySecret is a fixed plaintext whose verification is run when a subject
// lookup misses, keeping the failure path's timing aligned with a real
// password check.
const dummySecret = "dummy-timing-equalizer"

// secretService implements SecretService using Argon2id for password hashing.
type secretService struct {
	hasher    *pwdhash.PasswordHasher
	dummyHash string
}

// HashSecret hashes a plain text secret using Argon2id.
func (s *secretService) HashSecret(plainSecret string) (hashedSecret string, error error) {
	hashedSecret, err := s.hasher.Hash([]byte(plainSecret))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash secret")
	}
	return hashedSecret, nil
}

// CompareSecret performs a constant-time comparison between a plain secret and its hash.
func (s *secretService) CompareSecret(plainSecret string, hashedSecret string) bool {
	ok, err := s.hasher.Verify([]byte(plainSecret), hashedSecret)
	if err != nil {
		return false
	}
	return ok
}

// DummyCompare verifies a fixed secret against a precomputed hash and
// discards the result.
func (s *secretService) DummyCompare() {
	_, _ = s.hasher.Verify([]byte(dummySecret), s.dummyHash)
}

// NewSecretService creates a new SecretService instance using Argon2id hashing.
// Uses the Moderate policy for a balance between security and performance.
func NewSecretService() SecretService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	dummyHash, err := hasher.Hash([]byte(dummySecret))
	if err != nil {
		panic(err)
	}

	return &secretService{
		hasher:    hasher,
		dummyHash: dummyHash,
	}
}
