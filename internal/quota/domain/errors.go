package domain

import (
	"github.com/secureai/gateway/internal/errors"
)

// Quota errors. Both wrap ErrQuotaExceeded so HTTP handlers map them to 429,
// while callers that need to distinguish the two limits still can.
var (
	// ErrRateLimitExceeded indicates the subject exhausted its request rate window.
	ErrRateLimitExceeded = errors.Wrap(errors.ErrQuotaExceeded, "request rate limit exceeded")

	// ErrTokenBudgetExceeded indicates the subject exhausted its token budget window.
	ErrTokenBudgetExceeded = errors.Wrap(errors.ErrQuotaExceeded, "token budget exceeded")
)
