// Package gate implements the zero-trust verification gate.
//
// Every inference request passes through Verify before any work is done on
// its behalf. The gate treats the request as hostile until four ordered
// checks pass: credential integrity, least privilege, token budget, and
// request rate. Checks run in that fixed order and the first failure stops
// evaluation. Every call to Verify produces exactly one access decision on
// the audit trail, granted or not.
package gate

import (
	"context"
	"fmt"

	"github.com/secureai/gateway/internal/audit"
	authDomain "github.com/secureai/gateway/internal/auth/domain"
	apperrors "github.com/secureai/gateway/internal/errors"
)

// Denial reasons recorded on access decisions.
const (
	ReasonInvalidToken      = "invalid_token"
	ReasonInsufficientScope = "insufficient_scope"
	ReasonBudgetExceeded    = "gpu_budget_exceeded"
	ReasonRateLimited       = "rate_limit_exceeded"
)

// DeniedError is returned when a verification check fails. It wraps the
// sentinel matching the failed check so HTTP handlers map it to the right
// status code, and carries the machine-readable reason for the audit trail.
type DeniedError struct {
	Reason string
	err    error
}

func (d *DeniedError) Error() string {
	return fmt.Sprintf("request denied: %s", d.Reason)
}

func (d *DeniedError) Unwrap() error {
	return d.err
}

// RatePredicate reports whether the subject is within its request rate.
// It is consulted last, after all credential checks pass, so denied
// credentials never consume rate budget.
type RatePredicate func(ctx context.Context, subject string) error

// Options carries per-request context for budget and rate checks.
type Options struct {
	// RequestedTokens is the completion token count the caller asked for.
	// Zero skips the budget check (no generation requested).
	RequestedTokens int

	// Rate is the request rate check to apply. Nil skips the rate check.
	Rate RatePredicate
}

// Gate verifies requests against a credential and records every decision.
type Gate struct {
	recorder audit.Recorder
}

// Verify runs the ordered zero-trust checks for acting on resource with
// action under the given credential. Returns nil when access is granted and
// a DeniedError naming the failed check otherwise. The credential may be nil
// (for example when decoding failed upstream); that denies with
// ReasonInvalidToken like any other integrity failure.
func (g *Gate) Verify(ctx context.Context, credential *authDomain.Credential, resource, action string, opts Options) error {
	subject := ""
	if credential != nil {
		subject = credential.Subject
	}

	// 1. Credential integrity.
	if credential == nil || !credential.IsWellFormed() {
		return g.deny(subject, resource, action, ReasonInvalidToken, apperrors.ErrUnauthorized)
	}

	// 2. Least privilege. Only capability credentials grant access to
	// guarded resources, and only for the exact resource:action scope.
	requiredScope := fmt.Sprintf("%s:%s", resource, action)
	if credential.Kind != authDomain.KindCapability || !credential.HasScope(requiredScope) {
		return g.deny(subject, resource, action, ReasonInsufficientScope, apperrors.ErrForbidden)
	}

	// 3. Token budget. The ceiling was pinned at credential mint time.
	if opts.RequestedTokens > 0 && opts.RequestedTokens > credential.MaxTokens {
		return g.deny(subject, resource, action, ReasonBudgetExceeded, apperrors.ErrQuotaExceeded)
	}

	// 4. Request rate.
	if opts.Rate != nil {
		if err := opts.Rate(ctx, subject); err != nil {
			return g.deny(subject, resource, action, ReasonRateLimited, err)
		}
	}

	g.recorder.Record(audit.NewAccessDecision(subject, resource, action, true, ""))
	return nil
}

func (g *Gate) deny(subject, resource, action, reason string, err error) error {
	g.recorder.Record(audit.NewAccessDecision(subject, resource, action, false, reason))
	return &DeniedError{Reason: reason, err: err}
}

// New creates a Gate that records decisions on the given audit recorder.
func New(recorder audit.Recorder) *Gate {
	return &Gate{recorder: recorder}
}
