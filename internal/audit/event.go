// Package audit provides the append-only audit trail for access decisions,
// security events, and inference records. Recording is fire-and-forget and never
// blocks the request path.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies the category of an audit event.
type Kind string

const (
	// KindAccessDecision records the outcome of a zero-trust gate evaluation.
	KindAccessDecision Kind = "access_decision"

	// KindSecurityEvent records firewall blocks, inference timeouts, and similar incidents.
	KindSecurityEvent Kind = "security_event"

	// KindInference records a completed generation with cost and latency data.
	KindInference Kind = "llm_inference"
)

// Event is a single append-only audit record. Events are write-once: they are
// built, signed, and emitted, never mutated afterwards.
type Event struct {
	ID        uuid.UUID      `json:"id"`
	Kind      Kind           `json:"kind"`
	Subject   string         `json:"subject"`
	Resource  string         `json:"resource,omitempty"`
	Action    string         `json:"action,omitempty"`
	Granted   bool           `json:"granted"`
	Reason    string         `json:"reason,omitempty"`
	Severity  string         `json:"severity,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	Signature string         `json:"signature,omitempty"`
}

// NewAccessDecision builds an access_decision event for a gate evaluation outcome.
// Reason is empty for granted decisions.
func NewAccessDecision(subject, resource, action string, granted bool, reason string) *Event {
	return &Event{
		ID:        uuid.Must(uuid.NewV7()),
		Kind:      KindAccessDecision,
		Subject:   subject,
		Resource:  resource,
		Action:    action,
		Granted:   granted,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
}

// NewSecurityEvent builds a security_event record with an incident type and severity.
func NewSecurityEvent(subject, eventType, severity string, payload map[string]any) *Event {
	return &Event{
		ID:        uuid.Must(uuid.NewV7()),
		Kind:      KindSecurityEvent,
		Subject:   subject,
		Reason:    eventType,
		Severity:  severity,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}

// NewInference builds an llm_inference record for an accepted, completed generation.
func NewInference(subject, model string, promptTokens, completionTokens int, latency time.Duration, costUSD float64) *Event {
	return &Event{
		ID:      uuid.Must(uuid.NewV7()),
		Kind:    KindInference,
		Subject: subject,
		Granted: true,
		Payload: map[string]any{
			"model":             model,
			"prompt_tokens":     promptTokens,
			"completion_tokens": completionTokens,
			"latency_ms":        latency.Seconds() * 1000,
			"cost_usd":          costUSD,
		},
		CreatedAt: time.Now().UTC(),
	}
}
