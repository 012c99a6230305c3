// Package firewall implements multi-layer prompt screening.
//
// Prompts are scanned before any model backend sees them. Four independent
// layers run on every prompt: injection pattern matching, PII detection,
// token density analysis, and a toxicity keyword check. All layers always
// run, so a blocked request reports every violation at once instead of the
// first one found.
package firewall

import (
	"fmt"
	"sort"
	"strings"

	"github.com/secureai/gateway/internal/audit"
	apperrors "github.com/secureai/gateway/internal/errors"
)

// promptPreviewLength bounds how much prompt text is attached to security
// events. Full prompts never reach the audit trail.
const promptPreviewLength = 100

// Firewall screens prompts and records a security event for every block.
type Firewall struct {
	recorder audit.Recorder
}

// Scan runs all screening layers over the prompt.
// Returns whether the prompt is safe and the full list of violations found.
// A block is recorded on the audit trail with a truncated prompt preview.
func (f *Firewall) Scan(prompt string, subject string) (bool, []string) {
	var violations []string

	// Layer 1: prompt injection detection.
	for _, pattern := range injectionPatterns {
		if pattern.MatchString(prompt) {
			violations = append(violations, fmt.Sprintf("Injection pattern detected: %s", pattern.String()))
		}
	}

	// Layer 2: PII detection. Sorted so repeated scans of the same prompt
	// report violations in a stable order.
	piiTypes := make([]string, 0, len(piiPatterns))
	for piiType := range piiPatterns {
		piiTypes = append(piiTypes, piiType)
	}
	sort.Strings(piiTypes)
	for _, piiType := range piiTypes {
		if piiPatterns[piiType].MatchString(prompt) {
			violations = append(violations, fmt.Sprintf("PII detected: %s", piiType))
		}
	}

	// Layer 3: token abuse detection.
	if len(prompt) > 0 {
		density := float64(len(strings.Fields(prompt))) / float64(len(prompt))
		if density > maxTokenDensity {
			violations = append(violations, "Potential token abuse: high token density")
		}
	}

	// Layer 4: toxicity keyword check.
	promptLower := strings.ToLower(prompt)
	for _, keyword := range toxicKeywords {
		if strings.Contains(promptLower, keyword) {
			violations = append(violations, "Toxic content detected")
			break
		}
	}

	if len(violations) > 0 {
		preview := prompt
		if len(preview) > promptPreviewLength {
			preview = preview[:promptPreviewLength]
		}
		f.recorder.Record(audit.NewSecurityEvent(subject, "firewall_block", "high", map[string]any{
			"violations":     violations,
			"prompt_preview": preview,
		}))
	}

	return len(violations) == 0, violations
}

// Enforce scans the prompt and returns a ContentBlockedError carrying all
// violations when the prompt is unsafe.
func (f *Firewall) Enforce(prompt string, subject string) error {
	safe, violations := f.Scan(prompt, subject)
	if !safe {
		return &apperrors.ContentBlockedError{Violations: violations}
	}
	return nil
}

// New creates a Firewall that records blocks on the given audit recorder.
func New(recorder audit.Recorder) *Firewall {
	return &Firewall{recorder: recorder}
}
