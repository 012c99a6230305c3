// Package adapter implements model backend adapters.
//
// Adapters translate the gateway's inference requests into each provider's
// wire format. They are deliberately thin: all security screening happens
// before an adapter is invoked, and adapters honor context cancellation so
// the orchestrator's inference timeout cuts off slow backends.
package adapter

import (
	"context"

	llmDomain "github.com/secureai/gateway/internal/llm/domain"
)

// Adapter generates a completion from one model backend.
type Adapter interface {
	// Generate executes one inference call. Blocks until the backend
	// responds or ctx is done.
	Generate(ctx context.Context, input *llmDomain.GenerateInput) (*llmDomain.GenerateOutput, error)
}
