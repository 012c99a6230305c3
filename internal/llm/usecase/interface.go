// Package usecase implements the inference orchestration pipeline.
package usecase

import (
	"context"

	llmDomain "github.com/secureai/gateway/internal/llm/domain"
)

// LLMUseCase defines the single entry point for inference requests.
//
// Generate is the security choke point: every request passes credential
// decoding, zero-trust verification, quota consumption, and firewall
// screening before any backend is contacted.
type LLMUseCase interface {
	// Generate runs the full pipeline for one inference request.
	// The capability token is decoded and verified here; input.Subject is
	// overwritten with the verified subject before any downstream use.
	Generate(ctx context.Context, capabilityToken string, input *llmDomain.GenerateInput) (*llmDomain.GenerateOutput, error)
}
