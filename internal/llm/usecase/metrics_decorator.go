package usecase

import (
	"context"
	"time"

	"github.com/secureai/gateway/internal/config"
	llmDomain "github.com/secureai/gateway/internal/llm/domain"
	"github.com/secureai/gateway/internal/metrics"
)

// llmUseCaseWithMetrics decorates LLMUseCase with metrics instrumentation.
type llmUseCaseWithMetrics struct {
	next    LLMUseCase
	metrics metrics.BusinessMetrics
	cfg     *config.Config
}

// NewLLMUseCaseWithMetrics wraps an LLMUseCase with metrics recording.
func NewLLMUseCaseWithMetrics(useCase LLMUseCase, m metrics.BusinessMetrics, cfg *config.Config) LLMUseCase {
	return &llmUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
		cfg:     cfg,
	}
}

// Generate records operation metrics and, on success, token usage and cost.
func (l *llmUseCaseWithMetrics) Generate(ctx context.Context, capabilityToken string, input *llmDomain.GenerateInput) (*llmDomain.GenerateOutput, error) {
	start := time.Now()
	output, err := l.next.Generate(ctx, capabilityToken, input)

	status := "success"
	if err != nil {
		status = "error"
	}

	l.metrics.RecordOperation(ctx, "llm", "generate", status)
	l.metrics.RecordDuration(ctx, "llm", "generate", time.Since(start), status)

	if err == nil {
		cost := 0.0
		if modelCfg := l.cfg.Model(output.Model); modelCfg != nil {
			cost = llmDomain.EstimateCost(output.TokensUsed, modelCfg.CostPer1KTokens)
		}
		l.metrics.RecordInference(ctx, output.Model, output.TokensUsed, cost)
	}

	return output, err
}
