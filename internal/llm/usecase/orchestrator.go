package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/secureai/gateway/internal/audit"
	authService "github.com/secureai/gateway/internal/auth/service"
	"github.com/secureai/gateway/internal/config"
	apperrors "github.com/secureai/gateway/internal/errors"
	"github.com/secureai/gateway/internal/firewall"
	"github.com/secureai/gateway/internal/gate"
	"github.com/secureai/gateway/internal/llm/adapter"
	llmDomain "github.com/secureai/gateway/internal/llm/domain"
	quotaRepository "github.com/secureai/gateway/internal/quota/repository"
)

// orchestrator implements LLMUseCase as an ordered security pipeline.
// The pipeline order is load-bearing: quota consumption happens only after
// zero-trust verification passes, and no backend is contacted before the
// firewall clears the prompt.
type orchestrator struct {
	cfg               *config.Config
	credentialService authService.CredentialService
	verifier          *gate.Gate
	quotaRepo         quotaRepository.QuotaRepository
	firewall          *firewall.Firewall
	registry          *adapter.Registry
	recorder          audit.Recorder
}

// Generate runs the full pipeline for one inference request.
func (o *orchestrator) Generate(ctx context.Context, capabilityToken string, input *llmDomain.GenerateInput) (*llmDomain.GenerateOutput, error) {
	start := time.Now()

	// Step 1: decode the capability credential.
	credential, ok := o.credentialService.Decode(capabilityToken)
	if !ok {
		// The gate still runs to put the denial on the audit trail.
		credential = nil
	}

	// Step 2: zero-trust verification (integrity, scope, budget, rate).
	err := o.verifier.Verify(ctx, credential, "llm", "generate", gate.Options{
		RequestedTokens: input.MaxTokens,
		Rate:            o.rateCheck,
	})
	if err != nil {
		return nil, err
	}
	subject := credential.Subject
	input.Subject = subject

	// Step 3: consume from the hourly token budget. The requested ceiling is
	// charged up front; a request that later fails downstream still spent its
	// reservation, which keeps the budget safe against retry storms.
	if err := o.quotaRepo.Consume(ctx, subject, int64(input.MaxTokens), int64(o.cfg.MaxTokensPerHour), time.Hour); err != nil {
		return nil, err
	}

	// Step 4: firewall inspection.
	if err := o.firewall.Enforce(input.Prompt, subject); err != nil {
		return nil, err
	}

	// Step 5: route to the backend adapter.
	backend, err := o.registry.Resolve(input.Model)
	if err != nil {
		return nil, err
	}

	// Step 6: execute inference under the hard timeout.
	inferenceCtx, cancel := context.WithTimeout(ctx, o.cfg.InferenceTimeout)
	defer cancel()

	output, err := backend.Generate(inferenceCtx, input)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			o.recorder.Record(audit.NewSecurityEvent(subject, "inference_timeout", "medium", map[string]any{
				"model": input.Model,
			}))
			return nil, apperrors.Wrap(apperrors.ErrBackendTimeout, "inference timed out")
		}
		if apperrors.Is(err, apperrors.ErrBackendFailure) {
			return nil, err
		}
		return nil, apperrors.Wrap(apperrors.ErrBackendFailure, err.Error())
	}

	// Step 7: record the inference with latency and estimated cost.
	o.recorder.Record(audit.NewInference(
		subject,
		input.Model,
		len(strings.Fields(input.Prompt)),
		len(strings.Fields(output.Content)),
		time.Since(start),
		o.estimateCost(input.Model, input.MaxTokens),
	))

	return output, nil
}

// rateCheck is the gate's rate predicate, backed by the shared quota counters.
func (o *orchestrator) rateCheck(ctx context.Context, subject string) error {
	return o.quotaRepo.CheckAndIncrement(ctx, subject, int64(o.cfg.RequestRateLimit), o.cfg.RequestRateWindow)
}

// estimateCost prices the requested ceiling against the model's per-1k rate.
// Unknown models cost zero; they were already rejected by the registry.
func (o *orchestrator) estimateCost(model string, tokens int) float64 {
	modelCfg := o.cfg.Model(model)
	if modelCfg == nil {
		return 0
	}
	return llmDomain.EstimateCost(tokens, modelCfg.CostPer1KTokens)
}

// NewOrchestrator creates the inference pipeline with all its checks wired.
func NewOrchestrator(
	cfg *config.Config,
	credentialService authService.CredentialService,
	verifier *gate.Gate,
	quotaRepo quotaRepository.QuotaRepository,
	promptFirewall *firewall.Firewall,
	registry *adapter.Registry,
	recorder audit.Recorder,
) LLMUseCase {
	return &orchestrator{
		cfg:               cfg,
		credentialService: credentialService,
		verifier:          verifier,
		quotaRepo:         quotaRepo,
		firewall:          promptFirewall,
		registry:          registry,
		recorder:          recorder,
	}
}
