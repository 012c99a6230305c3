package adapter

import (
	"github.com/secureai/gateway/internal/config"
	apperrors "github.com/secureai/gateway/internal/errors"
)

// Registry resolves model names to backend adapters.
// Built once at startup from configuration; read-only afterwards, so it is
// safe for concurrent use.
type Registry struct {
	adapters map[string]Adapter
}

// Resolve returns the adapter serving the given model.
// Returns ErrUnsupportedModel for models the gateway does not route.
func (r *Registry) Resolve(model string) (Adapter, error) {
	adapter, ok := r.adapters[model]
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrUnsupportedModel, model)
	}
	return adapter, nil
}

// Register binds a model name to an adapter, replacing any existing binding.
// Intended for startup wiring and tests only.
func (r *Registry) Register(model string, adapter Adapter) {
	r.adapters[model] = adapter
}

// NewRegistry builds a registry from the configured model list.
// Models with an unknown provider are skipped.
func NewRegistry(cfg *config.Config) *Registry {
	// Shared per-provider clients, same as upstream SDKs reuse connections.
	openai := NewOpenAIAdapter(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.InferenceTimeout)
	ollama := NewOllamaAdapter(cfg.OllamaBaseURL, cfg.InferenceTimeout)

	registry := &Registry{adapters: make(map[string]Adapter)}
	for _, model := range cfg.Models {
		switch model.Provider {
		case "openai":
			registry.adapters[model.Name] = openai
		case "ollama":
			registry.adapters[model.Name] = ollama
		}
	}
	return registry
}

// NewEmptyRegistry creates a registry with no bindings, for tests.
func NewEmptyRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}
