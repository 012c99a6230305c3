package app

import (
	"fmt"

	"github.com/secureai/gateway/internal/firewall"
	"github.com/secureai/gateway/internal/gate"
	"github.com/secureai/gateway/internal/llm/adapter"
	llmHTTP "github.com/secureai/gateway/internal/llm/http"
	llmUsecase "github.com/secureai/gateway/internal/llm/usecase"
	quotaRepository "github.com/secureai/gateway/internal/quota/repository"
)

// QuotaRepository returns the quota counter repository instance.
func (c *Container) QuotaRepository() (quotaRepository.QuotaRepository, error) {
	var err error
	c.quotaRepoInit.Do(func() {
		c.quotaRepo, err = c.initQuotaRepository()
		if err != nil {
			c.initErrors["quotaRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["quotaRepo"]; exists {
		return nil, storedErr
	}
	return c.quotaRepo, nil
}

// Firewall returns the prompt firewall instance.
func (c *Container) Firewall() (*firewall.Firewall, error) {
	var err error
	c.firewallInit.Do(func() {
		c.firewall, err = c.initFirewall()
		if err != nil {
			c.initErrors["firewall"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["firewall"]; exists {
		return nil, storedErr
	}
	return c.firewall, nil
}

// Gate returns the request verification gate instance.
func (c *Container) Gate() (*gate.Gate, error) {
	var err error
	c.gateInit.Do(func() {
		c.verificationGate, err = c.initGate()
		if err != nil {
			c.initErrors["gate"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["gate"]; exists {
		return nil, storedErr
	}
	return c.verificationGate, nil
}

// AdapterRegistry returns the backend adapter registry.
func (c *Container) AdapterRegistry() *adapter.Registry {
	c.adapterRegistryInit.Do(func() {
		c.adapterRegistry = adapter.NewRegistry(c.config)
	})
	return c.adapterRegistry
}

// LLMUseCase returns the inference orchestration use case instance.
func (c *Container) LLMUseCase() (llmUsecase.LLMUseCase, error) {
	var err error
	c.llmUseCaseInit.Do(func() {
		c.llmUseCase, err = c.initLLMUseCase()
		if err != nil {
			c.initErrors["llmUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["llmUseCase"]; exists {
		return nil, storedErr
	}
	return c.llmUseCase, nil
}

// LLMHandler returns the inference HTTP handler.
func (c *Container) LLMHandler() (*llmHTTP.LLMHandler, error) {
	var err error
	c.llmHandlerInit.Do(func() {
		c.llmHandler, err = c.initLLMHandler()
		if err != nil {
			c.initErrors["llmHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["llmHandler"]; exists {
		return nil, storedErr
	}
	return c.llmHandler, nil
}

// initQuotaRepository creates the quota repository instance.
func (c *Container) initQuotaRepository() (quotaRepository.QuotaRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for quota repository: %w", err)
	}

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for quota repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return quotaRepository.NewMySQLQuotaRepository(db, txManager), nil
	case "postgres":
		return quotaRepository.NewPostgreSQLQuotaRepository(db, txManager), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initFirewall creates the prompt firewall.
func (c *Container) initFirewall() (*firewall.Firewall, error) {
	recorder, err := c.AuditRecorder()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit recorder for firewall: %w", err)
	}
	return firewall.New(recorder), nil
}

// initGate creates the request verification gate.
func (c *Container) initGate() (*gate.Gate, error) {
	recorder, err := c.AuditRecorder()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit recorder for gate: %w", err)
	}
	return gate.New(recorder), nil
}

// initLLMUseCase creates the inference pipeline with all its dependencies.
// The orchestrator is wrapped with the business metrics decorator.
func (c *Container) initLLMUseCase() (llmUsecase.LLMUseCase, error) {
	credentialService, err := c.CredentialService()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential service for llm use case: %w", err)
	}

	verificationGate, err := c.Gate()
	if err != nil {
		return nil, fmt.Errorf("failed to get gate for llm use case: %w", err)
	}

	quotaRepo, err := c.QuotaRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get quota repository for llm use case: %w", err)
	}

	promptFirewall, err := c.Firewall()
	if err != nil {
		return nil, fmt.Errorf("failed to get firewall for llm use case: %w", err)
	}

	recorder, err := c.AuditRecorder()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit recorder for llm use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for llm use case: %w", err)
	}

	orchestrator := llmUsecase.NewOrchestrator(
		c.config,
		credentialService,
		verificationGate,
		quotaRepo,
		promptFirewall,
		c.AdapterRegistry(),
		recorder,
	)

	return llmUsecase.NewLLMUseCaseWithMetrics(orchestrator, businessMetrics, c.config), nil
}

// initLLMHandler creates the inference HTTP handler.
func (c *Container) initLLMHandler() (*llmHTTP.LLMHandler, error) {
	llmUseCase, err := c.LLMUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get llm use case for llm handler: %w", err)
	}

	return llmHTTP.NewLLMHandler(llmUseCase, c.Logger()), nil
}
