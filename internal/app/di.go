// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gocloud.dev/secrets"

	"github.com/secureai/gateway/internal/audit"
	authHTTP "github.com/secureai/gateway/internal/auth/http"
	authService "github.com/secureai/gateway/internal/auth/service"
	authUsecase "github.com/secureai/gateway/internal/auth/usecase"
	"github.com/secureai/gateway/internal/config"
	"github.com/secureai/gateway/internal/database"
	"github.com/secureai/gateway/internal/firewall"
	"github.com/secureai/gateway/internal/gate"
	"github.com/secureai/gateway/internal/http"
	"github.com/secureai/gateway/internal/llm/adapter"
	llmHTTP "github.com/secureai/gateway/internal/llm/http"
	llmUsecase "github.com/secureai/gateway/internal/llm/usecase"
	"github.com/secureai/gateway/internal/metrics"
	quotaRepository "github.com/secureai/gateway/internal/quota/repository"

	// Register KMS provider drivers for signing secret decryption
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger        *slog.Logger
	db            *sql.DB
	signingSecret []byte

	// Managers
	txManager database.TxManager

	// Observability
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics
	auditRecorder   *audit.LogRecorder

	// Repositories
	userRepo  authUsecase.UserRepository
	quotaRepo quotaRepository.QuotaRepository

	// Services
	secretService     authService.SecretService
	credentialService authService.CredentialService

	// Enforcement components
	firewall         *firewall.Firewall
	verificationGate *gate.Gate
	adapterRegistry  *adapter.Registry

	// Use Cases
	authUseCase authUsecase.AuthUseCase
	llmUseCase  llmUsecase.LLMUseCase

	// Handlers and Servers
	authHandler   *authHTTP.AuthHandler
	llmHandler    *llmHTTP.LLMHandler
	httpServer    *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                    sync.Mutex
	loggerInit            sync.Once
	dbInit                sync.Once
	signingSecretInit     sync.Once
	txManagerInit         sync.Once
	metricsProviderInit   sync.Once
	businessMetricsInit   sync.Once
	auditRecorderInit     sync.Once
	userRepoInit          sync.Once
	quotaRepoInit         sync.Once
	secretServiceInit     sync.Once
	credentialServiceInit sync.Once
	firewallInit          sync.Once
	gateInit              sync.Once
	adapterRegistryInit   sync.Once
	authUseCaseInit       sync.Once
	llmUseCaseInit        sync.Once
	authHandlerInit       sync.Once
	llmHandlerInit        sync.Once
	httpServerInit        sync.Once
	metricsServerInit     sync.Once
	initErrors            map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	var err error
	c.dbInit.Do(func() {
		c.db, err = c.initDB()
		if err != nil {
			c.initErrors["db"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// SigningSecret returns the HMAC key shared by the credential service and the
// audit signer. When an encrypted secret and a KMS key URI are configured the
// ciphertext is decrypted through gocloud.dev on first access; otherwise the
// plaintext secret from the environment is used as-is.
func (c *Container) SigningSecret() ([]byte, error) {
	var err error
	c.signingSecretInit.Do(func() {
		c.signingSecret, err = c.initSigningSecret()
		if err != nil {
			c.initErrors["signingSecret"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["signingSecret"]; exists {
		return nil, storedErr
	}
	return c.signingSecret, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	var err error
	c.txManagerInit.Do(func() {
		c.txManager, err = c.initTxManager()
		if err != nil {
			c.initErrors["txManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["txManager"]; exists {
		return nil, storedErr
	}
	return c.txManager, nil
}

// MetricsProvider returns the metrics provider instance.
// Returns nil without error when metrics are disabled in configuration.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics instance.
// Returns a no-op implementation when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// AuditRecorder returns the audit trail recorder.
// Events are signed with the shared signing secret and emitted as structured logs.
func (c *Container) AuditRecorder() (*audit.LogRecorder, error) {
	var err error
	c.auditRecorderInit.Do(func() {
		c.auditRecorder, err = c.initAuditRecorder()
		if err != nil {
			c.initErrors["auditRecorder"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditRecorder"]; exists {
		return nil, storedErr
	}
	return c.auditRecorder, nil
}

// HTTPServer returns the API server instance.
func (c *Container) HTTPServer() (*http.Server, error) {
	var err error
	c.httpServerInit.Do(func() {
		c.httpServer, err = c.initHTTPServer()
		if err != nil {
			c.initErrors["httpServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the metrics server instance.
// Returns nil without error when metrics are disabled in configuration.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsServer, err = c.initMetricsServer()
		if err != nil {
			c.initErrors["metricsServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	// Shutdown HTTP servers if initialized
	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}
	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	// Drain the audit buffer before the process exits
	if c.auditRecorder != nil {
		c.auditRecorder.Close()
	}

	// Flush metrics pipelines if initialized
	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	// Close database connection if initialized
	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	// Return combined errors if any occurred
	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initSigningSecret resolves the HMAC signing key.
func (c *Container) initSigningSecret() ([]byte, error) {
	if c.config.SigningSecretEncrypted != "" && c.config.KMSKeyURI != "" {
		return c.decryptSigningSecret(context.Background())
	}

	if c.config.SigningSecret == "" {
		return nil, fmt.Errorf("no signing secret configured: set SIGNING_SECRET or SIGNING_SECRET_ENCRYPTED with KMS_KEY_URI")
	}

	return []byte(c.config.SigningSecret), nil
}

// decryptSigningSecret decrypts the base64 ciphertext through the configured KMS keeper.
func (c *Container) decryptSigningSecret(ctx context.Context) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(c.config.SigningSecretEncrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to decode encrypted signing secret: %w", err)
	}

	keeper, err := secrets.OpenKeeper(ctx, c.config.KMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			c.Logger().Warn("failed to close KMS keeper", slog.String("error", closeErr.Error()))
		}
	}()

	plaintext, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt signing secret: %w", err)
	}

	return plaintext, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initBusinessMetrics creates the business metrics instruments.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}
	if provider == nil {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initAuditRecorder creates the signed audit recorder.
func (c *Container) initAuditRecorder() (*audit.LogRecorder, error) {
	signingSecret, err := c.SigningSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to get signing secret for audit recorder: %w", err)
	}

	signer, err := audit.NewSigner(signingSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create audit signer: %w", err)
	}

	return audit.NewLogRecorder(c.Logger(), signer, c.config.AuditBufferSize), nil
}

// initHTTPServer creates the API server with all its dependencies.
func (c *Container) initHTTPServer() (*http.Server, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	authHandler, err := c.AuthHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get auth handler for http server: %w", err)
	}

	llmHandler, err := c.LLMHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get llm handler for http server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	return http.NewServer(c.config, db, c.Logger(), authHandler, llmHandler, metricsProvider), nil
}

// initMetricsServer creates the metrics server.
func (c *Container) initMetricsServer() (*http.MetricsServer, error) {
	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for metrics server: %w", err)
	}

	return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), metricsProvider), nil
}
