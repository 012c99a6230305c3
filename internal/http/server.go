// Package http provides the gateway's HTTP server and route wiring.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	authHTTP "github.com/secureai/gateway/internal/auth/http"
	"github.com/secureai/gateway/internal/config"
	llmHTTP "github.com/secureai/gateway/internal/llm/http"
	"github.com/secureai/gateway/internal/metrics"
)

// Server represents the gateway API server.
type Server struct {
	server *http.Server
	db     *sql.DB
	logger *slog.Logger
}

// NewServer creates the API server with all routes and middleware wired.
// metricsProvider may be nil when metrics are disabled.
func NewServer(
	cfg *config.Config,
	db *sql.DB,
	logger *slog.Logger,
	authHandler *authHTTP.AuthHandler,
	llmHandler *llmHTTP.LLMHandler,
	metricsProvider *metrics.Provider,
) *Server {
	router := gin.New()
	router.Use(requestid.New())
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	server := &Server{
		db:     db,
		logger: logger,
	}

	router.GET("/health", server.healthHandler)
	router.GET("/ready", server.readinessHandler)

	auth := router.Group("/auth")
	{
		login := []gin.HandlerFunc{}
		if cfg.RateLimitLoginEnabled {
			login = append(login, authHTTP.LoginRateLimitMiddleware(
				cfg.RateLimitLoginRequestsPerSec,
				cfg.RateLimitLoginBurst,
				logger,
			))
		}
		login = append(login, authHandler.LoginHandler)
		auth.POST("/login", login...)
		auth.POST("/scoped-token", authHandler.ScopedTokenHandler)
	}

	v1 := router.Group("/api/v1")
	{
		v1.POST("/llm/generate", llmHandler.GenerateHandler)
	}

	server.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.InferenceTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the API server. Blocks until the server stops.
func (s *Server) Start(_ context.Context) error {
	s.logger.Info("starting api server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start api server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down api server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the gateway can serve traffic.
// Not ready when the database is unreachable.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"database": "ok"}

	if s.db == nil {
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "components": components})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready", "components": components})
}
