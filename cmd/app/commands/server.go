package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/secureai/gateway/internal/app"
	"github.com/secureai/gateway/internal/config"
	gatewayHTTP "github.com/secureai/gateway/internal/http"
)

// RunServer starts the gateway with graceful shutdown support.
// It loads configuration, initializes the DI container, and runs the API and
// metrics servers until SIGINT/SIGTERM or a fatal server error, then stops
// both servers within the DBConnMaxLifetime timeout.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()
	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("starting gateway", slog.String("version", version))

	defer closeContainer(container, logger)

	apiServer, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	// Nil when metrics are disabled.
	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	serverErr := make(chan error, 2)
	go func() {
		if err := apiServer.Start(ctx); err != nil {
			serverErr <- fmt.Errorf("api server error: %w", err)
		}
	}()
	if metricsServer != nil {
		go func() {
			if err := metricsServer.Start(ctx); err != nil {
				serverErr <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		return stopServers(cfg, apiServer, metricsServer, nil)
	case err := <-serverErr:
		logger.Error("server error, initiating shutdown", slog.Any("error", err))
		return stopServers(cfg, apiServer, metricsServer, err)
	}
}

// stopServers gracefully shuts down both servers within the configured
// timeout, joining any shutdown failures with cause (the server error that
// triggered the shutdown, if any).
func stopServers(cfg *config.Config, apiServer *gatewayHTTP.Server, metricsServer *gatewayHTTP.MetricsServer, cause error) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.DBConnMaxLifetime)
	defer cancel()

	errs := []error{}
	if cause != nil {
		errs = append(errs, cause)
	}

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("api server shutdown: %w", err))
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	return errors.Join(errs...)
}
