// Package commands contains CLI command implementations for the gateway.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"

	"github.com/secureai/gateway/internal/app"
)

// IOTuple holds the reader and writer a command talks to, so tests can
// substitute buffers for the process streams.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple bound to os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{Reader: os.Stdin, Writer: os.Stdout}
}

// closeContainer shuts down the container, logging rather than returning any
// error since callers invoke it via defer.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("container shutdown failed", slog.Any("error", err))
	}
}

// closeMigrate closes the migrate instance, logging source and database
// errors separately.
func closeMigrate(m *migrate.Migrate, logger *slog.Logger) {
	sourceErr, dbErr := m.Close()
	if sourceErr != nil || dbErr != nil {
		logger.Error(
			"failed to close migrate instance",
			slog.Any("source_error", sourceErr),
			slog.Any("database_error", dbErr),
		)
	}
}
