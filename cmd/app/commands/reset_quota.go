package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	quotaRepository "github.com/secureai/gateway/internal/quota/repository"
)

// RunResetQuota clears all quota counters for a subject. The subject's next
// request starts from a clean window across every dimension.
func RunResetQuota(
	ctx context.Context,
	quotaRepo quotaRepository.QuotaRepository,
	logger *slog.Logger,
	writer io.Writer,
	subject string,
	format string,
) error {
	if subject == "" {
		return fmt.Errorf("subject cannot be empty")
	}

	logger.Info("resetting quota counters", slog.String("subject", subject))

	if err := quotaRepo.Reset(ctx, subject); err != nil {
		return fmt.Errorf("failed to reset quota counters: %w", err)
	}

	if format == "json" {
		output := map[string]any{
			"subject": subject,
			"reset":   true,
		}
		encoded, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		_, _ = fmt.Fprintln(writer, string(encoded))
	} else {
		_, _ = fmt.Fprintf(writer, "Quota counters cleared for subject %q\n", subject)
	}

	logger.Info("quota counters reset", slog.String("subject", subject))
	return nil
}
