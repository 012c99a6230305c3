package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	authDomain "github.com/secureai/gateway/internal/auth/domain"
	authUseCase "github.com/secureai/gateway/internal/auth/usecase"
)

// RunCreateUser provisions a new gateway user with a hashed password.
// Outputs the created user's ID, username and plan in either text or JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunCreateUser(
	ctx context.Context,
	useCase authUseCase.AuthUseCase,
	logger *slog.Logger,
	writer io.Writer,
	username string,
	password string,
	plan string,
	isActive bool,
	format string,
) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}
	if plan != "free" && plan != "premium" {
		return fmt.Errorf("invalid plan: %s (valid options: free, premium)", plan)
	}

	logger.Info("creating new user", slog.String("username", username))

	user, err := useCase.CreateUser(ctx, &authDomain.CreateUserInput{
		Username: username,
		Password: password,
		Plan:     plan,
		IsActive: isActive,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if format == "json" {
		output := map[string]any{
			"id":        user.ID.String(),
			"username":  user.Username,
			"plan":      user.Plan,
			"is_active": user.IsActive,
		}
		encoded, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		_, _ = fmt.Fprintln(writer, string(encoded))
	} else {
		_, _ = fmt.Fprintln(writer, "User created successfully")
		_, _ = fmt.Fprintf(writer, "ID: %s\n", user.ID)
		_, _ = fmt.Fprintf(writer, "Username: %s\n", user.Username)
		_, _ = fmt.Fprintf(writer, "Plan: %s\n", user.Plan)
		_, _ = fmt.Fprintf(writer, "Active: %t\n", user.IsActive)
	}

	logger.Info("user created successfully",
		slog.String("user_id", user.ID.String()),
		slog.String("username", username),
		slog.Bool("is_active", isActive),
	)

	return nil
}
