package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	authUseCase "github.com/allisson/secretd/internal/auth/usecase"
)

// RunDeactivateClient deactivates a client so it can no longer authenticate.
// Sessions already open for the client are unaffected; deactivation only
// blocks new ones.
func RunDeactivateClient(
	ctx context.Context,
	clientUseCase authUseCase.ClientUseCase,
	logger *slog.Logger,
	writer io.Writer,
	clientIDStr string,
) error {
	clientID, err := uuid.Parse(clientIDStr)
	if err != nil {
		return fmt.Errorf("invalid client ID format: %w", err)
	}

	if err := clientUseCase.Deactivate(ctx, clientID); err != nil {
		return fmt.Errorf("failed to deactivate client: %w", err)
	}

	_, _ = fmt.Fprintf(writer, "Client %s deactivated.\n", clientID)

	logger.Info("client deactivated", slog.String("client_id", clientID.String()))
	return nil
}

// RunUnlockClient clears a client's failed-authentication lockout so it can
// authenticate again before the lockout window expires.
func RunUnlockClient(
	ctx context.Context,
	clientUseCase authUseCase.ClientUseCase,
	logger *slog.Logger,
	writer io.Writer,
	clientIDStr string,
) error {
	clientID, err := uuid.Parse(clientIDStr)
	if err != nil {
		return fmt.Errorf("invalid client ID format: %w", err)
	}

	if err := clientUseCase.Unlock(ctx, clientID); err != nil {
		return fmt.Errorf("failed to unlock client: %w", err)
	}

	_, _ = fmt.Fprintf(writer, "Client %s unlocked.\n", clientID)

	logger.Info("client unlocked", slog.String("client_id", clientID.String()))
	return nil
}
