package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/secretd/internal/auth/domain"
)

// ClientRepository defines the interface for client persistence.
type ClientRepository interface {
	Create(ctx context.Context, client *authDomain.Client) error
	Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error)
	Update(ctx context.Context, client *authDomain.Client) error
	UpdateLockState(ctx context.Context, clientID uuid.UUID, failedAttempts int, lockedUntil *time.Time) error
}

// ClientUseCase defines the interface for client management and
// authentication.
type ClientUseCase interface {
	Create(ctx context.Context, input *authDomain.CreateClientInput) (*authDomain.CreateClientOutput, error)
	// Authenticate verifies the client's secret, enforcing the lockout
	// policy on repeated failures.
	Authenticate(ctx context.Context, clientID uuid.UUID, plainSecret string) (*authDomain.Client, error)
	Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error)
	// Deactivate soft deletes a client so it can no longer authenticate.
	Deactivate(ctx context.Context, clientID uuid.UUID) error
	// Unlock clears a client's lockout state.
	Unlock(ctx context.Context, clientID uuid.UUID) error
}
