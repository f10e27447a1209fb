// Package usecase implements business logic orchestration for client
// authentication.
package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/secretd/internal/auth/domain"
	authService "github.com/allisson/secretd/internal/auth/service"
)

const (
	// maxFailedAttempts is the number of consecutive authentication
	// failures before a client is locked out.
	maxFailedAttempts = 5
	lockoutDuration   = 15 * time.Minute
)

type clientUseCase struct {
	clientRepo    ClientRepository
	secretService authService.SecretService
}

// NewClientUseCase creates a ClientUseCase.
func NewClientUseCase(clientRepo ClientRepository, secretService authService.SecretService) ClientUseCase {
	return &clientUseCase{
		clientRepo:    clientRepo,
		secretService: secretService,
	}
}

// Create generates and persists a new client with a random secret. The plain
// secret is returned exactly once; only the hash is stored.
func (c *clientUseCase) Create(
	ctx context.Context,
	input *authDomain.CreateClientInput,
) (*authDomain.CreateClientOutput, error) {
	plainSecret, hashedSecret, err := c.secretService.GenerateSecret()
	if err != nil {
		return nil, err
	}

	client := &authDomain.Client{
		ID:         uuid.Must(uuid.NewV7()),
		Secret:     hashedSecret,
		Name:       input.Name,
		IsActive:   input.IsActive,
		UsageTypes: input.UsageTypes,
		ReadOnly:   input.ReadOnly,
		CreatedAt:  time.Now().UTC(),
	}

	if err := c.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	return &authDomain.CreateClientOutput{
		ID:          client.ID,
		PlainSecret: plainSecret,
	}, nil
}

// Authenticate verifies the client's secret.
//
// An unknown client and a wrong secret both yield ErrInvalidCredentials so
// callers cannot enumerate client IDs. Each failure increments the failed
// attempt counter; at maxFailedAttempts the client is locked for
// lockoutDuration. A successful authentication resets the counter.
func (c *clientUseCase) Authenticate(
	ctx context.Context,
	clientID uuid.UUID,
	plainSecret string,
) (*authDomain.Client, error) {
	client, err := c.clientRepo.Get(ctx, clientID)
	if err != nil {
		if errors.Is(err, authDomain.ErrClientNotFound) {
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	now := time.Now().UTC()
	if client.Locked(now) {
		return nil, authDomain.ErrClientLocked
	}
	if !client.IsActive {
		return nil, authDomain.ErrClientInactive
	}

	if !c.secretService.CompareSecret(plainSecret, client.Secret) {
		failedAttempts := client.FailedAttempts + 1
		var lockedUntil *time.Time
		if failedAttempts >= maxFailedAttempts {
			deadline := now.Add(lockoutDuration)
			lockedUntil = &deadline
		}
		// The failed attempt is recorded best effort; the authentication
		// error is what the caller needs to see.
		_ = c.clientRepo.UpdateLockState(ctx, clientID, failedAttempts, lockedUntil)
		return nil, authDomain.ErrInvalidCredentials
	}

	if client.FailedAttempts > 0 || client.LockedUntil != nil {
		if err := c.clientRepo.UpdateLockState(ctx, clientID, 0, nil); err != nil {
			return nil, err
		}
	}

	return client, nil
}

// Get retrieves a client by ID.
func (c *clientUseCase) Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error) {
	return c.clientRepo.Get(ctx, clientID)
}

// Deactivate soft deletes a client by clearing IsActive, preserving the row
// for auditability.
func (c *clientUseCase) Deactivate(ctx context.Context, clientID uuid.UUID) error {
	client, err := c.clientRepo.Get(ctx, clientID)
	if err != nil {
		return err
	}

	client.IsActive = false
	return c.clientRepo.Update(ctx, client)
}

// Unlock clears the lockout state for a client.
func (c *clientUseCase) Unlock(ctx context.Context, clientID uuid.UUID) error {
	if _, err := c.clientRepo.Get(ctx, clientID); err != nil {
		return err
	}
	return c.clientRepo.UpdateLockState(ctx, clientID, 0, nil)
}
