package commands

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/secretd/internal/auth/domain"
	authService "github.com/allisson/secretd/internal/auth/service"
	authUseCase "github.com/allisson/secretd/internal/auth/usecase"
)

type memClientRepo struct {
	mu      sync.Mutex
	clients map[uuid.UUID]*authDomain.Client
}

func newMemClientRepo() *memClientRepo {
	return &memClientRepo{clients: make(map[uuid.UUID]*authDomain.Client)}
}

func (r *memClientRepo) Create(_ context.Context, client *authDomain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *client
	r.clients[client.ID] = &c
	return nil
}

func (r *memClientRepo) Get(_ context.Context, clientID uuid.UUID) (*authDomain.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	client, ok := r.clients[clientID]
	if !ok {
		return nil, authDomain.ErrClientNotFound
	}
	c := *client
	return &c, nil
}

func (r *memClientRepo) Update(_ context.Context, client *authDomain.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *client
	r.clients[client.ID] = &c
	return nil
}

func (r *memClientRepo) UpdateLockState(_ context.Context, clientID uuid.UUID, failedAttempts int, lockedUntil *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if client, ok := r.clients[clientID]; ok {
		client.FailedAttempts = failedAttempts
		client.LockedUntil = lockedUntil
	}
	return nil
}

func newClientUseCaseFixture() (authUseCase.ClientUseCase, *memClientRepo) {
	repo := newMemClientRepo()
	return authUseCase.NewClientUseCase(repo, authService.NewSecretService()), repo
}

var _ authUseCase.ClientRepository = (*memClientRepo)(nil)
