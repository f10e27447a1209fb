package http

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/secretd/internal/auth/domain"
	secretsDomain "github.com/allisson/secretd/internal/secrets/domain"
)

// fakeClientRepo is an in-memory client repository for handler tests.
type fakeClientRepo struct {
	mu      sync.Mutex
	clients map[uuid.UUID]*authDomain.Client
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: make(map[uuid.UUID]*authDomain.Client)}
}

func (f *fakeClientRepo) Create(_ context.Context, client *authDomain.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *client
	f.clients[client.ID] = &copied
	return nil
}

func (f *fakeClientRepo) Get(_ context.Context, clientID uuid.UUID) (*authDomain.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	client, ok := f.clients[clientID]
	if !ok {
		return nil, authDomain.ErrClientNotFound
	}
	copied := *client
	return &copied, nil
}

func (f *fakeClientRepo) Update(_ context.Context, client *authDomain.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *client
	f.clients[client.ID] = &copied
	return nil
}

func (f *fakeClientRepo) UpdateLockState(_ context.Context, clientID uuid.UUID, failedAttempts int, lockedUntil *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	client, ok := f.clients[clientID]
	if !ok {
		return authDomain.ErrClientNotFound
	}
	client.FailedAttempts = failedAttempts
	client.LockedUntil = lockedUntil
	return nil
}

func clientInput() *authDomain.CreateClientInput {
	return &authDomain.CreateClientInput{
		Name:       "hypervisor-1",
		IsActive:   true,
		UsageTypes: []secretsDomain.UsageType{},
	}
}
