package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/secretd/internal/auth/domain"
	authService "github.com/allisson/secretd/internal/auth/service"
	apperrors "github.com/allisson/secretd/internal/errors"
	secretsDomain "github.com/allisson/secretd/internal/secrets/domain"
)

// memClientRepo is an in-memory ClientRepository.
type memClientRepo struct {
	mu      sync.Mutex
	clients map[uuid.UUID]*authDomain.Client
}

func newMemClientRepo() *memClientRepo {
	return &memClientRepo{clients: make(map[uuid.UUID]*authDomain.Client)}
}

func (m *memClientRepo) Create(_ context.Context, client *authDomain.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *client
	m.clients[client.ID] = &copied
	return nil
}

func (m *memClientRepo) Get(_ context.Context, clientID uuid.UUID) (*authDomain.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	client, ok := m.clients[clientID]
	if !ok {
		return nil, authDomain.ErrClientNotFound
	}
	copied := *client
	return &copied, nil
}

func (m *memClientRepo) Update(_ context.Context, client *authDomain.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *client
	m.clients[client.ID] = &copied
	return nil
}

func (m *memClientRepo) UpdateLockState(_ context.Context, clientID uuid.UUID, failedAttempts int, lockedUntil *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	client, ok := m.clients[clientID]
	if !ok {
		return authDomain.ErrClientNotFound
	}
	client.FailedAttempts = failedAttempts
	client.LockedUntil = lockedUntil
	return nil
}

func newClientUseCase() (ClientUseCase, *memClientRepo) {
	repo := newMemClientRepo()
	return NewClientUseCase(repo, authService.NewSecretService()), repo
}

func createInput() *authDomain.CreateClientInput {
	return &authDomain.CreateClientInput{
		Name:       "hypervisor-1",
		IsActive:   true,
		UsageTypes: []secretsDomain.UsageType{secretsDomain.UsageVolume},
	}
}

func TestClientUseCase_Create(t *testing.T) {
	ctx := context.Background()
	uc, repo := newClientUseCase()

	output, err := uc.Create(ctx, createInput())
	require.NoError(t, err)
	assert.NotEmpty(t, output.PlainSecret)

	stored, err := repo.Get(ctx, output.ID)
	require.NoError(t, err)
	assert.NotEqual(t, output.PlainSecret, stored.Secret)
	assert.Equal(t, "hypervisor-1", stored.Name)
}

func TestClientUseCase_Authenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		uc, _ := newClientUseCase()
		output, err := uc.Create(ctx, createInput())
		require.NoError(t, err)

		client, err := uc.Authenticate(ctx, output.ID, output.PlainSecret)
		require.NoError(t, err)
		assert.Equal(t, output.ID, client.ID)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		uc, _ := newClientUseCase()
		output, err := uc.Create(ctx, createInput())
		require.NoError(t, err)

		_, err = uc.Authenticate(ctx, output.ID, "wrong")
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
	})

	t.Run("UnknownClientLooksLikeWrongSecret", func(t *testing.T) {
		uc, _ := newClientUseCase()
		_, err := uc.Authenticate(ctx, uuid.Must(uuid.NewV7()), "whatever")
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
	})

	t.Run("InactiveClient", func(t *testing.T) {
		uc, _ := newClientUseCase()
		input := createInput()
		input.IsActive = false
		output, err := uc.Create(ctx, input)
		require.NoError(t, err)

		_, err = uc.Authenticate(ctx, output.ID, output.PlainSecret)
		assert.ErrorIs(t, err, authDomain.ErrClientInactive)
	})

	t.Run("LockoutAfterRepeatedFailures", func(t *testing.T) {
		uc, repo := newClientUseCase()
		output, err := uc.Create(ctx, createInput())
		require.NoError(t, err)

		for i := 0; i < maxFailedAttempts; i++ {
			_, err = uc.Authenticate(ctx, output.ID, "wrong")
			assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)
		}

		// Even the right secret is rejected while locked.
		_, err = uc.Authenticate(ctx, output.ID, output.PlainSecret)
		assert.ErrorIs(t, err, authDomain.ErrClientLocked)
		assert.ErrorIs(t, err, apperrors.ErrLocked)

		require.NoError(t, uc.Unlock(ctx, output.ID))

		client, err := uc.Authenticate(ctx, output.ID, output.PlainSecret)
		require.NoError(t, err)
		assert.Zero(t, client.FailedAttempts)

		stored, err := repo.Get(ctx, output.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.LockedUntil)
	})

	t.Run("SuccessResetsFailedAttempts", func(t *testing.T) {
		uc, repo := newClientUseCase()
		output, err := uc.Create(ctx, createInput())
		require.NoError(t, err)

		_, err = uc.Authenticate(ctx, output.ID, "wrong")
		assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)

		_, err = uc.Authenticate(ctx, output.ID, output.PlainSecret)
		require.NoError(t, err)

		stored, err := repo.Get(ctx, output.ID)
		require.NoError(t, err)
		assert.Zero(t, stored.FailedAttempts)
	})
}

func TestClientUseCase_Deactivate(t *testing.T) {
	ctx := context.Background()
	uc, _ := newClientUseCase()

	output, err := uc.Create(ctx, createInput())
	require.NoError(t, err)

	require.NoError(t, uc.Deactivate(ctx, output.ID))

	_, err = uc.Authenticate(ctx, output.ID, output.PlainSecret)
	assert.ErrorIs(t, err, authDomain.ErrClientInactive)
}
