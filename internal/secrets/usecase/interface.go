package usecase

import (
	"context"

	"github.com/google/uuid"

	secretsDomain "github.com/allisson/secretd/internal/secrets/domain"
	"github.com/allisson/secretd/internal/secrets/session"
)

// Registry defines the interface for secret metadata operations.
type Registry interface {
	Define(ctx context.Context, input secretsDomain.DefineInput) (*secretsDomain.Secret, error)
	LookupByUUID(secretUUID uuid.UUID) (*secretsDomain.Secret, error)
	LookupByUsage(usageType secretsDomain.UsageType, usageID string) (*secretsDomain.Secret, error)
	List() []uuid.UUID
	Undefine(ctx context.Context, secretUUID uuid.UUID) error
	DescribeXML(secretUUID uuid.UUID, opts secretsDomain.DescribeOptions) (string, error)
	Touch(secretUUID uuid.UUID) error
}

// ValueStore defines the interface for secret value storage.
type ValueStore interface {
	Put(ctx context.Context, secret *secretsDomain.Secret, value []byte) error
	Get(ctx context.Context, secret *secretsDomain.Secret) ([]byte, error)
	Purge(ctx context.Context, secretUUID uuid.UUID) error
}

// SessionResolver resolves bearer tokens to open sessions.
type SessionResolver interface {
	Get(token string) (*session.Session, error)
}

// SecretUseCase defines the interface for secret lifecycle operations. Every
// operation takes the caller's session token; the use case resolves it,
// checks the session is still open, and enforces the session's grants before
// touching the registry or the store.
type SecretUseCase interface {
	Define(ctx context.Context, token string, input secretsDomain.DefineInput) (*secretsDomain.Secret, error)
	LookupByUUID(ctx context.Context, token string, secretUUID uuid.UUID) (*secretsDomain.Secret, error)
	LookupByUsage(ctx context.Context, token string, usageType secretsDomain.UsageType, usageID string) (*secretsDomain.Secret, error)
	List(ctx context.Context, token string) ([]uuid.UUID, error)
	DescribeXML(ctx context.Context, token string, secretUUID uuid.UUID, opts secretsDomain.DescribeOptions) (string, error)
	GetValue(ctx context.Context, token string, secretUUID uuid.UUID) ([]byte, error)
	SetValue(ctx context.Context, token string, secretUUID uuid.UUID, value []byte) error
	Undefine(ctx context.Context, token string, secretUUID uuid.UUID) error
}
