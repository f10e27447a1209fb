// Package store implements the value store: encrypted-at-rest storage of
// secret value bytes keyed by secret UUID. The store holds no policy; it
// trusts its callers to have authorized the operation.
package store

import (
	"context"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/secretd/internal/crypto/domain"
	secretsDomain "github.com/allisson/secretd/internal/secrets/domain"
)

// ValueRepository defines persistence operations for encrypted values.
type ValueRepository interface {
	Upsert(ctx context.Context, value *secretsDomain.EncryptedValue) error
	Get(ctx context.Context, secretUUID uuid.UUID) (*secretsDomain.EncryptedValue, error)
	Delete(ctx context.Context, secretUUID uuid.UUID) error
}

// DekRepository defines persistence operations for data encryption keys.
type DekRepository interface {
	Create(ctx context.Context, dek *cryptoDomain.Dek) error
	Get(ctx context.Context, dekID uuid.UUID) (*cryptoDomain.Dek, error)
	Delete(ctx context.Context, dekID uuid.UUID) error
}
