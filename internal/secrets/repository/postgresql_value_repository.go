// Package repository implements persistence for encrypted secret values.
// Repositories support both PostgreSQL and MySQL and participate in
// transactions carried through the context.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/allisson/secretd/internal/database"
	apperrors "github.com/allisson/secretd/internal/errors"
	secretsDomain "github.com/allisson/secretd/internal/secrets/domain"
)

// PostgreSQLValueRepository implements encrypted value persistence for
// PostgreSQL.
type PostgreSQLValueRepository struct {
	db *sql.DB
}

// NewPostgreSQLValueRepository creates a new PostgreSQLValueRepository.
func NewPostgreSQLValueRepository(db *sql.DB) *PostgreSQLValueRepository {
	return &PostgreSQLValueRepository{db: db}
}

// Upsert inserts or replaces the encrypted value for a secret.
func (p *PostgreSQLValueRepository) Upsert(ctx context.Context, value *secretsDomain.EncryptedValue) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO secret_values (secret_uuid, dek_id, ciphertext, nonce, updated_at)
			  VALUES ($1, $2, $3, $4, $5)
			  ON CONFLICT (secret_uuid)
			  DO UPDATE SET dek_id = $2, ciphertext = $3, nonce = $4, updated_at = $5`

	_, err := querier.ExecContext(
		ctx,
		query,
		value.SecretUUID,
		value.DekID,
		value.Ciphertext,
		value.Nonce,
		value.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, err.Error())
	}
	return nil
}

// Get retrieves the encrypted value for a secret.
func (p *PostgreSQLValueRepository) Get(ctx context.Context, secretUUID uuid.UUID) (*secretsDomain.EncryptedValue, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT secret_uuid, dek_id, ciphertext, nonce, updated_at
			  FROM secret_values
			  WHERE secret_uuid = $1`

	var value secretsDomain.EncryptedValue
	err := querier.QueryRowContext(ctx, query, secretUUID).Scan(
		&value.SecretUUID,
		&value.DekID,
		&value.Ciphertext,
		&value.Nonce,
		&value.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, secretsDomain.ErrSecretValueNotSet
		}
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err.Error())
	}

	return &value, nil
}

// Delete removes the encrypted value for a secret. Deleting an absent value
// is not an error.
func (p *PostgreSQLValueRepository) Delete(ctx context.Context, secretUUID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM secret_values WHERE secret_uuid = $1`

	if _, err := querier.ExecContext(ctx, query, secretUUID); err != nil {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, err.Error())
	}
	return nil
}
