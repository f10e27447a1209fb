package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/allisson/secretd/internal/database"
	apperrors "github.com/allisson/secretd/internal/errors"
	secretsDomain "github.com/allisson/secretd/internal/secrets/domain"
)

// MySQLValueRepository implements encrypted value persistence for MySQL.
// Uses BINARY(16) for UUIDs and BLOB for binary data.
type MySQLValueRepository struct {
	db *sql.DB
}

// NewMySQLValueRepository creates a new MySQLValueRepository.
func NewMySQLValueRepository(db *sql.DB) *MySQLValueRepository {
	return &MySQLValueRepository{db: db}
}

// Upsert inserts or replaces the encrypted value for a secret.
func (m *MySQLValueRepository) Upsert(ctx context.Context, value *secretsDomain.EncryptedValue) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO secret_values (secret_uuid, dek_id, ciphertext, nonce, updated_at)
			  VALUES (?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE dek_id = VALUES(dek_id), ciphertext = VALUES(ciphertext),
			  nonce = VALUES(nonce), updated_at = VALUES(updated_at)`

	secretUUID, err := value.SecretUUID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal secret uuid")
	}

	dekID, err := value.DekID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal dek id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		secretUUID,
		dekID,
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
func (m *MySQLValueRepository) Get(ctx context.Context, secretUUID uuid.UUID) (*secretsDomain.EncryptedValue, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT secret_uuid, dek_id, ciphertext, nonce, updated_at
			  FROM secret_values
			  WHERE secret_uuid = ?`

	id, err := secretUUID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal secret uuid")
	}

	var value secretsDomain.EncryptedValue
	var uuidBytes, dekIDBytes []byte

	err = querier.QueryRowContext(ctx, query, id).Scan(
		&uuidBytes,
		&dekIDBytes,
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

	if err := value.SecretUUID.UnmarshalBinary(uuidBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal secret uuid")
	}
	if err := value.DekID.UnmarshalBinary(dekIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal dek id")
	}

	return &value, nil
}

// Delete removes the encrypted value for a secret. Deleting an absent value
// is not an error.
func (m *MySQLValueRepository) Delete(ctx context.Context, secretUUID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM secret_values WHERE secret_uuid = ?`

	id, err := secretUUID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal secret uuid")
	}

	if _, err := querier.ExecContext(ctx, query, id); err != nil {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, err.Error())
	}
	return nil
}
