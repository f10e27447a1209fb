package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/secretd/internal/crypto/domain"
	"github.com/allisson/secretd/internal/database"
	apperrors "github.com/allisson/secretd/internal/errors"
)

// MySQLDekRepository implements DEK persistence for MySQL.
// Uses BINARY(16) for UUIDs and BLOB for binary data.
type MySQLDekRepository struct {
	db *sql.DB
}

// NewMySQLDekRepository creates a new MySQLDekRepository.
func NewMySQLDekRepository(db *sql.DB) *MySQLDekRepository {
	return &MySQLDekRepository{db: db}
}

// Create inserts a new DEK.
func (m *MySQLDekRepository) Create(ctx context.Context, dek *cryptoDomain.Dek) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO deks (id, master_key_id, algorithm, encrypted_key, nonce, created_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	id, err := dek.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal dek id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		dek.MasterKeyID,
		dek.Algorithm,
		dek.EncryptedKey,
		dek.Nonce,
		dek.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, err.Error())
	}
	return nil
}

// Get retrieves a DEK by its ID.
func (m *MySQLDekRepository) Get(ctx context.Context, dekID uuid.UUID) (*cryptoDomain.Dek, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, master_key_id, algorithm, encrypted_key, nonce, created_at
			  FROM deks
			  WHERE id = ?`

	id, err := dekID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal dek id")
	}

	var dek cryptoDomain.Dek
	var idBytes []byte

	err = querier.QueryRowContext(ctx, query, id).Scan(
		&idBytes,
		&dek.MasterKeyID,
		&dek.Algorithm,
		&dek.EncryptedKey,
		&dek.Nonce,
		&dek.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, cryptoDomain.ErrDekNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrStorageUnavailable, err.Error())
	}

	if err := dek.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal dek id")
	}

	return &dek, nil
}

// Delete removes a DEK. Deleting an absent DEK is not an error.
func (m *MySQLDekRepository) Delete(ctx context.Context, dekID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM deks WHERE id = ?`

	id, err := dekID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal dek id")
	}

	if _, err := querier.ExecContext(ctx, query, id); err != nil {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, err.Error())
	}
	return nil
}
