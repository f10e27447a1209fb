// Package repository implements persistence for data encryption keys.
// Repositories support both PostgreSQL and MySQL and participate in
// transactions carried through the context.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/secretd/internal/crypto/domain"
	"github.com/allisson/secretd/internal/database"
	apperrors "github.com/allisson/secretd/internal/errors"
)

// PostgreSQLDekRepository implements DEK persistence for PostgreSQL.
type PostgreSQLDekRepository struct {
	db *sql.DB
}

// NewPostgreSQLDekRepository creates a new PostgreSQLDekRepository.
func NewPostgreSQLDekRepository(db *sql.DB) *PostgreSQLDekRepository {
	return &PostgreSQLDekRepository{db: db}
}

// Create inserts a new DEK.
func (p *PostgreSQLDekRepository) Create(ctx context.Context, dek *cryptoDomain.Dek) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO deks (id, master_key_id, algorithm, encrypted_key, nonce, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		dek.ID,
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
func (p *PostgreSQLDekRepository) Get(ctx context.Context, dekID uuid.UUID) (*cryptoDomain.Dek, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, master_key_id, algorithm, encrypted_key, nonce, created_at
			  FROM deks
			  WHERE id = $1`

	var dek cryptoDomain.Dek
	err := querier.QueryRowContext(ctx, query, dekID).Scan(
		&dek.ID,
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

	return &dek, nil
}

// Delete removes a DEK. Deleting an absent DEK is not an error.
func (p *PostgreSQLDekRepository) Delete(ctx context.Context, dekID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM deks WHERE id = $1`

	if _, err := querier.ExecContext(ctx, query, dekID); err != nil {
		return apperrors.Wrap(apperrors.ErrStorageUnavailable, err.Error())
	}
	return nil
}
