package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/secretd/internal/auth/domain"
	"github.com/allisson/secretd/internal/database"
	apperrors "github.com/allisson/secretd/internal/errors"
)

// MySQLClientRepository implements Client persistence for MySQL.
// Uses BINARY(16) for UUIDs.
type MySQLClientRepository struct {
	db *sql.DB
}

// NewMySQLClientRepository creates a new MySQLClientRepository.
func NewMySQLClientRepository(db *sql.DB) *MySQLClientRepository {
	return &MySQLClientRepository{db: db}
}

// Create inserts a new client.
func (m *MySQLClientRepository) Create(ctx context.Context, client *authDomain.Client) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO clients (id, secret, name, is_active, usage_types, read_only, failed_attempts, locked_until, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := client.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client id")
	}

	usageTypes, err := marshalUsageTypes(client.UsageTypes)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal usage types")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		client.Secret,
		client.Name,
		client.IsActive,
		usageTypes,
		client.ReadOnly,
		client.FailedAttempts,
		client.LockedUntil,
		client.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create client")
	}
	return nil
}

// Get retrieves a client by ID.
func (m *MySQLClientRepository) Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, secret, name, is_active, usage_types, read_only, failed_attempts, locked_until, created_at
			  FROM clients
			  WHERE id = ?`

	id, err := clientID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal client id")
	}

	var client authDomain.Client
	var idBytes, usageTypes []byte

	err = querier.QueryRowContext(ctx, query, id).Scan(
		&idBytes,
		&client.Secret,
		&client.Name,
		&client.IsActive,
		&usageTypes,
		&client.ReadOnly,
		&client.FailedAttempts,
		&client.LockedUntil,
		&client.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, authDomain.ErrClientNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get client")
	}

	if err := client.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal client id")
	}
	if client.UsageTypes, err = unmarshalUsageTypes(usageTypes); err != nil {
		return nil, err
	}
	return &client, nil
}

// Update modifies an existing client. The ID and secret stay unchanged.
func (m *MySQLClientRepository) Update(ctx context.Context, client *authDomain.Client) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE clients
			  SET name = ?,
				  is_active = ?,
				  usage_types = ?,
				  read_only = ?
			  WHERE id = ?`

	id, err := client.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client id")
	}

	usageTypes, err := marshalUsageTypes(client.UsageTypes)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal usage types")
	}

	if _, err := querier.ExecContext(
		ctx,
		query,
		client.Name,
		client.IsActive,
		usageTypes,
		client.ReadOnly,
		id,
	); err != nil {
		return apperrors.Wrap(err, "failed to update client")
	}
	return nil
}

// UpdateLockState sets the failed attempt counter and lockout deadline.
func (m *MySQLClientRepository) UpdateLockState(
	ctx context.Context,
	clientID uuid.UUID,
	failedAttempts int,
	lockedUntil *time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE clients
			  SET failed_attempts = ?,
				  locked_until = ?
			  WHERE id = ?`

	id, err := clientID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal client id")
	}

	if _, err := querier.ExecContext(ctx, query, failedAttempts, lockedUntil, id); err != nil {
		return apperrors.Wrap(err, "failed to update client lock state")
	}
	return nil
}
