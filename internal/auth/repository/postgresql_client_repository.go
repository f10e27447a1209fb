// Package repository implements client persistence for PostgreSQL and
// MySQL with transaction support via database.GetTx().
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/secretd/internal/auth/domain"
	"github.com/allisson/secretd/internal/database"
	apperrors "github.com/allisson/secretd/internal/errors"
	secretsDomain "github.com/allisson/secretd/internal/secrets/domain"
)

func marshalUsageTypes(usageTypes []secretsDomain.UsageType) ([]byte, error) {
	if usageTypes == nil {
		usageTypes = []secretsDomain.UsageType{}
	}
	return json.Marshal(usageTypes)
}

func unmarshalUsageTypes(raw []byte) ([]secretsDomain.UsageType, error) {
	var usageTypes []secretsDomain.UsageType
	if err := json.Unmarshal(raw, &usageTypes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal usage types")
	}
	if len(usageTypes) == 0 {
		return nil, nil
	}
	return usageTypes, nil
}

// PostgreSQLClientRepository implements Client persistence for PostgreSQL.
type PostgreSQLClientRepository struct {
	db *sql.DB
}

// NewPostgreSQLClientRepository creates a new PostgreSQLClientRepository.
func NewPostgreSQLClientRepository(db *sql.DB) *PostgreSQLClientRepository {
	return &PostgreSQLClientRepository{db: db}
}

// Create inserts a new client.
func (p *PostgreSQLClientRepository) Create(ctx context.Context, client *authDomain.Client) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO clients (id, secret, name, is_active, usage_types, read_only, failed_attempts, locked_until, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	usageTypes, err := marshalUsageTypes(client.UsageTypes)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal usage types")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		client.ID,
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
func (p *PostgreSQLClientRepository) Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, secret, name, is_active, usage_types, read_only, failed_attempts, locked_until, created_at
			  FROM clients
			  WHERE id = $1`

	var client authDomain.Client
	var usageTypes []byte

	err := querier.QueryRowContext(ctx, query, clientID).Scan(
		&client.ID,
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

	if client.UsageTypes, err = unmarshalUsageTypes(usageTypes); err != nil {
		return nil, err
	}
	return &client, nil
}

// Update modifies an existing client. The ID and secret stay unchanged.
func (p *PostgreSQLClientRepository) Update(ctx context.Context, client *authDomain.Client) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE clients
			  SET name = $1,
				  is_active = $2,
				  usage_types = $3,
				  read_only = $4
			  WHERE id = $5`

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
		client.ID,
	); err != nil {
		return apperrors.Wrap(err, "failed to update client")
	}
	return nil
}

// UpdateLockState sets the failed attempt counter and lockout deadline.
func (p *PostgreSQLClientRepository) UpdateLockState(
	ctx context.Context,
	clientID uuid.UUID,
	failedAttempts int,
	lockedUntil *time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE clients
			  SET failed_attempts = $1,
				  locked_until = $2
			  WHERE id = $3`

	if _, err := querier.ExecContext(ctx, query, failedAttempts, lockedUntil, clientID); err != nil {
		return apperrors.Wrap(err, "failed to update client lock state")
	}
	return nil
}
