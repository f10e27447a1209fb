package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/secretd/internal/errors"
	secretsDomain "github.com/allisson/secretd/internal/secrets/domain"
)

func testValue() *secretsDomain.EncryptedValue {
	return &secretsDomain.EncryptedValue{
		SecretUUID: uuid.Must(uuid.NewRandom()),
		DekID:      uuid.Must(uuid.NewV7()),
		Ciphertext: []byte("ciphertext"),
		Nonce:      []byte("nonce"),
		UpdatedAt:  time.Now().UTC(),
	}
}

func TestPostgreSQLValueRepository_Upsert(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		value := testValue()
		mock.ExpectExec("INSERT INTO secret_values").
			WithArgs(value.SecretUUID, value.DekID, value.Ciphertext, value.Nonce, value.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(1, 1))

		repo := NewPostgreSQLValueRepository(db)
		require.NoError(t, repo.Upsert(ctx, value))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("BackendFailure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("INSERT INTO secret_values").WillReturnError(errors.New("connection reset"))

		repo := NewPostgreSQLValueRepository(db)
		err = repo.Upsert(ctx, testValue())
		assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
	})
}

func TestPostgreSQLValueRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		value := testValue()
		rows := sqlmock.NewRows([]string{"secret_uuid", "dek_id", "ciphertext", "nonce", "updated_at"}).
			AddRow(value.SecretUUID, value.DekID, value.Ciphertext, value.Nonce, value.UpdatedAt)
		mock.ExpectQuery("SELECT (.+) FROM secret_values").
			WithArgs(value.SecretUUID).
			WillReturnRows(rows)

		repo := NewPostgreSQLValueRepository(db)
		got, err := repo.Get(ctx, value.SecretUUID)
		require.NoError(t, err)
		assert.Equal(t, value.SecretUUID, got.SecretUUID)
		assert.Equal(t, value.DekID, got.DekID)
		assert.Equal(t, value.Ciphertext, got.Ciphertext)
	})

	t.Run("NotSet", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT (.+) FROM secret_values").
			WillReturnRows(sqlmock.NewRows([]string{"secret_uuid", "dek_id", "ciphertext", "nonce", "updated_at"}))

		repo := NewPostgreSQLValueRepository(db)
		_, err = repo.Get(ctx, uuid.Must(uuid.NewRandom()))
		assert.ErrorIs(t, err, secretsDomain.ErrSecretValueNotSet)
		assert.ErrorIs(t, err, apperrors.ErrValueNotSet)
	})

	t.Run("BackendFailure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT (.+) FROM secret_values").WillReturnError(errors.New("connection reset"))

		repo := NewPostgreSQLValueRepository(db)
		_, err = repo.Get(ctx, uuid.Must(uuid.NewRandom()))
		assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
	})
}

func TestPostgreSQLValueRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		secretUUID := uuid.Must(uuid.NewRandom())
		mock.ExpectExec("DELETE FROM secret_values").
			WithArgs(secretUUID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewPostgreSQLValueRepository(db)
		require.NoError(t, repo.Delete(ctx, secretUUID))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("AbsentValueIsNotAnError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("DELETE FROM secret_values").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewPostgreSQLValueRepository(db)
		assert.NoError(t, repo.Delete(ctx, uuid.Must(uuid.NewRandom())))
	})
}
