package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/secretd/internal/crypto/domain"
	apperrors "github.com/allisson/secretd/internal/errors"
)

func testDek() *cryptoDomain.Dek {
	return &cryptoDomain.Dek{
		ID:           uuid.Must(uuid.NewV7()),
		MasterKeyID:  "mk-1",
		Algorithm:    cryptoDomain.AESGCM,
		EncryptedKey: []byte("wrapped-key"),
		Nonce:        []byte("nonce"),
		CreatedAt:    time.Now().UTC(),
	}
}

func TestPostgreSQLDekRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		dek := testDek()
		mock.ExpectExec("INSERT INTO deks").
			WithArgs(dek.ID, dek.MasterKeyID, dek.Algorithm, dek.EncryptedKey, dek.Nonce, dek.CreatedAt).
			WillReturnResult(sqlmock.NewResult(1, 1))

		repo := NewPostgreSQLDekRepository(db)
		require.NoError(t, repo.Create(ctx, dek))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("BackendFailure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("INSERT INTO deks").WillReturnError(errors.New("connection reset"))

		repo := NewPostgreSQLDekRepository(db)
		err = repo.Create(ctx, testDek())
		assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
	})
}

func TestPostgreSQLDekRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		dek := testDek()
		rows := sqlmock.NewRows([]string{"id", "master_key_id", "algorithm", "encrypted_key", "nonce", "created_at"}).
			AddRow(dek.ID, dek.MasterKeyID, dek.Algorithm, dek.EncryptedKey, dek.Nonce, dek.CreatedAt)
		mock.ExpectQuery("SELECT id, master_key_id, algorithm, encrypted_key, nonce, created_at").
			WithArgs(dek.ID).
			WillReturnRows(rows)

		repo := NewPostgreSQLDekRepository(db)
		got, err := repo.Get(ctx, dek.ID)
		require.NoError(t, err)
		assert.Equal(t, dek.ID, got.ID)
		assert.Equal(t, dek.MasterKeyID, got.MasterKeyID)
		assert.Equal(t, dek.EncryptedKey, got.EncryptedKey)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery("SELECT id, master_key_id, algorithm, encrypted_key, nonce, created_at").
			WillReturnError(sql.ErrNoRows)

		repo := NewPostgreSQLDekRepository(db)
		_, err = repo.Get(ctx, uuid.Must(uuid.NewV7()))
		assert.ErrorIs(t, err, cryptoDomain.ErrDekNotFound)
	})
}

func TestPostgreSQLDekRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		dekID := uuid.Must(uuid.NewV7())
		mock.ExpectExec("DELETE FROM deks").
			WithArgs(dekID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewPostgreSQLDekRepository(db)
		assert.NoError(t, repo.Delete(ctx, dekID))
	})

	t.Run("AbsentRowIsNotAnError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec("DELETE FROM deks").WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewPostgreSQLDekRepository(db)
		assert.NoError(t, repo.Delete(ctx, uuid.Must(uuid.NewV7())))
	})
}
