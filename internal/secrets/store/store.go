package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/secretd/internal/crypto/domain"
	cryptoService "github.com/allisson/secretd/internal/crypto/service"
	"github.com/allisson/secretd/internal/database"
	apperrors "github.com/allisson/secretd/internal/errors"
	secretsDomain "github.com/allisson/secretd/internal/secrets/domain"
)

// Config holds value store limits and retry behavior.
type Config struct {
	// MaxValueSize is the size ceiling in bytes for persisted values.
	// Zero means unbounded.
	MaxValueSize int
	// MaxEphemeralValueSize is the size ceiling in bytes for ephemeral values.
	// Zero means unbounded.
	MaxEphemeralValueSize int
	// RetryBackoff is the delay before the single retry performed after a
	// transient storage failure.
	RetryBackoff time.Duration
}

// Store holds secret values keyed by secret UUID.
//
// Non-ephemeral values are envelope encrypted (a fresh DEK per write, wrapped
// by the active master key) and written through to the backend before Put
// returns. Ephemeral values live only in process memory and never touch
// durable storage.
//
// Get, Put and Purge for a given UUID are serialized against each other;
// operations on distinct UUIDs proceed independently. Transient backend
// failures are retried once with a bounded backoff before surfacing
// ErrStorageUnavailable to the caller.
type Store struct {
	cfg          Config
	txManager    database.TxManager
	valueRepo    ValueRepository
	dekRepo      DekRepository
	keychain     *cryptoDomain.MasterKeyChain
	aeadManager  cryptoService.AEADManager
	keyManager   cryptoService.KeyManager
	dekAlgorithm cryptoDomain.Algorithm
	logger       *slog.Logger

	locks *lockTable

	ephemeralMu sync.RWMutex
	ephemeral   map[uuid.UUID][]byte
}

// New creates a Store with the provided collaborators.
func New(
	cfg Config,
	txManager database.TxManager,
	valueRepo ValueRepository,
	dekRepo DekRepository,
	keychain *cryptoDomain.MasterKeyChain,
	aeadManager cryptoService.AEADManager,
	keyManager cryptoService.KeyManager,
	dekAlgorithm cryptoDomain.Algorithm,
	logger *slog.Logger,
) *Store {
	return &Store{
		cfg:          cfg,
		txManager:    txManager,
		valueRepo:    valueRepo,
		dekRepo:      dekRepo,
		keychain:     keychain,
		aeadManager:  aeadManager,
		keyManager:   keyManager,
		dekAlgorithm: dekAlgorithm,
		logger:       logger,
		locks:        newLockTable(),
		ephemeral:    make(map[uuid.UUID][]byte),
	}
}

// Put stores value as the secret's current value, overwriting any previous
// one. Returns ErrValueTooLarge if the value exceeds the configured ceiling
// for the secret's storage class.
func (s *Store) Put(ctx context.Context, secret *secretsDomain.Secret, value []byte) error {
	limit := s.cfg.MaxValueSize
	if secret.Ephemeral {
		limit = s.cfg.MaxEphemeralValueSize
	}
	if limit > 0 && len(value) > limit {
		return apperrors.Wrapf(apperrors.ErrValueTooLarge, "value is %d bytes, ceiling is %d", len(value), limit)
	}

	release := s.locks.acquire(secret.UUID)
	defer release()

	if secret.Ephemeral {
		s.ephemeralMu.Lock()
		s.ephemeral[secret.UUID] = append([]byte(nil), value...)
		s.ephemeralMu.Unlock()
		return nil
	}

	return s.putPersisted(ctx, secret.UUID, value)
}

// putPersisted encrypts value with a fresh DEK and writes both through in a
// single transaction. The DEK of a replaced value is removed in the same
// transaction so no orphaned keys accumulate.
func (s *Store) putPersisted(ctx context.Context, secretUUID uuid.UUID, value []byte) error {
	masterKey, found := s.keychain.Get(s.keychain.ActiveMasterKeyID())
	if !found {
		return cryptoDomain.ErrMasterKeyNotFound
	}

	dek, err := s.keyManager.CreateDek(masterKey, s.dekAlgorithm)
	if err != nil {
		return err
	}

	dekKey, err := s.keyManager.DecryptDek(&dek, masterKey)
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(dekKey)

	cipher, err := s.aeadManager.CreateCipher(dekKey, s.dekAlgorithm)
	if err != nil {
		return err
	}

	// The UUID as AAD binds the ciphertext to its secret.
	ciphertext, nonce, err := cipher.Encrypt(value, secretUUID[:])
	if err != nil {
		return err
	}

	encrypted := &secretsDomain.EncryptedValue{
		SecretUUID: secretUUID,
		DekID:      dek.ID,
		Ciphertext: ciphertext,
		Nonce:      nonce,
		UpdatedAt:  time.Now().UTC(),
	}

	return s.withRetry(ctx, func() error {
		previous, err := s.valueRepo.Get(ctx, secretUUID)
		if err != nil && !apperrors.Is(err, apperrors.ErrValueNotSet) {
			return err
		}

		return s.txManager.WithTx(ctx, func(txCtx context.Context) error {
			if err := s.dekRepo.Create(txCtx, &dek); err != nil {
				return err
			}
			if err := s.valueRepo.Upsert(txCtx, encrypted); err != nil {
				return err
			}
			if previous != nil {
				if err := s.dekRepo.Delete(txCtx, previous.DekID); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// Get returns the secret's current value. Returns ErrSecretValueNotSet if no
// value was ever stored.
func (s *Store) Get(ctx context.Context, secret *secretsDomain.Secret) ([]byte, error) {
	release := s.locks.acquire(secret.UUID)
	defer release()

	if secret.Ephemeral {
		s.ephemeralMu.RLock()
		value, ok := s.ephemeral[secret.UUID]
		s.ephemeralMu.RUnlock()
		if !ok {
			return nil, secretsDomain.ErrSecretValueNotSet
		}
		return append([]byte(nil), value...), nil
	}

	var plaintext []byte
	err := s.withRetry(ctx, func() error {
		encrypted, err := s.valueRepo.Get(ctx, secret.UUID)
		if err != nil {
			return err
		}

		dek, err := s.dekRepo.Get(ctx, encrypted.DekID)
		if err != nil {
			return err
		}

		masterKey, found := s.keychain.Get(dek.MasterKeyID)
		if !found {
			return cryptoDomain.ErrMasterKeyNotFound
		}

		dekKey, err := s.keyManager.DecryptDek(dek, masterKey)
		if err != nil {
			return err
		}
		defer cryptoDomain.Zero(dekKey)

		cipher, err := s.aeadManager.CreateCipher(dekKey, dek.Algorithm)
		if err != nil {
			return err
		}

		plaintext, err = cipher.Decrypt(encrypted.Ciphertext, encrypted.Nonce, secret.UUID[:])
		if err != nil {
			return cryptoDomain.ErrDecryptionFailed
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return plaintext, nil
}

// Purge removes any stored value for the secret. Idempotent: purging a secret
// with no value is not an error.
func (s *Store) Purge(ctx context.Context, secretUUID uuid.UUID) error {
	release := s.locks.acquire(secretUUID)
	defer release()

	s.ephemeralMu.Lock()
	delete(s.ephemeral, secretUUID)
	s.ephemeralMu.Unlock()

	return s.withRetry(ctx, func() error {
		existing, err := s.valueRepo.Get(ctx, secretUUID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrValueNotSet) {
				return nil
			}
			return err
		}

		return s.txManager.WithTx(ctx, func(txCtx context.Context) error {
			if err := s.valueRepo.Delete(txCtx, secretUUID); err != nil {
				return err
			}
			return s.dekRepo.Delete(txCtx, existing.DekID)
		})
	})
}

// withRetry runs op and retries it exactly once after a bounded backoff when
// the failure is a transient storage error. All other errors surface
// immediately.
func (s *Store) withRetry(ctx context.Context, op func() error) error {
	err := op()
	if err == nil || !apperrors.Is(err, apperrors.ErrStorageUnavailable) {
		return err
	}

	s.logger.Warn("transient storage failure, retrying once",
		slog.Duration("backoff", s.cfg.RetryBackoff),
		slog.Any("error", err),
	)

	select {
	case <-ctx.Done():
		return err
	case <-time.After(s.cfg.RetryBackoff):
	}

	return op()
}
