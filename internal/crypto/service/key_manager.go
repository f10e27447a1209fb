package service

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/secretd/internal/crypto/domain"
)

// KeyManagerService implements the KeyManager interface for envelope encryption.
//
// Every persisted secret value is encrypted with its own Data Encryption Key
// (DEK); the DEK itself is wrapped with a master key before being stored.
// Wrapping keys instead of data keeps master key usage constant regardless of
// value sizes and enables master key rotation without re-encrypting values.
type KeyManagerService struct {
	aeadManager AEADManager
}

// NewKeyManager creates a new KeyManagerService using the provided AEADManager
// to construct cipher instances.
func NewKeyManager(aeadManager AEADManager) *KeyManagerService {
	return &KeyManagerService{
		aeadManager: aeadManager,
	}
}

// CreateDek creates a new DEK wrapped with the provided master key.
//
// The DEK is generated as a random 32-byte key, wrapped with the master key
// using the specified algorithm, and the plaintext copy is zeroed before this
// method returns. The resulting Dek is safe to persist.
func (km *KeyManagerService) CreateDek(
	masterKey *cryptoDomain.MasterKey,
	alg cryptoDomain.Algorithm,
) (cryptoDomain.Dek, error) {
	dekKey := make([]byte, 32)
	if _, err := rand.Read(dekKey); err != nil {
		return cryptoDomain.Dek{}, fmt.Errorf("failed to generate DEK: %w", err)
	}
	defer cryptoDomain.Zero(dekKey)

	aead, err := km.aeadManager.CreateCipher(masterKey.Key, alg)
	if err != nil {
		return cryptoDomain.Dek{}, err
	}

	encryptedKey, nonce, err := aead.Encrypt(dekKey, nil)
	if err != nil {
		return cryptoDomain.Dek{}, fmt.Errorf("failed to wrap DEK: %w", err)
	}

	dek := cryptoDomain.Dek{
		ID:           uuid.Must(uuid.NewV7()),
		MasterKeyID:  masterKey.ID,
		Algorithm:    alg,
		EncryptedKey: encryptedKey,
		Nonce:        nonce,
		CreatedAt:    time.Now().UTC(),
	}

	return dek, nil
}

// DecryptDek unwraps a DEK using the master key that wrapped it.
//
// The caller owns the returned key material and must zero it after use with
// cryptoDomain.Zero.
func (km *KeyManagerService) DecryptDek(
	dek *cryptoDomain.Dek,
	masterKey *cryptoDomain.MasterKey,
) ([]byte, error) {
	aead, err := km.aeadManager.CreateCipher(masterKey.Key, dek.Algorithm)
	if err != nil {
		return nil, err
	}

	dekKey, err := aead.Decrypt(dek.EncryptedKey, dek.Nonce, nil)
	if err != nil {
		return nil, cryptoDomain.ErrDecryptionFailed
	}

	return dekKey, nil
}
