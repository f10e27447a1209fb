// Package service provides cryptographic services for envelope encryption.
// Implements AEAD ciphers (AES-256-GCM, ChaCha20-Poly1305) and DEK management.
package service

import (
	cryptoDomain "github.com/allisson/secretd/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext with optional AAD and returns ciphertext and nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext using the provided nonce and AAD.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyManager defines the interface for managing DEKs in envelope encryption.
type KeyManager interface {
	// CreateDek creates a new DEK wrapped with the master key.
	CreateDek(
		masterKey *cryptoDomain.MasterKey,
		alg cryptoDomain.Algorithm,
	) (cryptoDomain.Dek, error)

	// DecryptDek unwraps a DEK using the master key. The caller must zero the
	// returned key material after use.
	DecryptDek(dek *cryptoDomain.Dek, masterKey *cryptoDomain.MasterKey) ([]byte, error)
}
