package domain

import (
	"time"

	"github.com/google/uuid"
)

// Dek represents a Data Encryption Key used to encrypt a single secret value.
// The key material is wrapped by a master key before persistence; the plaintext
// DEK is never stored and must be zeroed from memory immediately after use.
type Dek struct {
	ID           uuid.UUID // Unique identifier (UUIDv7)
	MasterKeyID  string    // ID of the master key that wraps this DEK
	Algorithm    Algorithm // Encryption algorithm (AESGCM or ChaCha20)
	EncryptedKey []byte    // The DEK wrapped by the master key
	Nonce        []byte    // Nonce used when wrapping the DEK
	CreatedAt    time.Time
}
