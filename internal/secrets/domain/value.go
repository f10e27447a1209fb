package domain

import (
	"time"

	"github.com/google/uuid"
)

// EncryptedValue is the persisted form of a secret value: the ciphertext, the
// nonce used to produce it, and a reference to the DEK that encrypts it.
// Plaintext never appears on this struct.
type EncryptedValue struct {
	SecretUUID uuid.UUID
	DekID      uuid.UUID
	Ciphertext []byte
	Nonce      []byte
	UpdatedAt  time.Time
}
