package domain

import (
	"github.com/allisson/secretd/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors to
// provide context for cryptographic failures.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is
	// not supported. Supported algorithms: AESGCM, ChaCha20.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the cryptographic key size is invalid.
	// All keys (master keys and DEKs) must be exactly 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrDecryptionFailed indicates a decryption operation failed. The specific
	// cause (wrong key, tampered ciphertext, invalid nonce) is not disclosed to
	// prevent information leakage.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrMasterKeyNotFound indicates the master key referenced by a DEK is not
	// present in the keychain.
	ErrMasterKeyNotFound = errors.Wrap(errors.ErrNotFound, "master key not found")

	// ErrDekNotFound indicates the referenced data encryption key does not exist.
	ErrDekNotFound = errors.Wrap(errors.ErrNotFound, "dek not found")

	// Master key chain loading errors.
	ErrMasterKeysNotSet        = errors.New("MASTER_KEYS environment variable is not set")
	ErrActiveMasterKeyIDNotSet = errors.New("ACTIVE_MASTER_KEY_ID environment variable is not set")
	ErrInvalidMasterKeysFormat = errors.New("invalid MASTER_KEYS format, expected \"id:base64key\" entries")
	ErrInvalidMasterKeyBase64  = errors.New("invalid master key base64 encoding")
	ErrActiveMasterKeyNotFound = errors.New("active master key not found in keychain")
)
