package domain

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"sync"
)

// MasterKey represents a cryptographic master key used to wrap Data Encryption
// Keys (DEKs).
//
// Master keys are the root of the envelope encryption hierarchy and should be
// stored in a Key Management Service in production, or loaded from environment
// variables in development and test environments. Keys must be 32 bytes,
// generated with a cryptographically secure random source, and rotated
// periodically.
type MasterKey struct {
	ID  string
	Key []byte
}

// MasterKeyChain manages a collection of master keys with one designated as
// active.
//
// Maintaining multiple keys simultaneously enables rotation: new DEKs are
// wrapped with the active key while old keys remain available to unwrap DEKs
// created before the rotation. The keychain uses sync.Map internally and is
// safe for concurrent access.
type MasterKeyChain struct {
	activeID string
	keys     sync.Map
}

// NewMasterKeyChain creates a keychain from the given keys with activeID as the
// key used to wrap new DEKs. Intended for tests and programmatic assembly; use
// LoadMasterKeyChainFromEnv in the application.
func NewMasterKeyChain(activeID string, keys ...*MasterKey) (*MasterKeyChain, error) {
	mkc := &MasterKeyChain{activeID: activeID}
	for _, key := range keys {
		if len(key.Key) != 32 {
			return nil, fmt.Errorf("%w: master key %s must be 32 bytes, got %d", ErrInvalidKeySize, key.ID, len(key.Key))
		}
		mkc.keys.Store(key.ID, key)
	}
	if _, ok := mkc.Get(activeID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrActiveMasterKeyNotFound, activeID)
	}
	return mkc, nil
}

// ActiveMasterKeyID returns the ID of the master key used to wrap new DEKs.
func (m *MasterKeyChain) ActiveMasterKeyID() string {
	return m.activeID
}

// Get retrieves a master key from the keychain by its ID. The boolean reports
// whether the key was found.
func (m *MasterKeyChain) Get(id string) (*MasterKey, bool) {
	if masterKey, ok := m.keys.Load(id); ok {
		return masterKey.(*MasterKey), ok
	}

	return nil, false
}

// Close securely clears all master keys from memory and resets the keychain.
// Call during application shutdown so key material does not outlive its use.
func (m *MasterKeyChain) Close() {
	m.keys.Range(func(_, value any) bool {
		Zero(value.(*MasterKey).Key)
		return true
	})
	m.activeID = ""
	m.keys.Clear()
}

// LoadMasterKeyChainFromEnv loads master keys from environment variables.
//
// Two variables are read:
//   - MASTER_KEYS: comma-separated list of "id:base64key" entries
//   - ACTIVE_MASTER_KEY_ID: ID of the key used to wrap new DEKs
//
// Each key must decode to exactly 32 bytes. On any error the partially built
// keychain is closed so no key material leaks from a failed initialization.
func LoadMasterKeyChainFromEnv() (*MasterKeyChain, error) {
	raw := os.Getenv("MASTER_KEYS")
	if raw == "" {
		return nil, ErrMasterKeysNotSet
	}

	active := os.Getenv("ACTIVE_MASTER_KEY_ID")
	if active == "" {
		return nil, ErrActiveMasterKeyIDNotSet
	}

	mkc := &MasterKeyChain{activeID: active}

	for part := range strings.SplitSeq(raw, ",") {
		p := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(p) != 2 {
			mkc.Close()
			return nil, fmt.Errorf("%w: %q", ErrInvalidMasterKeysFormat, part)
		}
		id := p[0]
		key, err := base64.StdEncoding.DecodeString(p[1])
		if err != nil {
			mkc.Close()
			return nil, fmt.Errorf("%w for %s: %v", ErrInvalidMasterKeyBase64, id, err)
		}
		if len(key) != 32 {
			Zero(key)
			mkc.Close()
			return nil, fmt.Errorf(
				"%w: master key %s must be 32 bytes, got %d",
				ErrInvalidKeySize,
				id,
				len(key),
			)
		}
		mkc.keys.Store(id, &MasterKey{ID: id, Key: key})
	}

	if _, ok := mkc.Get(active); !ok {
		mkc.Close()
		return nil, fmt.Errorf("%w: ACTIVE_MASTER_KEY_ID=%s", ErrActiveMasterKeyNotFound, active)
	}

	return mkc, nil
}

// LoadMasterKeyChainWithKMS loads master keys whose material is wrapped by a
// remote key management service.
//
// Two variables are read:
//   - MASTER_KEYS: comma-separated list of "id:base64ciphertext" entries,
//     where the ciphertext was produced by the same KMS key
//   - ACTIVE_MASTER_KEY_ID: ID of the key used to wrap new DEKs
//
// Each entry is decrypted through the keeper and must yield exactly 32 bytes
// of key material. On any error the partially built keychain is closed so no
// key material leaks from a failed initialization.
func LoadMasterKeyChainWithKMS(ctx context.Context, keeper KMSKeeper) (*MasterKeyChain, error) {
	raw := os.Getenv("MASTER_KEYS")
	if raw == "" {
		return nil, ErrMasterKeysNotSet
	}

	active := os.Getenv("ACTIVE_MASTER_KEY_ID")
	if active == "" {
		return nil, ErrActiveMasterKeyIDNotSet
	}

	mkc := &MasterKeyChain{activeID: active}

	for part := range strings.SplitSeq(raw, ",") {
		p := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(p) != 2 {
			mkc.Close()
			return nil, fmt.Errorf("%w: %q", ErrInvalidMasterKeysFormat, part)
		}
		id := p[0]
		ciphertext, err := base64.StdEncoding.DecodeString(p[1])
		if err != nil {
			mkc.Close()
			return nil, fmt.Errorf("%w for %s: %v", ErrInvalidMasterKeyBase64, id, err)
		}
		key, err := keeper.Decrypt(ctx, ciphertext)
		if err != nil {
			mkc.Close()
			return nil, fmt.Errorf("failed to unwrap master key %s: %w", id, err)
		}
		if len(key) != 32 {
			Zero(key)
			mkc.Close()
			return nil, fmt.Errorf(
				"%w: master key %s must be 32 bytes, got %d",
				ErrInvalidKeySize,
				id,
				len(key),
			)
		}
		mkc.keys.Store(id, &MasterKey{ID: id, Key: key})
	}

	if _, ok := mkc.Get(active); !ok {
		mkc.Close()
		return nil, fmt.Errorf("%w: ACTIVE_MASTER_KEY_ID=%s", ErrActiveMasterKeyNotFound, active)
	}

	return mkc, nil
}
