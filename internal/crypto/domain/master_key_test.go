package domain

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validKey() string {
	return base64.StdEncoding.EncodeToString(make([]byte, 32))
}

func TestNewMasterKeyChain(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mkc, err := NewMasterKeyChain("k1", &MasterKey{ID: "k1", Key: make([]byte, 32)})
		require.NoError(t, err)
		defer mkc.Close()

		assert.Equal(t, "k1", mkc.ActiveMasterKeyID())
		key, ok := mkc.Get("k1")
		assert.True(t, ok)
		assert.Equal(t, "k1", key.ID)
	})

	t.Run("InvalidKeySize", func(t *testing.T) {
		_, err := NewMasterKeyChain("k1", &MasterKey{ID: "k1", Key: make([]byte, 16)})
		assert.ErrorIs(t, err, ErrInvalidKeySize)
	})

	t.Run("ActiveKeyMissing", func(t *testing.T) {
		_, err := NewMasterKeyChain("k2", &MasterKey{ID: "k1", Key: make([]byte, 32)})
		assert.ErrorIs(t, err, ErrActiveMasterKeyNotFound)
	})
}

func TestLoadMasterKeyChainFromEnv(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		t.Setenv("MASTER_KEYS", "k1:"+validKey()+",k2:"+validKey())
		t.Setenv("ACTIVE_MASTER_KEY_ID", "k2")

		mkc, err := LoadMasterKeyChainFromEnv()
		require.NoError(t, err)
		defer mkc.Close()

		assert.Equal(t, "k2", mkc.ActiveMasterKeyID())
		_, ok := mkc.Get("k1")
		assert.True(t, ok)
		_, ok = mkc.Get("k2")
		assert.True(t, ok)
	})

	t.Run("MasterKeysNotSet", func(t *testing.T) {
		t.Setenv("MASTER_KEYS", "")
		t.Setenv("ACTIVE_MASTER_KEY_ID", "k1")

		_, err := LoadMasterKeyChainFromEnv()
		assert.ErrorIs(t, err, ErrMasterKeysNotSet)
	})

	t.Run("ActiveIDNotSet", func(t *testing.T) {
		t.Setenv("MASTER_KEYS", "k1:"+validKey())
		t.Setenv("ACTIVE_MASTER_KEY_ID", "")

		_, err := LoadMasterKeyChainFromEnv()
		assert.ErrorIs(t, err, ErrActiveMasterKeyIDNotSet)
	})

	t.Run("InvalidFormat", func(t *testing.T) {
		t.Setenv("MASTER_KEYS", "no-separator")
		t.Setenv("ACTIVE_MASTER_KEY_ID", "k1")

		_, err := LoadMasterKeyChainFromEnv()
		assert.ErrorIs(t, err, ErrInvalidMasterKeysFormat)
	})

	t.Run("InvalidBase64", func(t *testing.T) {
		t.Setenv("MASTER_KEYS", "k1:!!!not-base64!!!")
		t.Setenv("ACTIVE_MASTER_KEY_ID", "k1")

		_, err := LoadMasterKeyChainFromEnv()
		assert.ErrorIs(t, err, ErrInvalidMasterKeyBase64)
	})

	t.Run("WrongKeySize", func(t *testing.T) {
		short := base64.StdEncoding.EncodeToString(make([]byte, 16))
		t.Setenv("MASTER_KEYS", "k1:"+short)
		t.Setenv("ACTIVE_MASTER_KEY_ID", "k1")

		_, err := LoadMasterKeyChainFromEnv()
		assert.ErrorIs(t, err, ErrInvalidKeySize)
	})

	t.Run("ActiveKeyNotInChain", func(t *testing.T) {
		t.Setenv("MASTER_KEYS", "k1:"+validKey())
		t.Setenv("ACTIVE_MASTER_KEY_ID", "k9")

		_, err := LoadMasterKeyChainFromEnv()
		assert.ErrorIs(t, err, ErrActiveMasterKeyNotFound)
	})
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		input   string
		want    Algorithm
		wantErr bool
	}{
		{"aes-gcm", AESGCM, false},
		{"chacha20-poly1305", ChaCha20, false},
		{"des", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			alg, err := ParseAlgorithm(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, alg)
		})
	}
}
