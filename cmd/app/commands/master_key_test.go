package commands

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCreateMasterKey(t *testing.T) {
	ctx := context.Background()

	t.Run("PlainMode", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, RunCreateMasterKey(ctx, &out, "test-key", ""))

		assert.Contains(t, out.String(), `MASTER_KEYS="test-key:`)
		assert.Contains(t, out.String(), `ACTIVE_MASTER_KEY_ID="test-key"`)
		assert.Contains(t, out.String(), "development only")

		// The printed key must decode to 32 bytes.
		for _, line := range strings.Split(out.String(), "\n") {
			if !strings.HasPrefix(line, `MASTER_KEYS="test-key:`) {
				continue
			}
			encoded := strings.TrimSuffix(strings.TrimPrefix(line, `MASTER_KEYS="test-key:`), `"`)
			key, err := base64.StdEncoding.DecodeString(encoded)
			require.NoError(t, err)
			assert.Len(t, key, 32)
		}
	})

	t.Run("DefaultKeyID", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, RunCreateMasterKey(ctx, &out, "", ""))
		assert.Contains(t, out.String(), `MASTER_KEYS="master-key-`)
	})

	t.Run("KMSMode", func(t *testing.T) {
		kmsKey := make([]byte, 32)
		_, err := rand.Read(kmsKey)
		require.NoError(t, err)
		keyURI := "base64key://" + base64.URLEncoding.EncodeToString(kmsKey)

		var out bytes.Buffer
		require.NoError(t, RunCreateMasterKey(ctx, &out, "test-key", keyURI))

		assert.Contains(t, out.String(), "KMS mode")
		assert.Contains(t, out.String(), `KMS_KEY_URI="`+keyURI+`"`)
		assert.Contains(t, out.String(), `MASTER_KEYS="test-key:`)
	})

	t.Run("InvalidKMSURI", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCreateMasterKey(ctx, &out, "test-key", "bogus://nope")
		require.Error(t, err)
	})
}
