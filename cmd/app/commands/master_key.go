package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"time"

	cryptoDomain "github.com/allisson/secretd/internal/crypto/domain"
	cryptoService "github.com/allisson/secretd/internal/crypto/service"
)

// RunCreateMasterKey generates a cryptographically secure 32-byte master key
// for envelope encryption and prints the environment variables to configure
// it. Key material is zeroed from memory after encoding. If keyID is empty, a
// default ID in the format "master-key-YYYY-MM-DD" is generated.
//
// When kmsKeyURI is set the key is wrapped through the KMS keeper before
// output and the service must run with the same KMS_KEY_URI so it can unwrap
// the key at startup. Without a URI the key is printed as plain base64, which
// is only acceptable for development and test environments.
func RunCreateMasterKey(ctx context.Context, writer io.Writer, keyID, kmsKeyURI string) error {
	if keyID == "" {
		keyID = fmt.Sprintf("master-key-%s", time.Now().Format("2006-01-02"))
	}

	masterKey := make([]byte, 32)
	if _, err := rand.Read(masterKey); err != nil {
		return fmt.Errorf("failed to generate master key: %w", err)
	}
	defer cryptoDomain.Zero(masterKey)

	material := masterKey

	if kmsKeyURI != "" {
		kmsService := cryptoService.NewKMSService()
		keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
		if err != nil {
			return fmt.Errorf("failed to open KMS keeper: %w", err)
		}
		defer func() {
			if closeErr := keeper.Close(); closeErr != nil {
				_, _ = fmt.Fprintf(writer, "# warning: failed to close KMS keeper: %v\n", closeErr)
			}
		}()

		material, err = keeper.Encrypt(ctx, masterKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt master key with KMS: %w", err)
		}

		_, _ = fmt.Fprintln(writer, "# Master Key Configuration (KMS mode)")
		_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	} else {
		_, _ = fmt.Fprintln(writer, "# Master Key Configuration (plain mode, development only)")
	}

	encodedKey := base64.StdEncoding.EncodeToString(material)

	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintf(writer, "MASTER_KEYS=\"%s:%s\"\n", keyID, encodedKey)
	_, _ = fmt.Fprintf(writer, "ACTIVE_MASTER_KEY_ID=\"%s\"\n", keyID)
	_, _ = fmt.Fprintln(writer, "#")
	_, _ = fmt.Fprintln(writer, "# For key rotation, append new entries to MASTER_KEYS and point")
	_, _ = fmt.Fprintln(writer, "# ACTIVE_MASTER_KEY_ID at the new key; old keys keep unwrapping")
	_, _ = fmt.Fprintln(writer, "# values written before the rotation.")

	return nil
}
