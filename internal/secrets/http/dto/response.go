package dto

import (
	"encoding/base64"
	"time"

	"github.com/google/uuid"

	secretsDomain "github.com/allisson/secretd/internal/secrets/domain"
)

// SecretResponse is the JSON representation of a secret's metadata. The
// value is never part of it.
type SecretResponse struct {
	UUID      string    `json:"uuid"`
	UsageType string    `json:"usage_type"`
	UsageID   string    `json:"usage_id"`
	Ephemeral bool      `json:"ephemeral"`
	Private   bool      `json:"private"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSecretResponse maps a secret to its response payload.
func NewSecretResponse(secret *secretsDomain.Secret) SecretResponse {
	return SecretResponse{
		UUID:      secret.UUID.String(),
		UsageType: secret.UsageType.String(),
		UsageID:   secret.UsageID,
		Ephemeral: secret.Ephemeral,
		Private:   secret.Private,
		CreatedAt: secret.CreatedAt,
		UpdatedAt: secret.UpdatedAt,
	}
}

// ValueResponse carries a secret value, base64 encoded.
type ValueResponse struct {
	Value string `json:"value"`
}

// NewValueResponse encodes a raw value for transport.
func NewValueResponse(value []byte) ValueResponse {
	return ValueResponse{Value: base64.StdEncoding.EncodeToString(value)}
}

// ListSecretsResponse is the snapshot of visible secret UUIDs.
type ListSecretsResponse struct {
	UUIDs []string `json:"uuids"`
}

// NewListSecretsResponse maps UUIDs to their string form.
func NewListSecretsResponse(uuids []uuid.UUID) ListSecretsResponse {
	out := ListSecretsResponse{UUIDs: make([]string, 0, len(uuids))}
	for _, id := range uuids {
		out.UUIDs = append(out.UUIDs, id.String())
	}
	return out
}
