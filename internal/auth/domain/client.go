// Package domain defines authentication domain models for the secret
// service. Clients authenticate with a secret and receive sessions carrying
// their grants: the usage types they may touch and whether they may mutate.
package domain

import (
	"time"

	"github.com/google/uuid"

	secretsDomain "github.com/allisson/secretd/internal/secrets/domain"
	"github.com/allisson/secretd/internal/secrets/guard"
)

// Client represents an API client that can open sessions.
type Client struct {
	ID             uuid.UUID // UUIDv7
	Secret         string    //nolint:gosec // hashed client secret (not plaintext)
	Name           string
	IsActive       bool
	UsageTypes     []secretsDomain.UsageType // empty means all usage types
	ReadOnly       bool
	FailedAttempts int
	LockedUntil    *time.Time // nil if not locked
	CreatedAt      time.Time
}

// Grants converts the client's stored permissions into the form the access
// guard evaluates. An empty UsageTypes list grants every usage type.
func (c *Client) Grants() guard.Grants {
	grants := guard.Grants{ReadOnly: c.ReadOnly}
	if len(c.UsageTypes) > 0 {
		grants.UsageTypes = make(map[secretsDomain.UsageType]bool, len(c.UsageTypes))
		for _, usageType := range c.UsageTypes {
			grants.UsageTypes[usageType] = true
		}
	}
	return grants
}

// Locked reports whether the client is currently locked out.
func (c *Client) Locked(now time.Time) bool {
	return c.LockedUntil != nil && c.LockedUntil.After(now)
}

// CreateClientInput holds the fields for creating a client.
type CreateClientInput struct {
	Name       string
	IsActive   bool
	UsageTypes []secretsDomain.UsageType
	ReadOnly   bool
}

// CreateClientOutput is returned on client creation. PlainSecret is only
// available here; the stored copy is an Argon2id hash.
type CreateClientOutput struct {
	ID          uuid.UUID
	PlainSecret string
}
