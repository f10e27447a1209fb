// Package domain defines the core domain models and types for secret
// lifecycle management. A secret is a UUID-identified record of metadata; its
// value is held separately by the value store and is never embedded in the
// metadata layer.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Secret represents the metadata of a managed secret.
//
// A secret may exist with no associated value: Define creates the record in a
// "defined, no value" state and SetValue stores the value later. The value
// itself never appears on this struct.
type Secret struct {
	// UUID is the unique, immutable identifier allocated at define time.
	UUID uuid.UUID
	// UsageType categorizes what the secret is used for.
	UsageType UsageType
	// UsageID is an opaque identifier scoped to the usage type (e.g. a volume
	// path or a Ceph client name). Unique within the type unless UsageType is
	// UsageNone.
	UsageID string
	// Ephemeral marks a secret whose value must never touch durable storage.
	Ephemeral bool
	// Private marks a secret whose sensitive metadata is excluded from
	// descriptor exports unless explicitly requested.
	Private bool
	// CreatedAt is the UTC timestamp of the define operation.
	CreatedAt time.Time
	// UpdatedAt is the UTC timestamp of the last metadata or value mutation.
	UpdatedAt time.Time
}

// DefineInput carries the parameters for defining a new secret. It replaces
// positional flag words with named fields.
type DefineInput struct {
	UsageType UsageType
	UsageID   string
	Ephemeral bool
	Private   bool
}

// DescribeOptions controls descriptor generation.
type DescribeOptions struct {
	// IncludePrivate includes usage metadata of private secrets in the output.
	IncludePrivate bool
}
