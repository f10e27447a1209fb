// Package domain defines core domain models and errors for secrets.
package domain

import (
	"github.com/allisson/secretd/internal/errors"
)

// Secret-specific error definitions.
var (
	// ErrSecretNotFound indicates no secret exists with the given UUID or usage scope.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")

	// ErrUsageScopeTaken indicates another active secret already claims the
	// (usage type, usage id) pair.
	ErrUsageScopeTaken = errors.Wrap(errors.ErrConflict, "usage scope already in use")

	// ErrInvalidUsageType indicates an unrecognized usage type.
	ErrInvalidUsageType = errors.Wrap(errors.ErrInvalidInput, "invalid usage type")

	// ErrSecretValueNotSet indicates the secret exists but no value was ever stored.
	ErrSecretValueNotSet = errors.Wrap(errors.ErrValueNotSet, "secret value not set")
)
