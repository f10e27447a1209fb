package domain

import (
	"github.com/allisson/secretd/internal/errors"
)

var (
	// ErrClientNotFound indicates the client does not exist.
	ErrClientNotFound = errors.Wrap(errors.ErrNotFound, "client not found")

	// ErrInvalidCredentials indicates authentication failed. Deliberately
	// vague so callers cannot distinguish a wrong secret from an unknown
	// client.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrClientInactive indicates the client exists but was deactivated.
	ErrClientInactive = errors.Wrap(errors.ErrUnauthorized, "client is inactive")

	// ErrClientLocked indicates the client is locked out after repeated
	// failed authentication attempts.
	ErrClientLocked = errors.Wrap(errors.ErrLocked, "client is locked")
)
