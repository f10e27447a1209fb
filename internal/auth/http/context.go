// Package http provides session endpoints and authentication middleware.
package http

import (
	"context"

	"github.com/allisson/secretd/internal/secrets/session"
)

// sessionKey is a context key type for storing the authenticated session.
type sessionKey struct{}

// WithSession stores the authenticated session in the context. Called by the
// session middleware after resolving the bearer token.
func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// GetSession retrieves the authenticated session from the context.
func GetSession(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*session.Session)
	return s, ok
}
