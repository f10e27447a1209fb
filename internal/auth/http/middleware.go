package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/secretd/internal/errors"
	"github.com/allisson/secretd/internal/httputil"
	"github.com/allisson/secretd/internal/secrets/session"
)

// errNoSession signals a handler ran without the session middleware.
var errNoSession = apperrors.Wrap(apperrors.ErrUnauthorized, "no session in context")

// SessionMiddleware authenticates requests via Bearer token in the
// Authorization header.
//
// The token is resolved to an open session through the session manager; the
// session is stored in the request context for handlers to read with
// GetSession(). A missing or malformed header, or a token with no open
// session behind it, ends the request with 401.
func SessionMiddleware(sessions *session.Manager, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		token := strings.TrimSpace(authHeader[len(bearerPrefix):])
		sess, err := sessions.Get(token)
		if err != nil {
			logger.Debug("authentication failed: unknown session token")
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithSession(c.Request.Context(), sess))
		c.Next()
	}
}
