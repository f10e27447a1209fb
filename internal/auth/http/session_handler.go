package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/secretd/internal/auth/http/dto"
	authUseCase "github.com/allisson/secretd/internal/auth/usecase"
	"github.com/allisson/secretd/internal/httputil"
	"github.com/allisson/secretd/internal/secrets/session"
)

// SessionHandler handles session open and close requests.
type SessionHandler struct {
	clientUseCase authUseCase.ClientUseCase
	sessions      *session.Manager
	logger        *slog.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(
	clientUseCase authUseCase.ClientUseCase,
	sessions *session.Manager,
	logger *slog.Logger,
) *SessionHandler {
	return &SessionHandler{
		clientUseCase: clientUseCase,
		sessions:      sessions,
		logger:        logger,
	}
}

// OpenSessionHandler authenticates a client and opens a session.
// POST /v1/sessions - no authentication required (this is the entry point).
// Returns 201 Created with the bearer token for subsequent requests.
func (h *SessionHandler) OpenSessionHandler(c *gin.Context) {
	var req dto.OpenSessionRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	// Validated by the DTO.
	clientID := uuid.MustParse(req.ClientID)

	client, err := h.clientUseCase.Authenticate(c.Request.Context(), clientID, req.ClientSecret)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	sess, err := h.sessions.Open(client.ID, client.Grants())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSessionResponse(sess))
}

// CloseSessionHandler closes the caller's session.
// DELETE /v1/sessions - requires an authenticated session.
// Returns 204 No Content; the token is invalid afterwards.
func (h *SessionHandler) CloseSessionHandler(c *gin.Context) {
	sess, ok := GetSession(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, errNoSession, h.logger)
		return
	}

	if err := h.sessions.Close(sess.Token); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
