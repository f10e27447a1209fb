package dto

import (
	"time"

	"github.com/allisson/secretd/internal/secrets/session"
)

// SessionResponse is returned when a session is opened. The token is a
// bearer credential for every subsequent request; it is only returned here.
type SessionResponse struct {
	Token    string    `json:"token"`
	ClientID string    `json:"client_id"`
	OpenedAt time.Time `json:"opened_at"`
}

// NewSessionResponse maps a session to its response payload.
func NewSessionResponse(s *session.Session) SessionResponse {
	return SessionResponse{
		Token:    s.Token,
		ClientID: s.ClientID.String(),
		OpenedAt: s.OpenedAt,
	}
}
