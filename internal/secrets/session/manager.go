package session

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/allisson/secretd/internal/errors"
	"github.com/allisson/secretd/internal/secrets/guard"
)

const tokenBytes = 32

// Manager issues and tracks sessions by bearer token.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	logger   *slog.Logger
}

// NewManager creates a Manager.
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

// Open creates a session for an authenticated client and returns it with a
// freshly issued bearer token.
func (m *Manager) Open(clientID uuid.UUID, grants guard.Grants) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate session token")
	}

	session := &Session{
		Token:    token,
		ClientID: clientID,
		Grants:   grants,
		OpenedAt: time.Now().UTC(),
	}

	m.mu.Lock()
	m.sessions[token] = session
	m.mu.Unlock()

	m.logger.Info("session opened", "client_id", clientID)
	return session, nil
}

// Get resolves a bearer token to its session. A token that was never issued
// or was already closed yields ErrUnauthorized.
func (m *Manager) Get(token string) (*Session, error) {
	m.mu.RLock()
	session, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "unknown session token")
	}
	return session, nil
}

// Close closes the session for the token and forgets it. Closing an unknown
// token yields ErrUnauthorized; closing a session twice through the manager
// behaves the same, since the first close removes the token.
func (m *Manager) Close(token string) error {
	m.mu.Lock()
	session, ok := m.sessions[token]
	delete(m.sessions, token)
	m.mu.Unlock()
	if !ok {
		return apperrors.Wrap(apperrors.ErrUnauthorized, "unknown session token")
	}

	session.Close()
	m.logger.Info("session closed", "client_id", session.ClientID)
	return nil
}

// CloseAll closes every open session. Used on server shutdown.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		sessions = append(sessions, session)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}

// Count returns the number of open sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func generateToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
