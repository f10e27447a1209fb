// Package session manages authenticated handles to the secret service.
// A session is opened for an authenticated client, carries the client's
// grants, and must be presented on every subsequent operation. Closing a
// session invalidates it for new operations while letting in-flight ones
// finish.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/allisson/secretd/internal/errors"
	"github.com/allisson/secretd/internal/secrets/guard"
)

// Session is an open handle bound to an authenticated client.
type Session struct {
	Token    string
	ClientID uuid.UUID
	Grants   guard.Grants
	OpenedAt time.Time

	mu       sync.Mutex
	closed   bool
	inFlight sync.WaitGroup
}

// Begin registers a new operation on the session. It returns a release
// function the operation must call when done, or ErrHandleClosed if the
// session is already closed.
func (s *Session) Begin() (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, apperrors.Wrap(apperrors.ErrHandleClosed, "session is closed")
	}
	s.inFlight.Add(1)
	return func() { s.inFlight.Done() }, nil
}

// Close transitions the session to closed and waits for in-flight
// operations to finish. Operations begun before Close complete normally;
// operations begun after fail with ErrHandleClosed. Close is safe to call
// concurrently and more than once.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.inFlight.Wait()
}

// Closed reports whether the session has been closed.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
