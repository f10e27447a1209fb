package store

import (
	"sync"

	"github.com/google/uuid"
)

// lockTable provides per-UUID mutual exclusion. Operations on the same secret
// are serialized; operations on distinct secrets proceed independently.
// Entries are reference counted and removed once the last holder releases.
type lockTable struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{entries: make(map[uuid.UUID]*lockEntry)}
}

// acquire locks the entry for id and returns the release function.
func (t *lockTable) acquire(id uuid.UUID) func() {
	t.mu.Lock()
	entry, ok := t.entries[id]
	if !ok {
		entry = &lockEntry{}
		t.entries[id] = entry
	}
	entry.refs++
	t.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		t.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(t.entries, id)
		}
		t.mu.Unlock()
	}
}
