package scan

import (
	"context"
	"errors"
	"sync"

	shared "verisight/shared/types"
)

// MemoryStore keeps sessions in a map guarded by a RWMutex.
// It is the default store and only lives as long as the process.
type MemoryStore struct {
	data map[string]*shared.Snapshot // Key: session ID
	mu   sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]*shared.Snapshot),
	}
}

// Get returns a copy of the session
func (m *MemoryStore) Get(_ context.Context, id string) (*shared.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneSnapshot(snap), nil
}

// Save stores a copy of the session
func (m *MemoryStore) Save(_ context.Context, snap *shared.Snapshot) error {
	if snap == nil || snap.ID == "" {
		return errors.New("snapshot must have an id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[snap.ID] = cloneSnapshot(snap)
	return nil
}

// Delete drops the session if present
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, id)
	return nil
}

// List returns copies of all sessions
func (m *MemoryStore) List(_ context.Context) ([]*shared.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*shared.Snapshot, 0, len(m.data))
	for _, snap := range m.data {
		out = append(out, cloneSnapshot(snap))
	}
	return out, nil
}

// Len reports the number of stored sessions
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
