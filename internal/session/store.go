package session

import (
	"context"
	"sync"
)

// Provider reads the raw persisted grant set for a session. It returns
// ErrNotFound when nothing is stored.
type Provider interface {
	Load(ctx context.Context, sessionID string) ([]byte, error)
}

type Store interface {
	Provider
	Save(ctx context.Context, sessionID string, raw []byte) error
	Delete(ctx context.Context, sessionID string) error
}

// MemoryStore keeps grant sets in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]byte)}
}

func (m *MemoryStore) Load(_ context.Context, sessionID string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	raw, ok := m.entries[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), raw...), nil
}

func (m *MemoryStore) Save(_ context.Context, sessionID string, raw []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[sessionID] = append([]byte(nil), raw...)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionID)
	return nil
}
