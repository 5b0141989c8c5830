package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store used for tests and for running
// without object storage configured. Contents do not survive restarts.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) composite(identity, key string) string {
	return identity + "\x00" + key
}

// Get returns the stored value for the identity's key.
func (m *MemoryStore) Get(_ context.Context, identity, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[m.composite(identity, key)]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, true, nil
}

// Put writes the value for the identity's key, replacing any prior value.
func (m *MemoryStore) Put(_ context.Context, identity, key string, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	m.mu.Lock()
	m.data[m.composite(identity, key)] = cp
	m.mu.Unlock()
	return nil
}
