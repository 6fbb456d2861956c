// ABOUTME: In-memory storage backend
// ABOUTME: Used by tests and for throwaway sessions

package storage

import "sync"

// MemoryBackend keeps slots in a map for the life of the process.
type MemoryBackend struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

// Compile-time check that MemoryBackend implements Backend.
var _ Backend = (*MemoryBackend)(nil)

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{slots: make(map[string][]byte)}
}

// Read returns a copy of the slot contents.
func (m *MemoryBackend) Read(slot string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.slots[slot]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

// Write replaces the slot contents.
func (m *MemoryBackend) Write(slot string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = append([]byte(nil), data...)
	return nil
}

// Close is a no-op for the memory backend.
func (m *MemoryBackend) Close() error {
	return nil
}
