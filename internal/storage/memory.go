package storage

import (
	"context"
	"sync"
)

// Memory is an in-process Gateway for tests. It mirrors the SQLite
// gateway's semantics: whole-document replace, ok=false for collections
// never written.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte

	// FailWrites makes every Set return ErrPersistence. Tests use it to
	// prove no partial state survives a failed write-back.
	FailWrites bool
}

// NewMemory returns an empty in-memory gateway.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Get implements Gateway.Get.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

// Set implements Gateway.Set.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	if m.FailWrites {
		return ErrPersistence
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}

// Close implements Gateway.Close.
func (m *Memory) Close() error {
	return nil
}
