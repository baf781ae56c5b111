// Package store provides BlobStore implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/booth-ledger/pos"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/demo)
// =============================================================================

type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

var _ pos.BlobStore = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

// Get returns a copy of the blob, or (nil, nil) for a key never
// written.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.blobs[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Put stores a copy of the blob under key, replacing any previous
// value.
func (m *Memory) Put(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	m.blobs[key] = stored
	return nil
}
