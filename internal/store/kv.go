// Package store persists the tracker document in a key-value substrate.
package store

import (
	"context"
	"sync"

	"github.com/MrSnakeDoc/sip/internal/errs"
)

// DefaultKey is the key the state document lives under.
const DefaultKey = "drinkTracker.v1"

// KV is a minimal string key-value substrate, last write wins.
// Get returns errs.ErrNotFound when the key was never written.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Ping(ctx context.Context) error
}

// MemoryKV keeps values in process memory.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryKV creates an empty in-memory substrate.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return "", errs.ErrNotFound
	}
	return v, nil
}

func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = value
	return nil
}

func (m *MemoryKV) Ping(context.Context) error { return nil }
