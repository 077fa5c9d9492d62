// Package store implements the bridge's tiered persistence: an in-memory
// map, a per-process scratch directory, a size-capped JSON file and a
// transactional SQLite blob store, ordered fastest to slowest.
package store

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// ErrValueTooLarge is returned by size-capped tiers when a value exceeds
// their quota. Callers treat it like any other tier failure: log and move on.
var ErrValueTooLarge = errors.New("value exceeds tier quota")

// Store is the uniform key-value contract every tier implements.
type Store interface {
	// Name identifies the tier in logs.
	Name() string
	// Get returns the value for key and whether it was present.
	Get(key string) ([]byte, bool, error)
	// Set stores the value under key.
	Set(key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
	// Close releases tier resources.
	Close() error
}

// MemoryStore is the volatile in-process tier. It is always consulted first
// and is authoritative for the current process lifetime.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStore creates an empty in-memory tier.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

// Name identifies the tier in logs.
func (m *MemoryStore) Name() string { return "memory" }

// Get returns the value for key and whether it was present.
func (m *MemoryStore) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Set stores the value under key.
func (m *MemoryStore) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.values[key] = v
	return nil
}

// Delete removes key.
func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Close is a no-op for the memory tier.
func (m *MemoryStore) Close() error { return nil }

// ScratchStore keeps values as files under a session-scoped directory,
// typically below the system temp dir. It outlives a single process but
// not the machine session; the OS reclaims it, Close never does.
type ScratchStore struct {
	dir string
}

// NewScratchStoreAt creates the scratch tier rooted at dir.
func NewScratchStoreAt(dir string) (*ScratchStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ScratchStore{dir: dir}, nil
}

// Name identifies the tier in logs.
func (s *ScratchStore) Name() string { return "scratch" }

func (s *ScratchStore) keyPath(key string) string {
	return filepath.Join(s.dir, base64.RawURLEncoding.EncodeToString([]byte(key)))
}

// Get returns the value for key and whether it was present.
func (s *ScratchStore) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.keyPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// Set stores the value under key.
func (s *ScratchStore) Set(key string, value []byte) error {
	return os.WriteFile(s.keyPath(key), value, 0o644)
}

// Delete removes key.
func (s *ScratchStore) Delete(key string) error {
	err := os.Remove(s.keyPath(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Close is a no-op; the session directory is reclaimed by the OS.
func (s *ScratchStore) Close() error { return nil }

// Destroy removes the scratch directory and everything in it.
func (s *ScratchStore) Destroy() error {
	return os.RemoveAll(s.dir)
}
