package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// DefaultFileStoreQuota caps a single value in the file tier. The tier
// mirrors a small synchronous origin store, so oversized values are refused
// rather than written.
const DefaultFileStoreQuota = 2 << 20

// FileStore is the small durable tier: one JSON document on disk holding
// every key, rewritten synchronously on each mutation. Values above the
// quota fail with ErrValueTooLarge.
type FileStore struct {
	mu     sync.Mutex
	path   string
	quota  int
	values map[string]string
}

// NewFileStore opens (or creates) the file tier at path. quota <= 0 selects
// DefaultFileStoreQuota.
func NewFileStore(path string, quota int) (*FileStore, error) {
	if quota <= 0 {
		quota = DefaultFileStoreQuota
	}
	fs := &FileStore{path: path, quota: quota, values: make(map[string]string)}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		return fs, nil
	}
	// A corrupt document is treated as empty rather than fatal; the tier is
	// a cache of the in-memory truth.
	_ = json.Unmarshal(data, &fs.values)
	return fs, nil
}

// Name identifies the tier in logs.
func (f *FileStore) Name() string { return "file" }

// Get returns the value for key and whether it was present.
func (f *FileStore) Get(key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(v), true, nil
}

// Set stores the value under key and rewrites the document.
func (f *FileStore) Set(key string, value []byte) error {
	if len(value) > f.quota {
		return ErrValueTooLarge
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = string(value)
	return f.flushLocked()
}

// Delete removes key and rewrites the document.
func (f *FileStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[key]; !ok {
		return nil
	}
	delete(f.values, key)
	return f.flushLocked()
}

// Close is a no-op; every mutation is flushed synchronously.
func (f *FileStore) Close() error { return nil }

func (f *FileStore) flushLocked() error {
	data, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o644)
}
