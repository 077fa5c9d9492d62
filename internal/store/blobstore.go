package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// BlobStore is the large durable transactional tier, backed by SQLite.
// Values are zstd-compressed; it holds the records too big for the file
// tier, primarily full snapshots.
type BlobStore struct {
	conn *sql.DB
	enc  *zstd.Encoder
	dec  *zstd.Decoder
}

// OpenBlobStore opens (or creates) the SQLite database at path.
func OpenBlobStore(path string) (*BlobStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob store directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open blob store: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			key        TEXT PRIMARY KEY,
			value      BLOB NOT NULL,
			updated_at TEXT NOT NULL
		)
	`); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize blob store schema: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &BlobStore{conn: conn, enc: enc, dec: dec}, nil
}

// Name identifies the tier in logs.
func (b *BlobStore) Name() string { return "blob" }

// Get returns the value for key and whether it was present.
func (b *BlobStore) Get(key string) ([]byte, bool, error) {
	var compressed []byte
	err := b.conn.QueryRow("SELECT value FROM records WHERE key = ?", key).Scan(&compressed)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("blob store lookup failed: %w", err)
	}
	value, err := b.dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, false, fmt.Errorf("blob store value corrupt: %w", err)
	}
	return value, true, nil
}

// Set stores the value under key inside a transaction.
func (b *BlobStore) Set(key string, value []byte) error {
	compressed := b.enc.EncodeAll(value, nil)
	return b.withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT OR REPLACE INTO records (key, value, updated_at)
			VALUES (?, ?, ?)
		`, key, compressed, time.Now().UTC().Format(time.RFC3339))
		return err
	})
}

// Delete removes key inside a transaction.
func (b *BlobStore) Delete(key string) error {
	return b.withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec("DELETE FROM records WHERE key = ?", key)
		return err
	})
}

// Close closes the database connection and codec state.
func (b *BlobStore) Close() error {
	b.enc.Close()
	b.dec.Close()
	return b.conn.Close()
}

// withTx executes fn within a transaction, rolling back on error.
func (b *BlobStore) withTx(fn func(*sql.Tx) error) error {
	tx, err := b.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
