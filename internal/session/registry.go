// Package session owns the project-keyed registry of local repository
// sessions and their persistence across restarts.
package session

import (
	"encoding/json"
	"log/slog"
	"sync"

	"repobridge/internal/acquire"
	"repobridge/internal/models"
	"repobridge/internal/store"
)

// Key prefixes namespace the tier records per kind.
const (
	snapshotKeyPrefix = "snapshot::"
	handleKeyPrefix   = "handle::"
)

// handleRecord is the serialized form of a capability handle.
type handleRecord struct {
	Root string `json:"root"`
}

// Registry holds one session per project identifier. The in-memory map is
// the source of truth while the process lives; the tiers are refreshed from
// it, never authoritative over it.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*acquire.Session
	tiers    *store.Tiers
	logger   *slog.Logger
}

// NewRegistry creates a registry over the given tiers.
func NewRegistry(tiers *store.Tiers, logger *slog.Logger) *Registry {
	return &Registry{
		sessions: make(map[string]*acquire.Session),
		tiers:    tiers,
		logger:   logger,
	}
}

// SetSession registers a session under projectID, superseding any previous
// one, and persists its snapshot (and handle, when present) through the
// tiers.
func (r *Registry) SetSession(projectID string, sess *acquire.Session) error {
	r.mu.Lock()
	r.sessions[projectID] = sess
	r.mu.Unlock()

	data, err := json.Marshal(sess.Snapshot)
	if err != nil {
		return err
	}
	if err := r.tiers.Set(snapshotKeyPrefix+projectID, data); err != nil {
		return err
	}

	if sess.Handle != nil {
		rec, err := json.Marshal(handleRecord{Root: sess.Handle.Root})
		if err != nil {
			return err
		}
		if err := r.tiers.Set(handleKeyPrefix+projectID, rec); err != nil {
			return err
		}
	} else {
		r.tiers.Delete(handleKeyPrefix + projectID)
	}

	r.logger.Debug("session stored",
		"project", projectID,
		"files", len(sess.Snapshot.Files),
		"writable", sess.Writable())
	return nil
}

// GetSnapshot returns the snapshot for projectID, consulting the in-memory
// session first and falling back through the warm tiers. A tier hit
// backfills the in-memory session (read-only, no handle).
func (r *Registry) GetSnapshot(projectID string) *models.Snapshot {
	r.mu.RLock()
	sess, ok := r.sessions[projectID]
	r.mu.RUnlock()
	if ok {
		return sess.Snapshot
	}

	data, ok := r.tiers.Get(snapshotKeyPrefix+projectID, acceptSnapshot)
	if !ok {
		return nil
	}
	return r.adopt(projectID, data)
}

// HasSnapshot reports whether a snapshot exists for projectID.
func (r *Registry) HasSnapshot(projectID string) bool {
	return r.GetSnapshot(projectID) != nil
}

// Session returns the live session for projectID, or nil.
func (r *Registry) Session(projectID string) *acquire.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[projectID]
}

// Handle returns the write-capability handle for projectID, or nil.
func (r *Registry) Handle(projectID string) *acquire.Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if sess, ok := r.sessions[projectID]; ok {
		return sess.Handle
	}
	return nil
}

// HasWriteCapability reports whether the project's session can mutate its
// directory.
func (r *Registry) HasWriteCapability(projectID string) bool {
	return r.Handle(projectID) != nil
}

// RestoreSession is the cold-start entry point: it pulls the snapshot from
// every tier including the cold blob store, backfills the faster tiers, and
// rehydrates the capability handle if its directory still exists. Returns
// the restored snapshot, or nil when nothing was persisted.
func (r *Registry) RestoreSession(projectID string) *models.Snapshot {
	r.mu.RLock()
	sess, ok := r.sessions[projectID]
	r.mu.RUnlock()
	if ok {
		return sess.Snapshot
	}

	data, ok := r.tiers.Restore(snapshotKeyPrefix+projectID, acceptSnapshot)
	if !ok {
		return nil
	}
	return r.adopt(projectID, data)
}

// MoveSnapshot relocates every record from one project key to another and
// removes the source. Used when a provisional identifier is replaced by a
// persisted one.
func (r *Registry) MoveSnapshot(fromID, toID string) {
	r.mu.Lock()
	if sess, ok := r.sessions[fromID]; ok {
		r.sessions[toID] = sess
		delete(r.sessions, fromID)
	}
	r.mu.Unlock()

	r.tiers.Move(snapshotKeyPrefix+fromID, snapshotKeyPrefix+toID)
	r.tiers.Move(handleKeyPrefix+fromID, handleKeyPrefix+toID)
	r.logger.Debug("session moved", "from", fromID, "to", toID)
}

// PersistSnapshot re-serializes the project's current snapshot through the
// tiers. Used after in-place snapshot rebuilds (documentation writes).
func (r *Registry) PersistSnapshot(projectID string) error {
	r.mu.RLock()
	sess, ok := r.sessions[projectID]
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	data, err := json.Marshal(sess.Snapshot)
	if err != nil {
		return err
	}
	return r.tiers.Set(snapshotKeyPrefix+projectID, data)
}

// Forget drops the project from memory only. Tests use it to simulate a
// process restart.
func (r *Registry) Forget(projectID string) {
	r.mu.Lock()
	delete(r.sessions, projectID)
	r.mu.Unlock()
}

// adopt deserializes a persisted snapshot into the in-memory map, pairing
// it with a rehydrated handle when one was persisted and still valid.
func (r *Registry) adopt(projectID string, data []byte) *models.Snapshot {
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		r.logger.Warn("persisted snapshot corrupt", "project", projectID, "error", err)
		return nil
	}

	var handle *acquire.Handle
	if rec, ok := r.tiers.Restore(handleKeyPrefix+projectID, nil); ok {
		var hr handleRecord
		if err := json.Unmarshal(rec, &hr); err == nil {
			handle = acquire.RestoreHandle(hr.Root)
		}
	}

	sess := &acquire.Session{Snapshot: &snap, Handle: handle}
	r.mu.Lock()
	r.sessions[projectID] = sess
	r.mu.Unlock()
	return &snap
}

// acceptSnapshot rejects persisted snapshots with an empty file list; a
// deeper tier may still hold a usable record.
func acceptSnapshot(data []byte) bool {
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return false
	}
	return len(snap.Files) > 0
}
