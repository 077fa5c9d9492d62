// Package docwriter replaces the contents of a snapshot's reserved
// documentation folder inside the live directory the user granted access
// to, then brings the snapshot back in sync.
package docwriter

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"repobridge/internal/acquire"
	"repobridge/internal/errors"
	"repobridge/internal/models"
	"repobridge/internal/pathutil"
	"repobridge/internal/session"
)

// Write clears the documentation folder under the project's granted
// directory and writes the given files into it. Paths are normalized under
// the documentation root; entries with invalid paths or blank content are
// skipped. The project's snapshot is rebuilt to match and persisted.
// Returns the written snapshot paths in order.
func Write(reg *session.Registry, projectID string, files []models.DocFile, prompter acquire.Prompter) ([]string, error) {
	sess := reg.Session(projectID)
	if sess == nil || sess.Snapshot == nil {
		if reg.RestoreSession(projectID) == nil {
			return nil, errors.New(errors.SnapshotMissing, "no snapshot for project "+projectID)
		}
		sess = reg.Session(projectID)
	}
	if err := sess.Handle.EnsureWritable(prompter); err != nil {
		return nil, err
	}

	docDir := sess.Handle.Abs(pathutil.DocRoot)
	// Absence of the folder is not an error; it is simply recreated.
	if err := os.RemoveAll(docDir); err != nil {
		return nil, err
	}

	var written []models.LocalRepoFile
	seen := make(map[string]struct{}, len(files))
	for _, f := range files {
		path := pathutil.NormalizeDocPath(f.Path)
		if path == "" {
			continue
		}
		// Distinct inputs can normalize to the same path; first one wins,
		// keeping the snapshot's file list path-unique.
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		content := strings.TrimSpace(f.Content)
		if content == "" {
			continue
		}
		content += "\n"

		abs := sess.Handle.Abs(path)
		if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
			return nil, err
		}
		written = append(written, models.LocalRepoFile{Path: path, Content: content})
	}

	rebuildSnapshot(sess.Snapshot, written)
	if err := reg.PersistSnapshot(projectID); err != nil {
		return nil, err
	}

	paths := make([]string, len(written))
	for i, f := range written {
		paths[i] = f.Path
	}
	return paths, nil
}

// rebuildSnapshot drops every prior documentation entry and inserts the
// newly written ones, keeping the file list path-sorted.
func rebuildSnapshot(snapshot *models.Snapshot, written []models.LocalRepoFile) {
	kept := snapshot.Files[:0]
	for _, f := range snapshot.Files {
		if !pathutil.IsDocPath(f.Path) {
			kept = append(kept, f)
		}
	}
	kept = append(kept, written...)
	sort.Slice(kept, func(i, j int) bool { return kept[i].Path < kept[j].Path })
	snapshot.Files = kept
}
