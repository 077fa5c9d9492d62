// Package acquire builds bounded snapshots from a granted directory or a
// flat list of user-selected files.
package acquire

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"repobridge/internal/config"
	"repobridge/internal/errors"
	"repobridge/internal/models"
	"repobridge/internal/pathutil"
)

// Limits are the snapshot budgets: file count, cumulative characters and
// per-file bytes.
type Limits struct {
	MaxFiles      int
	MaxTotalChars int
	MaxFileBytes  int64
}

// DefaultLimits returns the built-in snapshot budgets.
func DefaultLimits() Limits {
	return Limits{
		MaxFiles:      400,
		MaxTotalChars: 1_200_000,
		MaxFileBytes:  262_144,
	}
}

// LimitsFromConfig reads the budgets from configuration, defaulting any
// zero value.
func LimitsFromConfig() Limits {
	limits := Limits{
		MaxFiles:      config.GetMaxFiles(),
		MaxTotalChars: config.GetMaxTotalChars(),
		MaxFileBytes:  config.GetMaxFileBytes(),
	}
	def := DefaultLimits()
	if limits.MaxFiles <= 0 {
		limits.MaxFiles = def.MaxFiles
	}
	if limits.MaxTotalChars <= 0 {
		limits.MaxTotalChars = def.MaxTotalChars
	}
	if limits.MaxFileBytes <= 0 {
		limits.MaxFileBytes = def.MaxFileBytes
	}
	return limits
}

// Session pairs a snapshot with the optional write-capability handle. The
// handle is present only for directory acquisition; flat uploads degrade to
// a read-only session.
type Session struct {
	Snapshot *models.Snapshot
	Handle   *Handle
}

// Writable reports whether the session can mutate the live directory.
func (s *Session) Writable() bool {
	return s != nil && s.Handle != nil
}

// Upload is one file of the flat-upload fallback: a relative path as
// reported by the picker plus its raw bytes.
type Upload struct {
	Path string
	Data []byte
}

type candidate struct {
	rel string
	abs string
}

// Directory acquires a snapshot by walking the granted directory tree
// breadth-first. Skippable directories are never descended into; candidates
// are collected up to three times the file budget to allow later filtering,
// then read in path order under the budgets.
func Directory(root string, limits Limits) (*Session, error) {
	handle, err := NewHandle(root)
	if err != nil {
		return nil, err
	}

	maxCandidates := 3 * limits.MaxFiles
	var candidates []candidate

	type dir struct {
		rel string
		abs string
	}
	queue := []dir{{rel: "", abs: handle.Root}}
	for len(queue) > 0 && len(candidates) < maxCandidates {
		cur := queue[0]
		queue = queue[1:]

		entries, err := os.ReadDir(cur.abs)
		if err != nil {
			// Unreadable directories are skipped, not fatal.
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			rel := name
			if cur.rel != "" {
				rel = cur.rel + "/" + name
			}
			if entry.IsDir() {
				if pathutil.IsSkippableName(name) {
					continue
				}
				queue = append(queue, dir{rel: rel, abs: filepath.Join(cur.abs, name)})
				continue
			}
			if !entry.Type().IsRegular() {
				continue
			}
			candidates = append(candidates, candidate{rel: rel, abs: filepath.Join(cur.abs, name)})
			if len(candidates) >= maxCandidates {
				break
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].rel < candidates[j].rel })

	var files []models.LocalRepoFile
	totalChars := 0
	for _, c := range candidates {
		if len(files) >= limits.MaxFiles {
			break
		}
		if pathutil.IsSkippablePath(c.rel) {
			continue
		}
		info, err := os.Stat(c.abs)
		if err != nil || info.Size() > limits.MaxFileBytes {
			continue
		}
		if !pathutil.IsLikelyTextFile(c.rel, "") {
			continue
		}
		data, err := os.ReadFile(c.abs)
		if err != nil {
			continue
		}
		content := normalizeText(data)
		if content == "" {
			continue
		}
		if totalChars+len(content) > limits.MaxTotalChars {
			break
		}
		files = append(files, models.LocalRepoFile{Path: c.rel, Content: content})
		totalChars += len(content)
	}

	if len(files) == 0 {
		return nil, errors.New(errors.NoReadableFiles, "no readable text files under "+handle.Root)
	}

	return &Session{
		Snapshot: &models.Snapshot{
			RootName:  filepath.Base(handle.Root),
			Files:     files,
			IndexedAt: time.Now().UTC(),
		},
		Handle: handle,
	}, nil
}

// FileList acquires a snapshot from a flat list of picked files. The first
// path segment of the first sorted path is taken as the synthetic root
// name; selections under it are stored with that segment stripped, and
// selections under any other top-level directory are dropped. The
// resulting session carries no handle and cannot write back.
func FileList(uploads []Upload, limits Limits) (*Session, error) {
	if len(uploads) == 0 {
		return nil, errors.New(errors.NoFolderSelected, "no files selected")
	}

	normalized := make([]Upload, 0, len(uploads))
	for _, u := range uploads {
		p := pathutil.NormalizeRelPath(u.Path)
		if p == "" {
			continue
		}
		normalized = append(normalized, Upload{Path: p, Data: u.Data})
	}
	sort.Slice(normalized, func(i, j int) bool { return normalized[i].Path < normalized[j].Path })
	if len(normalized) == 0 {
		return nil, errors.New(errors.NoReadableFiles, "no readable text files in selection")
	}

	rootName, _, _ := strings.Cut(normalized[0].Path, "/")

	var files []models.LocalRepoFile
	seen := make(map[string]struct{}, len(normalized))
	totalChars := 0
	for _, u := range normalized {
		if len(files) >= limits.MaxFiles {
			break
		}
		head, rest, found := strings.Cut(u.Path, "/")
		if !found {
			// A bare root-level selection has no path once the synthetic
			// root segment is stripped.
			continue
		}
		// Selections from a different top-level directory would collide
		// with same-named files under the synthetic root once stripped.
		if head != rootName {
			continue
		}
		rel := rest
		if _, dup := seen[rel]; dup {
			continue
		}
		if pathutil.IsSkippablePath(rel) {
			continue
		}
		if int64(len(u.Data)) > limits.MaxFileBytes {
			continue
		}
		if !pathutil.IsLikelyTextFile(rel, "") {
			continue
		}
		content := normalizeText(u.Data)
		if content == "" {
			continue
		}
		if totalChars+len(content) > limits.MaxTotalChars {
			break
		}
		seen[rel] = struct{}{}
		files = append(files, models.LocalRepoFile{Path: rel, Content: content})
		totalChars += len(content)
	}

	if len(files) == 0 {
		return nil, errors.New(errors.NoReadableFiles, "no readable text files in selection")
	}

	return &Session{
		Snapshot: &models.Snapshot{
			RootName:  rootName,
			Files:     files,
			IndexedAt: time.Now().UTC(),
		},
	}, nil
}

// normalizeText converts raw bytes to snapshot content: line endings become
// "\n" and surrounding whitespace-only content collapses to empty.
func normalizeText(data []byte) string {
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	if strings.TrimSpace(content) == "" {
		return ""
	}
	return content
}
