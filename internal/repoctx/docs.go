package repoctx

import (
	"fmt"
	"sort"
	"strings"

	"repobridge/internal/config"
	"repobridge/internal/models"
	"repobridge/internal/pathutil"
	"repobridge/internal/session"
)

const (
	defaultDocMaxFiles   = 40
	defaultDocFileChars  = 8_000
	defaultDocTotalChars = 60_000
	defaultDocPerRootCap = 18
	fileTruncationMarker = "\n... (truncated)\n"
)

// BuildDocumentationContext selects and bundles the snapshot files most
// useful for grounding documentation generation: manifests and recognized
// source files outside the documentation folder, ranked by path score and
// packed under the character budget. Returns nil when the project has no
// snapshot.
func BuildDocumentationContext(reg *session.Registry, projectID, branch string) *models.DocumentationContext {
	snapshot := reg.GetSnapshot(projectID)
	if snapshot == nil {
		return nil
	}

	maxFiles := config.GetDocContextMaxFiles()
	if maxFiles <= 0 {
		maxFiles = defaultDocMaxFiles
	}
	fileChars := config.GetDocContextFileChars()
	if fileChars <= 0 {
		fileChars = defaultDocFileChars
	}
	totalChars := config.GetDocContextTotalChars()
	if totalChars <= 0 {
		totalChars = defaultDocTotalChars
	}
	perRootCap := config.GetDocContextPerRootCap()
	if perRootCap <= 0 {
		perRootCap = defaultDocPerRootCap
	}

	selected := selectContextFiles(snapshot, maxFiles, perRootCap)

	var b strings.Builder
	var included []string
	total := 0
	for _, path := range selected {
		file := snapshot.File(path)
		if file == nil || strings.TrimSpace(file.Content) == "" {
			continue
		}
		body := file.Content
		if len(body) > fileChars {
			body = truncateAtRune(body, fileChars) + fileTruncationMarker
		}
		block := fmt.Sprintf("FILE: %s\n```\n%s\n```\n", path, body)
		if total+len(block) > totalChars {
			break
		}
		b.WriteString(block)
		total += len(block)
		included = append(included, path)
	}

	return &models.DocumentationContext{
		RepoRoot:  snapshot.RootName,
		FilePaths: included,
		Context:   strings.TrimSpace(b.String()),
	}
}

// selectContextFiles ranks candidate paths by score (ties broken by shorter
// then lexicographically smaller path) with a fairness cap per top-level
// directory.
func selectContextFiles(snapshot *models.Snapshot, maxFiles, perRootCap int) []string {
	var candidates []string
	for i := range snapshot.Files {
		path := snapshot.Files[i].Path
		if pathutil.IsDocPath(path) {
			continue
		}
		if !pathutil.IsImportantName(path) && !pathutil.IsLikelyTextFile(path, "") {
			continue
		}
		candidates = append(candidates, path)
	}

	sort.Slice(candidates, func(i, j int) bool {
		si, sj := pathutil.PathScore(candidates[i]), pathutil.PathScore(candidates[j])
		if si != sj {
			return si > sj
		}
		if len(candidates[i]) != len(candidates[j]) {
			return len(candidates[i]) < len(candidates[j])
		}
		return candidates[i] < candidates[j]
	})

	var selected []string
	perRoot := make(map[string]int)
	for _, path := range candidates {
		root := "(root)"
		if head, _, found := strings.Cut(path, "/"); found {
			root = head
		}
		if perRoot[root] >= perRootCap {
			continue
		}
		perRoot[root]++
		selected = append(selected, path)
		if len(selected) >= maxFiles {
			break
		}
	}
	return selected
}

// ListDocumentationFiles returns the sorted markdown paths under the
// snapshot's documentation folder.
func ListDocumentationFiles(reg *session.Registry, projectID string) []string {
	snapshot := reg.GetSnapshot(projectID)
	if snapshot == nil {
		return nil
	}
	var paths []string
	for i := range snapshot.Files {
		path := snapshot.Files[i].Path
		if pathutil.IsDocPath(path) && strings.HasSuffix(path, ".md") {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths
}

// ReadDocumentationFile returns the content of one documentation file. The
// raw path is normalized first; ok is false when the project has no
// snapshot or the file is absent.
func ReadDocumentationFile(reg *session.Registry, projectID, rawPath string) (string, bool) {
	snapshot := reg.GetSnapshot(projectID)
	if snapshot == nil {
		return "", false
	}
	path := pathutil.NormalizeDocPath(rawPath)
	if path == "" {
		return "", false
	}
	file := snapshot.File(path)
	if file == nil {
		return "", false
	}
	return file.Content, true
}
