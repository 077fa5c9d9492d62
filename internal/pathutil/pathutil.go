// Package pathutil holds the pure path helpers shared across the bridge:
// relative-path normalization, skip-directory detection, text-file
// classification, documentation path canonicalization and the
// browser-local sentinel scheme.
package pathutil

import (
	"path"
	"strings"
)

// DocRoot is the reserved documentation folder inside a snapshot.
const DocRoot = "documentation"

// browserLocalPrefix tags a project as backed by a local, unmanaged
// repository instead of a server-managed clone.
const browserLocalPrefix = "browser-local://"

// skipDirs are directory names never read into a snapshot: version-control
// internals, dependency trees, build output and editor metadata.
var skipDirs = map[string]struct{}{
	".git":         {},
	"node_modules": {},
	".next":        {},
	"dist":         {},
	"build":        {},
	"target":       {},
	"vendor":       {},
	".venv":        {},
	"venv":         {},
	"__pycache__":  {},
	".idea":        {},
	".vscode":      {},
}

// textExtensions is the allow-set of extensions treated as readable text.
var textExtensions = map[string]struct{}{
	".py": {}, ".ts": {}, ".tsx": {}, ".js": {}, ".jsx": {}, ".mjs": {}, ".cjs": {},
	".java": {}, ".kt": {}, ".go": {}, ".rs": {}, ".rb": {}, ".php": {}, ".cs": {},
	".swift": {}, ".scala": {}, ".sql": {}, ".graphql": {}, ".gql": {},
	".json": {}, ".yaml": {}, ".yml": {}, ".toml": {}, ".ini": {}, ".cfg": {},
	".conf": {}, ".env": {}, ".md": {}, ".rst": {}, ".txt": {}, ".xml": {},
	".html": {}, ".htm": {}, ".css": {}, ".scss": {}, ".sass": {}, ".less": {},
	".sh": {}, ".bash": {}, ".zsh": {}, ".ps1": {}, ".dockerfile": {}, ".proto": {},
}

// docExtensions are prose formats penalized when scoring context candidates.
var docExtensions = map[string]struct{}{
	".md": {}, ".rst": {}, ".txt": {},
}

// importantNames are manifest/lockfile/build-config filenames that anchor
// a repository's documentation context.
var importantNames = map[string]struct{}{
	"readme.md":           {},
	"package.json":        {},
	"pnpm-lock.yaml":      {},
	"package-lock.json":   {},
	"yarn.lock":           {},
	"pyproject.toml":      {},
	"requirements.txt":    {},
	"poetry.lock":         {},
	"dockerfile":          {},
	"docker-compose.yml":  {},
	"docker-compose.yaml": {},
	"compose.yml":         {},
	"compose.yaml":        {},
	"pom.xml":             {},
	"build.gradle":        {},
	"build.gradle.kts":    {},
	"go.mod":              {},
	"cargo.toml":          {},
	"next.config.js":      {},
	"next.config.ts":      {},
	"tsconfig.json":       {},
}

// NormalizeRelPath converts backslashes to forward slashes and strips
// leading slashes. Idempotent.
func NormalizeRelPath(raw string) string {
	p := strings.ReplaceAll(raw, "\\", "/")
	return strings.TrimLeft(p, "/")
}

// IsSkippablePath reports whether any segment of the path is in the skip set.
func IsSkippablePath(relPath string) bool {
	for _, seg := range strings.Split(NormalizeRelPath(relPath), "/") {
		if seg == "" {
			continue
		}
		if _, ok := skipDirs[seg]; ok {
			return true
		}
	}
	return false
}

// IsSkippableName reports whether a single directory name is in the skip set.
func IsSkippableName(name string) bool {
	_, ok := skipDirs[name]
	return ok
}

// IsLikelyTextFile reports whether a file should be read as text, judged by
// its extension or, when provided, its content type. Binary content is never
// read into a snapshot.
func IsLikelyTextFile(relPath, contentType string) bool {
	ext := strings.ToLower(path.Ext(relPath))
	if _, ok := textExtensions[ext]; ok {
		return true
	}
	ct := strings.ToLower(contentType)
	if ct == "" {
		return false
	}
	return strings.HasPrefix(ct, "text/") ||
		strings.Contains(ct, "json") ||
		strings.Contains(ct, "xml") ||
		strings.Contains(ct, "javascript") ||
		strings.Contains(ct, "ecmascript") ||
		strings.Contains(ct, "x-sh")
}

// IsImportantName reports whether the path's base name is a recognized
// manifest/lockfile/build-config name.
func IsImportantName(relPath string) bool {
	base := strings.ToLower(path.Base(NormalizeRelPath(relPath)))
	_, ok := importantNames[base]
	return ok
}

// HasDocExtension reports whether the path carries a prose extension.
func HasDocExtension(relPath string) bool {
	_, ok := docExtensions[strings.ToLower(path.Ext(relPath))]
	return ok
}

// NormalizeDocPath canonicalizes a documentation path: rejects any path with
// a ".." segment (empty return), forces it under the documentation root and
// forces a ".md" suffix.
func NormalizeDocPath(raw string) string {
	p := NormalizeRelPath(raw)
	if p == "" {
		return ""
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return ""
		}
	}
	if !strings.HasPrefix(p, DocRoot+"/") {
		p = DocRoot + "/" + p
	}
	if !strings.HasSuffix(p, ".md") {
		p += ".md"
	}
	return p
}

// IsDocPath reports whether a snapshot path lies under the documentation root.
func IsDocPath(relPath string) bool {
	return strings.HasPrefix(NormalizeRelPath(relPath), DocRoot+"/")
}

// BrowserLocalRepoPath builds the sentinel repo path for a local root name.
func BrowserLocalRepoPath(rootName string) string {
	return browserLocalPrefix + rootName
}

// IsBrowserLocalRepoPath reports whether a repo path uses the sentinel scheme.
func IsBrowserLocalRepoPath(repoPath string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(repoPath)), browserLocalPrefix)
}

// PathScore ranks a snapshot path for documentation context selection.
// Higher is better; ties are broken by the caller on path length and order.
func PathScore(relPath string) int {
	low := strings.ToLower(NormalizeRelPath(relPath))
	score := 0
	if IsImportantName(low) {
		score += 120
	}
	if strings.HasPrefix(low, "src/") {
		score += 50
	}
	if strings.HasPrefix(low, "app/") {
		score += 40
	}
	if strings.HasPrefix(low, "backend/") || strings.HasPrefix(low, "web/") {
		score += 30
	}
	if strings.Contains(low, "/routes/") || strings.Contains(low, "/api/") {
		score += 25
	}
	if strings.Contains(low, "/models/") {
		score += 25
	}
	if strings.Contains(low, "/config") {
		score += 20
	}
	if HasDocExtension(low) {
		score -= 10
	}
	return score
}
