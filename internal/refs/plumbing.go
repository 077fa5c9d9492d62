// Package refs is a minimal read/write client for a repository's ref
// plumbing: HEAD, loose refs and packed-refs, parsed and rewritten
// directly as files. It never invokes a version-control binary and never
// touches the object store; the written bytes stay compatible with the
// standard on-disk format.
package refs

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"repobridge/internal/models"
)

const (
	gitDirName   = ".git"
	headFileName = "HEAD"
	packedRefs   = "packed-refs"
	symrefPrefix = "ref: "
	headsPrefix  = "refs/heads/"
)

var commitPattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

// gitPath resolves a path inside the repository's metadata directory.
func gitPath(root string, parts ...string) string {
	return filepath.Join(append([]string{root, gitDirName}, parts...)...)
}

// IsCommitID reports whether s is a full 40-hex commit identifier.
func IsCommitID(s string) bool {
	return commitPattern.MatchString(s)
}

// ValidBranchName reports whether name is acceptable as a branch: slash
// separated non-empty segments, no "..", no whitespace, characters limited
// to alphanumerics plus ".", "_", "-".
func ValidBranchName(name string) bool {
	if name == "" {
		return false
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == "" || seg == ".." {
			return false
		}
		for _, r := range seg {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			case r == '.', r == '_', r == '-':
			default:
				return false
			}
		}
	}
	return true
}

// ReadHeadInfo parses the HEAD file: a symbolic head yields Ref, a detached
// 40-hex head yields Commit, anything else (including a missing file)
// yields neither.
func ReadHeadInfo(root string) models.HeadInfo {
	data, err := os.ReadFile(gitPath(root, headFileName))
	if err != nil {
		return models.HeadInfo{}
	}
	content := strings.TrimSpace(string(data))
	if strings.HasPrefix(content, symrefPrefix) {
		return models.HeadInfo{Ref: strings.TrimSpace(strings.TrimPrefix(content, symrefPrefix))}
	}
	if IsCommitID(content) {
		return models.HeadInfo{Commit: content}
	}
	return models.HeadInfo{}
}

// readLooseRef returns the commit a loose ref file points at, or "".
func readLooseRef(root, ref string) string {
	data, err := os.ReadFile(gitPath(root, filepath.FromSlash(ref)))
	if err != nil {
		return ""
	}
	content := strings.TrimSpace(string(data))
	if IsCommitID(content) {
		return content
	}
	return ""
}

// readPackedRefs parses the packed-refs file into a ref path to commit map.
// Comment lines and annotated-tag peel lines are skipped.
func readPackedRefs(root string) map[string]string {
	data, err := os.ReadFile(gitPath(root, packedRefs))
	if err != nil {
		return nil
	}
	out := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "^") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 || !IsCommitID(fields[0]) {
			continue
		}
		out[fields[1]] = fields[0]
	}
	return out
}

// ResolveRefCommit resolves a branch name, ref path or bare commit id to a
// commit. A 40-hex input is returned verbatim with no ref. Candidate refs
// try the loose file first, then the packed-refs entry. Returns nil when
// nothing resolves.
func ResolveRefCommit(root, nameOrRef string) *models.RefResolution {
	nameOrRef = strings.TrimSpace(nameOrRef)
	if nameOrRef == "" {
		return nil
	}
	if IsCommitID(nameOrRef) {
		return &models.RefResolution{Commit: nameOrRef}
	}

	candidates := []string{headsPrefix + nameOrRef}
	if strings.HasPrefix(nameOrRef, "refs/") {
		candidates = []string{nameOrRef, headsPrefix + nameOrRef}
	}

	var packed map[string]string
	packedLoaded := false
	for _, ref := range candidates {
		if commit := readLooseRef(root, ref); commit != "" {
			return &models.RefResolution{Commit: commit, Ref: ref}
		}
		if !packedLoaded {
			packed = readPackedRefs(root)
			packedLoaded = true
		}
		if commit, ok := packed[ref]; ok {
			return &models.RefResolution{Commit: commit, Ref: ref}
		}
	}
	return nil
}

// ListBranchCommits merges loose refs under refs/heads with the packed
// refs/heads entries. Loose refs win on conflict.
func ListBranchCommits(root string) map[string]string {
	branches := make(map[string]string)

	headsDir := gitPath(root, "refs", "heads")
	_ = filepath.WalkDir(headsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(headsDir, path)
		if relErr != nil {
			return nil
		}
		name := filepath.ToSlash(rel)
		if commit := readLooseRef(root, headsPrefix+name); commit != "" {
			branches[name] = commit
		}
		return nil
	})

	for ref, commit := range readPackedRefs(root) {
		if !strings.HasPrefix(ref, headsPrefix) {
			continue
		}
		name := strings.TrimPrefix(ref, headsPrefix)
		if _, exists := branches[name]; !exists {
			branches[name] = commit
		}
	}
	return branches
}

// writeLooseRef writes (or replaces) a loose ref file pointing at commit.
func writeLooseRef(root, ref, commit string) error {
	path := gitPath(root, filepath.FromSlash(ref))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(commit+"\n"), 0o644)
}

// writeSymbolicHead points HEAD at the given ref path.
func writeSymbolicHead(root, ref string) error {
	return os.WriteFile(gitPath(root, headFileName), []byte(symrefPrefix+ref+"\n"), 0o644)
}
