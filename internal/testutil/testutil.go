// Package testutil builds throwaway working trees with hand-written
// version-control metadata for tests. No git binary is involved; the
// fixtures write HEAD, loose refs and packed-refs directly, which is the
// same file protocol the bridge itself speaks.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// MainCommit is the fixture's default commit id for refs/heads/main.
const MainCommit = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

// TempRepo is a temporary working tree with a .git metadata directory.
type TempRepo struct {
	Path string
	T    *testing.T
}

// NewTempRepo creates a working tree whose HEAD points at refs/heads/main
// with a single loose ref.
func NewTempRepo(t *testing.T) *TempRepo {
	t.Helper()

	repo := &TempRepo{Path: t.TempDir(), T: t}
	repo.WriteFile(".git/HEAD", "ref: refs/heads/main\n")
	repo.WriteFile(".git/refs/heads/main", MainCommit+"\n")
	repo.WriteFile("README.md", "# Test Repository\n")
	return repo
}

// WriteFile creates a file (and parent directories) inside the tree. The
// path uses forward slashes.
func (r *TempRepo) WriteFile(relPath, content string) {
	r.T.Helper()
	abs := filepath.Join(r.Path, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		r.T.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		r.T.Fatalf("failed to create file: %v", err)
	}
}

// ReadFile returns a file's content, failing the test when absent.
func (r *TempRepo) ReadFile(relPath string) string {
	r.T.Helper()
	data, err := os.ReadFile(filepath.Join(r.Path, filepath.FromSlash(relPath)))
	if err != nil {
		r.T.Fatalf("failed to read %s: %v", relPath, err)
	}
	return string(data)
}

// FileExists reports whether a file exists inside the tree.
func (r *TempRepo) FileExists(relPath string) bool {
	r.T.Helper()
	_, err := os.Stat(filepath.Join(r.Path, filepath.FromSlash(relPath)))
	return err == nil
}

// RemoveFile deletes a file inside the tree.
func (r *TempRepo) RemoveFile(relPath string) {
	r.T.Helper()
	if err := os.Remove(filepath.Join(r.Path, filepath.FromSlash(relPath))); err != nil {
		r.T.Fatalf("failed to remove %s: %v", relPath, err)
	}
}

// SetHead points HEAD at a branch.
func (r *TempRepo) SetHead(branch string) {
	r.T.Helper()
	r.WriteFile(".git/HEAD", "ref: refs/heads/"+branch+"\n")
}

// SetDetachedHead points HEAD directly at a commit.
func (r *TempRepo) SetDetachedHead(commit string) {
	r.T.Helper()
	r.WriteFile(".git/HEAD", commit+"\n")
}

// SetBranch writes a loose ref for the branch.
func (r *TempRepo) SetBranch(branch, commit string) {
	r.T.Helper()
	r.WriteFile(".git/refs/heads/"+branch, commit+"\n")
}

// SetPackedRefs writes a packed-refs file from ref path to commit pairs.
func (r *TempRepo) SetPackedRefs(refs map[string]string) {
	r.T.Helper()
	var b strings.Builder
	b.WriteString("# pack-refs with: peeled fully-peeled sorted \n")
	for ref, commit := range refs {
		b.WriteString(commit + " " + ref + "\n")
	}
	r.WriteFile(".git/packed-refs", b.String())
}

// Head returns the raw HEAD content, trimmed.
func (r *TempRepo) Head() string {
	r.T.Helper()
	return strings.TrimSpace(r.ReadFile(".git/HEAD"))
}
