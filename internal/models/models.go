// Package models defines the data carried between the bridge's subsystems.
package models

import "time"

// LocalRepoFile is one readable text file inside a snapshot. The path is
// relative, forward-slash separated, with no leading slash and no root
// segment. Entries are immutable once part of a Snapshot.
type LocalRepoFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Snapshot is the bounded in-memory representation of a selected
// directory's readable text files.
type Snapshot struct {
	RootName  string          `json:"root_name"`
	Files     []LocalRepoFile `json:"files"`
	IndexedAt time.Time       `json:"indexed_at"`
}

// File returns the entry at relPath, or nil when absent.
func (s *Snapshot) File(relPath string) *LocalRepoFile {
	for i := range s.Files {
		if s.Files[i].Path == relPath {
			return &s.Files[i]
		}
	}
	return nil
}

// TotalChars is the sum of file content lengths.
func (s *Snapshot) TotalChars() int {
	total := 0
	for i := range s.Files {
		total += len(s.Files[i].Content)
	}
	return total
}

// DocFile is one documentation file to be written into the live tree.
type DocFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// DocumentationContext is a derived, ephemeral bundle of the most relevant
// source/config files. Never persisted; recomputed per request.
type DocumentationContext struct {
	RepoRoot  string   `json:"repo_root"`
	FilePaths []string `json:"file_paths"`
	Context   string   `json:"context"`
}

// Hit is one grep-style match inside a snapshot file. Line and Col are
// 1-based.
type Hit struct {
	Term    string `json:"term"`
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Snippet string `json:"snippet"`
}

// HeadInfo is the parsed content of a repository's HEAD file. Ref is set for
// a symbolic head, Commit for a detached one; both empty means unparseable.
type HeadInfo struct {
	Ref    string `json:"ref"`
	Commit string `json:"commit"`
}

// Detached reports whether HEAD points directly at a commit.
func (h HeadInfo) Detached() bool {
	return h.Ref == "" && h.Commit != ""
}

// RefResolution is the outcome of resolving a branch name or ref path.
type RefResolution struct {
	Commit string `json:"commit"`
	Ref    string `json:"ref,omitempty"`
}

// BranchList is the merged branch view over loose and packed refs.
type BranchList struct {
	ActiveBranch string   `json:"active_branch,omitempty"`
	Detached     bool     `json:"detached"`
	Branches     []string `json:"branches"`
}

// CreateBranchResult reports the outcome of a branch creation.
type CreateBranchResult struct {
	Branch     string `json:"branch"`
	Commit     string `json:"commit"`
	CheckedOut bool   `json:"checked_out"`
}

// CheckoutResult reports the outcome of a branch checkout.
type CheckoutResult struct {
	Branch         string `json:"branch"`
	Commit         string `json:"commit"`
	PreviousBranch string `json:"previous_branch,omitempty"`
	Created        bool   `json:"created"`
}
