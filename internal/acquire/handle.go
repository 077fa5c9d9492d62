package acquire

import (
	"os"
	"path/filepath"
	"strings"

	"repobridge/internal/errors"
)

// Prompter confirms write access to a granted directory. The CLI asks on
// the terminal; tests stub it.
type Prompter interface {
	ConfirmWrite(root string) bool
}

// PrompterFunc adapts a function to the Prompter interface.
type PrompterFunc func(root string) bool

// ConfirmWrite implements Prompter.
func (f PrompterFunc) ConfirmWrite(root string) bool { return f(root) }

// Handle is the write-capability reference to a granted directory. It is
// present only on sessions acquired through directory access; flat-upload
// sessions have none and can never write back.
type Handle struct {
	Root    string `json:"root"`
	granted bool
}

// NewHandle validates root and returns a handle for it. The path must be
// an existing directory.
func NewHandle(root string) (*Handle, error) {
	abs, err := filepath.Abs(strings.TrimSpace(root))
	if err != nil {
		return nil, errors.Wrap(errors.NoFolderSelected, "invalid directory path", err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, errors.New(errors.NoFolderSelected, "not a directory: "+abs)
	}
	return &Handle{Root: abs}, nil
}

// RestoreHandle rehydrates a persisted handle, verifying its root still
// exists. Returns nil when the directory is gone.
func RestoreHandle(root string) *Handle {
	if root == "" {
		return nil
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil
	}
	return &Handle{Root: root}
}

// EnsureWritable confirms write permission, prompting at most once per
// handle lifetime. A nil handle fails with NoWritableHandle; a declined or
// absent prompt fails with PermissionDenied.
func (h *Handle) EnsureWritable(p Prompter) error {
	if h == nil {
		return errors.New(errors.NoWritableHandle, "session has no write-capable directory handle")
	}
	if h.granted {
		return nil
	}
	if p == nil || !p.ConfirmWrite(h.Root) {
		return errors.New(errors.PermissionDenied, "write permission declined for "+h.Root)
	}
	h.granted = true
	return nil
}

// Abs resolves a snapshot-relative path inside the handle's root.
func (h *Handle) Abs(relPath string) string {
	parts := strings.Split(relPath, "/")
	return filepath.Join(append([]string{h.Root}, parts...)...)
}
