package common

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/spf13/afero"
)

// HostFS answers the filesystem queries the trie builder depends on. It reads
// through an afero.Fs so the host OS can be swapped for an in-memory tree.
type HostFS struct {
	fs afero.Fs
}

// NewHostFS wraps fs. A nil fs means the host operating system.
func NewHostFS(fs afero.Fs) *HostFS {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &HostFS{fs: fs}
}

// Fs returns the underlying afero filesystem
func (h *HostFS) Fs() afero.Fs {
	return h.fs
}

// Exists reports whether path names an existing entry, following symlinks
func (h *HostFS) Exists(path string) (bool, error) {
	return afero.Exists(h.fs, path)
}

// IsDirectory reports whether path is a directory, following symlinks. A
// dangling symlink is not a directory.
func (h *HostFS) IsDirectory(path string) (bool, error) {
	info, err := h.fs.Stat(path)
	if err == nil {
		return info.IsDir(), nil
	}
	if errors.Is(err, fs.ErrNotExist) && h.isSymlink(path) {
		return false, nil
	}
	return false, err
}

// isSymlink reports whether path itself is a symlink. Backends without
// Lstat support have no symlinks.
func (h *HostFS) isSymlink(path string) bool {
	lstater, ok := h.fs.(afero.Lstater)
	if !ok {
		return false
	}
	info, lstatCalled, err := lstater.LstatIfPossible(path)
	return err == nil && lstatCalled && info.Mode()&fs.ModeSymlink != 0
}

// ListChildren returns the bare names of the entries in directory path, sorted
func (h *HostFS) ListChildren(path string) ([]string, error) {
	dir, err := h.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer dir.Close()

	names, err := dir.Readdirnames(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
	}
	slices.Sort(names)
	return names, nil
}

// JoinPath joins path components with the host separator
func (h *HostFS) JoinPath(components []string) string {
	return JoinPath(components)
}

// ReadFile reads a whole file
func (h *HostFS) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(h.fs, path)
}

// Getwd returns the process working directory
func Getwd() (string, error) {
	return os.Getwd()
}
