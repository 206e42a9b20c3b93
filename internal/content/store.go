// Package content resolves request paths to static resources and serves
// them from a read-only store.
package content

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/spf13/afero"
)

var (
	// ErrNotFound means no stored resource satisfies the requested path.
	ErrNotFound = errors.New("resource not found")
	// ErrOpen means the resource exists but could not be opened for reading.
	ErrOpen = errors.New("failed to open resource")
)

// Store is the read-only content collaborator used by the resolver and the dispatcher.
type Store interface {
	// Exists reports whether name refers to a regular file.
	Exists(name string) bool
	// Open returns a readable, seekable stream for name.
	Open(name string) (afero.File, error)
}

// FSStore is a Store backed by an afero filesystem.
type FSStore struct {
	fs afero.Fs
}

// NewFSStore wraps an arbitrary afero filesystem.
func NewFSStore(fsys afero.Fs) *FSStore {
	return &FSStore{fs: fsys}
}

// NewDirStore serves files from a directory on disk. Lookups cannot escape root.
func NewDirStore(root string) *FSStore {
	return &FSStore{fs: afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), root))}
}

// NewEmbedStore serves files from an io/fs filesystem such as an embed.FS.
func NewEmbedStore(fsys fs.FS) *FSStore {
	return &FSStore{fs: afero.FromIOFS{FS: fsys}}
}

// storeName maps a request path to a store-relative name.
func storeName(name string) string {
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}

// Exists implements Store.
func (s *FSStore) Exists(name string) bool {
	n := storeName(name)
	if n == "" {
		return false
	}
	info, err := s.fs.Stat(n)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// Open implements Store.
func (s *FSStore) Open(name string) (afero.File, error) {
	f, err := s.fs.Open(storeName(name))
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrOpen, name, err)
	}
	return f, nil
}
