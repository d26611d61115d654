// Package storage implements the blob store for uploaded files. Bytes
// are written to disk under generated names; the relational rows keep
// only the storage path.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DiskStore stores uploaded byte streams under a root directory.
type DiskStore struct {
	root string
}

// NewDiskStore creates the store, making the root directory if needed.
func NewDiskStore(root string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &DiskStore{root: root}, nil
}

// Save writes src under a generated name in the given subdirectory,
// keeping the original extension, and returns the storage path.
func (s *DiskStore) Save(subdir, originalName string, src io.Reader) (string, error) {
	dir := filepath.Join(s.root, subdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}

	name := uuid.New().String() + filepath.Ext(originalName)
	path := filepath.Join(dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path, nil
}

// Exists reports whether the stored bytes are still present on disk.
func (s *DiskStore) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Open opens the stored bytes for reading.
func (s *DiskStore) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// Remove deletes stored bytes, used to undo saves when the surrounding
// transaction fails.
func (s *DiskStore) Remove(path string) error {
	return os.Remove(path)
}

// Resolve joins a subdirectory and filename under the store root,
// rejecting names that escape it.
func (s *DiskStore) Resolve(subdir, filename string) (string, error) {
	if filepath.Base(filename) != filename {
		return "", fmt.Errorf("invalid filename")
	}
	return filepath.Join(s.root, subdir, filename), nil
}
