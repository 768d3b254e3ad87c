package store

import (
	"fmt"
	"os"
	"path/filepath"

	"reactor.de/certext/internal/pathutil"
)

// FileStore implements the domain.Store interface using the local filesystem.
// Relative paths are resolved against the base directory.
type FileStore struct {
	basePath string
}

// NewFileStore creates a store rooted at basePath.
func NewFileStore(basePath string) *FileStore {
	return &FileStore{basePath: basePath}
}

// Path returns the resolved location of path.
func (s *FileStore) Path(path string) string {
	return pathutil.Resolve(path, s.basePath)
}

// Exists reports whether path names a regular file.
func (s *FileStore) Exists(path string) (bool, error) {
	info, err := os.Stat(s.Path(path))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// Read returns the contents of path.
func (s *FileStore) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Write stores data at path, creating parent directories as needed.
func (s *FileStore) Write(path string, data []byte) error {
	full := s.Path(path)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
