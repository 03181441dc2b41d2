// Package tokenstore persists the session token as a single durable key:
// one file in the user config directory.
package tokenstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore reads and writes the session token file.
type FileStore struct {
	path string
}

// New creates a FileStore for the given token file path.
func New(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the token file location.
func (s *FileStore) Path() string { return s.path }

// Read returns the persisted token, or "" if none is stored.
func (s *FileStore) Read() (string, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Write persists the token. The file is created with mode 0600 and the
// parent directory with mode 0700.
func (s *FileStore) Write(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Clear removes the persisted token. Clearing an absent token is not an
// error.
func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}
