package uploads

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore keeps uploads as plain files under a directory.
type LocalStore struct {
	dir string
}

// NewLocalStore creates a disk-backed upload store rooted at dir.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes the artifact and returns its absolute path.
func (s *LocalStore) Save(_ context.Context, key string, data []byte) (string, error) {
	path := filepath.Join(s.dir, key)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload %s: %w", key, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}

// Open reopens a previously saved artifact by its path.
func (s *LocalStore) Open(_ context.Context, location string) (io.ReadCloser, error) {
	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", location, err)
	}
	return f, nil
}
