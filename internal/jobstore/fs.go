package jobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"lecture-insights-go/internal/types"
)

// FSStore keeps one indented JSON document per job under a directory.
// Writes go to a temp file first and are renamed into place, so readers
// never observe a partially written record.
type FSStore struct {
	dir string
}

// NewFSStore creates a file-backed store rooted at dir.
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create jobs dir: %w", err)
	}
	return &FSStore{dir: dir}, nil
}

func (s *FSStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Load reads the record for id, or ErrNotFound when absent.
func (s *FSStore) Load(_ context.Context, id string) (*types.Job, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read job %s: %w", id, err)
	}

	var job types.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &job, nil
}

// Save overwrites the record for id atomically.
func (s *FSStore) Save(_ context.Context, id string, job *types.Job) error {
	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return fmt.Errorf("encode job %s: %w", id, err)
	}

	tmp, err := os.CreateTemp(s.dir, id+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for job %s: %w", id, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write job %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close job %s: %w", id, err)
	}

	if err := os.Rename(tmpName, s.path(id)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename job %s: %w", id, err)
	}
	return nil
}
