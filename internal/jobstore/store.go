package jobstore

import (
	"context"
	"errors"

	"lecture-insights-go/internal/types"
)

// ErrNotFound is returned when no record exists for a job id.
var ErrNotFound = errors.New("job not found")

// Store persists one record per job id. Save fully overwrites any prior
// record; there is no partial-field merge. A single writer per id is
// assumed, writers on different ids must not interfere.
type Store interface {
	Load(ctx context.Context, id string) (*types.Job, error)
	Save(ctx context.Context, id string, job *types.Job) error
}
