// Package uploads stores the raw audio artifacts submitted with a job.
package uploads

import (
	"context"
	"io"
)

// Store saves and reopens uploaded audio artifacts. Save returns the
// location later handed to the pipeline; its shape is backend-specific
// (a file path for local disk, an object key for s3).
type Store interface {
	Save(ctx context.Context, key string, data []byte) (string, error)
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}
