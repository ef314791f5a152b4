// Package gateway accepts new audio submissions and schedules processing.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"lecture-insights-go/internal/jobstore"
	"lecture-insights-go/internal/logger"
	"lecture-insights-go/internal/types"
	"lecture-insights-go/internal/uploads"
)

// ErrMissingFilename is returned when a submission carries no filename.
var ErrMissingFilename = errors.New("filename not provided")

// Runner executes the pipeline for one job. The gateway schedules it and
// never waits for it.
type Runner interface {
	Run(ctx context.Context, jobID, audioLocation string) error
}

// Gateway stores the uploaded artifact, creates the initial job record,
// and hands the job to the pipeline without blocking the caller.
type Gateway struct {
	store   jobstore.Store
	uploads uploads.Store
	runner  Runner
	log     *logger.Logger
}

// New wires a submission gateway.
func New(store jobstore.Store, up uploads.Store, runner Runner, log *logger.Logger) *Gateway {
	return &Gateway{store: store, uploads: up, runner: runner, log: log}
}

// Submit persists the audio and an initial pending record, schedules
// orchestration, and returns the new job id immediately.
func (g *Gateway) Submit(ctx context.Context, filename string, audio []byte) (string, error) {
	if filename == "" {
		return "", ErrMissingFilename
	}

	jobID := uuid.New().String()
	location, err := g.uploads.Save(ctx, jobID+filepath.Ext(filename), audio)
	if err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}

	job := &types.Job{
		ID:       jobID,
		Filename: filename,
		Status:   types.StatusPending,
		Step:     "Queued",
	}
	if err := g.store.Save(ctx, jobID, job); err != nil {
		return "", fmt.Errorf("create job record: %w", err)
	}

	g.log.WithJob(jobID).WithField("filename", filename).Info("job queued")

	// The submitter's request context ends with the response; processing
	// gets its own lifetime.
	go func() {
		if err := g.runner.Run(context.Background(), jobID, location); err != nil {
			g.log.WithJob(jobID).WithError(err).Error("orchestration aborted")
		}
	}()

	return jobID, nil
}
