package gateway

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"lecture-insights-go/internal/jobstore"
	"lecture-insights-go/internal/logger"
	"lecture-insights-go/internal/types"
)

type memStore struct {
	mu   sync.Mutex
	jobs map[string]types.Job
	err  error
}

func (m *memStore) Load(_ context.Context, id string) (*types.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, jobstore.ErrNotFound
	}
	cp := job
	return &cp, nil
}

func (m *memStore) Save(_ context.Context, id string, job *types.Job) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.jobs == nil {
		m.jobs = make(map[string]types.Job)
	}
	m.jobs[id] = *job
	return nil
}

type memUploads struct {
	saved map[string][]byte
	err   error
}

func (m *memUploads) Save(_ context.Context, key string, data []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	m.saved[key] = data
	return "/uploads/" + key, nil
}

func (m *memUploads) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

// chanRunner signals every invocation on a channel.
type chanRunner struct {
	calls chan [2]string
}

func (r *chanRunner) Run(_ context.Context, jobID, audioLocation string) error {
	r.calls <- [2]string{jobID, audioLocation}
	return nil
}

// TestSubmitCreatesPendingRecord checks the initial record shape and the
// asynchronous pipeline handoff.
func TestSubmitCreatesPendingRecord(t *testing.T) {
	store := &memStore{}
	up := &memUploads{}
	runner := &chanRunner{calls: make(chan [2]string, 1)}
	g := New(store, up, runner, logger.New())

	jobID, err := g.Submit(context.Background(), "lecture.wav", []byte("audio"))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, err := uuid.Parse(jobID); err != nil {
		t.Fatalf("job id %q is not a uuid: %v", jobID, err)
	}

	job, err := store.Load(context.Background(), jobID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if job.Status != types.StatusPending {
		t.Fatalf("status = %q, want pending", job.Status)
	}
	if job.Step != "Queued" {
		t.Fatalf("step = %q, want Queued", job.Step)
	}
	if job.Filename != "lecture.wav" {
		t.Fatalf("filename = %q, want lecture.wav", job.Filename)
	}
	if job.Error != nil {
		t.Fatalf("error = %q, want nil", *job.Error)
	}

	select {
	case call := <-runner.calls:
		if call[0] != jobID {
			t.Fatalf("runner job id = %q, want %q", call[0], jobID)
		}
		if !strings.HasSuffix(call[1], jobID+".wav") {
			t.Fatalf("audio location = %q, want job-keyed .wav path", call[1])
		}
	case <-time.After(2 * time.Second):
		t.Fatal("runner never invoked")
	}
}

// TestSubmitKeepsUploadExtension checks the stored key reuses the original
// file extension.
func TestSubmitKeepsUploadExtension(t *testing.T) {
	store := &memStore{}
	up := &memUploads{}
	runner := &chanRunner{calls: make(chan [2]string, 1)}
	g := New(store, up, runner, logger.New())

	jobID, err := g.Submit(context.Background(), "talk.mp3", []byte("audio"))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, ok := up.saved[jobID+".mp3"]; !ok {
		t.Fatalf("uploads = %v, want key %q", up.saved, jobID+".mp3")
	}
	<-runner.calls
}

// TestSubmitMissingFilename checks the empty-filename rejection.
func TestSubmitMissingFilename(t *testing.T) {
	g := New(&memStore{}, &memUploads{}, &chanRunner{calls: make(chan [2]string, 1)}, logger.New())

	if _, err := g.Submit(context.Background(), "", []byte("audio")); !errors.Is(err, ErrMissingFilename) {
		t.Fatalf("Submit() error = %v, want ErrMissingFilename", err)
	}
}

// TestSubmitUploadFailure checks storage errors abort submission before a
// record is created.
func TestSubmitUploadFailure(t *testing.T) {
	store := &memStore{}
	up := &memUploads{err: errors.New("bucket gone")}
	g := New(store, up, &chanRunner{calls: make(chan [2]string, 1)}, logger.New())

	if _, err := g.Submit(context.Background(), "lecture.wav", []byte("audio")); err == nil {
		t.Fatal("expected error from failing upload store")
	}
	if len(store.jobs) != 0 {
		t.Fatalf("jobs = %v, want none after failed upload", store.jobs)
	}
}

// TestSubmitStoreFailure checks record persistence errors surface.
func TestSubmitStoreFailure(t *testing.T) {
	store := &memStore{err: errors.New("disk full")}
	g := New(store, &memUploads{}, &chanRunner{calls: make(chan [2]string, 1)}, logger.New())

	if _, err := g.Submit(context.Background(), "lecture.wav", []byte("audio")); err == nil {
		t.Fatal("expected error from failing job store")
	}
}
