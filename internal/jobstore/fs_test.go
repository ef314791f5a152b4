package jobstore

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"lecture-insights-go/internal/types"
)

// TestFSStoreLoadMissing checks the NotFound contract for unknown ids.
func TestFSStoreLoadMissing(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore() error = %v", err)
	}

	if _, err := store.Load(context.Background(), "no-such-job"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load() error = %v, want ErrNotFound", err)
	}
}

// TestFSStoreRoundTrip checks that a saved record loads back field for field.
func TestFSStoreRoundTrip(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore() error = %v", err)
	}

	wer := 0.1234
	want := &types.Job{
		ID:       "job-1",
		Filename: "lecture1.mp3",
		Status:   types.StatusDone,
		Step:     "Complete",
		Transcript: &types.Transcript{
			Text: "hello world",
			Segments: []types.TranscriptSegment{
				{Start: 0, End: 1.52, Text: "hello"},
				{Start: 1.52, End: 2.9, Text: "world"},
			},
		},
		CleanedText: "hello world",
		Keywords:    []string{"hello", "world"},
		Segments:    []types.TopicSegment{{Title: "Topic 1", Content: "hello world"}},
		Summary: &types.Summary{
			Overview:          "A greeting.",
			KeyPoints:         []string{"A greeting"},
			ImportantConcepts: []string{"greeting"},
		},
		Quiz: &types.Quiz{
			MCQs:         []types.QuizQuestion{{Question: "What was said?", Difficulty: "Easy"}},
			ShortAnswers: []types.QuizQuestion{{Question: "Explain the greeting.", Difficulty: "Medium"}},
		},
		Flashcards: []types.Flashcard{{Question: "Q", Answer: "A"}},
		Metrics:    &types.Metrics{WER: &wer, Rouge1: 0.5, RougeL: 0.5},
	}

	if err := store.Save(context.Background(), want.ID, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := store.Load(context.Background(), want.ID)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("job = %+v, want %+v", got, want)
	}
}

// TestFSStoreSaveOverwrites checks full-record overwrite semantics.
func TestFSStoreSaveOverwrites(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore() error = %v", err)
	}
	ctx := context.Background()

	first := &types.Job{ID: "job-1", Status: types.StatusPending, Step: "Queued", Keywords: []string{"stale"}}
	if err := store.Save(ctx, first.ID, first); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	second := &types.Job{ID: "job-1", Status: types.StatusProcessing, Step: "Cleaning text"}
	if err := store.Save(ctx, second.ID, second); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Load(ctx, "job-1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Step != "Cleaning text" {
		t.Fatalf("step = %q, want %q", got.Step, "Cleaning text")
	}
	if got.Keywords != nil {
		t.Fatalf("keywords = %v, want nil after overwrite", got.Keywords)
	}
}

// TestFSStoreConcurrentDistinctIDs checks writers on different ids do not
// interfere.
func TestFSStoreConcurrentDistinctIDs(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFSStore() error = %v", err)
	}
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("job-%d", n)
			for j := 0; j < 20; j++ {
				job := &types.Job{ID: id, Status: types.StatusProcessing, Step: fmt.Sprintf("step-%d", j)}
				if err := store.Save(ctx, id, job); err != nil {
					t.Errorf("Save(%s) error = %v", id, err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		id := fmt.Sprintf("job-%d", i)
		got, err := store.Load(ctx, id)
		if err != nil {
			t.Fatalf("Load(%s) error = %v", id, err)
		}
		if got.ID != id || got.Step != "step-19" {
			t.Fatalf("job %s = %+v, want final step-19", id, got)
		}
	}
}
