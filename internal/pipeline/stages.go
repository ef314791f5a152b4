// Package pipeline sequences the processing stages for one job and owns
// every mutation of its persisted record.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync"

	"lecture-insights-go/internal/types"
)

// StageKind identifies one pipeline stage.
type StageKind string

const (
	StageTranscription StageKind = "transcription"
	StageCleaning      StageKind = "cleaning"
	StageKeywords      StageKind = "keywords"
	StageSegmentation  StageKind = "segmentation"
	StageSummarization StageKind = "summarization"
	StageQuiz          StageKind = "quiz"
	StageMetrics       StageKind = "metrics"
)

// StageSpec describes one entry of the ordered pipeline. Disabled entries
// are skipped without leaving a step label or output field behind.
type StageSpec struct {
	Kind    StageKind
	Label   string
	Enabled bool
}

// Toggles enables or disables the optional stages.
type Toggles struct {
	Keywords     bool
	Segmentation bool
	Quiz         bool
	Metrics      bool
}

// Stages returns the pipeline in execution order. Transcription, cleaning,
// and summarization are always on.
func Stages(t Toggles) []StageSpec {
	return []StageSpec{
		{Kind: StageTranscription, Label: "Transcribing audio", Enabled: true},
		{Kind: StageCleaning, Label: "Cleaning text", Enabled: true},
		{Kind: StageKeywords, Label: "Extracting keywords", Enabled: t.Keywords},
		{Kind: StageSegmentation, Label: "Segmenting topics", Enabled: t.Segmentation},
		{Kind: StageSummarization, Label: "Generating summary", Enabled: true},
		{Kind: StageQuiz, Label: "Generating quiz and flashcards", Enabled: t.Quiz},
		{Kind: StageMetrics, Label: "Calculating metrics", Enabled: t.Metrics},
	}
}

// StageError is a stage-aware failure. The orchestrator converts it into a
// terminal job error; it never crosses the pipeline boundary.
type StageError struct {
	Stage   StageKind
	Message string
	Err     error
}

// Error formats the failure for logs.
func (e *StageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Stage, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *StageError) Unwrap() error {
	return e.Err
}

// Detail is the human-readable message plus the full diagnostic chain,
// stored on the job record for inspection.
func (e *StageError) Detail() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s\n\n%v", e.Message, e.Err)
}

// Transcriber converts an audio stream into a timestamped transcript.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (*types.Transcript, error)
}

// Cleaner normalizes raw transcript text.
type Cleaner interface {
	Clean(text string) string
}

// KeywordExtractor returns up to topN keyphrases for cleaned text.
type KeywordExtractor interface {
	Extract(ctx context.Context, text string, topN int) ([]string, error)
}

// Segmenter partitions cleaned text into topic segments.
type Segmenter interface {
	Segment(ctx context.Context, text string) ([]types.TopicSegment, error)
}

// Summarizer produces a structured summary of cleaned text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (*types.Summary, error)
}

// QuizGenerator produces quiz questions and flashcards from cleaned text.
type QuizGenerator interface {
	GenerateQuiz(ctx context.Context, text string) (*types.Quiz, error)
	GenerateFlashcards(ctx context.Context, text string) ([]types.Flashcard, error)
}

// Evaluator computes quality metrics for a finished job.
type Evaluator interface {
	Calculate(transcript, summary, reference string) types.Metrics
}

// Registry hands out the per-stage-kind singletons. Each underlying
// model/resource is expensive to construct, so construction runs at most
// once per process, on first use, and the handle is shared by all jobs.
type Registry struct {
	NewTranscriber      func() (Transcriber, error)
	NewCleaner          func() (Cleaner, error)
	NewKeywordExtractor func() (KeywordExtractor, error)
	NewSegmenter        func() (Segmenter, error)
	NewSummarizer       func() (Summarizer, error)
	NewQuizGenerator    func() (QuizGenerator, error)
	NewEvaluator        func() (Evaluator, error)

	transcriberOnce sync.Once
	transcriber     Transcriber
	transcriberErr  error

	cleanerOnce sync.Once
	cleaner     Cleaner
	cleanerErr  error

	keywordsOnce sync.Once
	keywords     KeywordExtractor
	keywordsErr  error

	segmenterOnce sync.Once
	segmenter     Segmenter
	segmenterErr  error

	summarizerOnce sync.Once
	summarizer     Summarizer
	summarizerErr  error

	quizOnce sync.Once
	quiz     QuizGenerator
	quizErr  error

	evaluatorOnce sync.Once
	evaluator     Evaluator
	evaluatorErr  error
}

// Transcriber returns the shared transcription handle.
func (r *Registry) Transcriber() (Transcriber, error) {
	r.transcriberOnce.Do(func() {
		r.transcriber, r.transcriberErr = r.NewTranscriber()
	})
	return r.transcriber, r.transcriberErr
}

// Cleaner returns the shared text cleaner.
func (r *Registry) Cleaner() (Cleaner, error) {
	r.cleanerOnce.Do(func() {
		r.cleaner, r.cleanerErr = r.NewCleaner()
	})
	return r.cleaner, r.cleanerErr
}

// KeywordExtractor returns the shared keyword extractor.
func (r *Registry) KeywordExtractor() (KeywordExtractor, error) {
	r.keywordsOnce.Do(func() {
		r.keywords, r.keywordsErr = r.NewKeywordExtractor()
	})
	return r.keywords, r.keywordsErr
}

// Segmenter returns the shared topic segmenter.
func (r *Registry) Segmenter() (Segmenter, error) {
	r.segmenterOnce.Do(func() {
		r.segmenter, r.segmenterErr = r.NewSegmenter()
	})
	return r.segmenter, r.segmenterErr
}

// Summarizer returns the shared summarizer.
func (r *Registry) Summarizer() (Summarizer, error) {
	r.summarizerOnce.Do(func() {
		r.summarizer, r.summarizerErr = r.NewSummarizer()
	})
	return r.summarizer, r.summarizerErr
}

// QuizGenerator returns the shared quiz generator.
func (r *Registry) QuizGenerator() (QuizGenerator, error) {
	r.quizOnce.Do(func() {
		r.quiz, r.quizErr = r.NewQuizGenerator()
	})
	return r.quiz, r.quizErr
}

// Evaluator returns the shared metrics evaluator.
func (r *Registry) Evaluator() (Evaluator, error) {
	r.evaluatorOnce.Do(func() {
		r.evaluator, r.evaluatorErr = r.NewEvaluator()
	})
	return r.evaluator, r.evaluatorErr
}
