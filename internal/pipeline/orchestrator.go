package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lecture-insights-go/internal/jobstore"
	"lecture-insights-go/internal/logger"
	"lecture-insights-go/internal/types"
	"lecture-insights-go/internal/uploads"
)

// Orchestrator runs the stages for one job strictly in order, persisting
// the record before each stage starts and after it completes. A stage
// failure is terminal for the job: no later stage runs, already-written
// outputs stay on the record for diagnosis, and there are no retries.
type Orchestrator struct {
	store   jobstore.Store
	uploads uploads.Store
	reg     *Registry
	stages  []StageSpec
	log     *logger.Logger

	keywordsTopN int

	// Optional ground-truth transcript used for WER. Empty means WER is
	// not computable and stays null.
	referenceTranscript string
}

// NewOrchestrator wires an orchestrator over its collaborators. The stage
// registry is passed explicitly; there is no global model state.
func NewOrchestrator(store jobstore.Store, up uploads.Store, reg *Registry, stages []StageSpec, keywordsTopN int, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		store:        store,
		uploads:      up,
		reg:          reg,
		stages:       stages,
		keywordsTopN: keywordsTopN,
		log:          log,
	}
}

// SetReferenceTranscript supplies optional ground truth for WER scoring.
// Without it WER stays null.
func (o *Orchestrator) SetReferenceTranscript(text string) {
	o.referenceTranscript = text
}

// Run executes the pipeline for jobID against the uploaded audio at
// audioLocation. Stage failures are absorbed into the job record; only
// persistence failures and an unknown job id surface as errors.
func (o *Orchestrator) Run(ctx context.Context, jobID, audioLocation string) error {
	log := o.log.WithJob(jobID)

	job, err := o.store.Load(ctx, jobID)
	if err != nil {
		log.WithError(err).Error("cannot load job record")
		return err
	}
	if job.Status.Terminal() {
		log.WithField("status", job.Status).Warn("job already finished, skipping")
		return nil
	}

	job.Status = types.StatusProcessing

	for _, spec := range o.stages {
		if !spec.Enabled {
			continue
		}

		job.Step = spec.Label
		if err := o.store.Save(ctx, jobID, job); err != nil {
			log.WithError(err).Error("cannot persist job before stage")
			return fmt.Errorf("persist job %s: %w", jobID, err)
		}

		log.WithField("stage", string(spec.Kind)).Info("stage started")
		if err := o.runStage(ctx, spec.Kind, job, audioLocation); err != nil {
			log.WithError(err).Error("pipeline error")

			detail := err.Error()
			var se *StageError
			if errors.As(err, &se) {
				detail = se.Detail()
			}
			job.Status = types.StatusError
			job.Error = &detail
			if saveErr := o.store.Save(ctx, jobID, job); saveErr != nil {
				log.WithError(saveErr).Error("cannot persist failed job")
				return fmt.Errorf("persist job %s: %w", jobID, saveErr)
			}
			return nil
		}

		if err := o.store.Save(ctx, jobID, job); err != nil {
			log.WithError(err).Error("cannot persist job after stage")
			return fmt.Errorf("persist job %s: %w", jobID, err)
		}
		log.WithField("stage", string(spec.Kind)).Info("stage complete")
	}

	job.Status = types.StatusDone
	job.Step = "Complete"
	if err := o.store.Save(ctx, jobID, job); err != nil {
		log.WithError(err).Error("cannot persist finished job")
		return fmt.Errorf("persist job %s: %w", jobID, err)
	}
	log.Info("processing complete")
	return nil
}

// runStage executes one stage and assigns its output into the record.
// Outputs are assigned only after the whole stage succeeded.
func (o *Orchestrator) runStage(ctx context.Context, kind StageKind, job *types.Job, audioLocation string) error {
	switch kind {
	case StageTranscription:
		tr, err := o.reg.Transcriber()
		if err != nil {
			return &StageError{Stage: kind, Message: "transcription service unavailable", Err: err}
		}
		audio, err := o.uploads.Open(ctx, audioLocation)
		if err != nil {
			return &StageError{Stage: kind, Message: "cannot open uploaded audio", Err: err}
		}
		defer audio.Close()

		result, err := tr.Transcribe(ctx, audio, job.Filename)
		if err != nil {
			return &StageError{Stage: kind, Message: "audio transcription failed", Err: err}
		}
		job.Transcript = result

	case StageCleaning:
		cl, err := o.reg.Cleaner()
		if err != nil {
			return &StageError{Stage: kind, Message: "text cleaner unavailable", Err: err}
		}
		raw := ""
		if job.Transcript != nil {
			raw = job.Transcript.Text
		}
		job.CleanedText = cl.Clean(raw)

	case StageKeywords:
		ke, err := o.reg.KeywordExtractor()
		if err != nil {
			return &StageError{Stage: kind, Message: "keyword extractor unavailable", Err: err}
		}
		keywords, err := ke.Extract(ctx, job.CleanedText, o.keywordsTopN)
		if err != nil {
			return &StageError{Stage: kind, Message: "keyword extraction failed", Err: err}
		}
		job.Keywords = keywords

	case StageSegmentation:
		seg, err := o.reg.Segmenter()
		if err != nil {
			return &StageError{Stage: kind, Message: "topic segmenter unavailable", Err: err}
		}
		segments, err := seg.Segment(ctx, job.CleanedText)
		if err != nil {
			return &StageError{Stage: kind, Message: "topic segmentation failed", Err: err}
		}
		job.Segments = segments

	case StageSummarization:
		su, err := o.reg.Summarizer()
		if err != nil {
			return &StageError{Stage: kind, Message: "summarizer unavailable", Err: err}
		}
		summary, err := su.Summarize(ctx, job.CleanedText)
		if err != nil {
			return &StageError{Stage: kind, Message: "summarization failed", Err: err}
		}
		job.Summary = summary

	case StageQuiz:
		qg, err := o.reg.QuizGenerator()
		if err != nil {
			return &StageError{Stage: kind, Message: "quiz generator unavailable", Err: err}
		}
		quiz, err := qg.GenerateQuiz(ctx, job.CleanedText)
		if err != nil {
			return &StageError{Stage: kind, Message: "quiz generation failed", Err: err}
		}
		cards, err := qg.GenerateFlashcards(ctx, job.CleanedText)
		if err != nil {
			return &StageError{Stage: kind, Message: "flashcard generation failed", Err: err}
		}
		job.Quiz = quiz
		job.Flashcards = cards

	case StageMetrics:
		ev, err := o.reg.Evaluator()
		if err != nil {
			return &StageError{Stage: kind, Message: "evaluator unavailable", Err: err}
		}
		summaryText := ""
		if job.Summary != nil {
			summaryText = strings.Join(job.Summary.KeyPoints, " ")
		}
		metrics := ev.Calculate(job.CleanedText, summaryText, o.referenceTranscript)
		job.Metrics = &metrics

	default:
		return &StageError{Stage: kind, Message: "unknown stage kind"}
	}
	return nil
}
