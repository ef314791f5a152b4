// Package quiz generates quiz questions and flashcards from lecture text.
// The model output is free-form, so parsing is best-effort heuristics.
package quiz

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"lecture-insights-go/internal/types"
)

// Only a bounded prefix of the lecture is used for prompting.
const snippetLen = 1200

const (
	maxMCQs         = 5
	maxShortAnswers = 3
	maxFlashcards   = 5
)

var difficultyLabels = []string{"Easy", "Medium", "Hard"}

var (
	questionMarker = regexp.MustCompile(`(?i)\bQ\s*[:.]`)
	answerMarker   = regexp.MustCompile(`(?i)\bA\s*[:.]`)
)

// Completer produces free text for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Service generates quizzes and flashcards through a generative model.
type Service struct {
	llm Completer
}

// NewService creates a quiz generator over the given completer.
func NewService(llm Completer) *Service {
	return &Service{llm: llm}
}

// GenerateQuiz produces MCQs and short answer questions from text.
func (s *Service) GenerateQuiz(ctx context.Context, text string) (*types.Quiz, error) {
	sn := snippet(text)

	mcqPrompt := fmt.Sprintf(
		"Generate 5 multiple choice questions with 4 options (A, B, C, D) "+
			"and the correct answer labeled, one question per line. Use this text:\n%s", sn)
	mcqRaw, err := s.llm.Complete(ctx, mcqPrompt)
	if err != nil {
		return nil, fmt.Errorf("generate mcqs: %w", err)
	}

	saPrompt := fmt.Sprintf(
		"Generate 3 short answer questions (one sentence each, one per line) from this text:\n%s", sn)
	saRaw, err := s.llm.Complete(ctx, saPrompt)
	if err != nil {
		return nil, fmt.Errorf("generate short answers: %w", err)
	}

	return &types.Quiz{
		MCQs:         questionsFromLines(mcqRaw, maxMCQs, 0),
		ShortAnswers: questionsFromLines(saRaw, maxShortAnswers, 1),
	}, nil
}

// GenerateFlashcards produces question/answer study pairs from text.
func (s *Service) GenerateFlashcards(ctx context.Context, text string) ([]types.Flashcard, error) {
	prompt := fmt.Sprintf(
		"Create 5 flashcards in the format 'Q: ... A: ...' from this text:\n%s", snippet(text))
	raw, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate flashcards: %w", err)
	}
	return ParseFlashcards(raw), nil
}

// ParseFlashcards extracts Q/A pairs from free-form model output. When the
// Q:/A: pattern is absent it falls back to pairing consecutive non-empty
// lines.
func ParseFlashcards(raw string) []types.Flashcard {
	var cards []types.Flashcard

	for _, block := range questionMarker.Split(raw, -1)[1:] {
		qa := answerMarker.Split(block, 2)
		if len(qa) != 2 {
			continue
		}
		q := strings.TrimSpace(qa[0])
		a := strings.TrimSpace(qa[1])
		if q == "" || a == "" {
			continue
		}
		cards = append(cards, types.Flashcard{Question: q, Answer: a})
		if len(cards) >= maxFlashcards {
			return cards
		}
	}
	if len(cards) > 0 {
		return cards
	}

	// Fallback: pair consecutive non-empty lines as question/answer.
	lines := nonEmptyLines(raw)
	for i := 0; i+1 < len(lines) && len(cards) < maxFlashcards; i += 2 {
		cards = append(cards, types.Flashcard{Question: lines[i], Answer: lines[i+1]})
	}
	return cards
}

// questionsFromLines takes up to max non-empty lines as questions, cycling
// difficulty labels from offset.
func questionsFromLines(raw string, max, offset int) []types.QuizQuestion {
	lines := nonEmptyLines(raw)
	if len(lines) > max {
		lines = lines[:max]
	}

	out := make([]types.QuizQuestion, 0, len(lines))
	for i, line := range lines {
		out = append(out, types.QuizQuestion{
			Question:   line,
			Difficulty: difficultyLabels[(i+offset)%len(difficultyLabels)],
		})
	}
	return out
}

func nonEmptyLines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func snippet(text string) string {
	if len(text) > snippetLen {
		return text[:snippetLen]
	}
	return text
}
