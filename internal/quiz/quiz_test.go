package quiz

import (
	"context"
	"errors"
	"strings"
	"testing"

	"lecture-insights-go/internal/types"
)

// routedCompleter answers by prompt keyword and records prompts.
type routedCompleter struct {
	mcqReply  string
	saReply   string
	cardReply string
	prompts   []string
	err       error
}

func (f *routedCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	switch {
	case strings.Contains(prompt, "multiple choice"):
		return f.mcqReply, nil
	case strings.Contains(prompt, "short answer"):
		return f.saReply, nil
	default:
		return f.cardReply, nil
	}
}

// TestGenerateQuizDifficultyCycling checks Easy/Medium/Hard cycling with
// the short-answer offset.
func TestGenerateQuizDifficultyCycling(t *testing.T) {
	llm := &routedCompleter{
		mcqReply: "Q1?\nQ2?\nQ3?\nQ4?",
		saReply:  "S1?\nS2?\nS3?",
	}
	s := NewService(llm)

	got, err := s.GenerateQuiz(context.Background(), "lecture text")
	if err != nil {
		t.Fatalf("GenerateQuiz() error = %v", err)
	}

	wantMCQ := []string{"Easy", "Medium", "Hard", "Easy"}
	if len(got.MCQs) != len(wantMCQ) {
		t.Fatalf("mcqs = %d, want %d", len(got.MCQs), len(wantMCQ))
	}
	for i, d := range wantMCQ {
		if got.MCQs[i].Difficulty != d {
			t.Fatalf("mcqs[%d].Difficulty = %q, want %q", i, got.MCQs[i].Difficulty, d)
		}
	}

	wantSA := []string{"Medium", "Hard", "Easy"}
	for i, d := range wantSA {
		if got.ShortAnswers[i].Difficulty != d {
			t.Fatalf("short_answers[%d].Difficulty = %q, want %q", i, got.ShortAnswers[i].Difficulty, d)
		}
	}
}

// TestGenerateQuizCapsCounts checks MCQ and short-answer line caps.
func TestGenerateQuizCapsCounts(t *testing.T) {
	llm := &routedCompleter{
		mcqReply: "1\n2\n3\n4\n5\n6\n7",
		saReply:  "1\n2\n3\n4\n5",
	}
	s := NewService(llm)

	got, err := s.GenerateQuiz(context.Background(), "lecture text")
	if err != nil {
		t.Fatalf("GenerateQuiz() error = %v", err)
	}
	if len(got.MCQs) != 5 {
		t.Fatalf("mcqs = %d, want cap of 5", len(got.MCQs))
	}
	if len(got.ShortAnswers) != 3 {
		t.Fatalf("short_answers = %d, want cap of 3", len(got.ShortAnswers))
	}
}

// TestGenerateQuizBoundsPrompt checks only the text prefix is prompted.
func TestGenerateQuizBoundsPrompt(t *testing.T) {
	llm := &routedCompleter{mcqReply: "Q?", saReply: "S?"}
	s := NewService(llm)

	long := strings.Repeat("x", 5000)
	if _, err := s.GenerateQuiz(context.Background(), long); err != nil {
		t.Fatalf("GenerateQuiz() error = %v", err)
	}
	for _, p := range llm.prompts {
		if strings.Count(p, "x") > snippetLen {
			t.Fatalf("prompt contains %d chars of text, want at most %d", strings.Count(p, "x"), snippetLen)
		}
	}
}

// TestGenerateFlashcardsParsesQAPairs checks the Q:/A: happy path.
func TestGenerateFlashcardsParsesQAPairs(t *testing.T) {
	llm := &routedCompleter{
		cardReply: "Q: What is a mutex? A: A mutual exclusion lock. " +
			"Q: What is a semaphore? A: A counter for permits.",
	}
	s := NewService(llm)

	got, err := s.GenerateFlashcards(context.Background(), "lecture text")
	if err != nil {
		t.Fatalf("GenerateFlashcards() error = %v", err)
	}
	want := []types.Flashcard{
		{Question: "What is a mutex?", Answer: "A mutual exclusion lock."},
		{Question: "What is a semaphore?", Answer: "A counter for permits."},
	}
	if len(got) != len(want) {
		t.Fatalf("flashcards = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("flashcards[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

// TestParseFlashcardsFallbackPairsLines checks line pairing when the
// delimiter pattern is absent.
func TestParseFlashcardsFallbackPairsLines(t *testing.T) {
	raw := "What is a heap?\nPriority ordered tree\nWhat is a stack?\nLIFO structure"

	got := ParseFlashcards(raw)
	want := []types.Flashcard{
		{Question: "What is a heap?", Answer: "Priority ordered tree"},
		{Question: "What is a stack?", Answer: "LIFO structure"},
	}
	if len(got) != len(want) {
		t.Fatalf("flashcards = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("flashcards[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

// TestParseFlashcardsCap checks at most five cards are returned.
func TestParseFlashcardsCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 8; i++ {
		b.WriteString("Q: question? A: answer. ")
	}

	if got := ParseFlashcards(b.String()); len(got) != 5 {
		t.Fatalf("flashcards = %d, want cap of 5", len(got))
	}
}

// TestGenerateQuizModelFailure checks completion errors propagate.
func TestGenerateQuizModelFailure(t *testing.T) {
	s := NewService(&routedCompleter{err: errors.New("gateway down")})

	if _, err := s.GenerateQuiz(context.Background(), "lecture text"); err == nil {
		t.Fatal("expected error from failing completer")
	}
}
