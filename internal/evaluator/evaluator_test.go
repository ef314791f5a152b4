package evaluator

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestWERPerfectMatch checks identical texts score zero.
func TestWERPerfectMatch(t *testing.T) {
	s := NewService()

	if got := s.WER("the cat sat", "The Cat Sat"); got != 0 {
		t.Fatalf("WER = %v, want 0 for identical tokens", got)
	}
}

// TestWERSingleSubstitution checks one wrong word over three.
func TestWERSingleSubstitution(t *testing.T) {
	s := NewService()

	if got := s.WER("the cat sat", "the cat mat"); !almostEqual(got, 0.3333) {
		t.Fatalf("WER = %v, want 0.3333", got)
	}
}

// TestWEREmptyInputs checks the zero guard for missing text.
func TestWEREmptyInputs(t *testing.T) {
	s := NewService()

	if got := s.WER("", "anything"); got != 0 {
		t.Fatalf("WER = %v, want 0 for empty reference", got)
	}
	if got := s.WER("anything", ""); got != 0 {
		t.Fatalf("WER = %v, want 0 for empty hypothesis", got)
	}
}

// TestWERInsertionsAndDeletions checks edit distance over token slices.
func TestWERInsertionsAndDeletions(t *testing.T) {
	s := NewService()

	// one deletion against a four-token reference
	if got := s.WER("a b c d", "a b d"); !almostEqual(got, 0.25) {
		t.Fatalf("WER = %v, want 0.25", got)
	}
}

// TestRougeIdentical checks perfect overlap scores one.
func TestRougeIdentical(t *testing.T) {
	s := NewService()

	r1, rl := s.Rouge("summaries are short", "summaries are short")
	if r1 != 1 || rl != 1 {
		t.Fatalf("rouge = %v/%v, want 1/1", r1, rl)
	}
}

// TestRougePartialOverlap checks F1 for a known subset.
func TestRougePartialOverlap(t *testing.T) {
	s := NewService()

	// overlap 2, hyp len 2, ref len 6: precision 1, recall 1/3, F1 0.5
	r1, rl := s.Rouge("the cat sat on a mat", "the cat")
	if !almostEqual(r1, 0.5) {
		t.Fatalf("rouge1 = %v, want 0.5", r1)
	}
	if !almostEqual(rl, 0.5) {
		t.Fatalf("rougeL = %v, want 0.5", rl)
	}
}

// TestRougeDisjoint checks no overlap scores zero.
func TestRougeDisjoint(t *testing.T) {
	s := NewService()

	r1, rl := s.Rouge("alpha beta", "gamma delta")
	if r1 != 0 || rl != 0 {
		t.Fatalf("rouge = %v/%v, want 0/0", r1, rl)
	}
}

// TestRougeLOrderSensitive checks ROUGE-L penalizes reordering that
// ROUGE-1 does not see.
func TestRougeLOrderSensitive(t *testing.T) {
	s := NewService()

	r1, rl := s.Rouge("a b c d", "d c b a")
	if r1 != 1 {
		t.Fatalf("rouge1 = %v, want 1 for same bag of words", r1)
	}
	// LCS of length 1 out of 4 tokens each side: F1 = 0.25
	if !almostEqual(rl, 0.25) {
		t.Fatalf("rougeL = %v, want 0.25", rl)
	}
}

// TestCalculateWithoutReference checks WER stays null without ground truth.
func TestCalculateWithoutReference(t *testing.T) {
	s := NewService()

	m := s.Calculate("the lecture covered sorting", "lecture covered sorting", "")
	if m.WER != nil {
		t.Fatalf("wer = %v, want nil without reference", *m.WER)
	}
	if m.Rouge1 == 0 {
		t.Fatal("rouge1 = 0, want overlap score")
	}
}

// TestCalculateWithReference checks WER is populated with ground truth.
func TestCalculateWithReference(t *testing.T) {
	s := NewService()

	m := s.Calculate("the cat mat", "cats", "the cat sat")
	if m.WER == nil {
		t.Fatal("wer = nil, want value with reference")
	}
	if !almostEqual(*m.WER, 0.3333) {
		t.Fatalf("wer = %v, want 0.3333", *m.WER)
	}
}
