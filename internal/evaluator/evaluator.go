// Package evaluator computes WER and ROUGE quality metrics over
// whitespace-tokenized, case-normalized text.
package evaluator

import (
	"math"
	"strings"

	"lecture-insights-go/internal/types"
)

// Service computes transcription and summarization quality metrics.
// All results are deterministic for the same inputs.
type Service struct{}

// NewService creates an evaluator.
func NewService() *Service {
	return &Service{}
}

// Calculate computes all metrics in one call. WER is nil when no reference
// transcript is supplied; ROUGE compares the summary against the transcript.
func (s *Service) Calculate(transcript, summary, reference string) types.Metrics {
	m := types.Metrics{}
	if reference != "" {
		wer := s.WER(reference, transcript)
		m.WER = &wer
	}
	m.Rouge1, m.RougeL = s.Rouge(transcript, summary)
	return m
}

// WER is the word-level edit distance between reference and hypothesis
// divided by the reference length. Lower is better; 0 is a perfect match.
func (s *Service) WER(reference, hypothesis string) float64 {
	ref := tokenize(reference)
	hyp := tokenize(hypothesis)
	if len(ref) == 0 || len(hyp) == 0 {
		return 0.0
	}
	return round4(float64(editDistance(ref, hyp)) / float64(len(ref)))
}

// Rouge returns ROUGE-1 and ROUGE-L F1 scores. Higher is better.
func (s *Service) Rouge(reference, hypothesis string) (rouge1, rougeL float64) {
	ref := tokenize(reference)
	hyp := tokenize(hypothesis)
	if len(ref) == 0 || len(hyp) == 0 {
		return 0.0, 0.0
	}

	counts := map[string]int{}
	for _, t := range ref {
		counts[t]++
	}
	overlap := 0
	for _, t := range hyp {
		if counts[t] > 0 {
			counts[t]--
			overlap++
		}
	}
	rouge1 = round4(fmeasure(overlap, len(hyp), len(ref)))
	rougeL = round4(fmeasure(lcsLength(ref, hyp), len(hyp), len(ref)))
	return rouge1, rougeL
}

func tokenize(s string) []string {
	return strings.Fields(strings.ToLower(strings.TrimSpace(s)))
}

func fmeasure(match, hypLen, refLen int) float64 {
	if match == 0 {
		return 0.0
	}
	precision := float64(match) / float64(hypLen)
	recall := float64(match) / float64(refLen)
	return 2 * precision * recall / (precision + recall)
}

// editDistance is the Levenshtein distance over token slices, two-row form.
func editDistance(a, b []string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// lcsLength is the longest common subsequence length over token slices.
func lcsLength(a, b []string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
		for j := range curr {
			curr[j] = 0
		}
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
