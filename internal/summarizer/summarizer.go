// Package summarizer turns cleaned transcripts into structured summaries.
package summarizer

import (
	"context"
	"fmt"
	"strings"

	"lecture-insights-go/internal/types"
)

// Texts below this length get the fixed placeholder instead of a model call.
const minSummaryTextLen = 50

// Chunks sent to the model are capped near the model's context budget.
const maxChunkChars = 800

// Sentences of at most this many words are treated as concept phrases.
const maxConceptWords = 8

// Completer produces free text for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Service summarizes long texts by chunking them, summarizing each chunk,
// and stitching the pieces into one structured result.
type Service struct {
	llm Completer
}

// NewService creates a summarizer over the given completer.
func NewService(llm Completer) *Service {
	return &Service{llm: llm}
}

// Summarize returns {overview, key_points, important_concepts} for text.
// Inputs below the length guard get a fixed "too short" result.
func (s *Service) Summarize(ctx context.Context, text string) (*types.Summary, error) {
	if len(strings.TrimSpace(text)) < minSummaryTextLen {
		return &types.Summary{
			Overview:          "Text too short to summarize.",
			KeyPoints:         []string{},
			ImportantConcepts: []string{},
		}, nil
	}

	var parts []string
	for _, chunk := range chunkText(text) {
		prompt := fmt.Sprintf(
			"Summarize the following lecture excerpt in 2-4 sentences. "+
				"Return only the summary text.\n\n%s", chunk)
		part, err := s.llm.Complete(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("summarize chunk: %w", err)
		}
		parts = append(parts, part)
	}
	full := strings.Join(parts, " ")

	return Structure(full), nil
}

// Structure parses a flat model summary into the structured form: the first
// three sentences become the overview, every sentence a key point, and
// short sentences double as concept phrases.
func Structure(full string) *types.Summary {
	var sentences []string
	for _, raw := range strings.Split(full, ".") {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}

	overview := full
	if len(sentences) > 0 {
		head := sentences
		if len(head) > 3 {
			head = head[:3]
		}
		overview = strings.Join(head, ". ") + "."
	}

	concepts := []string{}
	for _, s := range sentences {
		if len(strings.Fields(s)) <= maxConceptWords {
			concepts = append(concepts, s)
		}
	}

	keyPoints := sentences
	if keyPoints == nil {
		keyPoints = []string{}
	}

	return &types.Summary{
		Overview:          overview,
		KeyPoints:         keyPoints,
		ImportantConcepts: concepts,
	}
}

// chunkText splits text on word boundaries into chunks of roughly
// maxChunkChars characters.
func chunkText(text string) []string {
	words := strings.Fields(text)

	var chunks []string
	var current []string
	currentLen := 0

	for _, word := range words {
		current = append(current, word)
		currentLen += len(word) + 1
		if currentLen >= maxChunkChars {
			chunks = append(chunks, strings.Join(current, " "))
			current = nil
			currentLen = 0
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, " "))
	}
	return chunks
}
