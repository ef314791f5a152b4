package nlp

import (
	"context"
	"fmt"
	"strings"

	"lecture-insights-go/internal/types"
)

// Threshold below which a new topic segment is declared.
const topicSimilarityThreshold = 0.40

// Segmenter partitions cleaned text into topically coherent segments using
// embedding cosine similarity between consecutive sentences. Each adjacent
// pair is embedded independently, so boundaries are locally decidable and
// the embedding cost stays linear in the sentence count.
type Segmenter struct {
	embedder Embedder
}

// NewSegmenter creates a segmenter over the given embedder.
func NewSegmenter(embedder Embedder) *Segmenter {
	return &Segmenter{embedder: embedder}
}

// Segment splits text into sentences on ". " and closes the current run
// whenever similarity between neighbours drops below the threshold. Inputs
// with zero or one sentence yield a single segment.
func (s *Segmenter) Segment(ctx context.Context, text string) ([]types.TopicSegment, error) {
	var sentences []string
	for _, raw := range strings.Split(text, ". ") {
		if trimmed := strings.TrimSpace(raw); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	if len(sentences) == 0 {
		return []types.TopicSegment{{Title: "Topic 1", Content: strings.TrimSpace(text)}}, nil
	}

	var segments []string
	current := []string{sentences[0]}

	for i := 1; i < len(sentences); i++ {
		prev, err := s.embed(ctx, sentences[i-1])
		if err != nil {
			return nil, err
		}
		curr, err := s.embed(ctx, sentences[i])
		if err != nil {
			return nil, err
		}

		if CosineSimilarity(prev, curr) < topicSimilarityThreshold {
			// Topic shift detected, close the current run
			segments = append(segments, strings.Join(current, " "))
			current = []string{sentences[i]}
		} else {
			current = append(current, sentences[i])
		}
	}
	segments = append(segments, strings.Join(current, " "))

	out := make([]types.TopicSegment, 0, len(segments))
	for i, seg := range segments {
		out = append(out, types.TopicSegment{
			Title:   fmt.Sprintf("Topic %d", i+1),
			Content: seg,
		})
	}
	return out, nil
}

func (s *Segmenter) embed(ctx context.Context, sentence string) ([]float64, error) {
	vecs, err := s.embedder.Embed(ctx, []string{sentence})
	if err != nil {
		return nil, fmt.Errorf("embed sentence: %w", err)
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("embedder returned no vector")
	}
	return vecs[0], nil
}
