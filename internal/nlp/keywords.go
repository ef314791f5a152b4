package nlp

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Inputs shorter than this yield no keywords rather than an error.
const minKeywordTextLen = 20

// Candidates scored against the document before diversified selection.
const nrCandidates = 20

var wordPattern = regexp.MustCompile(`[a-z0-9]+`)

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(
		"a an the and or but if then else for nor of at by to from in on with " +
			"as is are was were be been being am do does did have has had this " +
			"that these those it its they them their we our you your he she his " +
			"her i me my not no yes can could will would shall should may might " +
			"must about into over under again there here when where why how all " +
			"any both each few more most other some such only own same than too " +
			"very just also what which who whom while during before after above " +
			"below up down out off once because until",
	) {
		stopwords[w] = struct{}{}
	}
}

// KeywordExtractor ranks candidate words and two-word phrases by embedding
// similarity against the whole document, then picks a diversified top set.
type KeywordExtractor struct {
	embedder Embedder
}

// NewKeywordExtractor creates an extractor over the given embedder.
func NewKeywordExtractor(embedder Embedder) *KeywordExtractor {
	return &KeywordExtractor{embedder: embedder}
}

// Extract returns up to topN keyword/keyphrase strings ordered by relevance.
// Text below the length guard yields an empty result, not an error.
func (k *KeywordExtractor) Extract(ctx context.Context, text string, topN int) ([]string, error) {
	if len(strings.TrimSpace(text)) < minKeywordTextLen {
		return []string{}, nil
	}
	if topN < 1 {
		topN = 1
	}

	candidates := candidatePhrases(text)
	if len(candidates) == 0 {
		return []string{}, nil
	}

	inputs := append([]string{text}, candidates...)
	vecs, err := k.embedder.Embed(ctx, inputs)
	if err != nil {
		return nil, fmt.Errorf("embed keyword candidates: %w", err)
	}
	docVec := vecs[0]
	candVecs := vecs[1:]

	// Keep the strongest candidates before diversifying.
	type scored struct {
		phrase string
		vec    []float64
		sim    float64
	}
	pool := make([]scored, 0, len(candidates))
	for i, phrase := range candidates {
		pool = append(pool, scored{phrase: phrase, vec: candVecs[i], sim: CosineSimilarity(docVec, candVecs[i])})
	}
	for i := 1; i < len(pool); i++ {
		for j := i; j > 0 && pool[j].sim > pool[j-1].sim; j-- {
			pool[j], pool[j-1] = pool[j-1], pool[j]
		}
	}
	if len(pool) > nrCandidates {
		pool = pool[:nrCandidates]
	}
	if topN > len(pool) {
		topN = len(pool)
	}

	// Greedy diversified selection: next pick maximizes document relevance
	// minus its closest similarity to anything already picked.
	picked := []int{0}
	for len(picked) < topN {
		best, bestScore := -1, 0.0
		for i := range pool {
			if contains(picked, i) {
				continue
			}
			maxSim := 0.0
			for _, p := range picked {
				if sim := CosineSimilarity(pool[i].vec, pool[p].vec); sim > maxSim {
					maxSim = sim
				}
			}
			score := pool[i].sim - maxSim
			if best == -1 || score > bestScore {
				best, bestScore = i, score
			}
		}
		picked = append(picked, best)
	}

	out := make([]string, 0, len(picked))
	for _, i := range picked {
		out = append(out, pool[i].phrase)
	}
	return out, nil
}

func contains(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// candidatePhrases lists unique non-stopword unigrams and bigrams in
// document order.
func candidatePhrases(text string) []string {
	words := wordPattern.FindAllString(strings.ToLower(text), -1)

	seen := map[string]struct{}{}
	var out []string
	add := func(phrase string) {
		if _, ok := seen[phrase]; ok {
			return
		}
		seen[phrase] = struct{}{}
		out = append(out, phrase)
	}

	for i, w := range words {
		if _, stop := stopwords[w]; !stop {
			add(w)
			if i+1 < len(words) {
				if _, stop2 := stopwords[words[i+1]]; !stop2 {
					add(w + " " + words[i+1])
				}
			}
		}
	}
	return out
}
