// Package nlp holds text cleaning, keyword extraction, and topic
// segmentation over an external embedding service.
package nlp

import (
	"regexp"
	"strings"
)

// Filler words common in spoken lectures, matched as whole words.
var fillerPattern = regexp.MustCompile(`(?i)\b(uh+|um+|basically|you know|actually|like|right|okay|so|well|i mean|kind of|sort of)\b`)

var multiSpacePattern = regexp.MustCompile(` {2,}`)

// Cleaner removes filler words and normalizes whitespace. It is a total,
// deterministic function with no failure mode.
type Cleaner struct{}

// NewCleaner creates a filler-word cleaner.
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// Clean strips filler words, collapses runs of spaces, and trims the result.
// Cleaning already-cleaned text yields the same text.
func (c *Cleaner) Clean(text string) string {
	cleaned := fillerPattern.ReplaceAllString(text, "")
	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}
