package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// Embedder produces one vector per input text.
type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float64, error)
}

// HTTPEmbedder calls an external embedding service.
type HTTPEmbedder struct {
	baseURL string
	client  *http.Client
}

// NewHTTPEmbedder creates a client for the embedding service at baseURL.
func NewHTTPEmbedder(baseURL string) *HTTPEmbedder {
	return &HTTPEmbedder{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type embedRequest struct {
	Inputs []string `json:"inputs"`
}

type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

// Embed requests vectors for inputs in one call.
func (e *HTTPEmbedder) Embed(ctx context.Context, inputs []string) ([][]float64, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	data, err := json.Marshal(embedRequest{Inputs: inputs})
	if err != nil {
		return nil, fmt.Errorf("encode embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embed", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embed service returned %d: %s", resp.StatusCode, body)
	}

	var parsed embedResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode embed response: %w", err)
	}
	if len(parsed.Embeddings) != len(inputs) {
		return nil, fmt.Errorf("embed service returned %d vectors for %d inputs", len(parsed.Embeddings), len(inputs))
	}
	return parsed.Embeddings, nil
}

// CosineSimilarity returns the cosine of the angle between a and b,
// or 0 when either vector has zero norm.
func CosineSimilarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}
	for _, v := range a {
		normA += v * v
	}
	for _, v := range b {
		normB += v * v
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
