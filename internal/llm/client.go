// Package llm is a thin client for a chat-completions style gateway.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Client sends single-turn prompts to the configured gateway and returns
// the raw completion text. Parsing of the free-form output belongs to the
// callers.
type Client struct {
	apiURL string
	apiKey string
	model  string
	client *http.Client
}

// NewClient creates a gateway client. apiURL must be the full completions
// endpoint.
func NewClient(apiURL, apiKey, model string) (*Client, error) {
	if apiURL == "" {
		return nil, fmt.Errorf("llm gateway not configured")
	}
	return &Client{
		apiURL: apiURL,
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Complete sends prompt and returns the first choice's message content.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"temperature": 0.0,
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encode llm request: %w", err)
	}

	var out string
	var lastErr error

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(data))
		if err != nil {
			lastErr = err
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			return err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("llm server error: %s", body)
			return lastErr
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("llm request rejected: %d %s", resp.StatusCode, body)
			return backoff.Permanent(lastErr)
		}

		var parsed struct {
			Choices []struct {
				Message struct {
					Content string `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Choices) == 0 {
			lastErr = fmt.Errorf("unexpected llm response: %s", body)
			return lastErr
		}

		out = strings.TrimSpace(parsed.Choices[0].Message.Content)
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 90 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return "", fmt.Errorf("llm completion failed: %w", lastErr)
	}
	return out, nil
}
