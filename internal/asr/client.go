// Package asr talks to the external speech-to-text service.
package asr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"lecture-insights-go/internal/types"
)

// Client uploads audio to the transcription service and returns the
// recognized text with per-segment timestamps.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a transcription client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Transcription of long lectures is slow; the timeout bounds a
		// single attempt, not the whole job.
		client: &http.Client{Timeout: 10 * time.Minute},
	}
}

type transcribeResponse struct {
	Text     string `json:"text"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

// Transcribe posts the audio as multipart form data and decodes the result.
// Segment timestamps are rounded to 2 decimals.
func (c *Client) Transcribe(ctx context.Context, audio io.Reader, filename string) (*types.Transcript, error) {
	// Buffer the audio so each retry can resend the body.
	data, err := io.ReadAll(audio)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}

	var parsed transcribeResponse
	var lastErr error

	operation := func() error {
		var b bytes.Buffer
		w := multipart.NewWriter(&b)
		part, err := w.CreateFormFile("audio_file", filename)
		if err != nil {
			lastErr = err
			return backoff.Permanent(err)
		}
		if _, err := part.Write(data); err != nil {
			lastErr = err
			return backoff.Permanent(err)
		}
		w.Close()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transcribe", &b)
		if err != nil {
			lastErr = err
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", w.FormDataContentType())

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			return err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("asr server error: %s", body)
			return lastErr
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("asr rejected audio: %d %s", resp.StatusCode, body)
			return backoff.Permanent(lastErr)
		}

		if err := json.Unmarshal(body, &parsed); err != nil {
			lastErr = fmt.Errorf("decode asr response: %w", err)
			return lastErr
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 15 * time.Minute
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, fmt.Errorf("transcription failed: %w", lastErr)
	}

	segments := make([]types.TranscriptSegment, 0, len(parsed.Segments))
	for _, seg := range parsed.Segments {
		segments = append(segments, types.TranscriptSegment{
			Start: round2(seg.Start),
			End:   round2(seg.End),
			Text:  strings.TrimSpace(seg.Text),
		})
	}

	return &types.Transcript{
		Text:     strings.TrimSpace(parsed.Text),
		Segments: segments,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
