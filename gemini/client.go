// Package gemini is a minimal single-turn client for the Generative
// Language API. It sends one prompt and extracts the text of the first
// candidate, tolerating the response-shape variations the API is known
// to produce.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"

type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	endpoint   string
	model      string
	apiKey     string
}

// NewClient builds a client for the given model. endpoint overrides the
// API base URL when non-empty (used by tests); requestsPerMinute and
// burst bound outbound call volume.
func NewClient(apiKey, model, endpoint string, timeout time.Duration, requestsPerMinute float64, burst int) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerMinute/60.0), burst),
		endpoint:   strings.TrimRight(endpoint, "/"),
		model:      model,
		apiKey:     apiKey,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// Query performs a single-turn generateContent call and returns the
// response text.
func (c *Client) Query(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	payload := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.endpoint, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generateContent request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generateContent returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	text := extractText(data)
	if text == "" {
		return "", fmt.Errorf("response contained no text")
	}
	return text, nil
}

// extractText pulls the reply text out of a generateContent response.
// The primary shape is candidates[0].content.parts[].text, but SDK
// variants wrap the text differently, so everything here is best-effort.
func extractText(data map[string]any) string {
	if candidates, ok := data["candidates"].([]any); ok && len(candidates) > 0 {
		cand, ok := candidates[0].(map[string]any)
		if ok {
			body, ok := cand["content"].(map[string]any)
			if !ok {
				body, _ = cand["message"].(map[string]any)
			}
			if body != nil {
				if parts, ok := body["parts"].([]any); ok {
					var texts []string
					for _, p := range parts {
						switch v := p.(type) {
						case map[string]any:
							if t, ok := v["text"].(string); ok {
								texts = append(texts, t)
							}
						case string:
							texts = append(texts, v)
						}
					}
					if len(texts) > 0 {
						return strings.TrimSpace(strings.Join(texts, "\n"))
					}
				}
			}
			if t, ok := cand["text"].(string); ok {
				return strings.TrimSpace(t)
			}
			if out, ok := cand["output"].(string); ok {
				return strings.TrimSpace(out)
			}
		}
	}

	if t, ok := data["text"].(string); ok {
		return strings.TrimSpace(t)
	}
	return ""
}
