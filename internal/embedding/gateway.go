// Package embedding wraps the external text-to-vector service behind a single
// gateway with bounded timeouts and typed failure classification.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single embedding call.
const DefaultTimeout = 15 * time.Second

// Client converts text into a fixed-dimensionality vector.
type Client interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Gateway is an HTTP client for the embedding service. It is stateless and
// safe for concurrent use.
type Gateway struct {
	baseURL    string
	httpClient *http.Client
}

type embedRequest struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// NewGateway creates a gateway for the embedding service at baseURL.
// An empty baseURL returns ErrUnconfigured; callers should treat this as
// fatal at startup.
func NewGateway(baseURL string) (*Gateway, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, ErrUnconfigured
	}
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}, nil
}

// Embed requests an embedding vector for the given text. Empty or
// whitespace-only text returns a nil vector without calling the service.
// Failures are classified as UnavailableError, RejectedError, or
// MalformedError; the gateway never retries on its own.
func (g *Gateway) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	jsonData, err := json.Marshal(embedRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/embed", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, &UnavailableError{Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UnavailableError{Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RejectedError{StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}

	var parsed embedResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &MalformedError{Reason: "response is not valid JSON"}
	}
	if len(parsed.Embedding) == 0 {
		return nil, &MalformedError{Reason: "response is missing the embedding vector"}
	}

	return parsed.Embedding, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
