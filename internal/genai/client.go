// Package genai talks to the Gemini generateContent REST API and makes
// its adversarial response envelope safe to consume.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Generator produces a response envelope for a request. Client is the
// real implementation; Retrier wraps any Generator with retry.
type Generator interface {
	Generate(ctx context.Context, req *Request) (*Envelope, error)
}

// Request is the body of a generateContent call.
type Request struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// GenerationConfig carries sampling parameters.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// APIError is a non-2xx answer from the generation service.
type APIError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("genai: api error %d %s: %s", e.StatusCode, e.Status, e.Message)
}

// Retriable reports whether the failure is transient. Quota exhaustion
// and server-side errors clear up on their own; everything else,
// including safety blocks and bad requests, will fail again identically.
func (e *APIError) Retriable() bool {
	switch e.StatusCode {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusServiceUnavailable:
		return true
	}
	return false
}

// Client calls the generateContent endpoint for one model.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, used by tests.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a client for the given model. The key is not
// validated here; callers check it once at construction time and
// short-circuit generation entirely when it is missing.
func NewClient(apiKey, model string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type apiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// Generate posts the request and decodes the envelope. Failed HTTP
// statuses come back as *APIError so the retry layer can classify them.
func (c *Client) Generate(ctx context.Context, req *Request) (*Envelope, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("genai: encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("genai: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("genai: call model %s: %w", c.model, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("genai: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Status: resp.Status}
		var parsed apiErrorBody
		if json.Unmarshal(data, &parsed) == nil && parsed.Error.Message != "" {
			apiErr.Status = parsed.Error.Status
			apiErr.Message = parsed.Error.Message
		} else {
			apiErr.Message = string(data)
		}
		return nil, apiErr
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("genai: decode envelope: %w", err)
	}
	return &env, nil
}

// UserText builds a single-turn request from one block of user text.
func UserText(text string, temperature float64) *Request {
	return &Request{
		Contents: []Content{{
			Role:  "user",
			Parts: []Part{{Text: text}},
		}},
		GenerationConfig: &GenerationConfig{Temperature: temperature},
	}
}
