// Package gemini provides a minimal client for the Gemini generateContent API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	// DefaultBaseURL is the public Generative Language API root.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	// DefaultModel is used when a request leaves Model empty.
	DefaultModel = "gemini-2.5-flash"

	maxBodySize = 1 << 20 // 1 MB
	userAgent   = "github.com/theirongolddev/cplan/1.0"
)

// ErrNoCandidates indicates a 2xx response that carried no candidates at all.
var ErrNoCandidates = errors.New("gemini: response contained no candidates")

// APIError is a non-2xx response decoded from the API's error envelope.
type APIError struct {
	HTTPStatus int
	Code       int
	Status     string   // e.g. INVALID_ARGUMENT, NOT_FOUND
	Message    string
	Reasons    []string // ErrorInfo reasons, e.g. API_KEY_INVALID
}

func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("gemini: %s (%d %s)", e.Message, e.HTTPStatus, e.Status)
	}
	return fmt.Sprintf("gemini: %s (%d)", e.Message, e.HTTPStatus)
}

// HasReason reports whether the error carries the given ErrorInfo reason.
func (e *APIError) HasReason(reason string) bool {
	for _, r := range e.Reasons {
		if r == reason {
			return true
		}
	}
	return false
}

// Client calls the Gemini REST API with an API key.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another API root (tests, proxies).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient creates a client for the given API key.
// Returns nil if the key is empty.
func NewClient(apiKey string, opts ...Option) *Client {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil
	}
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate sends a single generateContent call and returns the first
// candidate's text. No timeout is applied beyond what ctx carries.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, error) {
	model := req.Model
	if model == "" {
		model = DefaultModel
	}

	wire := generateContentRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: req.Prompt}}}},
	}
	if req.SystemInstruction != "" {
		wire.SystemInstruction = &content{Parts: []part{{Text: req.SystemInstruction}}}
	}
	if req.Config != (GenerationConfig{}) {
		cfg := req.Config
		wire.GenerationConfig = &cfg
	}

	body, err := c.post(ctx, "/models/"+url.PathEscape(model)+":generateContent", wire)
	if err != nil {
		return GenerateResponse{}, err
	}

	var raw generateContentResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return GenerateResponse{}, fmt.Errorf("gemini: parsing response: %w", err)
	}

	if len(raw.Candidates) == 0 {
		if raw.PromptFeedback != nil && raw.PromptFeedback.BlockReason != "" {
			return GenerateResponse{}, fmt.Errorf("gemini: prompt blocked (%s)", raw.PromptFeedback.BlockReason)
		}
		return GenerateResponse{ModelVersion: raw.ModelVersion}, ErrNoCandidates
	}

	first := raw.Candidates[0]
	var text strings.Builder
	if first.Content != nil {
		for _, p := range first.Content.Parts {
			text.WriteString(p.Text)
		}
	}

	return GenerateResponse{
		Text:         text.String(),
		FinishReason: first.FinishReason,
		ModelVersion: raw.ModelVersion,
	}, nil
}

// post performs an authenticated JSON POST and returns the response body.
func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("gemini: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("gemini: creating request: %w", err)
	}

	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	//nolint:gosec // URL is built from the configured base URL
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("gemini: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp.StatusCode, body)
	}
	return body, nil
}

// decodeAPIError builds an APIError from a non-2xx body. Bodies that are not
// the standard envelope fall back to the raw text.
func decodeAPIError(httpStatus int, body []byte) *APIError {
	apiErr := &APIError{HTTPStatus: httpStatus, Code: httpStatus}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error.Message != "" {
		apiErr.Message = env.Error.Message
		apiErr.Status = env.Error.Status
		if env.Error.Code != 0 {
			apiErr.Code = env.Error.Code
		}
		for _, d := range env.Error.Details {
			if d.Reason != "" {
				apiErr.Reasons = append(apiErr.Reasons, d.Reason)
			}
		}
		return apiErr
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(httpStatus)
	}
	apiErr.Message = msg
	return apiErr
}
