package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRejectsEmptyKey(t *testing.T) {
	assert.Nil(t, NewClient(""))
	assert.Nil(t, NewClient("   "))
	assert.NotNil(t, NewClient("abc"))
}

func TestGenerateSendsExpectedRequest(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Pay "},{"text":"today."}]},"finishReason":"STOP"}],"modelVersion":"gemini-2.5-flash-001"}`)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := c.Generate(context.Background(), GenerateRequest{
		Model:             "gemini-2.5-flash",
		Prompt:            "hello",
		SystemInstruction: "be nice",
		Config:            GenerationConfig{Temperature: 0.7, TopP: 0.95, TopK: 64, MaxOutputTokens: 500},
	})
	require.NoError(t, err)

	assert.Equal(t, "Pay today.", resp.Text)
	assert.Equal(t, "STOP", resp.FinishReason)
	assert.Equal(t, "gemini-2.5-flash-001", resp.ModelVersion)

	assert.Equal(t, "/models/gemini-2.5-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)

	cfg, ok := gotBody["generationConfig"].(map[string]any)
	require.True(t, ok, "generationConfig missing: %v", gotBody)
	assert.InDelta(t, 0.7, cfg["temperature"], 1e-9)
	assert.InDelta(t, 0.95, cfg["topP"], 1e-9)
	assert.InDelta(t, 64, cfg["topK"], 1e-9)
	assert.InDelta(t, 500, cfg["maxOutputTokens"], 1e-9)

	sys, ok := gotBody["systemInstruction"].(map[string]any)
	require.True(t, ok)
	parts := sys["parts"].([]any)
	assert.Equal(t, "be nice", parts[0].(map[string]any)["text"])
}

func TestGenerateDecodesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT","details":[{"@type":"type.googleapis.com/google.rpc.ErrorInfo","reason":"API_KEY_INVALID"}]}}`)
	}))
	defer srv.Close()

	_, err := NewClient("bad", WithBaseURL(srv.URL)).Generate(context.Background(), GenerateRequest{Prompt: "x"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus)
	assert.Equal(t, "INVALID_ARGUMENT", apiErr.Status)
	assert.True(t, apiErr.HasReason("API_KEY_INVALID"))
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestGenerateNonEnvelopeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, "Requested entity was not found.")
	}))
	defer srv.Close()

	_, err := NewClient("k", WithBaseURL(srv.URL)).Generate(context.Background(), GenerateRequest{Prompt: "x"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "Requested entity was not found."))
}

func TestGenerateEmptyCandidateText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[]},"finishReason":"MAX_TOKENS"}]}`)
	}))
	defer srv.Close()

	resp, err := NewClient("k", WithBaseURL(srv.URL)).Generate(context.Background(), GenerateRequest{Prompt: "x"})
	require.NoError(t, err)
	assert.Empty(t, resp.Text)
	assert.Equal(t, "MAX_TOKENS", resp.FinishReason)
}

func TestGenerateNoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"candidates":[]}`)
	}))
	defer srv.Close()

	_, err := NewClient("k", WithBaseURL(srv.URL)).Generate(context.Background(), GenerateRequest{Prompt: "x"})
	assert.ErrorIs(t, err, ErrNoCandidates)
}
