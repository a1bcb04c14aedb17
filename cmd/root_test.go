package cmd

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/cplan/internal/advisor"
	"github.com/theirongolddev/cplan/internal/config"
	"github.com/theirongolddev/cplan/internal/logging"
	"github.com/theirongolddev/cplan/internal/model"
	"github.com/theirongolddev/cplan/internal/session"
	"github.com/theirongolddev/cplan/internal/source"
)

// geminiStub rejects one key with API_KEY_INVALID and answers every other.
type geminiStub struct {
	mu     sync.Mutex
	reject string
	seen   []string
}

func (g *geminiStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get("x-goog-api-key")
	g.mu.Lock()
	g.seen = append(g.seen, key)
	g.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if key == g.reject {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT","details":[{"@type":"type.googleapis.com/google.rpc.ErrorInfo","reason":"API_KEY_INVALID"}]}}`)
		return
	}
	_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"Yes, pay the same day."}]},"finishReason":"STOP"}]}`)
}

func testRuntime(t *testing.T, baseURL string) *runtime {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Gemini.BaseURL = baseURL
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.Local)
	return &runtime{
		cfg:        cfg,
		log:        logging.Discard(),
		closeLog:   func() error { return nil },
		state:      session.New(source.SampleCard(now), model.InitialCreditScore),
		thresholds: cfg.Thresholds.Values(),
		chosen:     &session.ChosenKey{},
	}
}

func ask(ctx context.Context, t *testing.T, rt *runtime, st session.State) session.State {
	t.Helper()
	st, ok := session.BeginGuidance(st)
	require.True(t, ok, st.Error)
	text, err := rt.advisor().RequestGuidance(ctx, session.GuidanceRequest(st))
	return session.FinishGuidance(st, text, err)
}

func TestReselectedKeyReplacesRevokedEnvKey(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(config.EnvAPIKey, "revoked-env-key")
	t.Setenv(config.EnvAPIKeyLegacy, "")

	stub := &geminiStub{reject: "revoked-env-key"}
	srv := httptest.NewServer(stub)
	defer srv.Close()

	ctx := context.Background()
	rt := testRuntime(t, srv.URL)
	sel := rt.interactiveSelector(func(context.Context) (string, error) {
		return "fresh-valid-key", nil
	})

	st := session.CheckCredential(ctx, rt.state, sel)
	require.True(t, st.CredentialSelected)

	st = ask(ctx, t, rt, st)
	assert.False(t, st.CredentialSelected)
	assert.Equal(t, advisor.RemediationMessage, st.Error)

	st = session.SelectCredential(ctx, st, sel)
	require.True(t, st.CredentialSelected)
	require.Empty(t, st.Error)

	st = ask(ctx, t, rt, st)
	assert.Empty(t, st.Error)
	assert.Equal(t, "Yes, pay the same day.", st.Guidance)
	assert.Equal(t, []string{"revoked-env-key", "fresh-valid-key"}, stub.seen)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "fresh-valid-key", cfg.Gemini.APIKey, "saved for later runs")
}

func TestInteractiveSelectorCancelKeepsKey(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(config.EnvAPIKey, "env-key")
	t.Setenv(config.EnvAPIKeyLegacy, "")

	rt := testRuntime(t, "")
	sel := rt.interactiveSelector(func(context.Context) (string, error) {
		return "", session.ErrSelectionCancelled
	})

	st := session.SelectCredential(context.Background(), rt.state, sel)
	assert.False(t, st.CredentialSelected)
	assert.Empty(t, st.Error)
	assert.Equal(t, "env-key", rt.currentAPIKey())
	assert.False(t, config.Exists())
}
