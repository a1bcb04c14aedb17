package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/cplan/internal/model"
	"github.com/theirongolddev/cplan/internal/pipeline"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvAPIKeyLegacy, "")
	return dir
}

func TestLoadMissingReturnsDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.False(t, Exists())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := isolate(t)

	cfg := DefaultConfig()
	cfg.Gemini.APIKey = "secret-key"
	cfg.General.InitialScore = 680
	cfg.Thresholds.Safe = 0.25
	require.NoError(t, Save(cfg))

	info, err := os.Stat(filepath.Join(dir, "cplan", "config.toml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
	assert.True(t, Exists())
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "cplan", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[thresholds]\nwarning = 0.7\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.InDelta(t, 0.7, cfg.Thresholds.Warning, 1e-9)
	assert.InDelta(t, pipeline.DefaultSafeThreshold, cfg.Thresholds.Safe, 1e-9)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.Model)
}

func TestLoadInvalidFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "cplan", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("[general\n"), 0o600))

	_, err := Load()
	assert.ErrorContains(t, err, "parsing config")
}

func TestGetAPIKeyPrecedence(t *testing.T) {
	isolate(t)
	cfg := DefaultConfig()
	assert.Empty(t, GetAPIKey(cfg))
	assert.Empty(t, APIKeySource(cfg))

	cfg.Gemini.APIKey = " from-config "
	assert.Equal(t, "from-config", GetAPIKey(cfg))
	assert.Equal(t, "config", APIKeySource(cfg))

	t.Setenv(EnvAPIKeyLegacy, "legacy")
	assert.Equal(t, "legacy", GetAPIKey(cfg))

	t.Setenv(EnvAPIKey, "primary")
	assert.Equal(t, "primary", GetAPIKey(cfg))
	assert.Equal(t, "env:GEMINI_API_KEY", APIKeySource(cfg))
}

func TestScoreAndThresholds(t *testing.T) {
	assert.Equal(t, model.InitialCreditScore, GeneralConfig{}.Score())
	assert.Equal(t, model.MinCreditScore, GeneralConfig{InitialScore: 10}.Score())

	th := ThresholdsConfig{Safe: 0.8, Warning: 0.5}.Values()
	assert.Equal(t, pipeline.DefaultThresholds(), th)
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "***", MaskKey("abc"))
	assert.Equal(t, "******wxyz", MaskKey("abcdefwxyz"))
}
