// Package config reads and writes the cplan TOML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/theirongolddev/cplan/internal/gemini"
	"github.com/theirongolddev/cplan/internal/model"
	"github.com/theirongolddev/cplan/internal/pipeline"
)

// Environment variables checked for the Gemini key, in order.
const (
	EnvAPIKey       = "GEMINI_API_KEY"
	EnvAPIKeyLegacy = "API_KEY"
)

// Config holds all cplan configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Gemini     GeminiConfig     `toml:"gemini"`
	Thresholds ThresholdsConfig `toml:"thresholds"`
	Appearance AppearanceConfig `toml:"appearance"`
	Logging    LoggingConfig    `toml:"logging"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	InitialScore int    `toml:"initial_score"`
	CardFile     string `toml:"card_file,omitempty"`
}

// GeminiConfig holds generation API settings.
type GeminiConfig struct {
	APIKey  string `toml:"api_key,omitempty"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url,omitempty"`
}

// ThresholdsConfig holds utilization classification cut-offs (ratios).
type ThresholdsConfig struct {
	Safe    float64 `toml:"safe"`
	Warning float64 `toml:"warning"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`         // text or json
	File   string `toml:"file,omitempty"` // empty: stderr, or discarded in the TUI
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			InitialScore: int(model.InitialCreditScore),
		},
		Gemini: GeminiConfig{
			Model: gemini.DefaultModel,
		},
		Thresholds: ThresholdsConfig{
			Safe:    pipeline.DefaultSafeThreshold,
			Warning: pipeline.DefaultWarningThreshold,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cplan")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cplan")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// GetAPIKey returns the Gemini key from env vars or config, in that order.
func GetAPIKey(cfg Config) string {
	for _, env := range []string{EnvAPIKey, EnvAPIKeyLegacy} {
		if key := strings.TrimSpace(os.Getenv(env)); key != "" {
			return key
		}
	}
	return strings.TrimSpace(cfg.Gemini.APIKey)
}

// APIKeySource names where GetAPIKey found the key, or "" if nowhere.
func APIKeySource(cfg Config) string {
	for _, env := range []string{EnvAPIKey, EnvAPIKeyLegacy} {
		if strings.TrimSpace(os.Getenv(env)) != "" {
			return "env:" + env
		}
	}
	if strings.TrimSpace(cfg.Gemini.APIKey) != "" {
		return "config"
	}
	return ""
}

// Score returns the configured starting score, clamped.
func (g GeneralConfig) Score() model.CreditScore {
	if g.InitialScore == 0 {
		return model.InitialCreditScore
	}
	return model.ClampScore(model.CreditScore(g.InitialScore))
}

// Values converts to pipeline thresholds, falling back to defaults when the
// configured pair is out of range.
func (t ThresholdsConfig) Values() pipeline.Thresholds {
	return pipeline.Thresholds{Safe: t.Safe, Warning: t.Warning}.Normalize()
}

// MaskKey shows only the last four characters of a key.
func MaskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
