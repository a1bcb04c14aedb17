package advisor

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/theirongolddev/cplan/internal/gemini"
	"github.com/theirongolddev/cplan/internal/logging"
	"github.com/theirongolddev/cplan/internal/model"
)

// Sampling parameters for every guidance request.
var DefaultGenerationConfig = gemini.GenerationConfig{
	Temperature:     0.7,
	TopP:            0.95,
	TopK:            64,
	MaxOutputTokens: 500,
}

// Generator produces text for a prompt. *gemini.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, req gemini.GenerateRequest) (gemini.GenerateResponse, error)
}

// GeneratorFactory builds a Generator for an API key. It is called on every
// request so a freshly selected key takes effect immediately.
type GeneratorFactory func(apiKey string) Generator

// CredentialFunc returns the current API key, or "" when none is set.
type CredentialFunc func() string

// Config wires a Service.
type Config struct {
	Model        string
	BaseURL      string
	Credential   CredentialFunc
	NewGenerator GeneratorFactory // defaults to a gemini.Client
	Logger       *slog.Logger
}

// Service requests guidance for card snapshots.
type Service struct {
	model      string
	credential CredentialFunc
	newGen     GeneratorFactory
	log        *slog.Logger
}

// New returns a Service with defaults applied.
func New(cfg Config) *Service {
	if cfg.Model == "" {
		cfg.Model = gemini.DefaultModel
	}
	if cfg.Credential == nil {
		cfg.Credential = func() string { return "" }
	}
	if cfg.NewGenerator == nil {
		baseURL := cfg.BaseURL
		cfg.NewGenerator = func(apiKey string) Generator {
			c := gemini.NewClient(apiKey, gemini.WithBaseURL(baseURL))
			if c == nil {
				return nil
			}
			return c
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	return &Service{
		model:      cfg.Model,
		credential: cfg.Credential,
		newGen:     cfg.NewGenerator,
		log:        cfg.Logger,
	}
}

// Model returns the model identifier requests are sent to.
func (s *Service) Model() string { return s.model }

// RequestGuidance sends one generation request for req and returns trimmed
// advice text. It never retries. Errors are one of *ConfigurationError,
// *CredentialInvalidError, ErrEmptyResponse, *GuidanceFailure, or ErrUnknown.
func (s *Service) RequestGuidance(ctx context.Context, req model.GuidanceRequest) (string, error) {
	apiKey := strings.TrimSpace(s.credential())
	if apiKey == "" {
		return "", &ConfigurationError{Reason: "API key is not defined (set GEMINI_API_KEY or run `cplan setup`)"}
	}

	gen := s.newGen(apiKey)
	if gen == nil {
		return "", &ConfigurationError{Reason: "API key could not be used to create a client"}
	}

	start := time.Now()
	resp, err := gen.Generate(ctx, gemini.GenerateRequest{
		Model:             s.model,
		Prompt:            Prompt(req),
		SystemInstruction: SystemInstruction,
		Config:            DefaultGenerationConfig,
	})
	if err != nil {
		classified := classify(err)
		s.log.Error("guidance request failed",
			"model", s.model,
			"elapsed", time.Since(start),
			"err", err,
		)
		return "", classified
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		s.log.Warn("guidance response empty", "model", s.model, "finish_reason", resp.FinishReason)
		return "", ErrEmptyResponse
	}

	s.log.Info("guidance received",
		"model", s.model,
		"elapsed", time.Since(start),
		"chars", len(text),
	)
	return text, nil
}
