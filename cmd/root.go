// Package cmd implements the cplan CLI commands.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cplan/internal/advisor"
	"github.com/theirongolddev/cplan/internal/config"
	"github.com/theirongolddev/cplan/internal/logging"
	"github.com/theirongolddev/cplan/internal/model"
	"github.com/theirongolddev/cplan/internal/pipeline"
	"github.com/theirongolddev/cplan/internal/session"
	"github.com/theirongolddev/cplan/internal/source"
)

var (
	flagCard        string
	flagSpendingCSV string
	flagScore       int
	flagQuiet       bool
	flagLogLevel    string
)

var rootCmd = &cobra.Command{
	Use:          "cplan",
	Short:        "Smart Credit Planner",
	Long:         "Track credit utilization, upcoming bills and an estimated score, and ask Gemini whether to pay the same day.",
	RunE:         runSummary,
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagCard, "card", "c", "", "Card TOML file (default: config card_file, else the demo card)")
	pf.StringVar(&flagSpendingCSV, "spending-csv", "", "CSV of date,amount,description rows to append to the card")
	pf.IntVar(&flagScore, "score", 0, "Starting credit score (default: config initial_score)")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// runtime is the shared state every command starts from.
type runtime struct {
	cfg        config.Config
	log        *slog.Logger
	closeLog   func() error
	state      session.State
	thresholds pipeline.Thresholds
	chosen     *session.ChosenKey
}

// loadRuntime reads config, opens the logger, and loads the card. Logs go to
// logOut unless the config names a file.
func loadRuntime(logOut io.Writer) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagLogLevel != "" {
		cfg.Logging.Level = flagLogLevel
	} else if flagQuiet {
		cfg.Logging.Level = "error"
	}

	log, closeLog, err := logging.Open(cfg.Logging, logOut)
	if err != nil {
		return nil, err
	}

	cardFile := flagCard
	if cardFile == "" {
		cardFile = cfg.General.CardFile
	}
	card, parseErrors, err := source.Load(source.Options{
		CardFile:    cardFile,
		SpendingCSV: flagSpendingCSV,
		Now:         time.Now(),
	})
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	if parseErrors > 0 && !flagQuiet {
		fmt.Fprintf(os.Stderr, "  %d spending rows could not be parsed\n", parseErrors)
	}
	log.Debug("card loaded", "card_id", card.ID, "entries", len(card.SpendingHistory), "source", cardSource(cardFile))

	score := cfg.General.Score()
	if flagScore != 0 {
		score = model.ClampScore(model.CreditScore(flagScore))
	}

	return &runtime{
		cfg:        cfg,
		log:        log,
		closeLog:   closeLog,
		state:      session.New(card, score),
		thresholds: cfg.Thresholds.Values(),
		chosen:     &session.ChosenKey{},
	}, nil
}

func cardSource(path string) string {
	if path == "" {
		return "sample"
	}
	return path
}

// currentAPIKey prefers a key picked this run, then env and config. Config
// is re-read so a key saved mid-session is picked up.
func (r *runtime) currentAPIKey() string {
	return r.chosen.Or(func() string {
		cfg, err := config.Load()
		if err != nil {
			cfg = r.cfg
		}
		return config.GetAPIKey(cfg)
	})()
}

// chooseKey makes key the one sent for the rest of the run and saves it for
// later runs. A failed save only loses the latter.
func (r *runtime) chooseKey(key string) {
	r.chosen.Set(key)

	cfg, err := config.Load()
	if err != nil {
		cfg = r.cfg
	}
	cfg.Gemini.APIKey = r.chosen.Get()
	if err := config.Save(cfg); err != nil {
		r.log.Warn("saving selected key", "error", err)
	}
}

func (r *runtime) advisor() *advisor.Service {
	return advisor.New(advisor.Config{
		Model:      r.cfg.Gemini.Model,
		BaseURL:    r.cfg.Gemini.BaseURL,
		Credential: r.currentAPIKey,
		Logger:     r.log,
	})
}

// selector reports whether a key is available. It has no picker.
func (r *runtime) selector() session.KeySelector {
	return session.EnvSelector{Lookup: r.currentAPIKey}
}

// interactiveSelector is selector plus a picker: prompt asks for a key and
// the answer becomes the chosen key.
func (r *runtime) interactiveSelector(prompt func(ctx context.Context) (string, error)) session.KeySelector {
	return session.EnvSelector{
		Lookup: r.currentAPIKey,
		Prompt: func(ctx context.Context) error {
			key, err := prompt(ctx)
			if err != nil {
				return err
			}
			r.chooseKey(key)
			return nil
		},
	}
}

// checkedState returns the session state after the credential check.
func (r *runtime) checkedState(ctx context.Context) session.State {
	return session.CheckCredential(ctx, r.state, r.selector())
}
