package tui

import (
	"errors"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/cplan/internal/config"
	"github.com/theirongolddev/cplan/internal/gemini"
	"github.com/theirongolddev/cplan/internal/tui/theme"
)

// SetupValues holds the answers collected by the setup forms.
type SetupValues struct {
	APIKey string
	Model  string
	Theme  string
}

func validateKey(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("an API key is required")
	}
	return nil
}

func keyInput(vals *SetupValues) *huh.Input {
	return huh.NewInput().
		Title("Gemini API key").
		Description("Create one at https://aistudio.google.com/apikey").
		Placeholder("AIza...").
		EchoMode(huh.EchoModePassword).
		Validate(validateKey).
		Value(&vals.APIKey)
}

// NewKeyForm builds the single-field form used to select an API key.
func NewKeyForm(vals *SetupValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Select API key").
				Description("Guidance is generated by Google Gemini.\nThe key is used for this session and saved to "+config.ConfigPath()),
			keyInput(vals),
		),
	).WithTheme(huh.ThemeDracula()).WithShowHelp(false)
}

// NewSetupForm builds the first-run wizard. Existing config values are used
// as defaults.
func NewSetupForm(vals *SetupValues, cfg config.Config) *huh.Form {
	if vals.Model == "" {
		vals.Model = cfg.Gemini.Model
	}
	if vals.Theme == "" {
		vals.Theme = cfg.Appearance.Theme
	}

	models := []string{gemini.DefaultModel, "gemini-2.5-pro", "gemini-2.0-flash"}
	if !slices.Contains(models, vals.Model) && vals.Model != "" {
		models = append([]string{vals.Model}, models...)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to cplan").
				Description("Track utilization, upcoming bills and an estimated\ncredit score. Guidance needs a Gemini API key."),
			keyInput(vals),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Model").
				Options(huh.NewOptions(models...)...).
				Value(&vals.Model),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&vals.Theme),
		),
	).WithTheme(huh.ThemeDracula())
}

// ApplySetup copies non-empty answers into cfg.
func ApplySetup(cfg *config.Config, vals SetupValues) {
	if key := strings.TrimSpace(vals.APIKey); key != "" {
		cfg.Gemini.APIKey = key
	}
	if m := strings.TrimSpace(vals.Model); m != "" {
		cfg.Gemini.Model = m
	}
	if theme.Valid(vals.Theme) {
		cfg.Appearance.Theme = vals.Theme
	}
}
