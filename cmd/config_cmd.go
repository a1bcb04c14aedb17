package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cplan/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Initial score: %d\n", cfg.General.Score())
	if cfg.General.CardFile != "" {
		fmt.Printf("    Card file:     %s\n", cfg.General.CardFile)
	} else {
		fmt.Println("    Card file:     (demo card)")
	}
	fmt.Println()

	fmt.Println("  [Gemini]")
	if key := config.GetAPIKey(cfg); key != "" {
		fmt.Printf("    API key:  %s (%s)\n", config.MaskKey(key), config.APIKeySource(cfg))
	} else {
		fmt.Println("    API key:  not configured")
	}
	fmt.Printf("    Model:    %s\n", cfg.Gemini.Model)
	if cfg.Gemini.BaseURL != "" {
		fmt.Printf("    Base URL: %s\n", cfg.Gemini.BaseURL)
	}
	fmt.Println()

	th := cfg.Thresholds.Values()
	fmt.Println("  [Thresholds]")
	fmt.Printf("    Safe below:  %.0f%%\n", th.Safe*100)
	fmt.Printf("    Danger from: %.0f%%\n", th.Warning*100)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Logging]")
	fmt.Printf("    Level:  %s\n", cfg.Logging.Level)
	fmt.Printf("    Format: %s\n", cfg.Logging.Format)
	if cfg.Logging.File != "" {
		fmt.Printf("    File:   %s\n", cfg.Logging.File)
	}
	fmt.Println()

	fmt.Println("  Run `cplan setup` to reconfigure.")
	return nil
}
