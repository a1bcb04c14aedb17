package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cplan/internal/config"
	"github.com/theirongolddev/cplan/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}

	var vals tui.SetupValues
	if err := tui.NewSetupForm(&vals, cfg).Run(); err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	tui.ApplySetup(&cfg, vals)

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `cplan setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
