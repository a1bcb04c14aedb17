package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cplan/internal/cli"
	"github.com/theirongolddev/cplan/internal/session"
)

var flagGaugeWidth int

var gaugeCmd = &cobra.Command{
	Use:   "gauge",
	Short: "Show the credit utilization gauge",
	RunE:  runGauge,
}

func init() {
	gaugeCmd.Flags().IntVar(&flagGaugeWidth, "width", 40, "Bar width in columns")
	rootCmd.AddCommand(gaugeCmd)
}

func runGauge(_ *cobra.Command, _ []string) error {
	rt, err := loadRuntime(os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = rt.closeLog() }()

	sum := session.Summarize(rt.state, rt.thresholds)
	card := rt.state.Card

	fmt.Println()
	fmt.Println("  " + cli.RenderGauge(sum.Percent, sum.Level, flagGaugeWidth))
	fmt.Println()
	fmt.Print(cli.RenderFields([]cli.KeyValue{
		{Key: "Balance", Value: fmt.Sprintf("%s of %s", cli.FormatMoney(card.CurrentBalance), cli.FormatMoney(card.CreditLimit))},
		{Key: "Utilization", Value: cli.FormatPercent(sum.Utilization)},
		{Key: "Thresholds", Value: fmt.Sprintf("safe < %s, danger >= %s",
			cli.FormatPercent(rt.thresholds.Safe), cli.FormatPercent(rt.thresholds.Warning))},
	}))
	if sum.Utilization > 1 {
		fmt.Print(cli.RenderWarning("Balance is over the credit limit."))
	}
	fmt.Println()
	return nil
}
