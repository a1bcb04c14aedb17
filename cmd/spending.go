package cmd

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cplan/internal/cli"
	"github.com/theirongolddev/cplan/internal/model"
	"github.com/theirongolddev/cplan/internal/pipeline"
)

var flagSpendingDays int

var spendingCmd = &cobra.Command{
	Use:   "spending",
	Short: "List recent purchases with a daily sparkline",
	RunE:  runSpending,
}

func init() {
	spendingCmd.Flags().IntVarP(&flagSpendingDays, "days", "n", 30, "Window for the daily sparkline")
	rootCmd.AddCommand(spendingCmd)
}

func runSpending(_ *cobra.Command, _ []string) error {
	rt, err := loadRuntime(os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = rt.closeLog() }()

	history := rt.state.Card.SpendingHistory
	fmt.Println()
	fmt.Println(cli.RenderTitle("RECENT SPENDING"))
	fmt.Println()

	if len(history) == 0 {
		fmt.Println("  No purchases recorded.")
		return nil
	}

	entries := slices.Clone(history)
	slices.SortStableFunc(entries, func(a, b model.SpendingEntry) int {
		return b.Date.Compare(a.Date)
	})

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		desc := e.Description
		if desc == "" {
			desc = "N/A"
		}
		rows = append(rows, []string{cli.FormatDate(e.Date), desc, cli.FormatMoney(e.Amount)})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Description", "Amount"},
		Rows:    rows,
	}))

	days := max(flagSpendingDays, 1)
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	since := today.AddDate(0, 0, -(days - 1))
	daily := pipeline.AggregateDailySpend(history, since, today.AddDate(0, 0, 1))
	values := make([]float64, len(daily))
	for i, d := range daily {
		values[i] = d.Total.InexactFloat64()
	}

	fmt.Println()
	fmt.Print(cli.RenderFields([]cli.KeyValue{
		{Key: fmt.Sprintf("Last %dd", days), Value: cli.RenderSparkline(values)},
		{Key: "Total", Value: cli.FormatMoney(pipeline.TotalSpend(history))},
	}))
	return nil
}
