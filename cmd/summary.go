package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cplan/internal/cli"
	"github.com/theirongolddev/cplan/internal/session"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Card overview: balance, utilization, bills and score",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	rt, err := loadRuntime(os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = rt.closeLog() }()

	now := time.Now()
	card := rt.state.Card
	sum := session.Summarize(rt.state, rt.thresholds)

	fmt.Println()
	fmt.Println(cli.RenderTitle("CREDIT PLANNER  " + card.Name))
	fmt.Println()

	table := cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Credit Limit", cli.FormatMoney(card.CreditLimit)},
			{"Current Balance", cli.FormatMoney(card.CurrentBalance)},
			{"Available Credit", cli.FormatMoney(sum.Available)},
			{"---"},
			{"Utilization", fmt.Sprintf("%s  %s", cli.FormatPercent(sum.Utilization), sum.Level.Label())},
			{"Minimum Payment", cli.FormatMoney(card.MinPaymentDue)},
			{"Due", fmt.Sprintf("%s (%s)", cli.FormatDate(card.PaymentDueDate), cli.FormatDue(card.PaymentDueDate, now))},
			{"---"},
			{"Credit Score", fmt.Sprintf("%d (estimated)", rt.state.Score)},
			{"Purchases", cli.FormatCount(len(card.SpendingHistory))},
			{"Total Spend", cli.FormatMoney(sum.TotalSpend)},
		},
	}
	fmt.Print(cli.RenderTable(table))
	fmt.Println()
	fmt.Println(cli.RenderGauge(sum.Percent, sum.Level, 40))
	fmt.Println()
	return nil
}
