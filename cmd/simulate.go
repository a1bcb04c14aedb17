package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/cplan/internal/cli"
	"github.com/theirongolddev/cplan/internal/model"
	"github.com/theirongolddev/cplan/internal/session"
)

var (
	flagSimAction string
	flagSimAmount string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Estimate how a payment or purchase would move your score",
	Example: `  cplan simulate --action payment --amount 100
  cplan simulate --action spending --amount 250 --score 700`,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&flagSimAction, "action", "payment", "payment or spending")
	simulateCmd.Flags().StringVar(&flagSimAmount, "amount", "", "Dollar amount (required)")
	_ = simulateCmd.MarkFlagRequired("amount")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(_ *cobra.Command, _ []string) error {
	action, err := model.ParseScoreAction(flagSimAction)
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(flagSimAmount)
	if err != nil {
		return fmt.Errorf("invalid --amount %q: %w", flagSimAmount, err)
	}
	if amount.IsNegative() {
		return errors.New("--amount must not be negative")
	}

	rt, err := loadRuntime(os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = rt.closeLog() }()

	st := session.Simulate(rt.state, action, amount)
	simulated := *st.Simulated

	fmt.Println()
	fmt.Print(cli.RenderFields([]cli.KeyValue{
		{Key: "Current score", Value: fmt.Sprintf("%d", st.Score)},
		{Key: "Action", Value: fmt.Sprintf("%s of %s", action, cli.FormatMoney(amount))},
		{Key: "Simulated score", Value: fmt.Sprintf("%d (%s)", simulated, cli.FormatScoreDelta(int(simulated)-int(st.Score)))},
	}))
	if simulated == model.MaxCreditScore || simulated == model.MinCreditScore {
		fmt.Print(cli.RenderWarning(fmt.Sprintf("Scores are bounded to %d-%d.", model.MinCreditScore, model.MaxCreditScore)))
	}
	fmt.Println()
	return nil
}
