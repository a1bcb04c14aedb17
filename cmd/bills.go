package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cplan/internal/cli"
	"github.com/theirongolddev/cplan/internal/session"
)

var billsCmd = &cobra.Command{
	Use:   "bills",
	Short: "List upcoming bills by due date",
	RunE:  runBills,
}

func init() {
	rootCmd.AddCommand(billsCmd)
}

func runBills(_ *cobra.Command, _ []string) error {
	rt, err := loadRuntime(os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = rt.closeLog() }()

	now := time.Now()
	bills := session.Summarize(rt.state, rt.thresholds).Bills

	fmt.Println()
	fmt.Println(cli.RenderTitle("UPCOMING BILLS"))
	fmt.Println()

	if len(bills) == 0 {
		fmt.Println("  No upcoming bills for this period.")
		return nil
	}

	rows := make([][]string, 0, len(bills))
	for _, b := range bills {
		status := "unpaid"
		if b.IsPaid {
			status = "paid"
		}
		rows = append(rows, []string{
			b.Name,
			cli.FormatDate(b.DueDate),
			cli.FormatDue(b.DueDate, now),
			cli.FormatMoney(b.Amount),
			status,
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Bill", "Due", "When", "Amount", "Status"},
		Rows:    rows,
	}))
	return nil
}
