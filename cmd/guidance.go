package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cplan/internal/advisor"
	"github.com/theirongolddev/cplan/internal/cli"
	"github.com/theirongolddev/cplan/internal/session"
)

var guidanceCmd = &cobra.Command{
	Use:   "guidance",
	Short: `Ask Gemini "Pay same day?" for the current card`,
	RunE:  runGuidance,
}

func init() {
	rootCmd.AddCommand(guidanceCmd)
}

func runGuidance(_ *cobra.Command, _ []string) error {
	rt, err := loadRuntime(os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = rt.closeLog() }()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	st := rt.checkedState(ctx)
	st, ok := session.BeginGuidance(st)
	if !ok {
		return errors.New(st.Error)
	}

	svc := rt.advisor()
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Asking %s: %q\n", svc.Model(), advisor.Question)
	}

	text, reqErr := svc.RequestGuidance(ctx, session.GuidanceRequest(st))
	st = session.FinishGuidance(st, text, reqErr)
	if st.Error != "" {
		return errors.New(st.Error)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("GUIDANCE  Pay same day?"))
	fmt.Println()
	fmt.Print(cli.RenderParagraph(st.Guidance, 72))
	fmt.Println()
	return nil
}
