package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/cplan/internal/cli"
	"github.com/theirongolddev/cplan/internal/daemon"
	"github.com/theirongolddev/cplan/internal/store"
)

var (
	flagServeAddr         string
	flagServeEventsBuffer int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard session over HTTP/SSE",
	Long: `Serve one planner session as a JSON API.

Endpoints:
  GET  /healthz
  GET  /v1/status
  POST /v1/simulate       {"action":"payment","amount":"100"}
  POST /v1/guidance
  POST /v1/credential
  POST /v1/spending       {"date":"2025-06-01","amount":"12.50","description":"Lunch"}
  GET  /v1/spending/daily?days=30
  GET  /v1/events
  GET  /v1/stream         (server-sent events)`,
	RunE: runServe,
}

var serveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query a running server's status",
	RunE:  runServeStatus,
}

func init() {
	serveCmd.PersistentFlags().StringVar(&flagServeAddr, "addr", "127.0.0.1:8787", "HTTP listen address")
	serveCmd.Flags().IntVar(&flagServeEventsBuffer, "events-buffer", 200, "Max in-memory events retained")

	serveCmd.AddCommand(serveStatusCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	rt, err := loadRuntime(os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = rt.closeLog() }()

	ledger, err := store.Open()
	if err != nil {
		return err
	}
	defer func() { _ = ledger.Close() }()

	svc, err := daemon.New(daemon.Config{
		Addr:         flagServeAddr,
		EventsBuffer: flagServeEventsBuffer,
		Thresholds:   rt.thresholds,
	}, rt.state, daemon.Deps{
		Advisor:  rt.advisor(),
		Selector: rt.selector(),
		Ledger:   ledger,
		Logger:   rt.log,
	})
	if err != nil {
		return err
	}

	if !flagQuiet {
		fmt.Printf("  cplan serving %s on http://%s\n", rt.state.Card.Name, flagServeAddr)
		fmt.Printf("  Status: http://%s/v1/status\n", flagServeAddr)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runServeStatus(_ *cobra.Command, _ []string) error {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + flagServeAddr + "/v1/status") //nolint:noctx // short status probe
	if err != nil {
		fmt.Printf("  Server: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  Server: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st daemon.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  Server: malformed response (%v)\n", err)
		return nil
	}

	snap := st.Snapshot
	fields := []cli.KeyValue{
		{Key: "Address", Value: "http://" + flagServeAddr},
		{Key: "Up since", Value: st.StartedAt.Local().Format(time.RFC3339)},
		{Key: "Card", Value: snap.CardName},
		{Key: "Utilization", Value: fmt.Sprintf("%s (%s)", cli.FormatWholePercent(snap.UtilizationPercent), snap.LevelLabel)},
		{Key: "Score", Value: fmt.Sprintf("%d", snap.Score)},
		{Key: "Key selected", Value: fmt.Sprintf("%v", snap.CredentialSelected)},
		{Key: "Events", Value: cli.FormatCount(st.EventCount)},
		{Key: "Subscribers", Value: cli.FormatCount(st.SubscriberCount)},
	}
	if snap.SimulatedScore != nil {
		fields = append(fields, cli.KeyValue{Key: "Simulated", Value: fmt.Sprintf("%d", *snap.SimulatedScore)})
	}
	if snap.Error != "" {
		fields = append(fields, cli.KeyValue{Key: "Last error", Value: snap.Error})
	}
	fmt.Print(cli.RenderFields(fields))
	return nil
}
