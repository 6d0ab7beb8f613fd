package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/asmundstavdahl/notes/internal/client"
	"github.com/asmundstavdahl/notes/internal/observability"
	"github.com/asmundstavdahl/notes/internal/tui"
	"github.com/spf13/cobra"
)

var (
	tuiAPIURL  string
	tuiLogFile string
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the terminal frontend against a notes API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		apiURL := cfg.Web.APIURL
		if tuiAPIURL != "" {
			apiURL = tuiAPIURL
		}

		// The terminal is owned by the UI, so logs go to a file or nowhere.
		var w io.Writer = io.Discard
		if tuiLogFile != "" {
			f, err := os.OpenFile(tuiLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return fmt.Errorf("open log file: %w", err)
			}
			defer f.Close()
			w = f
		}
		uiLogger := observability.NewLogger(cfg.Log, w)
		slog.SetDefault(uiLogger)

		return tui.Run(ctx, client.New(apiURL), uiLogger)
	},
}

func init() {
	tuiCmd.Flags().StringVar(&tuiAPIURL, "api", "", "Base URL of the notes API (overrides web.api_url)")
	tuiCmd.Flags().StringVar(&tuiLogFile, "log-file", "", "Write logs to this file while the UI runs")
	rootCmd.AddCommand(tuiCmd)
}
