package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/asmundstavdahl/notes/internal/client"
	"github.com/asmundstavdahl/notes/internal/httpserver"
	"github.com/asmundstavdahl/notes/internal/web"
	"github.com/spf13/cobra"
)

var webAPIURL string

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Run the HTML frontend against a notes API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		apiURL := cfg.Web.APIURL
		if webAPIURL != "" {
			apiURL = webAPIURL
		}

		frontend := web.New(client.New(apiURL), logger)
		srv := &http.Server{
			Addr:         cfg.Web.Listen,
			Handler:      frontend.NewRouter(),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		}
		logger.Info("notes web frontend", "addr", cfg.Web.Listen, "api", apiURL)
		return httpserver.ListenAndRun(ctx, srv, logger)
	},
}

func init() {
	webCmd.Flags().StringVar(&webAPIURL, "api", "", "Base URL of the notes API (overrides web.api_url)")
	rootCmd.AddCommand(webCmd)
}
