package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/asmundstavdahl/notes/internal/api"
	"github.com/asmundstavdahl/notes/internal/httpserver"
	"github.com/asmundstavdahl/notes/internal/observability"
	"github.com/asmundstavdahl/notes/internal/store"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the notes REST API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		notes, err := store.Open(cfg.Store, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := notes.Close(); err != nil {
				logger.Error("close store", "error", err)
			}
		}()

		h := api.NewHandler(notes, logger, observability.NewMetrics())
		srv := &http.Server{
			Addr:         cfg.Listen,
			Handler:      api.NewRouter(h, cfg.CORSOrigins),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		}
		logger.Info("notes api", "addr", cfg.Listen, "store", cfg.Store.Driver)
		return httpserver.ListenAndRun(ctx, srv, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
