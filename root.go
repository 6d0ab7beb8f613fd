package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/asmundstavdahl/notes/internal/config"
	"github.com/asmundstavdahl/notes/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *slog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "notes",
	Short: "A minimal notes service with web and terminal frontends",
	Long: `Notes stores titled text notes behind a small JSON API.
The web and tui commands are frontends that talk to that API over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			loaded.Log.Level = "debug"
		}
		cfg = loaded

		logger = observability.NewLogger(cfg.Log, os.Stderr)
		slog.SetDefault(logger)

		if cfg.Log.Level != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}
