package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"SentimentExporter/internal/app"
	"SentimentExporter/internal/config"
	"SentimentExporter/internal/logging"
)

var (
	configPath string
	sourceName string

	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sentimentexporter",
	Short: "sentimentexporter fetches sentiment index history and exports it as CSV or XLSX.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load(configPath)
		logger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVarP(&sourceName, "source", "s", "", "source to use (defaults to the configured default source)")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newApplication() (*app.Application, error) {
	return app.New(cfg, logger, app.Options{})
}
