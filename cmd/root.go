package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/harrisonrobin/aledger/pkg/logger"
	"github.com/spf13/cobra"
)

const appName = "aledger"

var (
	logLevel   string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "An AI-assisted expense ledger",
	Long: `aledger records expenses from free text. A language model extracts each
purchase (date, item, amount, category) and the ledger is kept locally, with
an optional mirror to a Google Sheets webhook.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		l := logger.InitWriter(cmd.ErrOrStderr(), logLevel)
		cmd.SetContext(logger.ToContext(cmd.Context(), l))
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", envOr("ALEDGER_LOG_LEVEL", "warn"), "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/aledger/config.json)")
}
