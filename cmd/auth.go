package cmd

import (
	"fmt"

	"github.com/harrisonrobin/aledger/pkg/auth"
	"github.com/harrisonrobin/aledger/pkg/google"
	"github.com/harrisonrobin/aledger/pkg/logger"
	"github.com/spf13/cobra"
)

var authReset bool

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize aledger to write to Google Sheets",
	Long: `Runs the OAuth flow used by 'aledger push-sheets'. Place the OAuth client
file from the Google Cloud console at ~/.config/aledger/credentials.json first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if authReset {
			if err := auth.RemoveToken(); err != nil {
				return fmt.Errorf("removing cached token: %w", err)
			}
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if _, err := google.NewClient(cmd.Context(), cfg.SheetName, logger.FromContext(cmd.Context())); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Authorized")
		return nil
	},
}

func init() {
	authCmd.Flags().BoolVar(&authReset, "reset", false, "discard the cached token and authorize again")
	rootCmd.AddCommand(authCmd)
}
