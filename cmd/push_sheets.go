package cmd

import (
	"errors"
	"fmt"

	"github.com/harrisonrobin/aledger/pkg/google"
	"github.com/harrisonrobin/aledger/pkg/mirror"
	"github.com/spf13/cobra"
)

var pushSheetsCmd = &cobra.Command{
	Use:   "push-sheets",
	Short: "Replace the sheet tab with the ledger through the Sheets API",
	Long: `Writes the ledger straight into the spreadsheet at the configured sheet URL,
without going through the webhook. Requires 'aledger auth'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			dest := a.ctrl.Config().SheetURL
			if dest == "" {
				return errors.New("no sheet URL configured, see 'aledger config set-sheet'")
			}
			if _, err := google.SpreadsheetID(dest); err != nil {
				return err
			}

			sc, err := google.NewClient(cmd.Context(), a.cfg.SheetName, a.log)
			if err != nil {
				return err
			}
			entries := a.ctrl.Entries()
			switch mirror.NewClient(sc, a.log).Push(cmd.Context(), dest, entries) {
			case mirror.Skipped:
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to push.")
			case mirror.FailedLocally:
				return errors.New("push to Google Sheets failed, run with --log-level debug for details")
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d entries to %s\n", len(entries), a.cfg.SheetName)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(pushSheetsCmd)
}
