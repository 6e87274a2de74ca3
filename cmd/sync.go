package cmd

import (
	"errors"
	"fmt"

	"github.com/harrisonrobin/aledger/pkg/mirror"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push the whole ledger to the webhook again",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			out := a.ctrl.Resync(cmd.Context())
			switch out {
			case mirror.Skipped:
				if !a.ctrl.Config().SyncEnabled() {
					return errors.New("no webhook configured, see 'aledger config set-webhook'")
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to sync.")
			case mirror.FailedLocally:
				fmt.Fprintln(cmd.ErrOrStderr(), statusLine(a.ctrl.Status()))
				return errors.New("sync failed")
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Sent %d entries\n", len(a.ctrl.Entries()))
				fmt.Fprintln(cmd.ErrOrStderr(), statusLine(a.ctrl.Status()))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
