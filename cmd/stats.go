package cmd

import (
	"time"

	"github.com/harrisonrobin/aledger/pkg/report"
	"github.com/spf13/cobra"
)

// now is replaced in tests.
var now = time.Now

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show totals and spending per category",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			writeSummary(cmd.OutOrStdout(), report.Summarize(a.ctrl.Entries(), now()))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
