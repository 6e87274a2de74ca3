package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete an entry",
	Long:    `Removes an entry and, when a webhook is configured, pushes the remaining ledger. The id may be shortened to any unique prefix.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			e, ok := a.ctrl.Find(args[0])
			if !ok {
				return fmt.Errorf("no entry matches %q", args[0])
			}
			if !a.ctrl.DeleteEntry(cmd.Context(), e.ID) {
				return fmt.Errorf("entry %s was already removed", shortID(e.ID))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s %s %s\n", shortID(e.ID), e.Item, money(e.Amount))
			if a.ctrl.Config().SyncEnabled() {
				fmt.Fprintln(cmd.ErrOrStderr(), statusLine(a.ctrl.Status()))
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
