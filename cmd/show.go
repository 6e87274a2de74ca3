package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one entry in detail",
	Long:  `Shows every field of an entry, including the text it was extracted from. The id may be shortened to any unique prefix.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			e, ok := a.ctrl.Find(args[0])
			if !ok {
				return fmt.Errorf("no entry matches %q", args[0])
			}
			e, _ = a.ctrl.Select(e.ID)
			writeEntry(cmd.OutOrStdout(), e)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
