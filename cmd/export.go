package cmd

import (
	"fmt"

	"github.com/harrisonrobin/aledger/pkg/export"
	"github.com/spf13/cobra"
)

var exportStdout bool

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Copy the ledger to the clipboard as tab-separated text",
	Long:  `Copies the ledger as TSV (日期, 項目, 金額, 分類) so it can be pasted into a spreadsheet. Use --stdout to print it instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			entries := a.ctrl.Entries()
			if exportStdout {
				fmt.Fprintln(cmd.OutOrStdout(), export.TSV(entries))
				return nil
			}
			if err := export.ToClipboard(entries); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Copied %d entries to the clipboard\n", len(entries))
			return nil
		})
	},
}

func init() {
	exportCmd.Flags().BoolVar(&exportStdout, "stdout", false, "print to standard output instead of the clipboard")
	rootCmd.AddCommand(exportCmd)
}
