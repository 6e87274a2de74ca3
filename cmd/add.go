package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [text...]",
	Short: "Record expenses described in free text",
	Long: `Sends the text to the language model and records every expense it finds.
Without arguments the text is read from standard input.

Example:
  aledger add 午餐吃牛肉麵 150，搭捷運 35`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if len(args) == 0 {
			b, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			text = string(b)
		}
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("nothing to record")
		}

		return withApp(cmd.Context(), func(a *app) error {
			out := cmd.OutOrStdout()
			batch, err := a.ctrl.ProcessInput(cmd.Context(), text)
			if len(batch) > 0 {
				fmt.Fprintf(out, "✓ Recorded %d entr%s\n", len(batch), plural(len(batch), "y", "ies"))
				writeEntries(out, batch)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), statusLine(a.ctrl.Status()))
			return friendly(err)
		})
	},
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func init() {
	rootCmd.AddCommand(addCmd)
}
