package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/harrisonrobin/aledger/pkg/model"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Record expenses interactively, one message per line",
	Long: `Reads one message per line and records the expenses in each. Sync status
changes are shown as they happen. "/show <id>" opens an entry, "/close"
closes it. Type "exit" or send EOF to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			out := cmd.OutOrStdout()
			errOut := cmd.ErrOrStderr()

			a.ctrl.Indicator().OnChange(func(s model.SyncStatus) {
				fmt.Fprintln(errOut, statusLine(s))
			})

			fmt.Fprintln(out, dimStyle.Render("Describe what you spent. \"exit\" to quit."))
			sc := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "> ")
				if !sc.Scan() {
					fmt.Fprintln(out)
					return sc.Err()
				}
				line := strings.TrimSpace(sc.Text())
				switch line {
				case "":
					continue
				case "exit", "quit":
					return nil
				case "/close":
					a.ctrl.ClearSelection()
					continue
				}
				if ref, ok := strings.CutPrefix(line, "/show "); ok {
					showSelection(a, out, errOut, strings.TrimSpace(ref))
					continue
				}

				batch, err := a.ctrl.ProcessInput(cmd.Context(), line)
				if len(batch) > 0 {
					writeEntries(out, batch)
				}
				if err != nil {
					fmt.Fprintln(errOut, friendly(err))
				}
				if cmd.Context().Err() != nil {
					return nil
				}
			}
		})
	},
}

func showSelection(a *app, out, errOut io.Writer, ref string) {
	e, ok := a.ctrl.Find(ref)
	if !ok {
		fmt.Fprintf(errOut, "no entry matches %q\n", ref)
		return
	}
	e, _ = a.ctrl.Select(e.ID)
	writeEntry(out, e)
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
