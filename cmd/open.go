package cmd

import (
	"errors"
	"fmt"

	"github.com/cli/browser"
	"github.com/spf13/cobra"
)

// openURL is replaced in tests.
var openURL = browser.OpenURL

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the configured spreadsheet in the browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			u := a.ctrl.Config().SheetURL
			if u == "" {
				return errors.New("no sheet URL configured, see 'aledger config set-sheet'")
			}
			if err := openURL(u); err != nil {
				return fmt.Errorf("could not open browser: %w", err)
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}
