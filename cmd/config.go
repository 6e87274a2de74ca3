package cmd

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/harrisonrobin/aledger/pkg/mirror"
	"github.com/harrisonrobin/aledger/pkg/store"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage aledger configuration",
	Long: `Commands for managing the sync destinations.

Available Commands:
  show         Print settings and destinations
  set-sheet    Set the spreadsheet view URL
  set-webhook  Set the webhook that receives the ledger
  script       Print the Apps Script to deploy as the webhook`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print settings and destinations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(a *app) error {
			w := cmd.OutOrStdout()
			dest := a.ctrl.Config()
			fmt.Fprintf(w, "%s %s\n", headerStyle.Render("Sheet URL:"), orUnset(dest.SheetURL))
			fmt.Fprintf(w, "%s %s\n", headerStyle.Render("Webhook URL:"), orUnset(dest.WebhookURL))
			fmt.Fprintf(w, "%s %s\n", headerStyle.Render("Model:"), a.cfg.Model)
			fmt.Fprintf(w, "%s %s\n", headerStyle.Render("API key:"), orUnset(mask(a.cfg.APIKey)))
			fmt.Fprintf(w, "%s %s\n", headerStyle.Render("Sheet tab:"), a.cfg.SheetName)
			fmt.Fprintf(w, "%s %s\n", headerStyle.Render("Data file:"), a.cfg.DataPath)
			return nil
		})
	},
}

func destinationCmd(use, short string, field store.ConfigField) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <url>",
		Short: short,
		Long:  short + `. Pass an empty string to clear it.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u := strings.TrimSpace(args[0])
			if err := validURL(u); err != nil {
				return err
			}
			return withApp(cmd.Context(), func(a *app) error {
				if err := a.ctrl.UpdateDestination(field, u); err != nil {
					return err
				}
				if u == "" {
					fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleared %s URL\n", field)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "✓ %s URL set to %s\n", field, u)
				}
				return nil
			})
		},
	}
}

var configScriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Print the Apps Script to deploy as the webhook",
	Long: `Prints a Google Apps Script that replaces the "myledger" sheet with each
push. Deploy it as a web app with access for anyone and pass the deployment
URL to 'aledger config set-webhook'.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), mirror.WebhookScript)
	},
}

func validURL(s string) error {
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q is not an http(s) URL", s)
	}
	return nil
}

func orUnset(s string) string {
	if s == "" {
		return dimStyle.Render("(not set)")
	}
	return s
}

func mask(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(destinationCmd("set-sheet", "Set the spreadsheet view URL", store.SheetURL))
	configCmd.AddCommand(destinationCmd("set-webhook", "Set the webhook that receives the ledger", store.WebhookURL))
	configCmd.AddCommand(configScriptCmd)
	rootCmd.AddCommand(configCmd)
}
