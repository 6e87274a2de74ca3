package cmd

import (
	"fmt"

	"github.com/harrisonrobin/aledger/pkg/model"
	"github.com/spf13/cobra"
)

var (
	listLimit    int
	listCategory string
	listDate     string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recorded entries, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listCategory != "" && !model.Category(listCategory).Valid() && listCategory != string(model.Other) {
			return fmt.Errorf("unknown category %q", listCategory)
		}
		return withApp(cmd.Context(), func(a *app) error {
			entries := filterEntries(a.ctrl.Entries(), model.Category(listCategory), listDate, listLimit)
			writeEntries(cmd.OutOrStdout(), entries)
			return nil
		})
	},
}

// filterEntries keeps order. Empty filters and a non-positive limit match
// everything.
func filterEntries(entries []model.LedgerEntry, c model.Category, date string, limit int) []model.LedgerEntry {
	var out []model.LedgerEntry
	for _, e := range entries {
		if c != "" && e.Category != c {
			continue
		}
		if date != "" && e.Date != date {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "show at most n entries")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "only entries in this category (食 衣 住 行 育 樂 其他)")
	listCmd.Flags().StringVarP(&listDate, "date", "d", "", "only entries on this date (YYYY-MM-DD)")
	rootCmd.AddCommand(listCmd)
}
