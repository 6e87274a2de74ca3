package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/harrisonrobin/aledger/pkg/colors"
	"github.com/harrisonrobin/aledger/pkg/model"
	"github.com/harrisonrobin/aledger/pkg/report"
)

const shortIDLen = 8

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	amountStyle = lipgloss.NewStyle().Width(10).Align(lipgloss.Right)
	itemStyle   = lipgloss.NewStyle().Width(24)
	dateStyle   = lipgloss.NewStyle().Width(11)
	idStyle     = lipgloss.NewStyle().Width(shortIDLen + 1)
)

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func money(a interface{ String() string }) string {
	return "$" + a.String()
}

func entryRow(e model.LedgerEntry) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		idStyle.Render(dimStyle.Render(shortID(e.ID))),
		dateStyle.Render(e.Date),
		itemStyle.Render(e.Item),
		amountStyle.Render(money(e.Amount)),
		"  ",
		colors.Category(e.Category),
	)
}

func writeEntries(w io.Writer, entries []model.LedgerEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No entries yet."))
		return
	}
	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
		idStyle.Render(headerStyle.Render("ID")),
		dateStyle.Render(headerStyle.Render("Date")),
		itemStyle.Render(headerStyle.Render("Item")),
		amountStyle.Render(headerStyle.Render("Amount")),
		"  ",
		headerStyle.Render("Category"),
	))
	for _, e := range entries {
		fmt.Fprintln(w, entryRow(e))
	}
}

func writeEntry(w io.Writer, e model.LedgerEntry) {
	created := time.UnixMilli(e.Timestamp).Local().Format("2006-01-02 15:04:05")
	fmt.Fprintf(w, "%s %s\n", headerStyle.Render("ID:"), e.ID)
	fmt.Fprintf(w, "%s %s\n", headerStyle.Render("Date:"), e.Date)
	fmt.Fprintf(w, "%s %s\n", headerStyle.Render("Item:"), e.Item)
	fmt.Fprintf(w, "%s %s\n", headerStyle.Render("Amount:"), money(e.Amount))
	fmt.Fprintf(w, "%s %s (%s)\n", headerStyle.Render("Category:"), colors.Category(e.Category), e.Category.English())
	fmt.Fprintf(w, "%s %s\n", headerStyle.Render("Recorded:"), created)
	if e.SourceText != "" {
		fmt.Fprintf(w, "%s %q\n", headerStyle.Render("Input:"), e.SourceText)
	}
}

const barWidth = 20

func writeSummary(w io.Writer, s report.Summary) {
	fmt.Fprintf(w, "%s %s   %s %s   %s %d\n",
		headerStyle.Render("Total"), money(s.Total),
		headerStyle.Render("Today"), money(s.Today),
		headerStyle.Render("Entries"), s.Count,
	)
	if len(s.ByCategory) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, ct := range s.ByCategory {
		share := s.Share(ct)
		n := int(share.IntPart()) * barWidth / 100
		bar := lipgloss.NewStyle().Foreground(colors.ColorFor(ct.Category)).Render(strings.Repeat("█", n))
		fmt.Fprintf(w, "%s %s %s %s%%\n",
			lipgloss.NewStyle().Width(5).Render(colors.Category(ct.Category)),
			amountStyle.Render(money(ct.Amount)),
			lipgloss.NewStyle().Width(barWidth+1).Render(bar),
			share.String(),
		)
	}
}
