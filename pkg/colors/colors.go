package colors

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/harrisonrobin/aledger/pkg/model"
)

// Palette entries are ANSI 256 color codes.
var palette = map[model.Category]lipgloss.Color{
	model.Food:          "208", // orange
	model.Clothing:      "135", // purple
	model.Housing:       "37",  // cyan
	model.Transport:     "33",  // blue
	model.Education:     "35",  // green
	model.Entertainment: "205", // pink
	model.Other:         "245", // gray
}

// ColorFor returns the color of c, falling back to the Other color for
// values outside the closed set.
func ColorFor(c model.Category) lipgloss.Color {
	if col, ok := palette[c]; ok {
		return col
	}
	return palette[model.Other]
}

// ForCategory is the badge style used when listing entries.
func ForCategory(c model.Category) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(ColorFor(c)).Bold(c.Valid())
}

// Category renders c with its badge style.
func Category(c model.Category) string {
	return ForCategory(c).Render(string(c))
}

var statusColors = map[model.SyncStatus]lipgloss.Color{
	model.IDLE:    "245",
	model.SYNCING: "220",
	model.SUCCESS: "42",
	model.ERROR:   "196",
}

// Status renders the indicator dot and label for s.
func Status(s model.SyncStatus) string {
	col, ok := statusColors[s]
	if !ok {
		col = statusColors[model.IDLE]
	}
	return lipgloss.NewStyle().Foreground(col).Render("● " + s.Label())
}
