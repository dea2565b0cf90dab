package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TabBarStyles groups the styles of the header line.
type TabBarStyles struct {
	Title    lipgloss.Style
	Active   lipgloss.Style
	Inactive lipgloss.Style
	Day      lipgloss.Style
	Bg       lipgloss.Color
}

// RenderTabBar renders the title, the tab names with the active one
// highlighted, and the day label right-aligned within width.
func RenderTabBar(title string, tabs []string, active int, dayLabel string, width int, styles TabBarStyles) string {
	var b strings.Builder
	b.WriteString(styles.Title.Render(title))
	for i, name := range tabs {
		style := styles.Inactive
		if i == active {
			style = styles.Active
		}
		b.WriteString(style.Render(" " + name + " "))
	}
	left := b.String()

	right := styles.Day.Render(dayLabel)
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return PadLinesWithBackground(left, width, 1, styles.Bg)
	}
	fill := lipgloss.NewStyle().Background(styles.Bg).Render(strings.Repeat(" ", gap))
	return left + fill + right
}
