package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/bangumi/internal/guide"
)

// DetailStyles groups the styles of the program detail body.
type DetailStyles struct {
	Body  lipgloss.Style
	Muted lipgloss.Style
	Label lipgloss.Style
	Fee   lipgloss.Style
}

// RenderDetailBody renders the air time, fee, genre, description and
// extended fields of a program, wrapped to width cells.
func RenderDetailBody(d guide.Detail, width int, styles DetailStyles) string {
	if width < 10 {
		width = 10
	}
	wrap := func(style lipgloss.Style, s string) string {
		return style.Width(width).Render(s)
	}

	var parts []string
	parts = append(parts, wrap(styles.Body, fmt.Sprintf("%s (%dm)", d.Time, d.Minutes)))

	meta := styles.Fee.Render(d.Fee)
	if d.Genre != "" {
		meta += styles.Muted.Render("  " + d.Genre)
	}
	parts = append(parts, meta)

	if len(d.Services) > 1 {
		ids := make([]string, len(d.Services))
		for i, id := range d.Services {
			ids[i] = fmt.Sprint(id)
		}
		parts = append(parts, wrap(styles.Muted, "Also on services "+strings.Join(ids, ", ")))
	}

	if d.Description != "" {
		parts = append(parts, "", wrap(styles.Body, d.Description))
	}
	for _, f := range d.Extended {
		parts = append(parts, "", styles.Label.Render(f.Key), wrap(styles.Body, f.Value))
	}

	return strings.Join(parts, "\n")
}
