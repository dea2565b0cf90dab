// Package view provides rendering helpers for the TUI.
package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ModalStyles groups the styles of a modal frame and its key hints.
type ModalStyles struct {
	Frame  lipgloss.Style
	Title  lipgloss.Style
	Body   lipgloss.Style
	Key    lipgloss.Style
	Action lipgloss.Style
}

// Hint is a key and the action it triggers, rendered as "[Key] Action".
type Hint struct {
	Key    string
	Action string
}

// RenderModalFrame renders a bordered modal with a title, a body and an optional hint row.
func RenderModalFrame(title, body string, hints []Hint, styles ModalStyles) string {
	parts := []string{styles.Title.Render(title)}
	if body != "" {
		parts = append(parts, "", body)
	}
	if len(hints) > 0 {
		parts = append(parts, "", RenderHints(styles, hints...))
	}
	return styles.Frame.Render(strings.Join(parts, "\n"))
}

// RenderHints renders key hints separated by body-styled spaces.
func RenderHints(styles ModalStyles, hints ...Hint) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = styles.Key.Render("["+h.Key+"]") + styles.Action.Render(" "+h.Action)
	}
	return strings.Join(parts, styles.Body.Render("  "))
}
