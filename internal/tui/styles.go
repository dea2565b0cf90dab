package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/bangumi/internal/tui/theme"
	"github.com/javiermolinar/bangumi/internal/tui/view"
)

// Styles holds all lipgloss styles for the TUI.
type Styles struct {
	palette *theme.Palette

	colorBg     lipgloss.Color
	colorAccent lipgloss.Color

	Title       lipgloss.Style
	TabActive   lipgloss.Style
	TabInactive lipgloss.Style
	DayLabel    lipgloss.Style

	ColumnHeader         lipgloss.Style
	ColumnHeaderSelected lipgloss.Style
	Gutter               lipgloss.Style
	GutterNow            lipgloss.Style
	Empty                lipgloss.Style

	Program     lipgloss.Style
	ProgramAlt  lipgloss.Style
	Parallel    lipgloss.Style
	ParallelAlt lipgloss.Style
	Ended       lipgloss.Style
	EndedAlt    lipgloss.Style
	OnAir       lipgloss.Style
	Selected    lipgloss.Style

	Status lipgloss.Style
	Error  lipgloss.Style
	Help   lipgloss.Style
	Search lipgloss.Style

	Modal  view.ModalStyles
	Detail view.DetailStyles
}

// NewStyles creates styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	base := lipgloss.NewStyle().Background(p.Bg).Foreground(p.Fg)
	block := func(bg, fg lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Background(bg).Foreground(fg)
	}

	s := &Styles{
		palette:     p,
		colorBg:     p.Bg,
		colorAccent: p.Accent,

		Title:       base.Foreground(p.Accent).Bold(true).Padding(0, 1),
		TabActive:   lipgloss.NewStyle().Background(p.Accent).Foreground(p.TextOnAccent).Bold(true),
		TabInactive: base.Foreground(p.FgMuted),
		DayLabel:    base.Bold(true),

		ColumnHeader:         lipgloss.NewStyle().Background(p.BgHighlight).Foreground(p.Fg),
		ColumnHeaderSelected: lipgloss.NewStyle().Background(p.BgHighlight).Foreground(p.Accent).Bold(true),
		Gutter:               base.Foreground(p.FgMuted),
		GutterNow:            lipgloss.NewStyle().Background(p.NowLine).Foreground(p.TextOnNowLine).Bold(true),
		Empty:                base,

		Program:     block(p.ProgramBg, p.TextOnProgram),
		ProgramAlt:  block(p.ProgramBgAlt, p.TextOnProgram),
		Parallel:    block(p.ParallelBg, p.TextOnParallel),
		ParallelAlt: block(p.ParallelBgAlt, p.TextOnParallel),
		Ended:       block(p.ProgramPastBg, p.FgMuted),
		EndedAlt:    block(p.ParallelPastBg, p.FgMuted),
		OnAir:       block(p.OnAirBg, p.TextOnOnAir).Bold(true),
		Selected:    block(p.BgSelection, p.Fg).Bold(true).Underline(true),

		Status: base.Foreground(p.Fg),
		Error:  base.Foreground(p.NowLine).Bold(true),
		Help:   base.Foreground(p.FgMuted),
		Search: base.Foreground(p.Accent),
	}

	modalBg := p.Modal.Bg
	modalBase := lipgloss.NewStyle().Background(modalBg).Foreground(p.Modal.Text)
	s.Modal = view.ModalStyles{
		Frame:  modalBase.Border(lipgloss.RoundedBorder()).BorderForeground(p.Modal.Border).BorderBackground(modalBg).Padding(1, 2),
		Title:  modalBase.Foreground(p.Accent).Bold(true),
		Body:   modalBase,
		Key:    modalBase.Foreground(p.Modal.Highlight).Bold(true),
		Action: modalBase.Foreground(p.Modal.Muted),
	}
	s.Detail = view.DetailStyles{
		Body:  modalBase,
		Muted: modalBase.Foreground(p.Modal.Muted),
		Label: modalBase.Foreground(p.Accent).Bold(true),
		Fee:   modalBase.Foreground(p.OnAir),
	}

	return s
}
