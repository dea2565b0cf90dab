package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PadLinesWithBackground pads content to exactly height lines, filling each
// line up to width cells with bg. Lines wider than width are left as is.
func PadLinesWithBackground(content string, width, height int, bg lipgloss.Color) string {
	if width <= 0 || height <= 0 {
		return content
	}
	fill := lipgloss.NewStyle().Background(bg)
	lines := strings.Split(content, "\n")
	out := make([]string, height)
	for i := range out {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		if gap := width - lipgloss.Width(line); gap > 0 {
			line += fill.Render(strings.Repeat(" ", gap))
		}
		out[i] = line
	}
	return strings.Join(out, "\n")
}

// RenderModalOverlay splices modal, centered, over base. The modal is cut to
// width and its lines padded to a common width with modalBg.
func RenderModalOverlay(base, modal string, width, height int, modalBg lipgloss.Color) string {
	box := normalizeModal(modal, width, modalBg)
	if len(box) == 0 {
		return base
	}
	boxWidth := lipgloss.Width(box[0])
	top := max((height-len(box))/2, 0)
	left := max((width-boxWidth)/2, 0)

	lines := strings.Split(PadLinesWithBackground(base, width, height, ""), "\n")
	for i, modalLine := range box {
		row := top + i
		if row >= len(lines) {
			break
		}
		lines[row] = ansi.Cut(lines[row], 0, left) + modalLine + ansi.Cut(lines[row], left+boxWidth, width)
	}
	return strings.Join(lines, "\n")
}

// normalizeModal pads every modal line to the widest one, at most width
// cells, and keeps the modal background across inner style resets.
func normalizeModal(modal string, width int, bg lipgloss.Color) []string {
	lines := strings.Split(modal, "\n")
	boxWidth := 0
	for _, line := range lines {
		boxWidth = max(boxWidth, lipgloss.Width(line))
	}
	boxWidth = min(boxWidth, width)
	if boxWidth == 0 {
		return nil
	}

	fill := lipgloss.NewStyle().Background(bg)
	bgSeq := backgroundSeq(bg)
	for i, line := range lines {
		w := lipgloss.Width(line)
		switch {
		case w > boxWidth:
			line = ansi.Cut(line, 0, boxWidth)
		case w < boxWidth:
			line += fill.Render(strings.Repeat(" ", boxWidth-w))
		}
		if bgSeq != "" {
			line = strings.ReplaceAll(line, ansi.ResetStyle, ansi.ResetStyle+bgSeq)
			line = strings.ReplaceAll(line, "\x1b[0m", "\x1b[0m"+bgSeq)
			line = strings.ReplaceAll(line, "\x1b[49m", "\x1b[49m"+bgSeq)
		}
		lines[i] = line + ansi.ResetStyle
	}
	return lines
}

// backgroundSeq returns the SGR sequence selecting bg, or "" for no color.
func backgroundSeq(bg lipgloss.Color) string {
	if bg == "" {
		return ""
	}
	return ansi.Style{}.BackgroundColor(ansi.HexColor(string(bg))).String()
}
