package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/javiermolinar/bangumi/internal/guide"
)

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

// truncate shortens s to width display cells, marking the cut with "…".
// Titles are mostly full-width Japanese, so widths are measured in cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// pad truncates or right-pads s to exactly width display cells.
func pad(s string, width int) string {
	return runewidth.FillRight(truncate(s, width), width)
}

// LaneBar draws which of the parallel lanes a block occupies, e.g. "▮▯".
func LaneBar(index, count int) string {
	if count <= 1 {
		return ""
	}
	var b strings.Builder
	for i := range count {
		if i == index {
			b.WriteString("▮")
		} else {
			b.WriteString("▯")
		}
	}
	return b.String()
}

// RowOpts configures block row printing.
type RowOpts struct {
	Now        time.Time
	TitleWidth int  // 0 = auto from terminal width
	ShowLanes  bool // mark parallel airings
}

func (o RowOpts) titleWidth(w io.Writer, laneWidth int) int {
	if o.TitleWidth > 0 {
		return o.TitleWidth
	}
	// "  ● HH:MM-HH:MM  " plus lane bar and duration suffix
	overhead := 18 + laneWidth + 8
	return max(20, outputWidth(w)-overhead)
}

// PrintBlockRow prints a single block with consistent formatting.
func PrintBlockRow(w io.Writer, b guide.Block, opts RowOpts) {
	marker := " "
	if !opts.Now.IsZero() {
		now := opts.Now.UnixMilli()
		if b.Group.StartAt <= now && now < b.Group.EndAt {
			marker = formatOnAir("●")
		}
	}

	lanes := ""
	laneWidth := 0
	if opts.ShowLanes && b.Group.LaneCount > 1 {
		bar := LaneBar(b.Group.LaneIndex, b.Group.LaneCount)
		laneWidth = runewidth.StringWidth(bar) + 1
		lanes = formatLane(bar) + " "
	}

	width := opts.titleWidth(w, laneWidth)
	title := pad(b.Title, width)
	if n := len(b.Group.Programs); n > 1 {
		title = pad(fmt.Sprintf("%s [x%d]", truncate(b.Title, width-5), n), width)
	}

	fmt.Fprintf(w, "  %s %s-%s  %s%s  %s\n",
		marker, b.Start, b.End, lanes, title,
		formatMuted(FormatDuration(b.Group.DurationMinutes())))
}

// PrintDay prints every column of a day, skipping columns with nothing on air.
func PrintDay(w io.Writer, g *guide.Guide, day *guide.Day, opts RowOpts) {
	fmt.Fprintf(w, "=== %s %s ===\n", formatHeader(g.Tab.Name), formatHeader(day.Label))
	if day.Empty() {
		fmt.Fprintln(w, "\nNo programs on this day.")
		return
	}

	for i, col := range day.Columns {
		if len(col.Blocks) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s %s\n", formatHeader(g.Columns[i].Name), formatMuted(col.Key))
		for _, b := range col.Blocks {
			PrintBlockRow(w, b, opts)
		}
	}
}

// PrintDetail prints the detail of a program.
func PrintDetail(w io.Writer, d guide.Detail) {
	fmt.Fprintln(w, formatHeader(d.Title))
	fmt.Fprintf(w, "  %s  %s\n", formatStats(d.Time), formatMuted("("+FormatDuration(d.Minutes)+")"))
	fmt.Fprintf(w, "  %s\n", formatMuted(d.Fee))
	if d.Genre != "" {
		fmt.Fprintf(w, "  %s\n", formatMuted(d.Genre))
	}
	if len(d.Services) > 1 {
		ids := make([]string, len(d.Services))
		for i, id := range d.Services {
			ids[i] = fmt.Sprint(id)
		}
		fmt.Fprintf(w, "  %s\n", formatMuted("Also on services "+strings.Join(ids, ", ")))
	}
	if d.Description != "" {
		fmt.Fprintln(w)
		wrapAndPrint(w, d.Description, "  ", 76, plain)
	}
	for _, f := range d.Extended {
		fmt.Fprintf(w, "\n  %s\n", formatHeader(f.Key))
		wrapAndPrint(w, f.Value, "  ", 76, plain)
	}
}

// PrintInsightWrapped formats and prints digest text preserving structure.
func PrintInsightWrapped(w io.Writer, text string, width int) {
	text = stripMarkdownCodeBlocks(text)

	for line := range strings.SplitSeq(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			fmt.Fprintln(w)
			continue
		}

		prefix, content, contentWidth, isHeader := parseInsightLine(trimmed, width)
		if isHeader {
			fmt.Fprintln(w)
			fmt.Fprintln(w, formatHeader("  "+content))
			continue
		}

		wrapAndPrint(w, content, prefix, contentWidth, formatInsight)
	}
}

// parseInsightLine parses a line and returns formatting info.
func parseInsightLine(trimmed string, width int) (prefix, content string, contentWidth int, isHeader bool) {
	prefix = "  "
	content = trimmed
	contentWidth = width - 2

	switch {
	case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
		prefix = "    • "
		content = strings.TrimPrefix(strings.TrimPrefix(trimmed, "- "), "* ")
		contentWidth = width - 6

	case strings.HasPrefix(trimmed, "#"):
		content = strings.TrimLeft(trimmed, "# ")
		isHeader = true

	case strings.HasPrefix(trimmed, ">"):
		content = strings.TrimPrefix(trimmed, "> ")
		prefix = "  │ "
		contentWidth = width - 4

	case isNumberedItem(trimmed):
		idx := strings.Index(trimmed, ".")
		prefix = "  " + trimmed[:idx+1] + " "
		content = strings.TrimSpace(trimmed[idx+1:])
		contentWidth = width - len(prefix)
	}

	return prefix, content, contentWidth, isHeader
}

// isNumberedItem checks if a line starts with a number followed by a period.
func isNumberedItem(s string) bool {
	if len(s) < 3 {
		return false
	}
	if s[0] < '1' || s[0] > '9' {
		return false
	}
	if s[1] == '.' {
		return true
	}
	if s[1] >= '0' && s[1] <= '9' && len(s) > 3 && s[2] == '.' {
		return true
	}
	return false
}

// wrapLines wraps text to width display cells.
// Words wider than a line, typical of unspaced Japanese text, are split by cell.
func wrapLines(text string, width int) []string {
	width = max(width, 10)
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		for runewidth.StringWidth(word) > width {
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			head := runewidth.Truncate(word, width, "")
			lines = append(lines, head)
			word = word[len(head):]
		}
		switch {
		case word == "":
		case line == "":
			line = word
		case runewidth.StringWidth(line)+1+runewidth.StringWidth(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// wrapAndPrint wraps text to width and prints with the given prefix.
func wrapAndPrint(w io.Writer, text, prefix string, width int, style func(string) string) {
	continuation := strings.Repeat(" ", runewidth.StringWidth(prefix))
	for i, line := range wrapLines(text, width) {
		if i == 0 {
			fmt.Fprintln(w, style(prefix+line))
		} else {
			fmt.Fprintln(w, style(continuation+line))
		}
	}
}

func plain(s string) string { return s }

// stripMarkdownCodeBlocks removes ```...``` fences from text.
func stripMarkdownCodeBlocks(text string) string {
	var result []string
	inCodeBlock := false

	for line := range strings.SplitSeq(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCodeBlock = !inCodeBlock
			continue
		}
		if !inCodeBlock {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}
