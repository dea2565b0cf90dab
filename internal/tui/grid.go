package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/javiermolinar/bangumi/internal/guide"
)

// Grid geometry defaults.
const (
	defaultRowMinutes = 30
	defaultColWidth   = 24
	minColWidth       = 12
	gutterWidth       = 6
	minutesPerDay     = 24 * 60
)

// blockSpan converts block geometry into minutes from the start of the day.
func blockSpan(b guide.Block, pxPerMinute float64) (start, end float64) {
	if pxPerMinute <= 0 {
		pxPerMinute = guide.DefaultPxPerMinute
	}
	start = b.Top / pxPerMinute
	return start, start + b.Height/pxPerMinute
}

// blockRows returns the grid rows [first, last) a block covers.
// Every block covers at least one row.
func blockRows(b guide.Block, pxPerMinute float64, rowMinutes int) (first, last int) {
	start, end := blockSpan(b, pxPerMinute)
	first = int(start) / rowMinutes
	last = int(math.Ceil(end / float64(rowMinutes)))
	return first, max(last, first+1)
}

// blockCols returns the cells [x0, x1) a block covers in a column width cells wide.
func blockCols(b guide.Block, width int) (x0, x1 int) {
	x0 = int(math.Round(b.Left / 100 * float64(width)))
	x1 = int(math.Round((b.Left + b.Width) / 100 * float64(width)))
	x0 = min(max(x0, 0), width)
	x1 = min(max(x1, x0), width)
	if x1 == x0 && x0 < width {
		x1 = x0 + 1
	}
	return x0, x1
}

// rowCount returns how many rows a day needs, including programs running past midnight.
func rowCount(day *guide.Day, pxPerMinute float64, rowMinutes int) int {
	rows := minutesPerDay / rowMinutes
	if day == nil {
		return rows
	}
	for _, c := range day.Columns {
		for _, b := range c.Blocks {
			_, last := blockRows(b, pxPerMinute, rowMinutes)
			rows = max(rows, last)
		}
	}
	return rows
}

// cellOwners maps every cell of a column to the index of the block drawn
// there, or -1. When blocks collide in a row the one starting later wins.
func cellOwners(blocks []guide.Block, pxPerMinute float64, rowMinutes, rows, width int) [][]int {
	owners := make([][]int, rows)
	for r := range owners {
		owners[r] = make([]int, width)
		for x := range owners[r] {
			owners[r][x] = -1
		}
	}
	for i, b := range blocks {
		first, last := blockRows(b, pxPerMinute, rowMinutes)
		x0, x1 := blockCols(b, width)
		for r := max(first, 0); r < min(last, rows); r++ {
			for x := x0; x < x1; x++ {
				owners[r][x] = i
			}
		}
	}
	return owners
}

// blockText returns the text shown on the nth row of a block drawn width cells wide.
func blockText(b guide.Block, row, width int) string {
	if width <= 0 {
		return ""
	}
	lines := wrapCells(b.Start+" "+b.Title, width)
	if row < 0 || row >= len(lines) {
		return ""
	}
	return lines[row]
}

// wrapCells breaks s into lines of at most width display cells.
// Spaces are preferred as break points; unspaced text breaks anywhere.
func wrapCells(s string, width int) []string {
	var lines []string
	for s != "" {
		if runewidth.StringWidth(s) <= width {
			lines = append(lines, s)
			break
		}
		head := runewidth.Truncate(s, width, "")
		if head == "" {
			break
		}
		if i := strings.LastIndexByte(head, ' '); i > 0 && s[len(head)] != ' ' {
			head = head[:i]
		}
		lines = append(lines, head)
		s = strings.TrimLeft(s[len(head):], " ")
	}
	return lines
}

// fit pads or truncates s to exactly width cells.
func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}

// renderColumnRow renders one row of a column from its cell owners.
func renderColumnRow(blocks []guide.Block, owners []int, row int, firstRows []int, styleOf func(i int) lipgloss.Style, empty lipgloss.Style) string {
	var b strings.Builder
	width := len(owners)
	for x := 0; x < width; {
		owner := owners[x]
		end := x + 1
		for end < width && owners[end] == owner {
			end++
		}
		run := end - x
		if owner < 0 {
			b.WriteString(empty.Render(strings.Repeat(" ", run)))
		} else {
			text := blockText(blocks[owner], row-firstRows[owner], run)
			b.WriteString(styleOf(owner).Render(fit(text, run)))
		}
		x = end
	}
	return b.String()
}
