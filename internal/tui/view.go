package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/bangumi/internal/guide"
	"github.com/javiermolinar/bangumi/internal/tui/view"
)

// View renders the header, the grid and the footer, with the detail modal on top.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Loading..."
	}
	if m.width < gutterWidth+minColWidth || m.height < 6 {
		return "Terminal too small"
	}

	lines := []string{m.renderHeader()}
	lines = append(lines, m.renderGrid()...)
	lines = append(lines, m.renderFooter()...)
	base := view.PadLinesWithBackground(strings.Join(lines, "\n"), m.width, m.height, m.styles.colorBg)

	if m.mode == ModeDetail {
		return view.RenderModalOverlay(base, m.renderDetail(), m.width, m.height, m.styles.palette.Modal.Bg)
	}
	return base
}

func (m Model) renderHeader() string {
	names := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		names[i] = t.Name
	}
	label := ""
	if g := m.currentGuide(); g != nil && m.currentDay() != nil {
		label = fmt.Sprintf("%s (%d/%d) ", m.currentDay().Label, m.day+1, len(g.Days))
	}
	return view.RenderTabBar("bangumi", names, m.tab, label, m.width, view.TabBarStyles{
		Title:    m.styles.Title,
		Active:   m.styles.TabActive,
		Inactive: m.styles.TabInactive,
		Day:      m.styles.DayLabel,
		Bg:       m.styles.colorBg,
	})
}

// renderGrid renders the column names and the visible grid rows.
func (m Model) renderGrid() []string {
	rows := m.gridRows()
	g := m.currentGuide()
	day := m.currentDay()

	if g == nil || day == nil {
		msg := "Loading..."
		if !m.loading {
			msg = "No guide data"
		}
		return padRows([]string{m.styles.Gutter.Render(" " + msg)}, rows+1)
	}
	if len(g.Columns) == 0 {
		return padRows([]string{m.styles.Gutter.Render(" No channels on this tab")}, rows+1)
	}

	first := m.colOffset
	last := min(first+m.gridCols(), len(g.Columns))
	px := m.pxPerMinute()
	total := rowCount(day, px, m.rowMinutes)

	type colRender struct {
		blocks    []guide.Block
		owners    [][]int
		firstRows []int
		index     int
	}
	cols := make([]colRender, 0, last-first)
	for c := first; c < last; c++ {
		blocks := day.Columns[c].Blocks
		firstRows := make([]int, len(blocks))
		for i, b := range blocks {
			firstRows[i], _ = blockRows(b, px, m.rowMinutes)
		}
		cols = append(cols, colRender{
			blocks:    blocks,
			owners:    cellOwners(blocks, px, m.rowMinutes, total, m.colWidth-1),
			firstRows: firstRows,
			index:     c,
		})
	}

	var b strings.Builder
	b.WriteString(m.styles.Gutter.Render(strings.Repeat(" ", gutterWidth)))
	for _, c := range cols {
		style := m.styles.ColumnHeader
		if c.index == m.col {
			style = m.styles.ColumnHeaderSelected
		}
		b.WriteString(style.Render(fit(" "+g.Columns[c.index].Name, m.colWidth-1)))
		b.WriteString(m.styles.Empty.Render(" "))
	}
	lines := []string{b.String()}

	nowRow := -1
	if minute := m.nowMinute(); minute >= 0 {
		nowRow = int(minute) / m.rowMinutes
	}

	for r := m.scrollRow; r < min(m.scrollRow+rows, total); r++ {
		b.Reset()
		b.WriteString(m.renderGutter(r, nowRow))
		for _, c := range cols {
			styleOf := func(i int) lipgloss.Style { return m.blockStyle(c.blocks[i], i, c.index) }
			b.WriteString(renderColumnRow(c.blocks, c.owners[r], r, c.firstRows, styleOf, m.styles.Empty))
			b.WriteString(m.styles.Empty.Render(" "))
		}
		lines = append(lines, b.String())
	}
	return padRows(lines, rows+1)
}

// renderGutter labels full hours. Times past midnight continue as 24:00, 25:00.
func (m Model) renderGutter(row, nowRow int) string {
	minute := row * m.rowMinutes
	if row == nowRow {
		now := m.clock.In(m.currentDay().Start.Location())
		return m.styles.GutterNow.Render(fit(now.Format("15:04"), gutterWidth-1)) + m.styles.Gutter.Render(" ")
	}
	if minute%60 != 0 {
		return m.styles.Gutter.Render(strings.Repeat(" ", gutterWidth))
	}
	return m.styles.Gutter.Render(fit(fmt.Sprintf("%02d:00", minute/60), gutterWidth))
}

// blockStyle picks the style of a block from its state, alternating shades
// so adjacent blocks stay distinguishable.
func (m Model) blockStyle(b guide.Block, i, col int) lipgloss.Style {
	now := m.clock.UnixMilli()
	alt := i%2 == 1
	switch {
	case col == m.col && i == m.blk:
		return m.styles.Selected
	case b.Group.StartAt <= now && now < b.Group.EndAt:
		return m.styles.OnAir
	case b.Group.EndAt <= now:
		if alt {
			return m.styles.EndedAlt
		}
		return m.styles.Ended
	case b.Group.LaneCount > 1:
		if alt {
			return m.styles.ParallelAlt
		}
		return m.styles.Parallel
	case alt:
		return m.styles.ProgramAlt
	default:
		return m.styles.Program
	}
}

func (m Model) renderFooter() []string {
	var status string
	switch {
	case m.mode == ModeSearch:
		status = m.search.View()
	case m.statusMsg != "" && m.statusErr:
		status = m.styles.Error.Render(m.statusMsg)
	case m.statusMsg != "":
		status = m.styles.Status.Render(m.statusMsg)
	default:
		status = m.styles.Help.Render(m.selectionSummary())
	}
	m.help.Width = m.width
	return append([]string{status}, strings.Split(m.help.View(m.keys), "\n")...)
}

// selectionSummary describes the selected block in one line.
func (m Model) selectionSummary() string {
	b, ok := m.selectedBlock()
	if !ok {
		return ""
	}
	s := fmt.Sprintf("%s-%s %s", b.Start, b.End, b.Title)
	if n := len(b.Group.Programs); n > 1 {
		s += fmt.Sprintf(" [x%d]", n)
	}
	return s
}

func (m Model) renderDetail() string {
	width := min(m.width-8, 64)
	body := view.RenderDetailBody(m.detail, width, m.styles.Detail)
	hints := []view.Hint{{Key: "Esc", Action: "Close"}, {Key: "y", Action: "Copy"}}
	return view.RenderModalFrame(m.detail.Title, body, hints, m.styles.Modal)
}

func padRows(lines []string, n int) []string {
	for len(lines) < n {
		lines = append(lines, "")
	}
	return lines[:n]
}
