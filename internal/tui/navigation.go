package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/bangumi/internal/guide"
	"github.com/javiermolinar/bangumi/internal/tui/commands"
)

// moveBlock selects the next or previous block of the column.
// Empty columns scroll instead.
func (m *Model) moveBlock(delta int) {
	blocks := m.currentBlocks()
	if len(blocks) == 0 {
		m.scrollRow = min(max(m.scrollRow+delta, 0), m.maxScrollRow())
		return
	}
	m.blk = min(max(m.blk+delta, 0), len(blocks)-1)
	m.ensureVisible()
}

// moveColumn selects the neighboring column, keeping the time of day.
func (m *Model) moveColumn(delta int) {
	day := m.currentDay()
	if day == nil || len(day.Columns) == 0 {
		return
	}
	ref := m.referenceMinute()
	m.col = min(max(m.col+delta, 0), len(day.Columns)-1)
	m.selectAt(ref)
}

// moveDay selects the neighboring day, keeping the column and time of day.
func (m *Model) moveDay(delta int) {
	g := m.currentGuide()
	if g == nil || len(g.Days) == 0 {
		return
	}
	ref := m.referenceMinute()
	m.day = min(max(m.day+delta, 0), len(g.Days)-1)
	m.selectAt(ref)
}

// jumpToNow selects today and the program on air in the current column.
func (m *Model) jumpToNow() {
	today := m.todayIndex()
	if today < 0 {
		m.day = 0
		m.selectAt(0)
		return
	}
	m.day = today
	m.selectAt(m.nowMinute())
}

// referenceMinute is the time of day the cursor points at: the selected
// block's start, or the top of the view when nothing is selected.
func (m Model) referenceMinute() float64 {
	if b, ok := m.selectedBlock(); ok {
		start, _ := blockSpan(b, m.pxPerMinute())
		return start
	}
	return float64(m.scrollRow * m.rowMinutes)
}

// selectAt selects the block of the current column airing at minute,
// else the first one starting after it, else the last one.
func (m *Model) selectAt(minute float64) {
	m.blk = blockAt(m.currentBlocks(), minute, m.pxPerMinute())
	if m.blk < 0 {
		m.scrollRow = min(max(int(minute)/m.rowMinutes, 0), m.maxScrollRow())
	}
	m.ensureVisible()
}

func blockAt(blocks []guide.Block, minute, pxPerMinute float64) int {
	if len(blocks) == 0 {
		return -1
	}
	after := -1
	for i, b := range blocks {
		start, end := blockSpan(b, pxPerMinute)
		if start <= minute && minute < end {
			return i
		}
		if after < 0 && start > minute {
			after = i
		}
	}
	if after >= 0 {
		return after
	}
	return len(blocks) - 1
}

// findNext selects the next block on the day whose title contains query,
// scanning columns from the cursor onwards and wrapping around.
func (m *Model) findNext(query string) bool {
	day := m.currentDay()
	if day == nil {
		return false
	}
	query = strings.ToLower(query)
	ncols := len(day.Columns)
	for step := 0; step <= ncols; step++ {
		c := (m.col + step) % ncols
		blocks := day.Columns[c].Blocks
		from := 0
		if step == 0 {
			from = m.blk + 1
		}
		for i := from; i < len(blocks); i++ {
			if strings.Contains(strings.ToLower(blocks[i].Title), query) {
				m.col, m.blk = c, i
				m.ensureVisible()
				return true
			}
		}
	}
	return false
}

// clampDay keeps the day index within the current guide.
func (m *Model) clampDay() {
	g := m.currentGuide()
	if g == nil {
		return
	}
	m.day = min(max(m.day, 0), max(len(g.Days)-1, 0))
	if len(g.Days) > 0 {
		m.col = min(max(m.col, 0), max(len(g.Days[m.day].Columns)-1, 0))
	}
}

// gridRows is the number of grid rows that fit on screen.
func (m Model) gridRows() int {
	// header, column names, status, help
	used := 4
	if m.help.ShowAll {
		used += len(m.keys.FullHelp()[0]) - 1
	}
	return max(m.height-used, 1)
}

// gridCols is the number of columns that fit on screen.
func (m Model) gridCols() int {
	if m.width <= 0 {
		return 1
	}
	return max((m.width-gutterWidth)/m.colWidth, 1)
}

func (m Model) maxScrollRow() int {
	return max(rowCount(m.currentDay(), m.pxPerMinute(), m.rowMinutes)-m.gridRows(), 0)
}

// ensureVisible scrolls so the selection is on screen.
func (m *Model) ensureVisible() {
	if m.col < m.colOffset {
		m.colOffset = m.col
	}
	if cols := m.gridCols(); m.col >= m.colOffset+cols {
		m.colOffset = m.col - cols + 1
	}

	b, ok := m.selectedBlock()
	if !ok {
		return
	}
	first, _ := blockRows(b, m.pxPerMinute(), m.rowMinutes)
	rows := m.gridRows()
	if first < m.scrollRow || first >= m.scrollRow+rows {
		m.scrollRow = first - rows/3
	}
	m.scrollRow = min(max(m.scrollRow, 0), m.maxScrollRow())
}

// setStatus shows a temporary message in the footer.
func (m Model) setStatus(msg string, isErr bool) (tea.Model, tea.Cmd) {
	m.statusMsg = msg
	m.statusErr = isErr
	m.statusTime = m.now().Add(3 * time.Second)
	return m, commands.ClearStatusAfter(3 * time.Second)
}
