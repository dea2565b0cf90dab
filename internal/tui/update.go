package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/bangumi/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.colWidth = m.calculateColWidth()
		m.ensureVisible()
		return m, nil

	case commands.GuideBuiltMsg:
		m.guides[msg.Tab] = msg.Guide
		m.logger.Debug("tui.guide.built",
			"tab", msg.Guide.Tab.Name,
			"columns", len(msg.Guide.Columns),
			"days", len(msg.Guide.Days),
			"elapsed", msg.Elapsed,
		)
		if msg.Tab != m.tab {
			return m, nil
		}
		m.loading = false
		if m.width > 0 {
			m.colWidth = m.calculateColWidth()
		}
		m.clampDay()
		if today := m.todayIndex(); today >= 0 && len(m.guides) == 1 {
			m.jumpToNow()
		} else {
			m.selectAt(m.referenceMinute())
		}
		return m, nil

	case commands.TickMsg:
		m.clock = msg.Time
		return m, commands.Tick(time.Minute)

	case commands.ErrMsg:
		m.logger.Warn("tui.error", "err", msg.Err)
		return m.setStatus(fmt.Sprintf("Error: %v", msg.Err), true)

	case commands.StatusMsgCmd:
		return m.setStatus(msg.Msg, false)

	case commands.ClearStatusMsg:
		if !m.now().Before(m.statusTime) {
			m.statusMsg = ""
			m.statusErr = false
		}
		return m, nil
	}

	if m.mode == ModeSearch {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

// calculateColWidth fits as many columns as possible at the default width,
// then spreads the remaining space over them.
func (m Model) calculateColWidth() int {
	avail := m.width - gutterWidth
	if avail <= minColWidth {
		return minColWidth
	}
	ncols := 1
	if g := m.currentGuide(); g != nil && len(g.Columns) > 0 {
		ncols = len(g.Columns)
	}
	fits := max(avail/defaultColWidth, 1)
	if ncols < fits {
		return max(avail/ncols, minColWidth)
	}
	return max(avail/fits, minColWidth)
}
