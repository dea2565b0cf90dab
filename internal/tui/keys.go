package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/bangumi/internal/guide"
	"github.com/javiermolinar/bangumi/internal/tui/commands"
)

// keyMap defines the key bindings of the normal mode.
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	NextDay key.Binding
	PrevDay key.Binding
	Now     key.Binding
	Detail  key.Binding
	Copy    key.Binding
	Search  key.Binding
	Help    key.Binding
	Close   key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "prev program")),
		Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "next program")),
		Left:    key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("←/h", "prev channel")),
		Right:   key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("→/l", "next channel")),
		NextTab: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		NextDay: key.NewBinding(key.WithKeys("]", "n"), key.WithHelp("]/n", "next day")),
		PrevDay: key.NewBinding(key.WithKeys("[", "p"), key.WithHelp("[/p", "prev day")),
		Now:     key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "now")),
		Detail:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Copy:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Close:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Right, k.NextDay, k.NextTab, k.Detail, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.NextDay, k.PrevDay, k.NextTab, k.PrevTab},
		{k.Now, k.Detail, k.Copy, k.Search},
		{k.Help, k.Close, k.Quit},
	}
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.logger.Debug("tui.key", "key", msg.String(), "mode", int(m.mode))

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModeDetail:
		return m.handleDetailKeys(msg)
	case ModeSearch:
		return m.handleSearchKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys while browsing the grid.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		m.moveBlock(1)
	case key.Matches(msg, m.keys.Up):
		m.moveBlock(-1)
	case key.Matches(msg, m.keys.Left):
		m.moveColumn(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveColumn(1)

	case key.Matches(msg, m.keys.NextDay):
		m.moveDay(1)
	case key.Matches(msg, m.keys.PrevDay):
		m.moveDay(-1)

	case key.Matches(msg, m.keys.NextTab):
		return m.switchTab(1)
	case key.Matches(msg, m.keys.PrevTab):
		return m.switchTab(-1)

	case key.Matches(msg, m.keys.Now):
		m.jumpToNow()

	case key.Matches(msg, m.keys.Detail):
		if b, ok := m.selectedBlock(); ok {
			m.detail = guide.BlockDetail(b, m.guideOpts.Location, nil)
			m.mode = ModeDetail
		}

	case key.Matches(msg, m.keys.Copy):
		if b, ok := m.selectedBlock(); ok {
			d := guide.BlockDetail(b, m.guideOpts.Location, nil)
			return m, commands.CopyToClipboard(d.String(), "program")
		}

	case key.Matches(msg, m.keys.Search):
		m.mode = ModeSearch
		m.search.SetValue("")
		cmd := m.search.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.ensureVisible()
	}

	return m, nil
}

// handleDetailKeys handles keys while the detail modal is open.
func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Close), key.Matches(msg, m.keys.Detail):
		m.mode = ModeNormal
	case key.Matches(msg, m.keys.Copy):
		return m, commands.CopyToClipboard(m.detail.String(), "program")
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	}
	return m, nil
}

// handleSearchKeys handles keys while typing a search.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeNormal
		m.search.Blur()
		return m, nil
	case tea.KeyEnter:
		m.mode = ModeNormal
		m.search.Blur()
		query := strings.TrimSpace(m.search.Value())
		if query == "" {
			return m, nil
		}
		if !m.findNext(query) {
			return m.setStatus("No match for "+query, true)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

// switchTab moves to the next or previous tab, building it if needed.
func (m Model) switchTab(delta int) (tea.Model, tea.Cmd) {
	n := len(m.tabs)
	m.tab = ((m.tab+delta)%n + n) % n
	m.col, m.colOffset = 0, 0
	if cmd := m.buildTab(m.tab); cmd != nil {
		return m, cmd
	}
	if m.width > 0 {
		m.colWidth = m.calculateColWidth()
	}
	m.clampDay()
	m.selectAt(m.referenceMinute())
	return m, nil
}
