// Package tui provides the terminal program guide for bangumi.
package tui

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/bangumi/internal/column"
	"github.com/javiermolinar/bangumi/internal/epg"
	"github.com/javiermolinar/bangumi/internal/guide"
	"github.com/javiermolinar/bangumi/internal/tui/commands"
	"github.com/javiermolinar/bangumi/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeDetail      // Program detail modal
	ModeSearch      // Typing a title search
)

// Options configures the TUI.
type Options struct {
	Dataset    *epg.Dataset
	Guide      guide.Options
	Tabs       []column.Tab
	InitialTab string
	Theme      string
	Logger     *slog.Logger
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	dataset   *epg.Dataset
	guideOpts guide.Options
	tabs      []column.Tab
	logger    *slog.Logger
	now       func() time.Time

	// Theme and styles
	theme  *theme.Theme
	styles *Styles
	keys   keyMap
	help   help.Model

	// Built guides by tab index
	guides map[int]*guide.Guide

	// State
	tab     int
	day     int
	col     int
	blk     int // index into the selected column's blocks, -1 when empty
	mode    Mode
	loading bool
	detail  guide.Detail
	search  textinput.Model
	clock   time.Time

	// Terminal dimensions and layout
	width      int
	height     int
	rowMinutes int
	colWidth   int
	scrollRow  int
	colOffset  int

	// Messages
	statusMsg  string
	statusErr  bool
	statusTime time.Time
}

// New creates a new TUI model.
func New(opts Options) *Model {
	tabs := opts.Tabs
	if len(tabs) == 0 {
		tabs = column.DefaultTabs()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := opts.Guide.Now
	if now == nil {
		now = time.Now
	}
	opts.Guide.Now = now

	t, err := theme.Load(opts.Theme)
	if err != nil {
		logger.Warn("tui.theme.fallback", "theme", opts.Theme, "err", err)
		t, _ = theme.Load(theme.DefaultName)
	}
	styles := NewStyles(t)

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "title"
	search.CharLimit = 64
	search.PromptStyle = styles.Search
	search.TextStyle = styles.Status

	h := help.New()
	h.Styles.ShortKey = styles.Help.Bold(true)
	h.Styles.ShortDesc = styles.Help
	h.Styles.FullKey = styles.Help.Bold(true)
	h.Styles.FullDesc = styles.Help
	h.Styles.ShortSeparator = styles.Help
	h.Styles.FullSeparator = styles.Help

	m := &Model{
		dataset:    opts.Dataset,
		guideOpts:  opts.Guide,
		tabs:       tabs,
		logger:     logger,
		now:        now,
		theme:      t,
		styles:     styles,
		keys:       newKeyMap(),
		help:       h,
		guides:     make(map[int]*guide.Guide),
		tab:        tabIndex(tabs, opts.InitialTab),
		blk:        -1,
		mode:       ModeNormal,
		search:     search,
		clock:      now(),
		rowMinutes: defaultRowMinutes,
		colWidth:   defaultColWidth,
	}
	return m
}

func tabIndex(tabs []column.Tab, name string) int {
	for i, t := range tabs {
		if strings.EqualFold(t.Name, name) {
			return i
		}
	}
	return 0
}

// Init builds the initial tab and starts the clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.buildTab(m.tab), commands.Tick(time.Minute))
}

// buildTab returns a command building the tab, or nil when it is already built.
func (m *Model) buildTab(i int) tea.Cmd {
	if _, ok := m.guides[i]; ok {
		return nil
	}
	m.loading = true
	return commands.BuildGuide(i, m.tabs[i], m.dataset, m.guideOpts)
}

// Run starts the TUI.
func Run(opts Options) error {
	model := New(opts)
	p := tea.NewProgram(*model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// currentGuide returns the guide of the active tab, nil until built.
func (m Model) currentGuide() *guide.Guide {
	return m.guides[m.tab]
}

// currentDay returns the selected day, nil until the guide is built.
func (m Model) currentDay() *guide.Day {
	g := m.currentGuide()
	if g == nil || m.day < 0 || m.day >= len(g.Days) {
		return nil
	}
	return &g.Days[m.day]
}

// currentBlocks returns the blocks of the selected column.
func (m Model) currentBlocks() []guide.Block {
	day := m.currentDay()
	if day == nil || m.col < 0 || m.col >= len(day.Columns) {
		return nil
	}
	return day.Columns[m.col].Blocks
}

// selectedBlock returns the block under the cursor.
func (m Model) selectedBlock() (guide.Block, bool) {
	blocks := m.currentBlocks()
	if m.blk < 0 || m.blk >= len(blocks) {
		return guide.Block{}, false
	}
	return blocks[m.blk], true
}

func (m Model) pxPerMinute() float64 {
	if g := m.currentGuide(); g != nil && g.PxPerMinute > 0 {
		return g.PxPerMinute
	}
	return guide.DefaultPxPerMinute
}

// todayIndex returns the index of the day containing the clock, or -1.
func (m Model) todayIndex() int {
	g := m.currentGuide()
	if g == nil {
		return -1
	}
	for i, d := range g.Days {
		if since := m.clock.Sub(d.Start); since >= 0 && since < 24*time.Hour {
			return i
		}
	}
	return -1
}

// nowMinute returns the clock position within the selected day, or -1 when
// the selected day is not today.
func (m Model) nowMinute() float64 {
	if m.currentDay() == nil || m.todayIndex() != m.day {
		return -1
	}
	return m.clock.Sub(m.currentDay().Start).Minutes()
}
