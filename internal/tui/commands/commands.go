// Package commands provides TUI command constructors and message types.
package commands

import (
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/bangumi/internal/column"
	"github.com/javiermolinar/bangumi/internal/epg"
	"github.com/javiermolinar/bangumi/internal/guide"
)

// GuideBuiltMsg is sent when a tab has been laid out.
type GuideBuiltMsg struct {
	Tab     int
	Guide   *guide.Guide
	Elapsed time.Duration
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// TickMsg is sent periodically so the on-air state follows the clock.
type TickMsg struct {
	Time time.Time
}

// clipboardWrite is replaced in tests.
var clipboardWrite = clipboard.WriteAll

// BuildGuide lays out a tab in the background.
func BuildGuide(index int, tab column.Tab, ds *epg.Dataset, opts guide.Options) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		g := guide.Build(tab, ds, opts)
		return GuideBuiltMsg{Tab: index, Guide: g, Elapsed: time.Since(start)}
	}
}

// CopyToClipboard copies text and reports the outcome as a status message.
func CopyToClipboard(text, what string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboardWrite(text); err != nil {
			return ErrMsg{Err: err}
		}
		return StatusMsgCmd{Msg: "Copied " + what}
	}
}

// Tick fires once after d.
func Tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// ClearStatusAfter schedules a ClearStatusMsg.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
