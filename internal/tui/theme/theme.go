// Package theme loads the TUI color themes embedded as TOML files.
package theme

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// DefaultName is the theme used when none is configured.
const DefaultName = "mocha"

// ErrUnknownTheme is returned for names with no embedded theme file.
var ErrUnknownTheme = errors.New("unknown theme")

// Theme holds the colors of the guide grid.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`
	BgHighlight string `toml:"bg_highlight"` // column names
	BgSelection string `toml:"bg_selection"` // cursor
	Fg          string `toml:"fg"`
	FgMuted     string `toml:"fg_muted"` // ended programs, gutter
	Accent      string `toml:"accent"`   // title, active tab
	Program     string `toml:"program"`
	Parallel    string `toml:"parallel"` // blocks sharing their slot with another airing
	OnAir       string `toml:"on_air"`
	NowLine     string `toml:"now_line"`

	Modal ModalTheme `toml:"modal"`
}

// ModalTheme holds the detail modal colors. Load fills empty fields from the grid colors.
type ModalTheme struct {
	Bg        string `toml:"bg"`
	Border    string `toml:"border"`
	Text      string `toml:"text"`
	Muted     string `toml:"muted"`
	Highlight string `toml:"highlight"`
}

// Load reads an embedded theme by name, case-insensitively.
// An empty name loads DefaultName.
func Load(name string) (*Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultName
	}

	data, err := embeddedThemes.ReadFile(path.Join("embedded", name+".toml"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTheme, name)
	}
	if err != nil {
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}

	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("theme %q: %w", name, err)
	}
	t.resolveModal()
	return &t, nil
}

// validate checks the colors every block style is derived from.
func (t *Theme) validate() error {
	required := []struct{ key, value string }{
		{"bg", t.Bg},
		{"fg", t.Fg},
		{"accent", t.Accent},
		{"program", t.Program},
		{"parallel", t.Parallel},
		{"on_air", t.OnAir},
		{"now_line", t.NowLine},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("missing color %s", r.key)
		}
	}
	return nil
}

func (t *Theme) resolveModal() {
	m := &t.Modal
	m.Bg = coalesce(m.Bg, t.BgHighlight, t.Bg)
	m.Border = coalesce(m.Border, t.Accent)
	m.Text = coalesce(m.Text, t.Fg)
	m.Muted = coalesce(m.Muted, t.FgMuted, t.Fg)
	m.Highlight = coalesce(m.Highlight, t.Accent)
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available lists the embedded theme names, DefaultName first.
func Available() []string {
	files, _ := fs.Glob(embeddedThemes, "embedded/*.toml")
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, strings.TrimSuffix(path.Base(f), ".toml"))
	}
	slices.SortFunc(names, func(a, b string) int {
		switch {
		case a == DefaultName:
			return -1
		case b == DefaultName:
			return 1
		default:
			return strings.Compare(a, b)
		}
	})
	return names
}

// IsAvailable reports whether a theme name is embedded, case-insensitively.
func IsAvailable(name string) bool {
	return slices.Contains(Available(), strings.ToLower(strings.TrimSpace(name)))
}
