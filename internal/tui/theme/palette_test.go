package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func darkTheme() *Theme {
	return &Theme{
		Bg:          "#101010",
		BgHighlight: "#202020",
		BgSelection: "#303030",
		Fg:          "#ffffff",
		FgMuted:     "#aaaaaa",
		Accent:      "#ff0000",
		Program:     "#112233",
		Parallel:    "#445566",
		OnAir:       "#777777",
		NowLine:     "#888888",
	}
}

func TestNewPalette_DarkBlockShades(t *testing.T) {
	p := NewPalette(darkTheme())

	tests := []struct {
		name string
		got  lipgloss.Color
		want lipgloss.Color
	}{
		{"ProgramBg floors dim channels", p.ProgramBg, "#282828"},
		{"ParallelBg halves channels", p.ParallelBg, "#282a33"},
		{"ProgramPastBg", p.ProgramPastBg, "#1e1e1e"},
		{"ParallelBgAlt lightens", p.ParallelBgAlt, "#686970"},
		{"text on program", p.TextOnProgram, "#ffffff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestNewPalette_ModalFallbacks(t *testing.T) {
	p := NewPalette(darkTheme())
	if p.Modal.Bg != "#202020" {
		t.Errorf("Modal.Bg = %q, want bg_highlight", p.Modal.Bg)
	}
	if p.Modal.Border != "#ff0000" {
		t.Errorf("Modal.Border = %q, want accent", p.Modal.Border)
	}
	if p.Modal.Muted != "#aaaaaa" {
		t.Errorf("Modal.Muted = %q, want fg_muted", p.Modal.Muted)
	}
}

func TestNewPalette_DoesNotMutateTheme(t *testing.T) {
	th := darkTheme()
	NewPalette(th)
	if th.Modal != (ModalTheme{}) {
		t.Errorf("theme modal mutated: %+v", th.Modal)
	}
}

func TestNewPalette_LightThemeWashesOut(t *testing.T) {
	th := &Theme{
		Bg:          "#f5f5f5",
		BgHighlight: "#eeeeee",
		BgSelection: "#e0e0e0",
		Fg:          "#222222",
		FgMuted:     "#555555",
		Accent:      "#2f6feb",
		Program:     "#1d8a8a",
		Parallel:    "#2f8f2f",
		OnAir:       "#c97b00",
		NowLine:     "#c2410c",
	}
	p := NewPalette(th)

	if luminance(string(p.ProgramBg)) <= luminance(th.Program) {
		t.Errorf("ProgramBg %q is not lighter than %q", p.ProgramBg, th.Program)
	}
	if luminance(string(p.ParallelBgAlt)) >= luminance(string(p.ParallelBg)) {
		t.Errorf("ParallelBgAlt %q is not darker than %q", p.ParallelBgAlt, p.ParallelBg)
	}
	if p.TextOnProgram != "#222222" {
		t.Errorf("TextOnProgram = %q, want fg", p.TextOnProgram)
	}
}

func TestNewPalette_NilUsesDefault(t *testing.T) {
	def, err := Load(DefaultName)
	if err != nil {
		t.Fatal(err)
	}
	if got := NewPalette(nil).Bg; got != lipgloss.Color(def.Bg) {
		t.Errorf("Bg = %q, want %q", got, def.Bg)
	}
}
