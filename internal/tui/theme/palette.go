package theme

import "github.com/charmbracelet/lipgloss"

// Palette holds the lipgloss colors derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	OnAir       lipgloss.Color
	NowLine     lipgloss.Color

	ProgramBg      lipgloss.Color
	ProgramBgAlt   lipgloss.Color
	ProgramPastBg  lipgloss.Color
	ParallelBg     lipgloss.Color
	ParallelBgAlt  lipgloss.Color
	ParallelPastBg lipgloss.Color
	OnAirBg        lipgloss.Color

	TextOnAccent   lipgloss.Color
	TextOnNowLine  lipgloss.Color
	TextOnProgram  lipgloss.Color
	TextOnParallel lipgloss.Color
	TextOnOnAir    lipgloss.Color

	Modal ModalColors
}

// ModalColors are the resolved detail modal colors.
type ModalColors struct {
	Bg        lipgloss.Color
	Border    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Highlight lipgloss.Color
}

// shading derives block backgrounds from accent colors. Dark themes dim the
// accent; light themes wash it out toward the background.
type shading struct {
	light bool
	bg    string
}

func newShading(bg string) shading {
	return shading{light: luminance(bg) > 0.55, bg: bg}
}

func (s shading) base(accent string) string {
	if s.light {
		return mixHex(accent, s.bg, 0.75)
	}
	return shade(accent, func(c rgb) rgb { return c.scale(0.5, 40) })
}

// past is the background of programs that already ended.
func (s shading) past(accent string) string {
	if s.light {
		return mixHex(accent, s.bg, 0.88)
	}
	return shade(accent, func(c rgb) rgb { return c.scale(0.3, 30) })
}

// alt separates adjacent blocks in the same column.
func (s shading) alt(hex string) string {
	if s.light {
		return shade(hex, func(c rgb) rgb { return c.mix(black, 0.10) })
	}
	return shade(hex, func(c rgb) rgb { return c.mix(white, 0.30) })
}

// NewPalette derives a Palette from t. A nil theme uses DefaultName.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load(DefaultName)
	}
	th := *t
	th.resolveModal()

	s := newShading(th.Bg)
	program := s.base(th.Program)
	parallel := s.base(th.Parallel)
	onAir := s.base(th.OnAir)
	textOn := func(bg string) lipgloss.Color {
		return lipgloss.Color(readableOn(bg, th.Bg, th.Fg))
	}

	return &Palette{
		Bg:          lipgloss.Color(th.Bg),
		BgHighlight: lipgloss.Color(th.BgHighlight),
		BgSelection: lipgloss.Color(th.BgSelection),
		Fg:          lipgloss.Color(th.Fg),
		FgMuted:     lipgloss.Color(th.FgMuted),
		Accent:      lipgloss.Color(th.Accent),
		OnAir:       lipgloss.Color(th.OnAir),
		NowLine:     lipgloss.Color(th.NowLine),

		ProgramBg:      lipgloss.Color(program),
		ProgramBgAlt:   lipgloss.Color(s.alt(program)),
		ProgramPastBg:  lipgloss.Color(s.past(th.Program)),
		ParallelBg:     lipgloss.Color(parallel),
		ParallelBgAlt:  lipgloss.Color(s.alt(parallel)),
		ParallelPastBg: lipgloss.Color(s.past(th.Parallel)),
		OnAirBg:        lipgloss.Color(onAir),

		TextOnAccent:   textOn(th.Accent),
		TextOnNowLine:  textOn(th.NowLine),
		TextOnProgram:  textOn(program),
		TextOnParallel: textOn(parallel),
		TextOnOnAir:    textOn(onAir),

		Modal: ModalColors{
			Bg:        lipgloss.Color(th.Modal.Bg),
			Border:    lipgloss.Color(th.Modal.Border),
			Text:      lipgloss.Color(th.Modal.Text),
			Muted:     lipgloss.Color(th.Modal.Muted),
			Highlight: lipgloss.Color(th.Modal.Highlight),
		},
	}
}
