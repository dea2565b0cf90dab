package ui

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

const fallbackWidth = 80

// painter returns a formatter that honors color.NoColor at call time.
func painter(attrs ...color.Attribute) func(string) string {
	c := color.New(attrs...)
	return func(s string) string { return c.Sprint(s) }
}

var (
	formatOnAir   = painter(color.FgGreen, color.Bold)
	formatLane    = painter(color.FgCyan)
	formatInsight = painter(color.FgYellow)
	formatHeader  = painter(color.Bold)
	formatStats   = painter(color.FgGreen)
	formatMuted   = painter(color.FgWhite, color.Faint)
)

// outputWidth reports the column count of w when it is a terminal.
// Pipes and buffers get fallbackWidth.
func outputWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return fallbackWidth
	}
	cols, _, err := term.GetSize(int(f.Fd()))
	if err != nil || cols <= 0 {
		return fallbackWidth
	}
	return cols
}

// DisableColor turns off ANSI styling for all CLI output.
func DisableColor() {
	color.NoColor = true
}
