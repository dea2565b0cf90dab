package view

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/bangumi/internal/guide"
)

func TestRenderDetailBody(t *testing.T) {
	d := guide.Detail{
		Title:       "Drama",
		Time:        "01/16(Thu) 21:00-21:54",
		Minutes:     54,
		Fee:         guide.FeeFree,
		Genre:       "Drama",
		Description: "A long description that has to wrap across more than one line of the modal.",
		Extended:    []guide.Field{{Key: "Cast", Value: "Someone"}},
		Services:    []int{1024, 1025},
	}

	out := ansi.Strip(RenderDetailBody(d, 30, DetailStyles{}))

	for _, want := range []string{
		"01/16(Thu) 21:00-21:54 (54m)",
		"Free  Drama",
		"Also on services 1024, 1025",
		"Cast",
		"Someone",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
	for _, line := range strings.Split(out, "\n") {
		if lipgloss.Width(line) > 30 {
			t.Errorf("line wider than 30 cells: %q", line)
		}
	}
}

func TestRenderDetailBody_SingleServiceOmitsList(t *testing.T) {
	d := guide.Detail{Time: "01/16(Thu) 10:00-10:30", Minutes: 30, Fee: guide.FeePaid, Services: []int{1024}}
	out := ansi.Strip(RenderDetailBody(d, 40, DetailStyles{}))
	if strings.Contains(out, "Also on") {
		t.Errorf("did not expect service list in:\n%s", out)
	}
	if !strings.Contains(out, "Pay") {
		t.Errorf("expected fee in:\n%s", out)
	}
}

func TestRenderTabBar(t *testing.T) {
	out := RenderTabBar("bangumi", []string{"GR", "BS", "CS"}, 1, "01/16(Thu)", 40, TabBarStyles{})
	plain := ansi.Strip(out)

	if lipgloss.Width(out) != 40 {
		t.Errorf("width = %d, want 40: %q", lipgloss.Width(out), plain)
	}
	if !strings.HasPrefix(plain, "bangumi GR  BS  CS ") {
		t.Errorf("unexpected tabs: %q", plain)
	}
	if !strings.HasSuffix(plain, "01/16(Thu)") {
		t.Errorf("expected right-aligned day label: %q", plain)
	}
}

func TestPadLinesWithBackground(t *testing.T) {
	out := PadLinesWithBackground("ab\nc", 4, 3, lipgloss.Color(""))
	lines := strings.Split(ansi.Strip(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if lipgloss.Width(line) != 4 {
			t.Errorf("line %d width = %d, want 4", i, lipgloss.Width(line))
		}
	}
}

func TestRenderModalOverlay_CentersModal(t *testing.T) {
	base := strings.Repeat("..........\n", 4) + ".........."
	out := ansi.Strip(RenderModalOverlay(base, "XX\nXX", 10, 5, lipgloss.Color("")))
	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
	if lines[1] != "....XX...." || lines[2] != "....XX...." {
		t.Errorf("modal not centered:\n%s", out)
	}
	if lines[0] != ".........." {
		t.Errorf("expected base line untouched, got %q", lines[0])
	}
}

func TestRenderHints(t *testing.T) {
	styles := ModalStyles{Body: lipgloss.NewStyle()}
	out := ansi.Strip(RenderHints(styles, Hint{Key: "Esc", Action: "Close"}, Hint{Key: "y", Action: "Copy"}))
	if out != "[Esc] Close  [y] Copy" {
		t.Errorf("RenderHints() = %q", out)
	}
}

func TestRenderModalFrame(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		hints []Hint
		want  []string
	}{
		{name: "title only", want: []string{"News 7"}},
		{name: "body", body: "Evening news.", want: []string{"News 7", "", "Evening news."}},
		{
			name:  "body and hints",
			body:  "Evening news.",
			hints: []Hint{{Key: "Esc", Action: "Close"}},
			want:  []string{"News 7", "", "Evening news.", "", "[Esc] Close"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := ansi.Strip(RenderModalFrame("News 7", tt.body, tt.hints, ModalStyles{}))
			got := strings.Split(out, "\n")
			for i := range got {
				got[i] = strings.TrimRight(got[i], " ")
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("RenderModalFrame() lines = %q, want %q", got, tt.want)
			}
		})
	}
}
