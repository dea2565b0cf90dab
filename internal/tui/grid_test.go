package tui

import (
	"strings"
	"testing"

	"github.com/javiermolinar/bangumi/internal/guide"
)

func spanBlock(startMin, endMin, left, width float64) guide.Block {
	return guide.Block{
		Top:    startMin * 2,
		Height: (endMin - startMin) * 2,
		Left:   left,
		Width:  width,
	}
}

func TestBlockRows(t *testing.T) {
	tests := []struct {
		name      string
		start     float64
		end       float64
		wantFirst int
		wantLast  int
	}{
		{name: "aligned half hour", start: 600, end: 630, wantFirst: 20, wantLast: 21},
		{name: "short block keeps one row", start: 600, end: 610, wantFirst: 20, wantLast: 21},
		{name: "unaligned spans two rows", start: 605, end: 640, wantFirst: 20, wantLast: 22},
		{name: "past midnight", start: 1410, end: 1500, wantFirst: 47, wantLast: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, last := blockRows(spanBlock(tt.start, tt.end, 0, 100), 2, 30)
			if first != tt.wantFirst || last != tt.wantLast {
				t.Errorf("blockRows() = [%d, %d), want [%d, %d)", first, last, tt.wantFirst, tt.wantLast)
			}
		})
	}
}

func TestBlockCols(t *testing.T) {
	tests := []struct {
		name   string
		left   float64
		width  float64
		cells  int
		wantX0 int
		wantX1 int
	}{
		{name: "full width", left: 0, width: 100, cells: 20, wantX0: 0, wantX1: 20},
		{name: "second half", left: 50, width: 50, cells: 20, wantX0: 10, wantX1: 20},
		{name: "third", left: 0, width: 100.0 / 3, cells: 10, wantX0: 0, wantX1: 3},
		{name: "sliver keeps one cell", left: 0, width: 1, cells: 10, wantX0: 0, wantX1: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x0, x1 := blockCols(spanBlock(0, 30, tt.left, tt.width), tt.cells)
			if x0 != tt.wantX0 || x1 != tt.wantX1 {
				t.Errorf("blockCols() = [%d, %d), want [%d, %d)", x0, x1, tt.wantX0, tt.wantX1)
			}
		})
	}
}

func TestCellOwners_Lanes(t *testing.T) {
	blocks := []guide.Block{
		spanBlock(600, 630, 0, 50),
		spanBlock(600, 660, 50, 50),
	}
	owners := cellOwners(blocks, 2, 30, 48, 4)

	if got := owners[20]; got[0] != 0 || got[1] != 0 || got[2] != 1 || got[3] != 1 {
		t.Errorf("row 20 owners = %v, want [0 0 1 1]", got)
	}
	if got := owners[21]; got[0] != -1 || got[1] != -1 || got[2] != 1 || got[3] != 1 {
		t.Errorf("row 21 owners = %v, want [-1 -1 1 1]", got)
	}
	if got := owners[19]; got[0] != -1 || got[3] != -1 {
		t.Errorf("row 19 should be empty, got %v", got)
	}
}

func TestCellOwners_LaterStartWins(t *testing.T) {
	blocks := []guide.Block{
		spanBlock(600, 610, 0, 100),
		spanBlock(610, 640, 0, 100),
	}
	owners := cellOwners(blocks, 2, 30, 48, 2)

	if owners[20][0] != 1 {
		t.Errorf("row 20 owner = %d, want 1", owners[20][0])
	}
	if owners[21][0] != 1 {
		t.Errorf("row 21 owner = %d, want 1", owners[21][0])
	}
}

func TestRowCount(t *testing.T) {
	day := &guide.Day{Columns: []guide.ColumnSchedule{{Blocks: []guide.Block{spanBlock(1410, 1500, 0, 100)}}}}
	if got := rowCount(day, 2, 30); got != 50 {
		t.Errorf("rowCount() = %d, want 50", got)
	}
	if got := rowCount(&guide.Day{}, 2, 30); got != 48 {
		t.Errorf("rowCount(empty) = %d, want 48", got)
	}
}

func TestWrapCells(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  []string
	}{
		{name: "fits", in: "10:00 News", width: 20, want: []string{"10:00 News"}},
		{name: "breaks at spaces", in: "10:00 Morning News", width: 8, want: []string{"10:00", "Morning", "News"}},
		{name: "wide runes break anywhere", in: "あいうえお", width: 4, want: []string{"あい", "うえ", "お"}},
		{name: "too narrow for a wide rune", in: "あ", width: 1, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapCells(tt.in, tt.width)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("wrapCells(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"News", 6, "News  "},
		{"Morning News", 5, "Morn…"},
		{"ニュース", 5, "ニュ…"},
		{"x", 0, ""},
	}

	for _, tt := range tests {
		if got := fit(tt.in, tt.width); got != tt.want {
			t.Errorf("fit(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestBlockAt(t *testing.T) {
	blocks := []guide.Block{
		spanBlock(600, 630, 0, 100),
		spanBlock(660, 720, 0, 100),
	}

	tests := []struct {
		name   string
		minute float64
		want   int
	}{
		{name: "inside first", minute: 615, want: 0},
		{name: "gap picks next", minute: 640, want: 1},
		{name: "before all", minute: 0, want: 0},
		{name: "after all picks last", minute: 1000, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := blockAt(blocks, tt.minute, 2); got != tt.want {
				t.Errorf("blockAt(%v) = %d, want %d", tt.minute, got, tt.want)
			}
		})
	}

	if got := blockAt(nil, 600, 2); got != -1 {
		t.Errorf("blockAt(nil) = %d, want -1", got)
	}
}
