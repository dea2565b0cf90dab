package guide

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/javiermolinar/bangumi/internal/dateutil"
	"github.com/javiermolinar/bangumi/internal/epg"
)

// UntitledProgram is shown for programs without a name.
const UntitledProgram = "(no program information)"

// Fee labels.
const (
	FeeFree = "Free"
	FeePaid = "Pay"
)

// Field is one extended description entry.
type Field struct {
	Key   string
	Value string
}

// Detail is the presentation of a single program.
type Detail struct {
	ID          int64
	Title       string
	Time        string // "01/16(Thu) 19:00-20:00"
	Minutes     int
	Fee         string
	Genre       string
	Description string
	Extended    []Field
	Services    []int
}

// NewDetail describes the primary program of a block, or any program.
// Extended fields are sorted by key.
func NewDetail(p epg.Program, loc *time.Location, format func(time.Time) string) Detail {
	if loc == nil {
		loc = time.Local
	}
	if format == nil {
		format = func(t time.Time) string { return t.In(loc).Format("15:04") }
	}

	d := Detail{
		ID:          p.ID,
		Title:       p.Name,
		Minutes:     int((p.Duration + 30_000) / 60_000),
		Fee:         FeeFree,
		Description: strings.TrimSpace(p.Description),
		Services:    []int{p.ServiceID},
	}
	if d.Title == "" {
		d.Title = UntitledProgram
	}
	if !p.Free() {
		d.Fee = FeePaid
	}
	d.Time = fmt.Sprintf("%s %s-%s",
		dateutil.FormatDayLabel(p.Start(), loc), format(p.Start()), format(p.End()))
	if g, ok := p.PrimaryGenre(); ok {
		d.Genre = epg.GenreName(g.Lv1)
	}

	keys := make([]string, 0, len(p.Extended))
	for k := range p.Extended {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		d.Extended = append(d.Extended, Field{Key: k, Value: strings.TrimSpace(p.Extended[k])})
	}
	return d
}

// BlockDetail describes a block's primary program and lists every member service.
func BlockDetail(b Block, loc *time.Location, format func(time.Time) string) Detail {
	d := NewDetail(b.Group.Primary(), loc, format)
	d.Services = b.Group.ServiceIDs()
	return d
}

// String renders the detail as plain text.
func (d Detail) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", d.Title)
	fmt.Fprintf(&sb, "Air time: %s (%dm)\n", d.Time, d.Minutes)
	fmt.Fprintf(&sb, "Fee: %s\n", d.Fee)
	if d.Genre != "" {
		fmt.Fprintf(&sb, "Genre: %s\n", d.Genre)
	}
	if d.Description != "" {
		fmt.Fprintf(&sb, "\n%s\n", d.Description)
	}
	if len(d.Extended) > 0 {
		sb.WriteString("\n")
		for _, f := range d.Extended {
			fmt.Fprintf(&sb, "%s: %s\n", f.Key, f.Value)
		}
	}
	return sb.String()
}
