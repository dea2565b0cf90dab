// Package guide turns a dataset into laid-out day schedules for one tab.
//
// Build resolves columns once, buckets programs by the calendar day of their
// start, then groups and lays out each (day, column) pair independently.
// Geometry is expressed in pixels from the top of the day and in percentages
// of the column width, so renderers only need to scale.
package guide

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sourcegraph/conc/iter"

	"github.com/javiermolinar/bangumi/internal/column"
	"github.com/javiermolinar/bangumi/internal/dateutil"
	"github.com/javiermolinar/bangumi/internal/epg"
	"github.com/javiermolinar/bangumi/internal/layout"
	"github.com/javiermolinar/bangumi/internal/program"
)

// Defaults used when Options fields are left zero.
const (
	DefaultDays        = 8
	DefaultPxPerMinute = 2.0
	DefaultTimezone    = "Asia/Tokyo"
)

// Options controls how a guide is built.
type Options struct {
	Days                int
	Location            *time.Location
	PxPerMinute         float64
	IncludeServiceTypes []int
	Now                 func() time.Time

	// LogoResolver returns a logo URL for a column's main service.
	LogoResolver func(epg.Service) string
	// TimeFormatter renders block start and end times.
	TimeFormatter func(time.Time) string
}

func (o Options) withDefaults() Options {
	if o.Days <= 0 {
		o.Days = DefaultDays
	}
	if o.Location == nil {
		loc, err := dateutil.LoadLocation(DefaultTimezone)
		if err != nil {
			loc = time.Local
		}
		o.Location = loc
	}
	if o.PxPerMinute <= 0 {
		o.PxPerMinute = DefaultPxPerMinute
	}
	if len(o.IncludeServiceTypes) == 0 {
		o.IncludeServiceTypes = []int{epg.ServiceTypeTV}
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.TimeFormatter == nil {
		loc := o.Location
		o.TimeFormatter = func(t time.Time) string { return t.In(loc).Format("15:04") }
	}
	return o
}

// Header describes a column for rendering.
type Header struct {
	column.Column
	Logo string
}

// Block is one program group positioned inside a column.
type Block struct {
	Group *program.Group
	Title string
	Start string
	End   string

	Top    float64 // px from the start of the day
	Height float64 // px
	Left   float64 // percent of column width
	Width  float64 // percent of column width
}

// ID returns the stable identifier of the underlying group.
func (b Block) ID() string {
	return b.Group.ID()
}

// ColumnSchedule is the laid-out blocks of one column for one day.
type ColumnSchedule struct {
	Key    string
	Blocks []Block
}

// Day is one calendar day of the guide.
type Day struct {
	Key     string
	Label   string
	Start   time.Time
	Columns []ColumnSchedule

	// NowOffset is the px offset of the current time, set only for today.
	NowOffset *float64
}

// Empty returns true if no column has a block.
func (d Day) Empty() bool {
	for _, c := range d.Columns {
		if len(c.Blocks) > 0 {
			return false
		}
	}
	return true
}

// Guide is a built tab.
type Guide struct {
	Tab         column.Tab
	Columns     []Header
	Days        []Day
	PxPerMinute float64
}

// Empty returns true if there are no columns or no day has a block.
func (g *Guide) Empty() bool {
	if len(g.Columns) == 0 {
		return true
	}
	for _, d := range g.Days {
		if !d.Empty() {
			return false
		}
	}
	return true
}

// Day returns the day with the given key.
func (g *Guide) Day(key string) (*Day, bool) {
	for i := range g.Days {
		if g.Days[i].Key == key {
			return &g.Days[i], true
		}
	}
	return nil, false
}

// Column returns the header with the given key.
func (g *Guide) Column(key string) (Header, bool) {
	for _, h := range g.Columns {
		if h.Key == key {
			return h, true
		}
	}
	return Header{}, false
}

// FindBlock looks a block up by group id across all days and columns.
func (g *Guide) FindBlock(id string) (Block, bool) {
	for _, d := range g.Days {
		for _, c := range d.Columns {
			for _, b := range c.Blocks {
				if b.ID() == id {
					return b, true
				}
			}
		}
	}
	return Block{}, false
}

// Build lays out a tab over the dataset for Days days starting today.
func Build(tab column.Tab, ds *epg.Dataset, opts Options) *Guide {
	opts = opts.withDefaults()
	return BuildDays(tab, ds, dateutil.DayKeys(opts.Now(), opts.Days, opts.Location), opts)
}

// BuildDays lays out a tab over the dataset for the given day keys.
func BuildDays(tab column.Tab, ds *epg.Dataset, keys []string, opts Options) *Guide {
	opts = opts.withDefaults()
	g := &Guide{Tab: tab, PxPerMinute: opts.PxPerMinute}
	if ds == nil {
		ds = &epg.Dataset{}
	}

	columns := column.Resolve(tab, ds.Services, ds.Channels, opts.IncludeServiceTypes)
	for _, c := range columns {
		h := Header{Column: c}
		if opts.LogoResolver != nil {
			h.Logo = opts.LogoResolver(c.MainService)
		}
		g.Columns = append(g.Columns, h)
	}

	now := opts.Now()
	buckets := bucketByDay(ds.Programs, keys, opts.Location)

	g.Days = iter.Map(keys, func(key *string) Day {
		return buildDay(*key, columns, buckets[*key], now, opts)
	})
	return g
}

func bucketByDay(programs []epg.Program, keys []string, loc *time.Location) map[string][]epg.Program {
	buckets := make(map[string][]epg.Program, len(keys))
	for _, k := range keys {
		buckets[k] = nil
	}
	for _, p := range epg.FilterValid(programs) {
		k := dateutil.DayKey(p.Start(), loc)
		if _, ok := buckets[k]; ok {
			buckets[k] = append(buckets[k], p)
		}
	}
	return buckets
}

func buildDay(key string, columns []column.Column, programs []epg.Program, now time.Time, opts Options) Day {
	start, _ := dateutil.DayStart(key, opts.Location)
	day := Day{
		Key:   key,
		Label: dateutil.FormatDayLabel(start, opts.Location),
		Start: start,
	}
	if dateutil.DayKey(now, opts.Location) == key {
		offset := float64(dateutil.MinutesSinceMidnight(now, opts.Location)) * opts.PxPerMinute
		day.NowOffset = &offset
	}

	for _, c := range columns {
		groups := layout.Assign(program.Merge(c.ServiceKeys(), programs))
		blocks := make([]Block, 0, len(groups))
		for _, grp := range groups {
			blocks = append(blocks, newBlock(grp, opts))
		}
		day.Columns = append(day.Columns, ColumnSchedule{Key: c.Key, Blocks: blocks})
	}
	return day
}

func newBlock(g *program.Group, opts Options) Block {
	start := time.UnixMilli(g.StartAt)
	end := time.UnixMilli(g.EndAt)
	count := max(1, g.LaneCount)
	durMinutes := math.Round(float64(g.EndAt-g.StartAt) / 60_000)

	title := g.Primary().Name
	if title == "" {
		title = UntitledProgram
	}

	return Block{
		Group:  g,
		Title:  title,
		Start:  opts.TimeFormatter(start),
		End:    opts.TimeFormatter(end),
		Top:    float64(dateutil.MinutesSinceMidnight(start, opts.Location)) * opts.PxPerMinute,
		Height: math.Max(1, durMinutes) * opts.PxPerMinute,
		Left:   float64(g.LaneIndex) / float64(count) * 100,
		Width:  100 / float64(count),
	}
}

// LogoTemplate returns a resolver that expands {serviceId}, {networkId} and {id}
// in tmpl. Services without logo data resolve to "".
func LogoTemplate(tmpl string) func(epg.Service) string {
	if tmpl == "" {
		return nil
	}
	return func(s epg.Service) string {
		if !s.HasLogoData {
			return ""
		}
		r := strings.NewReplacer(
			"{serviceId}", strconv.Itoa(s.ServiceID),
			"{networkId}", strconv.Itoa(s.NetworkID),
			"{id}", strconv.FormatInt(s.ID, 10),
		)
		return r.Replace(tmpl)
	}
}
