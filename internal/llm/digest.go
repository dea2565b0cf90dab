package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/javiermolinar/bangumi/internal/guide"
)

// ErrEmptyDay is returned when a day has nothing to summarize.
var ErrEmptyDay = errors.New("no programs on this day")

const digestSystemPrompt = `You are a concise TV guide editor. You only talk about programs present in the listing you are given. Output plain text, no markdown.`

const summaryPromptTemplate = `Summarize the %s broadcast day below in at most 6 short lines.
Mention the most notable programs by channel and start time, and group simultaneous airings when they are the same show.

%s`

const highlightsPromptTemplate = `Pick up to %d programs worth watching from the %s listing below.
Respond ONLY with valid JSON (no markdown, no explanation):
{"highlights": [{"program_id": 123, "title": "...", "channel": "...", "start": "HH:MM", "reason": "one short sentence"}]}

%s`

// Highlight is one recommended program.
type Highlight struct {
	ProgramID int64  `json:"program_id"`
	Title     string `json:"title"`
	Channel   string `json:"channel"`
	Start     string `json:"start"`
	Reason    string `json:"reason"`
}

type highlightsResponse struct {
	Highlights []Highlight `json:"highlights"`
}

// Digester turns a laid-out day into natural-language summaries.
type Digester struct {
	client Client
}

// NewDigester creates a digester backed by the given client.
func NewDigester(client Client) *Digester {
	return &Digester{client: client}
}

// SummarizeDay returns a short plain-text overview of the day.
func (d *Digester) SummarizeDay(ctx context.Context, g *guide.Guide, day *guide.Day) (string, error) {
	if day == nil || day.Empty() {
		return "", ErrEmptyDay
	}

	messages := prompt(digestSystemPrompt, fmt.Sprintf(summaryPromptTemplate, g.Tab.Name, FormatDay(g, day)))

	summary, err := d.client.Chat(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("summarizing %s: %w", day.Key, err)
	}
	return strings.TrimSpace(summary), nil
}

// PickHighlights asks for up to n recommended programs.
// Picks that do not refer to a program of the day are dropped.
func (d *Digester) PickHighlights(ctx context.Context, g *guide.Guide, day *guide.Day, n int) ([]Highlight, error) {
	if day == nil || day.Empty() {
		return nil, ErrEmptyDay
	}
	if n <= 0 {
		n = 5
	}

	messages := prompt(digestSystemPrompt, fmt.Sprintf(highlightsPromptTemplate, n, g.Tab.Name, FormatDay(g, day)))

	var resp highlightsResponse
	if err := d.client.ChatJSON(ctx, messages, &resp); err != nil {
		return nil, fmt.Errorf("picking highlights for %s: %w", day.Key, err)
	}

	known := make(map[int64]bool)
	for _, c := range day.Columns {
		for _, b := range c.Blocks {
			for _, p := range b.Group.Programs {
				known[p.ID] = true
			}
		}
	}

	var result []Highlight
	for _, h := range resp.Highlights {
		if !known[h.ProgramID] {
			continue
		}
		result = append(result, h)
		if len(result) == n {
			break
		}
	}
	return result, nil
}

// FormatDay renders a day as a plain listing, one section per column.
func FormatDay(g *guide.Guide, day *guide.Day) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Day: %s (%s)\n", day.Label, day.Key)

	for _, c := range day.Columns {
		if len(c.Blocks) == 0 {
			continue
		}
		name := c.Key
		if h, ok := g.Column(c.Key); ok {
			name = h.Name
		}
		fmt.Fprintf(&sb, "\n[%s]\n", name)
		for _, b := range c.Blocks {
			p := b.Group.Primary()
			fmt.Fprintf(&sb, "%s-%s %s (id %d)", b.Start, b.End, b.Title, p.ID)
			if b.Group.LaneCount > 1 {
				fmt.Fprintf(&sb, " [parallel %d/%d]", b.Group.LaneIndex+1, b.Group.LaneCount)
			}
			if len(b.Group.Programs) > 1 {
				fmt.Fprintf(&sb, " [simulcast x%d]", len(b.Group.Programs))
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
