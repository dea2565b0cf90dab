package server

import (
	"github.com/javiermolinar/bangumi/internal/column"
	"github.com/javiermolinar/bangumi/internal/epg"
	"github.com/javiermolinar/bangumi/internal/guide"
)

type tabResponse struct {
	Name string `json:"name"`
	Mode string `json:"mode"`
}

type columnResponse struct {
	Key         string        `json:"key"`
	Name        string        `json:"name"`
	Logo        string        `json:"logo,omitempty"`
	MainService epg.Service   `json:"main_service"`
	Services    []epg.Service `json:"services"`
}

type blockResponse struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Start      string  `json:"start"`
	End        string  `json:"end"`
	StartAt    int64   `json:"start_at"`
	EndAt      int64   `json:"end_at"`
	Top        float64 `json:"top"`
	Height     float64 `json:"height"`
	Left       float64 `json:"left"`
	Width      float64 `json:"width"`
	LaneIndex  int     `json:"lane_index"`
	LaneCount  int     `json:"lane_count"`
	ProgramIDs []int64 `json:"program_ids"`
}

type columnScheduleResponse struct {
	columnResponse
	Blocks []blockResponse `json:"blocks"`
}

type dayResponse struct {
	Tab         string                   `json:"tab"`
	Day         string                   `json:"day"`
	Label       string                   `json:"label"`
	PxPerMinute float64                  `json:"px_per_minute"`
	NowOffset   *float64                 `json:"now_offset"`
	Columns     []columnScheduleResponse `json:"columns"`
}

func newTabResponse(t column.Tab) tabResponse {
	return tabResponse{Name: t.Name, Mode: string(t.Mode)}
}

func newColumnResponse(h guide.Header) columnResponse {
	return columnResponse{
		Key:         h.Key,
		Name:        h.Name,
		Logo:        h.Logo,
		MainService: h.MainService,
		Services:    h.Services,
	}
}

func newBlockResponse(b guide.Block) blockResponse {
	ids := make([]int64, len(b.Group.Programs))
	for i, p := range b.Group.Programs {
		ids[i] = p.ID
	}
	return blockResponse{
		ID:         b.ID(),
		Title:      b.Title,
		Start:      b.Start,
		End:        b.End,
		StartAt:    b.Group.StartAt,
		EndAt:      b.Group.EndAt,
		Top:        b.Top,
		Height:     b.Height,
		Left:       b.Left,
		Width:      b.Width,
		LaneIndex:  b.Group.LaneIndex,
		LaneCount:  b.Group.LaneCount,
		ProgramIDs: ids,
	}
}

func newDayResponse(g *guide.Guide, day guide.Day) dayResponse {
	resp := dayResponse{
		Tab:         g.Tab.Name,
		Day:         day.Key,
		Label:       day.Label,
		PxPerMinute: g.PxPerMinute,
		NowOffset:   day.NowOffset,
		Columns:     make([]columnScheduleResponse, 0, len(day.Columns)),
	}
	for i, cs := range day.Columns {
		col := columnScheduleResponse{
			columnResponse: newColumnResponse(g.Columns[i]),
			Blocks:         make([]blockResponse, 0, len(cs.Blocks)),
		}
		for _, b := range cs.Blocks {
			col.Blocks = append(col.Blocks, newBlockResponse(b))
		}
		resp.Columns = append(resp.Columns, col)
	}
	return resp
}
