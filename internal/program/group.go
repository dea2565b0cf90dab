// Package program merges broadcast records that describe the same airing into groups.
package program

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/javiermolinar/bangumi/internal/epg"
)

// Group is one or more records merged because they are the same logical airing.
// LaneIndex and LaneCount are set by the layout engine.
type Group struct {
	Key          string
	StartAt      int64 // epoch ms
	EndAt        int64 // epoch ms
	MinServiceID int
	Programs     []epg.Program

	LaneIndex int
	LaneCount int
}

// ID returns an identifier that is stable across render passes.
func (g *Group) ID() string {
	return g.Key + "@" + strconv.FormatInt(g.StartAt, 10)
}

// Primary returns the member used for the title and detail view.
func (g *Group) Primary() epg.Program {
	if len(g.Programs) == 0 {
		return epg.Program{}
	}
	return g.Programs[0]
}

// DurationMinutes returns the span length in whole minutes, rounded.
func (g *Group) DurationMinutes() int {
	return int((g.EndAt - g.StartAt + 30_000) / 60_000)
}

// Overlaps reports whether two groups air at the same time.
func (g *Group) Overlaps(other *Group) bool {
	return g.StartAt < other.EndAt && other.StartAt < g.EndAt
}

// ServiceIDs returns the distinct member service ids in member order.
func (g *Group) ServiceIDs() []int {
	var ids []int
	for _, p := range g.Programs {
		if !slices.Contains(ids, p.ServiceID) {
			ids = append(ids, p.ServiceID)
		}
	}
	return ids
}

// GroupKey derives the merge key of a record.
// Records linked as shared broadcasts collapse on the smallest identity in the link set,
// records with an event id collapse on (event, start, duration), everything else on
// (start, duration, name). The last tier can merge unrelated programs that happen to
// share a name and slot on different services.
func GroupKey(p epg.Program) string {
	if shared := p.SharedItems(); len(shared) > 0 {
		canonical := eventIdentity(p.NetworkID, p.ServiceID, p.EventID)
		for _, item := range shared {
			nid := item.NetworkID
			if nid == 0 {
				// related items omit networkId for simulcasts on the record's own network
				nid = p.NetworkID
			}
			if id := eventIdentity(nid, item.ServiceID, item.EventID); id < canonical {
				canonical = id
			}
		}
		return "shared:" + canonical
	}
	if p.EventID != 0 {
		return fmt.Sprintf("event:%d:%d:%d", p.EventID, p.StartAt, p.Duration)
	}
	return fmt.Sprintf("slot:%d:%d:%s", p.StartAt, p.Duration, p.Name)
}

func eventIdentity(networkID, serviceID, eventID int) string {
	nid := ""
	if networkID != 0 {
		nid = strconv.Itoa(networkID)
	}
	return fmt.Sprintf("%s:%d:%d", nid, serviceID, eventID)
}

// Merge folds a column's day programs into merged groups.
// Only programs on the given services are considered, in service order.
// Groups are returned in first-seen order; callers sort them for layout.
func Merge(services []epg.ServiceKey, dayPrograms []epg.Program) []*Group {
	byService := make([][]epg.Program, len(services))
	for _, p := range dayPrograms {
		for i, key := range services {
			if key.Matches(p.NetworkID, p.ServiceID) {
				byService[i] = append(byService[i], p)
				break
			}
		}
	}

	groups := make(map[string]*Group)
	var order []string
	for _, list := range byService {
		for _, p := range list {
			key := GroupKey(p)
			g, ok := groups[key]
			if !ok {
				g = &Group{
					Key:          key,
					StartAt:      p.StartAt,
					EndAt:        p.EndAt(),
					MinServiceID: p.ServiceID,
				}
				groups[key] = g
				order = append(order, key)
			}
			g.add(p)
		}
	}

	result := make([]*Group, 0, len(order))
	for _, key := range order {
		g := groups[key]
		slices.SortStableFunc(g.Programs, func(a, b epg.Program) int {
			if a.ServiceID != b.ServiceID {
				return a.ServiceID - b.ServiceID
			}
			return a.EventID - b.EventID
		})
		result = append(result, g)
	}
	return result
}

func (g *Group) add(p epg.Program) {
	g.Programs = append(g.Programs, p)
	g.StartAt = min(g.StartAt, p.StartAt)
	g.EndAt = max(g.EndAt, p.EndAt())
	g.MinServiceID = min(g.MinServiceID, p.ServiceID)
}
