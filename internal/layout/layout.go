// Package layout assigns overlapping program groups to side-by-side lanes.
//
// Lanes are assigned greedily in start order, which uses the minimum number of
// lanes for an interval graph. Lane counts are computed per overlap cluster so
// every group in a cluster divides the column width the same way.
package layout

import (
	"cmp"
	"slices"
	"strings"

	"github.com/javiermolinar/bangumi/internal/program"
)

// Assign sorts the groups and sets LaneIndex and LaneCount on each.
// The input slice is not reordered; the sorted slice is returned.
func Assign(groups []*program.Group) []*program.Group {
	sorted := slices.Clone(groups)
	Sort(sorted)
	assignLanes(sorted)
	for _, cluster := range Clusters(sorted) {
		count := max(1, peakConcurrency(cluster))
		for _, g := range cluster {
			g.LaneCount = count
		}
	}
	return sorted
}

// Sort orders groups by start, lowest member service, end and key.
func Sort(groups []*program.Group) {
	slices.SortStableFunc(groups, func(a, b *program.Group) int {
		switch {
		case a.StartAt != b.StartAt:
			return cmp.Compare(a.StartAt, b.StartAt)
		case a.MinServiceID != b.MinServiceID:
			return a.MinServiceID - b.MinServiceID
		case a.EndAt != b.EndAt:
			return cmp.Compare(a.EndAt, b.EndAt)
		default:
			return strings.Compare(a.Key, b.Key)
		}
	})
}

type activeLane struct {
	endAt int64
	lane  int
}

// assignLanes gives each group the smallest lane not held by a group still airing.
func assignLanes(sorted []*program.Group) {
	var active []activeLane
	for _, g := range sorted {
		active = slices.DeleteFunc(active, func(a activeLane) bool {
			return a.endAt <= g.StartAt
		})
		lane := 0
		for slices.ContainsFunc(active, func(a activeLane) bool { return a.lane == lane }) {
			lane++
		}
		g.LaneIndex = lane
		active = append(active, activeLane{endAt: g.EndAt, lane: lane})
	}
}

// Clusters splits start-sorted groups into maximal runs connected by overlap.
func Clusters(sorted []*program.Group) [][]*program.Group {
	var clusters [][]*program.Group
	var current []*program.Group
	var runEnd int64
	for _, g := range sorted {
		if len(current) > 0 && g.StartAt < runEnd {
			current = append(current, g)
			runEnd = max(runEnd, g.EndAt)
			continue
		}
		if len(current) > 0 {
			clusters = append(clusters, current)
		}
		current = []*program.Group{g}
		runEnd = g.EndAt
	}
	if len(current) > 0 {
		clusters = append(clusters, current)
	}
	return clusters
}

type boundary struct {
	at    int64
	delta int
}

// peakConcurrency returns the most groups airing at one instant.
// A group ending exactly when another starts is not concurrent with it.
func peakConcurrency(cluster []*program.Group) int {
	events := make([]boundary, 0, len(cluster)*2)
	for _, g := range cluster {
		events = append(events, boundary{at: g.StartAt, delta: 1}, boundary{at: g.EndAt, delta: -1})
	}
	slices.SortFunc(events, func(a, b boundary) int {
		if a.at != b.at {
			return cmp.Compare(a.at, b.at)
		}
		return a.delta - b.delta
	})
	active, peak := 0, 0
	for _, e := range events {
		active += e.delta
		peak = max(peak, active)
	}
	return peak
}
