// Package column resolves channel and service records into ordered guide columns.
package column

import (
	"fmt"
	"slices"
	"strings"

	"github.com/javiermolinar/bangumi/internal/epg"
)

// UnnamedService is the label for per-service columns whose service has no name.
const UnnamedService = "(unnamed service)"

// Mode selects how a tab turns channels into columns.
type Mode string

const (
	ModeGrouped    Mode = "grouped"
	ModePerService Mode = "per-service"
)

// Tab is a named view over a subset of channels.
type Tab struct {
	Name         string
	ChannelTypes []epg.ChannelType
	Mode         Mode

	// ChannelFilter replaces the ChannelTypes match when set.
	ChannelFilter func(epg.Channel) bool
	// ServiceFilter further restricts services after the type filter.
	ServiceFilter func(epg.Service) bool
}

// DefaultTabs returns the terrestrial, BS and CS tabs.
// CS lists one column per service since its channels carry many unrelated services.
func DefaultTabs() []Tab {
	return []Tab{
		{Name: "GR", ChannelTypes: []epg.ChannelType{epg.ChannelGR}, Mode: ModeGrouped},
		{Name: "BS", ChannelTypes: []epg.ChannelType{epg.ChannelBS}, Mode: ModeGrouped},
		{Name: "CS", ChannelTypes: []epg.ChannelType{epg.ChannelCS}, Mode: ModePerService},
	}
}

// TabByName finds a default tab by name, case-insensitively.
func TabByName(name string) (Tab, bool) {
	for _, t := range DefaultTabs() {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Tab{}, false
}

func (t Tab) matchesChannel(ch epg.Channel) bool {
	if t.ChannelFilter != nil {
		return t.ChannelFilter(ch)
	}
	return slices.Contains(t.ChannelTypes, ch.Type)
}

// Column is one vertical lane of the guide.
type Column struct {
	Key         string
	Name        string
	Services    []epg.Service
	MainService epg.Service
}

// ServiceKeys returns the keys of the member services in order.
func (c Column) ServiceKeys() []epg.ServiceKey {
	keys := make([]epg.ServiceKey, len(c.Services))
	for i, s := range c.Services {
		keys[i] = s.Key()
	}
	return keys
}

// Resolve builds the ordered columns for a tab.
// An empty includeServiceTypes means primary services only.
func Resolve(tab Tab, services []epg.Service, channels []epg.Channel, includeServiceTypes []int) []Column {
	if len(includeServiceTypes) == 0 {
		includeServiceTypes = []int{epg.ServiceTypeTV}
	}
	idx := newServiceIndex(services)

	var columns []Column
	seen := make(map[string]bool)
	for _, ch := range channels {
		if !tab.matchesChannel(ch) {
			continue
		}
		qualifying := qualifyingServices(ch, idx, includeServiceTypes, tab.ServiceFilter)
		if len(qualifying) == 0 {
			continue
		}

		if tab.Mode == ModePerService {
			for _, s := range qualifying {
				key := fmt.Sprintf("%s-%d-%d", ch.Type, s.NetworkID, s.ServiceID)
				if seen[key] {
					continue
				}
				seen[key] = true
				name := s.Name
				if name == "" {
					name = UnnamedService
				}
				columns = append(columns, Column{
					Key:         key,
					Name:        name,
					Services:    []epg.Service{s},
					MainService: s,
				})
			}
			continue
		}

		key := fmt.Sprintf("%s-%s", ch.Type, ch.Channel)
		if seen[key] {
			continue
		}
		seen[key] = true
		main := pickMainService(qualifying)
		columns = append(columns, Column{
			Key:         key,
			Name:        firstNonEmpty(main.Name, ch.Name, ch.Channel),
			Services:    qualifying,
			MainService: main,
		})
	}

	sortColumns(columns)
	return columns
}

// qualifyingServices hydrates a channel's services and applies the type and custom filters.
func qualifyingServices(ch epg.Channel, idx serviceIndex, types []int, filter func(epg.Service) bool) []epg.Service {
	var result []epg.Service
	for _, partial := range ch.Services {
		s := idx.lookup(partial)
		if s.Channel == nil {
			s.Channel = &epg.ChannelRef{Type: ch.Type, Channel: ch.Channel}
		}
		if !slices.Contains(types, s.Type) {
			continue
		}
		if filter != nil && !filter(s) {
			continue
		}
		result = append(result, s)
	}
	return result
}

// pickMainService prefers primary services, then the smallest service id.
func pickMainService(services []epg.Service) epg.Service {
	var best epg.Service
	found := false
	for _, s := range services {
		if !s.IsPrimary() {
			continue
		}
		if !found || s.ServiceID < best.ServiceID {
			best, found = s, true
		}
	}
	if found {
		return best
	}
	best = services[0]
	for _, s := range services[1:] {
		if s.ServiceID < best.ServiceID {
			best = s
		}
	}
	return best
}

// orderKey returns the channel-number-like ordering key of a column.
func orderKey(c Column) int {
	if c.MainService.RemoteControlKeyID > 0 {
		return c.MainService.RemoteControlKeyID
	}
	return c.MainService.ServiceID
}

func sortColumns(columns []Column) {
	slices.SortStableFunc(columns, func(a, b Column) int {
		if d := orderKey(a) - orderKey(b); d != 0 {
			return d
		}
		if d := a.MainService.ServiceID - b.MainService.ServiceID; d != 0 {
			return d
		}
		return strings.Compare(a.Key, b.Key)
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// serviceIndex looks up full service records from the partial ones a channel carries.
type serviceIndex struct {
	byKey map[epg.ServiceKey]epg.Service
	byID  map[int]epg.Service
}

func newServiceIndex(services []epg.Service) serviceIndex {
	idx := serviceIndex{
		byKey: make(map[epg.ServiceKey]epg.Service, len(services)),
		byID:  make(map[int]epg.Service, len(services)),
	}
	for _, s := range services {
		idx.byKey[s.Key()] = s
		if _, ok := idx.byID[s.ServiceID]; !ok {
			idx.byID[s.ServiceID] = s
		}
	}
	return idx
}

func (idx serviceIndex) lookup(partial epg.Service) epg.Service {
	if partial.NetworkID != 0 {
		if s, ok := idx.byKey[partial.Key()]; ok {
			return s
		}
		return partial
	}
	if s, ok := idx.byID[partial.ServiceID]; ok {
		return s
	}
	return partial
}
