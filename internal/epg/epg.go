// Package epg defines the broadcast reference data and program records for bangumi.
package epg

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors.
var (
	ErrProgramNotFound = errors.New("program not found")
	ErrEmptyDataset    = errors.New("dataset has no services or channels")
)

// ChannelType is the broadcast band a channel belongs to.
type ChannelType string

const (
	ChannelGR   ChannelType = "GR"
	ChannelBS   ChannelType = "BS"
	ChannelCS   ChannelType = "CS"
	ChannelSKY  ChannelType = "SKY"
	ChannelBS4K ChannelType = "BS4K"
)

// Valid returns true if the channel type is one of the known bands.
func (t ChannelType) Valid() bool {
	switch t {
	case ChannelGR, ChannelBS, ChannelCS, ChannelSKY, ChannelBS4K:
		return true
	default:
		return false
	}
}

// Service types as carried in the service descriptor.
const (
	ServiceTypeTV    = 0x01
	ServiceTypeAudio = 0x02
	ServiceTypeData  = 0xC0
)

// RelationShared marks a related item as the same broadcast on another service.
const RelationShared = "shared"

// ChannelRef points from a service back to its tuner channel.
type ChannelRef struct {
	Type    ChannelType `json:"type"`
	Channel string      `json:"channel"`
}

// Service is a tunable broadcast source.
type Service struct {
	ID                 int64       `json:"id,omitempty"`
	ServiceID          int         `json:"serviceId"`
	NetworkID          int         `json:"networkId,omitempty"`
	Name               string      `json:"name"`
	Type               int         `json:"type"`
	LogoID             int         `json:"logoId,omitempty"`
	RemoteControlKeyID int         `json:"remoteControlKeyId,omitempty"`
	HasLogoData        bool        `json:"hasLogoData,omitempty"`
	Channel            *ChannelRef `json:"channel,omitempty"`
}

// Key returns the network-scoped identity of the service.
func (s Service) Key() ServiceKey {
	return ServiceKey{NetworkID: s.NetworkID, ServiceID: s.ServiceID}
}

// IsPrimary returns true for primary (TV) services.
func (s Service) IsPrimary() bool {
	return s.Type == ServiceTypeTV
}

// Channel groups the services carried on one tuner frequency.
type Channel struct {
	Type     ChannelType `json:"type"`
	Channel  string      `json:"channel"`
	Name     string      `json:"name,omitempty"`
	Services []Service   `json:"services"`
}

// ServiceKey identifies a service within a network.
// A zero NetworkID means the network is unknown.
type ServiceKey struct {
	NetworkID int
	ServiceID int
}

// Matches reports whether a record with the given ids belongs to this service.
// Network ids are only compared when both sides carry one.
func (k ServiceKey) Matches(networkID, serviceID int) bool {
	if k.ServiceID != serviceID {
		return false
	}
	return k.NetworkID == 0 || networkID == 0 || k.NetworkID == networkID
}

func (k ServiceKey) String() string {
	if k.NetworkID == 0 {
		return fmt.Sprintf("%d", k.ServiceID)
	}
	return fmt.Sprintf("%d:%d", k.NetworkID, k.ServiceID)
}

// Genre is one ARIB content descriptor entry.
type Genre struct {
	Lv1 int `json:"lv1"`
	Lv2 int `json:"lv2"`
	Un1 int `json:"un1,omitempty"`
	Un2 int `json:"un2,omitempty"`
}

// RelatedItem cross-references another event.
type RelatedItem struct {
	Type      string `json:"type"`
	NetworkID int    `json:"networkId,omitempty"`
	ServiceID int    `json:"serviceId"`
	EventID   int    `json:"eventId"`
}

// Program is one broadcast record as delivered by the data source.
// StartAt is epoch milliseconds and Duration is milliseconds.
type Program struct {
	ID           int64             `json:"id"`
	EventID      int               `json:"eventId,omitempty"`
	ServiceID    int               `json:"serviceId"`
	NetworkID    int               `json:"networkId,omitempty"`
	StartAt      int64             `json:"startAt"`
	Duration     int64             `json:"duration"`
	IsFree       *bool             `json:"isFree,omitempty"`
	Name         string            `json:"name,omitempty"`
	Description  string            `json:"description,omitempty"`
	Extended     map[string]string `json:"extended,omitempty"`
	Genres       []Genre           `json:"genres,omitempty"`
	RelatedItems []RelatedItem     `json:"relatedItems,omitempty"`
}

// EndAt returns the end instant in epoch milliseconds.
func (p Program) EndAt() int64 {
	return p.StartAt + p.Duration
}

// Start returns the start instant.
func (p Program) Start() time.Time {
	return time.UnixMilli(p.StartAt)
}

// End returns the end instant.
func (p Program) End() time.Time {
	return time.UnixMilli(p.EndAt())
}

// PrimaryGenre returns the first genre, if any.
func (p Program) PrimaryGenre() (Genre, bool) {
	if len(p.Genres) == 0 {
		return Genre{}, false
	}
	return p.Genres[0], true
}

// Free reports whether the program is free to air. Unknown counts as free.
func (p Program) Free() bool {
	return p.IsFree == nil || *p.IsFree
}

// SharedItems returns the related items that mark a simulcast.
func (p Program) SharedItems() []RelatedItem {
	var shared []RelatedItem
	for _, item := range p.RelatedItems {
		if item.Type == RelationShared {
			shared = append(shared, item)
		}
	}
	return shared
}

// FilterValid drops records without a start instant or with a non-positive duration.
func FilterValid(programs []Program) []Program {
	result := make([]Program, 0, len(programs))
	for _, p := range programs {
		if p.StartAt == 0 || p.Duration <= 0 {
			continue
		}
		result = append(result, p)
	}
	return result
}

// Dataset is a snapshot of one data source.
type Dataset struct {
	Services []Service `json:"services"`
	Channels []Channel `json:"channels"`
	Programs []Program `json:"programs"`
}

// Empty returns true if there is nothing to build columns from.
func (d *Dataset) Empty() bool {
	return d == nil || (len(d.Services) == 0 && len(d.Channels) == 0)
}
