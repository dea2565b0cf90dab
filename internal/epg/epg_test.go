package epg

import (
	"encoding/json"
	"testing"
)

func TestChannelType_Valid(t *testing.T) {
	for _, ct := range []ChannelType{ChannelGR, ChannelBS, ChannelCS, ChannelSKY, ChannelBS4K} {
		if !ct.Valid() {
			t.Errorf("expected %s to be valid", ct)
		}
	}
	if ChannelType("XX").Valid() {
		t.Error("expected XX to be invalid")
	}
}

func TestServiceKey_Matches(t *testing.T) {
	tests := []struct {
		name      string
		key       ServiceKey
		networkID int
		serviceID int
		want      bool
	}{
		{"exact", ServiceKey{NetworkID: 4, ServiceID: 101}, 4, 101, true},
		{"other network", ServiceKey{NetworkID: 4, ServiceID: 101}, 6, 101, false},
		{"other service", ServiceKey{NetworkID: 4, ServiceID: 101}, 4, 102, false},
		{"key without network", ServiceKey{ServiceID: 101}, 6, 101, true},
		{"record without network", ServiceKey{NetworkID: 4, ServiceID: 101}, 0, 101, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.Matches(tt.networkID, tt.serviceID); got != tt.want {
				t.Errorf("Matches(%d, %d) = %v, want %v", tt.networkID, tt.serviceID, got, tt.want)
			}
		})
	}
}

func TestServiceKey_String(t *testing.T) {
	if got := (ServiceKey{ServiceID: 101}).String(); got != "101" {
		t.Errorf("expected 101, got %s", got)
	}
	if got := (ServiceKey{NetworkID: 4, ServiceID: 101}).String(); got != "4:101" {
		t.Errorf("expected 4:101, got %s", got)
	}
}

func TestProgram_Times(t *testing.T) {
	p := Program{StartAt: 1_736_900_000_000, Duration: 1_800_000}

	if p.EndAt() != 1_736_901_800_000 {
		t.Errorf("unexpected EndAt %d", p.EndAt())
	}
	if got := p.End().Sub(p.Start()).Minutes(); got != 30 {
		t.Errorf("expected 30 minutes, got %v", got)
	}
}

func TestProgram_Free(t *testing.T) {
	yes, no := true, false

	if !(Program{}).Free() {
		t.Error("expected unknown to be free")
	}
	if !(Program{IsFree: &yes}).Free() {
		t.Error("expected isFree=true to be free")
	}
	if (Program{IsFree: &no}).Free() {
		t.Error("expected isFree=false to be paid")
	}
}

func TestProgram_SharedItems(t *testing.T) {
	p := Program{RelatedItems: []RelatedItem{
		{Type: "shared", ServiceID: 102, EventID: 1},
		{Type: "relay", ServiceID: 103, EventID: 2},
		{Type: "movement", ServiceID: 104, EventID: 3},
	}}

	shared := p.SharedItems()
	if len(shared) != 1 || shared[0].ServiceID != 102 {
		t.Errorf("expected only the shared item, got %+v", shared)
	}
}

func TestProgram_PrimaryGenre(t *testing.T) {
	if _, ok := (Program{}).PrimaryGenre(); ok {
		t.Error("expected no genre")
	}
	g, ok := (Program{Genres: []Genre{{Lv1: 7}, {Lv1: 3}}}).PrimaryGenre()
	if !ok || GenreName(g.Lv1) != "Anime" {
		t.Errorf("expected Anime, got %+v", g)
	}
}

func TestFilterValid(t *testing.T) {
	programs := []Program{
		{ID: 1, StartAt: 1000, Duration: 60_000},
		{ID: 2, StartAt: 0, Duration: 60_000},
		{ID: 3, StartAt: 1000, Duration: 0},
		{ID: 4, StartAt: 1000, Duration: -1},
	}

	valid := FilterValid(programs)
	if len(valid) != 1 || valid[0].ID != 1 {
		t.Errorf("expected only program 1, got %+v", valid)
	}
}

func TestDataset_Empty(t *testing.T) {
	var nilDataset *Dataset
	if !nilDataset.Empty() {
		t.Error("expected nil dataset to be empty")
	}
	if !(&Dataset{Programs: []Program{{ID: 1}}}).Empty() {
		t.Error("expected dataset without reference data to be empty")
	}
	if (&Dataset{Services: []Service{{ServiceID: 1}}}).Empty() {
		t.Error("expected dataset with services to be non-empty")
	}
}

func TestProgram_DecodesSourceJSON(t *testing.T) {
	data := `{
		"id": 327360102400123,
		"eventId": 123,
		"serviceId": 1024,
		"networkId": 32736,
		"startAt": 1736953200000,
		"duration": 1800000,
		"isFree": false,
		"name": "News",
		"extended": {"Cast": "Anchor"},
		"genres": [{"lv1": 0, "lv2": 1, "un1": 15, "un2": 15}],
		"relatedItems": [{"type": "shared", "serviceId": 1025, "eventId": 123}]
	}`

	var p Program
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Free() {
		t.Error("expected paid program")
	}
	if p.Extended["Cast"] != "Anchor" || len(p.Genres) != 1 || len(p.SharedItems()) != 1 {
		t.Errorf("unexpected decode: %+v", p)
	}
}
