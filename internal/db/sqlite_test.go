package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/javiermolinar/bangumi/internal/epg"
)

const minute = int64(60_000)

var dayStart = time.Date(2025, 1, 15, 15, 0, 0, 0, time.UTC)

func newTestRepo(t *testing.T) *SQLite {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	repo, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create test repo: %v", err)
	}

	t.Cleanup(func() {
		_ = repo.Close()
	})

	return repo
}

func testDataset() *epg.Dataset {
	free := true
	base := dayStart.UnixMilli()
	return &epg.Dataset{
		Services: []epg.Service{
			{ID: 3273601024, ServiceID: 1024, NetworkID: 32736, Name: "NHK G", Type: 1, RemoteControlKeyID: 1, HasLogoData: true,
				Channel: &epg.ChannelRef{Type: epg.ChannelGR, Channel: "27"}},
			{ServiceID: 1032, NetworkID: 32737, Name: "NHK E", Type: 1, RemoteControlKeyID: 2},
		},
		Channels: []epg.Channel{
			{Type: epg.ChannelGR, Channel: "27", Name: "NHK", Services: []epg.Service{{ServiceID: 1024, NetworkID: 32736}}},
			{Type: epg.ChannelGR, Channel: "26", Services: []epg.Service{{ServiceID: 1032, NetworkID: 32737}}},
			{Type: epg.ChannelBS, Channel: "BS15_0"},
		},
		Programs: []epg.Program{
			{
				ID: 2, EventID: 20, ServiceID: 1032, NetworkID: 32737,
				StartAt: base + 60*minute, Duration: 30 * minute, Name: "Science",
			},
			{
				ID: 1, EventID: 10, ServiceID: 1024, NetworkID: 32736,
				StartAt: base + 60*minute, Duration: 60 * minute, IsFree: &free,
				Name: "News", Description: "Evening news",
				Extended:     map[string]string{"出演者": "Anchor"},
				Genres:       []epg.Genre{{Lv1: 0, Lv2: 1}},
				RelatedItems: []epg.RelatedItem{{Type: epg.RelationShared, NetworkID: 32736, ServiceID: 1025, EventID: 10}},
			},
			{
				ID: 3, EventID: 30, ServiceID: 1024, NetworkID: 32736,
				StartAt: base + 1440*minute, Duration: 30 * minute, Name: "Tomorrow",
			},
		},
	}
}

func TestSaveAndLoadDataset(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SaveDataset(ctx, testDataset()); err != nil {
		t.Fatalf("SaveDataset failed: %v", err)
	}

	ds, err := repo.LoadDataset(ctx)
	if err != nil {
		t.Fatalf("LoadDataset failed: %v", err)
	}

	if len(ds.Services) != 2 {
		t.Fatalf("expected 2 services, got %d", len(ds.Services))
	}
	nhk := ds.Services[0]
	if nhk.Name != "NHK G" || nhk.ID != 3273601024 || !nhk.HasLogoData || nhk.RemoteControlKeyID != 1 {
		t.Errorf("unexpected service: %+v", nhk)
	}
	if nhk.Channel == nil || nhk.Channel.Channel != "27" {
		t.Errorf("expected channel ref GR-27, got %+v", nhk.Channel)
	}
	if ds.Services[1].Channel != nil {
		t.Errorf("expected nil channel ref, got %+v", ds.Services[1].Channel)
	}

	if len(ds.Channels) != 3 {
		t.Fatalf("expected 3 channels, got %d", len(ds.Channels))
	}
	if ds.Channels[0].Channel != "27" || ds.Channels[1].Channel != "26" {
		t.Errorf("expected channel order to be preserved, got %s, %s", ds.Channels[0].Channel, ds.Channels[1].Channel)
	}
	if len(ds.Channels[0].Services) != 1 || ds.Channels[0].Services[0].ServiceID != 1024 {
		t.Errorf("unexpected channel services: %+v", ds.Channels[0].Services)
	}
	if len(ds.Channels[2].Services) != 0 {
		t.Errorf("expected channel without services, got %+v", ds.Channels[2].Services)
	}

	if len(ds.Programs) != 3 {
		t.Fatalf("expected 3 programs, got %d", len(ds.Programs))
	}
	if ds.Programs[0].ID != 1 || ds.Programs[1].ID != 2 {
		t.Errorf("expected programs ordered by start then service, got %d, %d", ds.Programs[0].ID, ds.Programs[1].ID)
	}
}

func TestSaveDataset_ReplacesSnapshot(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SaveDataset(ctx, testDataset()); err != nil {
		t.Fatalf("SaveDataset failed: %v", err)
	}

	smaller := testDataset()
	smaller.Programs = smaller.Programs[:1]
	smaller.Channels = smaller.Channels[:1]
	if err := repo.SaveDataset(ctx, smaller); err != nil {
		t.Fatalf("SaveDataset failed: %v", err)
	}

	ds, err := repo.LoadDataset(ctx)
	if err != nil {
		t.Fatalf("LoadDataset failed: %v", err)
	}
	if len(ds.Programs) != 1 {
		t.Errorf("expected 1 program after replace, got %d", len(ds.Programs))
	}
	if len(ds.Channels) != 1 {
		t.Errorf("expected 1 channel after replace, got %d", len(ds.Channels))
	}
}

func TestSaveDataset_Empty(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.SaveDataset(context.Background(), &epg.Dataset{})
	if !errors.Is(err, epg.ErrEmptyDataset) {
		t.Errorf("expected ErrEmptyDataset, got %v", err)
	}
}

func TestSaveDataset_UnknownChannelTypeRollsBack(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SaveDataset(ctx, testDataset()); err != nil {
		t.Fatalf("SaveDataset failed: %v", err)
	}

	bad := testDataset()
	bad.Channels = append(bad.Channels, epg.Channel{Type: "XX", Channel: "1"})
	if err := repo.SaveDataset(ctx, bad); err == nil {
		t.Fatal("expected error for unknown channel type")
	}

	ds, err := repo.LoadDataset(ctx)
	if err != nil {
		t.Fatalf("LoadDataset failed: %v", err)
	}
	if len(ds.Channels) != 3 || len(ds.Programs) != 3 {
		t.Errorf("expected previous snapshot to survive, got %d channels, %d programs", len(ds.Channels), len(ds.Programs))
	}
}

func TestGetProgram(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SaveDataset(ctx, testDataset()); err != nil {
		t.Fatalf("SaveDataset failed: %v", err)
	}

	p, err := repo.GetProgram(ctx, 1)
	if err != nil {
		t.Fatalf("GetProgram failed: %v", err)
	}
	if p.Name != "News" || p.Description != "Evening news" {
		t.Errorf("unexpected program: %+v", p)
	}
	if p.IsFree == nil || !*p.IsFree {
		t.Errorf("expected isFree true, got %v", p.IsFree)
	}
	if p.Extended["出演者"] != "Anchor" {
		t.Errorf("expected extended to round-trip, got %v", p.Extended)
	}
	if len(p.Genres) != 1 || p.Genres[0].Lv2 != 1 {
		t.Errorf("unexpected genres: %+v", p.Genres)
	}
	if len(p.SharedItems()) != 1 || p.SharedItems()[0].ServiceID != 1025 {
		t.Errorf("unexpected related items: %+v", p.RelatedItems)
	}

	other, err := repo.GetProgram(ctx, 2)
	if err != nil {
		t.Fatalf("GetProgram failed: %v", err)
	}
	if other.IsFree != nil {
		t.Errorf("expected unknown isFree, got %v", *other.IsFree)
	}
	if other.Extended != nil || other.Genres != nil || other.RelatedItems != nil {
		t.Errorf("expected empty optional fields, got %+v", other)
	}
}

func TestGetProgram_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetProgram(context.Background(), 999)
	if !errors.Is(err, epg.ErrProgramNotFound) {
		t.Errorf("expected ErrProgramNotFound, got %v", err)
	}
}

func TestListPrograms(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SaveDataset(ctx, testDataset()); err != nil {
		t.Fatalf("SaveDataset failed: %v", err)
	}

	tests := []struct {
		name string
		from time.Time
		to   time.Time
		ids  []int64
	}{
		{"first day", dayStart, dayStart.Add(24 * time.Hour), []int64{1, 2}},
		{"second day", dayStart.Add(24 * time.Hour), dayStart.Add(48 * time.Hour), []int64{3}},
		{"end is exclusive", dayStart, dayStart.Add(time.Hour), nil},
		{"start is inclusive", dayStart.Add(time.Hour), dayStart.Add(time.Hour + time.Minute), []int64{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			programs, err := repo.ListPrograms(ctx, tt.from, tt.to)
			if err != nil {
				t.Fatalf("ListPrograms failed: %v", err)
			}
			if len(programs) != len(tt.ids) {
				t.Fatalf("expected %d programs, got %d", len(tt.ids), len(programs))
			}
			for i, id := range tt.ids {
				if programs[i].ID != id {
					t.Errorf("program %d: expected id %d, got %d", i, id, programs[i].ID)
				}
			}
		})
	}
}

func TestLastSync(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	last, err := repo.LastSync(ctx)
	if err != nil {
		t.Fatalf("LastSync failed: %v", err)
	}
	if !last.IsZero() {
		t.Errorf("expected zero time before first sync, got %v", last)
	}

	fixed := time.Date(2025, 1, 16, 3, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }
	if err := repo.SaveDataset(ctx, testDataset()); err != nil {
		t.Fatalf("SaveDataset failed: %v", err)
	}

	last, err = repo.LastSync(ctx)
	if err != nil {
		t.Fatalf("LastSync failed: %v", err)
	}
	if !last.Equal(fixed) {
		t.Errorf("expected %v, got %v", fixed, last)
	}
}

func TestNew_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "guide.db")

	repo, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := repo.SaveDataset(context.Background(), testDataset()); err != nil {
		t.Fatalf("SaveDataset failed: %v", err)
	}
	_ = repo.Close()

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("reopening failed: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	ds, err := reopened.LoadDataset(context.Background())
	if err != nil {
		t.Fatalf("LoadDataset failed: %v", err)
	}
	if len(ds.Programs) != 3 {
		t.Errorf("expected 3 programs after reopen, got %d", len(ds.Programs))
	}
}

func TestSaveDataset_ProgramsWithoutID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := dayStart.UnixMilli()
	ds := testDataset()
	ds.Programs = []epg.Program{
		{ServiceID: 1024, NetworkID: 32736, StartAt: base, Duration: 30 * minute, Name: "Opening"},
		{ServiceID: 1024, NetworkID: 32736, StartAt: base + 30*minute, Duration: 30 * minute, Name: "Middle"},
		{ServiceID: 1024, NetworkID: 32736, StartAt: base + 60*minute, Duration: 30 * minute, Name: "Closing"},
		{ID: 7, ServiceID: 1032, NetworkID: 32737, StartAt: base, Duration: 30 * minute, Name: "Keyed"},
	}
	if err := repo.SaveDataset(ctx, ds); err != nil {
		t.Fatalf("SaveDataset failed: %v", err)
	}

	loaded, err := repo.LoadDataset(ctx)
	if err != nil {
		t.Fatalf("LoadDataset failed: %v", err)
	}
	var names []string
	for _, p := range loaded.Programs {
		names = append(names, p.Name)
	}
	want := []string{"Opening", "Keyed", "Middle", "Closing"}
	if len(names) != len(want) {
		t.Fatalf("expected programs %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("program %d: expected %q, got %q", i, want[i], names[i])
		}
	}
	if loaded.Programs[0].ID != 0 {
		t.Errorf("expected id-less program to load with zero id, got %d", loaded.Programs[0].ID)
	}

	got, err := repo.GetProgram(ctx, 7)
	if err != nil || got.Name != "Keyed" {
		t.Errorf("GetProgram(7) = %+v, %v", got, err)
	}
	if _, err := repo.GetProgram(ctx, 0); !errors.Is(err, epg.ErrProgramNotFound) {
		t.Errorf("GetProgram(0): expected ErrProgramNotFound, got %v", err)
	}
}

func TestLastSync_DistinguishesSyncsWithinASecond(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := time.Date(2025, 1, 16, 3, 0, 0, 100_000_000, time.UTC)
	second := first.Add(500 * time.Millisecond)

	var seen []time.Time
	for _, at := range []time.Time{first, second} {
		repo.now = func() time.Time { return at }
		if err := repo.SaveDataset(ctx, testDataset()); err != nil {
			t.Fatalf("SaveDataset failed: %v", err)
		}
		last, err := repo.LastSync(ctx)
		if err != nil {
			t.Fatalf("LastSync failed: %v", err)
		}
		if !last.Equal(at) {
			t.Errorf("expected %v, got %v", at, last)
		}
		seen = append(seen, last)
	}
	if seen[0].Equal(seen[1]) {
		t.Errorf("syncs half a second apart report the same time %v", seen[0])
	}
}

func TestNew_UpgradesLegacyProgramsTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	raw, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("opening raw db: %v", err)
	}
	_, err = raw.Exec(`CREATE TABLE programs (id INTEGER PRIMARY KEY, name TEXT);
		INSERT INTO programs (id, name) VALUES (1, 'stale')`)
	if err != nil {
		t.Fatalf("creating legacy table: %v", err)
	}
	_ = raw.Close()

	repo, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer func() { _ = repo.Close() }()

	ds := testDataset()
	ds.Programs[0].ID = 0
	ds.Programs[2].ID = 0
	if err := repo.SaveDataset(context.Background(), ds); err != nil {
		t.Fatalf("SaveDataset failed: %v", err)
	}
	loaded, err := repo.LoadDataset(context.Background())
	if err != nil {
		t.Fatalf("LoadDataset failed: %v", err)
	}
	if len(loaded.Programs) != 3 {
		t.Errorf("expected 3 programs, got %d", len(loaded.Programs))
	}
}
