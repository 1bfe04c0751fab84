package persistence

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go-hex-conquest/internal/takeover"
	"go-hex-conquest/pkg/hexmap"
)

func sampleSnapshot() Snapshot {
	return Snapshot{
		Seed:            42,
		GameTime:        12.5,
		CurrentPlayer:   1,
		TakeoverPercent: 50,
		Players: []PlayerRecord{
			{ID: 0, Name: "Player 1", Color: "#ff6666", Balance: 850, Income: 0.75},
			{ID: 1, Name: "Player 2", Color: "#66a3ff", Balance: 1000},
		},
		Tiles: []TileRecord{{Address: hexmap.Address(0x8228308ffffffff), Owner: 0, Units: 2}},
		Units: []UnitRecord{{ID: "u1", Owner: 0, Type: "soldier", Health: 20, MaxHealth: 20, Tile: hexmap.Address(0x8228308ffffffff)}},
		Tasks: []takeover.Task{{ID: 3, Target: hexmap.Address(0x822837fffffffff), Player: 0, Attackers: 1, Progress: 0.25}},
	}
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "saves", "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	want := sampleSnapshot()

	if err := s.Save(ctx, "slot1", want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(ctx, "slot1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Seed != want.Seed || got.CurrentPlayer != want.CurrentPlayer || got.Version != SnapshotVersion {
		t.Fatalf("header mismatch: %+v", got)
	}
	if len(got.Players) != 2 || got.Players[0].Balance != 850 || got.Players[0].Income != 0.75 {
		t.Fatalf("players=%+v", got.Players)
	}
	if len(got.Tiles) != 1 || got.Tiles[0] != want.Tiles[0] {
		t.Fatalf("tiles=%+v", got.Tiles)
	}
	if len(got.Tasks) != 1 || got.Tasks[0].Target != want.Tasks[0].Target {
		t.Fatalf("tasks=%+v", got.Tasks)
	}
}

func TestStore_SaveOverwritesAndLists(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	snap := sampleSnapshot()
	if err := s.Save(ctx, "slot1", snap); err != nil {
		t.Fatalf("Save: %v", err)
	}
	snap.Seed = 7
	if err := s.Save(ctx, "slot1", snap); err != nil {
		t.Fatalf("Save again: %v", err)
	}
	got, err := s.Load(ctx, "slot1")
	if err != nil || got.Seed != 7 {
		t.Fatalf("seed=%d err=%v", got.Seed, err)
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Name != "slot1" || list[0].Size == 0 {
		t.Fatalf("list=%+v", list)
	}
}

func TestStore_LoadMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Load(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}

func TestStore_DetectsTampering(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	if err := s.Save(ctx, "slot1", sampleSnapshot()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := s.db.ExecContext(ctx, `UPDATE saves SET digest = 'bad' WHERE name = 'slot1'`); err != nil {
		t.Fatalf("tamper: %v", err)
	}
	if _, err := s.Load(ctx, "slot1"); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("err=%v, want ErrCorrupt", err)
	}
}
