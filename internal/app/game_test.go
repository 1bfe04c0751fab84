package app

import (
	"image/color"
	"io"
	"log/slog"
	"math"
	"testing"

	"go-hex-conquest/internal/config"
	"go-hex-conquest/internal/event"
	"go-hex-conquest/internal/world"
	"go-hex-conquest/pkg/hexmap"
)

func newTestGame(t *testing.T, seed int64) (*Game, *[]event.Event) {
	t.Helper()
	cfg := config.Default()
	cfg.Seed = seed
	g, err := NewGame(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	var events []event.Event
	g.EventDispatcher.SubscribeAll(event.ListenerFunc(func(e event.Event) {
		events = append(events, e)
	}))
	return g, &events
}

func countEvents(events []event.Event, typ event.EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

// unownedNeighbor returns a tile next to the centre.
func unownedNeighbor(t *testing.T, g *Game) hexmap.Address {
	t.Helper()
	ns := g.World.NeighborsOf(g.World.Center())
	if len(ns) == 0 {
		t.Fatal("centre has no neighbours")
	}
	return ns[0].Address
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestNewGame_InitialState(t *testing.T) {
	g, _ := newTestGame(t, 7)
	if g.World.Len() == 0 {
		t.Fatal("empty world")
	}
	if len(g.Players()) != 3 {
		t.Fatalf("players=%d", len(g.Players()))
	}
	for _, p := range g.Players() {
		if got := g.Economy.Balance(p.ID); got != 1000 {
			t.Fatalf("player %d balance=%v", p.ID, got)
		}
		if got := g.Economy.Income(p.ID); got != 0 {
			t.Fatalf("player %d income=%v", p.ID, got)
		}
	}
	for _, tile := range g.World.Tiles() {
		if tile.Owned() || tile.Units != 0 {
			t.Fatalf("tile %s not pristine", tile.Address)
		}
	}
	if g.Seed() != 7 {
		t.Fatalf("seed=%d", g.Seed())
	}
}

func TestNewGame_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Players = nil
	if _, err := NewGame(cfg, nil); err == nil {
		t.Fatal("expected error for config without players")
	}
}

func TestSpawnUnit_RequiresSelection(t *testing.T) {
	g, events := newTestGame(t, 1)
	if g.Execute(Command{Action: ActionSpawnSoldier}) {
		t.Fatal("spawn without selection succeeded")
	}
	if g.Economy.Balance(0) != 1000 {
		t.Fatalf("balance changed: %v", g.Economy.Balance(0))
	}
	if countEvents(*events, event.ActionRejected) != 1 {
		t.Fatalf("rejections=%d", countEvents(*events, event.ActionRejected))
	}
	rej := (*events)[len(*events)-1].Data.(event.Rejection)
	if rej.Action != "spawn_soldier" || rej.Reason == "" {
		t.Fatalf("rejection=%+v", rej)
	}
}

func TestSpawnUnit_DebitsAndPlaces(t *testing.T) {
	g, events := newTestGame(t, 1)
	center := g.World.Center()
	if !g.Execute(Command{Action: ActionSelect, Tile: center}) {
		t.Fatal("select failed")
	}
	for _, a := range []Action{ActionSpawnSoldier, ActionSpawnArcher, ActionSpawnScout} {
		if !g.Execute(Command{Action: a}) {
			t.Fatalf("%s failed", a)
		}
	}
	if got := g.Economy.Balance(0); got != 1000-100-100-75 {
		t.Fatalf("balance=%v", got)
	}
	tile, _ := g.World.ByAddress(center)
	if tile.Units != 3 {
		t.Fatalf("tile units=%d", tile.Units)
	}
	if g.TotalUnits(0) != 3 || g.TotalUnits(1) != 0 {
		t.Fatalf("totals=%d/%d", g.TotalUnits(0), g.TotalUnits(1))
	}
	units := g.Units()
	if units[1].Type != UnitArcher || units[1].Health != 15 || units[0].ID == units[1].ID {
		t.Fatalf("units=%+v", units)
	}
	if countEvents(*events, event.UnitSpawned) != 3 {
		t.Fatalf("spawn events=%d", countEvents(*events, event.UnitSpawned))
	}
}

func TestSpawnUnit_InsufficientFunds(t *testing.T) {
	g, _ := newTestGame(t, 1)
	g.Economy.Restore(0, 60, 0)
	g.Execute(Command{Action: ActionSelect, Tile: g.World.Center()})
	if g.Execute(Command{Action: ActionSpawnSoldier}) {
		t.Fatal("spawn succeeded with 60 for cost 100")
	}
	if g.Economy.Balance(0) != 60 || g.TotalUnits(0) != 0 {
		t.Fatalf("state changed: balance=%v units=%d", g.Economy.Balance(0), g.TotalUnits(0))
	}
	if g.Execute(Command{Action: ActionSpawnScout}) {
		t.Fatal("scout for 75 succeeded with 60")
	}
}

func TestBuildStructure(t *testing.T) {
	g, events := newTestGame(t, 1)
	center := g.World.Center()
	g.Execute(Command{Action: ActionSelect, Tile: center})
	if !g.Execute(Command{Action: ActionBuildMarket}) {
		t.Fatal("build failed")
	}
	if got := g.Economy.Balance(0); got != 850 {
		t.Fatalf("balance=%v", got)
	}
	s := g.Structures()
	if len(s) != 1 || s[0].Type != StructureMarket || s[0].Health != 60 || s[0].Tile != center {
		t.Fatalf("structures=%+v", s)
	}
	info, ok := g.TileInfo(center)
	if !ok || info.Structures != 1 {
		t.Fatalf("info=%+v ok=%v", info, ok)
	}
	if countEvents(*events, event.StructureBuilt) != 1 {
		t.Fatal("missing StructureBuilt")
	}
}

func TestClaim_TakeoverTransfersTileAndIncome(t *testing.T) {
	g, events := newTestGame(t, 3)
	center := g.World.Center()
	target := unownedNeighbor(t, g)

	g.Execute(Command{Action: ActionSelect, Tile: center})
	g.Execute(Command{Action: ActionSpawnSoldier})
	g.Execute(Command{Action: ActionSelect, Tile: target})
	if !g.Execute(Command{Action: ActionClaim}) {
		t.Fatal("claim failed")
	}
	if got := g.Economy.Balance(0); got != 1000-100-50 {
		t.Fatalf("balance after claim=%v", got)
	}
	tasks := g.Takeovers.Active()
	if len(tasks) != 1 || tasks[0].Attackers != 1 || tasks[0].Target != target {
		t.Fatalf("tasks=%+v", tasks)
	}

	g.Update(4)
	if owner, _ := g.World.OwnerOf(target); owner != world.Unowned {
		t.Fatalf("owner after half=%d", owner)
	}
	g.Update(4)
	if owner, _ := g.World.OwnerOf(target); owner != 0 {
		t.Fatalf("owner after full=%d", owner)
	}
	if len(g.Takeovers.Active()) != 0 {
		t.Fatal("task still active")
	}
	if countEvents(*events, event.TakeoverResolved) != 1 {
		t.Fatal("missing TakeoverResolved")
	}

	tile, _ := g.World.ByAddress(target)
	want := TileIncome(tile.Terrain, tile.Resources, g.Config.Economy.IncomeDivisor)
	if !approx(g.Economy.Income(0), want) {
		t.Fatalf("income=%v want %v", g.Economy.Income(0), want)
	}
	before := g.Economy.Balance(0)
	g.Update(10)
	if !approx(g.Economy.Balance(0), before+want*10) {
		t.Fatalf("balance=%v want %v", g.Economy.Balance(0), before+want*10)
	}

	if g.Execute(Command{Action: ActionClaim}) {
		t.Fatal("claiming an owned tile succeeded")
	}
}

func TestClaim_Rejections(t *testing.T) {
	g, events := newTestGame(t, 3)
	if g.Execute(Command{Action: ActionClaim}) {
		t.Fatal("claim without selection succeeded")
	}
	g.Execute(Command{Action: ActionSelect, Tile: unownedNeighbor(t, g)})
	if g.Execute(Command{Action: ActionClaim}) {
		t.Fatal("claim without troops succeeded")
	}
	if g.Economy.Balance(0) != 1000 {
		t.Fatal("refused claim was charged")
	}
	if countEvents(*events, event.ActionRejected) != 2 {
		t.Fatalf("rejections=%d", countEvents(*events, event.ActionRejected))
	}
}

func TestOwnerChange_MovesIncome(t *testing.T) {
	g, _ := newTestGame(t, 5)
	addr := unownedNeighbor(t, g)
	tile, _ := g.World.ByAddress(addr)
	want := TileIncome(tile.Terrain, tile.Resources, g.Config.Economy.IncomeDivisor)

	g.World.SetOwner(addr, 0)
	g.World.SetOwner(addr, 1)
	if !approx(g.Economy.Income(0), 0) || !approx(g.Economy.Income(1), want) {
		t.Fatalf("income 0=%v 1=%v want 0/%v", g.Economy.Income(0), g.Economy.Income(1), want)
	}
	g.World.ClearOwner(addr)
	if !approx(g.Economy.Income(1), 0) {
		t.Fatalf("income after clear=%v", g.Economy.Income(1))
	}
}

func TestSwitchPlayerAndPercent(t *testing.T) {
	g, events := newTestGame(t, 1)
	for i := 0; i < 3; i++ {
		g.Execute(Command{Action: ActionSwitchPlayer})
	}
	if g.CurrentPlayer() != 0 {
		t.Fatalf("current=%d", g.CurrentPlayer())
	}
	if countEvents(*events, event.PlayerSwitched) != 3 {
		t.Fatal("missing PlayerSwitched")
	}
	g.Execute(Command{Action: ActionSetTakeoverPercent, Value: 250})
	if g.Takeovers.Percent() != 100 {
		t.Fatalf("percent=%d", g.Takeovers.Percent())
	}
	if g.Execute(Command{Action: Action(99)}) {
		t.Fatal("unknown action succeeded")
	}
}

func TestRegenerate_ResetsDerivedState(t *testing.T) {
	g, _ := newTestGame(t, 3)
	g.Execute(Command{Action: ActionSelect, Tile: g.World.Center()})
	g.Execute(Command{Action: ActionSpawnSoldier})
	g.Execute(Command{Action: ActionSelect, Tile: unownedNeighbor(t, g)})
	g.Execute(Command{Action: ActionClaim})
	g.World.SetOwner(g.World.Center(), 0)

	if !g.Execute(Command{Action: ActionRegenerate, Seed: 99}) {
		t.Fatal("regenerate failed")
	}
	if g.Seed() != 99 {
		t.Fatalf("seed=%d", g.Seed())
	}
	if len(g.Units()) != 0 || len(g.Takeovers.Active()) != 0 || g.Economy.Income(0) != 0 {
		t.Fatal("derived state survived regeneration")
	}
	if len(g.World.OwnedBy(0)) != 0 {
		t.Fatal("ownership survived regeneration")
	}
	if _, ok := g.World.Selected(); ok {
		t.Fatal("selection survived regeneration")
	}
}

func TestTileIncome(t *testing.T) {
	tests := []struct {
		terrain world.Terrain
		want    float64
	}{
		{world.TerrainLand, 0.5},
		{world.TerrainMountain, 0.75},
		{world.TerrainWater, 0.25},
	}
	for _, tt := range tests {
		if got := TileIncome(tt.terrain, 50, 100); !approx(got, tt.want) {
			t.Fatalf("%s: got %v want %v", tt.terrain, got, tt.want)
		}
	}
}

func TestParseColor(t *testing.T) {
	c := parseColor("#ff6666")
	if c.R != 0xff || c.G != 0x66 || c.B != 0x66 || c.A != 0xff {
		t.Fatalf("color=%+v", c)
	}
	if formatColor(c) != "#ff6666" {
		t.Fatalf("format=%s", formatColor(c))
	}
	if w := parseColor("red"); w.R != 255 || w.G != 255 || w.B != 255 {
		t.Fatalf("fallback=%+v", w)
	}
}

func TestSnapshotRestore(t *testing.T) {
	g, _ := newTestGame(t, 11)
	center := g.World.Center()
	target := unownedNeighbor(t, g)
	g.Execute(Command{Action: ActionSelect, Tile: center})
	g.Execute(Command{Action: ActionSpawnSoldier})
	g.Execute(Command{Action: ActionBuildTower})
	g.World.SetOwner(center, 0)
	g.Execute(Command{Action: ActionSelect, Tile: target})
	g.Execute(Command{Action: ActionClaim})
	g.Update(2)
	g.Execute(Command{Action: ActionSwitchPlayer})
	g.SetPlayerName(0, "Alice")

	snap := g.Snapshot()

	other, _ := newTestGame(t, 12)
	if err := other.Restore(snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if other.Seed() != 11 || other.World.Len() != g.World.Len() {
		t.Fatalf("seed=%d len=%d", other.Seed(), other.World.Len())
	}
	for _, tile := range g.World.Tiles() {
		got, ok := other.World.ByAddress(tile.Address)
		if !ok {
			t.Fatalf("tile %s missing", tile.Address)
		}
		if got.Terrain != tile.Terrain || got.Resources != tile.Resources || got.Owner != tile.Owner || got.Units != tile.Units {
			t.Fatalf("tile %s differs: %+v vs %+v", tile.Address, got, tile)
		}
	}
	if !approx(other.Economy.Balance(0), g.Economy.Balance(0)) || !approx(other.Economy.Income(0), g.Economy.Income(0)) {
		t.Fatal("economy not restored")
	}
	if other.CurrentPlayer() != 1 || other.GameTime() != 2 {
		t.Fatalf("current=%d time=%v", other.CurrentPlayer(), other.GameTime())
	}
	if p, _ := other.Player(0); p.Name != "Alice" {
		t.Fatalf("name=%s", p.Name)
	}
	if len(other.Units()) != 1 || len(other.Structures()) != 1 {
		t.Fatalf("units=%d structures=%d", len(other.Units()), len(other.Structures()))
	}
	tasks := other.Takeovers.Active()
	if len(tasks) != 1 || !approx(tasks[0].Progress, 0.25) {
		t.Fatalf("tasks=%+v", tasks)
	}
	other.Update(6)
	if owner, _ := other.World.OwnerOf(target); owner != 0 {
		t.Fatalf("restored takeover did not resolve, owner=%d", owner)
	}
}

func TestWorldRefusesOwnersOutsidePlayers(t *testing.T) {
	g, _ := newTestGame(t, 13)
	addr := g.World.Center()
	g.World.SetOwner(addr, len(g.Players()))
	if owner, _ := g.World.OwnerOf(addr); owner != world.Unowned {
		t.Fatalf("owner=%d, want unowned", owner)
	}
	if g.Economy.Income(0) != 0 {
		t.Fatal("refused owner must not move income")
	}
}

func TestSetPlayerColor_NotifiesOnChange(t *testing.T) {
	g, events := newTestGame(t, 14)
	red := color.RGBA{R: 200, A: 255}
	g.SetPlayerColor(1, red)
	g.SetPlayerColor(1, red)
	g.SetPlayerColor(9, red)
	if n := countEvents(*events, event.PlayerUpdated); n != 1 {
		t.Fatalf("PlayerUpdated events=%d, want 1", n)
	}
	p := (*events)[len(*events)-1].Data.(Player)
	if p.ID != 1 || p.Color != red {
		t.Fatalf("payload=%+v", p)
	}
	g.SetPlayerName(1, "Bob")
	if n := countEvents(*events, event.PlayerUpdated); n != 2 {
		t.Fatalf("rename did not notify, events=%d", n)
	}
}
