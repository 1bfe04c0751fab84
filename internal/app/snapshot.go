// internal/app/snapshot.go
package app

import (
	"fmt"
	"image/color"

	"go-hex-conquest/internal/persistence"
	"go-hex-conquest/internal/world"
)

func formatColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Snapshot captures the session. Terrain is left out; it is rebuilt from the
// seed on restore.
func (g *Game) Snapshot() persistence.Snapshot {
	snap := persistence.Snapshot{
		Version:         persistence.SnapshotVersion,
		Seed:            g.seed,
		GameTime:        g.gameTime,
		CurrentPlayer:   g.currentPlayer,
		TakeoverPercent: g.Takeovers.Percent(),
		Tasks:           g.Takeovers.Active(),
	}
	for _, p := range g.players {
		snap.Players = append(snap.Players, persistence.PlayerRecord{
			ID:      p.ID,
			Name:    p.Name,
			Color:   formatColor(p.Color),
			Balance: g.Economy.Balance(p.ID),
			Income:  g.Economy.Income(p.ID),
		})
	}
	for _, t := range g.World.Tiles() {
		if !t.Owned() && t.Units == 0 {
			continue
		}
		snap.Tiles = append(snap.Tiles, persistence.TileRecord{Address: t.Address, Owner: t.Owner, Units: t.Units})
	}
	for _, u := range g.units {
		snap.Units = append(snap.Units, persistence.UnitRecord{
			ID: u.ID, Owner: u.Owner, Type: string(u.Type),
			Health: u.Health, MaxHealth: u.MaxHealth, Tile: u.Tile,
		})
	}
	for _, s := range g.structures {
		snap.Structures = append(snap.Structures, persistence.StructureRecord{
			ID: s.ID, Owner: s.Owner, Type: string(s.Type),
			Health: s.Health, MaxHealth: s.MaxHealth, Tile: s.Tile,
		})
	}
	return snap
}

// Restore rebuilds the session from snap. The world is regenerated from the
// saved seed first, which clears every derived table, and the saved state is
// then laid over it.
func (g *Game) Restore(snap persistence.Snapshot) error {
	if len(snap.Players) != len(g.players) {
		return fmt.Errorf("save has %d players, game has %d", len(snap.Players), len(g.players))
	}
	if err := g.World.Regenerate(snap.Seed); err != nil {
		return fmt.Errorf("failed to regenerate world: %w", err)
	}

	for _, rec := range snap.Tiles {
		if _, ok := g.World.ByAddress(rec.Address); !ok {
			g.log.Warn("save references unknown tile", "tile", rec.Address.String())
			continue
		}
		if _, ok := g.Player(rec.Owner); ok {
			g.World.SetOwner(rec.Address, rec.Owner)
		} else if rec.Owner != world.Unowned {
			g.log.Warn("save references unknown player", "tile", rec.Address.String(), "owner", rec.Owner)
		}
		g.World.SetUnits(rec.Address, rec.Units)
	}
	for _, rec := range snap.Players {
		g.SetPlayerName(rec.ID, rec.Name)
		g.SetPlayerColor(rec.ID, parseColor(rec.Color))
		g.Economy.Restore(rec.ID, rec.Balance, rec.Income)
	}
	for _, rec := range snap.Units {
		g.units = append(g.units, &Unit{
			ID: rec.ID, Owner: rec.Owner, Type: UnitType(rec.Type),
			Health: rec.Health, MaxHealth: rec.MaxHealth, Tile: rec.Tile,
		})
	}
	for _, rec := range snap.Structures {
		g.structures = append(g.structures, &Structure{
			ID: rec.ID, Owner: rec.Owner, Type: StructureType(rec.Type),
			Health: rec.Health, MaxHealth: rec.MaxHealth, Tile: rec.Tile,
		})
	}

	g.Takeovers.SetPercent(snap.TakeoverPercent)
	g.Takeovers.Restore(snap.Tasks)
	if snap.CurrentPlayer >= 0 && snap.CurrentPlayer < len(g.players) {
		g.currentPlayer = snap.CurrentPlayer
	}
	g.gameTime = snap.GameTime

	g.log.Info("session restored",
		"seed", snap.Seed,
		"tiles", len(snap.Tiles),
		"units", len(snap.Units),
		"tasks", len(g.Takeovers.Active()))
	return nil
}
