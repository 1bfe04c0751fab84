// internal/app/units.go
package app

import (
	"errors"

	"github.com/google/uuid"

	"go-hex-conquest/internal/event"
	"go-hex-conquest/internal/takeover"
	"go-hex-conquest/pkg/hexmap"
)

type UnitType string

const (
	UnitSoldier UnitType = "soldier"
	UnitArcher  UnitType = "archer"
	UnitScout   UnitType = "scout"
)

type StructureType string

const (
	StructureBarracks StructureType = "barracks"
	StructureMarket   StructureType = "market"
	StructureTower    StructureType = "tower"
)

// Unit is one trained unit standing on a tile.
type Unit struct {
	ID        string         `json:"id"`
	Owner     int            `json:"owner"`
	Type      UnitType       `json:"type"`
	Health    int            `json:"health"`
	MaxHealth int            `json:"max_health"`
	Tile      hexmap.Address `json:"tile"`
}

// Structure is a building raised on a tile.
type Structure struct {
	ID        string         `json:"id"`
	Owner     int            `json:"owner"`
	Type      StructureType  `json:"type"`
	Health    int            `json:"health"`
	MaxHealth int            `json:"max_health"`
	Tile      hexmap.Address `json:"tile"`
}

func (g *Game) unitCost(t UnitType) (float64, int, bool) {
	c, h := g.Config.Costs, g.Config.Health
	switch t {
	case UnitSoldier:
		return c.Soldier, h.Soldier, true
	case UnitArcher:
		return c.Archer, h.Archer, true
	case UnitScout:
		return c.Scout, h.Scout, true
	}
	return 0, 0, false
}

func (g *Game) structureCost(t StructureType) (float64, int, bool) {
	c, h := g.Config.Costs, g.Config.Health
	switch t {
	case StructureBarracks:
		return c.Barracks, h.Barracks, true
	case StructureMarket:
		return c.Market, h.Market, true
	case StructureTower:
		return c.Tower, h.Tower, true
	}
	return 0, 0, false
}

func spawnAction(t UnitType) Action {
	switch t {
	case UnitArcher:
		return ActionSpawnArcher
	case UnitScout:
		return ActionSpawnScout
	}
	return ActionSpawnSoldier
}

func buildAction(t StructureType) Action {
	switch t {
	case StructureMarket:
		return ActionBuildMarket
	case StructureTower:
		return ActionBuildTower
	}
	return ActionBuildBarracks
}

// SpawnUnit trains a unit of type t on the selected tile for the current
// player.
func (g *Game) SpawnUnit(t UnitType) bool {
	action := spawnAction(t)
	cost, health, ok := g.unitCost(t)
	if !ok {
		g.reject(action, "unknown unit type "+string(t))
		return false
	}
	tile, ok := g.World.Selected()
	if !ok {
		g.reject(action, "no tile selected")
		return false
	}
	player := g.currentPlayer
	if !g.Economy.Debit(player, cost) {
		g.reject(action, "not enough resources")
		return false
	}

	unit := &Unit{
		ID:        uuid.NewString(),
		Owner:     player,
		Type:      t,
		Health:    health,
		MaxHealth: health,
		Tile:      tile.Address,
	}
	g.units = append(g.units, unit)
	g.World.AddUnits(tile.Address, 1)
	g.EventDispatcher.Dispatch(event.Event{Type: event.UnitSpawned, Data: *unit})
	g.log.Debug("unit spawned", "player", player, "type", string(t), "tile", tile.Address.String())
	return true
}

// BuildStructure raises a structure of type t on the selected tile.
func (g *Game) BuildStructure(t StructureType) bool {
	action := buildAction(t)
	cost, health, ok := g.structureCost(t)
	if !ok {
		g.reject(action, "unknown structure type "+string(t))
		return false
	}
	tile, ok := g.World.Selected()
	if !ok {
		g.reject(action, "no tile selected")
		return false
	}
	player := g.currentPlayer
	if !g.Economy.Debit(player, cost) {
		g.reject(action, "not enough resources")
		return false
	}

	s := &Structure{
		ID:        uuid.NewString(),
		Owner:     player,
		Type:      t,
		Health:    health,
		MaxHealth: health,
		Tile:      tile.Address,
	}
	g.structures = append(g.structures, s)
	g.EventDispatcher.Dispatch(event.Event{Type: event.StructureBuilt, Data: *s})
	g.log.Debug("structure built", "player", player, "type", string(t), "tile", tile.Address.String())
	return true
}

// InitiateTakeover starts a takeover of the selected tile by the current
// player.
func (g *Game) InitiateTakeover() bool {
	tile, ok := g.World.Selected()
	if !ok {
		g.reject(ActionClaim, "no tile selected")
		return false
	}
	task, err := g.Takeovers.Initiate(g.currentPlayer, tile.Address)
	if err != nil {
		reason := err.Error()
		if errors.Is(err, takeover.ErrInsufficientFunds) {
			reason = "not enough resources to claim tile"
		}
		g.reject(ActionClaim, reason)
		return false
	}
	g.log.Info("takeover started",
		"task", task.ID,
		"player", task.Player,
		"tile", task.Target.String(),
		"attackers", task.Attackers,
		"eta", task.Remaining())
	return true
}

// TotalUnits counts every unit the player owns. It makes Game a
// takeover.Garrison.
func (g *Game) TotalUnits(player int) int {
	n := 0
	for _, u := range g.units {
		if u.Owner == player {
			n++
		}
	}
	return n
}

// Units returns copies of all units.
func (g *Game) Units() []Unit {
	out := make([]Unit, len(g.units))
	for i, u := range g.units {
		out[i] = *u
	}
	return out
}

// Structures returns copies of all structures.
func (g *Game) Structures() []Structure {
	out := make([]Structure, len(g.structures))
	for i, s := range g.structures {
		out[i] = *s
	}
	return out
}

// TileInfo is the read model the info panel shows for one tile.
type TileInfo struct {
	Address    string
	Terrain    string
	Resources  float64
	Owner      int
	OwnerName  string
	Units      int
	Neighbors  int
	Structures int
	Income     float64
}

// TileInfo describes addr, or reports false if it is not in the world.
func (g *Game) TileInfo(addr hexmap.Address) (TileInfo, bool) {
	tile, ok := g.World.ByAddress(addr)
	if !ok {
		return TileInfo{}, false
	}
	info := TileInfo{
		Address:   addr.String(),
		Terrain:   string(tile.Terrain),
		Resources: tile.Resources,
		Owner:     tile.Owner,
		OwnerName: "None",
		Units:     tile.Units,
		Neighbors: len(g.World.NeighborsOf(addr)),
		Income:    TileIncome(tile.Terrain, tile.Resources, g.Config.Economy.IncomeDivisor),
	}
	if p, ok := g.Player(tile.Owner); ok {
		info.OwnerName = p.Name
	}
	for _, s := range g.structures {
		if s.Tile == addr {
			info.Structures++
		}
	}
	return info, true
}
