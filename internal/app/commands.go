// internal/app/commands.go
package app

import (
	"go-hex-conquest/internal/event"
	"go-hex-conquest/pkg/hexmap"
)

// Action tags a player intent coming from the input layer.
type Action int

const (
	ActionSelect Action = iota
	ActionHover
	ActionClaim
	ActionSpawnSoldier
	ActionSpawnArcher
	ActionSpawnScout
	ActionBuildBarracks
	ActionBuildMarket
	ActionBuildTower
	ActionSwitchPlayer
	ActionSetTakeoverPercent
	ActionRegenerate
)

var actionNames = map[Action]string{
	ActionSelect:             "select",
	ActionHover:              "hover",
	ActionClaim:              "claim",
	ActionSpawnSoldier:       "spawn_soldier",
	ActionSpawnArcher:        "spawn_archer",
	ActionSpawnScout:         "spawn_scout",
	ActionBuildBarracks:      "build_barracks",
	ActionBuildMarket:        "build_market",
	ActionBuildTower:         "build_tower",
	ActionSwitchPlayer:       "switch_player",
	ActionSetTakeoverPercent: "set_takeover_percent",
	ActionRegenerate:         "regenerate",
}

func (a Action) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "unknown"
}

// Command is one intent. Tile is used by select and hover, Value by the
// takeover percentage, Seed by regenerate.
type Command struct {
	Action Action
	Tile   hexmap.Address
	Value  int
	Seed   int64
}

type handler func(cmd Command) bool

func (g *Game) commandHandlers() map[Action]handler {
	return map[Action]handler{
		ActionSelect: func(cmd Command) bool { return g.World.Select(cmd.Tile) },
		ActionHover: func(cmd Command) bool {
			g.World.SetHover(cmd.Tile)
			return true
		},
		ActionClaim:         func(Command) bool { return g.InitiateTakeover() },
		ActionSpawnSoldier:  func(Command) bool { return g.SpawnUnit(UnitSoldier) },
		ActionSpawnArcher:   func(Command) bool { return g.SpawnUnit(UnitArcher) },
		ActionSpawnScout:    func(Command) bool { return g.SpawnUnit(UnitScout) },
		ActionBuildBarracks: func(Command) bool { return g.BuildStructure(StructureBarracks) },
		ActionBuildMarket:   func(Command) bool { return g.BuildStructure(StructureMarket) },
		ActionBuildTower:    func(Command) bool { return g.BuildStructure(StructureTower) },
		ActionSwitchPlayer: func(Command) bool {
			g.SwitchPlayer()
			return true
		},
		ActionSetTakeoverPercent: func(cmd Command) bool {
			g.Takeovers.SetPercent(cmd.Value)
			return true
		},
		ActionRegenerate: func(cmd Command) bool {
			if err := g.World.Regenerate(cmd.Seed); err != nil {
				g.log.Error("regenerate failed", "err", err)
				return false
			}
			return true
		},
	}
}

// Execute dispatches a command to its handler and reports whether the action
// took effect.
func (g *Game) Execute(cmd Command) bool {
	h, ok := g.handlers[cmd.Action]
	if !ok {
		g.log.Warn("unknown action", "action", int(cmd.Action))
		return false
	}
	return h(cmd)
}

// reject logs a refused action and publishes it. Refusals are normal
// gameplay outcomes, never errors.
func (g *Game) reject(action Action, reason string) {
	g.log.Info("action rejected", "action", action.String(), "player", g.currentPlayer, "reason", reason)
	g.EventDispatcher.Dispatch(event.Event{
		Type: event.ActionRejected,
		Data: event.Rejection{Action: action.String(), Player: g.currentPlayer, Reason: reason},
	})
}
