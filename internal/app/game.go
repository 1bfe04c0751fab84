// internal/app/game.go
package app

import (
	"fmt"
	"image/color"
	"log/slog"
	"strconv"
	"strings"

	"go-hex-conquest/internal/config"
	"go-hex-conquest/internal/economy"
	"go-hex-conquest/internal/event"
	"go-hex-conquest/internal/takeover"
	"go-hex-conquest/internal/utils"
	"go-hex-conquest/internal/world"
	"go-hex-conquest/pkg/hexmap"
)

// Player is the presentation identity of a player. Balances live in the
// Economy.
type Player struct {
	ID    int
	Name  string
	Color color.RGBA
}

// Game holds the main game state and logic.
type Game struct {
	Config          config.Config
	World           *world.World
	Economy         *economy.Economy
	Takeovers       *takeover.Scheduler
	EventDispatcher *event.Dispatcher
	Rng             *utils.PRNGService

	log           *slog.Logger
	players       []Player
	currentPlayer int
	units         []*Unit
	structures    []*Structure
	handlers      map[Action]handler
	gameTime      float64
	seed          int64
}

// NewGame initializes a new game instance. A nil logger falls back to
// slog.Default.
func NewGame(cfg config.Config, logger *slog.Logger) (*Game, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	dispatcher := event.NewDispatcher()
	rng := utils.NewPRNGService(cfg.Seed)
	w, err := world.New(cfg.World, hexmap.H3Indexer{}, rng, dispatcher)
	if err != nil {
		return nil, fmt.Errorf("failed to generate world: %w", err)
	}
	w.SetPlayerCount(len(cfg.Players))

	g := &Game{
		Config:          cfg,
		World:           w,
		Economy:         economy.New(len(cfg.Players), cfg.Economy.StartingBalance, dispatcher),
		EventDispatcher: dispatcher,
		Rng:             rng,
		log:             logger,
		seed:            rng.Seed(),
	}
	g.Takeovers = takeover.New(cfg.Takeover, cfg.Costs.Claim, w, g, g.Economy, dispatcher)
	g.initPlayers()
	g.handlers = g.commandHandlers()

	listener := &GameEventListener{game: g}
	dispatcher.Subscribe(event.TileOwnerChanged, listener)
	dispatcher.Subscribe(event.WorldRegenerated, listener)
	dispatcher.Subscribe(event.TakeoverResolved, listener)

	logger.Info("world generated",
		"tiles", w.Len(),
		"center", w.Center().String(),
		"resolution", cfg.World.Resolution,
		"ring_radius", cfg.World.RingRadius,
		"seed", g.seed)
	return g, nil
}

func (g *Game) initPlayers() {
	g.players = make([]Player, len(g.Config.Players))
	for i, pc := range g.Config.Players {
		g.players[i] = Player{ID: i, Name: pc.Name, Color: parseColor(pc.Color)}
	}
}

// parseColor reads "#rrggbb"; anything else becomes white.
func parseColor(s string) color.RGBA {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "#"), 16, 32)
	if err != nil || len(strings.TrimPrefix(s, "#")) != 6 {
		return color.RGBA{255, 255, 255, 255}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// Update advances the simulation by dt: income accrues first, then takeover
// progress.
func (g *Game) Update(dt float64) {
	if dt <= 0 {
		return
	}
	g.gameTime += dt
	g.Economy.Tick(dt)
	g.Takeovers.Tick(dt)
}

// GameTime returns the simulated time elapsed.
func (g *Game) GameTime() float64 { return g.gameTime }

// Seed returns the seed the current world was generated from.
func (g *Game) Seed() int64 { return g.seed }

// Players returns a copy of the player list.
func (g *Game) Players() []Player {
	return append([]Player(nil), g.players...)
}

// Player returns player id, if it exists.
func (g *Game) Player(id int) (Player, bool) {
	if id < 0 || id >= len(g.players) {
		return Player{}, false
	}
	return g.players[id], true
}

// CurrentPlayer returns the id of the player whose turn the input acts for.
func (g *Game) CurrentPlayer() int { return g.currentPlayer }

// SwitchPlayer hands control to the next player.
func (g *Game) SwitchPlayer() {
	g.currentPlayer = (g.currentPlayer + 1) % len(g.players)
	g.EventDispatcher.Dispatch(event.Event{Type: event.PlayerSwitched, Data: g.currentPlayer})
}

func (g *Game) SetPlayerName(id int, name string) {
	if id < 0 || id >= len(g.players) || name == "" || g.players[id].Name == name {
		return
	}
	g.players[id].Name = name
	g.EventDispatcher.Dispatch(event.Event{Type: event.PlayerUpdated, Data: g.players[id]})
}

func (g *Game) SetPlayerColor(id int, c color.RGBA) {
	if id < 0 || id >= len(g.players) || g.players[id].Color == c {
		return
	}
	g.players[id].Color = c
	g.EventDispatcher.Dispatch(event.Event{Type: event.PlayerUpdated, Data: g.players[id]})
}

// TileIncome is the income rate one owned tile contributes.
func TileIncome(terrain world.Terrain, resources, divisor float64) float64 {
	income := resources / divisor
	switch terrain {
	case world.TerrainMountain:
		income *= 1.5
	case world.TerrainWater:
		income *= 0.5
	}
	return income
}

// IncomeFromTiles sums TileIncome over tiles.
func IncomeFromTiles(tiles []*world.Tile, divisor float64) float64 {
	total := 0.0
	for _, t := range tiles {
		total += TileIncome(t.Terrain, t.Resources, divisor)
	}
	return total
}

// GameEventListener keeps derived state in step with the world.
type GameEventListener struct {
	game *Game
}

// OnEvent реализует интерфейс event.Listener.
func (l *GameEventListener) OnEvent(e event.Event) {
	g := l.game
	switch e.Type {
	case event.TileOwnerChanged:
		change, ok := e.Data.(world.OwnerChange)
		if !ok {
			return
		}
		tile, ok := g.World.ByAddress(change.Address)
		if !ok {
			return
		}
		income := TileIncome(tile.Terrain, tile.Resources, g.Config.Economy.IncomeDivisor)
		if change.Previous != world.Unowned {
			g.Economy.RemoveIncome(change.Previous, income)
		}
		if change.Owner != world.Unowned {
			g.Economy.AddIncome(change.Owner, income)
		}
	case event.TakeoverResolved:
		if out, ok := e.Data.(takeover.Outcome); ok {
			g.log.Info("takeover resolved",
				"task", out.Task.ID,
				"player", out.Task.Player,
				"tile", out.Task.Target.String(),
				"attackers", out.Task.Attackers)
		}
	case event.WorldRegenerated:
		g.units = nil
		g.structures = nil
		g.Takeovers.Reset()
		g.Economy.ResetIncome()
		if r, ok := e.Data.(world.Regenerated); ok {
			g.seed = r.Seed
		}
	}
}
