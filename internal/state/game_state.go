// internal/state/game_state.go
package state

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.org/x/time/rate"

	"go-hex-conquest/internal/app"
	"go-hex-conquest/internal/config"
	"go-hex-conquest/internal/event"
	"go-hex-conquest/internal/ui"
	"go-hex-conquest/pkg/hexmap"
	"go-hex-conquest/pkg/render"
)

// QuickSlot is the save name used by F5 and F9.
const QuickSlot = "quicksave"

const (
	orbitSpeed    = 60.0 // degrees per second
	percentStep   = 10
	statusSeconds = 3.0
	ioTimeout     = 2 * time.Second
)

type keyBinding struct {
	key    ebiten.Key
	action app.Action
}

var keyBindings = []keyBinding{
	{ebiten.KeyC, app.ActionClaim},
	{ebiten.Key1, app.ActionSpawnSoldier},
	{ebiten.Key2, app.ActionSpawnArcher},
	{ebiten.Key3, app.ActionSpawnScout},
	{ebiten.KeyB, app.ActionBuildBarracks},
	{ebiten.KeyM, app.ActionBuildMarket},
	{ebiten.KeyT, app.ActionBuildTower},
	{ebiten.KeyTab, app.ActionSwitchPlayer},
}

// GameState — состояние игры
type GameState struct {
	sm        *StateMachine
	game      *app.Game
	camera    *render.Camera
	renderer  *render.HexRenderer
	indicator *ui.StateIndicator
	infoPanel *ui.InfoPanel
	saves     SaveSlots
	clicks    *rate.Limiter
	log       *slog.Logger

	cursorX, cursorY int
	status           string
	statusUntil      time.Time
}

// NewGameState wires the renderer and widgets to g. saves may be nil, which
// disables F5 and F9.
func NewGameState(sm *StateMachine, g *app.Game, saves SaveSlots, logger *slog.Logger) *GameState {
	if logger == nil {
		logger = slog.Default()
	}
	centre, _ := g.World.ByAddress(g.World.Center())
	camera := render.NewCamera(centre.Center, g.World.SphereRadius(), config.ScreenWidth, config.ScreenHeight)

	gs := &GameState{
		sm:        sm,
		game:      g,
		camera:    camera,
		renderer:  render.NewHexRenderer(g.World, camera, playerColors(g)),
		indicator: ui.NewStateIndicator(config.ScreenWidth-40, 40, 18),
		infoPanel: ui.NewInfoPanel(),
		saves:     saves,
		clicks:    rate.NewLimiter(rate.Every(config.ClickCooldownMs*time.Millisecond), 1),
		log:       logger,
		cursorX:   -1,
		cursorY:   -1,
	}

	d := g.EventDispatcher
	for _, t := range []event.EventType{
		event.WorldRegenerated, event.TileOwnerChanged,
		event.TileSelected, event.TileDeselected, event.TileHovered,
	} {
		d.Subscribe(t, gs.renderer)
	}
	d.Subscribe(event.PlayerSwitched, gs)
	d.Subscribe(event.PlayerUpdated, gs)
	d.Subscribe(event.ActionRejected, gs)
	d.Subscribe(event.WorldRegenerated, gs)
	return gs
}

func playerColors(g *app.Game) []color.RGBA {
	players := g.Players()
	out := make([]color.RGBA, len(players))
	for i, p := range players {
		out[i] = p.Color
	}
	return out
}

// Game returns the session this screen drives.
func (g *GameState) Game() *app.Game { return g.game }

// OnEvent реализует интерфейс event.Listener.
func (g *GameState) OnEvent(e event.Event) {
	switch e.Type {
	case event.PlayerSwitched:
		g.indicator.Pulse()
	case event.PlayerUpdated:
		g.renderer.SetPlayerColors(playerColors(g.game))
	case event.ActionRejected:
		if r, ok := e.Data.(event.Rejection); ok {
			g.setStatus(fmt.Sprintf("%s: %s", r.Action, r.Reason))
		}
	case event.WorldRegenerated:
		centre, _ := g.game.World.ByAddress(g.game.World.Center())
		g.camera.LookAt(centre.Center)
		g.infoPanel.Hide()
	}
}

func (g *GameState) setStatus(s string) {
	g.status = s
	g.statusUntil = time.Now().Add(statusSeconds * time.Second)
}

func (g *GameState) Enter() {
	// Ничего не делаем при входе
}

func (g *GameState) Update(deltaTime float64) {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.sm.SetState(NewPauseState(g.sm, g))
		return
	}

	g.handleKeys(deltaTime)
	g.handleMouse()
	g.game.Update(deltaTime)

	if tile, ok := g.game.World.Selected(); ok {
		if info, ok := g.game.TileInfo(tile.Address); ok {
			g.infoPanel.SetTarget(info)
		}
	} else {
		g.infoPanel.Hide()
	}
	g.infoPanel.Update()
}

func (g *GameState) handleKeys(deltaTime float64) {
	for _, b := range keyBindings {
		if inpututil.IsKeyJustPressed(b.key) {
			g.game.Execute(app.Command{Action: b.action})
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		g.game.Execute(app.Command{Action: app.ActionSetTakeoverPercent, Value: g.game.Takeovers.Percent() - percentStep})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.game.Execute(app.Command{Action: app.ActionSetTakeoverPercent, Value: g.game.Takeovers.Percent() + percentStep})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		seed := time.Now().UnixNano()
		if g.game.Execute(app.Command{Action: app.ActionRegenerate, Seed: seed}) {
			g.setStatus(fmt.Sprintf("world regenerated (seed %d)", seed))
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.game.World.ClearSelection()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF5) {
		g.quickSave()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF9) {
		g.quickLoad()
	}

	step := orbitSpeed * deltaTime
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyArrowLeft):
		g.camera.Orbit(0, -step)
	case ebiten.IsKeyPressed(ebiten.KeyArrowRight):
		g.camera.Orbit(0, step)
	}
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyArrowUp):
		g.camera.Orbit(step, 0)
	case ebiten.IsKeyPressed(ebiten.KeyArrowDown):
		g.camera.Orbit(-step, 0)
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		g.camera.Zoom(1 + 0.1*dy)
	}
}

func (g *GameState) pick(x, y int) hexmap.Address {
	tile, ok := g.game.World.TileAt(g.camera.RayAt(float64(x), float64(y)))
	if !ok || !g.camera.Facing(tile.Position) {
		return hexmap.NoAddress
	}
	return tile.Address
}

func (g *GameState) handleMouse() {
	x, y := ebiten.CursorPosition()
	if x != g.cursorX || y != g.cursorY {
		g.cursorX, g.cursorY = x, y
		g.game.Execute(app.Command{Action: app.ActionHover, Tile: g.pick(x, y)})
	}

	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) || !g.clicks.Allow() {
		return
	}
	if g.indicator.Contains(x, y) {
		g.game.Execute(app.Command{Action: app.ActionSwitchPlayer})
		return
	}
	if addr := g.pick(x, y); addr != hexmap.NoAddress {
		g.game.Execute(app.Command{Action: app.ActionSelect, Tile: addr})
	} else {
		g.game.World.ClearSelection()
	}
}

func (g *GameState) quickSave() {
	if g.saves == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
	defer cancel()
	if err := g.saves.Save(ctx, QuickSlot, g.game.Snapshot()); err != nil {
		g.log.Error("quicksave failed", "err", err)
		g.setStatus("save failed")
		return
	}
	g.log.Info("game saved", "slot", QuickSlot)
	g.setStatus("game saved")
}

func (g *GameState) quickLoad() {
	if g.saves == nil {
		return
	}
	if err := LoadSlot(g.game, g.saves, QuickSlot); err != nil {
		g.log.Error("quickload failed", "err", err)
		g.setStatus("load failed")
		return
	}
	g.setStatus("game loaded")
}

// LoadSlot restores g from the named save.
func LoadSlot(g *app.Game, saves SaveSlots, name string) error {
	ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
	defer cancel()
	snap, err := saves.Load(ctx, name)
	if err != nil {
		return err
	}
	return g.Restore(snap)
}

// HUDLines is the text block in the top-left corner.
func HUDLines(g *app.Game) []string {
	cur := g.CurrentPlayer()
	lines := make([]string, 0, len(g.Players())+4)
	for _, p := range g.Players() {
		marker := "  "
		if p.ID == cur {
			marker = "> "
		}
		lines = append(lines, fmt.Sprintf("%s%-10s %8.1f  +%.2f/s  tiles %d  units %d",
			marker, p.Name, g.Economy.Balance(p.ID), g.Economy.Income(p.ID),
			len(g.World.OwnedBy(p.ID)), g.TotalUnits(p.ID)))
	}
	lines = append(lines,
		fmt.Sprintf("Takeover commit %d%%  active %d", g.Takeovers.Percent(), len(g.Takeovers.Active())),
		fmt.Sprintf("Time %.0fs  seed %d", g.GameTime(), g.Seed()),
	)
	return lines
}

func (g *GameState) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen)
	g.renderer.DrawTakeovers(screen, g.game.Takeovers.Active())

	lines := HUDLines(g.game)
	if g.status != "" && time.Now().Before(g.statusUntil) {
		lines = append(lines, "", g.status)
	}
	render.DrawText(screen, lines, config.HUDMarginX, config.HUDMarginY, config.TextLightColor)

	if p, ok := g.game.Player(g.game.CurrentPlayer()); ok {
		g.indicator.Draw(screen, p.Color)
	}
	g.infoPanel.Draw(screen)
}

func (g *GameState) Exit() {
	// Ничего не делаем при выходе
}
