// internal/state/menu_state.go
package state

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"go-hex-conquest/internal/config"
	"go-hex-conquest/internal/persistence"
	"go-hex-conquest/pkg/render"
)

// MenuState — стартовый экран: новая игра или загрузка сохранения
type MenuState struct {
	sm     *StateMachine
	next   *GameState
	saves  SaveSlots
	log    *slog.Logger
	slots  []persistence.SaveInfo
	status string
}

func NewMenuState(sm *StateMachine, next *GameState, saves SaveSlots, logger *slog.Logger) *MenuState {
	if logger == nil {
		logger = slog.Default()
	}
	return &MenuState{sm: sm, next: next, saves: saves, log: logger}
}

func (m *MenuState) Enter() {
	m.slots = nil
	if m.saves == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
	defer cancel()
	slots, err := m.saves.List(ctx)
	if err != nil {
		m.log.Error("failed to list saves", "err", err)
		return
	}
	m.slots = slots
}

func (m *MenuState) Update(deltaTime float64) {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		m.sm.SetState(m.next)
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) && len(m.slots) > 0 {
		if err := LoadSlot(m.next.Game(), m.saves, m.slots[0].Name); err != nil {
			m.log.Error("failed to load save", "slot", m.slots[0].Name, "err", err)
			m.status = "load failed: " + err.Error()
			return
		}
		m.next.renderer.SetPlayerColors(playerColors(m.next.Game()))
		m.sm.SetState(m.next)
	}
}

// MenuLines is the text the menu shows.
func (m *MenuState) MenuLines() []string {
	lines := []string{"HEXSPHERE CONQUEST", "", "Space  new game"}
	if len(m.slots) > 0 {
		s := m.slots[0]
		lines = append(lines, fmt.Sprintf("L      load %q (%s)", s.Name, s.SavedAt.Local().Format("2006-01-02 15:04")))
	}
	lines = append(lines, "",
		"C claim  1/2/3 units  B/M/T buildings  Tab next player",
		"-/= takeover %  R regenerate  P pause  F5 save  F9 load")
	if m.status != "" {
		lines = append(lines, "", m.status)
	}
	return lines
}

func (m *MenuState) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0, 0, 0, 255}) // Чёрный экран
	render.DrawText(screen, m.MenuLines(), config.ScreenWidth/2-200, config.ScreenHeight/2-60, config.TextLightColor)
}

func (m *MenuState) Exit() {
	// Ничего не делаем при выходе
}
