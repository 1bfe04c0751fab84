// cmd/game/main.go
package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"go-hex-conquest/internal/app"
	"go-hex-conquest/internal/config"
	"go-hex-conquest/internal/journal"
	"go-hex-conquest/internal/persistence"
	"go-hex-conquest/internal/state"
)

type AppGame struct {
	stateMachine   *state.StateMachine
	lastUpdateTime time.Time
	maxDeltaTime   float64
}

func (a *AppGame) Update() error {
	now := time.Now()
	deltaTime := now.Sub(a.lastUpdateTime).Seconds()
	if deltaTime > a.maxDeltaTime {
		deltaTime = a.maxDeltaTime
	}
	a.lastUpdateTime = now
	a.stateMachine.Update(deltaTime)
	return nil
}

func (a *AppGame) Draw(screen *ebiten.Image) {
	a.stateMachine.Draw(screen)
}

func (a *AppGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.ScreenWidth, config.ScreenHeight
}

func main() {
	var (
		configPath string
		seed       int64
		menu       bool
		debug      bool
	)
	flag.StringVar(&configPath, "config", "", "path to a YAML config (defaults when empty)")
	flag.Int64Var(&seed, "seed", 0, "world seed; overrides the config when non-zero")
	flag.BoolVar(&menu, "menu", false, "start on the menu instead of the game")
	flag.BoolVar(&debug, "debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(configPath, seed, menu, logger); err != nil {
		logger.Error("game exited with error", "err", err)
		os.Exit(1)
	}
}

func run(configPath string, seed int64, menu bool, logger *slog.Logger) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if seed != 0 {
		cfg.Seed = seed
	}

	game, err := app.NewGame(cfg, logger)
	if err != nil {
		return err
	}

	jw, err := journal.Open(cfg.Storage.JournalPath, game.GameTime)
	if err != nil {
		return err
	}
	defer func() {
		if err := jw.Close(); err != nil {
			logger.Error("failed to close journal", "err", err)
		}
	}()
	game.EventDispatcher.SubscribeAll(jw)

	store, err := persistence.Open(cfg.Storage.SavePath)
	if err != nil {
		return err
	}
	defer store.Close()

	sm := state.NewStateMachine() // Создаём машину состояний
	gs := state.NewGameState(sm, game, store, logger)
	if menu {
		sm.SetState(state.NewMenuState(sm, gs, store, logger))
	} else {
		sm.SetState(gs)
	}

	a := &AppGame{
		stateMachine:   sm,
		lastUpdateTime: time.Now(),
		maxDeltaTime:   cfg.MaxDeltaTime,
	}
	ebiten.SetWindowSize(config.ScreenWidth, config.ScreenHeight)
	ebiten.SetWindowTitle("Hexsphere Conquest")
	return ebiten.RunGame(a)
}
