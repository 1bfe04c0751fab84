package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"go-hex-conquest/internal/app"
	"go-hex-conquest/internal/config"
	"go-hex-conquest/internal/event"
	"go-hex-conquest/internal/journal"
	"go-hex-conquest/pkg/hexmap"
)

// report summarises one scripted session.
type report struct {
	seed       int64
	seconds    float64
	tiles      int
	balances   []float64
	incomes    []float64
	owned      []int
	units      []int
	resolved   int
	rejections int
	journal    uint64
}

func main() {
	var (
		configPath  string
		seconds     float64
		dt          float64
		seed        int64
		journalPath string
	)
	flag.StringVar(&configPath, "config", "", "path to a YAML config (defaults when empty)")
	flag.Float64Var(&seconds, "seconds", 120, "simulated seconds to run")
	flag.Float64Var(&dt, "dt", 1.0/60, "tick length in seconds")
	flag.Int64Var(&seed, "seed", 42, "world seed")
	flag.StringVar(&journalPath, "journal", "", "write the event journal here (discarded when empty)")
	flag.Parse()

	if seconds <= 0 || dt <= 0 {
		fmt.Println("error: -seconds and -dt must be > 0")
		os.Exit(2)
	}

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	cfg.Seed = seed

	var out io.Writer = io.Discard
	if journalPath != "" {
		f, err := os.Create(journalPath)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	rep, err := runSession(cfg, seconds, dt, out, logger)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	printReport(os.Stdout, cfg, rep)
}

// runSession plays a fixed script: every player trains soldiers on a tile
// near the centre, then keeps claiming the nearest tiles it does not own
// whenever troops are free.
func runSession(cfg config.Config, seconds, dt float64, journalOut io.Writer, logger *slog.Logger) (report, error) {
	g, err := app.NewGame(cfg, logger)
	if err != nil {
		return report{}, err
	}
	jw, err := journal.NewWriter(journalOut, g.GameTime)
	if err != nil {
		return report{}, err
	}
	g.EventDispatcher.SubscribeAll(jw)

	rep := report{seed: g.Seed(), tiles: g.World.Len()}
	countEvents(g, &rep)

	players := len(g.Players())
	homes := homeTiles(g, players)
	for p := 0; p < players; p++ {
		g.Execute(app.Command{Action: app.ActionSelect, Tile: homes[p]})
		for i := 0; i < 4; i++ {
			g.Execute(app.Command{Action: app.ActionSpawnSoldier})
		}
		g.Execute(app.Command{Action: app.ActionSwitchPlayer})
	}

	const orderEvery = 1.0
	nextOrder := 0.0
	for g.GameTime() < seconds {
		if g.GameTime() >= nextOrder {
			for p := 0; p < players; p++ {
				if target, ok := nextTarget(g, homes[p], p); ok {
					g.Execute(app.Command{Action: app.ActionSelect, Tile: target})
					g.Execute(app.Command{Action: app.ActionClaim})
				}
				g.Execute(app.Command{Action: app.ActionSwitchPlayer})
			}
			nextOrder += orderEvery
		}
		g.Update(dt)
	}

	if err := jw.Close(); err != nil {
		return rep, err
	}
	rep.seconds = g.GameTime()
	rep.journal = jw.Len()
	for p := 0; p < players; p++ {
		rep.balances = append(rep.balances, g.Economy.Balance(p))
		rep.incomes = append(rep.incomes, g.Economy.Income(p))
		rep.owned = append(rep.owned, len(g.World.OwnedBy(p)))
		rep.units = append(rep.units, g.TotalUnits(p))
	}
	return rep, nil
}

func countEvents(g *app.Game, rep *report) {
	g.EventDispatcher.SubscribeAll(eventCounter{rep})
}

type eventCounter struct{ rep *report }

func (c eventCounter) OnEvent(e event.Event) {
	switch e.Type {
	case event.TakeoverResolved:
		c.rep.resolved++
	case event.ActionRejected:
		c.rep.rejections++
	}
}

// homeTiles spreads players over the centre's neighbours.
func homeTiles(g *app.Game, players int) []hexmap.Address {
	ring := g.World.NeighborsOf(g.World.Center())
	homes := make([]hexmap.Address, players)
	for p := range homes {
		if len(ring) == 0 {
			homes[p] = g.World.Center()
			continue
		}
		homes[p] = ring[(p*len(ring)/players)%len(ring)].Address
	}
	return homes
}

// nextTarget picks the first tile, by distance from home through the
// neighbour graph, that player does not own.
func nextTarget(g *app.Game, home hexmap.Address, player int) (hexmap.Address, bool) {
	seen := map[hexmap.Address]bool{home: true}
	queue := []hexmap.Address{home}
	for len(queue) > 0 {
		addr := queue[0]
		queue = queue[1:]
		if owner, ok := g.World.OwnerOf(addr); ok && owner != player {
			return addr, true
		}
		next := g.World.NeighborsOf(addr)
		sort.Slice(next, func(i, j int) bool { return next[i].Address < next[j].Address })
		for _, n := range next {
			if !seen[n.Address] {
				seen[n.Address] = true
				queue = append(queue, n.Address)
			}
		}
	}
	return hexmap.NoAddress, false
}

func printReport(w io.Writer, cfg config.Config, rep report) {
	fmt.Fprintf(w, "=== Headless Session Report ===\n")
	fmt.Fprintf(w, "seed=%d seconds=%.1f tiles=%d\n\n", rep.seed, rep.seconds, rep.tiles)
	fmt.Fprintf(w, "%-12s %10s %10s %6s %6s\n", "player", "balance", "income/s", "tiles", "units")
	for p := range rep.balances {
		name := fmt.Sprintf("#%d", p)
		if p < len(cfg.Players) {
			name = cfg.Players[p].Name
		}
		fmt.Fprintf(w, "%-12s %10.1f %10.2f %6d %6d\n", name, rep.balances[p], rep.incomes[p], rep.owned[p], rep.units[p])
	}
	fmt.Fprintf(w, "\ntakeovers resolved=%d rejections=%d journal entries=%d\n", rep.resolved, rep.rejections, rep.journal)
}
