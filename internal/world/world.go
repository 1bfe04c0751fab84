package world

import (
	"fmt"
	"math"

	"go-hex-conquest/internal/config"
	"go-hex-conquest/internal/event"
	"go-hex-conquest/internal/utils"
	"go-hex-conquest/pkg/hexmap"
)

// World owns every tile of the current session.
type World struct {
	cfg     config.WorldConfig
	indexer hexmap.Indexer
	rng     *utils.PRNGService
	sink    event.Sink

	center   hexmap.Address
	tiles    map[hexmap.Address]*Tile
	order    []hexmap.Address
	selected hexmap.Address
	hovered  hexmap.Address
	players  int
}

// New generates a world of every cell within RingRadius rings of the centre
// cell. A nil sink discards notifications.
func New(cfg config.WorldConfig, indexer hexmap.Indexer, rng *utils.PRNGService, sink event.Sink) (*World, error) {
	if indexer == nil {
		indexer = hexmap.H3Indexer{}
	}
	if sink == nil {
		sink = event.Discard
	}
	if rng == nil {
		rng = utils.NewPRNGService(0)
	}
	w := &World{
		cfg:     cfg,
		indexer: indexer,
		rng:     rng,
		sink:    sink,
	}
	if err := w.generate(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *World) generate() error {
	w.center = w.indexer.CellAt(hexmap.LatLng{Lat: w.cfg.CenterLat, Lng: w.cfg.CenterLng}, w.cfg.Resolution)
	addresses := w.indexer.Disk(w.center, w.cfg.RingRadius)

	tiles := make(map[hexmap.Address]*Tile, len(addresses))
	order := make([]hexmap.Address, 0, len(addresses))
	terrains := []utils.WeightedEntry[Terrain]{
		{Value: TerrainWater, Weight: w.cfg.Terrain.Water},
		{Value: TerrainMountain, Weight: w.cfg.Terrain.Mountain},
		{Value: TerrainLand, Weight: w.cfg.Terrain.Land},
	}
	maxResources := w.cfg.MaxResources
	if maxResources <= 0 {
		maxResources = 100
	}

	for _, addr := range addresses {
		if _, dup := tiles[addr]; dup {
			return fmt.Errorf("world: duplicate address %s in generated disk", addr)
		}
		terrain, ok := utils.ChooseWeighted(w.rng, terrains)
		if !ok {
			return fmt.Errorf("world: terrain weights %+v select nothing", w.cfg.Terrain)
		}
		tile := w.buildTile(addr)
		tile.Terrain = terrain
		tile.Resources = float64(w.rng.Intn(maxResources))
		tiles[addr] = tile
		order = append(order, addr)
	}

	w.tiles = tiles
	w.order = order
	w.selected = hexmap.NoAddress
	w.hovered = hexmap.NoAddress
	return nil
}

func (w *World) buildTile(addr hexmap.Address) *Tile {
	center := w.indexer.Center(addr)
	boundary := w.indexer.Boundary(addr)
	if len(boundary) < 3 {
		boundary = hexmap.ApproximateBoundary(center, approxCellRadiusDeg(w.cfg.Resolution))
	}
	pos := hexmap.ToSphere(center, w.cfg.SphereRadius)
	outline := make([]hexmap.Vec3, len(boundary))
	for i, v := range boundary {
		outline[i] = hexmap.ToSphere(v, w.cfg.SphereRadius)
	}
	return &Tile{
		Address:   addr,
		Center:    center,
		Position:  pos,
		Boundary:  boundary,
		Outline:   outline,
		Owner:     Unowned,
		triangles: hexmap.FanTriangles(pos, outline),
	}
}

// Resolution 0 cells are roughly ten degrees across; each finer level shrinks
// edges by sqrt(7).
func approxCellRadiusDeg(resolution int) float64 {
	return 10 / math.Pow(math.Sqrt(7), float64(resolution))
}

// Regenerate tears the world down and builds it again from seed.
func (w *World) Regenerate(seed int64) error {
	w.rng = utils.NewPRNGService(seed)
	if err := w.generate(); err != nil {
		return err
	}
	w.sink.Dispatch(event.Event{
		Type: event.WorldRegenerated,
		Data: Regenerated{Center: w.center, Tiles: len(w.order), Seed: w.rng.Seed()},
	})
	return nil
}

// Center returns the address the world was grown from.
func (w *World) Center() hexmap.Address { return w.center }

// SphereRadius returns the radius tiles are projected onto.
func (w *World) SphereRadius() float64 { return w.cfg.SphereRadius }

// Len returns the number of tiles.
func (w *World) Len() int { return len(w.order) }

// Tiles returns all tiles in generation order.
func (w *World) Tiles() []*Tile {
	out := make([]*Tile, 0, len(w.order))
	for _, addr := range w.order {
		out = append(out, w.tiles[addr])
	}
	return out
}

// OwnedBy returns the tiles owned by player in generation order.
func (w *World) OwnedBy(player int) []*Tile {
	var out []*Tile
	for _, addr := range w.order {
		if t := w.tiles[addr]; t.OwnedBy(player) {
			out = append(out, t)
		}
	}
	return out
}
