package world

import (
	"math"

	"go-hex-conquest/pkg/hexmap"
)

const sphereSlack = 1e-6

// ByAddress looks a tile up directly.
func (w *World) ByAddress(addr hexmap.Address) (*Tile, bool) {
	t, ok := w.tiles[addr]
	return t, ok
}

// TileAt returns the nearest tile hit by the ray. A tile is drawn as a fan of
// triangles; a hit on any of them resolves to that tile. Fans are chords of
// the sphere, so a ray that misses the sphere misses every tile. A sphere hit
// that slips between fans resolves through the index.
func (w *World) TileAt(r hexmap.Ray) (*Tile, bool) {
	hit, ok := hexmap.IntersectSphere(r, w.cfg.SphereRadius*(1+sphereSlack))
	if !ok {
		return nil, false
	}
	var (
		best  *Tile
		bestT = math.Inf(1)
	)
	for _, addr := range w.order {
		tile := w.tiles[addr]
		for _, tri := range tile.triangles {
			t, ok := hexmap.IntersectTriangle(r, tri[0], tri[1], tri[2])
			if ok && t < bestT {
				bestT = t
				best = tile
			}
		}
	}
	if best != nil {
		return best, true
	}
	return w.TileAtLatLng(hexmap.FromSphere(r.At(hit)))
}

// TileAtLatLng resolves a geographic point through the index.
func (w *World) TileAtLatLng(ll hexmap.LatLng) (*Tile, bool) {
	return w.ByAddress(w.indexer.CellAt(ll, w.cfg.Resolution))
}

// NeighborsOf returns the ring-1 neighbours of addr that exist in this world.
// Cells on the rim have neighbours outside the generated disk; those are
// skipped.
func (w *World) NeighborsOf(addr hexmap.Address) []*Tile {
	ring := w.indexer.Disk(addr, 1)
	out := make([]*Tile, 0, len(ring))
	for _, n := range ring {
		if n == addr {
			continue
		}
		if t, ok := w.tiles[n]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Selected returns the selected tile, if any.
func (w *World) Selected() (*Tile, bool) {
	return w.ByAddress(w.selected)
}

// Hovered returns the hovered tile, if any.
func (w *World) Hovered() (*Tile, bool) {
	return w.ByAddress(w.hovered)
}
