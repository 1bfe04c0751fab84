package render

import (
	"image/color"
	"math"
	"testing"

	"go-hex-conquest/internal/config"
	"go-hex-conquest/internal/event"
	"go-hex-conquest/internal/utils"
	"go-hex-conquest/internal/world"
	"go-hex-conquest/pkg/hexmap"
)

var testPlayers = []color.RGBA{{255, 0, 0, 255}, {0, 0, 255, 255}}

func TestCamera_ProjectFocusIsScreenCentre(t *testing.T) {
	focus := hexmap.LatLng{Lat: 30, Lng: 20}
	cam := NewCamera(focus, 90, 1200, 900)
	x, y, visible := cam.Project(hexmap.ToSphere(focus, 90))
	if !visible || math.Abs(x-600) > 1e-6 || math.Abs(y-450) > 1e-6 {
		t.Fatalf("focus projected to (%v, %v) visible=%v", x, y, visible)
	}
	_, _, visible = cam.Project(hexmap.ToSphere(hexmap.LatLng{Lat: -30, Lng: -160}, 90))
	if visible {
		t.Fatal("antipode reported visible")
	}
}

func TestCamera_RayPassesThroughProjectedPoint(t *testing.T) {
	cam := NewCamera(hexmap.LatLng{Lat: 10, Lng: -40}, 90, 800, 600)
	p := hexmap.ToSphere(hexmap.LatLng{Lat: 14, Lng: -35}, 90)
	x, y, _ := cam.Project(p)
	r := cam.RayAt(x, y)
	if d := p.Sub(r.Origin).Cross(r.Dir).Len(); d > 1e-6 {
		t.Fatalf("point is %v off the ray", d)
	}
	if p.Sub(r.Origin).Dot(r.Dir) <= 0 {
		t.Fatal("point is behind the ray origin")
	}
}

func TestCamera_OrbitClampsLatitude(t *testing.T) {
	cam := NewCamera(hexmap.LatLng{}, 90, 800, 600)
	cam.Orbit(200, 190)
	if cam.Focus.Lat != maxFocusLat {
		t.Fatalf("lat=%v", cam.Focus.Lat)
	}
	if cam.Focus.Lng < -180 || cam.Focus.Lng >= 180 {
		t.Fatalf("lng=%v", cam.Focus.Lng)
	}
}

func newWorld(t *testing.T, sink event.Sink) *world.World {
	t.Helper()
	w, err := world.New(config.Default().World, nil, utils.NewPRNGService(5), sink)
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	return w
}

func TestCamera_PicksTileUnderCursor(t *testing.T) {
	w := newWorld(t, nil)
	centre, _ := w.ByAddress(w.Center())
	cam := NewCamera(centre.Center, w.SphereRadius(), 1200, 900)
	for _, n := range w.NeighborsOf(w.Center()) {
		aim := n.Position.Scale(0.6).Add(n.Outline[0].Scale(0.2)).Add(n.Outline[1].Scale(0.2))
		x, y, visible := cam.Project(aim)
		if !visible {
			t.Fatalf("neighbour %s not visible", n.Address)
		}
		got, ok := w.TileAt(cam.RayAt(x, y))
		if !ok || got.Address != n.Address {
			t.Fatalf("picked %v ok=%v, want %s", got, ok, n.Address)
		}
	}
}

func TestTileColor(t *testing.T) {
	tile := &world.Tile{Terrain: world.TerrainWater, Owner: world.Unowned}
	if TileColor(tile, testPlayers) != config.WaterColor {
		t.Fatal("unowned water should use the terrain colour")
	}
	tile.Owner = 0
	owned := TileColor(tile, testPlayers)
	if owned == config.WaterColor || owned.R <= config.WaterColor.R {
		t.Fatalf("owned colour %v not tinted towards player", owned)
	}
	tile.Hovered = true
	if TileColor(tile, testPlayers) == owned {
		t.Fatal("hover did not change colour")
	}
	tile.Selected = true
	if TileColor(tile, testPlayers) != config.SelectColor {
		t.Fatal("selection should override hover and ownership")
	}
	tile.Owner = 7
	tile.Selected, tile.Hovered = false, false
	if TileColor(tile, testPlayers) != config.WaterColor {
		t.Fatal("unknown owner should fall back to terrain")
	}
}

func TestHexRenderer_RecoloursOnEvents(t *testing.T) {
	d := event.NewDispatcher()
	w := newWorld(t, d)
	r := NewHexRenderer(w, NewCamera(hexmap.LatLng{}, w.SphereRadius(), 800, 600), testPlayers)
	d.SubscribeAll(r)

	addr := w.Center()
	before, _ := r.FillOf(addr)
	w.SetOwner(addr, 1)
	after, _ := r.FillOf(addr)
	if before == after {
		t.Fatal("ownership change not reflected")
	}

	w.Select(addr)
	if c, _ := r.FillOf(addr); c != config.SelectColor {
		t.Fatalf("selected fill=%v", c)
	}
	other := w.NeighborsOf(addr)[0].Address
	w.Select(other)
	if c, _ := r.FillOf(addr); c == config.SelectColor {
		t.Fatal("previous selection still drawn selected")
	}

	if err := w.Regenerate(9); err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	if c, _ := r.FillOf(addr); c == config.SelectColor || c == after {
		t.Fatalf("stale fill after regenerate: %v", c)
	}
}
