package render

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"go-hex-conquest/internal/config"
	"go-hex-conquest/internal/event"
	"go-hex-conquest/internal/takeover"
	"go-hex-conquest/internal/world"
	"go-hex-conquest/pkg/hexmap"
)

// tileSprite caches what the renderer needs for one tile.
type tileSprite struct {
	tile    *world.Tile
	fill    color.RGBA
	outline color.RGBA
}

// HexRenderer draws the globe of tiles, takeover progress and HUD text. It
// listens to world events and refreshes only the tiles that changed.
type HexRenderer struct {
	world   *world.World
	camera  *Camera
	players []color.RGBA
	sprites map[hexmap.Address]*tileSprite
	order   []hexmap.Address

	whiteImg *ebiten.Image
	vs       []ebiten.Vertex
	is       []uint16
}

func NewHexRenderer(w *world.World, camera *Camera, players []color.RGBA) *HexRenderer {
	r := &HexRenderer{
		world:   w,
		camera:  camera,
		players: players,
	}
	r.Rebuild()
	return r
}

// Rebuild recreates every sprite from the world.
func (r *HexRenderer) Rebuild() {
	tiles := r.world.Tiles()
	r.sprites = make(map[hexmap.Address]*tileSprite, len(tiles))
	r.order = r.order[:0]
	for _, t := range tiles {
		r.sprites[t.Address] = &tileSprite{tile: t}
		r.order = append(r.order, t.Address)
		r.refresh(t.Address)
	}
}

// SetPlayerColors replaces the player palette and recolours every tile.
func (r *HexRenderer) SetPlayerColors(players []color.RGBA) {
	r.players = players
	for _, addr := range r.order {
		r.refresh(addr)
	}
}

func (r *HexRenderer) refresh(addr hexmap.Address) {
	s, ok := r.sprites[addr]
	if !ok {
		return
	}
	s.fill = TileColor(s.tile, r.players)
	s.outline = OutlineColor(s.tile, r.players)
}

// FillOf returns the cached fill of a tile.
func (r *HexRenderer) FillOf(addr hexmap.Address) (color.RGBA, bool) {
	s, ok := r.sprites[addr]
	if !ok {
		return color.RGBA{}, false
	}
	return s.fill, true
}

// OnEvent реализует интерфейс event.Listener.
func (r *HexRenderer) OnEvent(e event.Event) {
	switch e.Type {
	case event.WorldRegenerated:
		r.Rebuild()
	case event.TileOwnerChanged:
		if c, ok := e.Data.(world.OwnerChange); ok {
			r.refresh(c.Address)
		}
	case event.TileSelected, event.TileDeselected, event.TileHovered:
		// Payloads name only one side of the move, so recolour everything.
		for _, addr := range r.order {
			r.refresh(addr)
		}
	}
}

func (r *HexRenderer) white() *ebiten.Image {
	if r.whiteImg == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		r.whiteImg = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return r.whiteImg
}

// Draw paints every tile facing the camera.
func (r *HexRenderer) Draw(screen *ebiten.Image) {
	screen.Fill(config.BackgroundColor)

	r.vs, r.is = r.vs[:0], r.is[:0]
	for _, addr := range r.order {
		s := r.sprites[addr]
		if !r.camera.Facing(s.tile.Position) {
			continue
		}
		if len(r.vs)+len(s.tile.Outline)+1 > 60000 {
			r.flush(screen)
		}
		r.appendTile(s)
	}
	r.flush(screen)

	for _, addr := range r.order {
		s := r.sprites[addr]
		if r.camera.Facing(s.tile.Position) {
			r.strokeTile(screen, s)
		}
	}
}

func (r *HexRenderer) appendTile(s *tileSprite) {
	base := uint16(len(r.vs))
	cr := float32(s.fill.R) / 255
	cg := float32(s.fill.G) / 255
	cb := float32(s.fill.B) / 255

	cx, cy, _ := r.camera.Project(s.tile.Position)
	r.vs = append(r.vs, ebiten.Vertex{
		DstX: float32(cx), DstY: float32(cy), SrcX: 1, SrcY: 1,
		ColorR: cr, ColorG: cg, ColorB: cb, ColorA: 1,
	})
	for _, p := range s.tile.Outline {
		x, y, _ := r.camera.Project(p)
		r.vs = append(r.vs, ebiten.Vertex{
			DstX: float32(x), DstY: float32(y), SrcX: 1, SrcY: 1,
			ColorR: cr, ColorG: cg, ColorB: cb, ColorA: 1,
		})
	}
	n := uint16(len(s.tile.Outline))
	for i := uint16(0); i < n; i++ {
		r.is = append(r.is, base, base+1+i, base+1+(i+1)%n)
	}
}

func (r *HexRenderer) flush(screen *ebiten.Image) {
	if len(r.is) == 0 {
		return
	}
	screen.DrawTriangles(r.vs, r.is, r.white(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
	r.vs, r.is = r.vs[:0], r.is[:0]
}

func (r *HexRenderer) strokeTile(screen *ebiten.Image, s *tileSprite) {
	outline := s.tile.Outline
	width := float32(config.TileStrokeWidth)
	if s.tile.Selected {
		width *= 2
	}
	for i := range outline {
		x0, y0, _ := r.camera.Project(outline[i])
		x1, y1, _ := r.camera.Project(outline[(i+1)%len(outline)])
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), width, s.outline, true)
	}
}

// DrawTakeovers draws a progress bar over each target tile.
func (r *HexRenderer) DrawTakeovers(screen *ebiten.Image, tasks []takeover.Task) {
	const barW, barH = 28, 4
	for _, t := range tasks {
		s, ok := r.sprites[t.Target]
		if !ok || !r.camera.Facing(s.tile.Position) {
			continue
		}
		x, y, _ := r.camera.Project(s.tile.Position)
		left := float32(x) - barW/2
		top := float32(y) - barH/2
		vector.DrawFilledRect(screen, left, top, barW, barH, DarkenColor(config.ProgressColor), false)
		vector.DrawFilledRect(screen, left, top, float32(barW*t.Progress), barH, config.ProgressColor, false)
		if t.Player < len(r.players) {
			vector.StrokeRect(screen, left, top, barW, barH, 1, r.players[t.Player], false)
		}
	}
}

// DrawText prints lines top-down starting at (x, y).
func DrawText(screen *ebiten.Image, lines []string, x, y int, clr color.Color) {
	for i, line := range lines {
		text.Draw(screen, line, basicfont.Face7x13, x, y+i*config.HUDLineHeight, clr)
	}
}
