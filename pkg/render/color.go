// pkg/render/color.go
package render

import (
	"image/color"

	"go-hex-conquest/internal/config"
	"go-hex-conquest/internal/utils"
	"go-hex-conquest/internal/world"
)

// DarkenColor reduces the brightness of a color.
func DarkenColor(c color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * 0.5),
		G: uint8(float64(c.G) * 0.5),
		B: uint8(float64(c.B) * 0.5),
		A: c.A,
	}
}

// LightenColor adds d to every channel, saturating at 255.
func LightenColor(c color.RGBA, d int) color.RGBA {
	return color.RGBA{
		R: uint8(min(255, int(c.R)+d)),
		G: uint8(min(255, int(c.G)+d)),
		B: uint8(min(255, int(c.B)+d)),
		A: c.A,
	}
}

// MixColor blends b over a with weight w in [0, 1].
func MixColor(a, b color.RGBA, w float64) color.RGBA {
	mix := func(x, y uint8) uint8 { return uint8(utils.Lerp(float64(x), float64(y), w)) }
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

// TerrainColor is the unowned fill of a terrain.
func TerrainColor(t world.Terrain) color.RGBA {
	switch t {
	case world.TerrainWater:
		return config.WaterColor
	case world.TerrainMountain:
		return config.MountainColor
	}
	return config.LandColor
}

// TileColor picks the fill of a tile. Selection wins over ownership, and
// hover only lightens tiles that are not selected.
func TileColor(t *world.Tile, players []color.RGBA) color.RGBA {
	if t.Selected {
		return config.SelectColor
	}
	c := TerrainColor(t.Terrain)
	if t.Owned() && t.Owner < len(players) {
		c = MixColor(c, players[t.Owner], 0.65)
	}
	if t.ShowsHover() {
		c = MixColor(c, config.HoverColor, 0.35)
	}
	return c
}

// OutlineColor is the stroke of a tile outline.
func OutlineColor(t *world.Tile, players []color.RGBA) color.RGBA {
	if t.Owned() && t.Owner < len(players) {
		return LightenColor(players[t.Owner], 40)
	}
	return config.OutlineColor
}
