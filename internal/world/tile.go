package world

import "go-hex-conquest/pkg/hexmap"

// Terrain is fixed when a tile is generated.
type Terrain string

const (
	TerrainLand     Terrain = "land"
	TerrainWater    Terrain = "water"
	TerrainMountain Terrain = "mountain"
)

// Unowned marks a tile without an owner.
const Unowned = -1

// Tile is the gameplay state of one cell. Fields are read freely; all
// mutation goes through World so that notifications stay in sync.
type Tile struct {
	Address   hexmap.Address
	Center    hexmap.LatLng
	Position  hexmap.Vec3
	Boundary  []hexmap.LatLng
	Outline   []hexmap.Vec3
	Terrain   Terrain
	Resources float64
	Owner     int
	Units     int
	Selected  bool
	Hovered   bool

	triangles [][3]hexmap.Vec3
}

// Owned reports whether any player owns the tile.
func (t *Tile) Owned() bool { return t.Owner != Unowned }

// OwnedBy reports whether player owns the tile.
func (t *Tile) OwnedBy(player int) bool { return t.Owned() && t.Owner == player }

// ShowsHover is true when the hover highlight should be visible. Selection
// takes precedence over hover.
func (t *Tile) ShowsHover() bool { return t.Hovered && !t.Selected }

// Triangles returns the pickable sub-primitives of the tile.
func (t *Tile) Triangles() [][3]hexmap.Vec3 { return t.triangles }

// OwnerChange is the payload of event.TileOwnerChanged.
type OwnerChange struct {
	Address  hexmap.Address `json:"address"`
	Previous int            `json:"previous"`
	Owner    int            `json:"owner"`
}

// UnitsChange is the payload of event.TileUnitsChanged.
type UnitsChange struct {
	Address hexmap.Address `json:"address"`
	Units   int            `json:"units"`
}

// Regenerated is the payload of event.WorldRegenerated.
type Regenerated struct {
	Center hexmap.Address `json:"center"`
	Tiles  int            `json:"tiles"`
	Seed   int64          `json:"seed"`
}
