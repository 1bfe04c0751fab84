// pkg/hexmap/hex.go
package hexmap

import (
	"fmt"
	"strconv"

	"github.com/uber/h3-go/v4"
)

// Address identifies one hexagonal cell. It is an H3 index and is stable for
// the lifetime of a world.
type Address uint64

// NoAddress is the zero address; H3 never produces it for a valid cell.
const NoAddress Address = 0

func (a Address) String() string {
	return h3.Cell(a).String()
}

// ParseAddress parses the hexadecimal form produced by String.
func ParseAddress(s string) (Address, error) {
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return NoAddress, fmt.Errorf("hexmap: bad address %q: %w", s, err)
	}
	return Address(v), nil
}

// MarshalText keeps addresses readable in journals and snapshots.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(b []byte) error {
	v, err := ParseAddress(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// LatLng — географические координаты в градусах.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Indexer is the hierarchical hex-indexing scheme the world is built on.
type Indexer interface {
	// CellAt returns the cell containing the point at the given resolution.
	CellAt(ll LatLng, resolution int) Address
	// Disk returns every cell within k neighbour hops of origin, origin included.
	Disk(origin Address, k int) []Address
	// Center returns the geographic centre of the cell.
	Center(a Address) LatLng
	// Boundary returns the ordered vertices of the cell outline.
	Boundary(a Address) []LatLng
	IsPentagon(a Address) bool
}

// DiskSize is the number of cells within k rings of a hexagon on an
// undistorted grid.
func DiskSize(k int) int {
	if k < 0 {
		return 0
	}
	return 3*k*(k+1) + 1
}

// H3Indexer implements Indexer on Uber's H3.
type H3Indexer struct{}

var _ Indexer = H3Indexer{}

func (H3Indexer) CellAt(ll LatLng, resolution int) Address {
	return Address(h3.LatLngToCell(h3.NewLatLng(ll.Lat, ll.Lng), resolution))
}

func (H3Indexer) Disk(origin Address, k int) []Address {
	cells := h3.GridDisk(h3.Cell(origin), k)
	out := make([]Address, 0, len(cells))
	for _, c := range cells {
		if c == 0 {
			continue
		}
		out = append(out, Address(c))
	}
	return out
}

func (H3Indexer) Center(a Address) LatLng {
	ll := h3.CellToLatLng(h3.Cell(a))
	return LatLng{Lat: ll.Lat, Lng: ll.Lng}
}

func (H3Indexer) Boundary(a Address) []LatLng {
	b := h3.CellToBoundary(h3.Cell(a))
	out := make([]LatLng, len(b))
	for i, v := range b {
		out[i] = LatLng{Lat: v.Lat, Lng: v.Lng}
	}
	return out
}

func (H3Indexer) IsPentagon(a Address) bool {
	return h3.Cell(a).IsPentagon()
}
