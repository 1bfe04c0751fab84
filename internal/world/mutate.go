package world

import (
	"go-hex-conquest/internal/event"
	"go-hex-conquest/pkg/hexmap"
)

// Select makes addr the only selected tile. It reports false when addr is not
// part of the world.
func (w *World) Select(addr hexmap.Address) bool {
	tile, ok := w.tiles[addr]
	if !ok {
		return false
	}
	if w.selected == addr {
		return true
	}
	w.ClearSelection()
	tile.Selected = true
	w.selected = addr
	w.sink.Dispatch(event.Event{Type: event.TileSelected, Data: addr})
	return true
}

// ClearSelection deselects the selected tile, if any.
func (w *World) ClearSelection() {
	prev, ok := w.tiles[w.selected]
	w.selected = hexmap.NoAddress
	if !ok {
		return
	}
	prev.Selected = false
	w.sink.Dispatch(event.Event{Type: event.TileDeselected, Data: prev.Address})
}

// SetHover moves the hover mark to addr. NoAddress, or any address outside the
// world, clears it.
func (w *World) SetHover(addr hexmap.Address) {
	if _, ok := w.tiles[addr]; !ok {
		addr = hexmap.NoAddress
	}
	if addr == w.hovered {
		return
	}
	if prev, ok := w.tiles[w.hovered]; ok {
		prev.Hovered = false
	}
	w.hovered = addr
	if next, ok := w.tiles[addr]; ok {
		next.Hovered = true
	}
	w.sink.Dispatch(event.Event{Type: event.TileHovered, Data: addr})
}

// SetPlayerCount bounds the owner ids SetOwner accepts to [0, n). Zero
// leaves any non-negative id acceptable.
func (w *World) SetPlayerCount(n int) {
	if n < 0 {
		n = 0
	}
	w.players = n
}

// ValidOwner reports whether player may own a tile. Unowned always may.
func (w *World) ValidOwner(player int) bool {
	if player == Unowned {
		return true
	}
	return player >= 0 && (w.players == 0 || player < w.players)
}

// SetOwner assigns the tile; callers authorise. Missing addresses and
// invalid player ids are ignored, and re-assigning the same owner changes
// nothing.
func (w *World) SetOwner(addr hexmap.Address, player int) {
	tile, ok := w.tiles[addr]
	if !ok || tile.Owner == player || !w.ValidOwner(player) {
		return
	}
	prev := tile.Owner
	tile.Owner = player
	w.sink.Dispatch(event.Event{
		Type: event.TileOwnerChanged,
		Data: OwnerChange{Address: addr, Previous: prev, Owner: player},
	})
}

// ClearOwner removes the owner of the tile.
func (w *World) ClearOwner(addr hexmap.Address) {
	w.SetOwner(addr, Unowned)
}

// OwnerOf returns the owner of addr and whether the tile exists.
func (w *World) OwnerOf(addr hexmap.Address) (int, bool) {
	tile, ok := w.tiles[addr]
	if !ok {
		return Unowned, false
	}
	return tile.Owner, true
}

// AddUnits adjusts the unit count of a tile. A change that would make the
// count negative is refused.
func (w *World) AddUnits(addr hexmap.Address, delta int) bool {
	tile, ok := w.tiles[addr]
	if !ok || tile.Units+delta < 0 {
		return false
	}
	return w.SetUnits(addr, tile.Units+delta)
}

// SetUnits overwrites the unit count of a tile.
func (w *World) SetUnits(addr hexmap.Address, units int) bool {
	tile, ok := w.tiles[addr]
	if !ok || units < 0 {
		return false
	}
	if tile.Units == units {
		return true
	}
	tile.Units = units
	w.sink.Dispatch(event.Event{
		Type: event.TileUnitsChanged,
		Data: UnitsChange{Address: addr, Units: units},
	})
	return true
}
