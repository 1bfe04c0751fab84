// internal/event/types.go
package event

const (
	TileSelected     EventType = "TileSelected"
	TileDeselected   EventType = "TileDeselected"
	TileHovered      EventType = "TileHovered"
	TileOwnerChanged EventType = "TileOwnerChanged" // Data: OwnerChange
	TileUnitsChanged EventType = "TileUnitsChanged"
	WorldRegenerated EventType = "WorldRegenerated"

	BalanceChanged EventType = "BalanceChanged"

	TakeoverStarted  EventType = "TakeoverStarted"
	TakeoverProgress EventType = "TakeoverProgress"
	TakeoverResolved EventType = "TakeoverResolved"
	TakeoverConsumed EventType = "TakeoverConsumed" // finished, but the tile already changed hands this tick

	UnitSpawned    EventType = "UnitSpawned"
	StructureBuilt EventType = "StructureBuilt"
	PlayerSwitched EventType = "PlayerSwitched"
	PlayerUpdated  EventType = "PlayerUpdated" // Data: app.Player
	ActionRejected EventType = "ActionRejected" // Data: Rejection
)

// Rejection describes a player action that was refused.
type Rejection struct {
	Action string `json:"action"`
	Player int    `json:"player"`
	Reason string `json:"reason"`
}
