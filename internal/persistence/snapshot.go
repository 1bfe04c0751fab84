package persistence

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pierrec/lz4/v4"
	"lukechampine.com/blake3"

	"go-hex-conquest/internal/takeover"
	"go-hex-conquest/pkg/hexmap"
)

// SnapshotVersion is bumped whenever the record layout changes.
const SnapshotVersion = 1

var (
	ErrNotFound = errors.New("save not found")
	ErrCorrupt  = errors.New("save digest mismatch")
)

// Snapshot is everything needed to rebuild a session. Terrain and resource
// yields are not stored; they are regenerated from Seed.
type Snapshot struct {
	Version         int               `json:"version"`
	SavedAt         time.Time         `json:"saved_at"`
	Seed            int64             `json:"seed"`
	GameTime        float64           `json:"game_time"`
	CurrentPlayer   int               `json:"current_player"`
	TakeoverPercent int               `json:"takeover_percent"`
	Players         []PlayerRecord    `json:"players"`
	Tiles           []TileRecord      `json:"tiles"`
	Units           []UnitRecord      `json:"units"`
	Structures      []StructureRecord `json:"structures"`
	Tasks           []takeover.Task   `json:"tasks"`
}

type PlayerRecord struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Color   string  `json:"color"`
	Balance float64 `json:"balance"`
	Income  float64 `json:"income"`
}

// TileRecord holds only the mutable part of a tile.
type TileRecord struct {
	Address hexmap.Address `json:"address"`
	Owner   int            `json:"owner"`
	Units   int            `json:"units"`
}

type UnitRecord struct {
	ID        string         `json:"id"`
	Owner     int            `json:"owner"`
	Type      string         `json:"type"`
	Health    int            `json:"health"`
	MaxHealth int            `json:"max_health"`
	Tile      hexmap.Address `json:"tile"`
}

type StructureRecord struct {
	ID        string         `json:"id"`
	Owner     int            `json:"owner"`
	Type      string         `json:"type"`
	Health    int            `json:"health"`
	MaxHealth int            `json:"max_health"`
	Tile      hexmap.Address `json:"tile"`
}

// Encode serialises a snapshot to lz4-compressed JSON and returns the blake3
// digest of the uncompressed JSON.
func Encode(snap Snapshot) ([]byte, string, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, "", fmt.Errorf("snapshot encode: %w", err)
	}
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, "", fmt.Errorf("snapshot compress: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, "", fmt.Errorf("snapshot compress: %w", err)
	}
	return buf.Bytes(), digest(raw), nil
}

// Decode reverses Encode and checks the digest.
func Decode(payload []byte, want string) (Snapshot, error) {
	var snap Snapshot
	raw, err := io.ReadAll(lz4.NewReader(bytes.NewReader(payload)))
	if err != nil {
		return snap, fmt.Errorf("snapshot decompress: %w", err)
	}
	if got := digest(raw); got != want {
		return snap, fmt.Errorf("%w: have %s, want %s", ErrCorrupt, got, want)
	}
	if err := json.Unmarshal(raw, &snap); err != nil {
		return snap, fmt.Errorf("snapshot decode: %w", err)
	}
	if snap.Version != SnapshotVersion {
		return snap, fmt.Errorf("snapshot version %d not supported", snap.Version)
	}
	return snap, nil
}

func digest(b []byte) string {
	sum := blake3.Sum256(b)
	return hex.EncodeToString(sum[:])
}
