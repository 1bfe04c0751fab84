// internal/config/config.go
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Presentation constants. They size the window only and are not part of the
// tunable game surface.
const (
	ScreenWidth     = 1200
	ScreenHeight    = 900
	ClickCooldownMs = 150
	HUDLineHeight   = 16
	HUDMarginX      = 12
	HUDMarginY      = 20
	TileStrokeWidth = 1.0
)

var (
	BackgroundColor = color.RGBA{10, 12, 24, 255}
	LandColor       = color.RGBA{45, 90, 45, 255}
	WaterColor      = color.RGBA{26, 58, 82, 255}
	MountainColor   = color.RGBA{90, 90, 90, 255}
	OutlineColor    = color.RGBA{68, 68, 68, 255}
	SelectColor     = color.RGBA{74, 158, 255, 255}
	HoverColor      = color.RGBA{200, 200, 200, 255}
	TextLightColor  = color.RGBA{240, 240, 240, 255}
	ProgressColor   = color.RGBA{255, 215, 0, 255}
)

// Config holds every externally tunable value of a session.
type Config struct {
	Seed         int64          `yaml:"seed"`
	MaxDeltaTime float64        `yaml:"max_delta_time"`
	World        WorldConfig    `yaml:"world"`
	Economy      EconomyConfig  `yaml:"economy"`
	Costs        Costs          `yaml:"costs"`
	Health       Health         `yaml:"health"`
	Takeover     TakeoverConfig `yaml:"takeover"`
	Players      []PlayerConfig `yaml:"players"`
	Storage      StorageConfig  `yaml:"storage"`
}

type WorldConfig struct {
	Resolution   int            `yaml:"resolution"`
	RingRadius   int            `yaml:"ring_radius"`
	SphereRadius float64        `yaml:"sphere_radius"`
	CenterLat    float64        `yaml:"center_lat"`
	CenterLng    float64        `yaml:"center_lng"`
	MaxResources int            `yaml:"max_resources"`
	Terrain      TerrainWeights `yaml:"terrain"`
}

// TerrainWeights are relative draw weights; they need not sum to 100.
type TerrainWeights struct {
	Water    int `yaml:"water"`
	Mountain int `yaml:"mountain"`
	Land     int `yaml:"land"`
}

type EconomyConfig struct {
	StartingBalance float64 `yaml:"starting_balance"`
	IncomeDivisor   float64 `yaml:"income_divisor"`
}

type Costs struct {
	Claim    float64 `yaml:"claim"`
	Soldier  float64 `yaml:"soldier"`
	Archer   float64 `yaml:"archer"`
	Scout    float64 `yaml:"scout"`
	Barracks float64 `yaml:"barracks"`
	Market   float64 `yaml:"market"`
	Tower    float64 `yaml:"tower"`
}

type Health struct {
	Soldier  int `yaml:"soldier"`
	Archer   int `yaml:"archer"`
	Scout    int `yaml:"scout"`
	Barracks int `yaml:"barracks"`
	Market   int `yaml:"market"`
	Tower    int `yaml:"tower"`
}

type TakeoverConfig struct {
	BaseDuration float64 `yaml:"base_duration"`
	Percent      int     `yaml:"percent"`
}

type PlayerConfig struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

type StorageConfig struct {
	SavePath    string `yaml:"save_path"`
	JournalPath string `yaml:"journal_path"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		Seed:         0,
		MaxDeltaTime: 0.25,
		World: WorldConfig{
			Resolution:   2,
			RingRadius:   4,
			SphereRadius: 90,
			MaxResources: 100,
			Terrain:      TerrainWeights{Water: 30, Mountain: 40, Land: 30},
		},
		Economy: EconomyConfig{StartingBalance: 1000, IncomeDivisor: 100},
		Costs: Costs{
			Claim:    50,
			Soldier:  100,
			Archer:   100,
			Scout:    75,
			Barracks: 200,
			Market:   150,
			Tower:    300,
		},
		Health: Health{
			Soldier:  20,
			Archer:   15,
			Scout:    10,
			Barracks: 80,
			Market:   60,
			Tower:    100,
		},
		Takeover: TakeoverConfig{BaseDuration: 8, Percent: 50},
		Players: []PlayerConfig{
			{Name: "Player 1", Color: "#ff6666"},
			{Name: "Player 2", Color: "#66a3ff"},
			{Name: "Player 3", Color: "#ffd166"},
		},
		Storage: StorageConfig{
			SavePath:    "saves/hexsphere.db",
			JournalPath: "logs/journal.jsonl.zst",
		},
	}
}

//go:embed schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("config.schema.json", schemaJSON)

// Load reads a yaml file, validates it and overlays it onto Default.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(raw)
}

// Parse is Load without the file system.
func Parse(raw []byte) (Config, error) {
	cfg := Default()
	if len(bytes.TrimSpace(raw)) == 0 {
		return cfg, nil
	}

	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Config{}, fmt.Errorf("config yaml: %w", err)
	}
	// Round-trip through JSON so the validator sees JSON-native types.
	js, err := json.Marshal(doc)
	if err != nil {
		return Config{}, fmt.Errorf("config yaml: %w", err)
	}
	var generic interface{}
	if err := json.Unmarshal(js, &generic); err != nil {
		return Config{}, fmt.Errorf("config yaml: %w", err)
	}
	if err := schema.Validate(generic); err != nil {
		return Config{}, fmt.Errorf("config schema: %w", err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the cross-field rules the schema cannot express.
func (c Config) Validate() error {
	w := c.World.Terrain
	if w.Water < 0 || w.Mountain < 0 || w.Land < 0 {
		return errors.New("config: terrain weights must be non-negative")
	}
	if w.Water+w.Mountain+w.Land <= 0 {
		return errors.New("config: terrain weights must not all be zero")
	}
	if c.World.Resolution < 0 || c.World.Resolution > 15 {
		return fmt.Errorf("config: resolution %d out of range 0..15", c.World.Resolution)
	}
	if c.World.RingRadius < 0 {
		return fmt.Errorf("config: ring radius %d is negative", c.World.RingRadius)
	}
	if c.World.SphereRadius <= 0 {
		return errors.New("config: sphere radius must be positive")
	}
	if c.Takeover.BaseDuration <= 0 {
		return errors.New("config: takeover base duration must be positive")
	}
	if c.Takeover.Percent < 1 || c.Takeover.Percent > 100 {
		return fmt.Errorf("config: takeover percent %d out of range 1..100", c.Takeover.Percent)
	}
	if c.Economy.IncomeDivisor <= 0 {
		return errors.New("config: income divisor must be positive")
	}
	if len(c.Players) == 0 {
		return errors.New("config: at least one player is required")
	}
	return nil
}
