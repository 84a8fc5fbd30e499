package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Garsondee/Tile-Engine/internal/geom"
)

func TestDefaultConfig_Valid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	c := DefaultConfig()
	if c.ViewWidth() != 320 || c.ViewHeight() != 240 {
		t.Fatalf("expected a 320x240 view, got %vx%v", c.ViewWidth(), c.ViewHeight())
	}
}

func TestValidate_Errors(t *testing.T) {
	cases := map[string]Option{
		"non-square tiles": WithTileSize(16, 32),
		"zero tiles":       WithTileSize(0, 0),
		"no canvas":        WithCanvas(0, 480),
		"bad scale":        WithScale(0),
		"tiny region":      WithCameraBounds(geom.R(0, 0, 100, 100)),
		"negative log":     WithLogCapacity(-1),
	}
	for name, opt := range cases {
		t.Run(name, func(t *testing.T) {
			c := DefaultConfig()
			opt(&c)
			if err := c.Validate(); !errors.Is(err, ErrConfig) {
				t.Fatalf("expected ErrConfig, got %v", err)
			}
		})
	}
}

func TestParseConfig_Overrides(t *testing.T) {
	c, err := ParseConfig([]byte(`{"scale": 1, "tile_width": 32, "tile_height": 32,
		"camera_bounds": [0, 0, 2000, 1000], "initial_mode": "Menu", "production": true}`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if c.Scale != 1 || c.TileWidth != 32 || c.InitialMode != ModeMenu || !c.Production {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if c.CanvasWidth != 640 {
		t.Fatalf("absent fields should keep defaults, got canvas width %d", c.CanvasWidth)
	}
	if !c.CameraBounds.Equals(geom.R(0, 0, 2000, 1000)) {
		t.Fatalf("expected camera bounds [0, 0, 2000, 1000], got %v", c.CameraBounds)
	}
}

func TestParseConfig_ValidatesResult(t *testing.T) {
	if _, err := ParseConfig([]byte(`{"tile_height": 8}`)); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
	if _, err := ParseConfig([]byte(`{`)); err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.json")
	if err := os.WriteFile(path, []byte(`{"log_capacity": 10}`), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if c.LogCapacity != 10 {
		t.Fatalf("expected log capacity 10, got %d", c.LogCapacity)
	}
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
