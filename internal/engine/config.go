package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/Garsondee/Tile-Engine/internal/geom"
)

// ErrConfig marks a configuration the engine refuses to start with.
var ErrConfig = errors.New("engine: invalid configuration")

// Config sizes the canvas, the tiles and the camera region.
type Config struct {
	CanvasWidth  int     // window pixels
	CanvasHeight int     // window pixels
	Scale        float64 // world pixels are drawn Scale window pixels wide
	TileWidth    int
	TileHeight   int

	// CameraBounds is the region the camera may frame; the collision grid is
	// built over it every tick.
	CameraBounds geom.Rect

	// Production turns duplicate coroutine names into a logged no-op.
	Production bool
	// Debug starts with the camera frozen and overlays on.
	Debug       bool
	InitialMode Mode
	// LogCapacity bounds the SimLog; 0 keeps everything.
	LogCapacity int
	// VerboseLog also records per-tick collision events.
	VerboseLog bool

	Logger *log.Logger
}

// DefaultConfig is a 640x480 canvas at 2x with 16px tiles.
func DefaultConfig() Config {
	return Config{
		CanvasWidth:  640,
		CanvasHeight: 480,
		Scale:        2,
		TileWidth:    16,
		TileHeight:   16,
		CameraBounds: geom.R(-5000, -5000, 10000, 10000),
		InitialMode:  ModeNormal,
		LogCapacity:  2000,
	}
}

// ViewWidth is the canvas width in world pixels.
func (c Config) ViewWidth() float64 { return float64(c.CanvasWidth) / c.Scale }

// ViewHeight is the canvas height in world pixels.
func (c Config) ViewHeight() float64 { return float64(c.CanvasHeight) / c.Scale }

// Validate reports every problem wrapped in ErrConfig.
func (c Config) Validate() error {
	var errs []error
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		errs = append(errs, fmt.Errorf("%w: canvas %dx%d", ErrConfig, c.CanvasWidth, c.CanvasHeight))
	}
	if c.Scale <= 0 {
		errs = append(errs, fmt.Errorf("%w: scale %v", ErrConfig, c.Scale))
	}
	if c.TileWidth <= 0 || c.TileHeight <= 0 {
		errs = append(errs, fmt.Errorf("%w: tile size %dx%d", ErrConfig, c.TileWidth, c.TileHeight))
	}
	if c.TileWidth != c.TileHeight {
		errs = append(errs, fmt.Errorf("%w: tiles must be square, got %dx%d", ErrConfig, c.TileWidth, c.TileHeight))
	}
	if c.LogCapacity < 0 {
		errs = append(errs, fmt.Errorf("%w: log capacity %d", ErrConfig, c.LogCapacity))
	}
	if c.Scale > 0 {
		if err := checkCameraRegion(c.CameraBounds, c.ViewWidth(), c.ViewHeight()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func checkCameraRegion(r geom.Rect, viewW, viewH float64) error {
	if r.W < viewW || r.H < viewH {
		return fmt.Errorf("%w: camera region %v is smaller than the %vx%v view", ErrConfig, r, viewW, viewH)
	}
	return nil
}

// Option adjusts a Config before validation.
type Option func(*Config)

func WithCanvas(w, h int) Option {
	return func(c *Config) { c.CanvasWidth, c.CanvasHeight = w, h }
}

func WithScale(s float64) Option {
	return func(c *Config) { c.Scale = s }
}

func WithTileSize(w, h int) Option {
	return func(c *Config) { c.TileWidth, c.TileHeight = w, h }
}

func WithCameraBounds(r geom.Rect) Option {
	return func(c *Config) { c.CameraBounds = r }
}

func WithProduction(on bool) Option {
	return func(c *Config) { c.Production = on }
}

func WithDebug(on bool) Option {
	return func(c *Config) { c.Debug = on }
}

func WithInitialMode(m Mode) Option {
	return func(c *Config) { c.InitialMode = m }
}

// WithLogCapacity bounds the SimLog ring; 0 is unbounded.
func WithLogCapacity(n int) Option {
	return func(c *Config) { c.LogCapacity = n }
}

func WithVerboseLog(on bool) Option {
	return func(c *Config) { c.VerboseLog = on }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// configFile is the JSON shape of a config override file. Absent fields keep
// their defaults.
type configFile struct {
	CanvasWidth  *int        `json:"canvas_width"`
	CanvasHeight *int        `json:"canvas_height"`
	Scale        *float64    `json:"scale"`
	TileWidth    *int        `json:"tile_width"`
	TileHeight   *int        `json:"tile_height"`
	CameraBounds *[4]float64 `json:"camera_bounds"` // x, y, w, h
	Production   *bool       `json:"production"`
	Debug        *bool       `json:"debug"`
	InitialMode  *string     `json:"initial_mode"`
	LogCapacity  *int        `json:"log_capacity"`
	VerboseLog   *bool       `json:"verbose_log"`
}

// LoadConfig reads JSON overrides from path on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied config path
	if err != nil {
		return Config{}, fmt.Errorf("engine: read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig applies JSON overrides to DefaultConfig and validates the result.
func ParseConfig(data []byte) (Config, error) {
	var f configFile
	if err := json.Unmarshal(data, &f); err != nil {
		return Config{}, fmt.Errorf("engine: decode config: %w", err)
	}
	c := DefaultConfig()
	if f.CanvasWidth != nil {
		c.CanvasWidth = *f.CanvasWidth
	}
	if f.CanvasHeight != nil {
		c.CanvasHeight = *f.CanvasHeight
	}
	if f.Scale != nil {
		c.Scale = *f.Scale
	}
	if f.TileWidth != nil {
		c.TileWidth = *f.TileWidth
	}
	if f.TileHeight != nil {
		c.TileHeight = *f.TileHeight
	}
	if b := f.CameraBounds; b != nil {
		c.CameraBounds = geom.R(b[0], b[1], b[2], b[3])
	}
	if f.Production != nil {
		c.Production = *f.Production
	}
	if f.Debug != nil {
		c.Debug = *f.Debug
	}
	if f.InitialMode != nil {
		c.InitialMode = Mode(*f.InitialMode)
	}
	if f.LogCapacity != nil {
		c.LogCapacity = *f.LogCapacity
	}
	if f.VerboseLog != nil {
		c.VerboseLog = *f.VerboseLog
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
