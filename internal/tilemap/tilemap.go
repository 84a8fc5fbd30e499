// Package tilemap loads Tiled JSON maps and answers the one question the
// collision handler asks of them: which tile-sized rects in a region are
// colliders.
package tilemap

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/Garsondee/Tile-Engine/internal/geom"
)

// ErrMalformed marks map data the loader cannot make sense of.
var ErrMalformed = errors.New("tilemap: malformed data")

// maxGID guards against flip-flagged or corrupt gids.
const maxGID = 200000

// SpritesheetTile locates a tile's image in its tileset.
type SpritesheetTile struct {
	Image      string
	Col, Row   int
	TileWidth  int
	TileHeight int
}

// Tile is one placed tile. X and Y are in pixels, layer offset included.
type Tile struct {
	X, Y       float64
	GID        uint32
	IsCollider bool
	Properties map[string]any
	Sheet      SpritesheetTile
}

// Empty reports an unset cell.
func (t Tile) Empty() bool { return t.GID == 0 }

// TileLayer is a dense row-major block of tiles starting at
// (OriginCol, OriginRow) in tile coordinates.
type TileLayer struct {
	Name      string
	Offset    geom.Vector2
	OriginCol int
	OriginRow int
	Cols      int
	Rows      int
	Tiles     []Tile // index = (row-OriginRow)*Cols + (col-OriginCol)
}

func newTileLayer(name string, originCol, originRow, cols, rows int) *TileLayer {
	return &TileLayer{
		Name:      name,
		OriginCol: originCol,
		OriginRow: originRow,
		Cols:      cols,
		Rows:      rows,
		Tiles:     make([]Tile, cols*rows),
	}
}

func (l *TileLayer) inBounds(col, row int) bool {
	c, r := col-l.OriginCol, row-l.OriginRow
	return c >= 0 && c < l.Cols && r >= 0 && r < l.Rows
}

// At returns the tile at (col, row), or nil when out of bounds or empty.
func (l *TileLayer) At(col, row int) *Tile {
	if !l.inBounds(col, row) {
		return nil
	}
	t := &l.Tiles[(row-l.OriginRow)*l.Cols+(col-l.OriginCol)]
	if t.Empty() {
		return nil
	}
	return t
}

func (l *TileLayer) set(col, row int, t Tile) {
	l.Tiles[(row-l.OriginRow)*l.Cols+(col-l.OriginCol)] = t
}

// Count is the number of non-empty tiles.
func (l *TileLayer) Count() int {
	n := 0
	for i := range l.Tiles {
		if !l.Tiles[i].Empty() {
			n++
		}
	}
	return n
}

// Region is a rect drawn on an object layer.
type Region struct {
	Name       string
	Type       string
	Rect       geom.Rect
	Properties map[string]string
}

// Tileset is one tileset with its gid range [GIDStart, GIDEnd).
type Tileset struct {
	Name        string
	Image       string
	GIDStart    uint32
	GIDEnd      uint32
	ImageWidth  int
	ImageHeight int
	TileWidth   int
	TileHeight  int

	tiles map[int]tiledTile
}

// Map is a loaded tilemap.
type Map struct {
	TileWidth  int
	TileHeight int

	tilesets     []Tileset
	colliderGIDs map[uint32]bool
	layerNames   []string
	tileLayers   map[string]*TileLayer
	rectLayers   map[string][]Region
}

// Load reads and parses a Tiled JSON file.
func Load(path string) (*Map, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- map path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("tilemap: read %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a Tiled JSON document.
func Parse(data []byte) (*Map, error) {
	var raw tiledMap
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("tilemap: decode: %w", err)
	}
	if raw.TileWidth <= 0 || raw.TileHeight <= 0 {
		return nil, fmt.Errorf("%w: tile size %dx%d", ErrMalformed, raw.TileWidth, raw.TileHeight)
	}
	if raw.TileWidth != raw.TileHeight {
		return nil, fmt.Errorf("%w: tiles must be square, got %dx%d", ErrMalformed, raw.TileWidth, raw.TileHeight)
	}

	m := &Map{
		TileWidth:    raw.TileWidth,
		TileHeight:   raw.TileHeight,
		colliderGIDs: make(map[uint32]bool),
		tileLayers:   make(map[string]*TileLayer),
		rectLayers:   make(map[string][]Region),
	}
	if err := m.loadTilesets(raw.Tilesets); err != nil {
		return nil, err
	}
	for _, layer := range flatten(raw.Layers) {
		if err := m.loadLayer(layer); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// flatten expands group layers in document order.
func flatten(layers []tiledLayer) []tiledLayer {
	var out []tiledLayer
	for _, l := range layers {
		if l.Type == "group" {
			out = append(out, flatten(l.Layers)...)
			continue
		}
		out = append(out, l)
	}
	return out
}

func (m *Map) loadTilesets(sets []tiledTileset) error {
	for _, ts := range sets {
		if ts.TileWidth <= 0 || ts.TileHeight <= 0 {
			return fmt.Errorf("%w: tileset %q has tile size %dx%d", ErrMalformed, ts.Name, ts.TileWidth, ts.TileHeight)
		}
		count := (ts.ImageWidth * ts.ImageHeight) / (ts.TileWidth * ts.TileHeight)
		set := Tileset{
			Name:        ts.Name,
			Image:       ts.Image,
			GIDStart:    ts.FirstGID,
			GIDEnd:      ts.FirstGID + uint32(count),
			ImageWidth:  ts.ImageWidth,
			ImageHeight: ts.ImageHeight,
			TileWidth:   ts.TileWidth,
			TileHeight:  ts.TileHeight,
			tiles:       make(map[int]tiledTile, len(ts.Tiles)),
		}
		for _, tile := range ts.Tiles {
			set.tiles[tile.ID] = tile
			// Any collision object marks the whole tile solid.
			if tile.ObjectGroup != nil && len(tile.ObjectGroup.Objects) > 0 {
				m.colliderGIDs[ts.FirstGID+uint32(tile.ID)] = true
			}
		}
		m.tilesets = append(m.tilesets, set)
	}
	return nil
}

func (m *Map) loadLayer(layer tiledLayer) error {
	if _, dup := m.tileLayers[layer.Name]; dup {
		return fmt.Errorf("%w: duplicate layer name %q", ErrMalformed, layer.Name)
	}
	if _, dup := m.rectLayers[layer.Name]; dup {
		return fmt.Errorf("%w: duplicate layer name %q", ErrMalformed, layer.Name)
	}

	switch layer.Type {
	case "tilelayer":
		tl, err := m.loadTiles(layer)
		if err != nil {
			return err
		}
		m.tileLayers[layer.Name] = tl
	case "objectgroup":
		regions, err := loadRegions(layer)
		if err != nil {
			return err
		}
		m.rectLayers[layer.Name] = regions
	case "imagelayer":
		return nil
	default:
		return fmt.Errorf("%w: layer %q has unknown type %q", ErrMalformed, layer.Name, layer.Type)
	}
	m.layerNames = append(m.layerNames, layer.Name)
	return nil
}

func loadRegions(layer tiledLayer) ([]Region, error) {
	var out []Region
	for _, obj := range layer.Objects {
		// Objects with a gid are placed tiles, not regions.
		if obj.GID != 0 {
			continue
		}
		props, err := parseProperties(obj.Properties)
		if err != nil {
			return nil, fmt.Errorf("%w: layer %q object %d: %v", ErrMalformed, layer.Name, obj.ID, err)
		}
		out = append(out, Region{
			Name:       obj.Name,
			Type:       obj.Type,
			Rect:       geom.R(obj.X+layer.OffsetX, obj.Y+layer.OffsetY, obj.Width, obj.Height),
			Properties: props,
		})
	}
	return out, nil
}

func (m *Map) loadTiles(layer tiledLayer) (*TileLayer, error) {
	offCol := layer.OffsetX / float64(m.TileWidth)
	offRow := layer.OffsetY / float64(m.TileHeight)
	if offCol != math.Floor(offCol) || offRow != math.Floor(offRow) {
		return nil, fmt.Errorf("%w: layer %q offset (%v, %v) is not a whole number of tiles",
			ErrMalformed, layer.Name, layer.OffsetX, layer.OffsetY)
	}

	chunks := layer.Chunks
	if len(chunks) == 0 && len(layer.Data) > 0 {
		chunks = []tiledChunk{{Data: layer.Data, Width: layer.Width, Height: layer.Height}}
	}

	minCol, minRow := math.MaxInt, math.MaxInt
	maxCol, maxRow := math.MinInt, math.MinInt
	for _, c := range chunks {
		if c.Width <= 0 || len(c.Data) != c.Width*c.Height {
			return nil, fmt.Errorf("%w: layer %q chunk at (%d, %d) has %d tiles for %dx%d",
				ErrMalformed, layer.Name, c.X, c.Y, len(c.Data), c.Width, c.Height)
		}
		minCol, minRow = min(minCol, c.X), min(minRow, c.Y)
		maxCol, maxRow = max(maxCol, c.X+c.Width), max(maxRow, c.Y+c.Height)
	}
	if len(chunks) == 0 {
		tl := newTileLayer(layer.Name, 0, 0, 0, 0)
		tl.Offset = geom.Vec(layer.OffsetX, layer.OffsetY)
		return tl, nil
	}

	oc, or := int(offCol), int(offRow)
	tl := newTileLayer(layer.Name, minCol+oc, minRow+or, maxCol-minCol, maxRow-minRow)
	tl.Offset = geom.Vec(layer.OffsetX, layer.OffsetY)

	for _, c := range chunks {
		for i, gid := range c.Data {
			if gid == 0 {
				continue
			}
			if gid > maxGID {
				return nil, fmt.Errorf("%w: layer %q has gid %d", ErrMalformed, layer.Name, gid)
			}
			col := i%c.Width + c.X + oc
			row := i/c.Width + c.Y + or

			sheet, props, err := m.gidInfo(gid)
			if err != nil {
				return nil, fmt.Errorf("layer %q: %w", layer.Name, err)
			}
			tl.set(col, row, Tile{
				X:          float64(col * m.TileWidth),
				Y:          float64(row * m.TileHeight),
				GID:        gid,
				IsCollider: m.colliderGIDs[gid],
				Properties: props,
				Sheet:      sheet,
			})
		}
	}
	return tl, nil
}

func (m *Map) gidInfo(gid uint32) (SpritesheetTile, map[string]any, error) {
	for _, ts := range m.tilesets {
		if gid < ts.GIDStart || gid >= ts.GIDEnd {
			continue
		}
		local := int(gid - ts.GIDStart)
		wide := ts.ImageWidth / ts.TileWidth
		if wide == 0 {
			wide = 1
		}
		sheet := SpritesheetTile{
			Image:      ts.Image,
			Col:        local % wide,
			Row:        local / wide,
			TileWidth:  ts.TileWidth,
			TileHeight: ts.TileHeight,
		}
		props := map[string]any{}
		if info, ok := ts.tiles[local]; ok {
			for _, p := range info.Properties {
				v, err := propertyValue(p)
				if err != nil {
					return sheet, nil, fmt.Errorf("%w: gid %d: %v", ErrMalformed, gid, err)
				}
				props[p.Name] = v
			}
		}
		return sheet, props, nil
	}
	return SpritesheetTile{}, nil, fmt.Errorf("%w: gid %d is outside every tileset", ErrMalformed, gid)
}

// IsColliderGID reports whether tiles with this gid are solid.
func (m *Map) IsColliderGID(gid uint32) bool {
	return m.colliderGIDs[gid]
}

// LayerNames lists tile and object layers in document order.
func (m *Map) LayerNames() []string {
	out := make([]string, len(m.layerNames))
	copy(out, m.layerNames)
	return out
}

// TileLayer returns the named tile layer.
func (m *Map) TileLayer(name string) (*TileLayer, bool) {
	l, ok := m.tileLayers[name]
	return l, ok
}

// Regions returns the rects of the named object layer.
func (m *Map) Regions(layer string) []Region {
	return m.rectLayers[layer]
}

// RegionsNamed returns regions on any object layer with the given name.
func (m *Map) RegionsNamed(name string) []Region {
	var out []Region
	for _, layer := range m.layerNames {
		for _, r := range m.rectLayers[layer] {
			if r.Name == name {
				out = append(out, r)
			}
		}
	}
	return out
}

func (m *Map) Tilesets() []Tileset {
	return m.tilesets
}

// TileAt returns the tile covering pixel (x, y) on a tile layer.
func (m *Map) TileAt(x, y float64, layer string) (*Tile, bool) {
	l, ok := m.tileLayers[layer]
	if !ok {
		return nil, false
	}
	t := l.At(int(math.Floor(x/float64(m.TileWidth))), int(math.Floor(y/float64(m.TileHeight))))
	return t, t != nil
}

// TilesAt returns the tiles covering pixel (x, y) on every tile layer.
func (m *Map) TilesAt(x, y float64) []Tile {
	var out []Tile
	for _, name := range m.layerNames {
		if t, ok := m.TileAt(x, y, name); ok {
			out = append(out, *t)
		}
	}
	return out
}

// CollidersInRegionForLayer returns a tile-sized rect for every collider
// tile from floor(region/tile) to ceil(region far edge/tile), inclusive.
func (m *Map) CollidersInRegionForLayer(region geom.Rect, layer string) geom.Shape {
	l, ok := m.tileLayers[layer]
	if !ok {
		return geom.Group()
	}
	tw, th := float64(m.TileWidth), float64(m.TileHeight)
	lowX, highX := int(math.Floor(region.X/tw)), int(math.Ceil(region.Right()/tw))
	lowY, highY := int(math.Floor(region.Y/th)), int(math.Ceil(region.Bottom()/th))

	var rects []geom.Rect
	for x := lowX; x <= highX; x++ {
		for y := lowY; y <= highY; y++ {
			if t := l.At(x, y); t != nil && t.IsCollider {
				rects = append(rects, geom.R(float64(x)*tw, float64(y)*th, tw, th))
			}
		}
	}
	return geom.Group(rects...)
}

// CollidersInRegion gathers collider rects from every tile layer.
func (m *Map) CollidersInRegion(region geom.Rect) []geom.Rect {
	var out []geom.Rect
	for _, name := range m.layerNames {
		if _, ok := m.tileLayers[name]; !ok {
			continue
		}
		out = append(out, m.CollidersInRegionForLayer(region, name).Rects()...)
	}
	return out
}

// Bounds is the pixel extent of all tile layers.
func (m *Map) Bounds() geom.Rect {
	var rects []geom.Rect
	for _, name := range m.layerNames {
		l, ok := m.tileLayers[name]
		if !ok || l.Cols == 0 {
			continue
		}
		rects = append(rects, geom.R(
			float64(l.OriginCol*m.TileWidth), float64(l.OriginRow*m.TileHeight),
			float64(l.Cols*m.TileWidth), float64(l.Rows*m.TileHeight),
		))
	}
	return geom.BoundingRect(rects...)
}
