package tilemap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Garsondee/Tile-Engine/internal/geom"
)

const tilesetJSON = `{
	"name": "dungeon", "firstgid": 1, "image": "dungeon.png",
	"imagewidth": 64, "imageheight": 32, "tilewidth": 16, "tileheight": 16, "columns": 4,
	"tiles": [
		{"id": 0, "properties": [{"name": "kind", "type": "string", "value": "grass"}]},
		{"id": 1, "objectgroup": {"type": "objectgroup", "objects": [{"id": 1, "x": 0, "y": 0, "width": 16, "height": 16}]}}
	]
}`

// Ground is a finite 4x3 layer of grass. Walls is a chunked layer, nested
// in a group and shifted one tile right, with solid tiles at (1,0) and (2,1).
const mapJSON = `{
	"width": 4, "height": 3, "tilewidth": 16, "tileheight": 16,
	"tilesets": [` + tilesetJSON + `],
	"layers": [
		{"name": "ground", "type": "tilelayer", "width": 4, "height": 3,
		 "data": [1,1,1,1, 1,1,1,1, 1,1,1,1]},
		{"name": "structures", "type": "group", "layers": [
			{"name": "walls", "type": "tilelayer", "offsetx": 16, "offsety": 0,
			 "chunks": [{"x": 0, "y": 0, "width": 2, "height": 2, "data": [2,0, 0,2]}]}
		]},
		{"name": "regions", "type": "objectgroup", "objects": [
			{"id": 7, "name": "spawn", "type": "marker", "x": 8, "y": 8, "width": 16, "height": 16,
			 "properties": [{"name": "facing", "type": "string", "value": "left"}, {"name": "speed", "type": "int", "value": 2}]},
			{"id": 8, "name": "crate", "gid": 2, "x": 0, "y": 0, "width": 16, "height": 16}
		]}
	]
}`

func mustParse(t *testing.T, src string) *Map {
	t.Helper()
	m, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return m
}

func TestParse_LayersFlattenedInOrder(t *testing.T) {
	m := mustParse(t, mapJSON)
	names := m.LayerNames()
	want := []string{"ground", "walls", "regions"}
	if len(names) != len(want) {
		t.Fatalf("expected layers %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected layers %v, got %v", want, names)
		}
	}
}

func TestTileAt_AppliesLayerOffset(t *testing.T) {
	m := mustParse(t, mapJSON)

	tile, ok := m.TileAt(17, 3, "walls")
	if !ok {
		t.Fatal("expected a wall tile at (17, 3)")
	}
	if tile.GID != 2 || !tile.IsCollider || tile.X != 16 || tile.Y != 0 {
		t.Fatalf("unexpected tile %+v", *tile)
	}
	if _, ok := m.TileAt(3, 3, "walls"); ok {
		t.Fatal("offset layer should be empty in its first column")
	}
	if _, ok := m.TileAt(3, 3, "nope"); ok {
		t.Fatal("unknown layer should report no tile")
	}
}

func TestTileAt_SheetAndProperties(t *testing.T) {
	m := mustParse(t, mapJSON)

	wall, _ := m.TileAt(16, 0, "walls")
	if wall.Sheet.Col != 1 || wall.Sheet.Row != 0 || wall.Sheet.Image != "dungeon.png" {
		t.Fatalf("unexpected sheet position %+v", wall.Sheet)
	}
	grass, _ := m.TileAt(0, 0, "ground")
	if grass.Properties["kind"] != "grass" {
		t.Fatalf("expected kind=grass, got %v", grass.Properties)
	}
	if grass.IsCollider {
		t.Fatal("grass has no collision objects")
	}
}

func TestTilesAt_AllLayers(t *testing.T) {
	m := mustParse(t, mapJSON)
	if got := len(m.TilesAt(17, 3)); got != 2 {
		t.Fatalf("expected ground and wall, got %d tiles", got)
	}
	if got := len(m.TilesAt(500, 500)); got != 0 {
		t.Fatalf("expected nothing outside the map, got %d", got)
	}
}

func TestCollidersInRegionForLayer_InclusiveCeiling(t *testing.T) {
	m := mustParse(t, mapJSON)

	// ceil(10/16) = 1, so column 1 is scanned even though the region ends at x=10.
	small := m.CollidersInRegionForLayer(geom.R(0, 0, 10, 10), "walls")
	if small.Len() != 1 || !small.Rects()[0].Equals(geom.R(16, 0, 16, 16)) {
		t.Fatalf("expected the (1,0) wall, got %v", small)
	}
	wide := m.CollidersInRegionForLayer(geom.R(0, 0, 20, 20), "walls")
	if wide.Len() != 2 {
		t.Fatalf("expected 2 colliders, got %d", wide.Len())
	}
	if m.CollidersInRegionForLayer(geom.R(0, 0, 64, 48), "ground").Len() != 0 {
		t.Fatal("ground layer has no colliders")
	}
	if m.CollidersInRegionForLayer(geom.R(0, 0, 64, 48), "missing").Len() != 0 {
		t.Fatal("unknown layer should give an empty group")
	}
}

func TestCollidersInRegion_AllTileLayers(t *testing.T) {
	m := mustParse(t, mapJSON)
	if got := len(m.CollidersInRegion(geom.R(0, 0, 40, 40))); got != 2 {
		t.Fatalf("expected 2 colliders, got %d", got)
	}
}

func TestRegions_SkipPlacedTiles(t *testing.T) {
	m := mustParse(t, mapJSON)
	regions := m.Regions("regions")
	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(regions))
	}
	r := regions[0]
	if r.Name != "spawn" || !r.Rect.Equals(geom.R(8, 8, 16, 16)) {
		t.Fatalf("unexpected region %+v", r)
	}
	if r.Properties["facing"] != "left" || r.Properties["speed"] != "2" {
		t.Fatalf("unexpected properties %v", r.Properties)
	}
	if len(m.RegionsNamed("spawn")) != 1 {
		t.Fatal("RegionsNamed should find the spawn")
	}
}

func TestBounds(t *testing.T) {
	m := mustParse(t, mapJSON)
	if b := m.Bounds(); !b.Equals(geom.R(0, 0, 64, 48)) {
		t.Fatalf("expected [0, 0, 64, 48], got %v", b)
	}
}

func layerMap(tileW, tileH int, layer string) string {
	return fmt.Sprintf(`{"tilewidth": %d, "tileheight": %d, "tilesets": [%s], "layers": [%s]}`,
		tileW, tileH, tilesetJSON, layer)
}

func TestParse_Malformed(t *testing.T) {
	cases := map[string]string{
		"non-square tiles": layerMap(16, 8, `{"name": "a", "type": "tilelayer", "width": 1, "height": 1, "data": [1]}`),
		"huge gid":         layerMap(16, 16, `{"name": "a", "type": "tilelayer", "width": 1, "height": 1, "data": [300000]}`),
		"gid outside sets": layerMap(16, 16, `{"name": "a", "type": "tilelayer", "width": 1, "height": 1, "data": [50]}`),
		"partial offset":   layerMap(16, 16, `{"name": "a", "type": "tilelayer", "offsetx": 8, "width": 1, "height": 1, "data": [1]}`),
		"short data":       layerMap(16, 16, `{"name": "a", "type": "tilelayer", "width": 2, "height": 2, "data": [1]}`),
		"unknown type":     layerMap(16, 16, `{"name": "a", "type": "weird"}`),
		"duplicate layer": layerMap(16, 16, `{"name": "a", "type": "tilelayer", "width": 1, "height": 1, "data": [1]},
			{"name": "a", "type": "objectgroup", "objects": []}`),
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(src))
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestParse_BadJSON(t *testing.T) {
	if _, err := Parse([]byte("{")); err == nil {
		t.Fatal("expected a decode error")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.json")
	if err := os.WriteFile(path, []byte(mapJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.TileWidth != 16 {
		t.Fatalf("expected tile width 16, got %d", m.TileWidth)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
