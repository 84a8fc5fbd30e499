package tilemap

import (
	"encoding/json"
	"fmt"
)

// Wire format of a Tiled JSON export. Only the fields the loader reads are
// declared.

type tiledMap struct {
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	TileWidth  int            `json:"tilewidth"`
	TileHeight int            `json:"tileheight"`
	Infinite   bool           `json:"infinite"`
	Layers     []tiledLayer   `json:"layers"`
	Tilesets   []tiledTileset `json:"tilesets"`
}

type tiledChunk struct {
	Data   []uint32 `json:"data"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
	X      int      `json:"x"`
	Y      int      `json:"y"`
}

type tiledLayer struct {
	Name    string        `json:"name"`
	Type    string        `json:"type"`
	Visible bool          `json:"visible"`
	OffsetX float64       `json:"offsetx"`
	OffsetY float64       `json:"offsety"`
	Width   int           `json:"width"`
	Height  int           `json:"height"`
	Data    []uint32      `json:"data"`
	Chunks  []tiledChunk  `json:"chunks"`
	Objects []tiledObject `json:"objects"`
	Layers  []tiledLayer  `json:"layers"`
}

type tiledObject struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	GID        uint32          `json:"gid"`
	X          float64         `json:"x"`
	Y          float64         `json:"y"`
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Properties []tiledProperty `json:"properties"`
}

type tiledProperty struct {
	Name  string          `json:"name"`
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

type tiledTile struct {
	ID          int             `json:"id"`
	ObjectGroup *tiledLayer     `json:"objectgroup"`
	Properties  []tiledProperty `json:"properties"`
}

type tiledTileset struct {
	Name        string      `json:"name"`
	FirstGID    uint32      `json:"firstgid"`
	Image       string      `json:"image"`
	ImageWidth  int         `json:"imagewidth"`
	ImageHeight int         `json:"imageheight"`
	TileWidth   int         `json:"tilewidth"`
	TileHeight  int         `json:"tileheight"`
	Columns     int         `json:"columns"`
	Tiles       []tiledTile `json:"tiles"`
}

// propertyValue decodes a property into its Go value (string, float64 or bool).
func propertyValue(p tiledProperty) (any, error) {
	if len(p.Value) == 0 {
		return "", nil
	}
	var v any
	if err := json.Unmarshal(p.Value, &v); err != nil {
		return nil, fmt.Errorf("property %q: %w", p.Name, err)
	}
	return v, nil
}

// parseProperties flattens a Tiled property list to strings.
func parseProperties(props []tiledProperty) (map[string]string, error) {
	out := make(map[string]string, len(props))
	for _, p := range props {
		v, err := propertyValue(p)
		if err != nil {
			return nil, err
		}
		switch tv := v.(type) {
		case string:
			out[p.Name] = tv
		default:
			out[p.Name] = fmt.Sprint(tv)
		}
	}
	return out, nil
}
