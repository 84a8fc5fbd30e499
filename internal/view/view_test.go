package view

import (
	"strings"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Tile-Engine/internal/coroutine"
	"github.com/Garsondee/Tile-Engine/internal/engine"
	"github.com/Garsondee/Tile-Engine/internal/geom"
	"github.com/Garsondee/Tile-Engine/internal/input"
	"github.com/Garsondee/Tile-Engine/internal/tilemap"
)

func TestKeyMap_CoversEngineKeys(t *testing.T) {
	seen := map[input.Key]bool{}
	for _, k := range keyMap {
		seen[k] = true
	}
	for _, k := range input.AllKeys() {
		if !seen[k] {
			t.Fatalf("engine key %v has no ebiten binding", k)
		}
	}
	if k, ok := toEngineKey(ebiten.KeyNumpadEnter); !ok || k != input.KeyEnter {
		t.Fatalf("expected numpad enter to map to Enter, got %v %v", k, ok)
	}
	if _, ok := toEngineKey(ebiten.KeyF1); ok {
		t.Fatal("F1 is a front-end toggle and must not reach the engine")
	}
}

func TestLogLine_Truncates(t *testing.T) {
	e := engine.LogEntry{Tick: 7, Subject: "#3 coin", Category: engine.CatEntity, Key: engine.KeyDestroyed}
	if got := logLine(e); !strings.HasPrefix(got, "   7 #3 coin  destroyed") {
		t.Fatalf("unexpected line %q", got)
	}
	e.Value = strings.Repeat("x", 100)
	got := logLine(e)
	if len(got) != logMaxChars || !strings.HasSuffix(got, "~") {
		t.Fatalf("expected a %d char line ending in ~, got %q", logMaxChars, got)
	}
}

func TestInspectorLines(t *testing.T) {
	sim, err := engine.NewSim(engine.WithEntity(engine.EntityConfig{
		Name: "crate", Position: geom.Vec(4, 8), Width: 16, Height: 16, Collidable: true,
	}))
	if err != nil {
		t.Fatalf("NewSim: %v", err)
	}
	e := sim.Entity("crate")
	if e == nil {
		t.Fatal("crate not registered")
	}
	e.StartCoroutine("spin", coroutine.Repeat[*engine.State](func(*engine.State) coroutine.Yield {
		return coroutine.Next()
	}))

	curated := strings.Join(inspectorLines(sim.Game, e, false), "\n")
	for _, want := range []string{"size   16x16", "collidable=true interactable=false", "modes  Normal", "spin"} {
		if !strings.Contains(curated, want) {
			t.Fatalf("curated view missing %q:\n%s", want, curated)
		}
	}
	raw := inspectorLines(sim.Game, e, true)
	if !strings.Contains(raw[0], `name="crate"`) {
		t.Fatalf("unexpected raw header %q", raw[0])
	}
	if report := inspectorReport(sim.Game, e); !strings.HasPrefix(report, "--- "+e.String()) {
		t.Fatalf("unexpected report header:\n%s", report)
	}
}

func TestTileColor(t *testing.T) {
	wall := &tilemap.Tile{GID: 2, IsCollider: true}
	if tileColor(wall) != colorCollider {
		t.Fatal("collider tiles should use the collider colour")
	}
	moss := &tilemap.Tile{GID: 3, Properties: map[string]any{"color": "#102030"}}
	if c := tileColor(moss); c.R != 0x10 || c.G != 0x20 || c.B != 0x30 || c.A != 255 {
		t.Fatalf("expected #102030, got %+v", c)
	}
	plain := &tilemap.Tile{GID: 5}
	if tileColor(plain) != tilePalette[1] {
		t.Fatalf("expected palette entry 1, got %+v", tileColor(plain))
	}
}
