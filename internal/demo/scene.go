// Package demo is a small top-down scene that exercises the whole engine:
// a player walking against tile walls, coins to pick up, a sign that opens
// a dialog and a patrolling NPC driven by a coroutine.
package demo

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/Garsondee/Tile-Engine/internal/coroutine"
	"github.com/Garsondee/Tile-Engine/internal/engine"
	"github.com/Garsondee/Tile-Engine/internal/geom"
	"github.com/Garsondee/Tile-Engine/internal/input"
	"github.com/Garsondee/Tile-Engine/internal/tilemap"
)

//go:embed level.json
var levelJSON []byte

// ErrNoSpawn is returned for maps without a "spawn" region.
var ErrNoSpawn = errors.New("demo: map has no spawn region")

const (
	playerSpeed = 2
	introFrames = 180
)

var (
	colorPlayer = color.RGBA{R: 90, G: 200, B: 255, A: 255}
	colorNPC    = color.RGBA{R: 240, G: 120, B: 60, A: 255}
	colorSign   = color.RGBA{R: 200, G: 170, B: 90, A: 255}
	colorCoin   = color.RGBA{R: 255, G: 220, B: 0, A: 255}
	colorCrate  = color.RGBA{R: 140, G: 90, B: 40, A: 255}
	colorDialog = color.RGBA{R: 20, G: 20, B: 40, A: 230}
)

// LoadLevel parses the map at path, or the built-in level when path is empty.
func LoadLevel(path string) (*tilemap.Map, error) {
	if path == "" {
		return tilemap.Parse(levelJSON)
	}
	return tilemap.Load(path)
}

// Start creates a game from cfg and builds the level at mapPath (the
// built-in level when empty) into it.
func Start(cfg engine.Config, mapPath string, opts ...engine.Option) (*Scene, error) {
	m, err := LoadLevel(mapPath)
	if err != nil {
		return nil, err
	}
	g, err := engine.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return Build(g, m)
}

// Scene holds the demo's entities and its score.
type Scene struct {
	Game   *engine.Game
	Map    *tilemap.Map
	Player *engine.Entity
	NPCs   []*engine.Entity
	Signs  []*engine.Entity
	Coins  []*engine.Entity
	Crates []*engine.Entity

	Score       int
	DialogsSeen int
	dialog      *engine.Entity
	banner      *engine.Entity
}

// Build populates g from the map's object layer and registers the map's
// collider tiles as static geometry.
func Build(g *engine.Game, m *tilemap.Map) (*Scene, error) {
	if err := g.Camera().SetBounds(m.Bounds()); err != nil {
		return nil, fmt.Errorf("demo: %w", err)
	}
	g.AddStatic(m)

	spawns := m.RegionsNamed("spawn")
	if len(spawns) == 0 {
		return nil, ErrNoSpawn
	}
	s := &Scene{Game: g, Map: m}

	sp := spawns[0].Rect
	s.Player = g.NewEntity(engine.EntityConfig{
		Name:       "player",
		Position:   sp.TopLeft(),
		Width:      sp.W,
		Height:     sp.H,
		Collidable: true,
		Behavior:   &player{scene: s},
		Look:       engine.Look{Color: colorPlayer, Glyph: '@'},
	})
	g.Camera().CenterOn(s.Player.Bounds().Center(), true)

	for _, layer := range m.LayerNames() {
		for _, r := range m.Regions(layer) {
			switch r.Type {
			case "sign":
				s.addSign(r)
			case "npc":
				s.addNPC(r)
			case "coin":
				s.Coins = append(s.Coins, g.NewEntity(engine.EntityConfig{
					Name: "coin", Position: r.Rect.TopLeft(), Width: r.Rect.W, Height: r.Rect.H,
					Interactable: true,
					Look:         engine.Look{Color: colorCoin, Glyph: '$'},
				}))
			case "crate":
				s.Crates = append(s.Crates, g.NewEntity(engine.EntityConfig{
					Name: "crate", Position: r.Rect.TopLeft(), Width: r.Rect.W, Height: r.Rect.H,
					Collidable: true,
					Look:       engine.Look{Color: colorCrate, Glyph: '#'},
				}))
			}
		}
	}

	g.StartCoroutine("intro", coroutine.Sequence[*engine.State](
		coroutine.Do[*engine.State](func(*engine.State) { s.showBanner() }),
		coroutine.Wait[*engine.State](introFrames),
		coroutine.Do[*engine.State](func(*engine.State) { s.banner.Destroy() }),
	))
	return s, nil
}

func (s *Scene) showBanner() {
	cfg := s.Game.Config()
	s.banner = s.Game.NewEntity(engine.EntityConfig{
		Name:     "banner",
		Parent:   s.Game.FixedStage,
		Position: geom.Vec(8, 8),
		Width:    cfg.ViewWidth() - 16,
		Height:   14,
		Modes:    []engine.Mode{engine.ModeNormal, engine.ModeDialog},
		Look:     engine.Look{Color: colorDialog, Label: "arrows/WASD move, space talks, C copies the hierarchy"},
	})
}

func (s *Scene) addSign(r tilemap.Region) {
	lines := strings.Split(r.Properties["text"], "|")
	sign := s.Game.NewEntity(engine.EntityConfig{
		Name: "sign", Position: r.Rect.TopLeft(), Width: r.Rect.W, Height: r.Rect.H,
		Interactable: true,
		Look:         engine.Look{Color: colorSign, Glyph: '?'},
	})
	sign.OnClick(func(*engine.State) { s.OpenDialog(lines) })
	sign.OnMouseOver(func(*engine.State) { sign.Look.Label = "click to read" })
	sign.OnMouseOut(func(*engine.State) { sign.Look.Label = "" })
	s.Signs = append(s.Signs, sign)
}

func (s *Scene) addNPC(r tilemap.Region) {
	patrol := propFloat(r.Properties, "patrol", 64)
	speed := propFloat(r.Properties, "speed", 1)
	npc := s.Game.NewEntity(engine.EntityConfig{
		Name: "npc", Position: r.Rect.TopLeft(), Width: r.Rect.W, Height: r.Rect.H,
		Collidable: true,
		Look:       engine.Look{Color: colorNPC, Glyph: '&'},
	})
	npc.StartCoroutine(fmt.Sprintf("patrol-%d", npc.ID()), patrolTask(npc, patrol, speed))
	s.NPCs = append(s.NPCs, npc)
}

// patrolTask walks e back and forth, turning every distance/speed frames.
func patrolTask(e *engine.Entity, distance, speed float64) coroutine.Task[*engine.State] {
	frames := int(distance / speed)
	dir := 1.0
	return coroutine.Repeat[*engine.State](func(*engine.State) coroutine.Yield {
		e.SetVelocity(geom.Vec(speed*dir, 0))
		dir = -dir
		return coroutine.WaitFrames(frames)
	})
}

func propFloat(props map[string]string, key string, def float64) float64 {
	v, err := strconv.ParseFloat(props[key], 64)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// DialogOpen reports whether a dialog is on screen.
func (s *Scene) DialogOpen() bool { return s.dialog != nil }

// OpenDialog switches to ModeDialog and pages through lines, one per Enter
// press. It does nothing while a dialog is already open.
func (s *Scene) OpenDialog(lines []string) {
	if s.dialog != nil || len(lines) == 0 {
		return
	}
	g := s.Game
	cfg := g.Config()
	s.DialogsSeen++
	s.Player.SetVelocity(geom.Zero)
	g.SetMode(engine.ModeDialog)
	s.dialog = g.NewEntity(engine.EntityConfig{
		Name:     "dialog",
		Parent:   g.FixedStage,
		Position: geom.Vec(8, cfg.ViewHeight()-56),
		Width:    cfg.ViewWidth() - 16,
		Height:   48,
		Modes:    []engine.Mode{engine.ModeDialog},
		Look:     engine.Look{Color: colorDialog},
	})

	steps := make([]coroutine.TaskFunc[*engine.State], 0, len(lines)+1)
	for _, line := range lines {
		line := line
		steps = append(steps, func(*engine.State) coroutine.Yield {
			s.dialog.Look.Label = line
			return coroutine.WaitKey(input.KeyEnter)
		})
	}
	steps = append(steps, func(*engine.State) coroutine.Yield {
		s.dialog.Destroy()
		s.dialog = nil
		g.SetMode(engine.ModeNormal)
		return coroutine.Done()
	})
	g.StartCoroutine("dialog", coroutine.Sequence[*engine.State](steps...))
}

// CoinsLeft counts coins not yet picked up.
func (s *Scene) CoinsLeft() int {
	n := 0
	for _, c := range s.Coins {
		if !c.Destroyed() {
			n++
		}
	}
	return n
}

// Summary is a one-line status for HUDs and reports.
func (s *Scene) Summary() string {
	return fmt.Sprintf("T=%d mode=%s score=%d coins_left=%d player=%v",
		s.Game.CurrentTick(), s.Game.Mode(), s.Score, s.CoinsLeft(), s.Player.Position)
}

// player reads the keyboard, picks up coins and talks to signs.
type player struct {
	scene *Scene
}

var moveKeys = []struct {
	keys []input.Key
	dir  geom.Vector2
}{
	{[]input.Key{input.KeyLeft, input.KeyA}, geom.Vec(-1, 0)},
	{[]input.Key{input.KeyRight, input.KeyD}, geom.Vec(1, 0)},
	{[]input.Key{input.KeyUp, input.KeyW}, geom.Vec(0, -1)},
	{[]input.Key{input.KeyDown, input.KeyS}, geom.Vec(0, 1)},
}

func (p *player) FirstUpdate(e *engine.Entity, s *engine.State) {
	s.Game().Camera().CenterOn(e.Bounds().Center(), true)
}

func (p *player) Update(e *engine.Entity, s *engine.State) {
	vel := geom.Zero
	for _, mk := range moveKeys {
		for _, k := range mk.keys {
			if s.Down(k) {
				vel = vel.Add(mk.dir)
				break
			}
		}
	}
	e.SetVelocity(vel.Scale(playerSpeed))

	// Interactions are from the last move; resting keeps them.
	for _, c := range e.HitInfo().Interactions {
		other, ok := c.Other.(*engine.Entity)
		if !ok || other.Destroyed() {
			continue
		}
		switch other.Name() {
		case "coin":
			other.Destroy()
			p.scene.Score++
		case "sign":
			if s.JustPressed(input.KeySpacebar) {
				other.Click()
			}
		}
	}

	s.Game().Camera().CenterOn(e.Bounds().Center(), false)
}
