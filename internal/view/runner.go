// Package view runs an engine.Game in an Ebitengine window: it feeds the
// keyboard and mouse into the engine, ticks it once per Update and draws
// the stage, the tilemap, debug overlays, the event log and an inspector.
package view

import (
	"fmt"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/Garsondee/Tile-Engine/internal/engine"
	"github.com/Garsondee/Tile-Engine/internal/geom"
	"github.com/Garsondee/Tile-Engine/internal/tilemap"
)

// flashTicks is how long a status message stays in the HUD.
const flashTicks = 120

// Options are the optional collaborators of a Runner.
type Options struct {
	// Map is drawn beneath the stage.
	Map *tilemap.Map
	// Status returns an extra HUD line, e.g. the scene's score.
	Status func() string
	Logger *log.Logger
}

// Runner implements ebiten.Game for one engine.Game.
type Runner struct {
	game   *engine.Game
	opts   Options
	logger *log.Logger

	sans *text.GoTextFace
	mono *text.GoTextFace

	showLog   bool
	showGrid  bool
	showHUD   bool
	inspector inspector
	hovered   *engine.Entity

	flash      string
	flashUntil int

	keyBuf []ebiten.Key
}

// New prepares a runner; call ebiten.RunGame with it.
func New(g *engine.Game, opts Options) (*Runner, error) {
	sans, mono, err := loadFaces()
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Runner{
		game:      g,
		opts:      opts,
		logger:    logger,
		sans:      sans,
		mono:      mono,
		showLog:   true,
		showGrid:  g.DebugMode(),
		showHUD:   true,
		inspector: newInspector(),
	}, nil
}

// WindowSize is the canvas plus the log panel.
func (r *Runner) WindowSize() (int, int) {
	cfg := r.game.Config()
	return cfg.CanvasWidth + logPanelWidth, cfg.CanvasHeight
}

func (r *Runner) Layout(_, _ int) (int, int) {
	return r.WindowSize()
}

func (r *Runner) Update() error {
	r.handleInput()
	r.game.Tick()
	return nil
}

// handleInput processes front-end toggles (edge-triggered), the mouse and
// the engine keyboard.
func (r *Runner) handleInput() {
	r.pollKeys()

	// F1: debug mode freezes the camera and shows the grid.
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		on := !r.game.DebugMode()
		r.game.SetDebugMode(on)
		r.showGrid = on
	}
	// F2: grid overlay alone.
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		r.showGrid = !r.showGrid
	}
	// Tab: log panel.
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		r.showLog = !r.showLog
	}
	// F3: HUD.
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		r.showHUD = !r.showHUD
	}
	// I: inspector raw/curated view.
	if inpututil.IsKeyJustPressed(ebiten.KeyI) {
		r.inspector.rawView = !r.inspector.rawView
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		r.inspector.selected = nil
	}
	// C: copy the hierarchy (or the inspected entity) to the clipboard.
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		r.copyReport()
	}

	r.handleMouse()
}

// cursorWorld maps the cursor to stage coordinates. ok is false over the
// log panel.
func (r *Runner) cursorWorld() (geom.Vector2, bool) {
	mx, my := ebiten.CursorPosition()
	cfg := r.game.Config()
	if mx < 0 || my < 0 || mx >= cfg.CanvasWidth || my >= cfg.CanvasHeight {
		return geom.Zero, false
	}
	view := geom.Vec(float64(mx), float64(my)).Scale(1 / cfg.Scale)
	return view.Sub(r.game.Stage.Position), true
}

func (r *Runner) handleMouse() {
	var top *engine.Entity
	if p, ok := r.cursorWorld(); ok {
		if hits := r.game.EntitiesAt(p); len(hits) > 0 {
			top = hits[0]
		}
	}
	if top != r.hovered {
		if r.hovered != nil && !r.hovered.Destroyed() {
			r.hovered.MouseOut()
		}
		if top != nil {
			top.MouseOver()
		}
		r.hovered = top
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		r.inspector.selected = top
		if top != nil {
			top.Click()
		}
	}
}

func (r *Runner) copyReport() {
	report := r.game.HierarchyReport()
	what := "hierarchy"
	if e := r.inspector.selected; e != nil && !e.Destroyed() {
		report = inspectorReport(r.game, e)
		what = e.String()
	}
	if err := copyText(report); err != nil {
		r.logger.Printf("clipboard: %v", err)
		r.setFlash(fmt.Sprintf("copy failed: %v", err))
		return
	}
	r.setFlash(fmt.Sprintf("copied %s (%d bytes)", what, len(report)))
}

func (r *Runner) setFlash(msg string) {
	r.flash = msg
	r.flashUntil = r.game.CurrentTick() + flashTicks
}
