package view

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Tile-Engine/internal/engine"
	"github.com/Garsondee/Tile-Engine/internal/geom"
	"github.com/Garsondee/Tile-Engine/internal/tilemap"
)

var (
	colorBackground = color.RGBA{R: 18, G: 20, B: 26, A: 255}
	colorCollider   = color.RGBA{R: 70, G: 74, B: 90, A: 255}
	colorGridCell   = color.RGBA{R: 80, G: 200, B: 120, A: 90}
	colorHitOutline = color.RGBA{R: 255, G: 60, B: 60, A: 255}
	colorHover      = color.RGBA{R: 255, G: 255, B: 255, A: 200}
	colorHUD        = color.RGBA{R: 230, G: 230, B: 230, A: 255}
)

// tilePalette colours non-collider tiles by gid when they carry no "color"
// property.
var tilePalette = []color.RGBA{
	{R: 40, G: 44, B: 36, A: 255},
	{R: 46, G: 58, B: 40, A: 255},
	{R: 36, G: 50, B: 64, A: 255},
	{R: 54, G: 46, B: 38, A: 255},
}

func tileColor(t *tilemap.Tile) color.RGBA {
	if t.IsCollider {
		return colorCollider
	}
	if s, ok := t.Properties["color"].(string); ok {
		var c color.RGBA
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B); err == nil {
			c.A = 255
			return c
		}
	}
	return tilePalette[int(t.GID)%len(tilePalette)]
}

func (r *Runner) Draw(screen *ebiten.Image) {
	cfg := r.game.Config()
	scale := cfg.Scale
	screen.Fill(colorBackground)

	stageOff := r.game.Stage.Position
	if r.opts.Map != nil {
		r.drawTiles(screen, r.opts.Map, stageOff, scale)
	}
	r.drawTree(screen, r.game.ParallaxStage, r.game.ParallaxStage.Position, scale)
	r.drawTree(screen, r.game.Stage, stageOff, scale)
	if r.showGrid {
		r.drawGrid(screen, stageOff, scale)
	}
	r.drawTree(screen, r.game.FixedStage, r.game.FixedStage.Position, scale)

	if r.showHUD {
		r.drawHUD(screen)
	}
	r.drawInspector(screen)
	if r.showLog {
		r.drawLogPanel(screen, cfg.CanvasWidth, cfg.CanvasHeight)
	}
}

// viewRect maps a rect in root coordinates to canvas pixels.
func viewRect(rc geom.Rect, off geom.Vector2, scale float64) (x, y, w, h float32) {
	v := rc.Translate(off).Scale(scale)
	return float32(v.X), float32(v.Y), float32(v.W), float32(v.H)
}

// drawTiles draws the tiles inside the camera frame, layer by layer.
func (r *Runner) drawTiles(screen *ebiten.Image, m *tilemap.Map, off geom.Vector2, scale float64) {
	frame := r.game.Camera().Frame()
	tw, th := float64(m.TileWidth), float64(m.TileHeight)
	for _, name := range m.LayerNames() {
		l, ok := m.TileLayer(name)
		if !ok {
			continue
		}
		lowX, highX := int(math.Floor(frame.X/tw)), int(math.Ceil(frame.Right()/tw))
		lowY, highY := int(math.Floor(frame.Y/th)), int(math.Ceil(frame.Bottom()/th))
		for row := lowY; row <= highY; row++ {
			for col := lowX; col <= highX; col++ {
				t := l.At(col, row)
				if t == nil {
					continue
				}
				x, y, w, h := viewRect(geom.R(t.X, t.Y, tw, th), off, scale)
				vector.FillRect(screen, x, y, w, h, tileColor(t), false)
			}
		}
	}
}

// drawTree draws e's visible descendants; off is the root's offset.
func (r *Runner) drawTree(screen *ebiten.Image, root *engine.Entity, off geom.Vector2, scale float64) {
	var walk func(e *engine.Entity)
	walk = func(e *engine.Entity) {
		if !e.Visible {
			return
		}
		if !e.IsRoot() {
			r.drawEntity(screen, e, off, scale)
		}
		for _, c := range e.Children() {
			walk(c)
		}
	}
	walk(root)
}

func (r *Runner) drawEntity(screen *ebiten.Image, e *engine.Entity, off geom.Vector2, scale float64) {
	abs := e.AbsolutePosition()
	for _, rc := range e.Shape().Translate(abs).Rects() {
		x, y, w, h := viewRect(rc, off, scale)
		vector.FillRect(screen, x, y, w, h, e.Look.Color, false)
	}
	x, y, w, h := viewRect(e.Bounds(), off, scale)
	switch {
	case e == r.hovered || e == r.inspector.selected:
		vector.StrokeRect(screen, x, y, w, h, 1, colorHover, false)
	case r.game.DebugMode() && e.HitInfo().Hit:
		vector.StrokeRect(screen, x, y, w, h, 1, colorHitOutline, false)
	}
	if e.Look.Label == "" {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x)+4, float64(y)+2)
	op.ColorScale.ScaleWithColor(colorHUD)
	text.Draw(screen, e.Look.Label, r.sans, op)
}

// drawGrid outlines the broad-phase cells of the last tick.
func (r *Runner) drawGrid(screen *ebiten.Image, off geom.Vector2, scale float64) {
	grid := r.game.LastGrid()
	if grid == nil {
		return
	}
	for _, c := range grid.Cells() {
		x, y, w, h := viewRect(c.Bounds, off, scale)
		vector.StrokeRect(screen, x, y, w, h, 1, colorGridCell, false)
		for _, col := range c.Colliders {
			cx, cy, cw, ch := viewRect(col.Rect, off, scale)
			vector.StrokeRect(screen, cx, cy, cw, ch, 1, colorHitOutline, false)
		}
	}
}

func (r *Runner) drawHUD(screen *ebiten.Image) {
	lines := []string{fmt.Sprintf("T=%d  mode=%s  entities=%d  fps=%.0f",
		r.game.CurrentTick(), r.game.Mode(), len(r.game.Entities()), ebiten.ActualFPS())}
	if r.opts.Status != nil {
		lines = append(lines, r.opts.Status())
	}
	if r.game.DebugMode() {
		lines = append(lines, "DEBUG  F1 debug  F2 grid  F3 hud  Tab log  C copy")
	}
	if r.flash != "" && r.game.CurrentTick() < r.flashUntil {
		lines = append(lines, r.flash)
	}
	y := float64(r.game.Config().CanvasHeight) - float64(len(lines))*(hudFontSize+4) - 4
	for _, l := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(6, y)
		op.ColorScale.ScaleWithColor(colorHUD)
		text.Draw(screen, l, r.sans, op)
		y += hudFontSize + 4
	}
}
