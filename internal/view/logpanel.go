package view

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Tile-Engine/internal/engine"
)

const (
	logPanelWidth = 320
	logLineHeight = 12
	logTitleH     = 16
	logRecent     = 3 // how many of the newest lines are highlighted
	logMaxChars   = 52
)

// logLine renders one SimLog entry for the panel, truncated to fit.
func logLine(e engine.LogEntry) string {
	line := fmt.Sprintf("%4d %-8s %-9s %s", e.Tick, e.Subject, e.Key, e.Value)
	if len(line) > logMaxChars {
		line = line[:logMaxChars-1] + "~"
	}
	return line
}

// categoryColor is the marker colour of a log category.
func categoryColor(cat string) color.RGBA {
	switch cat {
	case engine.CatEntity:
		return color.RGBA{R: 90, G: 200, B: 255, A: 255}
	case engine.CatCoroutine:
		return color.RGBA{R: 200, G: 140, B: 255, A: 255}
	case engine.CatCollision:
		return color.RGBA{R: 230, G: 90, B: 80, A: 255}
	case engine.CatMode:
		return color.RGBA{R: 250, G: 210, B: 70, A: 255}
	}
	return color.RGBA{R: 160, G: 160, B: 160, A: 255}
}

// drawLogPanel draws the newest SimLog entries to the right of the canvas,
// oldest at the top.
func (r *Runner) drawLogPanel(screen *ebiten.Image, panelX, panelH int) {
	vector.FillRect(screen, float32(panelX), 0, logPanelWidth, float32(panelH), color.RGBA{R: 10, G: 12, B: 14, A: 248}, false)
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1, color.RGBA{R: 50, G: 60, B: 80, A: 255}, false)

	vector.FillRect(screen, float32(panelX), 0, logPanelWidth, logTitleH, color.RGBA{R: 20, G: 24, B: 34, A: 255}, false)
	sl := r.game.Log()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("EVENT LOG  %d/%d", sl.Len(), sl.Total()), panelX+8, 0)
	vector.StrokeLine(screen, float32(panelX), logTitleH, float32(panelX+logPanelWidth), logTitleH, 1, color.RGBA{R: 50, G: 60, B: 90, A: 200}, false)

	maxVisible := (panelH - logTitleH - 8) / logLineHeight
	visible := sl.Recent(maxVisible)

	y := logTitleH + 4
	for i, e := range visible {
		recent := i >= len(visible)-logRecent
		if recent {
			vector.FillRect(screen, float32(panelX+2), float32(y), logPanelWidth-4, logLineHeight, color.RGBA{R: 30, G: 34, B: 50, A: 160}, false)
		}
		vector.FillRect(screen, float32(panelX+5), float32(y+3), 3, 6, categoryColor(e.Category), false)

		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(panelX+12), float64(y))
		shade := 150
		if recent {
			shade = 255
		}
		op.ColorScale.ScaleWithColor(color.Gray{Y: uint8(shade)})
		text.Draw(screen, logLine(e), r.mono, op)
		y += logLineHeight
	}
}
