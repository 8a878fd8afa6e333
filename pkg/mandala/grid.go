package mandala

import (
	"github.com/Crazzygamerr/zen-mandala/pkg/kernel"
	"github.com/Crazzygamerr/zen-mandala/pkg/scene"
)

const (
	gridStep       = 10
	gridMajorEvery = 100
	gridMinorAlpha = 0.1
	gridMajorAlpha = 0.3
)

// newGrid draws reference lines every 10 units across a width x height
// surface, with every tenth line darker. Coordinates are surface pixels.
func newGrid(width, height int) *scene.Graphics {
	g := scene.NewGraphics()
	w, h := float64(width), float64(height)
	for i := 0; i <= width; i += gridStep {
		g.LineStyle(1, kernel.Black, gridAlpha(i))
		g.MoveTo(float64(i), 0).LineTo(float64(i), h)
	}
	for i := 0; i <= height; i += gridStep {
		g.LineStyle(1, kernel.Black, gridAlpha(i))
		g.MoveTo(0, float64(i)).LineTo(w, float64(i))
	}
	return g
}

func gridAlpha(i int) float64 {
	if i%gridMajorEvery == 0 {
		return gridMajorAlpha
	}
	return gridMinorAlpha
}
