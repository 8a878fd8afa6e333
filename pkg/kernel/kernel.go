// Package kernel defines the abstract drawing-primitives interface.
// Implementations (raster, vector) provide path construction, fill/stroke
// styling and a transform stack behind this interface. The kernel
// abstraction allows swapping output backends without changing the scene
// graph or the renderer.
package kernel

// PathBuilder accumulates a path in the current coordinate space.
type PathBuilder interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadraticTo(cx, cy, x, y float64)
	CubicTo(c1x, c1y, c2x, c2y, x, y float64)
	ClosePath()
}

// Canvas is the abstract drawing surface.
// Implementations (raster, vector) provide rendering behind this interface.
type Canvas interface {
	PathBuilder

	// Shapes appended to the current path.
	Arc(cx, cy, r, start, end float64, anticlockwise bool)
	Circle(x, y, r float64)
	Ellipse(x, y, rx, ry float64)
	Rect(x, y, w, h float64)

	// Paint fills and/or strokes the current path, then clears it.
	Paint(p Paint) error

	// Transforms
	Push()
	Pop()
	Translate(x, y float64)
	Rotate(angle float64) // radians
	Scale(sx, sy float64)

	// Alpha groups composite everything drawn between BeginGroup and
	// EndGroup at the given opacity.
	BeginGroup(alpha float64)
	EndGroup()

	// Clear fills the whole surface with c, ignoring transforms.
	Clear(c Color)

	Width() int
	Height() int
}

// Paint describes how Canvas.Paint renders the current path.
type Paint struct {
	Fill      bool
	FillColor Color
	FillAlpha float64

	StrokeWidth float64 // no stroke when <= 0
	StrokeColor Color
	StrokeAlpha float64
	Dash        []float64 // alternating dash/gap lengths, nil for solid
}

// HasStroke reports whether p draws an outline.
func (p Paint) HasStroke() bool {
	return p.StrokeWidth > 0 && p.StrokeAlpha > 0
}
