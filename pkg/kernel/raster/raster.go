// Package raster implements the kernel.Canvas interface using the
// github.com/gogpu/gg 2D graphics library.
package raster

import (
	"fmt"
	"image"
	"io"

	"github.com/Crazzygamerr/zen-mandala/pkg/kernel"
	"github.com/gogpu/gg"
)

// Compile-time interface check.
var _ kernel.Canvas = (*Canvas)(nil)

// Canvas wraps a gg.Context to implement kernel.Canvas.
type Canvas struct {
	dc *gg.Context
}

// New returns a Canvas backed by a width x height pixmap.
func New(width, height int) *Canvas {
	return &Canvas{dc: gg.NewContext(width, height)}
}

// Context exposes the underlying gg context.
func (c *Canvas) Context() *gg.Context { return c.dc }

func (c *Canvas) Width() int  { return c.dc.Width() }
func (c *Canvas) Height() int { return c.dc.Height() }

func (c *Canvas) MoveTo(x, y float64)              { c.dc.MoveTo(x, y) }
func (c *Canvas) LineTo(x, y float64)              { c.dc.LineTo(x, y) }
func (c *Canvas) QuadraticTo(cx, cy, x, y float64) { c.dc.QuadraticTo(cx, cy, x, y) }
func (c *Canvas) ClosePath()                       { c.dc.ClosePath() }

func (c *Canvas) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	c.dc.CubicTo(c1x, c1y, c2x, c2y, x, y)
}

// Arc is flattened by kernel.TraceArc rather than gg.DrawArc so that the
// anticlockwise flag and the implicit line to the arc start behave the
// same on every backend.
func (c *Canvas) Arc(cx, cy, r, start, end float64, anticlockwise bool) {
	_, _, ok := c.dc.GetCurrentPoint()
	kernel.TraceArc(c, ok, cx, cy, r, start, end, anticlockwise)
}

func (c *Canvas) Circle(x, y, r float64)       { c.dc.DrawCircle(x, y, r) }
func (c *Canvas) Ellipse(x, y, rx, ry float64) { c.dc.DrawEllipse(x, y, rx, ry) }
func (c *Canvas) Rect(x, y, w, h float64)      { c.dc.DrawRectangle(x, y, w, h) }

// Paint fills then strokes the current path and clears it.
func (c *Canvas) Paint(p kernel.Paint) error {
	defer c.dc.ClearPath()

	if p.Fill && p.FillAlpha > 0 {
		r, g, b := p.FillColor.RGB()
		c.dc.SetRGBA(r, g, b, p.FillAlpha)
		if err := c.dc.FillPreserve(); err != nil {
			return fmt.Errorf("raster: fill: %w", err)
		}
	}
	if p.HasStroke() {
		r, g, b := p.StrokeColor.RGB()
		c.dc.SetRGBA(r, g, b, p.StrokeAlpha)
		c.dc.SetLineWidth(p.StrokeWidth)
		if len(p.Dash) > 0 {
			c.dc.SetDash(p.Dash...)
		} else {
			c.dc.ClearDash()
		}
		if err := c.dc.StrokePreserve(); err != nil {
			return fmt.Errorf("raster: stroke: %w", err)
		}
	}
	return nil
}

func (c *Canvas) Push()                  { c.dc.Push() }
func (c *Canvas) Pop()                   { c.dc.Pop() }
func (c *Canvas) Translate(x, y float64) { c.dc.Translate(x, y) }
func (c *Canvas) Rotate(angle float64)   { c.dc.Rotate(angle) }
func (c *Canvas) Scale(sx, sy float64)   { c.dc.Scale(sx, sy) }

// BeginGroup starts an offscreen layer composited at alpha on EndGroup.
func (c *Canvas) BeginGroup(alpha float64) { c.dc.PushLayer(gg.BlendNormal, alpha) }
func (c *Canvas) EndGroup()                { c.dc.PopLayer() }

// Clear fills the whole pixmap with col.
func (c *Canvas) Clear(col kernel.Color) {
	r, g, b := col.RGB()
	c.dc.ClearWithColor(gg.RGB(r, g, b))
}

// Image returns the rendered pixmap.
func (c *Canvas) Image() image.Image { return c.dc.Image() }

// EncodePNG writes the pixmap as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	if err := c.dc.EncodePNG(w); err != nil {
		return fmt.Errorf("raster: encode png: %w", err)
	}
	return nil
}

// SavePNG writes the pixmap to path.
func (c *Canvas) SavePNG(path string) error {
	if err := c.dc.SavePNG(path); err != nil {
		return fmt.Errorf("raster: save %s: %w", path, err)
	}
	return nil
}

// Close releases the context's resources.
func (c *Canvas) Close() error {
	return c.dc.Close()
}
