// Package vector implements the kernel.Canvas interface as an SVG writer
// using github.com/ajstarks/svgo. Transforms are tracked with sdfx affine
// matrices and baked into path coordinates, so the output contains only
// absolute M/L/Q/C/Z path data.
package vector

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/Crazzygamerr/zen-mandala/pkg/kernel"
	svg "github.com/ajstarks/svgo"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Compile-time interface check.
var _ kernel.Canvas = (*Canvas)(nil)

// Canvas writes SVG elements to an io.Writer as drawing happens.
type Canvas struct {
	s      *svg.SVG
	width  int
	height int

	m     sdf.M33
	stack []sdf.M33

	d          strings.Builder
	hasCurrent bool
	groups     int
	closed     bool
}

// New starts an SVG document of the given size on w. Close must be called
// to finish the document.
func New(w io.Writer, width, height int) *Canvas {
	s := svg.New(w)
	s.Start(width, height)
	return &Canvas{
		s:      s,
		width:  width,
		height: height,
		m:      sdf.Identity2d(),
	}
}

func (c *Canvas) Width() int  { return c.width }
func (c *Canvas) Height() int { return c.height }

// point maps (x, y) through the current matrix.
func (c *Canvas) point(x, y float64) v2.Vec {
	return c.m.MulPosition(v2.Vec{X: x, Y: y})
}

func (c *Canvas) emit(cmd byte, pts ...v2.Vec) {
	if c.d.Len() > 0 {
		c.d.WriteByte(' ')
	}
	c.d.WriteByte(cmd)
	for _, p := range pts {
		c.d.WriteByte(' ')
		c.d.WriteString(num(p.X))
		c.d.WriteByte(' ')
		c.d.WriteString(num(p.Y))
	}
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (c *Canvas) MoveTo(x, y float64) {
	c.emit('M', c.point(x, y))
	c.hasCurrent = true
}

func (c *Canvas) LineTo(x, y float64) {
	if !c.hasCurrent {
		c.MoveTo(x, y)
		return
	}
	c.emit('L', c.point(x, y))
}

func (c *Canvas) QuadraticTo(cx, cy, x, y float64) {
	if !c.hasCurrent {
		c.MoveTo(cx, cy)
	}
	c.emit('Q', c.point(cx, cy), c.point(x, y))
}

func (c *Canvas) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	if !c.hasCurrent {
		c.MoveTo(c1x, c1y)
	}
	c.emit('C', c.point(c1x, c1y), c.point(c2x, c2y), c.point(x, y))
}

func (c *Canvas) ClosePath() {
	if c.hasCurrent {
		c.emit('Z')
	}
}

func (c *Canvas) Arc(cx, cy, r, start, end float64, anticlockwise bool) {
	kernel.TraceArc(c, c.hasCurrent, cx, cy, r, start, end, anticlockwise)
}

func (c *Canvas) Circle(x, y, r float64)       { kernel.TraceEllipse(c, x, y, r, r) }
func (c *Canvas) Ellipse(x, y, rx, ry float64) { kernel.TraceEllipse(c, x, y, rx, ry) }
func (c *Canvas) Rect(x, y, w, h float64)      { kernel.TraceRect(c, x, y, w, h) }

// linearScale is the factor the current matrix applies to lengths.
func (c *Canvas) linearScale() float64 {
	o := c.point(0, 0)
	ex := c.point(1, 0).Sub(o)
	ey := c.point(0, 1).Sub(o)
	return math.Sqrt(math.Abs(ex.X*ey.Y - ex.Y*ey.X))
}

// Paint writes the pending path as a <path> element and clears it.
func (c *Canvas) Paint(p kernel.Paint) error {
	if c.closed {
		return fmt.Errorf("vector: paint after close")
	}
	d := c.d.String()
	c.d.Reset()
	c.hasCurrent = false
	fill := p.Fill && p.FillAlpha > 0
	if d == "" || (!fill && !p.HasStroke()) {
		return nil
	}

	var style []string
	if fill {
		style = append(style, "fill:"+p.FillColor.Hex())
		if p.FillAlpha < 1 {
			style = append(style, "fill-opacity:"+num(p.FillAlpha))
		}
	} else {
		style = append(style, "fill:none")
	}
	if p.HasStroke() {
		k := c.linearScale()
		style = append(style,
			"stroke:"+p.StrokeColor.Hex(),
			"stroke-width:"+num(p.StrokeWidth*k),
		)
		if p.StrokeAlpha < 1 {
			style = append(style, "stroke-opacity:"+num(p.StrokeAlpha))
		}
		if len(p.Dash) > 0 {
			dash := make([]string, len(p.Dash))
			for i, v := range p.Dash {
				dash[i] = num(v * k)
			}
			style = append(style, "stroke-dasharray:"+strings.Join(dash, ","))
		}
	} else {
		style = append(style, "stroke:none")
	}
	c.s.Path(d, strings.Join(style, ";"))
	return nil
}

func (c *Canvas) Push() {
	c.stack = append(c.stack, c.m)
}

func (c *Canvas) Pop() {
	if len(c.stack) == 0 {
		return
	}
	c.m = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *Canvas) Translate(x, y float64) {
	c.m = c.m.Mul(sdf.Translate2d(v2.Vec{X: x, Y: y}))
}

func (c *Canvas) Rotate(angle float64) {
	c.m = c.m.Mul(sdf.Rotate2d(angle))
}

func (c *Canvas) Scale(sx, sy float64) {
	c.m = c.m.Mul(sdf.Scale2d(v2.Vec{X: sx, Y: sy}))
}

// BeginGroup opens a <g> with the given opacity.
func (c *Canvas) BeginGroup(alpha float64) {
	c.groups++
	c.s.Group(fmt.Sprintf(`opacity="%s"`, num(alpha)))
}

func (c *Canvas) EndGroup() {
	if c.groups == 0 {
		return
	}
	c.groups--
	c.s.Gend()
}

// Clear paints a full-size background rectangle.
func (c *Canvas) Clear(col kernel.Color) {
	c.s.Rect(0, 0, c.width, c.height, "fill:"+col.Hex())
}

// Close closes any open groups and ends the document.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	for c.groups > 0 {
		c.EndGroup()
	}
	c.s.End()
	c.closed = true
	return nil
}
