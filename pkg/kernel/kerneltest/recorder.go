// Package kerneltest provides a recording kernel.Canvas for tests.
package kerneltest

import (
	"fmt"
	"strings"

	"github.com/Crazzygamerr/zen-mandala/pkg/kernel"
)

// Op is one recorded canvas call.
type Op struct {
	Name string
	Args []float64
}

func (o Op) String() string {
	parts := make([]string, len(o.Args))
	for i, a := range o.Args {
		parts[i] = fmt.Sprintf("%g", a)
	}
	return o.Name + "(" + strings.Join(parts, ",") + ")"
}

// Recorder is a kernel.Canvas that records every call. Path shapes are
// recorded as single ops rather than flattened.
type Recorder struct {
	Ops    []Op
	Paints []kernel.Paint
	W, H   int

	depth      int
	groupDepth int
}

var _ kernel.Canvas = (*Recorder)(nil)

// New returns a Recorder reporting the given surface size.
func New(w, h int) *Recorder {
	return &Recorder{W: w, H: h}
}

func (r *Recorder) rec(name string, args ...float64) {
	r.Ops = append(r.Ops, Op{Name: name, Args: args})
}

func (r *Recorder) MoveTo(x, y float64)              { r.rec("moveTo", x, y) }
func (r *Recorder) LineTo(x, y float64)              { r.rec("lineTo", x, y) }
func (r *Recorder) QuadraticTo(cx, cy, x, y float64) { r.rec("quadTo", cx, cy, x, y) }
func (r *Recorder) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	r.rec("cubicTo", c1x, c1y, c2x, c2y, x, y)
}
func (r *Recorder) ClosePath() { r.rec("closePath") }

func (r *Recorder) Arc(cx, cy, rad, start, end float64, anticlockwise bool) {
	ac := 0.0
	if anticlockwise {
		ac = 1
	}
	r.rec("arc", cx, cy, rad, start, end, ac)
}
func (r *Recorder) Circle(x, y, rad float64)     { r.rec("circle", x, y, rad) }
func (r *Recorder) Ellipse(x, y, rx, ry float64) { r.rec("ellipse", x, y, rx, ry) }
func (r *Recorder) Rect(x, y, w, h float64)      { r.rec("rect", x, y, w, h) }

func (r *Recorder) Paint(p kernel.Paint) error {
	r.Paints = append(r.Paints, p)
	r.rec("paint")
	return nil
}

func (r *Recorder) Push() { r.depth++; r.rec("push") }
func (r *Recorder) Pop() {
	r.depth--
	r.rec("pop")
}
func (r *Recorder) Translate(x, y float64) { r.rec("translate", x, y) }
func (r *Recorder) Rotate(a float64)       { r.rec("rotate", a) }
func (r *Recorder) Scale(sx, sy float64)   { r.rec("scale", sx, sy) }

func (r *Recorder) BeginGroup(alpha float64) { r.groupDepth++; r.rec("beginGroup", alpha) }
func (r *Recorder) EndGroup()                { r.groupDepth--; r.rec("endGroup") }

func (r *Recorder) Clear(c kernel.Color) { r.rec("clear", float64(c)) }

func (r *Recorder) Width() int  { return r.W }
func (r *Recorder) Height() int { return r.H }

// Balanced reports whether every Push and BeginGroup was closed.
func (r *Recorder) Balanced() bool {
	return r.depth == 0 && r.groupDepth == 0
}

// Count returns the number of recorded ops with the given name.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Name == name {
			n++
		}
	}
	return n
}

// Names returns the recorded op names in order.
func (r *Recorder) Names() []string {
	names := make([]string, len(r.Ops))
	for i, op := range r.Ops {
		names[i] = op.Name
	}
	return names
}
