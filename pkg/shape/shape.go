package shape

import (
	"fmt"
	"math"

	"github.com/Crazzygamerr/zen-mandala/pkg/kernel"
	"github.com/Crazzygamerr/zen-mandala/pkg/scene"
)

// Style carries the colors a shape is drawn with. A nil FillColor leaves
// the silhouette unfilled unless the silhouette has a fill of its own.
type Style struct {
	LineColor kernel.Color
	FillColor *kernel.Color
}

// Fill returns a pointer to c for use as Style.FillColor.
func Fill(c kernel.Color) *kernel.Color { return &c }

// Shape is a registry silhouette: a Graphics node tagged with its type,
// resolved params and style.
type Shape struct {
	scene.Graphics
	typ    Type
	params Params
	style  Style
}

// New constructs the silhouette described by p. Defaults are resolved
// before drawing and the resolved params are kept on the shape.
func New(p Params, style Style) (*Shape, error) {
	if p == nil {
		return nil, fmt.Errorf("shape: nil params")
	}
	t := p.Type()
	draw, ok := silhouettes[t]
	if !ok {
		return nil, &UnknownShapeTypeError{Name: string(t)}
	}
	resolved := p.Resolve()
	if _, empty := resolved.(EmptyParams); empty && len(schemas[t]) > 0 {
		return nil, &scene.ParamShapeError{Context: string(t) + " params", Reason: "missing parameters"}
	}
	s := &Shape{Graphics: *scene.NewGraphics(), typ: t, params: resolved, style: style}
	s.SetRotation(draw(&s.Graphics, resolved, style))
	return s, nil
}

// MustNew is New for params known to be valid.
func MustNew(p Params, style Style) *Shape {
	s, err := New(p, style)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Shape) Kind() scene.Kind { return scene.KindShape }
func (s *Shape) Type() Type       { return s.typ }
func (s *Shape) Params() Params   { return s.params }
func (s *Shape) Style() Style     { return s.style }

// BaseRotation is the rotation the silhouette is constructed with.
func (s *Shape) BaseRotation() float64 {
	return baseRotations[s.typ]
}

func (s *Shape) Clone() scene.Drawable {
	st := s.style
	if st.FillColor != nil {
		st.FillColor = Fill(*st.FillColor)
	}
	return &Shape{Graphics: *s.CloneGraphics(), typ: s.typ, params: s.params, style: st}
}

// --- Silhouettes ---

// drawFunc appends a silhouette's commands and returns its base rotation.
type drawFunc func(g *scene.Graphics, p Params, s Style) float64

var silhouettes = map[Type]drawFunc{
	Arrowhead:     drawArrowhead,
	ArcVariant:    drawArcVariant,
	LeafVariant:   drawLeafVariant,
	Leaf:          drawLeaf,
	HalfPill:      drawHalfPill,
	SimplePetal:   drawSimplePetal,
	Bindi:         drawBindi,
	Rectangle:     drawRectangle,
	Circle:        drawCircle,
	Triangle:      drawTriangle,
	InvertedThorn: drawInvertedThorn,
	None:          func(*scene.Graphics, Params, Style) float64 { return 0 },
}

var baseRotations = map[Type]float64{
	LeafVariant:   -math.Pi / 2,
	Leaf:          math.Pi / 2,
	SimplePetal:   -math.Pi / 2,
	Bindi:         -math.Pi / 2,
	Rectangle:     -math.Pi / 2,
	Triangle:      -math.Pi / 2,
	InvertedThorn: -math.Pi / 2,
}

// begin sets the default 1px outline and the optional fill.
func begin(g *scene.Graphics, s Style) {
	g.LineStyle(1, s.LineColor, 1)
	if s.FillColor != nil {
		g.BeginFill(*s.FillColor, 1)
	}
}

func fillOr(s Style, def kernel.Color) kernel.Color {
	if s.FillColor != nil {
		return *s.FillColor
	}
	return def
}

func drawArrowhead(g *scene.Graphics, p Params, s Style) float64 {
	a := p.(ArrowheadParams)
	begin(g, s)
	g.MoveTo(0, 0).
		LineTo(-a.Width, a.Height).
		LineTo(a.Width, a.Height).
		LineTo(0, 0).
		EndFill()
	return 0
}

func drawArcVariant(g *scene.Graphics, _ Params, s Style) float64 {
	start, end := 2*math.Pi/5, -2*math.Pi/5
	g.LineStyle(2, s.LineColor, 1)
	if s.FillColor != nil {
		g.BeginFill(*s.FillColor, 1)
	}
	g.Arc(6, 0, 32.5, start, end, true).
		MoveTo(10, 22.5).
		Arc(3.5, 0, 25, start, end, true).
		LineStyle(2, s.LineColor, 1, 2, 3).
		MoveTo(20, 27.5).
		Arc(7, 0, 35, start, end, true).
		EndFill()
	return 0
}

func drawLeafVariant(g *scene.Graphics, _ Params, s Style) float64 {
	g.LineStyle(2, s.LineColor, 1)
	if s.FillColor != nil {
		g.BeginFill(*s.FillColor, 1)
	}
	g.MoveTo(45, 0).
		BezierCurveTo(60, 33, 15, 66, 0, 100).
		BezierCurveTo(-15, 66, -60, 33, -45, 0).
		MoveTo(47.5, 10).
		BezierCurveTo(60, 43, 15, 76, 0, 110).
		BezierCurveTo(-15, 76, -60, 43, -47.5, 10).
		LineStyle(3, s.LineColor, 1, 3, 6).
		MoveTo(30, 20).
		BezierCurveTo(40, 33, 10, 55, 0, 80).
		BezierCurveTo(-10, 55, -40, 33, -30, 20).
		EndFill()
	return baseRotations[LeafVariant]
}

func drawLeaf(g *scene.Graphics, _ Params, s Style) float64 {
	g.LineStyle(2, s.LineColor, 1).
		MoveTo(0, 0).
		QuadraticCurveTo(54, -50, 0, -95).
		QuadraticCurveTo(-54, -50, 0, 0).
		MoveTo(0, 10).
		QuadraticCurveTo(54, -50, 0, -105).
		QuadraticCurveTo(-54, -50, 0, 10).
		BeginFill(fillOr(s, s.LineColor), 1).
		DrawEllipse(0, -72, 4, 8).
		EndFill()
	return baseRotations[Leaf]
}

func drawHalfPill(g *scene.Graphics, p Params, s Style) float64 {
	h := p.(HalfPillParams)
	begin(g, s)
	g.MoveTo(0, h.Width/2).
		LineTo(h.Height-h.Width/2, h.Width/2).
		QuadraticCurveTo(h.Height+*h.Curvature, 0, h.Height-h.Width/2, -h.Width/2).
		LineTo(0, -h.Width/2).
		EndFill()
	return 0
}

func drawSimplePetal(g *scene.Graphics, p Params, s Style) float64 {
	sp := p.(SimplePetalParams)
	begin(g, s)
	g.MoveTo(sp.BaseSeparation/2, 0).
		BezierCurveTo(*sp.Cpx1, *sp.Cpy1, *sp.Cpx2, *sp.Cpy2, 0, sp.Height).
		BezierCurveTo(-*sp.Cpx2, *sp.Cpy2, -*sp.Cpx1, *sp.Cpy1, -sp.BaseSeparation/2, 0).
		EndFill()
	return baseRotations[SimplePetal]
}

func drawBindi(g *scene.Graphics, p Params, s Style) float64 {
	b := p.(BindiParams)
	g.LineStyle(1, s.LineColor, 1).
		BeginFill(fillOr(s, kernel.Black), 1).
		MoveTo(0, 0).
		BezierCurveTo(*b.Cpx1, *b.Cpy1, *b.Cpx2, *b.Cpy2, 0, *b.Height).
		BezierCurveTo(-*b.Cpx2, *b.Cpy2, -*b.Cpx1, *b.Cpy1, 0, 0).
		EndFill()
	return baseRotations[Bindi]
}

func drawRectangle(g *scene.Graphics, p Params, s Style) float64 {
	r := p.(RectangleParams)
	g.LineStyle(1, s.LineColor, 1).
		BeginFill(fillOr(s, kernel.White), 1).
		DrawRect(-r.Width/2, -r.Height/2, r.Width, r.Height).
		EndFill()
	return baseRotations[Rectangle]
}

func drawCircle(g *scene.Graphics, p Params, s Style) float64 {
	c := p.(CircleParams)
	g.LineStyle(*c.LineWidth, s.LineColor, 1)
	if s.FillColor != nil {
		g.BeginFill(*s.FillColor, 1)
	}
	g.DrawCircle(0, 0, c.Radius).EndFill()
	return 0
}

// drawTriangle draws an isosceles triangle with its base on the x axis
// and its apex at (0, height).
func drawTriangle(g *scene.Graphics, p Params, s Style) float64 {
	t := p.(TriangleParams)
	begin(g, s)
	g.MoveTo(-t.Width/2, 0).
		LineTo(t.Width/2, 0).
		LineTo(0, t.Height).
		ClosePath().
		EndFill()
	return baseRotations[Triangle]
}

func drawInvertedThorn(g *scene.Graphics, p Params, s Style) float64 {
	it := p.(InvertedThornParams)
	begin(g, s)
	g.MoveTo(0, 0).
		QuadraticCurveTo(*it.Cpx, *it.Cpy, it.Width/2, it.Height).
		QuadraticCurveTo(0, it.Height*5/4+*it.Curvature, -it.Width/2, it.Height).
		QuadraticCurveTo(-*it.Cpx, *it.Cpy, 0, 0).
		EndFill()
	return baseRotations[InvertedThorn]
}
