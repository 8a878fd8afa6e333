package scene

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Crazzygamerr/zen-mandala/pkg/kernel"
)

// SVG is a Drawable built from SVG markup. The markup is kept verbatim
// for serialization; drawing replays the commands parsed from it.
type SVG struct {
	Node
	markup   string
	graphics *Graphics
	parseErr error
}

// NewSVG parses markup. A parse failure is kept and reported by ParseErr;
// the node then draws nothing.
func NewSVG(markup string) *SVG {
	s := &SVG{Node: NewNode(), markup: markup}
	s.graphics, s.parseErr = ParseSVG(strings.NewReader(markup))
	return s
}

func (s *SVG) Kind() Kind      { return KindSVG }
func (s *SVG) Markup() string  { return s.markup }
func (s *SVG) ParseErr() error { return s.parseErr }

// Commands returns the drawing commands parsed from the markup.
func (s *SVG) Commands() []Command {
	if s.graphics == nil {
		return nil
	}
	return s.graphics.Commands()
}

func (s *SVG) Paint(c kernel.Canvas) error {
	if s.graphics == nil {
		return nil
	}
	return s.graphics.Paint(c)
}

func (s *SVG) Clone() Drawable {
	c := &SVG{Node: s.CloneNode(), markup: s.markup, parseErr: s.parseErr}
	if s.graphics != nil {
		c.graphics = s.graphics.CloneGraphics()
	}
	return c
}

// svgStyle is the inherited presentation state.
type svgStyle struct {
	fill          bool
	fillColor     kernel.Color
	fillOpacity   float64
	stroke        bool
	strokeColor   kernel.Color
	strokeOpacity float64
	strokeWidth   float64
	opacity       float64
}

var defaultSVGStyle = svgStyle{
	fill:          true,
	fillColor:     kernel.Black,
	fillOpacity:   1,
	strokeColor:   kernel.Black,
	strokeOpacity: 1,
	strokeWidth:   1,
	opacity:       1,
}

var namedColors = map[string]kernel.Color{
	"black":  0x000000,
	"white":  0xffffff,
	"red":    0xff0000,
	"green":  0x008000,
	"lime":   0x00ff00,
	"blue":   0x0000ff,
	"yellow": 0xffff00,
	"orange": 0xffa500,
	"purple": 0x800080,
	"gray":   0x808080,
	"grey":   0x808080,
}

// ParseSVG converts the supported subset of SVG into a Graphics command
// list: rect, circle, ellipse, line, polyline, polygon and path elements,
// nested in any number of g elements, with fill, stroke, stroke-width and
// opacity presentation attributes or style declarations. Other elements
// are skipped with their subtrees.
func ParseSVG(r io.Reader) (*Graphics, error) {
	g := NewGraphics()
	dec := xml.NewDecoder(r)
	stack := []svgStyle{defaultSVGStyle}
	sawRoot := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("svg: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if !sawRoot {
				if t.Name.Local != "svg" {
					return nil, fmt.Errorf("svg: root element is <%s>, want <svg>", t.Name.Local)
				}
				sawRoot = true
			}
			st, err := applyPresentation(stack[len(stack)-1], t.Attr)
			if err != nil {
				return nil, fmt.Errorf("svg: <%s>: %w", t.Name.Local, err)
			}
			switch t.Name.Local {
			case "svg", "g":
				stack = append(stack, st)
				continue
			case "rect", "circle", "ellipse", "line", "polyline", "polygon", "path":
				if err := emitElement(g, t, st); err != nil {
					return nil, fmt.Errorf("svg: <%s>: %w", t.Name.Local, err)
				}
			}
			// Leaf or unsupported element: skip its content.
			if err := dec.Skip(); err != nil {
				return nil, fmt.Errorf("svg: %w", err)
			}
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if !sawRoot {
		return nil, errors.New("svg: no <svg> element")
	}
	return g, nil
}

func applyPresentation(st svgStyle, attrs []xml.Attr) (svgStyle, error) {
	decls := map[string]string{}
	for _, a := range attrs {
		decls[a.Name.Local] = a.Value
	}
	if style, ok := decls["style"]; ok {
		for _, d := range strings.Split(style, ";") {
			k, v, ok := strings.Cut(d, ":")
			if ok {
				decls[strings.TrimSpace(k)] = strings.TrimSpace(v)
			}
		}
	}

	var err error
	for k, v := range decls {
		switch k {
		case "fill":
			st.fill, st.fillColor, err = paintValue(v, st.fillColor)
		case "stroke":
			st.stroke, st.strokeColor, err = paintValue(v, st.strokeColor)
		case "stroke-width":
			st.strokeWidth, err = strconv.ParseFloat(strings.TrimSuffix(v, "px"), 64)
		case "fill-opacity":
			st.fillOpacity, err = strconv.ParseFloat(v, 64)
		case "stroke-opacity":
			st.strokeOpacity, err = strconv.ParseFloat(v, 64)
		case "opacity":
			var o float64
			o, err = strconv.ParseFloat(v, 64)
			st.opacity *= o
		}
		if err != nil {
			return st, fmt.Errorf("attribute %s=%q: %w", k, v, err)
		}
	}
	return st, nil
}

func paintValue(v string, inherited kernel.Color) (bool, kernel.Color, error) {
	v = strings.TrimSpace(strings.ToLower(v))
	switch v {
	case "none", "transparent":
		return false, inherited, nil
	case "currentcolor", "inherit":
		return true, inherited, nil
	}
	if c, ok := namedColors[v]; ok {
		return true, c, nil
	}
	c, err := kernel.ParseColor(v)
	if err != nil {
		return false, inherited, err
	}
	return true, c, nil
}

func emitElement(g *Graphics, el xml.StartElement, st svgStyle) error {
	attr := func(name string) (float64, error) {
		for _, a := range el.Attr {
			if a.Name.Local == name {
				return strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(a.Value), "px"), 64)
			}
		}
		return 0, nil
	}
	nums := func(names ...string) ([]float64, error) {
		out := make([]float64, len(names))
		for i, n := range names {
			v, err := attr(n)
			if err != nil {
				return nil, fmt.Errorf("attribute %s: %w", n, err)
			}
			out[i] = v
		}
		return out, nil
	}
	raw := func(name string) string {
		for _, a := range el.Attr {
			if a.Name.Local == name {
				return a.Value
			}
		}
		return ""
	}

	// Lines and polylines are never filled.
	fill := st.fill && el.Name.Local != "line" && el.Name.Local != "polyline"

	width := 0.0
	if st.stroke {
		width = st.strokeWidth
	}
	g.LineStyle(width, st.strokeColor, st.strokeOpacity*st.opacity)
	if fill {
		g.BeginFill(st.fillColor, st.fillOpacity*st.opacity)
	}

	switch el.Name.Local {
	case "rect":
		v, err := nums("x", "y", "width", "height")
		if err != nil {
			return err
		}
		g.DrawRect(v[0], v[1], v[2], v[3])
	case "circle":
		v, err := nums("cx", "cy", "r")
		if err != nil {
			return err
		}
		g.DrawCircle(v[0], v[1], v[2])
	case "ellipse":
		v, err := nums("cx", "cy", "rx", "ry")
		if err != nil {
			return err
		}
		g.DrawEllipse(v[0], v[1], v[2], v[3])
	case "line":
		v, err := nums("x1", "y1", "x2", "y2")
		if err != nil {
			return err
		}
		g.MoveTo(v[0], v[1]).LineTo(v[2], v[3])
	case "polyline", "polygon":
		p := &pathScanner{s: raw("points")}
		first := true
		for !p.done() {
			xy, err := p.numbers(2)
			if err != nil {
				return fmt.Errorf("points: %w", err)
			}
			if first {
				g.MoveTo(xy[0], xy[1])
				first = false
			} else {
				g.LineTo(xy[0], xy[1])
			}
		}
		if el.Name.Local == "polygon" && !first {
			g.ClosePath()
		}
	case "path":
		if err := tracePathData(g, raw("d")); err != nil {
			return err
		}
	}
	g.EndFill()
	return nil
}
