package scene

import (
	"fmt"
	"strconv"
)

// pathScanner tokenizes SVG path data. Numbers may be separated by
// whitespace, commas, or nothing at all when a sign or second decimal
// point starts the next one ("10-5", "0.5.5").
type pathScanner struct {
	s string
	i int
}

func (p *pathScanner) skipSeparators() {
	for p.i < len(p.s) {
		switch p.s[p.i] {
		case ' ', '\t', '\n', '\r', ',':
			p.i++
		default:
			return
		}
	}
}

func (p *pathScanner) done() bool {
	p.skipSeparators()
	return p.i >= len(p.s)
}

func (p *pathScanner) number() (float64, error) {
	p.skipSeparators()
	start := p.i
	if p.i < len(p.s) && (p.s[p.i] == '-' || p.s[p.i] == '+') {
		p.i++
	}
	dot, digits := false, false
	for p.i < len(p.s) {
		c := p.s[p.i]
		if c >= '0' && c <= '9' {
			digits = true
		} else if c == '.' && !dot {
			dot = true
		} else {
			break
		}
		p.i++
	}
	if digits && p.i < len(p.s) && (p.s[p.i] == 'e' || p.s[p.i] == 'E') {
		j := p.i + 1
		if j < len(p.s) && (p.s[j] == '-' || p.s[j] == '+') {
			j++
		}
		if j < len(p.s) && p.s[j] >= '0' && p.s[j] <= '9' {
			for j < len(p.s) && p.s[j] >= '0' && p.s[j] <= '9' {
				j++
			}
			p.i = j
		}
	}
	if !digits {
		return 0, fmt.Errorf("expected number at offset %d", start)
	}
	return strconv.ParseFloat(p.s[start:p.i], 64)
}

func (p *pathScanner) numbers(n int) ([]float64, error) {
	out := make([]float64, n)
	for k := range out {
		v, err := p.number()
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// tracePathData appends the commands for SVG path data d to g.
// Elliptical arcs are approximated by a straight segment to their end
// point.
func tracePathData(g *Graphics, d string) error {
	p := &pathScanner{s: d}
	var (
		cmd          byte
		cx, cy       float64 // current point
		sx, sy       float64 // subpath start
		lcx, lcy     float64 // last control point
		lastWasCubic bool
		lastWasQuad  bool
	)
	for !p.done() {
		c := p.s[p.i]
		if isPathCommand(c) {
			cmd = c
			p.i++
		} else if cmd == 0 || cmd == 'z' || cmd == 'Z' {
			return fmt.Errorf("path data: unexpected %q at offset %d", c, p.i)
		}

		rel := cmd >= 'a'
		ox, oy := 0.0, 0.0
		if rel {
			ox, oy = cx, cy
		}
		cubic, quad := false, false

		switch cmd {
		case 'M', 'm':
			v, err := p.numbers(2)
			if err != nil {
				return err
			}
			cx, cy = ox+v[0], oy+v[1]
			sx, sy = cx, cy
			g.MoveTo(cx, cy)
			// Further coordinate pairs are implicit line-tos.
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
		case 'L', 'l':
			v, err := p.numbers(2)
			if err != nil {
				return err
			}
			cx, cy = ox+v[0], oy+v[1]
			g.LineTo(cx, cy)
		case 'H', 'h':
			v, err := p.numbers(1)
			if err != nil {
				return err
			}
			cx = ox + v[0]
			g.LineTo(cx, cy)
		case 'V', 'v':
			v, err := p.numbers(1)
			if err != nil {
				return err
			}
			cy = oy + v[0]
			g.LineTo(cx, cy)
		case 'C', 'c':
			v, err := p.numbers(6)
			if err != nil {
				return err
			}
			lcx, lcy = ox+v[2], oy+v[3]
			cx, cy = ox+v[4], oy+v[5]
			g.BezierCurveTo(ox+v[0], oy+v[1], lcx, lcy, cx, cy)
			cubic = true
		case 'S', 's':
			v, err := p.numbers(4)
			if err != nil {
				return err
			}
			c1x, c1y := cx, cy
			if lastWasCubic {
				c1x, c1y = 2*cx-lcx, 2*cy-lcy
			}
			lcx, lcy = ox+v[0], oy+v[1]
			cx, cy = ox+v[2], oy+v[3]
			g.BezierCurveTo(c1x, c1y, lcx, lcy, cx, cy)
			cubic = true
		case 'Q', 'q':
			v, err := p.numbers(4)
			if err != nil {
				return err
			}
			lcx, lcy = ox+v[0], oy+v[1]
			cx, cy = ox+v[2], oy+v[3]
			g.QuadraticCurveTo(lcx, lcy, cx, cy)
			quad = true
		case 'T', 't':
			v, err := p.numbers(2)
			if err != nil {
				return err
			}
			if lastWasQuad {
				lcx, lcy = 2*cx-lcx, 2*cy-lcy
			} else {
				lcx, lcy = cx, cy
			}
			cx, cy = ox+v[0], oy+v[1]
			g.QuadraticCurveTo(lcx, lcy, cx, cy)
			quad = true
		case 'A', 'a':
			v, err := p.numbers(7)
			if err != nil {
				return err
			}
			cx, cy = ox+v[5], oy+v[6]
			g.LineTo(cx, cy)
		case 'Z', 'z':
			g.ClosePath()
			cx, cy = sx, sy
		}
		lastWasCubic, lastWasQuad = cubic, quad
	}
	return nil
}

func isPathCommand(c byte) bool {
	switch c {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'C', 'c', 'S', 's', 'Q', 'q', 'T', 't', 'A', 'a', 'Z', 'z':
		return true
	}
	return false
}
