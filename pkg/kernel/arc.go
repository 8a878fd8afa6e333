package kernel

import "math"

// maxArcSegment is the largest sweep approximated by a single cubic.
const maxArcSegment = math.Pi / 2

// circleK is the cubic control distance for a quarter circle.
const circleK = 0.5522847498307936

// TraceArc appends a circular arc to p as a sequence of cubic béziers.
//
// When hasCurrent is true a line is drawn from the current point to the
// start of the arc; otherwise the arc starts a new subpath. Anticlockwise
// arcs sweep from start towards decreasing angles. Equal angles give a
// zero-length arc, and a sweep beyond a full turn is clamped to one.
// Non-finite arguments draw nothing.
func TraceArc(p PathBuilder, hasCurrent bool, cx, cy, r, start, end float64, anticlockwise bool) {
	for _, v := range [...]float64{cx, cy, r, start, end} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return
		}
	}
	sx, sy := cx+r*math.Cos(start), cy+r*math.Sin(start)
	if hasCurrent {
		p.LineTo(sx, sy)
	} else {
		p.MoveTo(sx, sy)
	}
	if start == end || r == 0 {
		return
	}

	switch {
	case !anticlockwise && end < start:
		end += 2 * math.Pi
	case anticlockwise && start < end:
		start += 2 * math.Pi
	}
	sweep := max(-2*math.Pi, min(end-start, 2*math.Pi))
	if sweep == 0 {
		return
	}

	n := int(math.Ceil(math.Abs(sweep) / maxArcSegment))
	step := sweep / float64(n)
	// Control distance for a segment of angle step.
	k := 4.0 / 3.0 * math.Tan(step/4)

	a1 := start
	for i := 0; i < n; i++ {
		a2 := a1 + step
		cos1, sin1 := math.Cos(a1), math.Sin(a1)
		cos2, sin2 := math.Cos(a2), math.Sin(a2)
		p.CubicTo(
			cx+r*(cos1-k*sin1), cy+r*(sin1+k*cos1),
			cx+r*(cos2+k*sin2), cy+r*(sin2-k*cos2),
			cx+r*cos2, cy+r*sin2,
		)
		a1 = a2
	}
}

// TraceEllipse appends a closed ellipse centered on (x, y) to p.
func TraceEllipse(p PathBuilder, x, y, rx, ry float64) {
	ox, oy := rx*circleK, ry*circleK
	p.MoveTo(x+rx, y)
	p.CubicTo(x+rx, y+oy, x+ox, y+ry, x, y+ry)
	p.CubicTo(x-ox, y+ry, x-rx, y+oy, x-rx, y)
	p.CubicTo(x-rx, y-oy, x-ox, y-ry, x, y-ry)
	p.CubicTo(x+ox, y-ry, x+rx, y-oy, x+rx, y)
	p.ClosePath()
}

// TraceRect appends a closed rectangle to p.
func TraceRect(p PathBuilder, x, y, w, h float64) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.ClosePath()
}
