package shape

import (
	"math"

	"github.com/Crazzygamerr/zen-mandala/pkg/kernel"
	"github.com/Crazzygamerr/zen-mandala/pkg/scene"
)

// LotusOptions configures Lotus. Use DefaultLotusOptions for the stock
// white-on-black lotus.
type LotusOptions struct {
	Small          bool // five petals and a narrower centre
	FillColor      kernel.Color
	LineColor      kernel.Color
	SecondaryColor kernel.Color
	ScaleX, ScaleY float64 // zero means 1
}

func DefaultLotusOptions() LotusOptions {
	return LotusOptions{
		FillColor:      kernel.White,
		LineColor:      kernel.White,
		SecondaryColor: kernel.Black,
		ScaleX:         1,
		ScaleY:         1,
	}
}

var lotusPetals = []struct {
	angle, size, cpx1 float64
}{
	{-math.Pi * 3 / 8, 17.5, 3},
	{-math.Pi / 4, 15, 2},
	{-math.Pi / 8, 17.5, 2.5},
	{0, 30, 6},
	{math.Pi / 8, 17.5, 2.5},
	{math.Pi / 4, 15, 2},
	{math.Pi * 3 / 8, 17.5, 3},
}

// Lotus returns a stylised lotus: a fan of simple petals over a
// three-ring half-disc centre. The result is a plain Container, so it
// saves and loads like any other container subtree.
func Lotus(o LotusOptions) *scene.Container {
	c := scene.NewContainer()
	style := Style{LineColor: o.LineColor, FillColor: Fill(o.FillColor)}

	var petals []*Shape
	for i, lp := range lotusPetals {
		if o.Small && (i == 0 || i == len(lotusPetals)-1) {
			continue
		}
		petal := MustNew(SimplePetalParams{
			Height:         lp.size,
			BaseSeparation: 0,
			Cpx1:           Float(lp.cpx1),
			Cpx2:           Float(5),
		}, style)
		petal.SetPosition(16*math.Cos(lp.angle), 16*math.Sin(lp.angle))
		petal.SetRotation(-math.Pi/2 + lp.angle)
		c.AddChild(petal)
		petals = append(petals, petal)
	}
	first, last := petals[0], petals[len(petals)-1]
	if o.Small {
		first.SetRotation(-math.Pi * 3 / 4)
		last.SetRotation(-math.Pi / 4)
	} else {
		first.SetRotation(-math.Pi)
		last.SetRotation(0)
	}

	start, end := -math.Pi/2, math.Pi/2
	if o.Small {
		start, end = -math.Pi/3, math.Pi/3
	}

	outer := scene.NewGraphics().
		LineStyle(1, o.LineColor, 1).
		BeginFill(o.FillColor, 1).
		Arc(0, 0, 15, start, end, false)
	c.AddChild(outer)

	middle := scene.NewGraphics().
		LineStyle(1, o.SecondaryColor, 1).
		BeginFill(o.SecondaryColor, 1).
		Arc(0, 0, 12, start, end, false)
	c.AddChild(middle)

	inner := scene.NewGraphics().
		LineStyle(1, o.LineColor, 1).
		BeginFill(o.FillColor, 1).
		MoveTo(0, 0).
		LineTo(10*math.Cos(start), 10*math.Sin(start)).
		Arc(0, 0, 10, start, end, false).
		LineTo(0, 0)
	c.AddChild(inner)

	sx, sy := o.ScaleX, o.ScaleY
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	c.SetScale(sx, sy)
	return c
}
