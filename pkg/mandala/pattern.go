package mandala

import (
	"fmt"
	"math"

	"github.com/Crazzygamerr/zen-mandala/pkg/scene"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Generator returns the item placed at index i of a pattern.
type Generator func(i int) (scene.Drawable, error)

// Repeat returns a Generator that yields a fresh clone of d for every
// index.
func Repeat(d scene.Drawable) Generator {
	return func(int) (scene.Drawable, error) {
		return d.Clone(), nil
	}
}

// Pattern describes a ring of Count items placed at Radius around the
// layer origin, the first at angle Offset (radians). A negative Radius
// mirrors the ring through the origin.
type Pattern struct {
	Generator Generator
	Count     int
	Radius    float64
	Offset    float64
}

// WithOffset returns a copy of p rotated by offset.
func (p Pattern) WithOffset(offset float64) Pattern {
	p.Offset = offset
	return p
}

func (p Pattern) validate() error {
	if p.Count < 0 {
		return &scene.ParamShapeError{Context: "pattern", Field: "itemCount", Reason: fmt.Sprintf("must be >= 0, got %d", p.Count)}
	}
	if p.Generator == nil && p.Count > 0 {
		return &scene.ParamShapeError{Context: "pattern", Field: "itemGenerator", Reason: "required when itemCount > 0"}
	}
	if math.IsNaN(p.Radius) || math.IsInf(p.Radius, 0) {
		return &scene.ParamShapeError{Context: "pattern", Field: "radius", Reason: fmt.Sprintf("must be finite, got %v", p.Radius)}
	}
	if math.IsNaN(p.Offset) || math.IsInf(p.Offset, 0) {
		return &scene.ParamShapeError{Context: "pattern", Field: "offset", Reason: "must be finite"}
	}
	return nil
}

// Angle returns the placement angle of item i.
func (p Pattern) Angle(i int) float64 {
	return 2*math.Pi*float64(i)/float64(p.Count) + p.Offset
}

// place positions d on the ring at angle theta and adds theta to its
// existing rotation.
func place(d scene.Drawable, radius, theta float64) {
	pos := sdf.Rotate2d(theta).MulPosition(v2.Vec{X: radius})
	d.SetPosition(pos.X, pos.Y)
	d.SetRotation(d.Rotation() + theta)
}
