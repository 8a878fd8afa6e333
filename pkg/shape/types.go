// Package shape is the registry of named mandala silhouettes. Each shape
// type has a fixed parameter schema; constructing a shape resolves the
// schema's defaults and records the resolved parameters so that a saved
// shape reproduces the exact same geometry.
package shape

import "fmt"

// Type names a registry shape.
type Type string

const (
	Arrowhead     Type = "arrowhead"
	ArcVariant    Type = "arc_variant"
	LeafVariant   Type = "leaf_variant"
	Leaf          Type = "leaf"
	HalfPill      Type = "half_pill"
	SimplePetal   Type = "simple_petal"
	Bindi         Type = "bindi"
	Rectangle     Type = "rectangle"
	Circle        Type = "circle"
	Triangle      Type = "triangle"
	InvertedThorn Type = "inverted_thorn"
	None          Type = "none"
)

// Types lists every registry shape in declaration order.
var Types = []Type{
	Arrowhead, ArcVariant, LeafVariant, Leaf, HalfPill, SimplePetal,
	Bindi, Rectangle, Circle, Triangle, InvertedThorn, None,
}

// UnknownShapeTypeError reports a shape type tag outside the registry.
type UnknownShapeTypeError struct {
	Name string
}

func (e *UnknownShapeTypeError) Error() string {
	return fmt.Sprintf("unknown shape type %q", e.Name)
}

// ParseType validates a shape type tag. Only exact registry tags match.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if _, ok := schemas[t]; !ok {
		return "", &UnknownShapeTypeError{Name: s}
	}
	return t, nil
}

func (t Type) String() string { return string(t) }
