package scene

import (
	"fmt"
	"slices"

	"github.com/Crazzygamerr/zen-mandala/pkg/kernel"
)

// Kind enumerates the drawable variants.
type Kind int

const (
	KindGraphics  Kind = iota // free-form command list
	KindContainer             // grouping only
	KindShape                 // registry shape
	KindSVG                   // parsed SVG markup
)

func (k Kind) String() string {
	switch k {
	case KindGraphics:
		return "graphics"
	case KindContainer:
		return "container"
	case KindShape:
		return "shape"
	case KindSVG:
		return "svg"
	default:
		return "unknown"
	}
}

// Drawable is a node in the scene tree.
type Drawable interface {
	Position() (x, y float64)
	SetPosition(x, y float64)
	Rotation() float64
	SetRotation(radians float64)
	Scale() (x, y float64)
	SetScale(x, y float64)
	Alpha() float64
	SetAlpha(a float64)
	Visible() bool
	SetVisible(v bool)

	Children() []Drawable
	AddChild(d Drawable)
	AddChildAt(d Drawable, index int) error
	RemoveChild(d Drawable) bool
	RemoveChildren()

	// Base returns the embedded Node.
	Base() *Node

	Kind() Kind

	// Paint draws the node's own content in its local coordinate space.
	// Children are drawn by the caller.
	Paint(c kernel.Canvas) error

	// Clone returns a deep copy including children.
	Clone() Drawable
}

// Node is the transform and child-list state shared by every Drawable.
// The zero value is not ready to use; construct with NewNode.
type Node struct {
	x, y     float64
	rotation float64
	scaleX   float64
	scaleY   float64
	alpha    float64
	visible  bool
	children []Drawable
}

// NewNode returns a Node with the identity transform, full opacity and
// visible set.
func NewNode() Node {
	return Node{scaleX: 1, scaleY: 1, alpha: 1, visible: true}
}

func (n *Node) Base() *Node { return n }

func (n *Node) Position() (float64, float64) { return n.x, n.y }
func (n *Node) SetPosition(x, y float64)     { n.x, n.y = x, y }
func (n *Node) Rotation() float64            { return n.rotation }
func (n *Node) SetRotation(r float64)        { n.rotation = r }
func (n *Node) Scale() (float64, float64)    { return n.scaleX, n.scaleY }
func (n *Node) SetScale(x, y float64)        { n.scaleX, n.scaleY = x, y }
func (n *Node) Alpha() float64               { return n.alpha }
func (n *Node) SetAlpha(a float64)           { n.alpha = a }
func (n *Node) Visible() bool                { return n.visible }
func (n *Node) SetVisible(v bool)            { n.visible = v }

// Children returns a copy of the child list.
func (n *Node) Children() []Drawable {
	return slices.Clone(n.children)
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int { return len(n.children) }

func (n *Node) AddChild(d Drawable) {
	n.children = append(n.children, d)
}

// AddChildAt inserts d so that it becomes the child at index.
func (n *Node) AddChildAt(d Drawable, index int) error {
	if index < 0 || index > len(n.children) {
		return fmt.Errorf("child index %d out of range [0,%d]", index, len(n.children))
	}
	n.children = slices.Insert(n.children, index, d)
	return nil
}

// RemoveChild removes d by identity. It reports whether d was a child.
func (n *Node) RemoveChild(d Drawable) bool {
	i := slices.Index(n.children, d)
	if i < 0 {
		return false
	}
	n.children = slices.Delete(n.children, i, i+1)
	return true
}

func (n *Node) RemoveChildren() {
	clear(n.children)
	n.children = n.children[:0]
}

// CloneNode copies the transform state and deep-clones the children.
func (n *Node) CloneNode() Node {
	c := *n
	c.children = nil
	for _, ch := range n.children {
		c.children = append(c.children, ch.Clone())
	}
	return c
}

// CopyTransform copies position, rotation, scale, alpha and visibility
// from src.
func (n *Node) CopyTransform(src *Node) {
	children := n.children
	*n = *src
	n.children = children
}

// IsIdentity reports whether every transform property holds its default.
func (n *Node) IsIdentity() bool {
	return n.x == 0 && n.y == 0 && n.rotation == 0 &&
		n.scaleX == 1 && n.scaleY == 1 && n.alpha == 1 && n.visible
}

// Walk visits d and its descendants depth-first, parents first. Returning
// false from fn skips the node's children.
func Walk(d Drawable, fn func(d Drawable, depth int) bool) {
	walk(d, 0, fn)
}

func walk(d Drawable, depth int, fn func(Drawable, int) bool) {
	if !fn(d, depth) {
		return
	}
	for _, ch := range d.Base().children {
		walk(ch, depth+1, fn)
	}
}
