package mandala

import (
	"fmt"

	"github.com/Crazzygamerr/zen-mandala/pkg/clock"
	"github.com/Crazzygamerr/zen-mandala/pkg/kernel"
	"github.com/Crazzygamerr/zen-mandala/pkg/scene"
)

// LayerType selects how a layer is serialized.
type LayerType string

const (
	LayerNone      LayerType = "none"      // empty
	LayerPattern   LayerType = "pattern"   // built by BuildPattern
	LayerContainer LayerType = "container" // free-form children
)

// Layer is a named container in a composition. Its children are either a
// generated ring pattern or free-form drawables.
type Layer struct {
	scene.Container

	name      string
	clock     *clock.Clock
	layerType LayerType

	pattern  Pattern
	template scene.Drawable // pre-placement clone of item 0
}

func newLayer(name string, c *clock.Clock) *Layer {
	return &Layer{Container: *scene.NewContainer(), name: name, clock: c, layerType: LayerNone}
}

func (l *Layer) Name() string         { return l.name }
func (l *Layer) LayerType() LayerType { return l.layerType }

// Pattern returns the descriptor of the last BuildPattern call and the
// template item it was built from. ok is false unless the layer holds a
// pattern.
func (l *Layer) Pattern() (p Pattern, template scene.Drawable, ok bool) {
	if l.layerType != LayerPattern {
		return Pattern{}, nil, false
	}
	return l.pattern, l.template, true
}

// BuildPattern replaces the layer's children with p.Count items from
// p.Generator, placed evenly on a circle of p.Radius. Item i sits at
// angle 2πi/Count + Offset and has that angle added to its own rotation.
// If the generator fails the layer is left unchanged.
func (l *Layer) BuildPattern(p Pattern) error {
	if err := p.validate(); err != nil {
		return err
	}
	items := make([]scene.Drawable, 0, p.Count)
	var template scene.Drawable
	for i := range p.Count {
		d, err := p.Generator(i)
		if err != nil {
			return fmt.Errorf("pattern item %d: %w", i, err)
		}
		if d == nil {
			return fmt.Errorf("pattern item %d: generator returned nil", i)
		}
		if i == 0 {
			template = d.Clone()
		}
		place(d, p.Radius, p.Angle(i))
		items = append(items, d)
	}

	l.Container.RemoveChildren()
	for _, d := range items {
		l.Container.AddChild(d)
	}
	l.layerType = LayerPattern
	l.pattern = p
	l.template = template

	Logger().Debug("built pattern", "layer", l.name, "count", p.Count, "radius", p.Radius, "offset", p.Offset)
	return nil
}

// AddChild appends a free-form child. The layer becomes a container
// layer; any pattern descriptor is dropped.
func (l *Layer) AddChild(d scene.Drawable) {
	l.toContainer()
	l.Container.AddChild(d)
}

// AddChildAt inserts a free-form child at index.
func (l *Layer) AddChildAt(d scene.Drawable, index int) error {
	if err := l.Container.AddChildAt(d, index); err != nil {
		return err
	}
	l.toContainer()
	return nil
}

// AddCircle appends an unfilled circle centred on the layer origin.
func (l *Layer) AddCircle(lineWidth float64, color kernel.Color, radius float64) {
	g := scene.NewGraphics().
		LineStyle(lineWidth, color, 1).
		DrawCircle(0, 0, radius).
		EndFill()
	l.AddChild(g)
}

func (l *Layer) toContainer() {
	l.layerType = LayerContainer
	l.pattern = Pattern{}
	l.template = nil
}

// Clear removes every child. Animations stay registered.
func (l *Layer) Clear() {
	l.Container.RemoveChildren()
	l.layerType = LayerNone
	l.pattern = Pattern{}
	l.template = nil
}

// RemoveChildren is Clear.
func (l *Layer) RemoveChildren() { l.Clear() }

// Clone copies the layer's children and pattern. The copy is detached:
// it has no clock, so AddAnimation on it fails.
func (l *Layer) Clone() scene.Drawable {
	c := &Layer{
		Container: scene.Container{Node: l.CloneNode()},
		name:      l.name,
		layerType: l.layerType,
		pattern:   l.pattern,
	}
	if l.template != nil {
		c.template = l.template.Clone()
	}
	return c
}

// --- Animation ---

// AnimationFunc is called once per tick while its window is active.
type AnimationFunc func(l *Layer, delta float64)

// AnimationOption adjusts an animation window.
type AnimationOption func(*clock.Window)

// StartAt delays the animation until clock time t.
func StartAt(t float64) AnimationOption {
	return func(w *clock.Window) { w.Start = t }
}

// For limits the animation to d time units after its start.
func For(d float64) AnimationOption {
	return func(w *clock.Window) { w.Duration = d }
}

// AddAnimation registers fn on the composition clock. By default the
// window starts at 0 and never ends.
func (l *Layer) AddAnimation(fn AnimationFunc, opts ...AnimationOption) (*clock.Subscription, error) {
	if l.clock == nil {
		return nil, fmt.Errorf("layer %q is not attached to a composition", l.name)
	}
	w := clock.Always
	for _, o := range opts {
		o(&w)
	}
	s := l.clock.Subscribe(l, w, func(delta float64) { fn(l, delta) })
	Logger().Debug("added animation", "layer", l.name, "start", w.Start, "duration", w.Duration)
	return s, nil
}

// Animations returns the layer's registered animations.
func (l *Layer) Animations() []*clock.Subscription {
	if l.clock == nil {
		return nil
	}
	return l.clock.Subscriptions(l)
}

// StopAnimations deregisters all of the layer's animations and returns
// how many there were.
func (l *Layer) StopAnimations() int {
	if l.clock == nil {
		return 0
	}
	return l.clock.UnsubscribeOwner(l)
}

func (l *Layer) detach() {
	l.StopAnimations()
	l.clock = nil
}
