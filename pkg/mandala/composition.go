// Package mandala composes drawables into named layers arranged as
// rings around a common centre, drives their animations from one logical
// clock, and saves and loads whole compositions as JSON documents.
package mandala

import (
	"slices"

	"github.com/Crazzygamerr/zen-mandala/pkg/clock"
	"github.com/Crazzygamerr/zen-mandala/pkg/kernel"
	"github.com/Crazzygamerr/zen-mandala/pkg/scene"
)

// AppOptions describes the render surface.
type AppOptions struct {
	Width           int          `json:"width"`
	Height          int          `json:"height"`
	Background      kernel.Color `json:"backgroundColor"`
	BackgroundAlpha float64      `json:"backgroundAlpha"`
	Antialias       bool         `json:"antialias"`
}

// DefaultAppOptions returns an 800x600 white surface.
func DefaultAppOptions() AppOptions {
	return AppOptions{
		Width:           800,
		Height:          600,
		Background:      kernel.White,
		BackgroundAlpha: 1,
		Antialias:       true,
	}
}

// Alpha values used by HighlightLayer.
const (
	highlightAlpha = 1.0
	dimmedAlpha    = 0.5
)

// Composition is an ordered stack of named layers sharing one logical
// clock. Later layers draw on top. A Composition is not safe for
// concurrent use.
type Composition struct {
	opts        AppOptions
	layers      []*Layer
	clock       *clock.Clock
	grid        *scene.Graphics
	gridVisible bool
	animating   bool
}

// New returns an empty composition with a stopped clock that advances by
// one unit per tick.
func New(opts AppOptions) *Composition {
	return &Composition{
		opts:  opts,
		clock: clock.New(1),
		grid:  newGrid(opts.Width, opts.Height),
	}
}

func (c *Composition) Options() AppOptions   { return c.opts }
func (c *Composition) Clock() *clock.Clock   { return c.clock }
func (c *Composition) Len() int              { return len(c.layers) }
func (c *Composition) Animating() bool       { return c.animating }
func (c *Composition) GridVisible() bool     { return c.gridVisible }
func (c *Composition) Grid() *scene.Graphics { return c.grid }
func (c *Composition) Layers() []*Layer      { return slices.Clone(c.layers) }

// SetOptions replaces the surface options and redraws the grid to match.
func (c *Composition) SetOptions(opts AppOptions) {
	c.opts = opts
	c.grid = newGrid(opts.Width, opts.Height)
}

// Layer returns the layer called name.
func (c *Composition) Layer(name string) (*Layer, bool) {
	i := c.index(name)
	if i < 0 {
		return nil, false
	}
	return c.layers[i], true
}

func (c *Composition) index(name string) int {
	return slices.IndexFunc(c.layers, func(l *Layer) bool { return l.name == name })
}

// AddLayer appends a new empty layer on top of the stack.
func (c *Composition) AddLayer(name string) (*Layer, error) {
	return c.InsertLayer(name, len(c.layers))
}

// InsertLayer creates a layer at index; 0 is the bottom of the stack and
// Len() the top.
func (c *Composition) InsertLayer(name string, index int) (*Layer, error) {
	if c.index(name) >= 0 {
		return nil, &DuplicateNameError{Name: name}
	}
	if index < 0 || index > len(c.layers) {
		return nil, &IndexError{Index: index, Len: len(c.layers) + 1}
	}
	l := newLayer(name, c.clock)
	c.layers = slices.Insert(c.layers, index, l)
	Logger().Debug("added layer", "name", name, "index", index)
	return l, nil
}

// RemoveLayer removes the layer at index and deregisters its animations.
func (c *Composition) RemoveLayer(index int) (*Layer, error) {
	if index < 0 || index >= len(c.layers) {
		return nil, &IndexError{Index: index, Len: len(c.layers)}
	}
	l := c.layers[index]
	c.layers = slices.Delete(c.layers, index, index+1)
	l.detach()
	Logger().Debug("removed layer", "name", l.name, "index", index)
	return l, nil
}

// Clear removes every layer and deregisters all animations. The clock
// keeps its time and running state.
func (c *Composition) Clear() {
	for _, l := range c.layers {
		l.detach()
	}
	c.layers = nil
}

// ToggleAnimation starts or stops the shared clock and reports whether it
// is now running.
func (c *Composition) ToggleAnimation() bool {
	c.animating = !c.animating
	if c.animating {
		c.clock.Start()
	} else {
		c.clock.Stop()
	}
	Logger().Debug("toggled animation", "running", c.animating, "time", c.clock.Now())
	return c.animating
}

// Tick advances the clock by one step and runs due animations. It
// returns false while animation is stopped.
func (c *Composition) Tick() bool {
	return c.clock.Tick()
}

// ToggleGrid shows or hides the reference grid and reports whether it is
// now visible.
func (c *Composition) ToggleGrid() bool {
	c.gridVisible = !c.gridVisible
	return c.gridVisible
}

// HighlightLayer makes the named layer fully opaque and dims the others.
func (c *Composition) HighlightLayer(name string) error {
	i := c.index(name)
	if i < 0 {
		return &LayerNotFoundError{Name: name}
	}
	for j, l := range c.layers {
		if j == i {
			l.SetAlpha(highlightAlpha)
		} else {
			l.SetAlpha(dimmedAlpha)
		}
	}
	return nil
}

// UnhighlightLayer restores full opacity to every layer.
func (c *Composition) UnhighlightLayer() {
	for _, l := range c.layers {
		l.SetAlpha(highlightAlpha)
	}
}
