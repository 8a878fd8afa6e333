// Package render draws a mandala.Composition onto a kernel.Canvas.
package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/Crazzygamerr/zen-mandala/pkg/kernel"
	"github.com/Crazzygamerr/zen-mandala/pkg/kernel/raster"
	"github.com/Crazzygamerr/zen-mandala/pkg/kernel/vector"
	"github.com/Crazzygamerr/zen-mandala/pkg/mandala"
	"github.com/Crazzygamerr/zen-mandala/pkg/scene"
)

// FrameError wraps the drawing problems of a frame that was still
// produced. Bad commands are skipped; everything else is drawn.
type FrameError struct {
	Err error
}

func (e *FrameError) Error() string { return "frame: " + e.Err.Error() }
func (e *FrameError) Unwrap() error { return e.Err }

// Frame draws comp onto c: the background, the grid when visible, then
// every layer bottom to top with its origin at the surface centre.
// Drawing continues past errors; they are joined into a *FrameError.
func Frame(c kernel.Canvas, comp *mandala.Composition) error {
	opts := comp.Options()
	if opts.BackgroundAlpha > 0 {
		c.Clear(opts.Background)
	}

	var errs []error
	if comp.GridVisible() {
		if err := comp.Grid().Paint(c); err != nil {
			errs = append(errs, fmt.Errorf("grid: %w", err))
		}
	}

	cx, cy := float64(c.Width())/2, float64(c.Height())/2
	for _, l := range comp.Layers() {
		c.Push()
		c.Translate(cx, cy)
		if err := Node(c, l); err != nil {
			errs = append(errs, fmt.Errorf("layer %q: %w", l.Name(), err))
		}
		c.Pop()
	}

	if err := errors.Join(errs...); err != nil {
		mandala.Logger().Warn("frame drawn with errors", "err", err)
		return &FrameError{Err: err}
	}
	return nil
}

// Node draws d and its descendants in d's parent space. Invisible and
// fully transparent nodes are skipped with their subtrees.
func Node(c kernel.Canvas, d scene.Drawable) error {
	if !d.Visible() || d.Alpha() <= 0 {
		return nil
	}
	c.Push()
	defer c.Pop()

	x, y := d.Position()
	sx, sy := d.Scale()
	c.Translate(x, y)
	c.Rotate(d.Rotation())
	c.Scale(sx, sy)

	if a := d.Alpha(); a < 1 {
		c.BeginGroup(a)
		defer c.EndGroup()
	}

	var errs []error
	if err := d.Paint(c); err != nil {
		errs = append(errs, err)
	}
	for i, child := range d.Children() {
		if err := Node(c, child); err != nil {
			errs = append(errs, fmt.Errorf("child %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// PNG rasterizes comp at its surface size and writes it to w. A
// *FrameError is returned after a successful write when some commands
// could not be drawn.
func PNG(w io.Writer, comp *mandala.Composition) error {
	opts := comp.Options()
	c := raster.New(opts.Width, opts.Height)
	defer c.Close()

	frameErr := Frame(c, comp)
	if err := c.EncodePNG(w); err != nil {
		return err
	}
	return frameErr
}

// SVG writes comp as an SVG document to w. Errors are reported as for
// PNG.
func SVG(w io.Writer, comp *mandala.Composition) error {
	opts := comp.Options()
	c := vector.New(w, opts.Width, opts.Height)
	frameErr := Frame(c, comp)
	if err := c.Close(); err != nil {
		return fmt.Errorf("render: svg: %w", err)
	}
	return frameErr
}
