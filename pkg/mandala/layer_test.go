package mandala_test

import (
	"errors"
	"math"
	"testing"

	"github.com/Crazzygamerr/zen-mandala/pkg/kernel"
	"github.com/Crazzygamerr/zen-mandala/pkg/mandala"
	"github.com/Crazzygamerr/zen-mandala/pkg/scene"
	"github.com/Crazzygamerr/zen-mandala/pkg/shape"
)

const eps = 1e-9

func petal() *shape.Shape {
	return shape.MustNew(shape.SimplePetalParams{Height: 30, BaseSeparation: 6}, shape.Style{LineColor: kernel.Black})
}

func newLayer(t *testing.T, name string) (*mandala.Composition, *mandala.Layer) {
	t.Helper()
	c := mandala.New(mandala.DefaultAppOptions())
	l, err := c.AddLayer(name)
	if err != nil {
		t.Fatalf("AddLayer(%q): %v", name, err)
	}
	return c, l
}

func TestBuildPatternSixItems(t *testing.T) {
	_, l := newLayer(t, "petals")
	base := petal().Rotation()

	if err := l.BuildPattern(mandala.Pattern{Generator: mandala.Repeat(petal()), Count: 6, Radius: 100}); err != nil {
		t.Fatalf("BuildPattern: %v", err)
	}
	children := l.Children()
	if len(children) != 6 {
		t.Fatalf("children = %d, want 6", len(children))
	}
	for i, d := range children {
		theta := float64(i) * math.Pi / 3
		x, y := d.Position()
		if math.Abs(math.Hypot(x, y)-100) > eps {
			t.Errorf("item %d at distance %v, want 100", i, math.Hypot(x, y))
		}
		if math.Abs(x-100*math.Cos(theta)) > eps || math.Abs(y-100*math.Sin(theta)) > eps {
			t.Errorf("item %d at (%v,%v), want angle %v", i, x, y, theta)
		}
		if got := d.Rotation(); math.Abs(got-(base+theta)) > eps {
			t.Errorf("item %d rotation = %v, want %v", i, got, base+theta)
		}
	}
	if l.LayerType() != mandala.LayerPattern {
		t.Errorf("LayerType = %q, want pattern", l.LayerType())
	}
}

func TestBuildPatternEqualSpacing(t *testing.T) {
	tests := []struct {
		count  int
		radius float64
		offset float64
	}{
		{1, 0, 0},
		{4, 0, 0.5},
		{3, 50, 0},
		{7, 120, math.Pi / 7},
		{12, 80, -1},
		{4, -50, 0},
		{5, -30, math.Pi / 3},
	}
	for _, tt := range tests {
		_, l := newLayer(t, "ring")
		p := mandala.Pattern{Generator: mandala.Repeat(scene.NewGraphics()), Count: tt.count, Radius: tt.radius, Offset: tt.offset}
		if err := l.BuildPattern(p); err != nil {
			t.Fatalf("BuildPattern(%+v): %v", tt, err)
		}
		step := 2 * math.Pi / float64(tt.count)
		for i, d := range l.Children() {
			want := tt.offset + float64(i)*step
			if got := d.Rotation(); math.Abs(got-want) > eps {
				t.Errorf("count %d item %d angle = %v, want %v", tt.count, i, got, want)
			}
			x, y := d.Position()
			wx, wy := tt.radius*math.Cos(want), tt.radius*math.Sin(want)
			if math.Abs(x-wx) > eps || math.Abs(y-wy) > eps {
				t.Errorf("count %d radius %v item %d at (%v,%v), want (%v,%v)", tt.count, tt.radius, i, x, y, wx, wy)
			}
		}
	}
}

func TestBuildPatternReplaces(t *testing.T) {
	_, l := newLayer(t, "ring")
	p := mandala.Pattern{Generator: mandala.Repeat(petal()), Count: 8, Radius: 40}
	for range 2 {
		if err := l.BuildPattern(p); err != nil {
			t.Fatal(err)
		}
	}
	if n := l.ChildCount(); n != 8 {
		t.Errorf("children after two builds = %d, want 8", n)
	}
}

func TestBuildPatternErrors(t *testing.T) {
	failing := errors.New("boom")
	tests := []struct {
		name string
		p    mandala.Pattern
	}{
		{"negative count", mandala.Pattern{Generator: mandala.Repeat(petal()), Count: -1}},
		{"nil generator", mandala.Pattern{Count: 3}},
		{"infinite radius", mandala.Pattern{Generator: mandala.Repeat(petal()), Count: 3, Radius: math.Inf(1)}},
		{"NaN radius", mandala.Pattern{Generator: mandala.Repeat(petal()), Count: 3, Radius: math.NaN()}},
		{"generator error", mandala.Pattern{
			Generator: func(i int) (scene.Drawable, error) {
				if i == 2 {
					return nil, failing
				}
				return petal(), nil
			},
			Count: 4,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, l := newLayer(t, "ring")
			l.AddChild(scene.NewGraphics())
			if err := l.BuildPattern(tt.p); err == nil {
				t.Fatal("expected error")
			}
			if l.ChildCount() != 1 || l.LayerType() != mandala.LayerContainer {
				t.Errorf("layer changed on failed build: %d children, %q", l.ChildCount(), l.LayerType())
			}
		})
	}
}

func TestPatternTemplateIsUnplaced(t *testing.T) {
	_, l := newLayer(t, "ring")
	if err := l.BuildPattern(mandala.Pattern{Generator: mandala.Repeat(petal()), Count: 4, Radius: 60, Offset: 1}); err != nil {
		t.Fatal(err)
	}
	p, tmpl, ok := l.Pattern()
	if !ok || p.Count != 4 || p.Radius != 60 || p.Offset != 1 {
		t.Fatalf("Pattern() = %+v, ok=%v", p, ok)
	}
	if x, y := tmpl.Position(); x != 0 || y != 0 {
		t.Errorf("template position = (%v,%v), want origin", x, y)
	}
	if tmpl.Rotation() != petal().Rotation() {
		t.Errorf("template rotation = %v, want base %v", tmpl.Rotation(), petal().Rotation())
	}
}

func TestAddChildConvertsToContainer(t *testing.T) {
	_, l := newLayer(t, "ring")
	if l.LayerType() != mandala.LayerNone {
		t.Fatalf("new layer type = %q", l.LayerType())
	}
	if err := l.BuildPattern(mandala.Pattern{Generator: mandala.Repeat(petal()), Count: 3, Radius: 10}); err != nil {
		t.Fatal(err)
	}
	l.AddCircle(2, kernel.Black, 50)
	if l.LayerType() != mandala.LayerContainer || l.ChildCount() != 4 {
		t.Errorf("after AddCircle: %q with %d children", l.LayerType(), l.ChildCount())
	}
	if _, _, ok := l.Pattern(); ok {
		t.Error("pattern descriptor should be dropped")
	}
	l.Clear()
	if l.LayerType() != mandala.LayerNone || l.ChildCount() != 0 {
		t.Errorf("after Clear: %q with %d children", l.LayerType(), l.ChildCount())
	}
}

func TestAnimationWindow(t *testing.T) {
	c, l := newLayer(t, "spin")
	var fired []float64
	_, err := l.AddAnimation(func(_ *mandala.Layer, _ float64) {
		fired = append(fired, c.Clock().Now())
	}, mandala.StartAt(10), mandala.For(5))
	if err != nil {
		t.Fatal(err)
	}

	c.ToggleAnimation()
	for range 40 {
		c.Tick()
	}
	want := []float64{10, 11, 12, 13, 14, 15}
	if len(fired) != len(want) {
		t.Fatalf("fired at %v, want %v", fired, want)
	}
	for i := range want {
		if fired[i] != want[i] {
			t.Errorf("fired[%d] = %v, want %v", i, fired[i], want[i])
		}
	}
}

func TestBuiltinAnimations(t *testing.T) {
	c, l := newLayer(t, "a")
	if _, err := l.AddAnimation(mandala.Spin(0.1)); err != nil {
		t.Fatal(err)
	}
	if _, err := l.AddAnimation(mandala.Fade(1, 0, 4)); err != nil {
		t.Fatal(err)
	}
	c.ToggleAnimation()
	for range 10 {
		c.Tick()
	}
	if got := l.Rotation(); math.Abs(got-1) > eps {
		t.Errorf("rotation after 10 ticks = %v, want 1", got)
	}
	if got := l.Alpha(); got != 0 {
		t.Errorf("alpha after fade = %v, want 0", got)
	}

	c2, l2 := newLayer(t, "p")
	l2.AddAnimation(mandala.Pulse(0.5, 4))
	c2.ToggleAnimation()
	c2.Tick() // t=1: sin(π/2) = 1
	if sx, sy := l2.Scale(); math.Abs(sx-1.5) > eps || sx != sy {
		t.Errorf("pulse scale = (%v,%v), want 1.5", sx, sy)
	}
}

func TestStopAnimations(t *testing.T) {
	_, l := newLayer(t, "a")
	l.AddAnimation(mandala.Spin(1))
	l.AddAnimation(mandala.Spin(2))
	if n := len(l.Animations()); n != 2 {
		t.Fatalf("Animations = %d, want 2", n)
	}
	if n := l.StopAnimations(); n != 2 {
		t.Errorf("StopAnimations = %d, want 2", n)
	}
	if n := len(l.Animations()); n != 0 {
		t.Errorf("Animations after stop = %d", n)
	}
}

func TestDetachedCloneCannotAnimate(t *testing.T) {
	_, l := newLayer(t, "a")
	l.AddChild(petal())
	clone := l.Clone().(*mandala.Layer)
	if clone.ChildCount() != 1 || clone.Name() != "a" {
		t.Errorf("clone = %q with %d children", clone.Name(), clone.ChildCount())
	}
	if _, err := clone.AddAnimation(mandala.Spin(1)); err == nil {
		t.Error("expected error animating a detached layer")
	}
}
