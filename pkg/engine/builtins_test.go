package engine

import (
	"math"
	"strings"
	"testing"

	"github.com/Crazzygamerr/zen-mandala/pkg/kernel"
	"github.com/Crazzygamerr/zen-mandala/pkg/mandala"
	"github.com/Crazzygamerr/zen-mandala/pkg/scene"
	"github.com/Crazzygamerr/zen-mandala/pkg/shape"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(bindi :height 8)`,
			expect: `(bindi "__kw_height" 8)`,
		},
		{
			name:   "multiple keywords",
			input:  `(rectangle :width 40 :height 20)`,
			expect: `(rectangle "__kw_width" 40 "__kw_height" 20)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(simple-petal :base-separation 6)`,
			expect: `(simple_petal "__kw_base-separation" 6)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:line-color`,
			expect: `"__kw_line-color"`,
		},
		{
			name:   "colour string untouched",
			input:  `(app-options :background "#0a0a0a")`,
			expect: `(app_options "__kw_background" "#0a0a0a")`,
		},
		{
			name:   "bare colour literals",
			input:  `(leaf :line-color #fff :fill-color #10a0ff)`,
			expect: `(leaf "__kw_line-color" "#fff" "__kw_fill-color" "#10a0ff")`,
		},
		{
			name:   "hash that is not a colour",
			input:  `(foo #abcd #ffg)`,
			expect: `(foo #abcd #ffg)`,
		},
		{
			name:   "unterminated string",
			input:  `(foo "a-b`,
			expect: `(foo "a-b`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestCamel(t *testing.T) {
	tests := []struct{ kebab, camel string }{
		{"height", "height"},
		{"base-separation", "baseSeparation"},
		{"line-width", "lineWidth"},
		{"cpx1", "cpx1"},
	}
	for _, tt := range tests {
		if got := camel(tt.kebab); got != tt.camel {
			t.Errorf("camel(%q) = %q, want %q", tt.kebab, got, tt.camel)
		}
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func mustEval(t *testing.T, src string) *mandala.Composition {
	t.Helper()
	c, evalErrs, err := NewEngine().Evaluate(src)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if c == nil {
		t.Fatal("expected non-nil composition")
	}
	return c
}

func mustLayer(t *testing.T, c *mandala.Composition, name string) *mandala.Layer {
	t.Helper()
	l, ok := c.Layer(name)
	if !ok {
		t.Fatalf("no layer named %q", name)
	}
	return l
}

// ---------------------------------------------------------------------------
// Pattern layers
// ---------------------------------------------------------------------------

func TestPatternLayer(t *testing.T) {
	c := mustEval(t, `
(layer "petals"
  (pattern (simple-petal :height 30 :base-separation 6 :line-color "#fff") 12 80 :offset 0.25))
`)
	l := mustLayer(t, c, "petals")
	if l.LayerType() != mandala.LayerPattern {
		t.Fatalf("layer type = %q, want pattern", l.LayerType())
	}
	if l.ChildCount() != 12 {
		t.Fatalf("children = %d, want 12", l.ChildCount())
	}
	p, tmpl, ok := l.Pattern()
	if !ok || p.Count != 12 || p.Radius != 80 || p.Offset != 0.25 {
		t.Errorf("pattern = %+v", p)
	}
	s, ok := tmpl.(*shape.Shape)
	if !ok {
		t.Fatalf("template is %T", tmpl)
	}
	params := s.Params().(shape.SimplePetalParams)
	if s.Type() != shape.SimplePetal || params.Height != 30 || params.BaseSeparation != 6 {
		t.Errorf("template = %s %+v", s.Type(), params)
	}
	if s.Style().LineColor != kernel.White {
		t.Errorf("line color = %v", s.Style().LineColor)
	}
	x, y := l.Children()[0].Position()
	if math.Abs(x-80*math.Cos(0.25)) > 1e-9 || math.Abs(y-80*math.Sin(0.25)) > 1e-9 {
		t.Errorf("first item at (%v,%v)", x, y)
	}
}

func TestPatternFunctionGenerator(t *testing.T) {
	c := mustEval(t, `
(layer "grow" (pattern (fn [i] (bindi :height (+ 4 i))) 4 40))
`)
	l := mustLayer(t, c, "grow")
	if l.ChildCount() != 4 {
		t.Fatalf("children = %d, want 4", l.ChildCount())
	}
	for i, d := range l.Children() {
		p := d.(*shape.Shape).Params().(shape.BindiParams)
		if *p.Height != float64(4+i) {
			t.Errorf("item %d height = %v, want %d", i, *p.Height, 4+i)
		}
	}
}

func TestShapeRotationIsAdditive(t *testing.T) {
	base := shape.MustNew(shape.Empty(shape.Leaf), shape.Style{}).Rotation()
	c := mustEval(t, `(layer "l" (leaf :rotation 0.5 :x 10 :scale 2))`)
	d := mustLayer(t, c, "l").Children()[0]
	if got := d.Rotation(); math.Abs(got-(base+0.5)) > 1e-9 {
		t.Errorf("rotation = %v, want %v", got, base+0.5)
	}
	if x, _ := d.Position(); x != 10 {
		t.Errorf("x = %v", x)
	}
	if sx, sy := d.Scale(); sx != 2 || sy != 2 {
		t.Errorf("scale = (%v,%v)", sx, sy)
	}
}

// ---------------------------------------------------------------------------
// Container layers
// ---------------------------------------------------------------------------

func TestContainerLayer(t *testing.T) {
	c := mustEval(t, `
(layer "free"
  (lotus :small true)
  (container (circle :radius 10) (triangle :width 4 :height 6) :alpha 0.5)
  (graphics (list "lineStyle" 1 "#fff" 1) (list "drawCircle" 0 0 30))
  :angle 90)
(add-circle "free" 120 :line-width 2)
`)
	l := mustLayer(t, c, "free")
	if l.LayerType() != mandala.LayerContainer {
		t.Fatalf("layer type = %q", l.LayerType())
	}
	if l.ChildCount() != 4 {
		t.Fatalf("children = %d, want 4", l.ChildCount())
	}
	if got := l.Rotation(); math.Abs(got-math.Pi/2) > 1e-9 {
		t.Errorf("layer rotation = %v", got)
	}
	box := l.Children()[1]
	if box.Kind() != scene.KindContainer || len(box.Children()) != 2 || box.Alpha() != 0.5 {
		t.Errorf("container = %v with %d children, alpha %v", box.Kind(), len(box.Children()), box.Alpha())
	}
	g := l.Children()[2].(*scene.Graphics)
	cmds := g.Commands()
	if len(cmds) != 2 || cmds[0].Function != "lineStyle" || cmds[1].Function != "drawCircle" {
		t.Errorf("commands = %+v", cmds)
	}
	ring := l.Children()[3].(*scene.Graphics)
	if fn := ring.Commands()[1].Function; fn != "drawCircle" {
		t.Errorf("add-circle second command = %q", fn)
	}
}

func TestGraphicsArrayForm(t *testing.T) {
	c := mustEval(t, `(layer "g" (graphics [["moveTo" 0 0] ["lineTo" 10 0]]))`)
	g := mustLayer(t, c, "g").Children()[0].(*scene.Graphics)
	if n := len(g.Commands()); n != 2 {
		t.Errorf("commands = %d, want 2", n)
	}
}

func TestAnonymousLayer(t *testing.T) {
	c := mustEval(t, `(layer (circle :radius 5)) (layer (circle :radius 6))`)
	if c.Len() != 2 {
		t.Fatalf("layers = %d", c.Len())
	}
	for _, l := range c.Layers() {
		if !strings.HasPrefix(l.Name(), "layer-") || len(l.Name()) != len("layer-")+8 {
			t.Errorf("anonymous name = %q", l.Name())
		}
	}
}

// ---------------------------------------------------------------------------
// Animation, options and grid
// ---------------------------------------------------------------------------

func TestAnimate(t *testing.T) {
	c := mustEval(t, `
(layer "a" (circle :radius 5))
(animate "a" :spin 0.1 :start 2 :duration 3)
(animate (layer "b" (circle :radius 5)) :fade 0 :span 4)
`)
	a := mustLayer(t, c, "a")
	b := mustLayer(t, c, "b")
	if len(a.Animations()) != 1 || len(b.Animations()) != 1 {
		t.Fatalf("animations = %d, %d", len(a.Animations()), len(b.Animations()))
	}
	c.ToggleAnimation()
	for range 10 {
		c.Tick()
	}
	// Fires at t = 2, 3, 4, 5.
	if got := a.Rotation(); math.Abs(got-0.4) > 1e-9 {
		t.Errorf("spin rotation = %v, want 0.4", got)
	}
	if got := b.Alpha(); got != 0 {
		t.Errorf("fade alpha = %v, want 0", got)
	}
}

func TestAppOptionsAndGrid(t *testing.T) {
	c := mustEval(t, `
(app-options :width 400 :height 300 :background "#000" :antialias false)
(grid)
`)
	o := c.Options()
	if o.Width != 400 || o.Height != 300 || o.Background != kernel.Black || o.Antialias {
		t.Errorf("options = %+v", o)
	}
	if !c.GridVisible() {
		t.Error("grid not visible")
	}
	if c = mustEval(t, `(grid) (grid false)`); c.GridVisible() {
		t.Error("(grid false) left the grid visible")
	}
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"missing required param", `(simple-petal :height 30)`, "baseSeparation"},
		{"unknown shape param", `(circle :radius 3 :wobble 1)`, "wobble"},
		{"paramless shape with params", `(leaf :height 3)`, "height"},
		{"negative count", `(layer "l" (pattern (leaf) -1 10))`, "itemCount"},
		{"fractional count", `(pattern (leaf) 2.5 10)`, "integer"},
		{"duplicate layer", `(layer "a") (layer "a")`, "a"},
		{"unknown graphics op", `(graphics (list "teleport" 1 2))`, "teleport"},
		{"animate unknown layer", `(animate "ghost" :spin 1)`, "ghost"},
		{"animate without kind", `(layer "a") (animate "a" :start 3)`, "exactly one"},
		{"bad colour", `(circle :radius 3 :line-color "blue")`, "line-color"},
		{"bad svg", `(svg "<svg><rect")`, "svg"},
		{"unknown app option", `(app-options :resolution 2)`, "resolution"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, evalErrs, err := NewEngine().Evaluate(tt.src)
			if err != nil {
				t.Fatalf("unexpected fatal error: %v", err)
			}
			if len(evalErrs) == 0 {
				t.Fatal("expected eval errors")
			}
			if c != nil {
				t.Error("expected nil composition")
			}
			if msg := evalErrs[0].Message; !strings.Contains(msg, tt.want) {
				t.Errorf("message = %q, want containing %q", msg, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Round trip through the document model
// ---------------------------------------------------------------------------

func TestScriptCompositionSaves(t *testing.T) {
	c := mustEval(t, `
(app-options :width 320 :height 320)
(layer "ring" (pattern (half-pill :height 20 :width 8 :fill-color "#f0a") 9 60))
(layer "core" (lotus))
`)
	data, err := c.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	back, err := mandala.FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if back.Len() != 2 || mustLayer(t, back, "ring").ChildCount() != 9 {
		t.Errorf("reloaded composition has %d layers", back.Len())
	}
}
