package shape_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/Crazzygamerr/zen-mandala/pkg/kernel"
	"github.com/Crazzygamerr/zen-mandala/pkg/kernel/kerneltest"
	"github.com/Crazzygamerr/zen-mandala/pkg/scene"
	"github.com/Crazzygamerr/zen-mandala/pkg/shape"
)

func TestParseType(t *testing.T) {
	for _, typ := range shape.Types {
		got, err := shape.ParseType(string(typ))
		if err != nil || got != typ {
			t.Errorf("ParseType(%q) = %q, %v", typ, got, err)
		}
	}

	for _, name := range []string{"hexagon", "simple-petal", "Circle", ""} {
		_, err := shape.ParseType(name)
		var uerr *shape.UnknownShapeTypeError
		if !errors.As(err, &uerr) || uerr.Name != name {
			t.Errorf("ParseType(%q) error = %v", name, err)
		}
	}
}

func TestSimplePetalDefaults(t *testing.T) {
	p, err := shape.DecodeParams(shape.SimplePetal, json.RawMessage(`{"height":30,"baseSeparation":6}`))
	if err != nil {
		t.Fatalf("DecodeParams: %v", err)
	}
	s, err := shape.New(p, shape.Style{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := s.Params().(shape.SimplePetalParams)
	if *got.Cpx1 != 6 || *got.Cpy1 != 10 || *got.Cpx2 != 3 || *got.Cpy2 != 15 {
		t.Errorf("resolved = cpx1 %v cpy1 %v cpx2 %v cpy2 %v, want 6 10 3 15",
			*got.Cpx1, *got.Cpy1, *got.Cpx2, *got.Cpy2)
	}

	data, err := shape.EncodeParams(s.Params())
	if err != nil {
		t.Fatal(err)
	}
	want := `{"height":30,"baseSeparation":6,"cpx1":6,"cpy1":10,"cpx2":3,"cpy2":15}`
	if string(data) != want {
		t.Errorf("encoded params = %s, want %s", data, want)
	}
}

func TestExplicitParamsWin(t *testing.T) {
	p, err := shape.DecodeParams(shape.Bindi, json.RawMessage(`{"height":40,"cpy1":2}`))
	if err != nil {
		t.Fatal(err)
	}
	b := p.Resolve().(shape.BindiParams)
	if *b.Height != 40 || *b.Cpx1 != 10 || *b.Cpy1 != 2 || *b.Cpx2 != 5 || *b.Cpy2 != 20 {
		t.Errorf("resolved bindi = %v %v %v %v %v", *b.Height, *b.Cpx1, *b.Cpy1, *b.Cpx2, *b.Cpy2)
	}
}

func TestDecodeParamsErrors(t *testing.T) {
	tests := []struct {
		name  string
		typ   shape.Type
		raw   string
		field string
	}{
		{"missing required", shape.SimplePetal, `{"height":30}`, "baseSeparation"},
		{"non numeric", shape.Arrowhead, `{"height":"tall","width":2}`, "height"},
		{"unknown key", shape.Circle, `{"radius":3,"color":1}`, "color"},
		{"null with required", shape.Rectangle, `null`, "width"},
		{"not an object", shape.Triangle, `[1,2]`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := shape.DecodeParams(tt.typ, json.RawMessage(tt.raw))
			var perr *scene.ParamShapeError
			if !errors.As(err, &perr) {
				t.Fatalf("error = %v, want ParamShapeError", err)
			}
			if perr.Field != tt.field {
				t.Errorf("field = %q, want %q", perr.Field, tt.field)
			}
		})
	}
}

func TestParamlessTypes(t *testing.T) {
	for _, typ := range []shape.Type{shape.ArcVariant, shape.LeafVariant, shape.Leaf, shape.None, shape.Bindi} {
		for _, raw := range []string{"", "null", "{}"} {
			if _, err := shape.DecodeParams(typ, json.RawMessage(raw)); err != nil {
				t.Errorf("DecodeParams(%s, %q): %v", typ, raw, err)
			}
		}
	}
	if _, err := shape.New(shape.Empty(shape.SimplePetal), shape.Style{}); err == nil {
		t.Error("expected error for simple_petal without params")
	}
}

// Every registry shape must replay cleanly.
func TestAllShapesDraw(t *testing.T) {
	params := map[shape.Type]string{
		shape.Arrowhead:     `{"height":10,"width":4}`,
		shape.HalfPill:      `{"height":20,"width":6,"curvature":2}`,
		shape.SimplePetal:   `{"height":30,"baseSeparation":6}`,
		shape.Rectangle:     `{"width":10,"height":4}`,
		shape.Circle:        `{"radius":5}`,
		shape.Triangle:      `{"width":10,"height":12}`,
		shape.InvertedThorn: `{"height":20,"width":8}`,
	}
	for _, typ := range shape.Types {
		t.Run(string(typ), func(t *testing.T) {
			p, err := shape.DecodeParams(typ, json.RawMessage(params[typ]))
			if err != nil {
				t.Fatalf("DecodeParams: %v", err)
			}
			s, err := shape.New(p, shape.Style{LineColor: kernel.Red, FillColor: shape.Fill(kernel.White)})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if s.Kind() != scene.KindShape || s.Type() != typ {
				t.Errorf("kind=%v type=%v", s.Kind(), s.Type())
			}
			if s.Rotation() != s.BaseRotation() {
				t.Errorf("rotation %v != base rotation %v", s.Rotation(), s.BaseRotation())
			}
			r := kerneltest.New(100, 100)
			if err := s.Paint(r); err != nil {
				t.Fatalf("Paint: %v", err)
			}
			if typ == shape.None {
				if len(r.Ops) != 0 {
					t.Errorf("none drew %v", r.Names())
				}
			} else if len(r.Paints) == 0 {
				t.Error("shape painted nothing")
			}
		})
	}
}

func TestBaseRotations(t *testing.T) {
	tests := []struct {
		p    shape.Params
		want float64
	}{
		{shape.ArrowheadParams{Height: 1, Width: 1}, 0},
		{shape.SimplePetalParams{Height: 1, BaseSeparation: 1}, -math.Pi / 2},
		{shape.Empty(shape.Leaf), math.Pi / 2},
		{shape.TriangleParams{Width: 1, Height: 1}, -math.Pi / 2},
	}
	for _, tt := range tests {
		s := shape.MustNew(tt.p, shape.Style{})
		if s.Rotation() != tt.want {
			t.Errorf("%s rotation = %v, want %v", s.Type(), s.Rotation(), tt.want)
		}
	}
}

func TestFillStyle(t *testing.T) {
	s := shape.MustNew(shape.ArrowheadParams{Height: 5, Width: 2}, shape.Style{LineColor: kernel.Red, FillColor: shape.Fill(0x00ff00)})
	r := kerneltest.New(10, 10)
	s.Paint(r)
	p := r.Paints[0]
	if !p.Fill || p.FillColor != 0x00ff00 || p.StrokeColor != kernel.Red || p.StrokeWidth != 1 {
		t.Errorf("paint = %+v", p)
	}

	// Unfilled unless the silhouette has its own fill.
	s = shape.MustNew(shape.ArrowheadParams{Height: 5, Width: 2}, shape.Style{})
	r = kerneltest.New(10, 10)
	s.Paint(r)
	if r.Paints[0].Fill {
		t.Error("arrowhead without fill color should not fill")
	}
	s = shape.MustNew(shape.RectangleParams{Width: 5, Height: 2}, shape.Style{})
	r = kerneltest.New(10, 10)
	s.Paint(r)
	if !r.Paints[0].Fill || r.Paints[0].FillColor != kernel.White {
		t.Error("rectangle should default to a white fill")
	}
}

func TestCloneKeepsRegistryData(t *testing.T) {
	s := shape.MustNew(shape.CircleParams{Radius: 4}, shape.Style{FillColor: shape.Fill(kernel.Red)})
	s.SetPosition(1, 1)
	c, ok := s.Clone().(*shape.Shape)
	if !ok {
		t.Fatalf("clone type %T", s.Clone())
	}
	if c.Type() != shape.Circle || *c.Params().(shape.CircleParams).LineWidth != 1 || *c.Style().FillColor != kernel.Red {
		t.Errorf("clone lost registry data: %v %v %v", c.Type(), c.Params(), c.Style())
	}
	if x, _ := c.Position(); x != 1 {
		t.Error("clone lost position")
	}
}

func TestLotus(t *testing.T) {
	l := shape.Lotus(shape.DefaultLotusOptions())
	if n := l.ChildCount(); n != 10 {
		t.Errorf("lotus children = %d, want 7 petals + 3 centre rings", n)
	}
	small := shape.DefaultLotusOptions()
	small.Small = true
	small.ScaleX, small.ScaleY = 2, 2
	ls := shape.Lotus(small)
	if n := ls.ChildCount(); n != 8 {
		t.Errorf("small lotus children = %d, want 8", n)
	}
	if sx, _ := ls.Scale(); sx != 2 {
		t.Errorf("scale = %v", sx)
	}
	first := ls.Children()[0].(*shape.Shape)
	if first.Rotation() != -math.Pi*3/4 {
		t.Errorf("first small petal rotation = %v", first.Rotation())
	}

	r := kerneltest.New(100, 100)
	for _, ch := range l.Children() {
		if err := ch.Paint(r); err != nil {
			t.Fatalf("paint child: %v", err)
		}
	}
}
