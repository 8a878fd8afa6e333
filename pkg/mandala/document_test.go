package mandala_test

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/Crazzygamerr/zen-mandala/pkg/codec"
	"github.com/Crazzygamerr/zen-mandala/pkg/kernel"
	"github.com/Crazzygamerr/zen-mandala/pkg/mandala"
	"github.com/Crazzygamerr/zen-mandala/pkg/scene"
	"github.com/Crazzygamerr/zen-mandala/pkg/shape"
)

func sampleComposition(t *testing.T) *mandala.Composition {
	t.Helper()
	c := mandala.New(mandala.AppOptions{Width: 640, Height: 480, Background: kernel.Black, BackgroundAlpha: 1})

	petals, _ := c.AddLayer("petals")
	if err := petals.BuildPattern(mandala.Pattern{Generator: mandala.Repeat(petal()), Count: 12, Radius: 80, Offset: 0.25}); err != nil {
		t.Fatal(err)
	}

	dots, _ := c.AddLayer("dots")
	bindi := shape.MustNew(shape.BindiParams{Height: shape.Float(8)}, shape.Style{LineColor: kernel.Red, FillColor: shape.Fill(kernel.White)})
	if err := dots.BuildPattern(mandala.Pattern{Generator: mandala.Repeat(bindi), Count: 5, Radius: 40}); err != nil {
		t.Fatal(err)
	}

	free, _ := c.AddLayer("free")
	free.AddCircle(2, kernel.White, 120)
	free.AddChild(shape.Lotus(shape.DefaultLotusOptions()))
	return c
}

func TestCompositionRoundTrip(t *testing.T) {
	c := sampleComposition(t)
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	back, err := mandala.FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if back.Options() != c.Options() {
		t.Errorf("options = %+v, want %+v", back.Options(), c.Options())
	}
	if got, want := names(back), names(c); !equal(got, want) {
		t.Fatalf("layers = %v, want %v", got, want)
	}
	for i, l := range c.Layers() {
		bl := back.Layers()[i]
		if bl.LayerType() != l.LayerType() {
			t.Errorf("layer %s type = %q, want %q", l.Name(), bl.LayerType(), l.LayerType())
		}
		if bl.ChildCount() != l.ChildCount() {
			t.Fatalf("layer %s children = %d, want %d", l.Name(), bl.ChildCount(), l.ChildCount())
		}
		for j, d := range l.Children() {
			bd := bl.Children()[j]
			x, y := d.Position()
			bx, by := bd.Position()
			if math.Abs(x-bx) > eps || math.Abs(y-by) > eps || math.Abs(d.Rotation()-bd.Rotation()) > eps {
				t.Errorf("layer %s child %d placement (%v,%v,%v), want (%v,%v,%v)",
					l.Name(), j, bx, by, bd.Rotation(), x, y, d.Rotation())
			}
			if bd.Kind() != d.Kind() {
				t.Errorf("layer %s child %d kind = %v, want %v", l.Name(), j, bd.Kind(), d.Kind())
			}
		}
	}

	again, err := json.Marshal(back)
	if err != nil {
		t.Fatal(err)
	}
	if string(again) != string(data) {
		t.Errorf("second save differs:\n%s\n%s", data, again)
	}
}

func TestPatternItemsShareTemplate(t *testing.T) {
	data, err := json.Marshal(sampleComposition(t))
	if err != nil {
		t.Fatal(err)
	}
	back, err := mandala.FromJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	l, ok := back.Layer("dots")
	if !ok {
		t.Fatal("dots layer missing")
	}
	for i, d := range l.Children() {
		s, ok := d.(*shape.Shape)
		if !ok {
			t.Fatalf("child %d is %T", i, d)
		}
		p := s.Params().(shape.BindiParams)
		if s.Type() != shape.Bindi || *p.Height != 8 || s.Style().LineColor != kernel.Red {
			t.Errorf("child %d = %s %+v", i, s.Type(), s.Style())
		}
	}
}

func TestDocumentShape(t *testing.T) {
	data, err := json.Marshal(sampleComposition(t))
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Type       string         `json:"type"`
		AppOptions map[string]any `json:"appOptions"`
		Layers     []struct {
			Name      string            `json:"name"`
			Type      string            `json:"type"`
			LayerType string            `json:"layerType"`
			Pattern   map[string]any    `json:"pattern"`
			Children  []json.RawMessage `json:"children"`
		} `json:"layers"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Type != "mandala" || doc.AppOptions["width"] != 640.0 {
		t.Errorf("header = %s %v", doc.Type, doc.AppOptions)
	}
	if len(doc.Layers) != 3 {
		t.Fatalf("layers = %d", len(doc.Layers))
	}
	p := doc.Layers[0]
	if p.Type != "mandalaLayer" || p.LayerType != "pattern" || p.Pattern["itemCount"] != 12.0 || p.Children != nil {
		t.Errorf("pattern layer = %+v", p)
	}
	gen := p.Pattern["itemGenerator"].(map[string]any)
	if gen["type"] != "shape" || gen["shapeType"] != "simple_petal" {
		t.Errorf("itemGenerator = %v", gen)
	}
	if _, ok := gen["options"]; ok {
		t.Errorf("template should carry no placement options: %v", gen)
	}
	f := doc.Layers[2]
	if f.LayerType != "container" || len(f.Children) != 2 || f.Pattern != nil {
		t.Errorf("container layer = %+v", f)
	}
}

func TestFromJSONIsolatesFailures(t *testing.T) {
	doc := `{
		"type": "mandala",
		"appOptions": {"width": 300, "height": 300, "resolution": 2},
		"layers": [
			{"name": "good", "type": "mandalaLayer", "layerType": "container", "children": [
				{"type": "graphics", "commands": [{"function": "drawCircle", "arguments": [0, 0, 5]}]},
				{"type": "shape", "lineColor": 0, "shapeType": "hexagon", "params": {}}
			]},
			{"name": "badcount", "type": "mandalaLayer", "layerType": "pattern",
			 "pattern": {"itemGenerator": {"type": "graphics", "commands": []}, "itemCount": 2.5, "radius": 10}},
			{"name": "good", "type": "mandalaLayer", "layerType": "none"},
			42,
			{"name": "ring", "type": "mandalaLayer", "layerType": "pattern",
			 "pattern": {"itemGenerator": {"type": "shape", "lineColor": 0, "shapeType": "simple_petal", "params": {"height": 30}}, "itemCount": 3, "radius": 10}}
		]
	}`
	c, err := mandala.FromJSON([]byte(doc))
	if c == nil {
		t.Fatalf("FromJSON returned nil composition: %v", err)
	}
	var le *mandala.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("error = %v, want *LoadError", err)
	}

	var paths []string
	for _, e := range le.Errs {
		var pe *codec.PathError
		if errors.As(e, &pe) {
			paths = append(paths, pe.Path)
		}
	}
	want := []string{
		"appOptions",
		"layers/1/pattern",
		"layers/3",
		"layers/0/children/1",
		"layers/2",
		"layers/4/pattern/itemGenerator",
	}
	if !equal(paths, want) {
		t.Errorf("error paths = %v\nwant %v", paths, want)
	}

	var inv *scene.InvalidPropertyError
	var dup *mandala.DuplicateNameError
	var pse *scene.ParamShapeError
	if !errors.As(err, &inv) || inv.Key != "resolution" {
		t.Errorf("missing InvalidPropertyError for resolution: %v", err)
	}
	if !errors.As(err, &dup) {
		t.Errorf("missing DuplicateNameError: %v", err)
	}
	if !errors.As(err, &pse) {
		t.Errorf("missing ParamShapeError: %v", err)
	}

	if got := names(c); !equal(got, []string{"good", "badcount", "ring"}) {
		t.Fatalf("layers = %v", got)
	}
	good, _ := c.Layer("good")
	if good.ChildCount() != 2 {
		t.Errorf("good children = %d, want 2", good.ChildCount())
	}
	if _, ok := good.Children()[1].(*scene.Placeholder); !ok {
		t.Errorf("bad child is %T, want placeholder", good.Children()[1])
	}
	bad, _ := c.Layer("badcount")
	if bad.LayerType() != mandala.LayerNone || bad.ChildCount() != 0 {
		t.Errorf("badcount = %q with %d children", bad.LayerType(), bad.ChildCount())
	}
	ring, _ := c.Layer("ring")
	if ring.ChildCount() != 3 {
		t.Errorf("ring children = %d, want 3", ring.ChildCount())
	}
	if c.Options().Width != 300 {
		t.Errorf("width = %d", c.Options().Width)
	}
}

func TestFromJSONNegativeCount(t *testing.T) {
	doc := `{"type":"mandala","appOptions":{},"layers":[
		{"name":"n","type":"mandalaLayer","layerType":"pattern","pattern":{"itemGenerator":null,"itemCount":-3,"radius":1}}]}`
	c, err := mandala.FromJSON([]byte(doc))
	var pse *scene.ParamShapeError
	if !errors.As(err, &pse) || pse.Field != "itemCount" {
		t.Fatalf("error = %v, want itemCount ParamShapeError", err)
	}
	l, _ := c.Layer("n")
	if l.LayerType() != mandala.LayerNone {
		t.Errorf("layer type = %q, want none", l.LayerType())
	}
}

func TestFromJSONNegativeRadius(t *testing.T) {
	doc := `{"type":"mandala","appOptions":{},"layers":[
		{"name":"n","type":"mandalaLayer","layerType":"pattern","pattern":{"itemGenerator":{"type":"graphics","commands":[]},"itemCount":4,"radius":-50,"offset":0.25}}]}`
	c, err := mandala.FromJSON([]byte(doc))
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	l, _ := c.Layer("n")
	if l.LayerType() != mandala.LayerPattern || l.ChildCount() != 4 {
		t.Fatalf("layer = %q with %d children, want pattern with 4", l.LayerType(), l.ChildCount())
	}
	x, y := l.Children()[0].Position()
	if math.Abs(x+50*math.Cos(0.25)) > 1e-9 || math.Abs(y+50*math.Sin(0.25)) > 1e-9 {
		t.Errorf("item 0 at (%v,%v), want (%v,%v)", x, y, -50*math.Cos(0.25), -50*math.Sin(0.25))
	}

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"radius":-50`) {
		t.Errorf("saved document lost the radius: %s", data)
	}
}

func TestFromJSONMalformed(t *testing.T) {
	for _, in := range []string{`[]`, `{"layers": {}}`, `not json`} {
		c, err := mandala.FromJSON([]byte(in))
		if err == nil || c != nil {
			t.Errorf("FromJSON(%s) = %v, %v; want nil composition and error", in, c, err)
		}
	}
}

func TestLoadErrorMessage(t *testing.T) {
	err := &mandala.LoadError{Errs: []error{errors.New("a"), errors.New("b")}}
	if msg := err.Error(); !strings.Contains(msg, "2 problems") || !strings.Contains(msg, "a; b") {
		t.Errorf("Error() = %q", msg)
	}
}

func TestPlaceholderSurvivesSave(t *testing.T) {
	doc := `{"type":"mandala","appOptions":{"width":100,"height":100},"layers":[
		{"name":"l","type":"mandalaLayer","layerType":"container","children":[{"type":"blob","x":1}]}]}`
	c, _ := mandala.FromJSON([]byte(doc))
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `{"type":"blob","x":1}`) {
		t.Errorf("placeholder JSON lost:\n%s", data)
	}
}
