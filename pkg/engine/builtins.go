package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/Crazzygamerr/zen-mandala/pkg/kernel"
	"github.com/Crazzygamerr/zen-mandala/pkg/mandala"
	"github.com/Crazzygamerr/zen-mandala/pkg/scene"
	"github.com/Crazzygamerr/zen-mandala/pkg/shape"
	"github.com/google/uuid"
	zygo "github.com/glycerine/zygomys/zygo"
)

// builder accumulates the composition produced by one script run.
type builder struct {
	comp *mandala.Composition
}

func newBuilder(defaults mandala.AppOptions) *builder {
	return &builder{comp: mandala.New(defaults)}
}

// transformKeys are accepted by every drawable builtin and by layer.
var transformKeys = []string{"x", "y", "rotation", "angle", "scale", "scale-x", "scale-y", "alpha", "visible"}

func allowed(extra ...string) map[string]bool {
	m := make(map[string]bool, len(transformKeys)+len(extra))
	for _, k := range transformKeys {
		m[k] = true
	}
	for _, k := range extra {
		m[k] = true
	}
	return m
}

// applyTransform sets node properties from keyword arguments. rotation
// and angle add to the node's existing rotation so a shape keeps its
// base orientation.
func applyTransform(d scene.Drawable, kw map[string]zygo.Sexp) error {
	for _, k := range []string{"x", "y", "alpha"} {
		v, ok := kw[k]
		if !ok {
			continue
		}
		f, err := toFloat64(v)
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		if err := scene.SetProperty(d, k, f); err != nil {
			return err
		}
	}
	if v, ok := kw["rotation"]; ok {
		f, err := toFloat64(v)
		if err != nil {
			return fmt.Errorf("rotation: %w", err)
		}
		d.SetRotation(d.Rotation() + f)
	}
	if v, ok := kw["angle"]; ok {
		f, err := toFloat64(v)
		if err != nil {
			return fmt.Errorf("angle: %w", err)
		}
		d.SetRotation(d.Rotation() + f*math.Pi/180)
	}
	if v, ok := kw["scale"]; ok {
		f, err := toFloat64(v)
		if err != nil {
			return fmt.Errorf("scale: %w", err)
		}
		d.SetScale(f, f)
	}
	sx, sy := d.Scale()
	if v, ok := kw["scale-x"]; ok {
		f, err := toFloat64(v)
		if err != nil {
			return fmt.Errorf("scale-x: %w", err)
		}
		sx = f
	}
	if v, ok := kw["scale-y"]; ok {
		f, err := toFloat64(v)
		if err != nil {
			return fmt.Errorf("scale-y: %w", err)
		}
		sy = f
	}
	d.SetScale(sx, sy)
	if v, ok := kw["visible"]; ok {
		b, err := toBool(v)
		if err != nil {
			return fmt.Errorf("visible: %w", err)
		}
		d.SetVisible(b)
	}
	return nil
}

// drawables flattens builtin results and lists of them.
func drawables(items []zygo.Sexp) ([]scene.Drawable, error) {
	var out []scene.Drawable
	for _, it := range items {
		switch v := it.(type) {
		case *sexpDrawable:
			out = append(out, v.d)
		case *zygo.SexpPair, *zygo.SexpArray:
			inner, err := listItems(v)
			if err != nil {
				return nil, err
			}
			ds, err := drawables(inner)
			if err != nil {
				return nil, err
			}
			out = append(out, ds...)
		default:
			return nil, typeErr("drawable", it)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins adds all mandala DSL functions to the zygomys environment.
// Functions whose script names contain dashes are registered with
// underscores; preprocessSource rewrites the call sites to match.
func registerBuiltins(env *zygo.Zlisp, b *builder) {
	for _, t := range shape.Types {
		if t == shape.None {
			continue
		}
		env.AddFunction(string(t), shapeBuiltin(t))
	}

	// -----------------------------------------------------------------------
	// (graphics ("lineStyle" 1 0xffffff 1) ("drawCircle" 0 0 10) :x 5)
	// (graphics [["moveTo" 0 0] ["lineTo" 10 0]])
	// -----------------------------------------------------------------------
	env.AddFunction("graphics", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := splitArgs(args)
		if k, bad := pa.unknown(allowed()); bad {
			return zygo.SexpNull, fmt.Errorf("graphics: unknown keyword :%s", k)
		}
		cmds, err := toCommands(pa.pos)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("graphics: %w", err)
		}
		g := scene.NewGraphicsFromCommands(cmds)
		if err := g.Validate(); err != nil {
			return zygo.SexpNull, fmt.Errorf("graphics: %w", err)
		}
		if err := applyTransform(g, pa.named); err != nil {
			return zygo.SexpNull, fmt.Errorf("graphics: %w", err)
		}
		return &sexpDrawable{d: g}, nil
	})

	// -----------------------------------------------------------------------
	// (container child... :x 10)
	// -----------------------------------------------------------------------
	env.AddFunction("container", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := splitArgs(args)
		if k, bad := pa.unknown(allowed()); bad {
			return zygo.SexpNull, fmt.Errorf("container: unknown keyword :%s", k)
		}
		children, err := drawables(pa.pos)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("container: %w", err)
		}
		c := scene.NewContainer()
		for _, d := range children {
			c.AddChild(d)
		}
		if err := applyTransform(c, pa.named); err != nil {
			return zygo.SexpNull, fmt.Errorf("container: %w", err)
		}
		return &sexpDrawable{d: c}, nil
	})

	// -----------------------------------------------------------------------
	// (svg "<svg>...</svg>" :scale 0.5)
	// -----------------------------------------------------------------------
	env.AddFunction("svg", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := splitArgs(args)
		if k, bad := pa.unknown(allowed()); bad {
			return zygo.SexpNull, fmt.Errorf("svg: unknown keyword :%s", k)
		}
		if len(pa.pos) != 1 {
			return zygo.SexpNull, fmt.Errorf("svg requires exactly one markup string")
		}
		markup, err := toString(pa.pos[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("svg: %w", err)
		}
		s := scene.NewSVG(markup)
		if err := s.ParseErr(); err != nil {
			return zygo.SexpNull, fmt.Errorf("svg: %w", err)
		}
		if err := applyTransform(s, pa.named); err != nil {
			return zygo.SexpNull, fmt.Errorf("svg: %w", err)
		}
		return &sexpDrawable{d: s}, nil
	})

	// -----------------------------------------------------------------------
	// (lotus :small true :fill-color "#fff" :line-color 0 :secondary-color 0)
	// -----------------------------------------------------------------------
	env.AddFunction("lotus", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := splitArgs(args)
		if k, bad := pa.unknown(allowed("small", "fill-color", "line-color", "secondary-color")); bad {
			return zygo.SexpNull, fmt.Errorf("lotus: unknown keyword :%s", k)
		}
		o := shape.DefaultLotusOptions()
		if v, ok := pa.named["small"]; ok {
			small, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("lotus: small: %w", err)
			}
			o.Small = small
		}
		for k, dst := range map[string]*kernel.Color{
			"fill-color":      &o.FillColor,
			"line-color":      &o.LineColor,
			"secondary-color": &o.SecondaryColor,
		} {
			v, ok := pa.named[k]
			if !ok {
				continue
			}
			c, err := toColor(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("lotus: %s: %w", k, err)
			}
			*dst = c
		}
		l := shape.Lotus(o)
		if err := applyTransform(l, pa.named); err != nil {
			return zygo.SexpNull, fmt.Errorf("lotus: %w", err)
		}
		return &sexpDrawable{d: l}, nil
	})

	// -----------------------------------------------------------------------
	// (pattern (simple-petal :height 30 :base-separation 6) 12 80 :offset 0.1)
	// (pattern (fn [i] (bindi :height (+ 4 i))) 8 40)
	// -----------------------------------------------------------------------
	env.AddFunction("pattern", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := splitArgs(args)
		if k, bad := pa.unknown(map[string]bool{"offset": true}); bad {
			return zygo.SexpNull, fmt.Errorf("pattern: unknown keyword :%s", k)
		}
		if len(pa.pos) != 3 {
			return zygo.SexpNull, fmt.Errorf("pattern requires an item, a count and a radius")
		}
		gen, err := toGenerator(env, pa.pos[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pattern: item: %w", err)
		}
		count, err := toInt(pa.pos[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pattern: count: %w", err)
		}
		radius, err := toFloat64(pa.pos[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pattern: radius: %w", err)
		}
		p := mandala.Pattern{Generator: gen, Count: count, Radius: radius}
		if v, ok := pa.named["offset"]; ok {
			off, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("pattern: offset: %w", err)
			}
			p = p.WithOffset(off)
		}
		return &sexpPattern{p: p}, nil
	})

	// -----------------------------------------------------------------------
	// (layer "petals" (pattern ...) :rotation 0.1)
	// (layer (lotus) (circle :radius 40))
	// -----------------------------------------------------------------------
	env.AddFunction("layer", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := splitArgs(args)
		if k, bad := pa.unknown(allowed()); bad {
			return zygo.SexpNull, fmt.Errorf("layer: unknown keyword :%s", k)
		}
		items := pa.pos
		layerName := "layer-" + uuid.NewString()[:8]
		if len(items) > 0 {
			if s, ok := items[0].(*zygo.SexpStr); ok {
				layerName = s.S
				items = items[1:]
			}
		}
		l, err := b.comp.AddLayer(layerName)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("layer: %w", err)
		}
		for i, it := range items {
			if p, ok := it.(*sexpPattern); ok {
				if err := l.BuildPattern(p.p); err != nil {
					return zygo.SexpNull, fmt.Errorf("layer %q: item %d: %w", layerName, i, err)
				}
				continue
			}
			ds, err := drawables([]zygo.Sexp{it})
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("layer %q: item %d: %w", layerName, i, err)
			}
			for _, d := range ds {
				l.AddChild(d)
			}
		}
		if err := applyTransform(l, pa.named); err != nil {
			return zygo.SexpNull, fmt.Errorf("layer %q: %w", layerName, err)
		}
		return &sexpLayer{name: layerName}, nil
	})

	// -----------------------------------------------------------------------
	// (add-circle "rings" 120 :line-width 2 :color "#fff")
	// -----------------------------------------------------------------------
	env.AddFunction("add_circle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := splitArgs(args)
		if k, bad := pa.unknown(map[string]bool{"line-width": true, "color": true}); bad {
			return zygo.SexpNull, fmt.Errorf("add-circle: unknown keyword :%s", k)
		}
		if len(pa.pos) != 2 {
			return zygo.SexpNull, fmt.Errorf("add-circle requires a layer and a radius")
		}
		l, err := b.layer(pa.pos[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-circle: %w", err)
		}
		radius, err := toFloat64(pa.pos[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("add-circle: radius: %w", err)
		}
		width := 1.0
		if v, ok := pa.named["line-width"]; ok {
			if width, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("add-circle: line-width: %w", err)
			}
		}
		color := b.defaultLine()
		if v, ok := pa.named["color"]; ok {
			if color, err = toColor(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("add-circle: color: %w", err)
			}
		}
		l.AddCircle(width, color, radius)
		return &sexpLayer{name: l.Name()}, nil
	})

	// -----------------------------------------------------------------------
	// (animate "petals" :spin 0.01 :start 60 :duration 120)
	// (animate "petals" :pulse 0.1 :period 30)
	// (animate "petals" :fade 0 :from 1 :span 90)
	// -----------------------------------------------------------------------
	env.AddFunction("animate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := splitArgs(args)
		if k, bad := pa.unknown(map[string]bool{
			"spin": true, "pulse": true, "period": true, "fade": true,
			"from": true, "span": true, "start": true, "duration": true,
		}); bad {
			return zygo.SexpNull, fmt.Errorf("animate: unknown keyword :%s", k)
		}
		if len(pa.pos) != 1 {
			return zygo.SexpNull, fmt.Errorf("animate requires a layer")
		}
		l, err := b.layer(pa.pos[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("animate: %w", err)
		}
		fn, err := toAnimation(pa.named)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("animate: %w", err)
		}
		var opts []mandala.AnimationOption
		if v, ok := pa.named["start"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("animate: start: %w", err)
			}
			opts = append(opts, mandala.StartAt(f))
		}
		if v, ok := pa.named["duration"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("animate: duration: %w", err)
			}
			opts = append(opts, mandala.For(f))
		}
		if _, err := l.AddAnimation(fn, opts...); err != nil {
			return zygo.SexpNull, fmt.Errorf("animate: %w", err)
		}
		return &sexpLayer{name: l.Name()}, nil
	})

	// -----------------------------------------------------------------------
	// (app-options :width 800 :height 800 :background "#000")
	// -----------------------------------------------------------------------
	env.AddFunction("app_options", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := splitArgs(args)
		if len(pa.pos) > 0 {
			return zygo.SexpNull, fmt.Errorf("app-options takes keyword arguments only")
		}
		opts := b.comp.Options()
		for _, k := range pa.order {
			v := pa.named[k]
			var err error
			switch k {
			case "width":
				opts.Width, err = toInt(v)
			case "height":
				opts.Height, err = toInt(v)
			case "background":
				opts.Background, err = toColor(v)
			case "background-alpha":
				opts.BackgroundAlpha, err = toFloat64(v)
			case "antialias":
				opts.Antialias, err = toBool(v)
			default:
				return zygo.SexpNull, fmt.Errorf("app-options: unknown keyword :%s", k)
			}
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("app-options: %s: %w", k, err)
			}
		}
		if opts.Width < 0 || opts.Height < 0 {
			return zygo.SexpNull, fmt.Errorf("app-options: negative surface %dx%d", opts.Width, opts.Height)
		}
		b.comp.SetOptions(opts)
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (grid) or (grid false)
	// -----------------------------------------------------------------------
	env.AddFunction("grid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		show := true
		if len(args) > 0 {
			v, err := toBool(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("grid: %w", err)
			}
			show = v
		}
		if b.comp.GridVisible() != show {
			b.comp.ToggleGrid()
		}
		return zygo.SexpNull, nil
	})
}

// layer resolves a layer reference against the composition being built.
func (b *builder) layer(s zygo.Sexp) (*mandala.Layer, error) {
	name, err := toLayerName(s)
	if err != nil {
		return nil, err
	}
	l, ok := b.comp.Layer(name)
	if !ok {
		return nil, &mandala.LayerNotFoundError{Name: name}
	}
	return l, nil
}

// defaultLine picks a stroke colour that contrasts with the background.
func (b *builder) defaultLine() kernel.Color {
	if b.comp.Options().Background == kernel.Black {
		return kernel.White
	}
	return kernel.Black
}

// shapeBuiltin returns the builtin for one registry shape type:
//
//	(simple-petal :height 30 :base-separation 6 :line-color "#fff" :rotation 0.5)
//
// Keywords other than the style and transform keys are shape params, in
// kebab-case.
func shapeBuiltin(t shape.Type) zygo.ZlispUserFunction {
	display := strings.ReplaceAll(string(t), "_", "-")
	return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := splitArgs(args)
		if len(pa.pos) > 0 {
			return zygo.SexpNull, fmt.Errorf("%s takes keyword arguments only", display)
		}
		reserved := allowed("line-color", "fill-color")

		var style shape.Style
		if v, ok := pa.named["line-color"]; ok {
			c, err := toColor(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: line-color: %w", display, err)
			}
			style.LineColor = c
		}
		if v, ok := pa.named["fill-color"]; ok {
			c, err := toColor(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: fill-color: %w", display, err)
			}
			style.FillColor = shape.Fill(c)
		}

		vals := map[string]float64{}
		for _, k := range pa.order {
			if reserved[k] {
				continue
			}
			f, err := toFloat64(pa.named[k])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %s: %w", display, k, err)
			}
			vals[camel(k)] = f
		}

		var params shape.Params = shape.Empty(t)
		if required, optional := shape.Fields(t); len(required)+len(optional) > 0 {
			p, err := shape.ParamsFromValues(t, vals)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", display, err)
			}
			params = p
		} else if k, bad := pa.unknown(reserved); bad {
			return zygo.SexpNull, fmt.Errorf("%s: unknown keyword :%s", display, k)
		}

		s, err := shape.New(params, style)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", display, err)
		}
		if err := applyTransform(s, pa.named); err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", display, err)
		}
		return &sexpDrawable{d: s}, nil
	}
}

// toGenerator turns a pattern item into a Generator. A drawable is
// cloned for every index; a one-argument function is called with the
// index and must return a drawable.
func toGenerator(env *zygo.Zlisp, s zygo.Sexp) (mandala.Generator, error) {
	switch v := s.(type) {
	case *sexpDrawable:
		return mandala.Repeat(v.d), nil
	case *zygo.SexpFunction:
		return func(i int) (scene.Drawable, error) {
			res, err := env.Apply(v, []zygo.Sexp{&zygo.SexpInt{Val: int64(i)}})
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			d, err := toDrawable(res)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			return d.Clone(), nil
		}, nil
	}
	return nil, typeErr("drawable or function", s)
}

// toCommands reads graphics commands. Each argument is either one
// command list ("fn" args...) or a list of such lists.
func toCommands(args []zygo.Sexp) ([]scene.Command, error) {
	var cmds []scene.Command
	for i, a := range args {
		items, err := listItems(a)
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i, err)
		}
		if len(items) == 0 {
			continue
		}
		if _, ok := items[0].(*zygo.SexpStr); !ok {
			nested, err := toCommands(items)
			if err != nil {
				return nil, err
			}
			cmds = append(cmds, nested...)
			continue
		}
		fn, _ := toKeywordString(items[0])
		cmd := scene.Command{Function: fn, Arguments: []any{}}
		for _, it := range items[1:] {
			v, err := toValue(it)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", fn, err)
			}
			cmd.Arguments = append(cmd.Arguments, v)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// toAnimation picks the built-in animation named by exactly one of
// :spin, :pulse or :fade.
func toAnimation(kw map[string]zygo.Sexp) (mandala.AnimationFunc, error) {
	num := func(k string, def float64) (float64, error) {
		v, ok := kw[k]
		if !ok {
			return def, nil
		}
		f, err := toFloat64(v)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", k, err)
		}
		return f, nil
	}

	var chosen []string
	for _, k := range []string{"spin", "pulse", "fade"} {
		if _, ok := kw[k]; ok {
			chosen = append(chosen, k)
		}
	}
	if len(chosen) != 1 {
		return nil, fmt.Errorf("need exactly one of :spin, :pulse or :fade")
	}

	amount, err := num(chosen[0], 0)
	if err != nil {
		return nil, err
	}
	switch chosen[0] {
	case "spin":
		return mandala.Spin(amount), nil
	case "pulse":
		period, err := num("period", 60)
		if err != nil {
			return nil, err
		}
		if period <= 0 {
			return nil, fmt.Errorf("period must be positive")
		}
		return mandala.Pulse(amount, period), nil
	default:
		from, err := num("from", 1)
		if err != nil {
			return nil, err
		}
		span, err := num("span", 60)
		if err != nil {
			return nil, err
		}
		return mandala.Fade(from, amount, span), nil
	}
}
