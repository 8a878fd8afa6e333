package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/Crazzygamerr/zen-mandala/pkg/kernel"
	"github.com/Crazzygamerr/zen-mandala/pkg/mandala"
	"github.com/Crazzygamerr/zen-mandala/pkg/scene"
	"github.com/Crazzygamerr/zen-mandala/pkg/shape"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpDrawable wraps a scene.Drawable so it can be passed between builtins.
type sexpDrawable struct {
	d scene.Drawable
}

func (s *sexpDrawable) SexpString(ps *zygo.PrintState) string {
	if sh, ok := s.d.(*shape.Shape); ok {
		return fmt.Sprintf("(shape %s)", sh.Type())
	}
	return fmt.Sprintf("(%s)", s.d.Kind())
}
func (s *sexpDrawable) Type() *zygo.RegisteredType { return nil }

// sexpPattern wraps a mandala.Pattern returned by `pattern`.
type sexpPattern struct {
	p mandala.Pattern
}

func (s *sexpPattern) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(pattern %d %g)", s.p.Count, s.p.Radius)
}
func (s *sexpPattern) Type() *zygo.RegisteredType { return nil }

// sexpLayer names a layer of the composition being built.
type sexpLayer struct {
	name string
}

func (s *sexpLayer) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(layer %q)", s.name)
}
func (s *sexpLayer) Type() *zygo.RegisteredType { return nil }

// Arguments

const kwPrefix = "__kw_"

// keyword reports the name of a preprocessed :keyword.
func keyword(s zygo.Sexp) (string, bool) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return strings.CutPrefix(str.S, kwPrefix)
	}
	return "", false
}

// callArgs is a builtin's argument list split into named (:key value)
// and positional parts.
type callArgs struct {
	named map[string]zygo.Sexp
	order []string
	pos   []zygo.Sexp
}

// splitArgs splits args. A trailing keyword with no value is a flag and
// maps to null.
func splitArgs(args []zygo.Sexp) callArgs {
	ca := callArgs{named: map[string]zygo.Sexp{}}
	for len(args) > 0 {
		head := args[0]
		args = args[1:]
		name, ok := keyword(head)
		if !ok {
			ca.pos = append(ca.pos, head)
			continue
		}
		if _, dup := ca.named[name]; !dup {
			ca.order = append(ca.order, name)
		}
		ca.named[name] = zygo.SexpNull
		if len(args) > 0 {
			ca.named[name] = args[0]
			args = args[1:]
		}
	}
	return ca
}

// unknown returns the first keyword not in allowed, in source order.
func (a callArgs) unknown(allowed map[string]bool) (string, bool) {
	for _, k := range a.order {
		if !allowed[k] {
			return k, true
		}
	}
	return "", false
}

func typeErr(want string, s zygo.Sexp) error {
	return fmt.Errorf("want %s, have %T (%s)", want, s, s.SexpString(nil))
}

func toFloat64(s zygo.Sexp) (float64, error) {
	if n, ok := s.(*zygo.SexpInt); ok {
		return float64(n.Val), nil
	}
	if f, ok := s.(*zygo.SexpFloat); ok {
		return f.Val, nil
	}
	return 0, typeErr("number", s)
}

// toInt extracts a whole number.
func toInt(s zygo.Sexp) (int, error) {
	f, err := toFloat64(s)
	switch {
	case err != nil:
		return 0, err
	case f != math.Trunc(f):
		return 0, fmt.Errorf("want integer, have %g", f)
	}
	return int(f), nil
}

func toString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", typeErr("string", s)
	}
	return str.S, nil
}

// toKeywordString accepts :spin and "spin" alike.
func toKeywordString(s zygo.Sexp) (string, error) {
	str, err := toString(s)
	if err != nil {
		return "", typeErr("keyword or string", s)
	}
	return strings.TrimPrefix(str, kwPrefix), nil
}

// toBool accepts booleans; a bare flag keyword (null value) counts as true.
func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	if s == zygo.SexpNull {
		return true, nil
	}
	return false, typeErr("boolean", s)
}

// toColor accepts an integer 0xRRGGBB or a "#rgb"/"#rrggbb" string.
func toColor(s zygo.Sexp) (kernel.Color, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		if v.Val < 0 || v.Val > 0xffffff {
			return 0, fmt.Errorf("color %d out of range", v.Val)
		}
		return kernel.Color(v.Val), nil
	case *zygo.SexpStr:
		return kernel.ParseColor(v.S)
	}
	return 0, typeErr("color", s)
}

func toDrawable(s zygo.Sexp) (scene.Drawable, error) {
	if d, ok := s.(*sexpDrawable); ok {
		return d.d, nil
	}
	return nil, typeErr("drawable", s)
}

// toLayerName accepts a layer reference or a layer name.
func toLayerName(s zygo.Sexp) (string, error) {
	if l, ok := s.(*sexpLayer); ok {
		return l.name, nil
	}
	name, err := toString(s)
	if err != nil {
		return "", fmt.Errorf("want layer or layer name: %w", err)
	}
	return name, nil
}

// listItems flattens a list or array; null is the empty list.
func listItems(s zygo.Sexp) ([]zygo.Sexp, error) {
	if s == zygo.SexpNull {
		return nil, nil
	}
	if arr, ok := s.(*zygo.SexpArray); ok {
		return arr.Val, nil
	}
	if p, ok := s.(*zygo.SexpPair); ok {
		return zygo.ListToArray(p)
	}
	return nil, typeErr("list", s)
}

// toValue converts a Sexp into the plain Go value used in graphics
// command arguments: numbers become float64, keywords their names.
func toValue(s zygo.Sexp) (any, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	case *zygo.SexpStr:
		return strings.TrimPrefix(v.S, kwPrefix), nil
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpPair, *zygo.SexpArray:
		items, err := listItems(s)
		if err != nil {
			return nil, err
		}
		out := make([]any, len(items))
		for i, it := range items {
			if out[i], err = toValue(it); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value %T (%s)", s, s.SexpString(nil))
}

// camel converts a kebab-case keyword to the camelCase JSON field name:
// base-separation -> baseSeparation.
func camel(kw string) string {
	parts := strings.Split(kw, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}
