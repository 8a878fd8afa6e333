package shape

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/Crazzygamerr/zen-mandala/pkg/scene"
)

// Params is the parameter record of one shape type. Optional fields are
// pointers; Resolve fills every nil pointer with its default.
type Params interface {
	Type() Type
	// Resolve returns a copy with all defaults applied.
	Resolve() Params
}

type ArrowheadParams struct {
	Height float64 `json:"height"`
	Width  float64 `json:"width"`
}

// EmptyParams is used by the shape types that take no parameters.
type EmptyParams struct {
	T Type `json:"-"`
}

// Empty returns the params of a parameterless shape type.
func Empty(t Type) EmptyParams { return EmptyParams{T: t} }

type HalfPillParams struct {
	Height    float64  `json:"height"`
	Width     float64  `json:"width"`
	Curvature *float64 `json:"curvature,omitempty"`
}

type SimplePetalParams struct {
	Height         float64  `json:"height"`
	BaseSeparation float64  `json:"baseSeparation"`
	Cpx1           *float64 `json:"cpx1,omitempty"`
	Cpy1           *float64 `json:"cpy1,omitempty"`
	Cpx2           *float64 `json:"cpx2,omitempty"`
	Cpy2           *float64 `json:"cpy2,omitempty"`
}

type BindiParams struct {
	Height *float64 `json:"height,omitempty"`
	Cpx1   *float64 `json:"cpx1,omitempty"`
	Cpy1   *float64 `json:"cpy1,omitempty"`
	Cpx2   *float64 `json:"cpx2,omitempty"`
	Cpy2   *float64 `json:"cpy2,omitempty"`
}

type RectangleParams struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type CircleParams struct {
	Radius    float64  `json:"radius"`
	LineWidth *float64 `json:"lineWidth,omitempty"`
}

type TriangleParams struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type InvertedThornParams struct {
	Height    float64  `json:"height"`
	Width     float64  `json:"width"`
	Cpx       *float64 `json:"cpx,omitempty"`
	Cpy       *float64 `json:"cpy,omitempty"`
	Curvature *float64 `json:"curvature,omitempty"`
}

func (ArrowheadParams) Type() Type     { return Arrowhead }
func (p EmptyParams) Type() Type       { return p.T }
func (HalfPillParams) Type() Type      { return HalfPill }
func (SimplePetalParams) Type() Type   { return SimplePetal }
func (BindiParams) Type() Type         { return Bindi }
func (RectangleParams) Type() Type     { return Rectangle }
func (CircleParams) Type() Type        { return Circle }
func (TriangleParams) Type() Type      { return Triangle }
func (InvertedThornParams) Type() Type { return InvertedThorn }

func (p ArrowheadParams) Resolve() Params { return p }
func (p EmptyParams) Resolve() Params     { return p }
func (p RectangleParams) Resolve() Params { return p }
func (p TriangleParams) Resolve() Params  { return p }

func (p HalfPillParams) Resolve() Params {
	p.Curvature = orDefault(p.Curvature, 0)
	return p
}

func (p SimplePetalParams) Resolve() Params {
	p.Cpx1 = orDefault(p.Cpx1, p.BaseSeparation)
	p.Cpy1 = orDefault(p.Cpy1, p.Height/3)
	p.Cpx2 = orDefault(p.Cpx2, p.BaseSeparation/2)
	p.Cpy2 = orDefault(p.Cpy2, p.Height/2)
	return p
}

func (p BindiParams) Resolve() Params {
	p.Height = orDefault(p.Height, 60)
	h := *p.Height
	p.Cpx1 = orDefault(p.Cpx1, h/4)
	p.Cpy1 = orDefault(p.Cpy1, 0)
	p.Cpx2 = orDefault(p.Cpx2, h/8)
	p.Cpy2 = orDefault(p.Cpy2, h/2)
	return p
}

func (p CircleParams) Resolve() Params {
	p.LineWidth = orDefault(p.LineWidth, 1)
	return p
}

func (p InvertedThornParams) Resolve() Params {
	p.Cpx = orDefault(p.Cpx, 0)
	p.Cpy = orDefault(p.Cpy, p.Height*3/4)
	p.Curvature = orDefault(p.Curvature, 0)
	return p
}

func orDefault(v *float64, def float64) *float64 {
	if v != nil {
		return v
	}
	return &def
}

// Float returns a pointer to v, for filling optional parameters.
func Float(v float64) *float64 { return &v }

// --- Schema ---

type field struct {
	name     string
	required bool
}

var schemas = map[Type][]field{
	Arrowhead:   {{"height", true}, {"width", true}},
	ArcVariant:  nil,
	LeafVariant: nil,
	Leaf:        nil,
	HalfPill:    {{"height", true}, {"width", true}, {"curvature", false}},
	SimplePetal: {
		{"height", true}, {"baseSeparation", true},
		{"cpx1", false}, {"cpy1", false}, {"cpx2", false}, {"cpy2", false},
	},
	Bindi:     {{"height", false}, {"cpx1", false}, {"cpy1", false}, {"cpx2", false}, {"cpy2", false}},
	Rectangle: {{"width", true}, {"height", true}},
	Circle:    {{"radius", true}, {"lineWidth", false}},
	Triangle:  {{"width", true}, {"height", true}},
	InvertedThorn: {
		{"height", true}, {"width", true},
		{"cpx", false}, {"cpy", false}, {"curvature", false},
	},
	None: nil,
}

// Fields returns the parameter names of t, required ones first.
func Fields(t Type) (required, optional []string) {
	for _, f := range schemas[t] {
		if f.required {
			required = append(required, f.name)
		} else {
			optional = append(optional, f.name)
		}
	}
	return required, optional
}

// DecodeParams parses a JSON params object for t. A missing required
// field, a non-numeric value or an unknown key is a ParamShapeError. Null
// or absent params are accepted only for types without required fields.
func DecodeParams(t Type, raw json.RawMessage) (Params, error) {
	ctx := string(t) + " params"
	if _, ok := schemas[t]; !ok {
		return nil, &UnknownShapeTypeError{Name: string(t)}
	}
	vals := map[string]float64{}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return nil, &scene.ParamShapeError{Context: ctx, Reason: "want object"}
		}
		for _, k := range slices.Sorted(maps.Keys(fields)) {
			var v float64
			if err := json.Unmarshal(fields[k], &v); err != nil {
				return nil, &scene.ParamShapeError{Context: ctx, Field: k, Reason: "want number"}
			}
			vals[k] = v
		}
	}
	return ParamsFromValues(t, vals)
}

// ParamsFromValues builds the Params for t from named numeric values,
// applying the same checks as DecodeParams.
func ParamsFromValues(t Type, vals map[string]float64) (Params, error) {
	ctx := string(t) + " params"
	schema, ok := schemas[t]
	if !ok {
		return nil, &UnknownShapeTypeError{Name: string(t)}
	}
	known := map[string]bool{}
	for _, f := range schema {
		known[f.name] = true
		if _, ok := vals[f.name]; f.required && !ok {
			return nil, &scene.ParamShapeError{Context: ctx, Field: f.name, Reason: "required"}
		}
	}
	for _, k := range slices.Sorted(maps.Keys(vals)) {
		if !known[k] {
			return nil, &scene.ParamShapeError{Context: ctx, Field: k, Reason: "unknown field"}
		}
	}

	opt := func(k string) *float64 {
		if v, ok := vals[k]; ok {
			return &v
		}
		return nil
	}
	switch t {
	case Arrowhead:
		return ArrowheadParams{Height: vals["height"], Width: vals["width"]}, nil
	case HalfPill:
		return HalfPillParams{Height: vals["height"], Width: vals["width"], Curvature: opt("curvature")}, nil
	case SimplePetal:
		return SimplePetalParams{
			Height: vals["height"], BaseSeparation: vals["baseSeparation"],
			Cpx1: opt("cpx1"), Cpy1: opt("cpy1"), Cpx2: opt("cpx2"), Cpy2: opt("cpy2"),
		}, nil
	case Bindi:
		return BindiParams{
			Height: opt("height"),
			Cpx1:   opt("cpx1"), Cpy1: opt("cpy1"), Cpx2: opt("cpx2"), Cpy2: opt("cpy2"),
		}, nil
	case Rectangle:
		return RectangleParams{Width: vals["width"], Height: vals["height"]}, nil
	case Circle:
		return CircleParams{Radius: vals["radius"], LineWidth: opt("lineWidth")}, nil
	case Triangle:
		return TriangleParams{Width: vals["width"], Height: vals["height"]}, nil
	case InvertedThorn:
		return InvertedThornParams{
			Height: vals["height"], Width: vals["width"],
			Cpx: opt("cpx"), Cpy: opt("cpy"), Curvature: opt("curvature"),
		}, nil
	default:
		return EmptyParams{T: t}, nil
	}
}

// EncodeParams marshals p as a JSON object. Types without parameters
// encode as {}.
func EncodeParams(p Params) (json.RawMessage, error) {
	if _, ok := p.(EmptyParams); ok {
		return json.RawMessage("{}"), nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode %s params: %w", p.Type(), err)
	}
	return data, nil
}
