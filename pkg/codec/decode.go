package codec

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Crazzygamerr/zen-mandala/pkg/kernel"
	"github.com/Crazzygamerr/zen-mandala/pkg/scene"
	"github.com/Crazzygamerr/zen-mandala/pkg/shape"
)

type shapeJSON struct {
	LineColor *kernel.Color              `json:"lineColor"`
	FillColor *kernel.Color              `json:"fillColor"`
	ShapeType string                     `json:"shapeType"`
	Params    json.RawMessage            `json:"params"`
	Options   map[string]json.RawMessage `json:"options"`
}

type graphicsJSON struct {
	Commands []scene.Command           `json:"commands"`
	Options  map[string]json.RawMessage `json:"options"`
}

type svgJSON struct {
	Options map[string]json.RawMessage `json:"options"`
	SVG     *string                    `json:"svg"`
}

// Decode builds the Drawable described by raw. It never returns a nil
// Drawable: a node that cannot be built becomes a scene.Placeholder.
// The returned error joins every failure found in the tree, each wrapped
// in a PathError when it comes from a descendant.
func Decode(raw json.RawMessage) (scene.Drawable, error) {
	d, fatal, soft := decode(raw)
	if fatal != nil {
		return scene.NewPlaceholder(raw, fatal), fatal
	}
	return d, soft
}

// decode returns either a fatal error, which turns the node into a
// placeholder, or a built node with non-fatal errors.
func decode(raw json.RawMessage) (d scene.Drawable, fatal, soft error) {
	if isNull(raw) {
		return nil, errors.New("node is null"), nil
	}
	t, err := peekType(raw)
	if err != nil {
		return nil, err, nil
	}
	switch t {
	case TypeShape:
		return decodeShape(raw)
	case TypeGraphics:
		return decodeGraphics(raw)
	case TypeContainer:
		return decodeContainer(raw)
	case TypeSVG:
		return decodeSVG(raw)
	default:
		return nil, &UnknownNodeTypeError{Type: t}, nil
	}
}

func decodeShape(raw json.RawMessage) (d scene.Drawable, fatal, soft error) {
	var n shapeJSON
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("shape: %w", err), nil
	}
	typ, err := shape.ParseType(n.ShapeType)
	if err != nil {
		return nil, err, nil
	}
	p, err := shape.DecodeParams(typ, n.Params)
	if err != nil {
		return nil, err, nil
	}
	style := shape.Style{FillColor: n.FillColor}
	if n.LineColor != nil {
		style.LineColor = *n.LineColor
	}
	s, err := shape.New(p, style)
	if err != nil {
		return nil, err, nil
	}
	return s, nil, withPath("options", scene.ApplyProperties(s, n.Options))
}

func decodeGraphics(raw json.RawMessage) (d scene.Drawable, fatal, soft error) {
	var n graphicsJSON
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("graphics: %w", err), nil
	}
	g := scene.NewGraphicsFromCommands(n.Commands)
	// Bad commands are skipped at draw time; report them now.
	soft = errors.Join(
		withPath("commands", g.Validate()),
		withPath("options", scene.ApplyProperties(g, n.Options)),
	)
	return g, nil, soft
}

func decodeSVG(raw json.RawMessage) (d scene.Drawable, fatal, soft error) {
	var n svgJSON
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("svg: %w", err), nil
	}
	if n.SVG == nil {
		return nil, errors.New(`svg: missing "svg" markup`), nil
	}
	s := scene.NewSVG(*n.SVG)
	soft = errors.Join(
		withPath("svg", s.ParseErr()),
		withPath("options", scene.ApplyProperties(s, n.Options)),
	)
	return s, nil, soft
}

func decodeContainer(raw json.RawMessage) (d scene.Drawable, fatal, soft error) {
	var n containerJSON
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("container: %w", err), nil
	}
	c := scene.NewContainer()
	errs := []error{withPath("containerOptions", scene.ApplyProperties(c, n.ContainerOptions))}
	for i, ch := range n.Children {
		child, err := Decode(ch)
		c.AddChild(child)
		errs = append(errs, withPath(fmt.Sprintf("children/%d", i), err))
	}
	return c, nil, errors.Join(errs...)
}
