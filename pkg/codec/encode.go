package codec

import (
	"encoding/json"
	"fmt"

	"github.com/Crazzygamerr/zen-mandala/pkg/scene"
	"github.com/Crazzygamerr/zen-mandala/pkg/shape"
)

// Encode describes d as a Node. Placeholders re-emit the JSON they were
// loaded from. Only containers serialize their children.
func Encode(d scene.Drawable) (Node, error) {
	switch n := d.(type) {
	case *scene.Placeholder:
		return RawNode(n.Raw()), nil
	case *shape.Shape:
		return encodeShape(n)
	case *scene.SVG:
		return SVGNode{SVG: n.Markup(), Options: scene.Properties(n, nil)}, nil
	case *scene.Graphics:
		return GraphicsNode{Commands: n.Commands(), Options: scene.Properties(n, nil)}, nil
	}
	if d.Kind() == scene.KindContainer {
		return encodeContainer(d)
	}
	return nil, fmt.Errorf("encode: unsupported drawable %T", d)
}

func encodeShape(s *shape.Shape) (Node, error) {
	params, err := shape.EncodeParams(s.Params())
	if err != nil {
		return nil, err
	}
	// Options hold only what differs from a freshly built shape, so the
	// base rotation is not repeated.
	ref := scene.NewNode()
	ref.SetRotation(s.BaseRotation())
	st := s.Style()
	return ShapeNode{
		LineColor: st.LineColor,
		FillColor: st.FillColor,
		ShapeType: string(s.Type()),
		Params:    params,
		Options:   scene.Properties(s, &ref),
	}, nil
}

func encodeContainer(d scene.Drawable) (Node, error) {
	n := ContainerNode{ContainerOptions: scene.Properties(d, nil)}
	for i, ch := range d.Children() {
		child, err := Encode(ch)
		if err != nil {
			return nil, withPath(fmt.Sprintf("children/%d", i), err)
		}
		n.Children = append(n.Children, child)
	}
	return n, nil
}

// Marshal encodes d to JSON.
func Marshal(d scene.Drawable) (json.RawMessage, error) {
	n, err := Encode(d)
	if err != nil {
		return nil, err
	}
	return json.Marshal(n)
}
