// Package codec converts scene trees to and from their JSON description.
//
// Every node is an object discriminated by "type": "shape", "graphics",
// "container" or "svg". Decoding is lenient per node: a node that cannot
// be built is replaced by a scene.Placeholder that keeps the original
// JSON, and the failure is reported alongside the decoded tree.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Crazzygamerr/zen-mandala/pkg/kernel"
	"github.com/Crazzygamerr/zen-mandala/pkg/scene"
)

// Node type tags.
const (
	TypeShape     = "shape"
	TypeGraphics  = "graphics"
	TypeContainer = "container"
	TypeSVG       = "svg"
)

// Node is the serializable description of a Drawable.
type Node interface {
	NodeType() string
}

// ShapeNode describes a registry shape.
type ShapeNode struct {
	LineColor kernel.Color    `json:"lineColor"`
	FillColor *kernel.Color   `json:"fillColor,omitempty"`
	ShapeType string          `json:"shapeType"`
	Params    json.RawMessage `json:"params"`
	Options   map[string]any  `json:"options,omitempty"`
}

// GraphicsNode describes a free-form command list.
type GraphicsNode struct {
	Commands []scene.Command `json:"commands"`
	Options  map[string]any  `json:"options,omitempty"`
}

// ContainerNode describes a group with property overrides.
type ContainerNode struct {
	ContainerOptions map[string]any `json:"containerOptions"`
	Children         []Node         `json:"children"`
}

// SVGNode describes an SVG image.
type SVGNode struct {
	Options map[string]any `json:"options,omitempty"`
	SVG     string         `json:"svg"`
}

// RawNode is a node kept verbatim because it could not be decoded.
type RawNode json.RawMessage

func (ShapeNode) NodeType() string     { return TypeShape }
func (GraphicsNode) NodeType() string  { return TypeGraphics }
func (ContainerNode) NodeType() string { return TypeContainer }
func (SVGNode) NodeType() string       { return TypeSVG }

// NodeType peeks the raw node's tag; empty if it has none.
func (r RawNode) NodeType() string {
	t, _ := peekType(json.RawMessage(r))
	return t
}

func (n ShapeNode) MarshalJSON() ([]byte, error) {
	type alias ShapeNode
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{TypeShape, alias(n)})
}

func (n GraphicsNode) MarshalJSON() ([]byte, error) {
	type alias GraphicsNode
	if n.Commands == nil {
		n.Commands = []scene.Command{}
	}
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{TypeGraphics, alias(n)})
}

func (n ContainerNode) MarshalJSON() ([]byte, error) {
	type alias ContainerNode
	if n.ContainerOptions == nil {
		n.ContainerOptions = map[string]any{}
	}
	if n.Children == nil {
		n.Children = []Node{}
	}
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{TypeContainer, alias(n)})
}

func (n SVGNode) MarshalJSON() ([]byte, error) {
	type alias SVGNode
	return json.Marshal(struct {
		Type string `json:"type"`
		alias
	}{TypeSVG, alias(n)})
}

func (r RawNode) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return json.RawMessage(r).MarshalJSON()
}

// UnknownNodeTypeError reports a node whose "type" tag is missing or not
// one of the known node types.
type UnknownNodeTypeError struct {
	Type string
}

func (e *UnknownNodeTypeError) Error() string {
	if e.Type == "" {
		return "node has no type"
	}
	return fmt.Sprintf("unknown node type %q", e.Type)
}

func peekType(raw json.RawMessage) (string, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return "", fmt.Errorf("node: %w", err)
	}
	return head.Type, nil
}

// UnmarshalNode parses raw into its typed Node without building a
// Drawable. Container children are parsed recursively.
func UnmarshalNode(raw json.RawMessage) (Node, error) {
	t, err := peekType(raw)
	if err != nil {
		return nil, err
	}
	switch t {
	case TypeShape:
		var n ShapeNode
		err = json.Unmarshal(raw, &n)
		return n, err
	case TypeGraphics:
		var n GraphicsNode
		err = json.Unmarshal(raw, &n)
		return n, err
	case TypeSVG:
		var n SVGNode
		err = json.Unmarshal(raw, &n)
		return n, err
	case TypeContainer:
		var c containerJSON
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		n := ContainerNode{ContainerOptions: map[string]any{}}
		for k, v := range c.ContainerOptions {
			var val any
			if err := json.Unmarshal(v, &val); err != nil {
				return nil, err
			}
			n.ContainerOptions[k] = val
		}
		for i, ch := range c.Children {
			child, err := UnmarshalNode(ch)
			if err != nil {
				return nil, withPath(fmt.Sprintf("children/%d", i), err)
			}
			n.Children = append(n.Children, child)
		}
		return n, nil
	default:
		return nil, &UnknownNodeTypeError{Type: t}
	}
}

type containerJSON struct {
	ContainerOptions map[string]json.RawMessage `json:"containerOptions"`
	Children         []json.RawMessage          `json:"children"`
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
