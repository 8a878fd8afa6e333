package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
)

// PropertyKeys lists the node properties that may be set from data.
var PropertyKeys = []string{"alpha", "angle", "position", "rotation", "scale", "visible", "x", "y"}

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ApplyProperties sets allow-listed properties on d. Keys are applied in
// sorted order, so "rotation" wins over "angle" when both are present.
// Keys outside the allow-list and values of the wrong type are reported
// as InvalidPropertyError and skipped; the remaining keys still apply.
func ApplyProperties(d Drawable, props map[string]json.RawMessage) error {
	var errs []error
	for _, k := range slices.Sorted(maps.Keys(props)) {
		if err := applyProperty(d, k, props[k]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SetProperty applies a single property from a Go value, as produced by
// the scripting engine or decoded JSON.
func SetProperty(d Drawable, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return &InvalidPropertyError{Key: key, Reason: err.Error()}
	}
	return applyProperty(d, key, raw)
}

func applyProperty(d Drawable, key string, raw json.RawMessage) error {
	invalid := func(err error) error {
		return &InvalidPropertyError{Key: key, Reason: err.Error()}
	}
	switch key {
	case "x", "y", "rotation", "angle", "alpha":
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return invalid(fmt.Errorf("want number"))
		}
		x, y := d.Position()
		switch key {
		case "x":
			d.SetPosition(v, y)
		case "y":
			d.SetPosition(x, v)
		case "rotation":
			d.SetRotation(v)
		case "angle":
			d.SetRotation(v * math.Pi / 180)
		case "alpha":
			d.SetAlpha(v)
		}
	case "position":
		var p point
		if err := strictUnmarshal(raw, &p); err != nil {
			return invalid(err)
		}
		d.SetPosition(p.X, p.Y)
	case "scale":
		var v float64
		if err := json.Unmarshal(raw, &v); err == nil {
			d.SetScale(v, v)
			return nil
		}
		var p point
		if err := strictUnmarshal(raw, &p); err != nil {
			return invalid(fmt.Errorf("want number or {x,y}"))
		}
		d.SetScale(p.X, p.Y)
	case "visible":
		var v bool
		if err := json.Unmarshal(raw, &v); err != nil {
			return invalid(fmt.Errorf("want boolean"))
		}
		d.SetVisible(v)
	default:
		return &InvalidPropertyError{Key: key, Reason: "not an allowed property"}
	}
	return nil
}

func strictUnmarshal(raw json.RawMessage, v any) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("want object")
	}
	for k := range fields {
		if k != "x" && k != "y" {
			return fmt.Errorf("unknown field %q", k)
		}
	}
	return json.Unmarshal(raw, v)
}

// Properties returns the transform properties of d that differ from ref,
// using the allow-list keys. A nil ref compares against a fresh Node.
// Rotation is reported in radians.
func Properties(d Drawable, ref *Node) map[string]any {
	if ref == nil {
		n := NewNode()
		ref = &n
	}
	out := map[string]any{}
	n := d.Base()
	if n.x != ref.x || n.y != ref.y {
		out["position"] = point{X: n.x, Y: n.y}
	}
	if n.rotation != ref.rotation {
		out["rotation"] = n.rotation
	}
	if n.scaleX != ref.scaleX || n.scaleY != ref.scaleY {
		if n.scaleX == n.scaleY {
			out["scale"] = n.scaleX
		} else {
			out["scale"] = point{X: n.scaleX, Y: n.scaleY}
		}
	}
	if n.alpha != ref.alpha {
		out["alpha"] = n.alpha
	}
	if n.visible != ref.visible {
		out["visible"] = n.visible
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
