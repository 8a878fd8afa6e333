package mandala

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/Crazzygamerr/zen-mandala/pkg/codec"
	"github.com/Crazzygamerr/zen-mandala/pkg/kernel"
	"github.com/Crazzygamerr/zen-mandala/pkg/scene"
)

// Document type tags.
const (
	DocumentType = "mandala"
	LayerDocType = "mandalaLayer"
)

// Document is the persisted form of a Composition.
type Document struct {
	Type       string          `json:"type"`
	AppOptions AppOptions      `json:"appOptions"`
	Layers     []LayerDocument `json:"layers"`
}

// LayerDocument is the persisted form of one Layer. Pattern is set for
// pattern layers and Children for container layers.
type LayerDocument struct {
	Name      string            `json:"name"`
	Type      string            `json:"type"`
	LayerType LayerType         `json:"layerType"`
	Pattern   *PatternDocument  `json:"pattern,omitempty"`
	Children  []json.RawMessage `json:"children,omitempty"`
}

// PatternDocument describes a ring by its template item. Every item is
// rebuilt from the same template on load.
type PatternDocument struct {
	ItemGenerator json.RawMessage `json:"itemGenerator"`
	ItemCount     int             `json:"itemCount"`
	Radius        float64         `json:"radius"`
	Offset        float64         `json:"offset,omitempty"`
}

// ToDocument describes the composition. Animations are not included.
func (c *Composition) ToDocument() (*Document, error) {
	doc := &Document{
		Type:       DocumentType,
		AppOptions: c.opts,
		Layers:     make([]LayerDocument, 0, len(c.layers)),
	}
	var errs []error
	for i, l := range c.layers {
		ld, err := l.toDocument()
		if err != nil {
			errs = append(errs, codec.WithPath(fmt.Sprintf("layers/%d", i), err))
			continue
		}
		doc.Layers = append(doc.Layers, ld)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return doc, nil
}

func (l *Layer) toDocument() (LayerDocument, error) {
	ld := LayerDocument{Name: l.name, Type: LayerDocType, LayerType: l.layerType}
	switch l.layerType {
	case LayerPattern:
		pd := &PatternDocument{
			ItemGenerator: json.RawMessage("null"),
			ItemCount:     l.pattern.Count,
			Radius:        l.pattern.Radius,
			Offset:        l.pattern.Offset,
		}
		if l.template != nil {
			raw, err := codec.Marshal(l.template)
			if err != nil {
				return ld, codec.WithPath("pattern/itemGenerator", err)
			}
			pd.ItemGenerator = raw
		}
		ld.Pattern = pd
	case LayerContainer:
		ld.Children = make([]json.RawMessage, 0, l.ChildCount())
		var errs []error
		for i, child := range l.Children() {
			raw, err := codec.Marshal(child)
			if err != nil {
				errs = append(errs, codec.WithPath(fmt.Sprintf("children/%d", i), err))
				continue
			}
			ld.Children = append(ld.Children, raw)
		}
		if err := errors.Join(errs...); err != nil {
			return ld, err
		}
	}
	return ld, nil
}

// MarshalJSON writes the composition as a Document.
func (c *Composition) MarshalJSON() ([]byte, error) {
	doc, err := c.ToDocument()
	if err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// FromJSON loads a composition document. Problems confined to one
// layer, option or node are collected into a *LoadError returned together
// with the composition holding everything else. A document that is not a
// JSON object yields a nil composition.
func FromJSON(data []byte) (*Composition, error) {
	doc, src, errs, err := parseDocument(data)
	if err != nil {
		return nil, err
	}
	c, loadErrs := build(doc, src)
	return c, finishLoad(c, append(errs, loadErrs...))
}

type documentJSON struct {
	Type       string                     `json:"type"`
	AppOptions map[string]json.RawMessage `json:"appOptions"`
	Layers     []json.RawMessage          `json:"layers"`
}

type layerJSON struct {
	Name      string            `json:"name"`
	Type      string            `json:"type"`
	LayerType LayerType         `json:"layerType"`
	Pattern   json.RawMessage   `json:"pattern"`
	Children  []json.RawMessage `json:"children"`
}

type patternJSON struct {
	ItemGenerator json.RawMessage `json:"itemGenerator"`
	ItemCount     json.Number     `json:"itemCount"`
	Radius        float64         `json:"radius"`
	Offset        float64         `json:"offset"`
}

// parseDocument reads data into a Document, skipping the parts it cannot
// read. src holds the position in data of each kept layer. Only a
// malformed top level is fatal.
func parseDocument(data []byte) (doc *Document, src []int, errs []error, err error) {
	var dj documentJSON
	if err := json.Unmarshal(data, &dj); err != nil {
		return nil, nil, nil, fmt.Errorf("parse document: %w", err)
	}
	doc = &Document{Type: dj.Type, AppOptions: DefaultAppOptions()}
	if dj.Type != DocumentType {
		errs = append(errs, codec.WithPath("type", fmt.Errorf("want %q, got %q", DocumentType, dj.Type)))
	}
	if err := applyAppOptions(&doc.AppOptions, dj.AppOptions); err != nil {
		errs = append(errs, codec.WithPath("appOptions", err))
	}
	for i, raw := range dj.Layers {
		ld, err := parseLayer(raw)
		if err != nil {
			errs = append(errs, codec.WithPath(fmt.Sprintf("layers/%d", i), err))
		}
		if ld != nil {
			doc.Layers = append(doc.Layers, *ld)
			src = append(src, i)
		}
	}
	return doc, src, errs, nil
}

// parseLayer returns a nil document when the layer cannot be read at all.
// A bad pattern descriptor leaves the layer empty.
func parseLayer(raw json.RawMessage) (*LayerDocument, error) {
	var lj layerJSON
	if err := json.Unmarshal(raw, &lj); err != nil {
		return nil, err
	}
	if lj.Name == "" {
		return nil, &scene.ParamShapeError{Context: "layer", Field: "name", Reason: "required"}
	}
	ld := &LayerDocument{Name: lj.Name, Type: lj.Type, LayerType: lj.LayerType}
	var errs []error
	if lj.Type != LayerDocType {
		errs = append(errs, codec.WithPath("type", fmt.Errorf("want %q, got %q", LayerDocType, lj.Type)))
	}
	switch lj.LayerType {
	case LayerPattern:
		pd, err := parsePattern(lj.Pattern)
		if err != nil {
			ld.LayerType = LayerNone
			errs = append(errs, codec.WithPath("pattern", err))
			break
		}
		ld.Pattern = pd
	case LayerContainer:
		ld.Children = lj.Children
	case LayerNone, "":
		ld.LayerType = LayerNone
	default:
		ld.LayerType = LayerNone
		errs = append(errs, &scene.ParamShapeError{
			Context: "layer",
			Field:   "layerType",
			Reason:  fmt.Sprintf("unknown layer type %q", lj.LayerType),
		})
	}
	return ld, errors.Join(errs...)
}

func parsePattern(raw json.RawMessage) (*PatternDocument, error) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, &scene.ParamShapeError{Context: "pattern", Field: "pattern", Reason: "required for a pattern layer"}
	}
	var pj patternJSON
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&pj); err != nil {
		return nil, err
	}
	count, err := itemCount(pj.ItemCount)
	if err != nil {
		return nil, err
	}
	return &PatternDocument{
		ItemGenerator: pj.ItemGenerator,
		ItemCount:     count,
		Radius:        pj.Radius,
		Offset:        pj.Offset,
	}, nil
}

func itemCount(n json.Number) (int, error) {
	if n == "" {
		return 0, &scene.ParamShapeError{Context: "pattern", Field: "itemCount", Reason: "required"}
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f < 0 || f > math.MaxInt32 {
		return 0, &scene.ParamShapeError{
			Context: "pattern",
			Field:   "itemCount",
			Reason:  fmt.Sprintf("must be a non-negative integer, got %s", n),
		}
	}
	return int(f), nil
}

// AppOptionKeys lists the keys accepted in appOptions.
var AppOptionKeys = []string{"antialias", "backgroundAlpha", "backgroundColor", "height", "width"}

func applyAppOptions(o *AppOptions, raw map[string]json.RawMessage) error {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var errs []error
	for _, k := range keys {
		var err error
		v := raw[k]
		switch k {
		case "width":
			err = json.Unmarshal(v, &o.Width)
		case "height":
			err = json.Unmarshal(v, &o.Height)
		case "backgroundColor":
			var c kernel.Color
			if err = json.Unmarshal(v, &c); err == nil {
				o.Background = c
			}
		case "backgroundAlpha":
			err = json.Unmarshal(v, &o.BackgroundAlpha)
		case "antialias":
			err = json.Unmarshal(v, &o.Antialias)
		default:
			errs = append(errs, &scene.InvalidPropertyError{Key: k, Reason: "unknown app option"})
			continue
		}
		if err != nil {
			errs = append(errs, &scene.InvalidPropertyError{Key: k, Reason: err.Error()})
		}
	}
	if o.Width < 0 || o.Height < 0 {
		errs = append(errs, &scene.InvalidPropertyError{Key: "width/height", Reason: "must not be negative"})
		o.Width, o.Height = max(o.Width, 0), max(o.Height, 0)
	}
	return errors.Join(errs...)
}

// FromDocument builds a composition from doc. Layer and node problems are
// reported in a *LoadError alongside the partial composition.
func FromDocument(doc *Document) (*Composition, error) {
	c, errs := build(doc, nil)
	return c, finishLoad(c, errs)
}

// build creates the layers of doc. src, when set, maps each layer to its
// index in the source document for error paths.
func build(doc *Document, src []int) (*Composition, []error) {
	c := New(doc.AppOptions)
	var errs []error
	for i, ld := range doc.Layers {
		if src != nil {
			i = src[i]
		}
		path := fmt.Sprintf("layers/%d", i)
		l, err := c.AddLayer(ld.Name)
		if err != nil {
			errs = append(errs, codec.WithPath(path, err))
			continue
		}
		if err := l.load(ld); err != nil {
			errs = append(errs, codec.WithPath(path, err))
		}
	}
	return c, errs
}

func finishLoad(c *Composition, errs []error) error {
	err := loadError(errs)
	if le, ok := err.(*LoadError); ok {
		for _, e := range le.Errs {
			Logger().Warn("load problem", "err", e)
		}
	}
	Logger().Info("loaded composition", "layers", c.Len(), "problems", len(errs))
	return err
}

func (l *Layer) load(ld LayerDocument) error {
	switch ld.LayerType {
	case LayerPattern:
		if ld.Pattern == nil {
			return &scene.ParamShapeError{Context: "pattern", Field: "pattern", Reason: "required for a pattern layer"}
		}
		return l.loadPattern(*ld.Pattern)
	case LayerContainer:
		var errs []error
		for i, raw := range ld.Children {
			d, err := codec.Decode(raw)
			if err != nil {
				errs = append(errs, codec.WithPath(fmt.Sprintf("children/%d", i), err))
			}
			if d != nil {
				l.AddChild(d)
			}
		}
		// An empty container layer keeps its classification.
		l.toContainer()
		return errors.Join(errs...)
	}
	return nil
}

func (l *Layer) loadPattern(pd PatternDocument) error {
	p := Pattern{Count: pd.ItemCount, Radius: pd.Radius, Offset: pd.Offset}
	var soft error
	if len(pd.ItemGenerator) > 0 && !bytes.Equal(bytes.TrimSpace(pd.ItemGenerator), []byte("null")) {
		template, err := codec.Decode(pd.ItemGenerator)
		if err != nil {
			soft = codec.WithPath("pattern/itemGenerator", err)
		}
		p.Generator = Repeat(template)
	}
	if err := l.BuildPattern(p); err != nil {
		return errors.Join(soft, codec.WithPath("pattern", err))
	}
	return soft
}

func loadError(errs []error) error {
	var flat []error
	for _, err := range errs {
		flat = append(flat, codec.Errors(err)...)
	}
	if len(flat) == 0 {
		return nil
	}
	return &LoadError{Errs: flat}
}
