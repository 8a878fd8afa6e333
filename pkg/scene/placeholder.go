package scene

import (
	"encoding/json"
	"slices"

	"github.com/Crazzygamerr/zen-mandala/pkg/kernel"
)

// placeholderSize is the half-length of the cross arms.
const placeholderSize = 10

// Placeholder stands in for a node that failed to load. It draws a red
// cross and keeps the original JSON so the node survives a save.
type Placeholder struct {
	Graphics
	raw json.RawMessage
	err error
}

// NewPlaceholder returns a Placeholder for raw that failed with err.
func NewPlaceholder(raw json.RawMessage, err error) *Placeholder {
	p := &Placeholder{Graphics: *NewGraphics(), raw: slices.Clone(raw), err: err}
	p.LineStyle(2, kernel.Red, 1).
		MoveTo(-placeholderSize, -placeholderSize).LineTo(placeholderSize, placeholderSize).
		MoveTo(placeholderSize, -placeholderSize).LineTo(-placeholderSize, placeholderSize)
	return p
}

// Raw returns the JSON the placeholder was created from.
func (p *Placeholder) Raw() json.RawMessage { return slices.Clone(p.raw) }

// Err returns the load failure.
func (p *Placeholder) Err() error { return p.err }

func (p *Placeholder) Clone() Drawable {
	return &Placeholder{Graphics: *p.CloneGraphics(), raw: slices.Clone(p.raw), err: p.err}
}
