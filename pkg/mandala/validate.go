package mandala

import (
	"errors"
	"fmt"
	"math"

	"github.com/Crazzygamerr/zen-mandala/pkg/codec"
	"github.com/Crazzygamerr/zen-mandala/pkg/scene"
)

// Severity indicates whether a finding makes the composition unusable
// as saved or is merely advisory.
type Severity int

const (
	SeverityError   Severity = iota // content is lost or broken
	SeverityWarning                 // advisory
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// ValidationIssue describes a single finding.
type ValidationIssue struct {
	Layer    string   // layer name (empty if composition-level)
	Path     string   // node path inside the layer, e.g. "children/2"
	Message  string   // human-readable description
	Severity Severity // error or warning
}

func (v ValidationIssue) Error() string {
	switch {
	case v.Layer == "":
		return fmt.Sprintf("[%s] %s", v.Severity, v.Message)
	case v.Path == "":
		return fmt.Sprintf("[%s] layer %q: %s", v.Severity, v.Layer, v.Message)
	default:
		return fmt.Sprintf("[%s] layer %q %s: %s", v.Severity, v.Layer, v.Path, v.Message)
	}
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []ValidationIssue) bool {
	for _, v := range issues {
		if v.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate inspects c and returns its problems. It never mutates c.
func Validate(c *Composition) []ValidationIssue {
	var issues []ValidationIssue
	issues = append(issues, validateSurface(c)...)
	for _, l := range c.layers {
		issues = append(issues, validateLayer(c, l)...)
		issues = append(issues, validateNodes(l)...)
	}
	return issues
}

func validateSurface(c *Composition) []ValidationIssue {
	if c.opts.Width > 0 && c.opts.Height > 0 {
		return nil
	}
	return []ValidationIssue{{
		Message:  fmt.Sprintf("surface is %dx%d; nothing will be visible", c.opts.Width, c.opts.Height),
		Severity: SeverityWarning,
	}}
}

func validateLayer(c *Composition, l *Layer) []ValidationIssue {
	var issues []ValidationIssue
	warn := func(format string, args ...any) {
		issues = append(issues, ValidationIssue{Layer: l.name, Message: fmt.Sprintf(format, args...), Severity: SeverityWarning})
	}
	if !l.Visible() {
		warn("layer is hidden")
	}
	if l.Alpha() <= 0 {
		warn("layer is fully transparent")
	}
	switch l.layerType {
	case LayerPattern:
		if l.pattern.Count == 0 {
			warn("pattern has no items")
		}
		half := math.Min(float64(c.opts.Width), float64(c.opts.Height)) / 2
		if half > 0 && l.pattern.Radius > half {
			warn("pattern radius %g exceeds the surface half-size %g", l.pattern.Radius, half)
		}
	case LayerNone:
		warn("layer is empty")
	}
	return issues
}

// validateNodes reports placeholders and graphics commands that fail to
// replay. Pattern layers are checked through their template.
func validateNodes(l *Layer) []ValidationIssue {
	var issues []ValidationIssue
	check := func(prefix string, root scene.Drawable) {
		var visit func(d scene.Drawable, path string)
		visit = func(d scene.Drawable, path string) {
			issues = append(issues, nodeIssues(l.name, path, d)...)
			for i, child := range d.Children() {
				visit(child, joinNodePath(path, fmt.Sprintf("children/%d", i)))
			}
		}
		visit(root, prefix)
	}
	switch l.layerType {
	case LayerPattern:
		if l.template != nil {
			check("pattern/itemGenerator", l.template)
		}
	default:
		for i, child := range l.Children() {
			check(fmt.Sprintf("children/%d", i), child)
		}
	}
	return issues
}

func nodeIssues(layer, path string, d scene.Drawable) []ValidationIssue {
	switch n := d.(type) {
	case *scene.Placeholder:
		return []ValidationIssue{{Layer: layer, Path: path, Message: fmt.Sprintf("unreadable node: %v", n.Err()), Severity: SeverityError}}
	case *scene.SVG:
		if err := n.ParseErr(); err != nil {
			return []ValidationIssue{{Layer: layer, Path: path, Message: fmt.Sprintf("svg does not parse: %v", err), Severity: SeverityError}}
		}
	case interface{ Validate() error }:
		var issues []ValidationIssue
		for _, err := range codec.Errors(n.Validate()) {
			sev := SeverityWarning
			var unknown *scene.UnknownOperationError
			if errors.As(err, &unknown) {
				sev = SeverityError
			}
			issues = append(issues, ValidationIssue{Layer: layer, Path: path, Message: err.Error(), Severity: sev})
		}
		return issues
	}
	return nil
}

func joinNodePath(a, b string) string {
	if a == "" {
		return b
	}
	return a + "/" + b
}
