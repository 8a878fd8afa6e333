package mandala

import (
	"fmt"
	"strings"
)

// DuplicateNameError reports a layer name that is already in use.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("layer %q already exists", e.Name)
}

// IndexError reports a layer index outside the layer list.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("layer index %d out of range [0,%d)", e.Index, e.Len)
}

// LayerNotFoundError reports a lookup of a layer name that does not exist.
type LayerNotFoundError struct {
	Name string
}

func (e *LayerNotFoundError) Error() string {
	return fmt.Sprintf("layer %q not found", e.Name)
}

// LoadError collects the problems found while loading a document. The
// composition it accompanies holds everything that could be loaded.
type LoadError struct {
	Errs []error
}

func (e *LoadError) Error() string {
	if len(e.Errs) == 1 {
		return "load: " + e.Errs[0].Error()
	}
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("load: %d problems: %s", len(e.Errs), strings.Join(msgs, "; "))
}

func (e *LoadError) Unwrap() []error { return e.Errs }
