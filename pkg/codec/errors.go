package codec

import (
	"errors"
	"strings"
)

// PathError locates a decode failure inside a node tree. Path segments
// follow the JSON structure, e.g. "children/2/children/0".
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string { return e.Path + ": " + e.Err.Error() }
func (e *PathError) Unwrap() error { return e.Err }

// withPath prefixes seg onto err. Joined errors are prefixed one by one
// so that each failure keeps its own location.
func withPath(seg string, err error) error {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		errs := j.Unwrap()
		out := make([]error, len(errs))
		for i, e := range errs {
			out[i] = withPath(seg, e)
		}
		return errors.Join(out...)
	}
	if pe, ok := err.(*PathError); ok {
		return &PathError{Path: joinPath(seg, pe.Path), Err: pe.Err}
	}
	return &PathError{Path: seg, Err: err}
}

// WithPath is withPath for callers outside the package that nest node
// trees inside their own documents.
func WithPath(seg string, err error) error { return withPath(seg, err) }

func joinPath(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "/")
}

// Errors flattens joined errors into their leaves, in order.
func Errors(err error) []error {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range j.Unwrap() {
			out = append(out, Errors(e)...)
		}
		return out
	}
	return []error{err}
}
