package scene

import "fmt"

// UnknownOperationError reports a graphics command whose function name is
// not in the dispatch table.
type UnknownOperationError struct {
	Function string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown graphics operation %q", e.Function)
}

// ArgumentError reports a graphics command with the wrong number or type
// of arguments.
type ArgumentError struct {
	Function string
	Reason   string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Function, e.Reason)
}

// InvalidPropertyError reports a node property outside the allow-list or
// with an unusable value.
type InvalidPropertyError struct {
	Key    string
	Reason string
}

func (e *InvalidPropertyError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid property %q", e.Key)
	}
	return fmt.Sprintf("invalid property %q: %s", e.Key, e.Reason)
}

// ParamShapeError reports a parameter object that does not match the
// expected shape: a missing required field, a non-numeric value or an
// unknown key.
type ParamShapeError struct {
	Context string // e.g. "simple_petal params", "pattern"
	Field   string
	Reason  string
}

func (e *ParamShapeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Context, e.Reason)
	}
	return fmt.Sprintf("%s: field %q: %s", e.Context, e.Field, e.Reason)
}
