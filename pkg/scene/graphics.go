package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/Crazzygamerr/zen-mandala/pkg/kernel"
)

// Command is one recorded drawing call. Function uses the PIXI method
// names (moveTo, bezierCurveTo, lineStyle, ...) so that saved scenes stay
// compatible with the browser editor.
type Command struct {
	Function  string `json:"function"`
	Arguments []any  `json:"arguments"`
}

// Graphics is a Drawable whose content is an ordered list of drawing
// commands replayed on every Paint.
type Graphics struct {
	Node
	commands []Command
}

// NewGraphics returns an empty Graphics node.
func NewGraphics() *Graphics {
	return &Graphics{Node: NewNode()}
}

// NewGraphicsFromCommands returns a Graphics node holding a copy of cmds.
// Commands are not validated; see Validate.
func NewGraphicsFromCommands(cmds []Command) *Graphics {
	g := NewGraphics()
	for _, c := range cmds {
		g.commands = append(g.commands, Command{Function: c.Function, Arguments: slices.Clone(c.Arguments)})
	}
	return g
}

func (g *Graphics) Kind() Kind { return KindGraphics }

// Commands returns a copy of the command list.
func (g *Graphics) Commands() []Command {
	out := make([]Command, len(g.commands))
	for i, c := range g.commands {
		out[i] = Command{Function: c.Function, Arguments: slices.Clone(c.Arguments)}
	}
	return out
}

// Append records a raw command.
func (g *Graphics) Append(function string, args ...any) *Graphics {
	if args == nil {
		args = []any{}
	}
	g.commands = append(g.commands, Command{Function: function, Arguments: args})
	return g
}

// ClearCommands drops every recorded command.
func (g *Graphics) ClearCommands() { g.commands = nil }

func (g *Graphics) MoveTo(x, y float64) *Graphics { return g.Append("moveTo", x, y) }
func (g *Graphics) LineTo(x, y float64) *Graphics { return g.Append("lineTo", x, y) }
func (g *Graphics) ClosePath() *Graphics          { return g.Append("closePath") }
func (g *Graphics) EndFill() *Graphics            { return g.Append("endFill") }

func (g *Graphics) BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64) *Graphics {
	return g.Append("bezierCurveTo", cp1x, cp1y, cp2x, cp2y, x, y)
}

func (g *Graphics) QuadraticCurveTo(cpx, cpy, x, y float64) *Graphics {
	return g.Append("quadraticCurveTo", cpx, cpy, x, y)
}

func (g *Graphics) Arc(cx, cy, radius, start, end float64, anticlockwise bool) *Graphics {
	return g.Append("arc", cx, cy, radius, start, end, anticlockwise)
}

func (g *Graphics) DrawCircle(x, y, radius float64) *Graphics {
	return g.Append("drawCircle", x, y, radius)
}

func (g *Graphics) DrawEllipse(x, y, rx, ry float64) *Graphics {
	return g.Append("drawEllipse", x, y, rx, ry)
}

func (g *Graphics) DrawRect(x, y, w, h float64) *Graphics {
	return g.Append("drawRect", x, y, w, h)
}

// LineStyle sets the stroke for subsequent path segments. A non-empty
// dash switches to the object form {width, color, alpha, dash}.
func (g *Graphics) LineStyle(width float64, color kernel.Color, alpha float64, dash ...float64) *Graphics {
	if len(dash) > 0 {
		d := make([]any, len(dash))
		for i, v := range dash {
			d[i] = v
		}
		return g.Append("lineStyle", map[string]any{
			"width": width, "color": float64(color), "alpha": alpha, "dash": d,
		})
	}
	return g.Append("lineStyle", width, float64(color), alpha)
}

func (g *Graphics) BeginFill(color kernel.Color, alpha float64) *Graphics {
	return g.Append("beginFill", float64(color), alpha)
}

// Paint replays the command list. A command that fails is skipped and its
// error collected; the remaining commands still draw.
func (g *Graphics) Paint(c kernel.Canvas) error {
	return replay(c, g.commands)
}

// Validate checks every command against the dispatch table without
// drawing anything.
func (g *Graphics) Validate() error {
	return replay(nil, g.commands)
}

func (g *Graphics) Clone() Drawable {
	return g.CloneGraphics()
}

// CloneGraphics is Clone with the concrete type preserved.
func (g *Graphics) CloneGraphics() *Graphics {
	return &Graphics{Node: g.CloneNode(), commands: g.Commands()}
}

// --- Replay ---

// replayState mirrors PIXI's immediate-mode Graphics: a path accumulates
// until the line style or fill changes, at which point it is painted with
// the style that was current while it was built.
type replayState struct {
	c       kernel.Canvas // nil when validating
	pending bool
	current bool
	paint   kernel.Paint
}

type operation func(st *replayState, fn string, args []any) error

var operations map[string]operation

func init() {
	operations = map[string]operation{
		"moveTo":           opMoveTo,
		"lineTo":           opLineTo,
		"bezierCurveTo":    opBezierCurveTo,
		"quadraticCurveTo": opQuadraticCurveTo,
		"arc":              opArc,
		"drawCircle":       opDrawCircle,
		"drawEllipse":      opDrawEllipse,
		"drawRect":         opDrawRect,
		"drawPolygon":      opDrawPolygon,
		"closePath":        opClosePath,
		"lineStyle":        opLineStyle,
		"beginFill":        opBeginFill,
		"endFill":          opEndFill,
	}
}

// Operations returns the names accepted by the dispatch table.
func Operations() []string {
	names := make([]string, 0, len(operations))
	for k := range operations {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

func replay(c kernel.Canvas, cmds []Command) error {
	st := &replayState{c: c}
	var errs []error
	for i, cmd := range cmds {
		op, ok := operations[cmd.Function]
		if !ok {
			errs = append(errs, fmt.Errorf("command %d: %w", i, &UnknownOperationError{Function: cmd.Function}))
			continue
		}
		if err := op(st, cmd.Function, cmd.Arguments); err != nil {
			errs = append(errs, fmt.Errorf("command %d: %w", i, err))
		}
	}
	if err := st.flush(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (st *replayState) flush() error {
	if !st.pending {
		return nil
	}
	st.pending = false
	st.current = false
	if st.c == nil {
		return nil
	}
	return st.c.Paint(st.paint)
}

func (st *replayState) draw(f func(c kernel.Canvas)) {
	st.pending = true
	st.current = true
	if st.c != nil {
		f(st.c)
	}
}

func opMoveTo(st *replayState, fn string, args []any) error {
	v, err := numbers(fn, args, 2)
	if err != nil {
		return err
	}
	st.draw(func(c kernel.Canvas) { c.MoveTo(v[0], v[1]) })
	return nil
}

func opLineTo(st *replayState, fn string, args []any) error {
	v, err := numbers(fn, args, 2)
	if err != nil {
		return err
	}
	st.draw(func(c kernel.Canvas) { c.LineTo(v[0], v[1]) })
	return nil
}

func opBezierCurveTo(st *replayState, fn string, args []any) error {
	v, err := numbers(fn, args, 6)
	if err != nil {
		return err
	}
	st.draw(func(c kernel.Canvas) { c.CubicTo(v[0], v[1], v[2], v[3], v[4], v[5]) })
	return nil
}

func opQuadraticCurveTo(st *replayState, fn string, args []any) error {
	v, err := numbers(fn, args, 4)
	if err != nil {
		return err
	}
	st.draw(func(c kernel.Canvas) { c.QuadraticTo(v[0], v[1], v[2], v[3]) })
	return nil
}

// arc(cx, cy, radius, startAngle, endAngle, anticlockwise?)
func opArc(st *replayState, fn string, args []any) error {
	if len(args) < 5 || len(args) > 6 {
		return &ArgumentError{Function: fn, Reason: fmt.Sprintf("want 5 or 6 arguments, got %d", len(args))}
	}
	v, err := numbers(fn, args[:5], 5)
	if err != nil {
		return err
	}
	anticlockwise := false
	if len(args) == 6 {
		b, ok := args[5].(bool)
		if !ok && args[5] != nil {
			return &ArgumentError{Function: fn, Reason: fmt.Sprintf("argument 5: want bool, got %T", args[5])}
		}
		anticlockwise = b
	}
	st.draw(func(c kernel.Canvas) { c.Arc(v[0], v[1], v[2], v[3], v[4], anticlockwise) })
	return nil
}

func opDrawCircle(st *replayState, fn string, args []any) error {
	v, err := numbers(fn, args, 3)
	if err != nil {
		return err
	}
	st.draw(func(c kernel.Canvas) { c.Circle(v[0], v[1], v[2]) })
	st.current = false
	return nil
}

// drawEllipse takes half-width and half-height, as PIXI does.
func opDrawEllipse(st *replayState, fn string, args []any) error {
	v, err := numbers(fn, args, 4)
	if err != nil {
		return err
	}
	st.draw(func(c kernel.Canvas) { c.Ellipse(v[0], v[1], v[2], v[3]) })
	st.current = false
	return nil
}

func opDrawRect(st *replayState, fn string, args []any) error {
	v, err := numbers(fn, args, 4)
	if err != nil {
		return err
	}
	st.draw(func(c kernel.Canvas) { c.Rect(v[0], v[1], v[2], v[3]) })
	st.current = false
	return nil
}

// drawPolygon accepts either a flat list of coordinates or a single array
// argument holding one.
func opDrawPolygon(st *replayState, fn string, args []any) error {
	if len(args) == 1 {
		if arr, ok := args[0].([]any); ok {
			args = arr
		}
	}
	if len(args) < 4 || len(args)%2 != 0 {
		return &ArgumentError{Function: fn, Reason: "want an even number of coordinates, at least 4"}
	}
	v, err := numbers(fn, args, len(args))
	if err != nil {
		return err
	}
	st.draw(func(c kernel.Canvas) {
		c.MoveTo(v[0], v[1])
		for i := 2; i < len(v); i += 2 {
			c.LineTo(v[i], v[i+1])
		}
		c.ClosePath()
	})
	st.current = false
	return nil
}

func opClosePath(st *replayState, fn string, args []any) error {
	if len(args) != 0 {
		return &ArgumentError{Function: fn, Reason: fmt.Sprintf("want no arguments, got %d", len(args))}
	}
	if st.current && st.c != nil {
		st.c.ClosePath()
	}
	return nil
}

// lineStyle(width?, color?, alpha?) or lineStyle({width, color, alpha, dash}).
func opLineStyle(st *replayState, fn string, args []any) error {
	width, color, alpha := 0.0, kernel.Black, 1.0
	var dash []float64

	if len(args) == 1 {
		if obj, ok := args[0].(map[string]any); ok {
			var err error
			if width, color, alpha, dash, err = lineStyleObject(fn, obj); err != nil {
				return err
			}
			args = nil
		}
	}
	if len(args) > 3 {
		return &ArgumentError{Function: fn, Reason: fmt.Sprintf("want at most 3 arguments, got %d", len(args))}
	}
	if len(args) > 0 {
		v, err := number(args[0])
		if err != nil {
			return &ArgumentError{Function: fn, Reason: "width: " + err.Error()}
		}
		width = v
	}
	if len(args) > 1 {
		c, err := kernel.ColorFromValue(args[1])
		if err != nil {
			return &ArgumentError{Function: fn, Reason: "color: " + err.Error()}
		}
		color = c
	}
	if len(args) > 2 {
		v, err := number(args[2])
		if err != nil {
			return &ArgumentError{Function: fn, Reason: "alpha: " + err.Error()}
		}
		alpha = v
	}

	if err := st.flush(); err != nil {
		return err
	}
	st.paint.StrokeWidth = width
	st.paint.StrokeColor = color
	st.paint.StrokeAlpha = alpha
	st.paint.Dash = dash
	return nil
}

func lineStyleObject(fn string, obj map[string]any) (width float64, color kernel.Color, alpha float64, dash []float64, err error) {
	width, color, alpha = 0, kernel.Black, 1
	for k, raw := range obj {
		switch k {
		case "width":
			width, err = number(raw)
		case "color":
			color, err = kernel.ColorFromValue(raw)
		case "alpha":
			alpha, err = number(raw)
		case "dash":
			arr, ok := raw.([]any)
			if !ok {
				err = fmt.Errorf("want array, got %T", raw)
				break
			}
			dash, err = numbers(fn, arr, len(arr))
		default:
			err = errors.New("unknown key")
		}
		if err != nil {
			return 0, 0, 0, nil, &ArgumentError{Function: fn, Reason: k + ": " + err.Error()}
		}
	}
	return width, color, alpha, dash, nil
}

// beginFill(color?, alpha?)
func opBeginFill(st *replayState, fn string, args []any) error {
	if len(args) > 2 {
		return &ArgumentError{Function: fn, Reason: fmt.Sprintf("want at most 2 arguments, got %d", len(args))}
	}
	color, alpha := kernel.Black, 1.0
	if len(args) > 0 {
		c, err := kernel.ColorFromValue(args[0])
		if err != nil {
			return &ArgumentError{Function: fn, Reason: "color: " + err.Error()}
		}
		color = c
	}
	if len(args) > 1 {
		v, err := number(args[1])
		if err != nil {
			return &ArgumentError{Function: fn, Reason: "alpha: " + err.Error()}
		}
		alpha = v
	}
	if err := st.flush(); err != nil {
		return err
	}
	st.paint.Fill = true
	st.paint.FillColor = color
	st.paint.FillAlpha = alpha
	return nil
}

func opEndFill(st *replayState, fn string, args []any) error {
	if len(args) != 0 {
		return &ArgumentError{Function: fn, Reason: fmt.Sprintf("want no arguments, got %d", len(args))}
	}
	if err := st.flush(); err != nil {
		return err
	}
	st.paint.Fill = false
	return nil
}

// --- Argument coercion ---

// numbers converts exactly want arguments to float64.
func numbers(fn string, args []any, want int) ([]float64, error) {
	if len(args) != want {
		return nil, &ArgumentError{Function: fn, Reason: fmt.Sprintf("want %d arguments, got %d", want, len(args))}
	}
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := number(a)
		if err != nil {
			return nil, &ArgumentError{Function: fn, Reason: fmt.Sprintf("argument %d: %v", i, err)}
		}
		out[i] = v
	}
	return out, nil
}

func number(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case kernel.Color:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	default:
		return 0, fmt.Errorf("want number, got %T", v)
	}
}
