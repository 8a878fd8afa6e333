package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/Crazzygamerr/zen-mandala/pkg/config"
	"github.com/Crazzygamerr/zen-mandala/pkg/engine"
	"github.com/Crazzygamerr/zen-mandala/pkg/mandala"
	"github.com/Crazzygamerr/zen-mandala/pkg/render"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// FrameEvent is the runtime event carrying SVG markup for each animated frame.
const FrameEvent = "frame"

// App is the Wails backend. It exposes methods to the frontend via bindings.
// Every method touching the composition holds mu; the frame loop does too.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	cfg    *config.Config
	engine *engine.Engine
	comp   *mandala.Composition

	// emit sends a frontend event. It is runtime.EventsEmit in the app and
	// a recorder in tests.
	emit func(ctx context.Context, name string, data ...interface{})
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// LayerInfo summarises one layer for the layer panel.
type LayerInfo struct {
	Name       string  `json:"name"`
	LayerType  string  `json:"layerType"`
	Children   int     `json:"children"`
	Visible    bool    `json:"visible"`
	Alpha      float64 `json:"alpha"`
	Animations int     `json:"animations"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Layers   []LayerInfo     `json:"layers"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// LoadResult is returned by Load. Errors lists isolated problems; the
// composition is still replaced unless the document was unreadable.
type LoadResult struct {
	Layers []LayerInfo `json:"layers"`
	Errors []string    `json:"errors"`
}

// NewApp creates a new App using the layered configuration.
func NewApp() *App {
	m := config.NewManager()
	if err := m.Load(); err != nil {
		mandala.Logger().Warn("config load failed, using defaults", "error", err)
		m = config.NewManager()
	}
	cfg := m.Get()
	if err := cfg.Validate(); err != nil {
		mandala.Logger().Warn("invalid config, using defaults", "error", err)
		cfg = config.Default()
	}
	installLogger(cfg)
	return newApp(cfg)
}

func newApp(cfg *config.Config) *App {
	eng := engine.NewEngine()
	if opts, err := cfg.AppOptions(); err == nil {
		eng.SetDefaults(opts)
	}
	a := &App{
		cfg:    cfg,
		engine: eng,
		emit:   runtime.EventsEmit,
	}
	a.comp = a.newComposition(nil)
	return a
}

// newComposition applies the configured clock step to c, or to an empty
// composition when c is nil.
func (a *App) newComposition(c *mandala.Composition) *mandala.Composition {
	if c == nil {
		opts, err := a.cfg.AppOptions()
		if err != nil {
			opts = mandala.DefaultAppOptions()
		}
		c = mandala.New(opts)
	}
	c.Clock().SetDelta(a.cfg.Animation.Delta)
	return c
}

// startup is called by Wails on app startup. It saves the context for
// runtime calls and starts the frame loop.
func (a *App) startup(ctx context.Context) {
	a.ctx, a.cancel = context.WithCancel(ctx)
	go a.frameLoop(a.ctx, time.Second/time.Duration(a.cfg.Animation.FPS))
}

// shutdown stops the frame loop.
func (a *App) shutdown(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}
}

// frameLoop advances the animation clock and pushes frames until ctx ends.
func (a *App) frameLoop(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if svg, ok := a.step(); ok {
				a.emit(ctx, FrameEvent, svg)
			}
		}
	}
}

// step ticks the clock once and renders the frame. It reports false
// while the animation is stopped.
func (a *App) step() (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.comp.Tick() {
		return "", false
	}
	svg, err := a.frameLocked()
	if err != nil {
		mandala.Logger().Warn("frame rendered with errors", "error", err)
	}
	return svg, true
}

// Evaluate takes script source, replaces the composition on success and
// returns the layer summary plus errors. This is the primary binding
// called by the frontend editor.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Layers:   []LayerInfo{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	c, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, superseded)
		mandala.Logger().Error("evaluate failed", "error", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	for _, issue := range mandala.Validate(c) {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: issue.Error()})
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.replaceLocked(c)
	result.Layers = a.layersLocked()
	return result
}

// Load replaces the composition with a saved JSON document.
func (a *App) Load(doc string) LoadResult {
	result := LoadResult{Layers: []LayerInfo{}, Errors: []string{}}

	c, err := mandala.FromJSON([]byte(doc))
	if c == nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	var le *mandala.LoadError
	if errors.As(err, &le) {
		for _, e := range le.Errs {
			result.Errors = append(result.Errors, e.Error())
		}
	} else if err != nil {
		result.Errors = append(result.Errors, err.Error())
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.replaceLocked(c)
	result.Layers = a.layersLocked()
	return result
}

func (a *App) replaceLocked(c *mandala.Composition) {
	old := a.comp
	a.comp = a.newComposition(c)
	if old != nil {
		if old.Animating() {
			a.comp.ToggleAnimation()
		}
		old.Clear()
	}
}

// Save returns the composition as an indented JSON document.
func (a *App) Save() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	data, err := json.MarshalIndent(a.comp, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ToggleAnimation starts or stops the clock and returns the new state.
func (a *App) ToggleAnimation() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.comp.ToggleAnimation()
}

// ToggleGrid shows or hides the grid and returns the new state.
func (a *App) ToggleGrid() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.comp.ToggleGrid()
}

func (a *App) HighlightLayer(name string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.comp.HighlightLayer(name)
}

func (a *App) UnhighlightLayer() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.comp.UnhighlightLayer()
}

// RemoveLayer removes the layer at index and stops its animations.
func (a *App) RemoveLayer(index int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, err := a.comp.RemoveLayer(index)
	return err
}

// Frame renders the current composition as SVG markup. Commands that fail
// to replay are skipped and logged.
func (a *App) Frame() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	svg, err := a.frameLocked()
	var fe *render.FrameError
	if errors.As(err, &fe) {
		return svg, nil
	}
	return svg, err
}

// frameLocked renders comp; a *render.FrameError comes back with the
// markup of everything that did draw.
func (a *App) frameLocked() (string, error) {
	var buf bytes.Buffer
	err := render.SVG(&buf, a.comp)
	var fe *render.FrameError
	if err != nil && !errors.As(err, &fe) {
		return "", err
	}
	return buf.String(), err
}

// Layers returns the layer summary in draw order.
func (a *App) Layers() []LayerInfo {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.layersLocked()
}

func (a *App) layersLocked() []LayerInfo {
	out := []LayerInfo{}
	for _, l := range a.comp.Layers() {
		out = append(out, LayerInfo{
			Name:       l.Name(),
			LayerType:  string(l.LayerType()),
			Children:   l.ChildCount(),
			Visible:    l.Visible(),
			Alpha:      l.Alpha(),
			Animations: len(l.Animations()),
		})
	}
	return out
}
