package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Crazzygamerr/zen-mandala/pkg/config"
	"github.com/Crazzygamerr/zen-mandala/pkg/engine"
	"github.com/Crazzygamerr/zen-mandala/pkg/mandala"
	"github.com/Crazzygamerr/zen-mandala/pkg/render"
)

// ScriptError reports a script that failed to evaluate.
type ScriptError struct {
	Path   string
	Errors []engine.EvalError
}

func (e *ScriptError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ee := range e.Errors {
		msgs[i] = ee.Error()
	}
	return fmt.Sprintf("%s: %s", e.Path, strings.Join(msgs, "; "))
}

// load reads a composition from a .json document or a script. Isolated
// document problems come back as a *mandala.LoadError next to the
// composition; anything else returns a nil composition.
func load(ctx context.Context, path string, cfg *config.Config) (*mandala.Composition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var comp *mandala.Composition
	var soft error
	if strings.EqualFold(filepath.Ext(path), ".json") {
		comp, soft = mandala.FromJSON(data)
		if comp == nil {
			return nil, fmt.Errorf("%s: %w", path, soft)
		}
	} else {
		eng := engine.NewEngine()
		opts, err := cfg.AppOptions()
		if err != nil {
			return nil, err
		}
		eng.SetDefaults(opts)
		c, evalErrs, err := eng.EvaluateContext(ctx, string(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if len(evalErrs) > 0 {
			return nil, &ScriptError{Path: path, Errors: evalErrs}
		}
		comp = c
	}

	comp.Clock().SetDelta(cfg.Animation.Delta)
	return comp, soft
}

// loadForOutput is load for commands that draw: isolated document
// problems are already logged by the loader and do not fail the command.
func loadForOutput(ctx context.Context, path string, cfg *config.Config) (*mandala.Composition, error) {
	comp, err := load(ctx, path, cfg)
	var le *mandala.LoadError
	if errors.As(err, &le) {
		return comp, nil
	}
	return comp, err
}

// backendFor picks the output format from the file extension, falling
// back to the configured backend.
func backendFor(path string, cfg *config.Config) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return config.BackendSVG
	case ".png":
		return config.BackendPNG
	}
	return cfg.Render.Backend
}

// writeFrame renders comp to path. Commands that fail to draw do not
// fail the write; render logs them.
func writeFrame(path, backend string, comp *mandala.Composition) error {
	var buf bytes.Buffer
	var err error
	switch backend {
	case config.BackendSVG:
		err = render.SVG(&buf, comp)
	default:
		err = render.PNG(&buf, comp)
	}
	if err := drawErr(err); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// drawErr drops partial-frame errors, which render has already logged.
func drawErr(err error) error {
	var fe *render.FrameError
	if errors.As(err, &fe) {
		return nil
	}
	return err
}
