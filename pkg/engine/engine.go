// Package engine evaluates mandala scripts. It wraps zygomys in a
// sandboxed environment and produces a mandala.Composition from user
// source code.
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Crazzygamerr/zen-mandala/pkg/mandala"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter for mandala scripts.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	defaults   mandala.AppOptions
	timeout    time.Duration
}

// NewEngine creates a new Engine whose compositions start with
// mandala.DefaultAppOptions.
func NewEngine() *Engine {
	return &Engine{defaults: mandala.DefaultAppOptions(), timeout: DefaultTimeout}
}

// SetDefaults sets the surface options used until a script calls
// app-options.
func (e *Engine) SetDefaults(opts mandala.AppOptions) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.defaults = opts
}

// SetTimeout bounds later evaluations. Zero or less restores
// DefaultTimeout.
func (e *Engine) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultTimeout
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.timeout = d
}

// Timeout returns the per-evaluation limit.
func (e *Engine) Timeout() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.timeout
}

// Evaluate is EvaluateContext with a background context.
func (e *Engine) Evaluate(source string) (*mandala.Composition, []EvalError, error) {
	return e.EvaluateContext(context.Background(), source)
}

// EvaluateContext takes script source and produces a new Composition.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns composition + nil errors + nil error
//   - On parse/eval failure: returns nil composition + eval errors + nil error
//   - On fatal failure (timeout, cancellation, panic, superseded): returns
//     nil + nil + error; see ErrTimeout and ErrSuperseded
func (e *Engine) EvaluateContext(ctx context.Context, source string) (*mandala.Composition, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	defaults := e.defaults
	timeout := e.timeout
	e.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ch := make(chan evalResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		c, evalErrs, err := evaluate(source, defaults)
		ch <- evalResult{comp: c, errors: evalErrs, err: err}
	}()

	return e.await(ctx, ch, gen)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func evaluate(source string, defaults mandala.AppOptions) (*mandala.Composition, []EvalError, error) {
	// Empty source is a valid program that produces an empty composition.
	if strings.TrimSpace(source) == "" {
		return mandala.New(defaults), nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	b := newBuilder(defaults)
	registerBuiltins(env, b)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	mandala.Logger().Debug("evaluated script", "layers", b.comp.Len())
	return b.comp, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
