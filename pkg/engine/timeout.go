package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Crazzygamerr/zen-mandala/pkg/mandala"
)

// DefaultTimeout bounds one evaluation unless SetTimeout says otherwise.
const DefaultTimeout = 5 * time.Second

var (
	// ErrTimeout is wrapped by the error returned when a script runs past
	// the engine's timeout.
	ErrTimeout = errors.New("evaluation timed out")

	// ErrSuperseded is returned when a newer Evaluate call started before
	// this one finished.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

type evalResult struct {
	comp   *mandala.Composition
	errors []EvalError
	err    error
}

// await returns the result from ch unless ctx ends first. A result that
// arrives after a newer evaluation has started is dropped. The sandbox
// goroutine of an abandoned evaluation keeps running until it finishes;
// ch is buffered so it never blocks.
func (e *Engine) await(ctx context.Context, ch <-chan evalResult, gen uint64) (*mandala.Composition, []EvalError, error) {
	select {
	case res := <-ch:
		if !e.current(gen) {
			return nil, nil, ErrSuperseded
		}
		return res.comp, res.errors, res.err

	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, e.Timeout())
		}
		return nil, nil, ctx.Err()
	}
}

func (e *Engine) current(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen == e.generation
}
