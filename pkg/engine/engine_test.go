package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Crazzygamerr/zen-mandala/pkg/mandala"
)

func TestEvaluateEmptyString(t *testing.T) {
	eng := NewEngine()

	c, evalErrs, err := eng.Evaluate("")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if c == nil {
		t.Fatal("expected non-nil composition")
	}
	if c.Len() != 0 {
		t.Errorf("expected empty composition, got %d layers", c.Len())
	}
}

func TestEvaluateWhitespaceOnly(t *testing.T) {
	eng := NewEngine()

	c, evalErrs, err := eng.Evaluate("   \n\t  \n  ")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if c == nil || c.Len() != 0 {
		t.Fatalf("expected empty composition, got %v", c)
	}
}

func TestEvaluateDefaults(t *testing.T) {
	eng := NewEngine()
	eng.SetDefaults(mandala.AppOptions{Width: 300, Height: 200, BackgroundAlpha: 1})

	c, evalErrs, err := eng.Evaluate("(+ 1 2)")
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("Evaluate: %v %v", err, evalErrs)
	}
	if o := c.Options(); o.Width != 300 || o.Height != 200 {
		t.Errorf("options = %+v, want 300x200", o)
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	eng := NewEngine()

	c, evalErrs, err := eng.Evaluate("(layer \"a\"")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors for unbalanced parens")
	}
	if c != nil {
		t.Error("expected nil composition on syntax error")
	}
}

func TestEvaluateUndefinedSymbol(t *testing.T) {
	eng := NewEngine()

	_, evalErrs, err := eng.Evaluate("(undefined-function-xyz 1 2)")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors for undefined function")
	}
}

func TestEvalErrorImplementsError(t *testing.T) {
	e := EvalError{Line: 5, Message: "something went wrong"}
	var err error = e
	if got := err.Error(); got != "line 5: something went wrong" {
		t.Errorf("Error() = %q", got)
	}
	if got := (EvalError{Message: "no line"}).Error(); got != "no line" {
		t.Errorf("Error() = %q", got)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	eng := NewEngine()
	src := `(layer "ring" (pattern (bindi :height 8) 6 40))`

	for i := 0; i < 5; i++ {
		c, evalErrs, err := eng.Evaluate(src)
		if err != nil {
			t.Fatalf("iteration %d: unexpected fatal error: %v", i, err)
		}
		if len(evalErrs) > 0 {
			t.Fatalf("iteration %d: unexpected eval errors: %v", i, evalErrs)
		}
		l, ok := c.Layer("ring")
		if !ok || l.ChildCount() != 6 {
			t.Fatalf("iteration %d: ring layer = %v", i, l)
		}
	}
}

func TestEvaluateTimeout(t *testing.T) {
	// await is exercised directly with a channel that never sends; a
	// script that loops forever would also hold the sandbox.
	eng := NewEngine()
	eng.SetTimeout(20 * time.Millisecond)
	eng.generation = 1
	ch := make(chan evalResult)

	ctx, cancel := context.WithTimeout(context.Background(), eng.Timeout())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, _, err := eng.await(ctx, ch, 1)
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, ErrTimeout) {
			t.Fatalf("err = %v, want ErrTimeout", err)
		}
		if !strings.Contains(err.Error(), "20ms") {
			t.Errorf("timeout message lacks the limit: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("test itself timed out waiting for evaluation timeout")
	}
}

func TestEvaluateCancelled(t *testing.T) {
	eng := NewEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := eng.await(ctx, make(chan evalResult), 0)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestSetTimeout(t *testing.T) {
	eng := NewEngine()
	if eng.Timeout() != DefaultTimeout {
		t.Errorf("default timeout = %s", eng.Timeout())
	}
	eng.SetTimeout(time.Second)
	if eng.Timeout() != time.Second {
		t.Errorf("timeout = %s, want 1s", eng.Timeout())
	}
	eng.SetTimeout(0)
	if eng.Timeout() != DefaultTimeout {
		t.Errorf("SetTimeout(0) left %s", eng.Timeout())
	}
}

func TestEvaluateGenerationDiscardsStale(t *testing.T) {
	eng := NewEngine()
	eng.generation = 2

	ch := make(chan evalResult, 1)
	ch <- evalResult{comp: mandala.New(mandala.DefaultAppOptions())}

	_, _, err := eng.await(context.Background(), ch, 1)
	if !errors.Is(err, ErrSuperseded) {
		t.Errorf("err = %v, want ErrSuperseded", err)
	}
}

func TestParseZygomysError(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantMsg  string
	}{
		{
			name:     "error on line format",
			msg:      "Error on line 5: unexpected token\n",
			wantLine: 5,
			wantMsg:  "unexpected token",
		},
		{
			name:     "no line info",
			msg:      "some generic error",
			wantLine: 0,
			wantMsg:  "some generic error",
		},
		{
			name:     "line format lowercase",
			msg:      "error on line 12: missing paren",
			wantLine: 12,
			wantMsg:  "missing paren",
		},
		{
			name:     "short line format",
			msg:      "line 3: bad keyword",
			wantLine: 3,
			wantMsg:  "bad keyword",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := parseZygomysError(errString(tt.msg))
			if len(errs) == 0 {
				t.Fatal("expected at least one error")
			}
			e := errs[0]
			if e.Line != tt.wantLine {
				t.Errorf("line = %d, want %d", e.Line, tt.wantLine)
			}
			if !strings.Contains(e.Message, tt.wantMsg) {
				t.Errorf("message = %q, want containing %q", e.Message, tt.wantMsg)
			}
		})
	}
}

// errString is a simple error type for testing.
type errString string

func (e errString) Error() string { return string(e) }
