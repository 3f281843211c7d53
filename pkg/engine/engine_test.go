package engine

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/chazu/carve/pkg/kernel/bsp"
)

// newTestEngine returns an engine backed by the exact BSP kernel.
func newTestEngine() *Engine {
	return New(bsp.New())
}

func TestEvaluateEmptyString(t *testing.T) {
	eng := newTestEngine()

	scene, evalErrs, err := eng.Evaluate("")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if scene == nil {
		t.Fatal("expected non-nil scene")
	}
	if len(scene.Solids) != 0 {
		t.Errorf("expected empty scene, got %d solids", len(scene.Solids))
	}
}

func TestEvaluateWhitespaceOnly(t *testing.T) {
	eng := newTestEngine()

	scene, evalErrs, err := eng.Evaluate("   \n\t  \n  ")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if scene == nil {
		t.Fatal("expected non-nil scene")
	}
	if len(scene.Solids) != 0 {
		t.Errorf("expected empty scene, got %d solids", len(scene.Solids))
	}
}

func TestEvaluateExpressionWithoutEmit(t *testing.T) {
	eng := newTestEngine()

	// Building geometry without (emit ...) leaves the scene empty.
	scene, evalErrs, err := eng.Evaluate("(cube :x 10 :y 10 :z 10)")
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if len(scene.Solids) != 0 {
		t.Errorf("expected empty scene without emit, got %d solids", len(scene.Solids))
	}
}

func TestEvaluateEmit(t *testing.T) {
	eng := newTestEngine()

	scene, evalErrs, err := eng.Evaluate(`(emit "block" (cube :x 10 :y 20 :z 30))`)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if len(scene.Solids) != 1 {
		t.Fatalf("expected 1 solid, got %d", len(scene.Solids))
	}

	s := scene.Lookup("block")
	if s == nil {
		t.Fatal("Lookup(block) returned nil")
	}
	_, max := s.BoundingBox()
	if max != [3]float64{10, 20, 30} {
		t.Errorf("block max corner = %v, want [10 20 30]", max)
	}
}

func TestEvaluateBooleanPipeline(t *testing.T) {
	eng := newTestEngine()

	source := `
; a plate with a hole through it
(def plate (cube :x 40 :y 40 :z 10))
(def hole (translate (cylinder :height 20 :radius 5 :segments 16)
                     :by (vec3 20 20 5)))
(emit "plate" (difference plate hole))
`
	scene, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}

	s := scene.Lookup("plate")
	if s == nil {
		t.Fatal("Lookup(plate) returned nil")
	}
	// Drilling cannot change the outer bounds.
	min, max := s.BoundingBox()
	if min != [3]float64{0, 0, 0} || max != [3]float64{40, 40, 10} {
		t.Errorf("plate bounds [%v, %v], want [0 0 0]..[40 40 10]", min, max)
	}
}

func TestEvaluateEmitOrderPreserved(t *testing.T) {
	eng := newTestEngine()

	source := `
(emit "first" (cube :x 1))
(emit "second" (cube :x 2))
(emit "third" (cube :x 3))
`
	scene, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("unexpected fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("unexpected eval errors: %v", evalErrs)
	}
	if len(scene.Solids) != 3 {
		t.Fatalf("expected 3 solids, got %d", len(scene.Solids))
	}
	for i, want := range []string{"first", "second", "third"} {
		if scene.Solids[i].Name != want {
			t.Errorf("solid %d named %q, want %q", i, scene.Solids[i].Name, want)
		}
	}
}

func TestEvaluateSyntaxError(t *testing.T) {
	eng := newTestEngine()

	// Unmatched paren is a parse error.
	scene, evalErrs, err := eng.Evaluate("(+ 1 2")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if scene != nil {
		t.Fatal("expected nil scene on syntax error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for syntax error")
	}
	if evalErrs[0].Message == "" {
		t.Error("eval error message should not be empty")
	}
}

func TestEvaluateUndefinedSymbol(t *testing.T) {
	eng := newTestEngine()

	scene, evalErrs, err := eng.Evaluate("(+ 1 undefined-symbol)")
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if scene != nil {
		t.Fatal("expected nil scene on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error for undefined symbol")
	}
}

func TestEvaluateBuiltinError(t *testing.T) {
	eng := newTestEngine()

	// A bad argument to a builtin surfaces as a non-fatal eval error.
	scene, evalErrs, err := eng.Evaluate(`(cube :x -5)`)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if scene != nil {
		t.Fatal("expected nil scene on builtin error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}
	if !strings.Contains(evalErrs[0].Message, "cube") {
		t.Errorf("error message %q should name the builtin", evalErrs[0].Message)
	}
}

func TestEvalErrorImplementsError(t *testing.T) {
	e := EvalError{Line: 5, Message: "something went wrong"}
	s := e.Error()
	if !strings.Contains(s, "line 5") {
		t.Errorf("Error() should contain line info, got: %s", s)
	}
	if !strings.Contains(s, "something went wrong") {
		t.Errorf("Error() should contain message, got: %s", s)
	}

	// No line info.
	e2 := EvalError{Message: "no location"}
	s2 := e2.Error()
	if strings.Contains(s2, "line") {
		t.Errorf("Error() with no line should not contain 'line', got: %s", s2)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	eng := newTestEngine()

	// Repeated evaluation of the same source produces equivalent scenes;
	// each run gets a fresh sandbox.
	for i := 0; i < 5; i++ {
		scene, evalErrs, err := eng.Evaluate(`(emit "part" (cube :x 2))`)
		if err != nil {
			t.Fatalf("iteration %d: unexpected fatal error: %v", i, err)
		}
		if len(evalErrs) > 0 {
			t.Fatalf("iteration %d: unexpected eval errors: %v", i, evalErrs)
		}
		if len(scene.Solids) != 1 {
			t.Errorf("iteration %d: expected 1 solid, got %d", i, len(scene.Solids))
		}
	}
}

func TestEvaluateTimeout(t *testing.T) {
	// Exercise the timeout plumbing directly with a channel that never
	// sends rather than hunting for a script zygomys would spin on.
	var mu sync.Mutex
	var gen uint64 = 1
	ch := make(chan evalResult) // never sends

	_, _, err := waitWithTimeout(ch, 10*time.Millisecond, 1, &mu, &gen)
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Errorf("expected timeout error message, got: %v", err)
	}
}

func TestEvaluateGenerationDiscardsStale(t *testing.T) {
	var mu sync.Mutex
	gen := uint64(2) // current generation is 2

	ch := make(chan evalResult, 1)
	ch <- evalResult{scene: &Scene{}}

	// Pass generation 1 (stale).
	_, _, err := waitWithTimeout(ch, time.Second, 1, &mu, &gen)
	if err == nil {
		t.Fatal("expected error for stale generation")
	}
	if !strings.Contains(err.Error(), "superseded") {
		t.Errorf("expected superseded error, got: %v", err)
	}
}

func TestEvaluateConcurrent(t *testing.T) {
	eng := newTestEngine()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Concurrent calls race on the generation counter; each either
			// completes or reports superseded, but never panics or corrupts
			// another call's scene.
			scene, evalErrs, err := eng.Evaluate(`(emit "part" (cube :x 1))`)
			if err != nil {
				if !strings.Contains(err.Error(), "superseded") {
					t.Errorf("unexpected fatal error: %v", err)
				}
				return
			}
			if len(evalErrs) > 0 {
				t.Errorf("unexpected eval errors: %v", evalErrs)
				return
			}
			if len(scene.Solids) != 1 {
				t.Errorf("expected 1 solid, got %d", len(scene.Solids))
			}
		}()
	}
	wg.Wait()
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
			msg:      "line 3: bad form",
			wantLine: 3,
			wantMsg:  "bad form",
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
