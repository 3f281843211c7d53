// Package engine evaluates carve's Lisp DSL. It wraps zygomys in a
// sandboxed environment and produces a Scene of named solids built
// through a geometry kernel.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/chazu/carve/pkg/kernel"
)

// DefaultTimeout is the hard limit for a single evaluation unless the
// Engine is configured otherwise.
const DefaultTimeout = 10 * time.Second

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Engine wraps the zygomys interpreter for carve script evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
//
// Timeout and Log may be set between New and the first Evaluate call.
type Engine struct {
	// Timeout bounds a single Evaluate call.
	Timeout time.Duration
	// Log receives debug-level evaluation traces.
	Log zerolog.Logger

	kernel     kernel.Kernel
	mu         sync.Mutex
	generation uint64
}

// New creates an Engine whose builtins construct geometry on k.
func New(k kernel.Kernel) *Engine {
	return &Engine{
		Timeout: DefaultTimeout,
		Log:     zerolog.Nop(),
		kernel:  k,
	}
}

// Evaluate runs a carve script and produces the Scene it emits.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: scene + nil errors + nil error
//   - On parse/eval failure: nil scene + eval errors + nil error
//   - On fatal failure (timeout, panic): nil + nil + error
func (e *Engine) Evaluate(source string) (*Scene, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		start := time.Now()
		scene, evalErrs, err := e.evaluate(source)
		if scene != nil {
			e.Log.Debug().
				Dur("elapsed", time.Since(start)).
				Int("solids", len(scene.Solids)).
				Msg("script evaluated")
		}
		ch <- evalResult{scene: scene, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, e.Timeout, gen, &e.mu, &e.generation)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Scene, []EvalError, error) {
	// An empty script is a valid program producing an empty scene.
	if strings.TrimSpace(source) == "" {
		return &Scene{}, nil, nil
	}

	env, scene := newSandbox(e.kernel, e.Log)
	defer env.Stop()

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return scene, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError
// values, extracting line numbers from the message where possible.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, pat := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := pat.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
