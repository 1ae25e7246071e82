// Package mscript is the public embedding API for the mscript interpreter.
//
// The Engine evaluates source text and returns the accumulated program
// output together with every diagnostic produced along the way. Evaluation
// is total: any input string yields a Result, never a panic.
//
//	engine, _ := mscript.New()
//	result := engine.Eval(` w "hello"`)
//	fmt.Println(result.Output)
package mscript

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/Zorbn/mscript/internal/interp"
	"github.com/Zorbn/mscript/internal/lexer"
	"github.com/Zorbn/mscript/internal/parser"
	"github.com/Zorbn/mscript/pkg/ast"
)

// Diagnostic is one error produced during evaluation. Line and Column are
// the 0-indexed position of the offending token.
type Diagnostic struct {
	Line    int
	Column  int
	Message string
}

// String renders the diagnostic as "message at line:column".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s at %d:%d", d.Message, d.Line, d.Column)
}

// Result is the outcome of evaluating a source string. Both fields are
// always populated: a failing program still returns the output produced
// before the failure.
type Result struct {
	Output string
	Errors []Diagnostic
}

// Option configures an Engine.
type Option func(*Engine) error

// WithOutput sets a writer that receives the program output when each
// evaluation ends. Output is never flushed mid-run.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) error {
		if w == nil {
			return fmt.Errorf("output writer must not be nil")
		}
		e.out = w
		return nil
	}
}

// WithRandSeed seeds the random number source used by $random. Without this
// option the source is deterministic with a fixed seed.
func WithRandSeed(seed int64) Option {
	return func(e *Engine) error {
		e.interp.SetRand(rand.New(rand.NewSource(seed)))
		return nil
	}
}

// WithMaxSteps bounds the number of steps per evaluation: each command
// executed and each for-loop iteration counts as one step. Zero means
// unlimited. A program exceeding the bound halts with a diagnostic;
// this is the only way to bound a non-terminating script.
func WithMaxSteps(n int) Option {
	return func(e *Engine) error {
		if n < 0 {
			return fmt.Errorf("max steps must not be negative")
		}
		e.interp.SetMaxSteps(n)
		return nil
	}
}

// Engine evaluates mscript source. An Engine is reusable across Eval calls;
// registered functions persist, while the variable store is fresh per call.
// It is not safe for concurrent use.
type Engine struct {
	interp     *interp.Interp
	out        io.Writer
	registered map[string]bool
}

// New creates an Engine with the given options.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		interp:     interp.New(),
		registered: make(map[string]bool),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// Parse parses source without executing it, returning the routine and any
// lexical or syntactic diagnostics.
func (e *Engine) Parse(source string) (*ast.Routine, []Diagnostic) {
	l := lexer.New()
	grid := l.Lex(source)

	p := parser.New(grid)
	routine := p.Parse()

	var diags []Diagnostic
	for _, err := range l.Errors() {
		diags = append(diags, Diagnostic{Line: err.Pos.Line, Column: err.Pos.Column, Message: err.Message})
	}
	for _, err := range p.Errors() {
		diags = append(diags, Diagnostic{Line: err.Pos.Line, Column: err.Pos.Column, Message: err.Message})
	}
	return routine, diags
}

// Eval evaluates a source string: tokenize, parse, execute. The returned
// Result carries the whole program output and every diagnostic from all
// three stages. Eval never panics.
func (e *Engine) Eval(source string) (result *Result) {
	result = &Result{}

	defer func() {
		if r := recover(); r != nil {
			result.Errors = append(result.Errors, Diagnostic{
				Message: fmt.Sprintf("internal error: %v", r),
			})
		}
		if e.out != nil && result.Output != "" {
			io.WriteString(e.out, result.Output)
		}
	}()

	routine, diags := e.Parse(source)
	result.Errors = diags

	result.Output = e.interp.Run(routine)
	for _, d := range e.interp.Errors() {
		result.Errors = append(result.Errors, Diagnostic{
			Line:    d.Pos.Line,
			Column:  d.Pos.Column,
			Message: d.Message,
		})
	}

	return result
}
