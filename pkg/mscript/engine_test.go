package mscript

import (
	"bytes"
	"strings"
	"testing"
)

func TestEvalHelloWorld(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	result := engine.Eval(` w "Hello, world!"`)
	if result.Output != "Hello, world!" {
		t.Errorf("output: got %q", result.Output)
	}
	if len(result.Errors) != 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
}

func TestEvalReturnsTotalResult(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	// A runtime failure still returns the output produced before it.
	result := engine.Eval(` w "partial" d $missing()`)
	if result.Output != "partial" {
		t.Errorf("output: got %q", result.Output)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors: got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0].Message, "Unknown tag") {
		t.Errorf("got message %q", result.Errors[0].Message)
	}
}

func TestEvalNeverPanics(t *testing.T) {
	engine, err := New(WithMaxSteps(10000))
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	inputs := []string{
		"",
		"\n\n\n",
		` w `,
		`)(`,
		` w "unterminated`,
		"\x00\xff\xfe",
		` w 1/0`,
		` s $E(x)=1`,
		strings.Repeat(" w 1\n", 1000),
		" . . . w 1",
		"tag(",
		` d $`,
		` w $`,
		` w $S()`,
	}

	for _, input := range inputs {
		result := engine.Eval(input)
		if result == nil {
			t.Fatalf("nil result for %q", input)
		}
	}
}

func TestEvalCollectsAllStages(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	// Lex error (unterminated string) on line 0, parse error on line 1.
	result := engine.Eval(" w \"oops\n w )")
	if len(result.Errors) < 2 {
		t.Fatalf("expected lex and parse errors, got %v", result.Errors)
	}
}

func TestEvalDiagnosticPositionsAreZeroIndexed(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	result := engine.Eval("w 1")
	if len(result.Errors) != 1 {
		t.Fatalf("errors: got %v", result.Errors)
	}
	e := result.Errors[0]
	if e.Message != "Expected command name" || e.Line != 0 || e.Column != 2 {
		t.Errorf("got %q at %d:%d, want 'Expected command name' at 0:2", e.Message, e.Line, e.Column)
	}
}

func TestEngineIsReusable(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	first := engine.Eval(` s x=1 w x`)
	second := engine.Eval(` w "[",x,"]"`)
	if first.Output != "1" {
		t.Errorf("first output: got %q", first.Output)
	}
	// The variable store is fresh per evaluation.
	if second.Output != "[]" {
		t.Errorf("second output: got %q", second.Output)
	}
}

func TestWithOutput(t *testing.T) {
	var buf bytes.Buffer
	engine, err := New(WithOutput(&buf))
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	engine.Eval(` w "tee"`)
	if buf.String() != "tee" {
		t.Errorf("writer received %q", buf.String())
	}
}

func TestWithOutputNil(t *testing.T) {
	if _, err := New(WithOutput(nil)); err == nil {
		t.Error("expected error for nil writer")
	}
}

func TestWithMaxStepsNegative(t *testing.T) {
	if _, err := New(WithMaxSteps(-1)); err == nil {
		t.Error("expected error for negative max steps")
	}
}

func TestWithMaxStepsBoundsExecution(t *testing.T) {
	engine, err := New(WithMaxSteps(50))
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	result := engine.Eval(` f  s x=1`)
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0].Message, "step limit") {
		t.Errorf("got %v", result.Errors)
	}
}

func TestWithRandSeedIsDeterministic(t *testing.T) {
	src := ` f i=1:1:10 w $R(99),";"`

	run := func() string {
		engine, err := New(WithRandSeed(42))
		if err != nil {
			t.Fatalf("failed to create engine: %v", err)
		}
		return engine.Eval(src).Output
	}

	if run() != run() {
		t.Error("same seed produced different sequences")
	}
}

func TestParseWithoutExecution(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	routine, diags := engine.Parse(" w \"side effect\"\nmain w 1")
	if len(diags) != 0 {
		t.Fatalf("diags: %v", diags)
	}
	if len(routine.Commands) != 2 {
		t.Errorf("commands: got %d, want 2", len(routine.Commands))
	}
	if _, ok := routine.Tags["main"]; !ok {
		t.Error("tag main missing")
	}
}
