package mscript

import (
	"strings"
	"testing"
)

func TestRegisterInvalidFunction(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	if err := engine.RegisterFunction("Test", nil); err == nil {
		t.Errorf("expected error for nil function")
	}
	if err := engine.RegisterFunction("Test", "not a function"); err == nil {
		t.Errorf("expected error for non-function value")
	}
	if err := engine.RegisterFunction("", func() {}); err == nil {
		t.Errorf("expected error for empty name")
	}
}

func TestRegisterDuplicateFunction(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	if err := engine.RegisterFunction("Test", func() {}); err != nil {
		t.Fatalf("failed to register first function: %v", err)
	}
	if err := engine.RegisterFunction("Test", func() {}); err == nil {
		t.Errorf("expected error for duplicate function name")
	}
}

func TestRegisterFunctionTypeValidation(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	if err := engine.RegisterFunction("BadParam", func(ch chan int) {}); err == nil {
		t.Errorf("expected error for unsupported parameter type")
	}
	if err := engine.RegisterFunction("BadReturn", func() chan int { return nil }); err == nil {
		t.Errorf("expected error for unsupported return type")
	}
	if err := engine.RegisterFunction("TwoReturns", func() (int64, int64) { return 0, 0 }); err == nil {
		t.Errorf("expected error for multiple return values")
	}
	if err := engine.RegisterFunction("Variadic", func(args ...string) {}); err == nil {
		t.Errorf("expected error for variadic function")
	}
}

func TestRegisterFunctionSupportedSignatures(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	tests := []struct {
		name string
		fn   any
	}{
		{"NoArgs", func() {}},
		{"StringArg", func(s string) {}},
		{"FloatArg", func(f float64) {}},
		{"IntArg", func(n int64) {}},
		{"BoolArg", func(b bool) {}},
		{"StringReturn", func() string { return "" }},
		{"Mixed", func(s string, n int64, f float64) bool { return false }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := engine.RegisterFunction(tt.name, tt.fn); err != nil {
				t.Errorf("registration failed: %v", err)
			}
		})
	}
}

func TestCallHostFunctionWithReturn(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	if err := engine.RegisterFunction("Add", func(a, b int64) int64 { return a + b }); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	result := engine.Eval(` w $$Add(2,3)`)
	if len(result.Errors) != 0 {
		t.Fatalf("errors: %v", result.Errors)
	}
	if result.Output != "5" {
		t.Errorf("output: got %q, want 5", result.Output)
	}
}

func TestCallHostFunctionAsStatement(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}

	var logged []string
	if err := engine.RegisterFunction("Log", func(msg string) {
		logged = append(logged, msg)
	}); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	result := engine.Eval(` d $Log("one") d $Log("two")`)
	if len(result.Errors) != 0 {
		t.Fatalf("errors: %v", result.Errors)
	}
	if strings.Join(logged, ",") != "one,two" {
		t.Errorf("logged: %v", logged)
	}
}

func TestCallHostFunctionNoReturnYieldsEmpty(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	if err := engine.RegisterFunction("Noop", func() {}); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	result := engine.Eval(` w "[",$$Noop(),"]"`)
	if result.Output != "[]" {
		t.Errorf("output: got %q, want []", result.Output)
	}
}

func TestCallHostFunctionCoercesArguments(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	if err := engine.RegisterFunction("Echo", func(s string) string { return s }); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	// A numeric argument crosses the boundary as its canonical string.
	result := engine.Eval(` w $$Echo(2.50)`)
	if result.Output != "2.5" {
		t.Errorf("output: got %q, want 2.5", result.Output)
	}
}

func TestCallHostFunctionMissingArgsCoerceFromEmpty(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	if err := engine.RegisterFunction("Sum", func(a, b float64) float64 { return a + b }); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	result := engine.Eval(` w $$Sum(3)`)
	if result.Output != "3" {
		t.Errorf("output: got %q, want 3", result.Output)
	}
}

func TestHostFunctionsPersistAcrossEvals(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	if err := engine.RegisterFunction("One", func() int64 { return 1 }); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		result := engine.Eval(` w $$One()`)
		if result.Output != "1" {
			t.Fatalf("eval %d: got %q", i, result.Output)
		}
	}
}

func TestUserTagShadowsHostFunction(t *testing.T) {
	engine, err := New()
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	if err := engine.RegisterFunction("f", func() string { return "host" }); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	result := engine.Eval(" w $$f()\nf q \"tag\"")
	if result.Output != "tag" {
		t.Errorf("output: got %q, want tag", result.Output)
	}
}
