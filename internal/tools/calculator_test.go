package tools

import (
	"context"
	"strings"
	"testing"
)

func TestCalculatorOperations(t *testing.T) {
	cases := []struct {
		operation string
		a, b      float64
		want      string
	}{
		{"add", 1, 2, "3"},
		{"subtract", 10, 4, "6"},
		{"multiply", 25, 17, "425"},
		{"divide", 9, 2, "4.5"},
		{"multiply", 2.5, 2, "5"},
		{"subtract", 1, 2.5, "-1.5"},
	}
	calc := CalculatorTool{}
	for _, tc := range cases {
		got, err := calc.Execute(context.Background(), map[string]any{
			"operation": tc.operation,
			"a":         tc.a,
			"b":         tc.b,
		})
		if err != nil {
			t.Fatalf("%s(%v, %v): %v", tc.operation, tc.a, tc.b, err)
		}
		if got != tc.want {
			t.Fatalf("%s(%v, %v) = %q, want %q", tc.operation, tc.a, tc.b, got, tc.want)
		}
	}
}

func TestCalculatorDivisionByZeroIsTextResult(t *testing.T) {
	calc := CalculatorTool{}
	got, err := calc.Execute(context.Background(), map[string]any{
		"operation": "divide", "a": 1.0, "b": 0.0,
	})
	if err != nil {
		t.Fatalf("division by zero must not return an error, got %v", err)
	}
	if got != "Error: division by zero" {
		t.Fatalf("result = %q, want %q", got, "Error: division by zero")
	}
}

func TestCalculatorUnknownOperationIsTextResult(t *testing.T) {
	calc := CalculatorTool{}
	got, err := calc.Execute(context.Background(), map[string]any{
		"operation": "modulo", "a": 5.0, "b": 3.0,
	})
	if err != nil {
		t.Fatalf("unknown operation must not return an error, got %v", err)
	}
	if got != "Error: unknown operation 'modulo'" {
		t.Fatalf("result = %q", got)
	}
}

func TestCalculatorMissingArgumentFails(t *testing.T) {
	calc := CalculatorTool{}
	_, err := calc.Execute(context.Background(), map[string]any{"operation": "add", "a": 1.0})
	if err == nil {
		t.Fatalf("expected missing argument to fail")
	}
	if !strings.Contains(err.Error(), `"b"`) {
		t.Fatalf("error should name the missing argument, got %q", err.Error())
	}
}

func TestCalculatorRejectsNonNumericOperand(t *testing.T) {
	calc := CalculatorTool{}
	_, err := calc.Execute(context.Background(), map[string]any{
		"operation": "add", "a": "one", "b": 2.0,
	})
	if err == nil {
		t.Fatalf("expected non-numeric operand to fail")
	}
}

func TestCalculatorViaRegistryRawArguments(t *testing.T) {
	r := DefaultRegistry()
	got, err := r.Execute(context.Background(), "calculator", `{"operation":"multiply","a":25,"b":17}`)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got != "425" {
		t.Fatalf("result = %q, want 425", got)
	}
}
